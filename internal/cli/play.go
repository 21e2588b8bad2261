package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ichi/internal/proto"
	"github.com/vovakirdan/ichi/internal/session"
	"github.com/vovakirdan/ichi/internal/utils"
)

const helpText = `commands:
  create              start a new game
  join CODE           join a game by its code
  start               deal the cards (host only)
  play CARD [COLOR]   play a card, e.g. 'play R7' or 'play W G'
  draw                draw a card and pass
  ichi                call ichi
  leave               leave the game
  show                print the table again
  quit                exit`

// Session is the action and read surface of a game session.
type Session interface {
	CreateGame(actor string)
	JoinGame(actor, code string)
	StartGame(actor string)
	Move(actor string, cards []string)
	Draw(actor string)
	CallIchi(actor string)
	LeaveGame()
	GameView() *proto.GameView
	JoinError() string
	State() session.ConnectionState
	Changes() <-chan struct{}
}

var _ Session = (*session.Store)(nil)

func newPlayCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play interactively",
		Long:  "Play interactively. Logs go to log_file so they do not mix with the table.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			username := opts.cfg.Client.Username
			if username == "" {
				username = utils.GuestName()
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			store := session.NewStore(opts.cfg.Client.GameEndpoint, session.WebSocketDialer{}, opts.log)
			go store.Run(ctx)

			return NewRepl(store, username, cmd.OutOrStdout()).Run(ctx, cmd.InOrStdin())
		},
	}
}

// Repl reads commands from a terminal and shows the published session state.
type Repl struct {
	s    Session
	user string

	mu  sync.Mutex
	out io.Writer

	// last printed values
	shownID    int64
	shownError string
	shownState session.ConnectionState
}

// NewRepl builds a Repl acting as user.
func NewRepl(s Session, user string, out io.Writer) *Repl {
	return &Repl{s: s, user: user, out: out, shownID: -1}
}

// Run processes lines from in until "quit", EOF or ctx is done.
func (r *Repl) Run(ctx context.Context, in io.Reader) error {
	r.printf("Playing as %s. Type 'help' for commands.\n", r.user)

	watchCtx, stop := context.WithCancel(ctx)
	defer stop()
	go r.watch(watchCtx)

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-watchCtx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			r.leave()
			return err
		case line := <-lines:
			if quit := r.exec(line); quit {
				r.leave()
				return nil
			}
		}
	}
}

func (r *Repl) exec(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "quit", "exit":
		return true
	case "help", "?":
		r.printf("%s\n", helpText)
	case "create":
		r.s.CreateGame(r.user)
	case "join":
		if len(args) != 1 {
			r.printf("usage: join CODE\n")
			return false
		}
		r.s.JoinGame(r.user, args[0])
	case "start":
		r.s.StartGame(r.user)
	case "play", "move":
		if len(args) == 0 || len(args) > 2 {
			r.printf("usage: play CARD [COLOR]\n")
			return false
		}
		cards := make([]string, len(args))
		for i, a := range args {
			cards[i] = strings.ToUpper(a)
		}
		r.s.Move(r.user, cards)
	case "draw":
		r.s.Draw(r.user)
	case "ichi":
		r.s.CallIchi(r.user)
	case "leave":
		r.s.LeaveGame()
	case "show":
		r.mu.Lock()
		r.showView(r.s.GameView())
		r.mu.Unlock()
	default:
		r.printf("unknown command %q; type 'help'\n", cmd)
	}
	return false
}

func (r *Repl) leave() {
	if r.s.GameView() != nil {
		r.s.LeaveGame()
	}
}

// watch prints published changes as they happen.
func (r *Repl) watch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.s.Changes():
			r.refresh()
		}
	}
}

func (r *Repl) refresh() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if je := r.s.JoinError(); je != r.shownError {
		r.shownError = je
		if je != "" {
			fmt.Fprintf(r.out, "! %s\n", je)
		}
	}

	view := r.s.GameView()
	switch {
	case view == nil && r.shownID != -1:
		r.shownID = -1
		fmt.Fprintln(r.out, "left the game")
	case view != nil && view.ID != r.shownID:
		r.shownID = view.ID
		r.showView(view)
	}

	if st := r.s.State(); st != r.shownState {
		r.shownState = st
		if st == session.StateConnecting {
			fmt.Fprintln(r.out, "connecting...")
		}
	}
}

func (r *Repl) showView(view *proto.GameView) {
	if view == nil {
		fmt.Fprintln(r.out, "not in a game")
		return
	}
	renderView(r.out, view, r.user, time.Now())
}

func (r *Repl) printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, format, args...)
}
