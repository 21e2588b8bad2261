package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ichi/internal/account"
)

var errNoUsername = errors.New("no username given; pass one or set client.username")

func newLoginCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "login [username]",
		Short: "Check your credentials with the server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return credentialsCommand(cmd, opts, args, account.Gateway.Login, "Logged in as %s\n")
		},
	}
}

func newRegisterCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "register [username]",
		Short: "Create an account",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return credentialsCommand(cmd, opts, args, account.Gateway.CreateAccount, "Created account %s\n")
		},
	}
}

func newStatsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [username]",
		Short: "Show games played and won",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username, err := pickUsername(opts, args)
			if err != nil {
				return err
			}
			stats, err := opts.gateway().FetchStatistics(cmd.Context(), username)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if stats == nil {
				fmt.Fprintf(out, "No statistics for %s\n", username)
				return nil
			}
			fmt.Fprintf(out, "%s: %d played, %d won\n", stats.Username, stats.GamesPlayed, stats.GamesWon)
			return nil
		},
	}
}

type credentialsFunc func(g account.Gateway, ctx context.Context, username, password string) (string, error)

// credentialsCommand prompts for a password and prints either done or the gateway's message.
func credentialsCommand(cmd *cobra.Command, opts *options, args []string, call credentialsFunc, done string) error {
	username, err := pickUsername(opts, args)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	password, err := readPassword(cmd.InOrStdin(), out)
	if err != nil {
		return err
	}

	msg, err := call(opts.gateway(), cmd.Context(), username, password)
	if err != nil {
		return err
	}
	if msg != "" {
		fmt.Fprintln(out, msg)
		return nil
	}
	fmt.Fprintf(out, done, username)
	return nil
}

func (o *options) gateway() account.Gateway {
	return account.NewClient(o.cfg.Client.APIURL, o.cfg.Client.HTTPTimeout, o.log)
}

func pickUsername(opts *options, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if opts.cfg.Client.Username != "" {
		return opts.cfg.Client.Username, nil
	}
	return "", errNoUsername
}

// readPassword reads one line from in. Terminal echo is left on.
func readPassword(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Password: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
