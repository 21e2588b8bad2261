package game

import (
	"errors"
	"math/rand"
	"time"

	"github.com/samber/lo"
)

const (
	MinPlayers = 2
	MaxPlayers = 6
	HandSize   = 7
	// IchiPenalty is the number of cards drawn when caught without calling ichi.
	IchiPenalty = 2
)

var (
	ErrGameStarted     = errors.New("game already started")
	ErrGameNotStarted  = errors.New("game has not started")
	ErrGameOver        = errors.New("game is over")
	ErrGameFull        = errors.New("game is full")
	ErrNameTaken       = errors.New("username already in game")
	ErrNotInGame       = errors.New("not in this game")
	ErrNotHost         = errors.New("only the host can start the game")
	ErrTooFewPlayers   = errors.New("not enough players")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrNoCard          = errors.New("no card given")
	ErrUnknownCard     = errors.New("unknown card")
	ErrCardNotInHand   = errors.New("card not in hand")
	ErrCardDoesntMatch = errors.New("card does not match")
	ErrChooseColor     = errors.New("wild card needs a color")
	ErrNothingToCall   = errors.New("nobody to call ichi on")
)

// Player is a seat at the table.
type Player struct {
	Username string
	Hand     []Card
	Ichi     bool // announced a last card
}

// Game is the authoritative state of one table. It is not safe for
// concurrent use; the hub owns each game exclusively.
type Game struct {
	Code      string
	ID        int64
	Started   bool
	Players   []*Player
	Color     string
	Turn      int
	Direction int
	Winner    string
	Deadline  time.Time

	deck    []Card
	discard []Card
	exposed string // player with one card who has not called ichi yet
	rng     *rand.Rand
}

// New creates a game with creator as host.
func New(code, creator string, rng *rand.Rand) *Game {
	g := &Game{
		Code:      code,
		ID:        1,
		Direction: 1,
		rng:       rng,
	}
	g.Players = append(g.Players, &Player{Username: creator})
	return g
}

// Host returns the username allowed to start the game.
func (g *Game) Host() string {
	if len(g.Players) == 0 {
		return ""
	}
	return g.Players[0].Username
}

// Over reports whether a winner has been decided.
func (g *Game) Over() bool {
	return g.Winner != ""
}

// Usernames lists players in seat order.
func (g *Game) Usernames() []string {
	return lo.Map(g.Players, func(p *Player, _ int) string { return p.Username })
}

// TopCard returns the card on the discard pile.
func (g *Game) TopCard() Card {
	if len(g.discard) == 0 {
		return ""
	}
	return g.discard[len(g.discard)-1]
}

// Current returns the player whose turn it is.
func (g *Game) Current() *Player {
	if !g.Started || len(g.Players) == 0 {
		return nil
	}
	return g.Players[g.Turn]
}

// Join seats a new player.
func (g *Game) Join(username string) error {
	if g.Started {
		return ErrGameStarted
	}
	if len(g.Players) >= MaxPlayers {
		return ErrGameFull
	}
	if g.player(username) != nil {
		return ErrNameTaken
	}
	g.Players = append(g.Players, &Player{Username: username})
	g.ID++
	return nil
}

// Leave removes a player. A started game with one player left is won by that player.
func (g *Game) Leave(username string) {
	idx := lo.IndexOf(g.Usernames(), username)
	if idx < 0 {
		return
	}
	g.Players = append(g.Players[:idx], g.Players[idx+1:]...)
	if g.exposed == username {
		g.exposed = ""
	}
	if len(g.Players) == 0 {
		g.ID++
		return
	}
	if g.Started {
		n := len(g.Players)
		switch {
		case idx < g.Turn:
			g.Turn--
		case idx == g.Turn && g.Direction > 0:
			g.Turn = idx % n
		case idx == g.Turn:
			g.Turn = (idx - 1 + n) % n
		}
		if n == 1 && !g.Over() {
			g.Winner = g.Players[0].Username
		}
	}
	g.ID++
}

// Start deals the cards and flips the first non-wild card.
func (g *Game) Start(username string) error {
	if g.Started {
		return ErrGameStarted
	}
	if username != g.Host() {
		return ErrNotHost
	}
	if len(g.Players) < MinPlayers {
		return ErrTooFewPlayers
	}

	g.deck = NewDeck(g.rng)
	for _, p := range g.Players {
		p.Hand = g.take(HandSize)
	}
	for {
		c := g.take(1)[0]
		if c != Wild {
			g.discard = append(g.discard, c)
			g.Color = c.Color()
			break
		}
		g.deck = append([]Card{c}, g.deck...)
	}
	g.Started = true
	g.Turn = 0
	g.Direction = 1
	g.ID++
	return nil
}

// Play puts data[0] on the discard pile. A wild card takes the chosen color in data[1].
func (g *Game) Play(username string, data []string) error {
	p, err := g.turnOf(username)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return ErrNoCard
	}
	card := Card(data[0])
	if !card.Valid() {
		return ErrUnknownCard
	}
	idx := lo.IndexOf(p.Hand, card)
	if idx < 0 {
		return ErrCardNotInHand
	}
	color := card.Color()
	if card == Wild {
		if len(data) < 2 || !validColor(data[1]) {
			return ErrChooseColor
		}
		color = data[1]
	} else if color != g.Color && card.Value() != g.TopCard().Value() {
		return ErrCardDoesntMatch
	}

	g.exposed = ""
	p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
	g.discard = append(g.discard, card)
	g.Color = color
	g.ID++

	switch len(p.Hand) {
	case 0:
		g.Winner = p.Username
		return nil
	case 1:
		if !p.Ichi {
			g.exposed = p.Username
		}
	default:
		p.Ichi = false
	}

	switch card.Value() {
	case Skip:
		g.advance(2)
	case Reverse:
		g.Direction = -g.Direction
		if len(g.Players) == 2 {
			g.advance(2)
		} else {
			g.advance(1)
		}
	case DrawTwo:
		g.advance(1)
		g.give(g.Players[g.Turn], 2)
		g.advance(1)
	default:
		g.advance(1)
	}
	return nil
}

// Draw takes one card and passes the turn.
func (g *Game) Draw(username string) error {
	p, err := g.turnOf(username)
	if err != nil {
		return err
	}
	g.exposed = ""
	g.give(p, 1)
	g.advance(1)
	g.ID++
	return nil
}

// CallIchi announces a last card, or catches the player who did not.
func (g *Game) CallIchi(username string) error {
	if err := g.playing(); err != nil {
		return err
	}
	p := g.player(username)
	if p == nil {
		return ErrNotInGame
	}
	if len(p.Hand) <= 2 && !p.Ichi {
		p.Ichi = true
		if g.exposed == username {
			g.exposed = ""
		}
		g.ID++
		return nil
	}
	if g.exposed != "" && g.exposed != username {
		if target := g.player(g.exposed); target != nil {
			g.give(target, IchiPenalty)
		}
		g.exposed = ""
		g.ID++
		return nil
	}
	return ErrNothingToCall
}

// Timeout makes the current player draw a card and passes the turn.
func (g *Game) Timeout() {
	p := g.Current()
	if p == nil || g.Over() {
		return
	}
	g.exposed = ""
	g.give(p, 1)
	g.advance(1)
	g.ID++
}

func (g *Game) playing() error {
	if !g.Started {
		return ErrGameNotStarted
	}
	if g.Over() {
		return ErrGameOver
	}
	return nil
}

func (g *Game) turnOf(username string) (*Player, error) {
	if err := g.playing(); err != nil {
		return nil, err
	}
	p := g.player(username)
	if p == nil {
		return nil, ErrNotInGame
	}
	if g.Current() != p {
		return nil, ErrNotYourTurn
	}
	return p, nil
}

func (g *Game) player(username string) *Player {
	p, _ := lo.Find(g.Players, func(p *Player) bool { return p.Username == username })
	return p
}

func (g *Game) advance(steps int) {
	n := len(g.Players)
	g.Turn = ((g.Turn+g.Direction*steps)%n + n) % n
}

func (g *Game) give(p *Player, n int) {
	p.Hand = append(p.Hand, g.take(n)...)
	if len(p.Hand) > 1 {
		p.Ichi = false
	}
}

// take draws up to n cards, reshuffling the discard pile under the top card when the deck runs out.
func (g *Game) take(n int) []Card {
	out := make([]Card, 0, n)
	for len(out) < n {
		if len(g.deck) == 0 {
			if len(g.discard) <= 1 {
				break
			}
			top := g.discard[len(g.discard)-1]
			g.deck = append(g.deck, g.discard[:len(g.discard)-1]...)
			g.discard = []Card{top}
			g.rng.Shuffle(len(g.deck), func(i, j int) { g.deck[i], g.deck[j] = g.deck[j], g.deck[i] })
		}
		out = append(out, g.deck[len(g.deck)-1])
		g.deck = g.deck[:len(g.deck)-1]
	}
	return out
}
