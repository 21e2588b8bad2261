package game

import "github.com/samber/lo"

// View is the game as seen by one player: every hand but their own is hidden.
type View struct {
	ID          int64        `json:"id"`
	GameCode    string       `json:"gameCode"`
	Host        string       `json:"host"`
	Started     bool         `json:"started"`
	Players     []PlayerView `json:"players"`
	Hand        []Card       `json:"hand"`
	TopCard     Card         `json:"topCard,omitempty"`
	Color       string       `json:"color,omitempty"`
	Turn        int          `json:"turn"`
	Direction   int          `json:"direction"`
	Winner      string       `json:"winner,omitempty"`
	TurnExpires int64        `json:"turnExpires,omitempty"`
}

// PlayerView is the public part of a seat.
type PlayerView struct {
	Username string `json:"username"`
	HandSize int    `json:"handSize"`
	Ichi     bool   `json:"ichi"`
}

// ViewFor returns the view of the game for username.
func (g *Game) ViewFor(username string) View {
	v := View{
		ID:        g.ID,
		GameCode:  g.Code,
		Host:      g.Host(),
		Started:   g.Started,
		Hand:      []Card{},
		TopCard:   g.TopCard(),
		Color:     g.Color,
		Turn:      g.Turn,
		Direction: g.Direction,
		Winner:    g.Winner,
	}
	if !g.Deadline.IsZero() && g.Started && !g.Over() {
		v.TurnExpires = g.Deadline.Unix()
	}
	v.Players = lo.Map(g.Players, func(p *Player, _ int) PlayerView {
		return PlayerView{Username: p.Username, HandSize: len(p.Hand), Ichi: p.Ichi}
	})
	if p := g.player(username); p != nil {
		v.Hand = append(v.Hand, p.Hand...)
	}
	return v
}
