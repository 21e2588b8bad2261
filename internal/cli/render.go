package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/vovakirdan/ichi/internal/proto"
)

// table is the part of the server's game view the terminal shows.
type table struct {
	ID          int64    `json:"id"`
	GameCode    string   `json:"gameCode"`
	Host        string   `json:"host"`
	Started     bool     `json:"started"`
	Players     []seat   `json:"players"`
	Hand        []string `json:"hand"`
	TopCard     string   `json:"topCard"`
	Color       string   `json:"color"`
	Turn        int      `json:"turn"`
	Direction   int      `json:"direction"`
	Winner      string   `json:"winner"`
	TurnExpires int64    `json:"turnExpires"`
}

type seat struct {
	Username string `json:"username"`
	HandSize int    `json:"handSize"`
	Ichi     bool   `json:"ichi"`
}

var colorNames = map[string]string{"R": "red", "G": "green", "B": "blue", "Y": "yellow"}

func renderView(w io.Writer, view *proto.GameView, me string, now time.Time) {
	var t table
	if err := view.Decode(&t); err != nil {
		fmt.Fprintf(w, "Game %s (state %d)\n", view.GameCode, view.ID)
		return
	}

	fmt.Fprintf(w, "Game %s (state %d)\n", t.GameCode, t.ID)
	players := lo.Map(t.Players, func(p seat, i int) string {
		s := fmt.Sprintf("%s[%d]", p.Username, p.HandSize)
		if p.Ichi {
			s += " ICHI"
		}
		if t.Started && t.Winner == "" && i == t.Turn {
			s = "> " + s
		}
		return s
	})
	fmt.Fprintf(w, "  players: %s\n", strings.Join(players, ", "))

	switch {
	case t.Winner != "":
		fmt.Fprintf(w, "  %s wins!\n", t.Winner)
	case !t.Started:
		if t.Host == me {
			fmt.Fprintln(w, "  waiting for players; type 'start' when ready")
		} else {
			fmt.Fprintf(w, "  waiting for %s to start\n", t.Host)
		}
	default:
		fmt.Fprintf(w, "  top: %s  color: %s\n", t.TopCard, lo.ValueOr(colorNames, t.Color, t.Color))
		if t.Turn >= 0 && t.Turn < len(t.Players) {
			line := fmt.Sprintf("  turn: %s", t.Players[t.Turn].Username)
			if t.TurnExpires > 0 {
				left := time.Unix(t.TurnExpires, 0).Sub(now).Round(time.Second)
				line += fmt.Sprintf(" (%s left)", lo.Ternary(left > 0, left, 0))
			}
			fmt.Fprintln(w, line)
		}
	}
	if len(t.Hand) > 0 {
		fmt.Fprintf(w, "  hand: %s\n", strings.Join(t.Hand, " "))
	}
}
