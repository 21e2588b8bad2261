package game

import (
	"math/rand"
	"strings"
)

// Card is a card identifier: a color letter followed by a value ("R7", "GS"),
// or "W" for a wild card.
type Card string

// Colors in deck order.
var Colors = []string{"R", "G", "B", "Y"}

const (
	Wild    Card = "W"
	Skip         = "S"
	Reverse      = "R"
	DrawTwo      = "D"
)

// Color returns the card's color letter, or "" for a wild card.
func (c Card) Color() string {
	if c == Wild || len(c) < 2 {
		return ""
	}
	return string(c[:1])
}

// Value returns the card's value ("0"-"9", "S", "R", "D"), or "W".
func (c Card) Value() string {
	if c == Wild {
		return string(Wild)
	}
	if len(c) < 2 {
		return ""
	}
	return string(c[1:])
}

// Valid reports whether c names a card of the deck.
func (c Card) Valid() bool {
	if c == Wild {
		return true
	}
	if len(c) != 2 || !validColor(c.Color()) {
		return false
	}
	return strings.Contains("0123456789SRD", c.Value())
}

func validColor(color string) bool {
	for _, c := range Colors {
		if c == color {
			return true
		}
	}
	return false
}

// NewDeck returns a full shuffled deck.
func NewDeck(rng *rand.Rand) []Card {
	deck := make([]Card, 0, 108)
	for _, color := range Colors {
		deck = append(deck, Card(color+"0"))
		for _, value := range []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", Skip, Reverse, DrawTwo} {
			deck = append(deck, Card(color+value), Card(color+value))
		}
	}
	for i := 0; i < 4; i++ {
		deck = append(deck, Wild)
	}
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	return deck
}
