package game

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStarted(t *testing.T, names ...string) *Game {
	t.Helper()
	g := New("ABCD", names[0], rand.New(rand.NewSource(1)))
	for _, n := range names[1:] {
		require.NoError(t, g.Join(n))
	}
	require.NoError(t, g.Start(names[0]))
	return g
}

// rig replaces hands and the discard pile with known cards.
func rig(g *Game, top Card, hands ...[]Card) {
	for i, h := range hands {
		g.Players[i].Hand = append([]Card{}, h...)
		g.Players[i].Ichi = false
	}
	g.discard = []Card{top}
	g.Color = top.Color()
}

func TestDeckComposition(t *testing.T) {
	deck := NewDeck(rand.New(rand.NewSource(7)))
	assert.Len(t, deck, 104)

	counts := map[Card]int{}
	for _, c := range deck {
		require.True(t, c.Valid(), "invalid card %q", c)
		counts[c]++
	}
	assert.Equal(t, 4, counts[Wild])
	assert.Equal(t, 1, counts["R0"])
	assert.Equal(t, 2, counts["GS"])
}

func TestCardParts(t *testing.T) {
	assert.Equal(t, "R", Card("R7").Color())
	assert.Equal(t, "7", Card("R7").Value())
	assert.Equal(t, "", Wild.Color())
	assert.False(t, Card("X7").Valid())
	assert.False(t, Card("R").Valid())
	assert.False(t, Card("RX").Valid())
}

func TestJoinAndStart(t *testing.T) {
	g := New("ABCD", "alice", rand.New(rand.NewSource(1)))
	assert.Equal(t, int64(1), g.ID)

	assert.ErrorIs(t, g.Start("alice"), ErrTooFewPlayers)
	require.NoError(t, g.Join("bob"))
	assert.ErrorIs(t, g.Join("bob"), ErrNameTaken)
	assert.ErrorIs(t, g.Start("bob"), ErrNotHost)

	require.NoError(t, g.Start("alice"))
	assert.True(t, g.Started)
	assert.Len(t, g.Players[0].Hand, HandSize)
	assert.Len(t, g.Players[1].Hand, HandSize)
	assert.NotEqual(t, Wild, g.TopCard())
	assert.Equal(t, g.TopCard().Color(), g.Color)
	assert.ErrorIs(t, g.Join("carol"), ErrGameStarted)
}

func TestJoinFullGame(t *testing.T) {
	g := New("ABCD", "p0", rand.New(rand.NewSource(1)))
	for _, n := range []string{"p1", "p2", "p3", "p4", "p5"} {
		require.NoError(t, g.Join(n))
	}
	assert.ErrorIs(t, g.Join("p6"), ErrGameFull)
}

func TestPlayMatchingRules(t *testing.T) {
	g := newStarted(t, "alice", "bob")
	rig(g, "R5", []Card{"G5", "B2", "R9", "W"}, []Card{"Y1", "Y2"})

	assert.ErrorIs(t, g.Play("bob", []string{"Y1"}), ErrNotYourTurn)
	assert.ErrorIs(t, g.Play("alice", nil), ErrNoCard)
	assert.ErrorIs(t, g.Play("alice", []string{"Q1"}), ErrUnknownCard)
	assert.ErrorIs(t, g.Play("alice", []string{"Y1"}), ErrCardNotInHand)
	assert.ErrorIs(t, g.Play("alice", []string{"B2"}), ErrCardDoesntMatch)

	before := g.ID
	require.NoError(t, g.Play("alice", []string{"G5"}))
	assert.Equal(t, before+1, g.ID)
	assert.Equal(t, Card("G5"), g.TopCard())
	assert.Equal(t, "G", g.Color)
	assert.Equal(t, 1, g.Turn)
}

func TestWildNeedsColor(t *testing.T) {
	g := newStarted(t, "alice", "bob")
	rig(g, "R5", []Card{"W", "B2", "B3"}, []Card{"Y1", "Y2"})

	assert.ErrorIs(t, g.Play("alice", []string{"W"}), ErrChooseColor)
	assert.ErrorIs(t, g.Play("alice", []string{"W", "P"}), ErrChooseColor)
	require.NoError(t, g.Play("alice", []string{"W", "Y"}))
	assert.Equal(t, "Y", g.Color)
}

func TestActionCards(t *testing.T) {
	g := newStarted(t, "a", "b", "c")
	rig(g, "R5", []Card{"RS", "R1", "R2"}, []Card{"R3", "R4"}, []Card{"RD", "RR", "R6"})

	require.NoError(t, g.Play("a", []string{"RS"}))
	assert.Equal(t, 2, g.Turn, "skip passes over b")

	require.NoError(t, g.Play("c", []string{"RR"}))
	assert.Equal(t, -1, g.Direction)
	assert.Equal(t, 1, g.Turn, "reverse goes back to b")

	require.NoError(t, g.Play("b", []string{"R3"}))
	assert.Equal(t, 0, g.Turn)

	require.NoError(t, g.Play("a", []string{"R1"}))
	assert.Equal(t, 2, g.Turn)
	require.NoError(t, g.Play("c", []string{"RD"}))
	assert.Len(t, g.Players[1].Hand, 3, "b draws two")
	assert.Equal(t, 0, g.Turn, "b is skipped")
}

func TestDrawPassesTurn(t *testing.T) {
	g := newStarted(t, "alice", "bob")
	rig(g, "R5", []Card{"B1"}, []Card{"Y1"})

	require.NoError(t, g.Draw("alice"))
	assert.Len(t, g.Players[0].Hand, 2)
	assert.Equal(t, 1, g.Turn)
	assert.ErrorIs(t, g.Draw("alice"), ErrNotYourTurn)
}

func TestIchiPenalty(t *testing.T) {
	g := newStarted(t, "alice", "bob")
	rig(g, "R5", []Card{"R1", "R2"}, []Card{"Y1", "Y2", "Y3"})

	require.NoError(t, g.Play("alice", []string{"R1"}))
	assert.Equal(t, "alice", g.exposed)

	require.NoError(t, g.CallIchi("bob"))
	assert.Len(t, g.Players[0].Hand, 1+IchiPenalty)
	assert.ErrorIs(t, g.CallIchi("bob"), ErrNothingToCall)
}

func TestIchiCalledInTime(t *testing.T) {
	g := newStarted(t, "alice", "bob")
	rig(g, "R5", []Card{"R1", "R2"}, []Card{"Y1", "Y2", "Y3"})

	require.NoError(t, g.CallIchi("alice"))
	require.NoError(t, g.Play("alice", []string{"R1"}))
	assert.Empty(t, g.exposed)
	assert.ErrorIs(t, g.CallIchi("bob"), ErrNothingToCall)
	assert.True(t, g.ViewFor("bob").Players[0].Ichi)
}

func TestWinningEndsGame(t *testing.T) {
	g := newStarted(t, "alice", "bob")
	rig(g, "R5", []Card{"R1"}, []Card{"Y1"})

	require.NoError(t, g.Play("alice", []string{"R1"}))
	assert.Equal(t, "alice", g.Winner)
	assert.True(t, errors.Is(g.Draw("bob"), ErrGameOver))
}

func TestTimeoutDrawsForCurrentPlayer(t *testing.T) {
	g := newStarted(t, "alice", "bob")
	rig(g, "R5", []Card{"B1"}, []Card{"Y1"})
	id := g.ID

	g.Timeout()
	assert.Len(t, g.Players[0].Hand, 2)
	assert.Equal(t, 1, g.Turn)
	assert.Equal(t, id+1, g.ID)
}

func TestLeaveAdjustsTurnAndDecidesWinner(t *testing.T) {
	g := newStarted(t, "a", "b", "c")
	g.Turn = 2

	g.Leave("a")
	assert.Equal(t, 1, g.Turn)
	assert.Equal(t, "c", g.Current().Username)

	g.Leave("c")
	assert.Equal(t, 0, g.Turn)
	assert.Equal(t, "b", g.Winner)
}

func TestViewHidesOtherHands(t *testing.T) {
	g := newStarted(t, "alice", "bob")
	rig(g, "R5", []Card{"B1", "B2"}, []Card{"Y1"})

	v := g.ViewFor("alice")
	assert.Equal(t, []Card{"B1", "B2"}, v.Hand)
	assert.Equal(t, "ABCD", v.GameCode)
	assert.Equal(t, g.ID, v.ID)
	assert.Equal(t, []PlayerView{{Username: "alice", HandSize: 2}, {Username: "bob", HandSize: 1}}, v.Players)

	assert.Empty(t, g.ViewFor("spectator").Hand)
}

func TestTakeReshufflesDiscard(t *testing.T) {
	g := newStarted(t, "alice", "bob")
	g.deck = nil
	g.discard = []Card{"R1", "R2", "R3"}

	got := g.take(2)
	assert.Len(t, got, 2)
	assert.Equal(t, []Card{"R3"}, g.discard)

	assert.Empty(t, g.take(1), "no cards left anywhere")
}
