package game

import (
	rand "math/rand/v2"
	"testing"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/stretchr/testify/require"
)

// hand builds a hand from card text such as "As Kd"
func hand(cards string) *Hand {
	return NewHand(0, deck.MustParseCards(cards)...)
}

// stacked returns a shoe dealing cards in the given order
func stacked(cards string) *deck.Shoe {
	return deck.NewStackedShoe(deck.MustParseCards(cards)...)
}

// eventRecorder collects published events
type eventRecorder struct {
	events []GameEvent
}

func (r *eventRecorder) OnEvent(e GameEvent) {
	r.events = append(r.events, e)
}

func (r *eventRecorder) types() []EventType {
	out := make([]EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.EventType()
	}
	return out
}

// newTestPlayers seats players named p1, p2... with the given bankrolls
func newTestPlayers(bankrolls ...int) []*Player {
	players := make([]*Player, len(bankrolls))
	for i, b := range bankrolls {
		players[i] = NewPlayer(i+1, "p"+string(rune('1'+i)), b)
	}
	return players
}

// newTestRound deals a round from a stacked shoe with 1000-unit bankrolls.
// Cards go to each player then the dealer, twice, then to draws in order.
func newTestRound(t *testing.T, cards string, bets []int, opts ...RoundOption) (*Round, []*Player) {
	t.Helper()
	bankrolls := make([]int, len(bets))
	for i := range bankrolls {
		bankrolls[i] = 1000
	}
	players := newTestPlayers(bankrolls...)
	opts = append([]RoundOption{WithShoe(stacked(cards)), WithRoundID("test")}, opts...)
	r, err := NewRound(testRNG(), players, bets, opts...)
	require.NoError(t, err)
	return r, players
}

func testRNG() *rand.Rand {
	return randutil.New(42)
}

// fixedSideBet always wins or always loses, paying 1:1
type fixedSideBet struct {
	win bool
}

func (f fixedSideBet) Name() string { return "fixed" }

func (f fixedSideBet) Resolve(_ *rand.Rand, stake int) SideBetOutcome {
	if !f.win {
		return SideBetOutcome{}
	}
	return SideBetOutcome{Label: "win", Won: true, Return: stake * 2}
}
