package game

import "github.com/lox/blackjack/internal/deck"

// TableState is the read-only view an agent decides from. Only the dealer
// up card is visible.
type TableState struct {
	RoundID   string
	Phase     Phase
	Rules     Rules
	MinBet    int
	MaxBet    int
	DealerUp  deck.Card
	Player    PlayerState   // The deciding player
	HandIndex int           // Hand being decided, player turns only
	Hand      HandView      // Snapshot of that hand
	Others    []PlayerState // Every other player at the table
}

// Agent represents anything that makes decisions for a seat. Agents receive
// immutable state and return answers; the engine applies them.
type Agent interface {
	// Bet returns the main wager for the next round
	Bet(state TableState) int
	// Insurance returns the insurance stake against a dealer Ace, 0 declines
	Insurance(state TableState) int
	// SideBet returns the side bet stake, 0 declines
	SideBet(state TableState) int
	// Decide picks an action for the pending hand from the valid ones
	Decide(state TableState, valid []Action) Decision
}
