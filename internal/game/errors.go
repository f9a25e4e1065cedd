package game

import (
	"errors"

	"github.com/lox/blackjack/internal/deck"
)

// Errors returned at the round boundary. Validation errors never mutate
// round state, so callers may re-prompt and resubmit.
var (
	ErrInvalidBetAmount       = errors.New("invalid bet amount")
	ErrInvalidAction          = errors.New("invalid action")
	ErrInvalidInsuranceAmount = errors.New("invalid insurance amount")
	ErrNoPlayers              = errors.New("no players at table")
	ErrRoundInProgress        = errors.New("round in progress")

	// ErrExhaustedShoe aborts the current round
	ErrExhaustedShoe = deck.ErrExhaustedShoe
)
