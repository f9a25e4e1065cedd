// Package bot provides computer players for the blackjack engine.
package bot

import (
	"fmt"
	"io"
	rand "math/rand/v2"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/game"
)

// Strategy names accepted by New
const (
	Basic  = "basic"
	Dealer = "dealer"
	Random = "random"
)

// Strategies lists every strategy name New accepts
func Strategies() []string {
	return []string{Basic, Dealer, Random}
}

// New creates an agent for a named strategy betting unit per round
func New(strategy string, unit int, rng *rand.Rand, logger *log.Logger) (game.Agent, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if unit < 1 {
		unit = 1
	}

	switch strings.ToLower(strategy) {
	case Basic:
		return NewBasicBot(unit, logger), nil
	case Dealer:
		return NewDealerBot(unit, logger), nil
	case Random:
		if rng == nil {
			return nil, fmt.Errorf("strategy %q needs an rng", strategy)
		}
		return NewRandBot(unit, rng, logger), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (want one of %s)", strategy, strings.Join(Strategies(), ", "))
	}
}

// flatBet returns unit clamped to the table limits and the bankroll
func flatBet(state game.TableState, unit int) int {
	bet := max(unit, state.MinBet)
	if state.MaxBet > 0 {
		bet = min(bet, state.MaxBet)
	}
	return min(bet, state.Player.Bankroll)
}

func hasAction(valid []game.Action, a game.Action) bool {
	return slices.Contains(valid, a)
}

// choose returns the preferred action when it is valid, otherwise the fallback
func choose(valid []game.Action, preferred, fallback game.Action, reasoning string) game.Decision {
	if hasAction(valid, preferred) {
		return game.Decision{Action: preferred, Reasoning: reasoning}
	}
	if hasAction(valid, fallback) {
		return game.Decision{Action: fallback, Reasoning: "fallback: " + reasoning}
	}
	return game.Decision{Action: game.Stand, Reasoning: "emergency stand"}
}

// dealerUpValue returns the up card's points, with an Ace as 11
func dealerUpValue(state game.TableState) int {
	return state.DealerUp.Points()
}
