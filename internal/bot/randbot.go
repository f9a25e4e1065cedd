package bot

import (
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/game"
)

// RandBot is a simple bot that makes uniform random legal actions and random
// sized wagers
type RandBot struct {
	unit   int
	rng    *rand.Rand
	logger *log.Logger
}

// NewRandBot creates a new RandBot instance
func NewRandBot(unit int, rng *rand.Rand, logger *log.Logger) *RandBot {
	return &RandBot{unit: unit, rng: rng, logger: logger.WithPrefix("rand")}
}

// Bet picks between the table minimum and twice the unit
func (r *RandBot) Bet(state game.TableState) int {
	lo := max(state.MinBet, 1)
	hi := min(2*r.unit, state.Player.Bankroll)
	if state.MaxBet > 0 {
		hi = min(hi, state.MaxBet)
	}
	if hi <= lo {
		return min(lo, state.Player.Bankroll)
	}
	return lo + r.rng.IntN(hi-lo+1)
}

// Insurance takes the full half-wager stake half the time
func (r *RandBot) Insurance(state game.TableState) int {
	if r.rng.IntN(2) == 0 || len(state.Player.Hands) == 0 {
		return 0
	}
	return min(state.Player.Hands[0].Wager/2, state.Player.Available)
}

// SideBet stakes the table minimum one round in four
func (r *RandBot) SideBet(state game.TableState) int {
	if r.rng.IntN(4) != 0 {
		return 0
	}
	return min(max(state.MinBet, 1), state.Player.Available)
}

func (r *RandBot) Decide(state game.TableState, valid []game.Action) game.Decision {
	if len(valid) == 0 {
		return game.Decision{Action: game.Stand, Reasoning: "rand-bot no valid actions"}
	}

	d := game.Decision{Action: valid[r.rng.IntN(len(valid))], Reasoning: "rand-bot random action"}
	if d.Action == game.Split && state.Player.Available >= state.Hand.Wager {
		d.Amount = state.Hand.Wager
	}
	return d
}
