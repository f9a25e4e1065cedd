package bot

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// BasicBot plays textbook basic strategy for a dealer standing on soft 17.
// It flat bets and never takes insurance or side bets.
type BasicBot struct {
	unit   int
	logger *log.Logger
}

// NewBasicBot creates a new BasicBot instance
func NewBasicBot(unit int, logger *log.Logger) *BasicBot {
	return &BasicBot{unit: unit, logger: logger.WithPrefix("basic")}
}

func (b *BasicBot) Bet(state game.TableState) int {
	return flatBet(state, b.unit)
}

// Insurance is never worth it without counting
func (b *BasicBot) Insurance(game.TableState) int {
	return 0
}

func (b *BasicBot) SideBet(game.TableState) int {
	return 0
}

func (b *BasicBot) Decide(state game.TableState, valid []game.Action) game.Decision {
	up := dealerUpValue(state)
	h := state.Hand

	d, ok := b.pair(state, valid, up)
	if !ok {
		if h.Soft {
			d = soft(valid, h.Value, up)
		} else {
			d = hard(valid, h.Value, up)
		}
	}

	b.logger.Debug("Decision", "hand", h.Value, "soft", h.Soft, "up", up, "action", d.Action, "reasoning", d.Reasoning)
	return d
}

// pair handles splittable hands. Pairs that should not be split are played
// on their total.
func (b *BasicBot) pair(state game.TableState, valid []game.Action, up int) (game.Decision, bool) {
	h := state.Hand
	if !h.CanSplit || !hasAction(valid, game.Split) || state.Player.Available < h.Wager {
		return game.Decision{}, false
	}

	split := false
	switch h.Cards[0].Rank {
	case deck.Ace, deck.Eight:
		split = true
	case deck.Nine:
		split = up != 7 && up < 10
	case deck.Seven, deck.Three, deck.Two:
		split = up <= 7
	case deck.Six:
		split = up <= 6
	case deck.Four:
		split = up == 5 || up == 6
	}
	if !split {
		return game.Decision{}, false
	}

	return game.Decision{
		Action:    game.Split,
		Amount:    h.Wager,
		Reasoning: fmt.Sprintf("split %ss against %d", h.Cards[0].Rank, up),
	}, true
}

func soft(valid []game.Action, total, up int) game.Decision {
	switch {
	case total >= 19:
		return game.Decision{Action: game.Stand, Reasoning: "soft 19 or better"}
	case total == 18:
		if up >= 3 && up <= 6 {
			return choose(valid, game.DoubleDown, game.Stand, "double soft 18 against weak dealer")
		}
		if up >= 9 {
			return choose(valid, game.Hit, game.Stand, "hit soft 18 against strong dealer")
		}
		return game.Decision{Action: game.Stand, Reasoning: "stand soft 18"}
	case total == 17 && up >= 3 && up <= 6,
		(total == 15 || total == 16) && up >= 4 && up <= 6,
		(total == 13 || total == 14) && up >= 5 && up <= 6:
		return choose(valid, game.DoubleDown, game.Hit, fmt.Sprintf("double soft %d against %d", total, up))
	default:
		return choose(valid, game.Hit, game.Stand, fmt.Sprintf("hit soft %d", total))
	}
}

func hard(valid []game.Action, total, up int) game.Decision {
	switch {
	case total >= 17:
		return game.Decision{Action: game.Stand, Reasoning: "hard 17 or better"}
	case total >= 13 && up <= 6:
		return game.Decision{Action: game.Stand, Reasoning: fmt.Sprintf("stand %d against dealer bust card", total)}
	case total == 12 && up >= 4 && up <= 6:
		return game.Decision{Action: game.Stand, Reasoning: "stand 12 against 4-6"}
	case total == 11 && up <= 10,
		total == 10 && up <= 9,
		total == 9 && up >= 3 && up <= 6:
		return choose(valid, game.DoubleDown, game.Hit, fmt.Sprintf("double %d against %d", total, up))
	default:
		return choose(valid, game.Hit, game.Stand, fmt.Sprintf("hit %d against %d", total, up))
	}
}
