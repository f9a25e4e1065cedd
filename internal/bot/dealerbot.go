package bot

import (
	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/game"
)

// DealerBot copies the house: hit below 17, stand otherwise, never double,
// split or insure
type DealerBot struct {
	unit   int
	logger *log.Logger
}

// NewDealerBot creates a new DealerBot instance
func NewDealerBot(unit int, logger *log.Logger) *DealerBot {
	return &DealerBot{unit: unit, logger: logger.WithPrefix("dealer")}
}

func (d *DealerBot) Bet(state game.TableState) int {
	return flatBet(state, d.unit)
}

func (d *DealerBot) Insurance(game.TableState) int { return 0 }

func (d *DealerBot) SideBet(game.TableState) int { return 0 }

func (d *DealerBot) Decide(state game.TableState, valid []game.Action) game.Decision {
	if state.Hand.Value < 17 {
		return choose(valid, game.Hit, game.Stand, "dealer-bot draws below 17")
	}
	return game.Decision{Action: game.Stand, Reasoning: "dealer-bot stands on 17"}
}
