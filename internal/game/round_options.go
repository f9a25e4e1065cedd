package game

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/deck"
)

// RoundOption configures a Round during creation.
type RoundOption func(*roundConfig)

// roundConfig holds all optional configuration for creating a round.
type roundConfig struct {
	id     string
	rules  Rules
	shoe   *deck.Shoe // If provided, used instead of a fresh shuffle
	logger *log.Logger
	bus    EventBus
	clock  quartz.Clock
}

func defaultRoundConfig() *roundConfig {
	return &roundConfig{
		rules:  DefaultRules(),
		logger: log.New(io.Discard),
		clock:  quartz.NewReal(),
	}
}

// WithRules sets the rule-set. Default is DefaultRules().
func WithRules(rules Rules) RoundOption {
	return func(c *roundConfig) {
		c.rules = rules
	}
}

// WithShoe sets a specific shoe, typically a stacked one for tests.
// This overrides the RNG for shoe creation; the RNG is still used to
// resolve side bets.
func WithShoe(shoe *deck.Shoe) RoundOption {
	return func(c *roundConfig) {
		c.shoe = shoe
	}
}

// WithRoundID sets the round identifier used in events and results
func WithRoundID(id string) RoundOption {
	return func(c *roundConfig) {
		c.id = id
	}
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) RoundOption {
	return func(c *roundConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithEventBus publishes round events to bus
func WithEventBus(bus EventBus) RoundOption {
	return func(c *roundConfig) {
		c.bus = bus
	}
}

// WithClock sets the clock used to timestamp events
func WithClock(clock quartz.Clock) RoundOption {
	return func(c *roundConfig) {
		if clock != nil {
			c.clock = clock
		}
	}
}
