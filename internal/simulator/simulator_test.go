package simulator

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	rules := game.DefaultRules()
	rules.SideBet = game.CoinFlip()
	return Config{
		Sessions: 6,
		Rounds:   25,
		Seed:     12345,
		Workers:  3,
		Table:    game.TableConfig{Rules: rules, MinBet: 5, MaxBet: 100},
		Seats: []Seat{
			{Name: "basic", Strategy: bot.Basic, Bankroll: 500, Unit: 10},
			{Name: "dealer", Strategy: bot.Dealer, Bankroll: 500, Unit: 10},
			{Name: "random", Strategy: bot.Random, Bankroll: 500, Unit: 10},
		},
		Logger: log.NewWithOptions(io.Discard, log.Options{Level: log.WarnLevel}),
		Clock:  quartz.NewMock(t),
	}
}

func TestNew(t *testing.T) {
	cfg := testConfig(t)
	simulator := New(cfg)
	if simulator == nil {
		t.Fatal("New() returned nil")
	}
	if simulator.config.Sessions != 6 {
		t.Errorf("Expected 6 sessions, got %d", simulator.config.Sessions)
	}
	if simulator.config.Seed != 12345 {
		t.Errorf("Expected seed 12345, got %d", simulator.config.Seed)
	}
}

func TestSimulator_Run(t *testing.T) {
	res, err := New(testConfig(t)).Run(t.Context())
	require.NoError(t, err)

	require.Len(t, res.Sessions, 6)
	assert.Equal(t, []string{"basic", "dealer", "random"}, res.Seats)

	for i, s := range res.Sessions {
		assert.Equal(t, i, s.Index)
		assert.LessOrEqual(t, len(s.Rounds)+s.Aborted, 25)
		assert.NotEmpty(t, s.Rounds)
	}

	for _, name := range res.Seats {
		stats := res.Stats[name]
		require.NotNil(t, stats, name)
		assert.Positive(t, stats.Rounds, name)
		assert.NoError(t, stats.Validate(), name)
		assert.LessOrEqual(t, stats.Rounds, res.RoundsPlayed())
	}
}

func TestSimulator_Deterministic(t *testing.T) {
	cfg := testConfig(t)
	first, err := New(cfg).Run(t.Context())
	require.NoError(t, err)

	cfg.Workers = 1
	second, err := New(cfg).Run(t.Context())
	require.NoError(t, err)

	assert.Equal(t, first.Sessions, second.Sessions, "same seed replays the same sessions")
	for _, name := range first.Seats {
		assert.Equal(t, first.Stats[name].Values, second.Stats[name].Values, name)
	}

	cfg.Seed = 999
	third, err := New(cfg).Run(t.Context())
	require.NoError(t, err)
	assert.NotEqual(t, first.Stats["basic"].Values, third.Stats["basic"].Values)
}

func TestSimulator_BankrollsBalance(t *testing.T) {
	cfg := testConfig(t)
	res, err := New(cfg).Run(t.Context())
	require.NoError(t, err)

	for _, s := range res.Sessions {
		for _, seat := range cfg.Seats {
			net := 0
			for _, r := range s.Rounds {
				net += r.Net[seat.Name]
			}
			final, seated := s.Final[seat.Name]
			if !seated {
				assert.Contains(t, s.Eliminated, seat.Name)
				assert.Less(t, seat.Bankroll+net, cfg.Table.MinBet)
				continue
			}
			assert.Equal(t, seat.Bankroll+net, final, "session %d seat %s", s.Index, seat.Name)
		}
	}
}

func TestSimulator_PlaysUntilEliminated(t *testing.T) {
	cfg := testConfig(t)
	cfg.Sessions = 2
	cfg.Rounds = 0
	cfg.Seats = []Seat{{Name: "random", Strategy: bot.Random, Bankroll: 30, Unit: 10}}

	res, err := New(cfg).Run(t.Context())
	require.NoError(t, err)
	for _, s := range res.Sessions {
		assert.Equal(t, []string{"random"}, s.Eliminated)
		assert.Empty(t, s.Final)
	}
}

func TestSimulator_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no sessions", func(c *Config) { c.Sessions = 0 }},
		{"negative rounds", func(c *Config) { c.Rounds = -1 }},
		{"no seats", func(c *Config) { c.Seats = nil }},
		{"unknown strategy", func(c *Config) { c.Seats[0].Strategy = "martingale" }},
		{"duplicate seat", func(c *Config) { c.Seats[1].Name = c.Seats[0].Name }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(&cfg)
			_, err := New(cfg).Run(t.Context())
			assert.Error(t, err)
		})
	}
}

func TestSimulator_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := New(testConfig(t)).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunSimulation_Convenience(t *testing.T) {
	seats := []Seat{{Name: "basic", Strategy: bot.Basic, Bankroll: 1000, Unit: 10}}
	res, err := RunSimulation(t.Context(), 2, 10, 7, seats, nil)
	require.NoError(t, err)
	assert.Equal(t, 20, res.RoundsPlayed()+res.Sessions[0].Aborted+res.Sessions[1].Aborted)
}

func TestWriteSummary(t *testing.T) {
	res, err := New(testConfig(t)).Run(t.Context())
	require.NoError(t, err)

	var buf bytes.Buffer
	WriteSummary(&buf, res)
	out := buf.String()
	assert.Contains(t, out, "=== SIMULATION: 6 sessions")
	for _, name := range res.Seats {
		assert.Contains(t, out, "--- "+name+" ---")
	}
	assert.Contains(t, out, "Return on wager:")
}
