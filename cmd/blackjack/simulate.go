package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/history"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/simulator"
)

type SimulateCmd struct {
	Sessions int    `default:"100" help:"Number of independent sessions"`
	Rounds   int    `default:"-1" help:"Rounds per session (overrides config; 0 plays until every seat is out)"`
	Seed     int64  `help:"RNG seed (overrides config; 0 for random)"`
	Workers  int    `help:"Concurrent sessions (0 for one per CPU)"`
	History  string `help:"Write every simulated round to this HCL file"`
}

var titleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#1B7F3B")).
	Bold(true).
	Padding(0, 1)

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg)

	tableConfig, err := cfg.TableConfig()
	if err != nil {
		return err
	}

	rounds := cfg.Table.Rounds
	if c.Rounds >= 0 {
		rounds = c.Rounds
	}
	seed := cfg.Seed
	if c.Seed != 0 {
		seed = c.Seed
	}
	seed = randutil.Seed(seed)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	start := time.Now()
	sim := simulator.New(simulator.Config{
		Sessions: c.Sessions,
		Rounds:   rounds,
		Seed:     seed,
		Workers:  c.Workers,
		Table:    tableConfig,
		Seats:    seats(cfg),
		Logger:   logger,
	})
	res, err := sim.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("Blackjack simulation (seed %d)", seed)))
	simulator.WriteSummary(os.Stdout, res)
	fmt.Printf("\nCompleted in %s\n", time.Since(start).Round(time.Millisecond))

	if c.History != "" {
		rec := history.NewRecorder(nil, logger)
		for _, s := range res.Sessions {
			rec.RecordSession(s.Index, s.Seed, s.Rounds)
		}
		if err := history.WriteFile(c.History, rec.File()); err != nil {
			return err
		}
		logger.Info("Wrote history", "path", c.History, "rounds", rec.Len())
	}
	return nil
}

func seats(cfg *config.Config) []simulator.Seat {
	out := make([]simulator.Seat, len(cfg.Seats))
	for i, s := range cfg.Seats {
		out[i] = simulator.Seat{
			Name:     s.Name,
			Strategy: s.Strategy,
			Bankroll: s.Bankroll,
			Unit:     s.Unit,
		}
	}
	return out
}
