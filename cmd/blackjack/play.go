package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/history"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/tui"
)

type PlayCmd struct {
	Name     string `short:"n" default:"you" help:"Your display name"`
	Bankroll int    `help:"Starting bankroll (overrides config)"`
	Solo     bool   `help:"Play alone, without the configured bot seats"`
	Seed     int64  `help:"RNG seed (overrides config; 0 for random)"`
	LogFile  string `default:"blackjack.log" help:"Log file path"`
	History  string `help:"Write every round played to this HCL file"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	// The table owns the terminal, so logs go to a file
	logFile, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()
	logger := newLogger(logFile, cfg)

	tableConfig, err := cfg.TableConfig()
	if err != nil {
		return err
	}

	seed := cfg.Seed
	if c.Seed != 0 {
		seed = c.Seed
	}
	seed = randutil.Seed(seed)
	rng := randutil.New(seed)
	logger.Info("Starting table", "seed", seed, "player", c.Name, "config", g.Config)

	bus := game.NewEventBus()
	table := game.NewTable(rng, tableConfig,
		game.WithTableLogger(logger),
		game.WithTableEventBus(bus),
	)

	bankroll := cfg.Table.Bankroll
	if c.Bankroll > 0 {
		bankroll = c.Bankroll
	}
	if _, err := table.AddPlayer(c.Name, bankroll); err != nil {
		return err
	}

	engine := game.NewEngine(table, nil, logger)
	if !c.Solo {
		for _, seat := range cfg.Seats {
			if _, err := table.AddPlayer(seat.Name, seat.Bankroll); err != nil {
				return fmt.Errorf("seat %s: %w", seat.Name, err)
			}
			agent, err := bot.New(seat.Strategy, seat.Unit, rng, logger)
			if err != nil {
				return fmt.Errorf("seat %s: %w", seat.Name, err)
			}
			engine.SetAgent(seat.Name, agent)
		}
	}

	var rec *history.Recorder
	if c.History != "" {
		rec = history.NewRecorder(nil, logger)
		bus.Subscribe(rec)
	}

	model, err := tui.New(context.Background(), engine, c.Name, logger)
	if err != nil {
		return err
	}
	rules := table.Rules()
	model.AddLogEntry("=== Blackjack ===")
	model.AddLogEntry(fmt.Sprintf("Dealer %s, blackjack pays %s, up to %d hands", rules.Dealer, rules.BlackjackPayout, rules.MaxHands))
	model.AddLogEntry("Keys: [H]it [S]tand [D]ouble s[P]lit")
	model.AddLogEntry("")

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("table exited: %w", err)
	}

	if p, ok := table.Player(c.Name); ok {
		fmt.Printf("You leave after %d rounds with $%d (started with $%d)\n", p.Stats.Rounds, p.Bankroll, bankroll)
	} else {
		fmt.Printf("You ran out of chips after %d rounds\n", table.RoundCount())
	}

	if rec != nil {
		if err := history.WriteFile(c.History, rec.File()); err != nil {
			return err
		}
		fmt.Printf("Wrote %d rounds to %s\n", rec.Len(), c.History)
	}
	return nil
}
