// Package simulator plays many independent bot sessions concurrently and
// aggregates per-seat statistics.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// Seat is a bot seated in every session
type Seat struct {
	Name     string
	Strategy string
	Bankroll int
	Unit     int
}

// Config holds configuration for running simulations
type Config struct {
	Sessions int
	Rounds   int // Rounds per session, 0 plays until every seat is eliminated
	Seed     int64
	Workers  int // Concurrent sessions, 0 uses GOMAXPROCS
	Table    game.TableConfig
	Seats    []Seat
	Logger   *log.Logger
	Clock    quartz.Clock
}

// Session is the outcome of one session
type Session struct {
	Index      int
	Seed       int64
	Rounds     []game.RoundResult
	Aborted    int
	Eliminated []string
	Final      map[string]int // Bankroll per seat at the end of the session
}

// Result collects every session and the per-seat statistics across them
type Result struct {
	Sessions []Session
	Seats    []string
	Stats    map[string]*statistics.Statistics
}

// RoundsPlayed returns the number of settled rounds across sessions
func (r *Result) RoundsPlayed() int {
	n := 0
	for _, s := range r.Sessions {
		n += len(s.Rounds)
	}
	return n
}

// Simulator runs blackjack sessions
type Simulator struct {
	config Config
	logger *log.Logger
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	return &Simulator{config: config, logger: logger.WithPrefix("simulator")}
}

func (s *Simulator) validate() error {
	if s.config.Sessions < 1 {
		return fmt.Errorf("sessions must be positive, got %d", s.config.Sessions)
	}
	if s.config.Rounds < 0 {
		return fmt.Errorf("rounds cannot be negative, got %d", s.config.Rounds)
	}
	if len(s.config.Seats) == 0 {
		return fmt.Errorf("at least one seat is required")
	}
	if err := s.config.Table.Rules.Validate(); err != nil {
		return fmt.Errorf("rules: %w", err)
	}
	return nil
}

// Run executes every session and returns the merged results. Sessions derive
// their seeds from the configured seed, so equal seeds give equal results
// regardless of scheduling.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	workers := s.config.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	sessions := make([]Session, s.config.Sessions)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range sessions {
		seed := randutil.Child(s.config.Seed, i)
		g.Go(func() error {
			session, err := s.playSession(ctx, i, seed)
			if err != nil {
				return fmt.Errorf("session %d (seed %d): %w", i, seed, err)
			}
			// Each goroutine owns its own slot
			sessions[i] = session
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{
		Sessions: sessions,
		Stats:    make(map[string]*statistics.Statistics, len(s.config.Seats)),
	}
	for _, seat := range s.config.Seats {
		res.Seats = append(res.Seats, seat.Name)
		res.Stats[seat.Name] = &statistics.Statistics{}
	}
	for _, session := range sessions {
		for _, round := range session.Rounds {
			for _, name := range res.Seats {
				if _, ok := round.Net[name]; !ok {
					continue
				}
				res.Stats[name].Add(statistics.FromRound(round, name, session.Seed))
			}
		}
	}

	for _, name := range res.Seats {
		stats := res.Stats[name]
		if stats.Rounds == 0 {
			continue
		}
		if err := stats.Validate(); err != nil {
			return nil, fmt.Errorf("statistics validation failed for %s: %w", name, err)
		}
	}

	s.logger.Info("Simulation complete", "sessions", len(sessions), "rounds", res.RoundsPlayed())
	return res, nil
}

// playSession plays one table to completion with its own rng and shoe
func (s *Simulator) playSession(ctx context.Context, index int, seed int64) (Session, error) {
	rng := randutil.New(seed)
	logger := s.logger.With("session", index)

	table := game.NewTable(rng, s.config.Table,
		game.WithTableLogger(logger),
		game.WithTableClock(s.config.Clock),
	)
	engine := game.NewEngine(table, nil, logger)

	for _, seat := range s.config.Seats {
		if _, err := table.AddPlayer(seat.Name, seat.Bankroll); err != nil {
			return Session{}, err
		}
		agent, err := bot.New(seat.Strategy, seat.Unit, rng, logger)
		if err != nil {
			return Session{}, fmt.Errorf("seat %s: %w", seat.Name, err)
		}
		engine.SetAgent(seat.Name, agent)
	}

	session := Session{Index: index, Seed: seed}
	for !table.IsGameOver() && (s.config.Rounds == 0 || table.RoundCount() < s.config.Rounds) {
		if err := ctx.Err(); err != nil {
			return Session{}, err
		}

		res, err := engine.PlayRound(ctx)
		if errors.Is(err, game.ErrExhaustedShoe) {
			logger.Warn("Round aborted", "round", table.RoundCount(), "error", err)
			session.Aborted++
			continue
		}
		if err != nil {
			return Session{}, err
		}
		session.Rounds = append(session.Rounds, res)
	}

	for _, p := range table.Eliminated() {
		session.Eliminated = append(session.Eliminated, p.Name)
	}
	session.Final = make(map[string]int, len(s.config.Seats))
	for _, seat := range s.config.Seats {
		if p, ok := table.Player(seat.Name); ok {
			session.Final[seat.Name] = p.Bankroll
		}
	}
	return session, nil
}

// RunSimulation is a convenience function for running a simulation with basic parameters
func RunSimulation(ctx context.Context, sessions, rounds int, seed int64, seats []Seat, logger *log.Logger) (*Result, error) {
	return New(Config{
		Sessions: sessions,
		Rounds:   rounds,
		Seed:     seed,
		Table:    game.DefaultTableConfig(),
		Seats:    seats,
		Logger:   logger,
	}).Run(ctx)
}

// WriteSummary prints a per-seat summary of simulation results
func WriteSummary(w io.Writer, res *Result) {
	fmt.Fprintf(w, "\n=== SIMULATION: %d sessions, %d rounds ===\n", len(res.Sessions), res.RoundsPlayed())

	aborted := 0
	for _, s := range res.Sessions {
		aborted += s.Aborted
	}
	if aborted > 0 {
		fmt.Fprintf(w, "Aborted rounds: %d\n", aborted)
	}

	for _, name := range res.Seats {
		stats := res.Stats[name]
		fmt.Fprintf(w, "\n--- %s ---\n", name)
		if stats.Rounds == 0 {
			fmt.Fprintf(w, "No rounds played\n")
			continue
		}
		low, high := stats.ConfidenceInterval95()
		fmt.Fprintf(w, "Rounds played: %d (%d hands)\n", stats.Rounds, stats.Hands)
		fmt.Fprintf(w, "Mean: %.4f chips/round\n", stats.Mean())
		fmt.Fprintf(w, "Median: %.4f chips/round\n", stats.Median())
		fmt.Fprintf(w, "Std Dev: %.4f chips\n", stats.StdDev())
		fmt.Fprintf(w, "95%% CI: [%.4f, %.4f] chips/round\n", low, high)
		fmt.Fprintf(w, "Percentiles: P5=%.1f, P25=%.1f, P75=%.1f, P95=%.1f\n",
			stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))
		fmt.Fprintf(w, "Return on wager: %.2f%%\n", stats.ReturnOnWager()*100)
		fmt.Fprintf(w, "Hands: %d won (%.1f%%), %d lost, %d pushed, %d blackjacks, %d busts\n",
			stats.Wins, stats.WinRate()*100, stats.Losses, stats.Pushes, stats.Blackjacks, stats.Busts)
		fmt.Fprintf(w, "Doubles: %d, Splits: %d\n", stats.Doubles, stats.Splits)
		fmt.Fprintf(w, "Ledger: main %.0f + insurance %.0f + side %.0f = %.0f\n",
			stats.MainNet, stats.InsuranceNet, stats.SideBetNet, stats.AllNet)
		fmt.Fprintf(w, "Largest win: %d, largest loss: %d\n", stats.MaxWin, stats.MaxLoss)
	}
}
