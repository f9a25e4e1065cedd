package game

import (
	"fmt"
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/roundid"
)

// TableConfig holds the table limits and the rule-set rounds are played under
type TableConfig struct {
	Rules  Rules
	MinBet int // Lowest accepted main wager, at least 1
	MaxBet int // Highest accepted main wager, 0 for no limit
}

// DefaultTableConfig returns the reference rules with a minimum bet of 1
func DefaultTableConfig() TableConfig {
	return TableConfig{Rules: DefaultRules(), MinBet: 1}
}

// TableOption configures a Table during creation.
type TableOption func(*Table)

// WithTableLogger sets the table logger
func WithTableLogger(logger *log.Logger) TableOption {
	return func(t *Table) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithTableEventBus publishes table and round events to bus
func WithTableEventBus(bus EventBus) TableOption {
	return func(t *Table) {
		t.bus = bus
	}
}

// WithTableClock sets the clock used for round IDs and event timestamps
func WithTableClock(clock quartz.Clock) TableOption {
	return func(t *Table) {
		if clock != nil {
			t.clock = clock
		}
	}
}

// WithShoeFactory replaces the freshly shuffled shoe each round gets
func WithShoeFactory(fn func() *deck.Shoe) TableOption {
	return func(t *Table) {
		t.shoes = fn
	}
}

// Table seats players across rounds. It starts each round with a fresh shoe,
// removes broke players between rounds, and is over once nobody is left.
type Table struct {
	rng    *rand.Rand
	config TableConfig

	players    []*Player
	eliminated []*Player
	nextSeat   int

	round  *Round
	rounds int

	ids    *roundid.Generator
	shoes  func() *deck.Shoe
	logger *log.Logger
	bus    EventBus
	clock  quartz.Clock
}

// NewTable creates a table. It panics without an rng.
func NewTable(rng *rand.Rand, config TableConfig, opts ...TableOption) *Table {
	if rng == nil {
		panic("rng is required for table creation")
	}
	if config.MinBet < 1 {
		config.MinBet = 1
	}

	t := &Table{
		rng:    rng,
		config: config,
		logger: log.New(io.Discard),
		clock:  quartz.NewReal(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.WithPrefix("table")
	t.ids = roundid.NewGenerator(t.clock, rng)
	return t
}

// Config returns the table configuration
func (t *Table) Config() TableConfig {
	return t.config
}

// Rules returns the rule-set in force
func (t *Table) Rules() Rules {
	return t.config.Rules
}

// EventBus returns the bus events are published to, if any
func (t *Table) EventBus() EventBus {
	return t.bus
}

// AddPlayer seats a new player. Names must be unique at the table.
func (t *Table) AddPlayer(name string, bankroll int) (*Player, error) {
	if t.inRound() {
		return nil, ErrRoundInProgress
	}
	if name == "" {
		return nil, fmt.Errorf("player name is required")
	}
	if bankroll <= 0 {
		return nil, fmt.Errorf("%w: %s bankroll %d must be positive", ErrInvalidBetAmount, name, bankroll)
	}
	for _, p := range t.players {
		if p.Name == name {
			return nil, fmt.Errorf("player %q already seated", name)
		}
	}

	t.nextSeat++
	p := NewPlayer(t.nextSeat, name, bankroll)
	t.players = append(t.players, p)
	t.logger.Debug("Seated player", "player", name, "seat", p.Seat, "bankroll", bankroll)
	return p, nil
}

// RemovePlayer stands a player up between rounds
func (t *Table) RemovePlayer(name string) error {
	if t.inRound() {
		return ErrRoundInProgress
	}
	for i, p := range t.players {
		if p.Name == name {
			t.players = append(t.players[:i], t.players[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("player %q not seated", name)
}

// Players returns the active players in seat order
func (t *Table) Players() []*Player {
	return t.players
}

// Player finds an active player by name
func (t *Table) Player(name string) (*Player, bool) {
	for _, p := range t.players {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Eliminated returns players removed for running out of money, in order
func (t *Table) Eliminated() []*Player {
	return t.eliminated
}

// Round returns the current or most recent round
func (t *Table) Round() *Round {
	return t.round
}

// RoundCount returns how many rounds have been started
func (t *Table) RoundCount() int {
	return t.rounds
}

// IsGameOver reports whether no players remain
func (t *Table) IsGameOver() bool {
	return len(t.players) == 0
}

func (t *Table) inRound() bool {
	return t.round != nil && !t.round.Phase().IsTerminal()
}

// ValidateBet checks a wager against the table limits and the bankroll
func (t *Table) ValidateBet(p *Player, amount int) error {
	if err := p.ValidateBet(amount); err != nil {
		return err
	}
	if amount < t.config.MinBet {
		return fmt.Errorf("%w: %s bet %d below table minimum %d", ErrInvalidBetAmount, p.Name, amount, t.config.MinBet)
	}
	if t.config.MaxBet > 0 && amount > t.config.MaxBet {
		return fmt.Errorf("%w: %s bet %d above table maximum %d", ErrInvalidBetAmount, p.Name, amount, t.config.MaxBet)
	}
	return nil
}

// StartRound deals a new round with one bet per active player in seat order
func (t *Table) StartRound(bets []int) (*Round, error) {
	if t.inRound() {
		return nil, ErrRoundInProgress
	}
	if len(t.players) == 0 {
		return nil, ErrNoPlayers
	}
	if len(bets) != len(t.players) {
		return nil, fmt.Errorf("%w: got %d bets for %d players", ErrInvalidBetAmount, len(bets), len(t.players))
	}
	for i, p := range t.players {
		if err := t.ValidateBet(p, bets[i]); err != nil {
			return nil, err
		}
	}

	opts := []RoundOption{
		WithRules(t.config.Rules),
		WithRoundID(t.ids.Generate()),
		WithLogger(t.logger),
		WithEventBus(t.bus),
		WithClock(t.clock),
	}
	if t.shoes != nil {
		opts = append(opts, WithShoe(t.shoes()))
	}

	t.rounds++
	r, err := NewRound(t.rng, t.players, bets, opts...)
	if r != nil {
		t.round = r
	}
	return r, err
}

// EndRound closes a finished round and removes every player who can no
// longer cover the minimum bet. It returns the removed players.
func (t *Table) EndRound() ([]*Player, error) {
	if t.round == nil {
		return nil, fmt.Errorf("no round to end")
	}
	if !t.round.Phase().IsTerminal() {
		return nil, fmt.Errorf("%w: round is in %s", ErrRoundInProgress, t.round.Phase())
	}

	var out []*Player
	active := make([]*Player, 0, len(t.players))
	for _, p := range t.players {
		if p.Bankroll < t.config.MinBet {
			out = append(out, p)
			continue
		}
		active = append(active, p)
	}
	t.players = active

	for _, p := range out {
		t.eliminated = append(t.eliminated, p)
		t.logger.Info("Player eliminated", "player", p.Name, "bankroll", p.Bankroll, "rounds", p.Stats.Rounds)
		if t.bus != nil {
			t.bus.Publish(PlayerEliminatedEvent{
				Player:    p.Name,
				Bankroll:  p.Bankroll,
				Rounds:    p.Stats.Rounds,
				timestamp: t.clock.Now(),
			})
		}
	}
	return out, nil
}
