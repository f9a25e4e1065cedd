// Package config loads table, rule-set and seat configuration from HCL.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/game"
)

// Config represents the complete blackjack configuration
type Config struct {
	LogLevel string         `hcl:"log_level,optional"`
	Seed     int64          `hcl:"seed,optional"`
	Rules    *RulesConfig   `hcl:"rules,block"`
	Table    *TableSettings `hcl:"table,block"`
	Seats    []SeatConfig   `hcl:"seat,block"`
}

// RulesConfig is the rule-set rounds are played under
type RulesConfig struct {
	Dealer          string         `hcl:"dealer,optional"`
	BlackjackPayout string         `hcl:"blackjack_payout,optional"`
	Natural         string         `hcl:"natural,optional"`
	MaxHands        int            `hcl:"max_hands,optional"`
	Insurance       *bool          `hcl:"insurance,optional"`
	SideBet         *SideBetConfig `hcl:"side_bet,block"`
}

// SideBetConfig is a fixed-odds side bet. Each outcome wins with its
// probability and pays at its ratio; the remaining probability loses.
type SideBetConfig struct {
	Outcomes []OutcomeConfig `hcl:"outcome,block"`
}

// OutcomeConfig is one winning result of a side bet
type OutcomeConfig struct {
	Label       string  `hcl:"label,label"`
	Probability float64 `hcl:"probability"`
	Payout      string  `hcl:"payout"`
}

// TableSettings contains table limits and session length
type TableSettings struct {
	Bankroll int `hcl:"bankroll,optional"`
	MinBet   int `hcl:"min_bet,optional"`
	MaxBet   int `hcl:"max_bet,optional"`
	Rounds   int `hcl:"rounds,optional"`
}

// SeatConfig defines a bot seat
type SeatConfig struct {
	Name     string `hcl:"name,label"`
	Strategy string `hcl:"strategy,optional"`
	Bankroll int    `hcl:"bankroll,optional"`
	Unit     int    `hcl:"unit,optional"`
}

// Defaults
const (
	DefaultLogLevel = "info"
	DefaultBankroll = 1000
	DefaultMinBet   = 10
	DefaultRounds   = 100
	DefaultMaxHands = 4
	DefaultPayout   = "3:2"
)

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	insurance := true
	return &Config{
		LogLevel: DefaultLogLevel,
		Rules: &RulesConfig{
			Dealer:          game.DealerStandsAll17.String(),
			BlackjackPayout: DefaultPayout,
			Natural:         game.NaturalEndsRound.String(),
			MaxHands:        DefaultMaxHands,
			Insurance:       &insurance,
		},
		Table: &TableSettings{
			Bankroll: DefaultBankroll,
			MinBet:   DefaultMinBet,
			Rounds:   DefaultRounds,
		},
		Seats: []SeatConfig{
			{Name: "basic", Strategy: bot.Basic, Bankroll: DefaultBankroll, Unit: DefaultMinBet},
		},
	}
}

// Load loads configuration from an HCL file. A missing file yields defaults.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source and applies defaults for missing values
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()

	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}

	if c.Rules == nil {
		c.Rules = def.Rules
	}
	if c.Rules.Dealer == "" {
		c.Rules.Dealer = def.Rules.Dealer
	}
	if c.Rules.BlackjackPayout == "" {
		c.Rules.BlackjackPayout = def.Rules.BlackjackPayout
	}
	if c.Rules.Natural == "" {
		c.Rules.Natural = def.Rules.Natural
	}
	if c.Rules.MaxHands == 0 {
		c.Rules.MaxHands = def.Rules.MaxHands
	}
	if c.Rules.Insurance == nil {
		c.Rules.Insurance = def.Rules.Insurance
	}

	if c.Table == nil {
		c.Table = def.Table
	}
	if c.Table.Bankroll == 0 {
		c.Table.Bankroll = def.Table.Bankroll
	}
	if c.Table.MinBet == 0 {
		c.Table.MinBet = def.Table.MinBet
	}
	if c.Table.Rounds == 0 {
		c.Table.Rounds = def.Table.Rounds
	}

	if len(c.Seats) == 0 {
		c.Seats = def.Seats
	}
	for i := range c.Seats {
		if c.Seats[i].Strategy == "" {
			c.Seats[i].Strategy = bot.Basic
		}
		if c.Seats[i].Bankroll == 0 {
			c.Seats[i].Bankroll = c.Table.Bankroll
		}
		if c.Seats[i].Unit == 0 {
			c.Seats[i].Unit = c.Table.MinBet
		}
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}

	rules, err := c.GameRules()
	if err != nil {
		return err
	}
	if err := rules.Validate(); err != nil {
		return fmt.Errorf("rules: %w", err)
	}

	t := c.Table
	if t.Bankroll <= 0 {
		return fmt.Errorf("table: bankroll must be positive")
	}
	if t.MinBet <= 0 {
		return fmt.Errorf("table: min bet must be positive")
	}
	if t.MaxBet != 0 && t.MaxBet < t.MinBet {
		return fmt.Errorf("table: max bet %d is below min bet %d", t.MaxBet, t.MinBet)
	}
	if t.Rounds < 0 {
		return fmt.Errorf("table: rounds cannot be negative")
	}

	seen := make(map[string]bool, len(c.Seats))
	for _, s := range c.Seats {
		if seen[s.Name] {
			return fmt.Errorf("seat %s: duplicate name", s.Name)
		}
		seen[s.Name] = true

		if !validStrategy(s.Strategy) {
			return fmt.Errorf("seat %s: invalid strategy %s", s.Name, s.Strategy)
		}
		if s.Bankroll <= 0 {
			return fmt.Errorf("seat %s: bankroll must be positive", s.Name)
		}
		if s.Unit <= 0 {
			return fmt.Errorf("seat %s: unit must be positive", s.Name)
		}
	}
	return nil
}

func validStrategy(name string) bool {
	for _, s := range bot.Strategies() {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}

// GameRules converts the rules block into an engine rule-set
func (c *Config) GameRules() (game.Rules, error) {
	rules := game.DefaultRules()

	dealer, err := game.ParseDealerPolicy(c.Rules.Dealer)
	if err != nil {
		return rules, fmt.Errorf("rules: %w", err)
	}
	payout, err := game.ParsePayout(c.Rules.BlackjackPayout)
	if err != nil {
		return rules, fmt.Errorf("rules: blackjack_payout: %w", err)
	}
	natural, err := game.ParseNaturalMode(c.Rules.Natural)
	if err != nil {
		return rules, fmt.Errorf("rules: %w", err)
	}

	rules.Dealer = dealer
	rules.BlackjackPayout = payout
	rules.Natural = natural
	rules.MaxHands = c.Rules.MaxHands
	if c.Rules.Insurance != nil {
		rules.Insurance = *c.Rules.Insurance
	}

	if sb := c.Rules.SideBet; sb != nil {
		table := make(game.OddsTable, 0, len(sb.Outcomes))
		for _, o := range sb.Outcomes {
			p, err := game.ParsePayout(o.Payout)
			if err != nil {
				return rules, fmt.Errorf("rules: side_bet outcome %s: %w", o.Label, err)
			}
			table = append(table, game.OddsEntry{Label: o.Label, Probability: o.Probability, Payout: p})
		}
		if len(table) == 0 {
			table = game.CoinFlip()
		}
		rules.SideBet = table
	}
	return rules, nil
}

// TableConfig converts the table and rules blocks into a table configuration
func (c *Config) TableConfig() (game.TableConfig, error) {
	rules, err := c.GameRules()
	if err != nil {
		return game.TableConfig{}, err
	}
	return game.TableConfig{
		Rules:  rules,
		MinBet: c.Table.MinBet,
		MaxBet: c.Table.MaxBet,
	}, nil
}

// Level returns the parsed log level
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// HCL renders the configuration back to HCL
func (c *Config) HCL() []byte {
	f := hclwrite.NewEmptyFile()
	gohcl.EncodeIntoBody(c, f.Body())
	return f.Bytes()
}
