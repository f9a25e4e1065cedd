package game

import (
	"fmt"
	"strconv"
	"strings"
)

// DealerPolicy decides when the dealer draws
type DealerPolicy int

const (
	// DealerStandsAll17 draws below 17 and stands on any 17
	DealerStandsAll17 DealerPolicy = iota
	// DealerHitsSoft17 also draws on a 17 that still counts an Ace as 11
	DealerHitsSoft17
)

func (p DealerPolicy) String() string {
	switch p {
	case DealerStandsAll17:
		return "stand_17"
	case DealerHitsSoft17:
		return "hit_soft_17"
	default:
		return "unknown"
	}
}

// ParseDealerPolicy parses the config form of a dealer policy
func ParseDealerPolicy(s string) (DealerPolicy, error) {
	switch strings.ToLower(s) {
	case "", "stand_17", "s17":
		return DealerStandsAll17, nil
	case "hit_soft_17", "h17":
		return DealerHitsSoft17, nil
	default:
		return 0, fmt.Errorf("unknown dealer policy %q", s)
	}
}

// ShouldHit reports whether the dealer draws another card to h
func (p DealerPolicy) ShouldHit(h *Hand) bool {
	v := h.Value()
	if v < 17 {
		return true
	}
	return p == DealerHitsSoft17 && v == 17 && h.Soft()
}

// NaturalMode controls what a natural blackjack at the deal does to the round
type NaturalMode int

const (
	// NaturalEndsRound resolves the whole round on the deal when anyone holds a natural
	NaturalEndsRound NaturalMode = iota
	// NaturalPerHand only skips the natural hands; a dealer natural still ends the round
	NaturalPerHand
)

func (m NaturalMode) String() string {
	switch m {
	case NaturalEndsRound:
		return "ends_round"
	case NaturalPerHand:
		return "per_hand"
	default:
		return "unknown"
	}
}

// ParseNaturalMode parses the config form of a natural mode
func ParseNaturalMode(s string) (NaturalMode, error) {
	switch strings.ToLower(s) {
	case "", "ends_round":
		return NaturalEndsRound, nil
	case "per_hand":
		return NaturalPerHand, nil
	default:
		return 0, fmt.Errorf("unknown natural mode %q", s)
	}
}

// Payout is a fixed-odds ratio such as 3:2
type Payout struct {
	Num int
	Den int
}

// Common payout ratios
var (
	EvenMoney  = Payout{1, 1}
	ThreeToTwo = Payout{3, 2}
	SixToFive  = Payout{6, 5}
	TwoToOne   = Payout{2, 1}
)

// Apply returns the winnings for a stake, rounded down to whole currency
func (p Payout) Apply(stake int) int {
	if p.Den == 0 {
		return 0
	}
	return stake * p.Num / p.Den
}

func (p Payout) String() string {
	return fmt.Sprintf("%d:%d", p.Num, p.Den)
}

// ParsePayout parses "3:2" style ratios
func ParsePayout(s string) (Payout, error) {
	num, den, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Payout{}, fmt.Errorf("invalid payout %q: want N:D", s)
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return Payout{}, fmt.Errorf("invalid payout %q: %w", s, err)
	}
	d, err := strconv.Atoi(den)
	if err != nil {
		return Payout{}, fmt.Errorf("invalid payout %q: %w", s, err)
	}
	if n < 0 || d <= 0 {
		return Payout{}, fmt.Errorf("invalid payout %q: must be non-negative over positive", s)
	}
	return Payout{Num: n, Den: d}, nil
}

// Rules is the rule-set a round is played under
type Rules struct {
	Dealer          DealerPolicy
	BlackjackPayout Payout
	Natural         NaturalMode
	MaxHands        int         // Maximum hands per player after splits
	Insurance       bool        // Offer insurance against a dealer Ace
	SideBet         SideBetRule // nil disables side bets
}

// DefaultRules returns the reference rule-set
func DefaultRules() Rules {
	return Rules{
		Dealer:          DealerStandsAll17,
		BlackjackPayout: ThreeToTwo,
		Natural:         NaturalEndsRound,
		MaxHands:        4,
		Insurance:       true,
	}
}

// Validate checks the rule-set for impossible values
func (r Rules) Validate() error {
	if r.MaxHands < 1 {
		return fmt.Errorf("max hands must be at least 1, got %d", r.MaxHands)
	}
	if r.BlackjackPayout.Den <= 0 || r.BlackjackPayout.Num < 0 {
		return fmt.Errorf("invalid blackjack payout %s", r.BlackjackPayout)
	}
	if r.Dealer != DealerStandsAll17 && r.Dealer != DealerHitsSoft17 {
		return fmt.Errorf("invalid dealer policy %d", r.Dealer)
	}
	if v, ok := r.SideBet.(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("side bet: %w", err)
		}
	}
	return nil
}
