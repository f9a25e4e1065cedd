package game

import (
	"fmt"
	rand "math/rand/v2"
	"strings"
)

// SideBetRule resolves a side bet as an independent random event
type SideBetRule interface {
	Name() string
	Resolve(rng *rand.Rand, stake int) SideBetOutcome
}

// SideBetOutcome is the result of resolving one side bet
type SideBetOutcome struct {
	Label  string // Odds table entry that hit, empty on a loss
	Won    bool
	Return int // Amount credited back to the bankroll, stake included
}

// OddsEntry is one winning outcome of an odds table
type OddsEntry struct {
	Label       string
	Probability float64
	Payout      Payout
}

// OddsTable is a fixed-odds side bet. Entries are tried in order against a
// single uniform draw; whatever probability mass is left over loses.
type OddsTable []OddsEntry

// CoinFlip is the reference side bet: a fair coin paying 1:1
func CoinFlip() OddsTable {
	return OddsTable{{Label: "heads", Probability: 0.5, Payout: EvenMoney}}
}

// Name describes the table
func (t OddsTable) Name() string {
	labels := make([]string, len(t))
	for i, e := range t {
		labels[i] = fmt.Sprintf("%s %.0f%% @ %s", e.Label, e.Probability*100, e.Payout)
	}
	return "odds(" + strings.Join(labels, ", ") + ")"
}

// Resolve draws an outcome for stake
func (t OddsTable) Resolve(rng *rand.Rand, stake int) SideBetOutcome {
	u := rng.Float64()
	cum := 0.0
	for _, e := range t {
		cum += e.Probability
		if u < cum {
			return SideBetOutcome{
				Label:  e.Label,
				Won:    true,
				Return: stake + e.Payout.Apply(stake),
			}
		}
	}
	return SideBetOutcome{}
}

// ExpectedReturn returns the expected credit per unit staked
func (t OddsTable) ExpectedReturn() float64 {
	ev := 0.0
	for _, e := range t {
		ev += e.Probability * (1 + float64(e.Payout.Num)/float64(e.Payout.Den))
	}
	return ev
}

// Validate checks probabilities are sane
func (t OddsTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("odds table has no outcomes")
	}
	total := 0.0
	for _, e := range t {
		if e.Probability < 0 || e.Probability > 1 {
			return fmt.Errorf("outcome %q: probability %.3f out of range", e.Label, e.Probability)
		}
		if e.Payout.Den <= 0 || e.Payout.Num < 0 {
			return fmt.Errorf("outcome %q: invalid payout %s", e.Label, e.Payout)
		}
		total += e.Probability
	}
	if total > 1+1e-9 {
		return fmt.Errorf("outcome probabilities sum to %.3f", total)
	}
	return nil
}
