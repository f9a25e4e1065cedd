// Package statistics aggregates per-round results for bot evaluation.
package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/blackjack/internal/game"
)

// RoundResult represents one player's outcome for a single round
type RoundResult struct {
	MainNet      int   // Net from hands, doubles and splits included
	InsuranceNet int   // Net from insurance
	SideBetNet   int   // Net from the side bet
	Wagered      int   // Total main wager across hands after doubling
	Seed         int64 // Session seed, for replay

	Hands      int
	Wins       int
	Losses     int
	Pushes     int
	Blackjacks int
	Busts      int
	Doubles    int
	Splits     int
}

// Net returns the total bankroll change for the round
func (r RoundResult) Net() int {
	return r.MainNet + r.InsuranceNet + r.SideBetNet
}

// FromRound extracts one player's result from a settled round
func FromRound(res game.RoundResult, player string, seed int64) RoundResult {
	out := RoundResult{Seed: seed}
	for _, h := range res.Hands {
		if h.Player != player {
			continue
		}
		out.Hands++
		out.MainNet += h.Net
		out.Wagered += h.Wager
		switch h.Outcome {
		case game.OutcomeBlackjack:
			out.Wins++
			out.Blackjacks++
		case game.OutcomeWin:
			out.Wins++
		case game.OutcomeLose:
			out.Losses++
		case game.OutcomePush:
			out.Pushes++
		}
		if h.Value > 21 {
			out.Busts++
		}
		if h.Doubled {
			out.Doubles++
		}
		if h.HandIndex > 0 {
			out.Splits++
		}
	}
	for _, ins := range res.Insurance {
		if ins.Player == player {
			out.InsuranceNet += ins.Net
		}
	}
	for _, sb := range res.SideBets {
		if sb.Player == player {
			out.SideBetNet += sb.Net
		}
	}
	return out
}

// Statistics tracks simulation statistics over rounds
type Statistics struct {
	Rounds  int
	SumNet  float64
	SumNet2 float64   // Sum of squares for variance calculation
	Values  []float64 // Store all values for median/percentile calculation

	// Ledger, each component tracked separately
	MainNet      float64
	InsuranceNet float64
	SideBetNet   float64
	AllNet       float64 // Total for sanity check
	Wagered      int

	Hands      int
	Wins       int
	Losses     int
	Pushes     int
	Blackjacks int
	Busts      int
	Doubles    int
	Splits     int

	MaxWin  int // Largest single-round gain
	MaxLoss int // Largest single-round loss, as a positive number
}

// Mean returns the arithmetic mean net result per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumNet / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumNet2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(math.Max(s.Variance(), 0))
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add incorporates a round result into the statistics
func (s *Statistics) Add(result RoundResult) {
	net := result.Net()
	v := float64(net)
	s.Rounds++
	s.SumNet += v
	s.SumNet2 += v * v
	s.Values = append(s.Values, v)

	s.MainNet += float64(result.MainNet)
	s.InsuranceNet += float64(result.InsuranceNet)
	s.SideBetNet += float64(result.SideBetNet)
	s.AllNet += v
	s.Wagered += result.Wagered

	s.Hands += result.Hands
	s.Wins += result.Wins
	s.Losses += result.Losses
	s.Pushes += result.Pushes
	s.Blackjacks += result.Blackjacks
	s.Busts += result.Busts
	s.Doubles += result.Doubles
	s.Splits += result.Splits

	if net > s.MaxWin {
		s.MaxWin = net
	}
	if -net > s.MaxLoss {
		s.MaxLoss = -net
	}
}

// Merge folds another set of statistics into s
func (s *Statistics) Merge(o *Statistics) {
	s.Rounds += o.Rounds
	s.SumNet += o.SumNet
	s.SumNet2 += o.SumNet2
	s.Values = append(s.Values, o.Values...)

	s.MainNet += o.MainNet
	s.InsuranceNet += o.InsuranceNet
	s.SideBetNet += o.SideBetNet
	s.AllNet += o.AllNet
	s.Wagered += o.Wagered

	s.Hands += o.Hands
	s.Wins += o.Wins
	s.Losses += o.Losses
	s.Pushes += o.Pushes
	s.Blackjacks += o.Blackjacks
	s.Busts += o.Busts
	s.Doubles += o.Doubles
	s.Splits += o.Splits

	s.MaxWin = max(s.MaxWin, o.MaxWin)
	s.MaxLoss = max(s.MaxLoss, o.MaxLoss)
}

// ReturnOnWager returns the net result per unit of main wager
func (s *Statistics) ReturnOnWager() float64 {
	if s.Wagered == 0 {
		return 0
	}
	return s.AllNet / float64(s.Wagered)
}

// WinRate returns the share of resolved hands that won
func (s *Statistics) WinRate() float64 {
	if s.Hands == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Hands)
}

func (s *Statistics) sorted() []float64 {
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)
	return sorted
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// IsLedgerBalanced checks if the accounting is consistent
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllNet-s.MainNet-s.InsuranceNet-s.SideBetNet) <= 1e-6
}

// Validate performs comprehensive validation of statistics data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllNet=%.2f, MainNet=%.2f, InsuranceNet=%.2f, SideBetNet=%.2f",
			s.AllNet, s.MainNet, s.InsuranceNet, s.SideBetNet)
	}
	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}
	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)", len(s.Values), s.Rounds)
	}
	if resolved := s.Wins + s.Losses + s.Pushes; resolved != s.Hands {
		return fmt.Errorf("outcomes (%d) do not match hands (%d)", resolved, s.Hands)
	}
	if s.Blackjacks > s.Wins {
		return fmt.Errorf("blackjacks (%d) exceed wins (%d)", s.Blackjacks, s.Wins)
	}
	return nil
}
