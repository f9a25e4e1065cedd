package game

import "fmt"

// Stats are cumulative per-player counters across rounds
type Stats struct {
	Rounds     int
	Wins       int // Includes blackjacks
	Losses     int
	Ties       int
	Blackjacks int
	Busts      int
	Doubles    int
	Splits     int
	Insurances int
	Net        int // Bankroll change across all rounds
}

// Hands returns the number of resolved hands
func (s Stats) Hands() int {
	return s.Wins + s.Losses + s.Ties
}

// Player represents a seated player
type Player struct {
	Seat     int
	Name     string
	Bankroll int
	Hands    []*Hand
	SideBet  int // Stake already deducted from Bankroll this round
	Stats    Stats
}

// NewPlayer creates a new player
func NewPlayer(seat int, name string, bankroll int) *Player {
	return &Player{
		Seat:     seat,
		Name:     name,
		Bankroll: bankroll,
	}
}

// Committed returns the money at risk on hands this round
func (p *Player) Committed() int {
	total := 0
	for _, h := range p.Hands {
		total += h.Wager + h.Insurance
	}
	return total
}

// Available returns the bankroll not already committed this round
func (p *Player) Available() int {
	return p.Bankroll - p.Committed()
}

// IsEliminated returns true once the bankroll is exhausted
func (p *Player) IsEliminated() bool {
	return p.Bankroll <= 0
}

// ValidateBet checks a main wager against the bankroll
func (p *Player) ValidateBet(amount int) error {
	if amount <= 0 {
		return fmt.Errorf("%w: %s bet %d must be positive", ErrInvalidBetAmount, p.Name, amount)
	}
	if amount > p.Bankroll {
		return fmt.Errorf("%w: %s bet %d exceeds bankroll %d", ErrInvalidBetAmount, p.Name, amount, p.Bankroll)
	}
	return nil
}

// startRound clears last round's hands and seats a fresh one with the wager
func (p *Player) startRound(wager int) {
	p.Hands = []*Hand{NewHand(wager)}
	p.SideBet = 0
}

// PlayerState is a read-only snapshot of a player
type PlayerState struct {
	Seat      int
	Name      string
	Bankroll  int
	Available int
	SideBet   int
	Hands     []HandView
	Stats     Stats
}

// State snapshots the player
func (p *Player) State() PlayerState {
	hands := make([]HandView, len(p.Hands))
	for i, h := range p.Hands {
		hands[i] = h.View()
	}
	return PlayerState{
		Seat:      p.Seat,
		Name:      p.Name,
		Bankroll:  p.Bankroll,
		Available: p.Available(),
		SideBet:   p.SideBet,
		Hands:     hands,
		Stats:     p.Stats,
	}
}
