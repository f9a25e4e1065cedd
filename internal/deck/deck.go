package deck

import (
	"errors"
	rand "math/rand/v2"
)

// ErrExhaustedShoe is returned when drawing from a shoe with no cards left
var ErrExhaustedShoe = errors.New("shoe exhausted")

// Size is the number of cards in a single deck
const Size = 52

// Shoe is the drawable card source for a round.
// Cards are dealt from the end of the slice so a draw never copies.
type Shoe struct {
	cards []Card
	rng   *rand.Rand
}

// NewShoe creates a full 52-card shoe shuffled with the given RNG
func NewShoe(rng *rand.Rand) *Shoe {
	if rng == nil {
		panic("rng is required for shoe creation")
	}
	s := &Shoe{
		cards: make([]Card, 0, Size),
		rng:   rng,
	}
	s.Reset()
	return s
}

// NewStackedShoe creates a shoe that deals the given cards in order.
// The first card passed is the first card drawn.
func NewStackedShoe(cards ...Card) *Shoe {
	s := &Shoe{cards: make([]Card, len(cards))}
	for i, c := range cards {
		s.cards[len(cards)-1-i] = c
	}
	return s
}

// Shuffle randomizes the order of the remaining cards
func (s *Shoe) Shuffle() {
	if s.rng == nil {
		return
	}
	s.rng.Shuffle(len(s.cards), func(i, j int) {
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	})
}

// Draw removes and returns the top card
func (s *Shoe) Draw() (Card, error) {
	n := len(s.cards)
	if n == 0 {
		return Card{}, ErrExhaustedShoe
	}
	card := s.cards[n-1]
	s.cards = s.cards[:n-1]
	return card, nil
}

// Peek returns the top card without removing it
func (s *Shoe) Peek() (Card, bool) {
	if len(s.cards) == 0 {
		return Card{}, false
	}
	return s.cards[len(s.cards)-1], true
}

// Remaining returns the number of cards left in the shoe
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// IsEmpty returns true if the shoe has no cards left
func (s *Shoe) IsEmpty() bool {
	return len(s.cards) == 0
}

// Reset restores all 52 cards and reshuffles
func (s *Shoe) Reset() {
	s.cards = s.cards[:0]
	for _, suit := range Suits {
		for rank := Two; rank <= Ace; rank++ {
			s.cards = append(s.cards, NewCard(suit, rank))
		}
	}
	s.Shuffle()
}
