package game

import (
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

// Hand is a player's or dealer's cards plus the money riding on them
type Hand struct {
	cards     []deck.Card
	Wager     int
	Insurance int

	fromSplit bool
	doubled   bool
	done      bool
}

// NewHand creates a hand with a wager and optional starting cards
func NewHand(wager int, cards ...deck.Card) *Hand {
	h := &Hand{Wager: wager, cards: make([]deck.Card, 0, 4)}
	h.cards = append(h.cards, cards...)
	return h
}

// AddCard appends a card to the hand
func (h *Hand) AddCard(c deck.Card) {
	h.cards = append(h.cards, c)
}

// Cards returns a copy of the cards in deal order
func (h *Hand) Cards() []deck.Card {
	out := make([]deck.Card, len(h.cards))
	copy(out, h.cards)
	return out
}

// Len returns the number of cards held
func (h *Hand) Len() int {
	return len(h.cards)
}

// total returns the blackjack total and how many Aces still count as 11
func (h *Hand) total() (int, int) {
	total, soft := 0, 0
	for _, c := range h.cards {
		total += c.Points()
		if c.IsAce() {
			soft++
		}
	}
	for total > 21 && soft > 0 {
		total -= 10
		soft--
	}
	return total, soft
}

// Value returns the best total not exceeding 21 when one exists
func (h *Hand) Value() int {
	v, _ := h.total()
	return v
}

// Soft reports whether an Ace is still being counted as 11
func (h *Hand) Soft() bool {
	_, soft := h.total()
	return soft > 0
}

// CanSplit reports whether the hand is exactly two cards of equal rank
func (h *Hand) CanSplit() bool {
	return len(h.cards) == 2 && h.cards[0].Rank == h.cards[1].Rank
}

// IsBusted reports whether the hand is over 21
func (h *Hand) IsBusted() bool {
	return h.Value() > 21
}

// IsBlackjack reports a natural: two dealt cards totalling 21.
// Hands produced by a split never count as blackjack.
func (h *Hand) IsBlackjack() bool {
	return !h.fromSplit && len(h.cards) == 2 && h.Value() == 21
}

// FromSplit reports whether the hand took part in a split
func (h *Hand) FromSplit() bool {
	return h.fromSplit
}

// Doubled reports whether the wager was doubled down
func (h *Hand) Doubled() bool {
	return h.doubled
}

// Done reports whether the hand's turn is over
func (h *Hand) Done() bool {
	return h.done
}

// split moves the second card into a new hand carrying wager.
// Both hands are marked as split hands.
func (h *Hand) split(wager int) *Hand {
	second := h.cards[1]
	h.cards = h.cards[:1]
	h.fromSplit = true

	nh := NewHand(wager, second)
	nh.fromSplit = true
	return nh
}

// String renders the cards, e.g. "A♠ K♥"
func (h *Hand) String() string {
	parts := make([]string, len(h.cards))
	for i, c := range h.cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// HandView is a read-only snapshot of a hand
type HandView struct {
	Cards     []deck.Card
	Value     int
	Soft      bool
	Busted    bool
	Blackjack bool
	CanSplit  bool
	FromSplit bool
	Doubled   bool
	Done      bool
	Wager     int
	Insurance int
}

// View snapshots the hand
func (h *Hand) View() HandView {
	v, soft := h.total()
	return HandView{
		Cards:     h.Cards(),
		Value:     v,
		Soft:      soft > 0,
		Busted:    v > 21,
		Blackjack: h.IsBlackjack(),
		CanSplit:  h.CanSplit(),
		FromSplit: h.fromSplit,
		Doubled:   h.doubled,
		Done:      h.done,
		Wager:     h.Wager,
		Insurance: h.Insurance,
	}
}
