package game

import (
	"time"

	"github.com/lox/blackjack/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeRoundStart       EventType = "round_start"
	EventTypeRoundEnd         EventType = "round_end"
	EventTypeRoundAborted     EventType = "round_aborted"
	EventTypePlayerAction     EventType = "player_action"
	EventTypeInsurance        EventType = "insurance"
	EventTypeSideBet          EventType = "side_bet"
	EventTypeDealerTurn       EventType = "dealer_turn"
	EventTypePlayerEliminated EventType = "player_eliminated"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during a round
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// RoundStartEvent is published once the initial cards are dealt
type RoundStartEvent struct {
	RoundID   string
	Players   []string
	Bets      []int
	DealerUp  deck.Card
	timestamp time.Time
}

func (e RoundStartEvent) EventType() EventType { return EventTypeRoundStart }
func (e RoundStartEvent) Timestamp() time.Time { return e.timestamp }

// PlayerActionEvent is published after an action is applied to a hand
type PlayerActionEvent struct {
	RoundID   string
	Player    string
	HandIndex int
	Action    Action
	Hand      HandView
	timestamp time.Time
}

func (e PlayerActionEvent) EventType() EventType { return EventTypePlayerAction }
func (e PlayerActionEvent) Timestamp() time.Time { return e.timestamp }

// InsuranceEvent is published when a player answers the insurance offer
type InsuranceEvent struct {
	RoundID   string
	Player    string
	Amount    int
	timestamp time.Time
}

func (e InsuranceEvent) EventType() EventType { return EventTypeInsurance }
func (e InsuranceEvent) Timestamp() time.Time { return e.timestamp }

// SideBetEvent is published when a player answers the side bet offer
type SideBetEvent struct {
	RoundID   string
	Player    string
	Amount    int
	timestamp time.Time
}

func (e SideBetEvent) EventType() EventType { return EventTypeSideBet }
func (e SideBetEvent) Timestamp() time.Time { return e.timestamp }

// DealerTurnEvent is published when the dealer has finished drawing
type DealerTurnEvent struct {
	RoundID   string
	Hand      HandView
	timestamp time.Time
}

func (e DealerTurnEvent) EventType() EventType { return EventTypeDealerTurn }
func (e DealerTurnEvent) Timestamp() time.Time { return e.timestamp }

// RoundEndEvent is published after settlement
type RoundEndEvent struct {
	Result    RoundResult
	timestamp time.Time
}

func (e RoundEndEvent) EventType() EventType { return EventTypeRoundEnd }
func (e RoundEndEvent) Timestamp() time.Time { return e.timestamp }

// RoundAbortedEvent is published when a round cannot finish
type RoundAbortedEvent struct {
	RoundID   string
	Err       error
	timestamp time.Time
}

func (e RoundAbortedEvent) EventType() EventType { return EventTypeRoundAborted }
func (e RoundAbortedEvent) Timestamp() time.Time { return e.timestamp }

// PlayerEliminatedEvent is published when a player leaves the table broke
type PlayerEliminatedEvent struct {
	Player    string
	Bankroll  int
	Rounds    int
	timestamp time.Time
}

func (e PlayerEliminatedEvent) EventType() EventType { return EventTypePlayerEliminated }
func (e PlayerEliminatedEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a synchronous in-memory event bus.
// Subscribers are called in subscription order on the publishing goroutine.
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
