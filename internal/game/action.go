package game

import (
	"fmt"
	"strings"
)

// Action represents a player decision on a hand
type Action int

const (
	Hit Action = iota + 1
	Stand
	DoubleDown
	Split
)

// Actions lists every action in display order
var Actions = [...]Action{Hit, Stand, DoubleDown, Split}

func (a Action) String() string {
	switch a {
	case Hit:
		return "hit"
	case Stand:
		return "stand"
	case DoubleDown:
		return "double"
	case Split:
		return "split"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Key returns the single-letter shortcut shown in prompts
func (a Action) Key() string {
	switch a {
	case Hit:
		return "H"
	case Stand:
		return "S"
	case DoubleDown:
		return "D"
	case Split:
		return "P"
	default:
		return "?"
	}
}

// Valid reports whether a is one of the known actions
func (a Action) Valid() bool {
	return a >= Hit && a <= Split
}

// ParseAction converts shell input ("h", "hit", "D", "split", ...) into an Action
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "h", "hit":
		return Hit, nil
	case "s", "stand":
		return Stand, nil
	case "d", "double", "doubledown", "double-down":
		return DoubleDown, nil
	case "p", "split":
		return Split, nil
	default:
		return 0, fmt.Errorf("%w: unrecognized action %q", ErrInvalidAction, s)
	}
}

// Decision is an action plus the optional wager attached to a split hand
type Decision struct {
	Action    Action
	Amount    int    // Wager for the new hand when splitting
	Reasoning string // Human-readable explanation
}
