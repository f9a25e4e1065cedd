// Package history records settled rounds and persists them as HCL.
//
// A Recorder subscribes to a table's event bus and keeps every RoundEndEvent
// it sees. The simulator has no bus of its own to observe, so its results are
// fed in with RecordSession instead. Either way the file looks like:
//
//	version = 1
//
//	round "01j9..." {
//	  recorded_at  = "2026-10-14T09:30:00Z"
//	  session      = 0
//	  seed         = 42
//	  dealer       = ["Kh", "7d"]
//	  dealer_value = 17
//
//	  hand "alice" {
//	    index   = 0
//	    cards   = ["Ts", "9c"]
//	    value   = 19
//	    wager   = 10
//	    outcome = "win"
//	    net     = 10
//	  }
//	}
package history

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// Version of the history file format
const Version = 1

// File is the root of a history file
type File struct {
	Version int           `hcl:"version"`
	Rounds  []RoundRecord `hcl:"round,block"`
}

// RoundRecord is one settled round
type RoundRecord struct {
	ID              string            `hcl:"id,label"`
	RecordedAt      string            `hcl:"recorded_at"`
	Session         int               `hcl:"session,optional"`
	Seed            int64             `hcl:"seed,optional"`
	Dealer          []string          `hcl:"dealer"`
	DealerValue     int               `hcl:"dealer_value"`
	DealerBlackjack bool              `hcl:"dealer_blackjack,optional"`
	DealerBusted    bool              `hcl:"dealer_busted,optional"`
	Hands           []HandRecord      `hcl:"hand,block"`
	Insurance       []InsuranceRecord `hcl:"insurance,block"`
	SideBets        []SideBetRecord   `hcl:"side_bet,block"`
}

// HandRecord is the settlement of one player hand
type HandRecord struct {
	Player    string   `hcl:"player,label"`
	Index     int      `hcl:"index"`
	Cards     []string `hcl:"cards"`
	Value     int      `hcl:"value"`
	Wager     int      `hcl:"wager"`
	FromSplit bool     `hcl:"from_split,optional"`
	Doubled   bool     `hcl:"doubled,optional"`
	Outcome   string   `hcl:"outcome"`
	Net       int      `hcl:"net"`
}

// InsuranceRecord is the settlement of an insurance wager
type InsuranceRecord struct {
	Player string `hcl:"player,label"`
	Stake  int    `hcl:"stake"`
	Won    bool   `hcl:"won"`
	Net    int    `hcl:"net"`
}

// SideBetRecord is the settlement of a side bet
type SideBetRecord struct {
	Player  string `hcl:"player,label"`
	Stake   int    `hcl:"stake"`
	Outcome string `hcl:"outcome,optional"`
	Won     bool   `hcl:"won"`
	Net     int    `hcl:"net"`
}

// Net sums the bankroll change for a player across the round
func (r RoundRecord) Net(player string) int {
	net := 0
	for _, h := range r.Hands {
		if h.Player == player {
			net += h.Net
		}
	}
	for _, i := range r.Insurance {
		if i.Player == player {
			net += i.Net
		}
	}
	for _, s := range r.SideBets {
		if s.Player == player {
			net += s.Net
		}
	}
	return net
}

// Recorder collects round records. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	clock  quartz.Clock
	logger *log.Logger
	rounds []RoundRecord
}

// NewRecorder creates a recorder stamping records with clock. A nil clock
// uses the real clock.
func NewRecorder(clock quartz.Clock, logger *log.Logger) *Recorder {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Recorder{clock: clock, logger: logger.WithPrefix("history")}
}

// OnEvent records every settled round published on a bus
func (r *Recorder) OnEvent(event game.GameEvent) {
	if e, ok := event.(game.RoundEndEvent); ok {
		r.Record(e.Result)
	}
}

// Record adds one round played outside any session
func (r *Recorder) Record(res game.RoundResult) {
	r.add(0, 0, res)
}

// RecordSession adds the rounds of one simulator session
func (r *Recorder) RecordSession(session int, seed int64, rounds []game.RoundResult) {
	for _, res := range rounds {
		r.add(session, seed, res)
	}
}

func (r *Recorder) add(session int, seed int64, res game.RoundResult) {
	rec := NewRoundRecord(res, r.clock.Now())
	rec.Session = session
	rec.Seed = seed

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rounds = append(r.rounds, rec)
	r.logger.Debug("Recorded round", "round", rec.ID, "session", session, "hands", len(rec.Hands))
}

// Rounds returns a copy of everything recorded so far
func (r *Recorder) Rounds() []RoundRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RoundRecord, len(r.rounds))
	copy(out, r.rounds)
	return out
}

// Len returns the number of rounds recorded
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rounds)
}

// File returns the recorded rounds as a history file
func (r *Recorder) File() *File {
	return &File{Version: Version, Rounds: r.Rounds()}
}

// NewRoundRecord converts a settled round into its file form
func NewRoundRecord(res game.RoundResult, at time.Time) RoundRecord {
	rec := RoundRecord{
		ID:              res.RoundID,
		RecordedAt:      at.UTC().Format(time.RFC3339),
		Dealer:          cardStrings(res.Dealer),
		DealerValue:     res.DealerValue,
		DealerBlackjack: res.DealerBlackjack,
		DealerBusted:    res.DealerBusted,
	}
	for _, h := range res.Hands {
		rec.Hands = append(rec.Hands, HandRecord{
			Player:    h.Player,
			Index:     h.HandIndex,
			Cards:     cardStrings(h.Cards),
			Value:     h.Value,
			Wager:     h.Wager,
			FromSplit: h.FromSplit,
			Doubled:   h.Doubled,
			Outcome:   h.Outcome.String(),
			Net:       h.Net,
		})
	}
	for _, i := range res.Insurance {
		rec.Insurance = append(rec.Insurance, InsuranceRecord{
			Player: i.Player,
			Stake:  i.Stake,
			Won:    i.Won,
			Net:    i.Net,
		})
	}
	for _, s := range res.SideBets {
		rec.SideBets = append(rec.SideBets, SideBetRecord{
			Player:  s.Player,
			Stake:   s.Stake,
			Outcome: s.Outcome.Label,
			Won:     s.Outcome.Won,
			Net:     s.Net,
		})
	}
	return rec
}

func cardStrings(cards []deck.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Code()
	}
	return out
}
