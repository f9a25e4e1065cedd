package game

import "github.com/lox/blackjack/internal/deck"

// Outcome is how a hand resolved against the dealer
type Outcome int

const (
	OutcomeLose Outcome = iota
	OutcomePush
	OutcomeWin
	OutcomeBlackjack
)

func (o Outcome) String() string {
	if o < OutcomeLose || o > OutcomeBlackjack {
		return "unknown"
	}
	return [...]string{"lose", "push", "win", "blackjack"}[o]
}

// HandResult is the settlement of one player hand
type HandResult struct {
	Player    string
	Seat      int
	HandIndex int
	Cards     []deck.Card
	Value     int
	Wager     int
	FromSplit bool
	Doubled   bool
	Outcome   Outcome
	Net       int // Bankroll change from this hand
}

// InsuranceResult is the settlement of an insurance wager
type InsuranceResult struct {
	Player string
	Stake  int
	Won    bool
	Net    int
}

// SideBetResult is the settlement of a side bet
type SideBetResult struct {
	Player  string
	Stake   int
	Outcome SideBetOutcome
	Net     int // Return minus stake
}

// RoundResult is everything settlement decided
type RoundResult struct {
	RoundID         string
	Dealer          []deck.Card
	DealerValue     int
	DealerBlackjack bool
	DealerBusted    bool
	Hands           []HandResult
	Insurance       []InsuranceResult
	SideBets        []SideBetResult
	Net             map[string]int // Net bankroll change per player
}

// resolveHand compares a hand against the final dealer hand
func (r *Round) resolveHand(h *Hand) (Outcome, int) {
	bj := h.IsBlackjack()
	switch {
	case r.dealerBlackjack && !bj:
		return OutcomeLose, -h.Wager
	case bj && !r.dealerBlackjack:
		return OutcomeBlackjack, r.rules.BlackjackPayout.Apply(h.Wager)
	case bj:
		return OutcomePush, 0
	case h.IsBusted():
		return OutcomeLose, -h.Wager
	case r.dealer.IsBusted():
		return OutcomeWin, h.Wager
	}

	hv, dv := h.Value(), r.dealer.Value()
	switch {
	case hv > dv:
		return OutcomeWin, h.Wager
	case hv < dv:
		return OutcomeLose, -h.Wager
	default:
		return OutcomePush, 0
	}
}

// settle pays every hand, insurance wager and side bet, then ends the round
func (r *Round) settle() {
	r.phase = PhaseSettlement
	r.player, r.hand = -1, -1

	res := RoundResult{
		RoundID:         r.id,
		Dealer:          r.dealer.Cards(),
		DealerValue:     r.dealer.Value(),
		DealerBlackjack: r.dealerBlackjack,
		DealerBusted:    r.dealer.IsBusted(),
		Net:             make(map[string]int, len(r.players)),
	}

	for _, p := range r.players {
		net := 0

		for i, h := range p.Hands {
			h.done = true
			outcome, delta := r.resolveHand(h)
			net += delta

			switch outcome {
			case OutcomeBlackjack:
				p.Stats.Wins++
				p.Stats.Blackjacks++
			case OutcomeWin:
				p.Stats.Wins++
			case OutcomeLose:
				p.Stats.Losses++
			case OutcomePush:
				p.Stats.Ties++
			}
			if h.IsBusted() {
				p.Stats.Busts++
			}

			res.Hands = append(res.Hands, HandResult{
				Player:    p.Name,
				Seat:      p.Seat,
				HandIndex: i,
				Cards:     h.Cards(),
				Value:     h.Value(),
				Wager:     h.Wager,
				FromSplit: h.fromSplit,
				Doubled:   h.doubled,
				Outcome:   outcome,
				Net:       delta,
			})
		}

		// Insurance stakes were never deducted: a win credits the stake
		// (2:1 on a half-size bet), a loss debits it.
		if stake := p.Hands[0].Insurance; stake > 0 {
			delta := -stake
			if r.dealerBlackjack {
				delta = stake
			}
			net += delta
			res.Insurance = append(res.Insurance, InsuranceResult{
				Player: p.Name,
				Stake:  stake,
				Won:    r.dealerBlackjack,
				Net:    delta,
			})
		}

		// Side bet stakes left the bankroll on placement, so credit the return
		// here and count only the difference as net.
		sideNet := 0
		if p.SideBet > 0 && r.rules.SideBet != nil {
			out := r.rules.SideBet.Resolve(r.rng, p.SideBet)
			p.Bankroll += out.Return
			sideNet = out.Return - p.SideBet
			res.SideBets = append(res.SideBets, SideBetResult{
				Player:  p.Name,
				Stake:   p.SideBet,
				Outcome: out,
				Net:     sideNet,
			})
		}

		p.Bankroll += net
		net += sideNet
		p.Stats.Rounds++
		p.Stats.Net += net
		res.Net[p.Name] = net

		r.logger.Debug("Settled player", "player", p.Name, "net", net, "bankroll", p.Bankroll)
	}

	r.result = &res
	r.phase = PhaseRoundEnd
	r.publish(RoundEndEvent{Result: res, timestamp: r.now()})
	r.logger.Info("Round settled",
		"dealer", r.dealer.String(),
		"dealerValue", res.DealerValue,
		"hands", len(res.Hands))
}
