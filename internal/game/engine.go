package game

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// Engine runs rounds at a table by asking agents for every decision. It is
// shared by the simulator and the interactive shell.
//
// Seats without an agent fall back to the default agent. With no default
// agent, Advance stops whenever such a seat is pending, so a caller can
// collect that decision itself.
type Engine struct {
	table        *Table
	defaultAgent Agent
	agents       map[string]Agent
	logger       *log.Logger
}

// NewEngine creates a new engine with an optional default agent
func NewEngine(table *Table, defaultAgent Agent, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{
		table:        table,
		defaultAgent: defaultAgent,
		agents:       make(map[string]Agent),
		logger:       logger.WithPrefix("engine"),
	}
}

// Table returns the table being played
func (e *Engine) Table() *Table {
	return e.table
}

// SetAgent assigns an agent to a named seat. A nil agent clears it.
func (e *Engine) SetAgent(name string, agent Agent) {
	if agent == nil {
		delete(e.agents, name)
		return
	}
	e.agents[name] = agent
}

func (e *Engine) agentFor(name string) Agent {
	if a, ok := e.agents[name]; ok {
		return a
	}
	return e.defaultAgent
}

// state builds the view for one player
func (e *Engine) state(r *Round, player int) TableState {
	cfg := e.table.Config()
	s := TableState{
		Phase:     PhaseBetting,
		Rules:     cfg.Rules,
		MinBet:    cfg.MinBet,
		MaxBet:    cfg.MaxBet,
		HandIndex: -1,
	}

	var players []PlayerState
	if r != nil {
		s.RoundID = r.ID()
		s.Phase = r.Phase()
		s.DealerUp = r.DealerUpCard()
		players = r.Players()
		if pending, ok := r.Pending(); ok && pending.Phase == PhasePlayerTurns && pending.Player == player {
			s.HandIndex = pending.Hand
		}
	} else {
		for _, p := range e.table.Players() {
			players = append(players, p.State())
		}
	}

	for i, p := range players {
		if i == player {
			s.Player = p
			continue
		}
		s.Others = append(s.Others, p)
	}
	if s.HandIndex >= 0 && s.HandIndex < len(s.Player.Hands) {
		s.Hand = s.Player.Hands[s.HandIndex]
	}
	return s
}

// fallbackBet is the wager used when an agent's bet is rejected
func (e *Engine) fallbackBet(p *Player) int {
	return min(e.table.Config().MinBet, p.Bankroll)
}

// StartRound collects a bet for every seat and deals. Bets given in
// overrides are used as-is for those players; everyone else asks their agent.
func (e *Engine) StartRound(ctx context.Context, overrides map[string]int) (*Round, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	players := e.table.Players()
	bets := make([]int, len(players))
	for i, p := range players {
		if bet, ok := overrides[p.Name]; ok {
			bets[i] = bet
			continue
		}

		agent := e.agentFor(p.Name)
		if agent == nil {
			return nil, fmt.Errorf("%w: no bet or agent for %s", ErrInvalidBetAmount, p.Name)
		}
		bet := agent.Bet(e.state(nil, i))
		if err := e.table.ValidateBet(p, bet); err != nil {
			// Log error and fall back to the table minimum
			e.logger.Error("Rejected agent bet", "error", err, "player", p.Name)
			bet = e.fallbackBet(p)
		}
		bets[i] = bet
	}

	e.logger.Debug("Starting round", "round", e.table.RoundCount()+1, "bets", bets)
	return e.table.StartRound(bets)
}

// Advance answers pending decisions with agents until the round ends or a
// seat without an agent is pending. It reports whether the round is waiting
// on such a seat.
func (e *Engine) Advance(ctx context.Context) (bool, error) {
	r := e.table.Round()
	if r == nil {
		return false, fmt.Errorf("no round in progress")
	}

	for {
		pending, ok := r.Pending()
		if !ok {
			if r.Phase() == PhaseAborted {
				return false, r.Err()
			}
			return false, nil
		}
		if err := ctx.Err(); err != nil {
			return false, err
		}

		p := r.players[pending.Player]
		agent := e.agentFor(p.Name)
		if agent == nil {
			return true, nil
		}

		if err := e.apply(r, agent, pending); err != nil {
			return false, err
		}
	}
}

// apply asks an agent for the pending decision and submits it, falling back
// to declining or standing when the answer is rejected
func (e *Engine) apply(r *Round, agent Agent, pending Pending) error {
	name := r.players[pending.Player].Name
	state := e.state(r, pending.Player)

	switch pending.Phase {
	case PhaseInsurance:
		err := r.SubmitInsurance(pending.Player, agent.Insurance(state))
		if errors.Is(err, ErrInvalidInsuranceAmount) {
			e.logger.Error("Rejected agent insurance", "error", err, "player", name)
			err = r.SubmitInsurance(pending.Player, 0)
		}
		return err

	case PhaseSideBets:
		err := r.SubmitSideBet(pending.Player, agent.SideBet(state))
		if errors.Is(err, ErrInvalidBetAmount) {
			e.logger.Error("Rejected agent side bet", "error", err, "player", name)
			err = r.SubmitSideBet(pending.Player, 0)
		}
		return err

	case PhasePlayerTurns:
		valid := r.ValidActions()
		d := agent.Decide(state, valid)
		_, err := r.SubmitDecision(pending.Player, pending.Hand, d)
		if errors.Is(err, ErrInvalidAction) || errors.Is(err, ErrInvalidBetAmount) {
			e.logger.Error("Failed to apply agent decision", "error", err, "player", name)
			_, err = r.SubmitDecision(pending.Player, pending.Hand, Decision{
				Action:    Stand,
				Reasoning: "fallback due to invalid decision",
			})
		}
		if err == nil {
			e.logger.Debug("Agent decision", "player", name, "hand", pending.Hand,
				"action", d.Action, "reasoning", d.Reasoning)
		}
		return err
	}
	return fmt.Errorf("unexpected pending phase %s", pending.Phase)
}

// FinishRound ends the current round at the table and returns its result
// along with any players eliminated by it
func (e *Engine) FinishRound() (RoundResult, []*Player, error) {
	r := e.table.Round()
	if r == nil {
		return RoundResult{}, nil, fmt.Errorf("no round in progress")
	}
	out, err := e.table.EndRound()
	if err != nil {
		return RoundResult{}, nil, err
	}
	if r.Phase() == PhaseAborted {
		return RoundResult{}, out, r.Err()
	}
	res, _ := r.Result()
	return res, out, nil
}

// PlayRound runs a complete round from bets to settlement using agents for
// every seat
func (e *Engine) PlayRound(ctx context.Context) (RoundResult, error) {
	r, err := e.StartRound(ctx, nil)
	if err != nil && r == nil {
		return RoundResult{}, err
	}
	if err == nil {
		waiting, err := e.Advance(ctx)
		if err != nil && r.Phase() != PhaseAborted {
			return RoundResult{}, err
		}
		if waiting {
			return RoundResult{}, fmt.Errorf("round %s is waiting on a seat without an agent", r.ID())
		}
	}

	res, _, err := e.FinishRound()
	return res, err
}

// Run plays rounds until the game is over, maxRounds have been played, or
// ctx is cancelled. A maxRounds of 0 means no limit. It returns the number of
// rounds played.
func (e *Engine) Run(ctx context.Context, maxRounds int) (int, error) {
	played := 0
	for !e.table.IsGameOver() && (maxRounds == 0 || played < maxRounds) {
		if _, err := e.PlayRound(ctx); err != nil {
			return played, err
		}
		played++
	}
	return played, nil
}
