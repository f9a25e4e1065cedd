package game

// Phase is a step of the round state machine
type Phase int

const (
	PhaseBetting Phase = iota
	PhaseDealing
	PhaseInsurance
	PhaseSideBets
	PhasePlayerTurns
	PhaseDealerTurn
	PhaseSettlement
	PhaseRoundEnd
	PhaseAborted
)

func (p Phase) String() string {
	if p < PhaseBetting || p > PhaseAborted {
		return "unknown"
	}
	return [...]string{"betting", "dealing", "insurance", "side-bets", "player-turns", "dealer-turn", "settlement", "round-end", "aborted"}[p]
}

// AwaitsInput reports whether the phase blocks on an external decision
func (p Phase) AwaitsInput() bool {
	return p == PhaseInsurance || p == PhaseSideBets || p == PhasePlayerTurns
}

// IsTerminal reports whether the round has finished
func (p Phase) IsTerminal() bool {
	return p == PhaseRoundEnd || p == PhaseAborted
}
