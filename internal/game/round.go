package game

import (
	"fmt"
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/roundid"
)

// Pending identifies the decision a round is blocked on
type Pending struct {
	Phase  Phase
	Player int
	Hand   int
}

// Round is the state machine for one round of blackjack. It owns the shoe and
// the dealer hand; players own their hands. A Round is constructed fresh for
// every round and discarded after settlement. It is not safe for concurrent use.
type Round struct {
	id    string
	rules Rules
	rng   *rand.Rand
	shoe  *deck.Shoe

	dealer          *Hand
	dealerBlackjack bool
	players         []*Player

	phase  Phase
	player int // Cursor: player whose decision is pending
	hand   int // Cursor: hand index within that player, player turns only

	result *RoundResult
	err    error

	logger *log.Logger
	bus    EventBus
	clock  quartz.Clock
}

// NewRound validates the bets, deals the initial cards and advances to the
// first decision point. Bets are validated before anything is mutated.
//
// If the shoe runs out while dealing, the returned round is in PhaseAborted
// and the error wraps ErrExhaustedShoe.
func NewRound(rng *rand.Rand, players []*Player, bets []int, opts ...RoundOption) (*Round, error) {
	if rng == nil {
		panic("rng is required for round creation")
	}

	cfg := defaultRoundConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	if len(players) == 0 {
		return nil, ErrNoPlayers
	}
	if len(bets) != len(players) {
		return nil, fmt.Errorf("%w: got %d bets for %d players", ErrInvalidBetAmount, len(bets), len(players))
	}
	for i, p := range players {
		if err := p.ValidateBet(bets[i]); err != nil {
			return nil, err
		}
	}

	shoe := cfg.shoe
	if shoe == nil {
		shoe = deck.NewShoe(rng)
	}
	id := cfg.id
	if id == "" {
		id = roundid.NewGenerator(cfg.clock, rng).Generate()
	}

	r := &Round{
		id:      id,
		rules:   cfg.rules,
		rng:     rng,
		shoe:    shoe,
		dealer:  NewHand(0),
		players: players,
		phase:   PhaseBetting,
		logger:  cfg.logger.WithPrefix("round").With("round", id),
		bus:     cfg.bus,
		clock:   cfg.clock,
	}

	for i, p := range players {
		p.startRound(bets[i])
	}

	if err := r.deal(); err != nil {
		return r, r.abort(err)
	}

	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}
	r.publish(RoundStartEvent{
		RoundID:   id,
		Players:   names,
		Bets:      append([]int(nil), bets...),
		DealerUp:  r.dealer.cards[0],
		timestamp: r.now(),
	})
	r.logger.Debug("Dealt round", "players", len(players), "dealerUp", r.dealer.cards[0])

	if err := r.afterDeal(); err != nil {
		return r, err
	}
	return r, nil
}

// deal gives two cards to every player and the dealer, one at a time
func (r *Round) deal() error {
	r.phase = PhaseDealing
	for pass := 0; pass < 2; pass++ {
		for _, p := range r.players {
			c, err := r.draw()
			if err != nil {
				return err
			}
			p.Hands[0].AddCard(c)
		}
		c, err := r.draw()
		if err != nil {
			return err
		}
		r.dealer.AddCard(c)
	}
	return nil
}

func (r *Round) draw() (deck.Card, error) {
	return r.shoe.Draw()
}

// afterDeal offers insurance against an Ace, otherwise checks naturals
func (r *Round) afterDeal() error {
	if r.rules.Insurance && r.dealer.cards[0].IsAce() {
		r.phase = PhaseInsurance
		r.player, r.hand = 0, 0
		return nil
	}
	return r.checkNaturals()
}

// checkNaturals short-circuits to settlement when a natural was dealt
func (r *Round) checkNaturals() error {
	r.dealerBlackjack = r.dealer.IsBlackjack()

	naturals := 0
	for _, p := range r.players {
		if p.Hands[0].IsBlackjack() {
			naturals++
		}
	}

	if r.dealerBlackjack || (naturals > 0 && r.rules.Natural == NaturalEndsRound) {
		r.logger.Debug("Natural on the deal", "dealer", r.dealerBlackjack, "players", naturals)
		r.settle()
		return nil
	}

	for _, p := range r.players {
		if h := p.Hands[0]; h.IsBlackjack() {
			h.done = true
		}
	}
	return r.openSideBets()
}

func (r *Round) openSideBets() error {
	if r.rules.SideBet != nil {
		r.phase = PhaseSideBets
		r.player, r.hand = 0, 0
		return nil
	}
	return r.startPlayerTurns()
}

func (r *Round) startPlayerTurns() error {
	r.phase = PhasePlayerTurns
	r.player, r.hand = 0, -1
	return r.nextHand()
}

// nextHand moves the cursor to the next unfinished hand in creation order.
// Split hands are appended to the player's list, so they are reached here.
// When no hands are left the dealer plays.
func (r *Round) nextHand() error {
	for p, h := r.player, r.hand+1; p < len(r.players); p, h = p+1, 0 {
		hands := r.players[p].Hands
		for ; h < len(hands); h++ {
			if !hands[h].done {
				r.player, r.hand = p, h
				return nil
			}
		}
	}
	return r.dealerTurn()
}

// dealerTurn draws for the dealer under the configured policy. The dealer
// does not draw when every player hand is already decided.
func (r *Round) dealerTurn() error {
	r.phase = PhaseDealerTurn
	r.player, r.hand = -1, -1

	if r.hasLiveHand() {
		for r.rules.Dealer.ShouldHit(r.dealer) {
			c, err := r.draw()
			if err != nil {
				return r.abort(err)
			}
			r.dealer.AddCard(c)
		}
	}
	r.dealer.done = true

	r.publish(DealerTurnEvent{RoundID: r.id, Hand: r.dealer.View(), timestamp: r.now()})
	r.logger.Debug("Dealer stands", "cards", r.dealer.String(), "value", r.dealer.Value())

	r.settle()
	return nil
}

func (r *Round) hasLiveHand() bool {
	for _, p := range r.players {
		for _, h := range p.Hands {
			if !h.IsBusted() && !h.IsBlackjack() {
				return true
			}
		}
	}
	return false
}

// abort ends the round without settlement. Side bet stakes are refunded; main
// wagers were never taken from the bankroll.
func (r *Round) abort(cause error) error {
	r.phase = PhaseAborted
	r.err = cause
	for _, p := range r.players {
		if p.SideBet > 0 {
			p.Bankroll += p.SideBet
			p.SideBet = 0
		}
	}
	r.publish(RoundAbortedEvent{RoundID: r.id, Err: cause, timestamp: r.now()})
	r.logger.Error("Round aborted", "error", cause)
	return fmt.Errorf("round %s aborted: %w", r.id, cause)
}

func (r *Round) publish(e GameEvent) {
	if r.bus != nil {
		r.bus.Publish(e)
	}
}

func (r *Round) now() time.Time {
	return r.clock.Now()
}

// expect checks that the given decision is the pending one
func (r *Round) expect(phase Phase, player, hand int) error {
	if r.phase != phase {
		return fmt.Errorf("%w: round is in %s, not %s", ErrInvalidAction, r.phase, phase)
	}
	if player != r.player || (phase == PhasePlayerTurns && hand != r.hand) {
		return fmt.Errorf("%w: waiting on player %d hand %d, got player %d hand %d",
			ErrInvalidAction, r.player, r.hand, player, hand)
	}
	return nil
}

// SubmitInsurance answers the insurance offer for a player. Zero declines.
func (r *Round) SubmitInsurance(player, amount int) error {
	if err := r.expect(PhaseInsurance, player, 0); err != nil {
		return err
	}

	p := r.players[player]
	h := p.Hands[0]
	switch {
	case amount < 0:
		return fmt.Errorf("%w: %d is negative", ErrInvalidInsuranceAmount, amount)
	case amount*2 > h.Wager:
		return fmt.Errorf("%w: %d exceeds half the wager of %d", ErrInvalidInsuranceAmount, amount, h.Wager)
	case amount > p.Available():
		return fmt.Errorf("%w: %d exceeds available bankroll %d", ErrInvalidInsuranceAmount, amount, p.Available())
	}

	h.Insurance = amount
	if amount > 0 {
		p.Stats.Insurances++
	}
	r.publish(InsuranceEvent{RoundID: r.id, Player: p.Name, Amount: amount, timestamp: r.now()})
	r.logger.Debug("Insurance", "player", p.Name, "amount", amount)

	r.player++
	if r.player >= len(r.players) {
		return r.checkNaturals()
	}
	return nil
}

// SubmitSideBet answers the side bet offer for a player. Zero declines.
// The stake leaves the bankroll immediately.
func (r *Round) SubmitSideBet(player, amount int) error {
	if err := r.expect(PhaseSideBets, player, 0); err != nil {
		return err
	}

	p := r.players[player]
	if amount < 0 || amount > p.Available() {
		return fmt.Errorf("%w: side bet %d with %d available", ErrInvalidBetAmount, amount, p.Available())
	}

	p.Bankroll -= amount
	p.SideBet = amount
	r.publish(SideBetEvent{RoundID: r.id, Player: p.Name, Amount: amount, timestamp: r.now()})
	r.logger.Debug("Side bet", "player", p.Name, "amount", amount)

	r.player++
	if r.player >= len(r.players) {
		return r.startPlayerTurns()
	}
	return nil
}

// SubmitAction applies an action to the pending hand
func (r *Round) SubmitAction(player, hand int, action Action) (HandView, error) {
	return r.SubmitDecision(player, hand, Decision{Action: action})
}

// SubmitDecision applies a decision to the pending hand and returns the
// updated hand. Invalid decisions leave the round untouched.
func (r *Round) SubmitDecision(player, hand int, d Decision) (HandView, error) {
	if !d.Action.Valid() {
		return HandView{}, fmt.Errorf("%w: %s", ErrInvalidAction, d.Action)
	}
	if err := r.expect(PhasePlayerTurns, player, hand); err != nil {
		return HandView{}, err
	}

	p := r.players[player]
	h := p.Hands[hand]
	if err := r.validate(p, h, d); err != nil {
		return h.View(), err
	}

	switch d.Action {
	case Hit:
		c, err := r.draw()
		if err != nil {
			return h.View(), r.abort(err)
		}
		h.AddCard(c)
		if h.IsBusted() {
			h.done = true
		}

	case Stand:
		h.done = true

	case DoubleDown:
		c, err := r.draw()
		if err != nil {
			return h.View(), r.abort(err)
		}
		h.Wager *= 2
		h.doubled = true
		h.AddCard(c)
		h.done = true
		p.Stats.Doubles++

	case Split:
		if r.shoe.Remaining() < 2 {
			return h.View(), r.abort(ErrExhaustedShoe)
		}
		nh := h.split(d.Amount)
		c1, _ := r.draw()
		h.AddCard(c1)
		c2, _ := r.draw()
		nh.AddCard(c2)
		p.Hands = append(p.Hands, nh)
		p.Stats.Splits++
	}

	view := h.View()
	r.publish(PlayerActionEvent{
		RoundID:   r.id,
		Player:    p.Name,
		HandIndex: hand,
		Action:    d.Action,
		Hand:      view,
		timestamp: r.now(),
	})
	r.logger.Debug("Player action", "player", p.Name, "hand", hand, "action", d.Action, "cards", h.String(), "value", view.Value)

	if h.done {
		if err := r.nextHand(); err != nil {
			return view, err
		}
	}
	return view, nil
}

// validate checks a decision against the hand and bankroll
func (r *Round) validate(p *Player, h *Hand, d Decision) error {
	switch d.Action {
	case DoubleDown:
		if h.Len() != 2 {
			return fmt.Errorf("%w: double down needs exactly two cards, hand has %d", ErrInvalidAction, h.Len())
		}
		if h.Wager > p.Available() {
			return fmt.Errorf("%w: cannot double %d with %d available", ErrInvalidAction, h.Wager, p.Available())
		}
	case Split:
		if !h.CanSplit() {
			return fmt.Errorf("%w: hand %s cannot be split", ErrInvalidAction, h)
		}
		if len(p.Hands) >= r.rules.MaxHands {
			return fmt.Errorf("%w: already playing %d hands", ErrInvalidAction, len(p.Hands))
		}
		if d.Amount < 0 || d.Amount > p.Available() {
			return fmt.Errorf("%w: split wager %d with %d available", ErrInvalidBetAmount, d.Amount, p.Available())
		}
	}
	return nil
}

// ValidActions returns the actions the pending hand may take
func (r *Round) ValidActions() []Action {
	if r.phase != PhasePlayerTurns {
		return nil
	}
	p := r.players[r.player]
	h := p.Hands[r.hand]

	actions := make([]Action, 0, len(Actions))
	for _, a := range Actions {
		if r.validate(p, h, Decision{Action: a}) == nil {
			actions = append(actions, a)
		}
	}
	return actions
}

// ID returns the round identifier
func (r *Round) ID() string {
	return r.id
}

// Phase returns the current phase
func (r *Round) Phase() Phase {
	return r.phase
}

// Rules returns the rule-set in force
func (r *Round) Rules() Rules {
	return r.rules
}

// Err returns the cause of an aborted round
func (r *Round) Err() error {
	return r.err
}

// Pending returns the decision the round is waiting on, if any
func (r *Round) Pending() (Pending, bool) {
	if !r.phase.AwaitsInput() {
		return Pending{Phase: r.phase, Player: -1, Hand: -1}, false
	}
	return Pending{Phase: r.phase, Player: r.player, Hand: r.hand}, true
}

// NumPlayers returns the number of players in the round
func (r *Round) NumPlayers() int {
	return len(r.players)
}

// Player returns a snapshot of a player
func (r *Round) Player(i int) (PlayerState, error) {
	if i < 0 || i >= len(r.players) {
		return PlayerState{}, fmt.Errorf("player index %d out of range", i)
	}
	return r.players[i].State(), nil
}

// Players returns snapshots of every player
func (r *Round) Players() []PlayerState {
	out := make([]PlayerState, len(r.players))
	for i, p := range r.players {
		out[i] = p.State()
	}
	return out
}

// Hand returns a snapshot of a player's hand
func (r *Round) Hand(player, hand int) (HandView, error) {
	if player < 0 || player >= len(r.players) {
		return HandView{}, fmt.Errorf("player index %d out of range", player)
	}
	hands := r.players[player].Hands
	if hand < 0 || hand >= len(hands) {
		return HandView{}, fmt.Errorf("hand index %d out of range", hand)
	}
	return hands[hand].View(), nil
}

// DealerUpCard returns the dealer's visible card
func (r *Round) DealerUpCard() deck.Card {
	return r.dealer.cards[0]
}

// DealerHand returns the full dealer hand once the round has reached settlement
func (r *Round) DealerHand() (HandView, bool) {
	if r.phase != PhaseSettlement && r.phase != PhaseRoundEnd {
		return HandView{}, false
	}
	return r.dealer.View(), true
}

// Result returns the settlement once the round has ended
func (r *Round) Result() (RoundResult, bool) {
	if r.result == nil {
		return RoundResult{}, false
	}
	return *r.result, true
}
