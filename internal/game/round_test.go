package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoundValidatesBets(t *testing.T) {
	tests := []struct {
		name string
		bets []int
		want error
	}{
		{"zero bet", []int{0}, ErrInvalidBetAmount},
		{"negative bet", []int{-5}, ErrInvalidBetAmount},
		{"exceeds bankroll", []int{1001}, ErrInvalidBetAmount},
		{"bet count mismatch", []int{10, 10}, ErrInvalidBetAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			players := newTestPlayers(1000)
			_, err := NewRound(testRNG(), players, tt.bets)
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, players[0].Hands, "no hand dealt on a rejected bet")
			assert.Equal(t, 1000, players[0].Bankroll)
		})
	}

	t.Run("no players", func(t *testing.T) {
		_, err := NewRound(testRNG(), nil, nil)
		assert.ErrorIs(t, err, ErrNoPlayers)
	})

	t.Run("requires RNG", func(t *testing.T) {
		assert.Panics(t, func() {
			_, _ = NewRound(nil, newTestPlayers(1000), []int{10})
		})
	})

	t.Run("invalid rules", func(t *testing.T) {
		rules := DefaultRules()
		rules.MaxHands = 0
		_, err := NewRound(testRNG(), newTestPlayers(1000), []int{10}, WithRules(rules))
		assert.Error(t, err)
	})
}

func TestRoundDealOrder(t *testing.T) {
	r, players := newTestRound(t, "2s 3s 4s 5s 6s 7s", []int{10, 10})

	assert.Equal(t, "2♠ 5♠", players[0].Hands[0].String())
	assert.Equal(t, "3♠ 6♠", players[1].Hands[0].String())
	assert.Equal(t, "4♠", r.DealerUpCard().String())
	assert.Equal(t, PhasePlayerTurns, r.Phase())

	pending, ok := r.Pending()
	require.True(t, ok)
	assert.Equal(t, Pending{Phase: PhasePlayerTurns, Player: 0, Hand: 0}, pending)

	_, visible := r.DealerHand()
	assert.False(t, visible, "hole card hidden during player turns")
}

func TestRandomShoeDealsUniqueCards(t *testing.T) {
	players := newTestPlayers(1000, 1000, 1000)
	r, err := NewRound(testRNG(), players, []int{10, 10, 10})
	require.NoError(t, err)

	seen := map[string]bool{r.DealerUpCard().String(): true}
	for _, p := range players {
		for _, c := range p.Hands[0].Cards() {
			assert.False(t, seen[c.String()], "duplicate card %s", c)
			seen[c.String()] = true
		}
	}
	assert.Len(t, seen, 7)
	assert.Equal(t, 52-8, r.shoe.Remaining())
}

func TestDealerBlackjackBeatsPair(t *testing.T) {
	r, players := newTestRound(t, "8s Ah 8d Kc", []int{100})

	require.Equal(t, PhaseInsurance, r.Phase(), "ace up offers insurance")
	require.NoError(t, r.SubmitInsurance(0, 0))

	assert.Equal(t, PhaseRoundEnd, r.Phase())
	assert.Equal(t, 900, players[0].Bankroll)

	res, ok := r.Result()
	require.True(t, ok)
	assert.True(t, res.DealerBlackjack)
	require.Len(t, res.Hands, 1)
	assert.Equal(t, OutcomeLose, res.Hands[0].Outcome)
	assert.Equal(t, -100, res.Net["p1"])
	assert.Equal(t, 1, players[0].Stats.Losses)

	dealer, ok := r.DealerHand()
	require.True(t, ok)
	assert.Equal(t, 21, dealer.Value)
	assert.Len(t, dealer.Cards, 2)
}

func TestInsurance(t *testing.T) {
	t.Run("pays against dealer blackjack", func(t *testing.T) {
		r, players := newTestRound(t, "8s Ah 8d Kc", []int{100})
		require.NoError(t, r.SubmitInsurance(0, 50))

		// -100 main hand, +50 insurance
		assert.Equal(t, 950, players[0].Bankroll)
		res, _ := r.Result()
		require.Len(t, res.Insurance, 1)
		assert.True(t, res.Insurance[0].Won)
		assert.Equal(t, 50, res.Insurance[0].Net)
		assert.Equal(t, 1, players[0].Stats.Insurances)
	})

	t.Run("lost when dealer has no blackjack", func(t *testing.T) {
		r, players := newTestRound(t, "Ts Ah 9d 7c", []int{100})
		require.NoError(t, r.SubmitInsurance(0, 50))
		require.Equal(t, PhasePlayerTurns, r.Phase())

		_, err := r.SubmitAction(0, 0, Stand)
		require.NoError(t, err)

		// Dealer soft 18 stands, player 19 wins 100, insurance loses 50
		assert.Equal(t, 1050, players[0].Bankroll)
		res, _ := r.Result()
		assert.Equal(t, 50, res.Net["p1"])
	})

	t.Run("rejects more than half the wager", func(t *testing.T) {
		r, players := newTestRound(t, "8s Ah 8d Kc", []int{100})
		err := r.SubmitInsurance(0, 51)
		require.ErrorIs(t, err, ErrInvalidInsuranceAmount)
		assert.Equal(t, PhaseInsurance, r.Phase())
		assert.Equal(t, 0, players[0].Hands[0].Insurance)

		require.ErrorIs(t, r.SubmitInsurance(0, -1), ErrInvalidInsuranceAmount)
		require.NoError(t, r.SubmitInsurance(0, 50))
	})

	t.Run("rejects more than the available bankroll", func(t *testing.T) {
		players := newTestPlayers(120)
		r, err := NewRound(testRNG(), players, []int{100}, WithShoe(stacked("8s Ah 8d Kc")))
		require.NoError(t, err)
		require.ErrorIs(t, r.SubmitInsurance(0, 30), ErrInvalidInsuranceAmount)
		require.NoError(t, r.SubmitInsurance(0, 20))
	})

	t.Run("not offered without an ace", func(t *testing.T) {
		r, _ := newTestRound(t, "8s Kh 8d 7c", []int{100})
		assert.Equal(t, PhasePlayerTurns, r.Phase())
		assert.ErrorIs(t, r.SubmitInsurance(0, 10), ErrInvalidAction)
	})

	t.Run("disabled by rules", func(t *testing.T) {
		rules := DefaultRules()
		rules.Insurance = false
		r, _ := newTestRound(t, "8s Ah 8d 7c", []int{100}, WithRules(rules))
		assert.Equal(t, PhasePlayerTurns, r.Phase())
	})

	t.Run("one offer per player in seat order", func(t *testing.T) {
		r, _ := newTestRound(t, "8s 9s Ah 8d 9d 7c", []int{100, 100})
		require.ErrorIs(t, r.SubmitInsurance(1, 0), ErrInvalidAction)
		require.NoError(t, r.SubmitInsurance(0, 0))
		require.NoError(t, r.SubmitInsurance(1, 0))
		assert.Equal(t, PhasePlayerTurns, r.Phase())
	})
}

func TestPlayerBlackjack(t *testing.T) {
	tests := []struct {
		name   string
		wager  int
		payout Payout
		want   int
	}{
		{"three to two", 100, ThreeToTwo, 150},
		{"rounds down", 5, ThreeToTwo, 7},
		{"six to five", 100, SixToFive, 120},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := DefaultRules()
			rules.BlackjackPayout = tt.payout
			r, players := newTestRound(t, "As 9h Kd 7c", []int{tt.wager}, WithRules(rules))

			assert.Equal(t, PhaseRoundEnd, r.Phase(), "natural ends the round on the deal")
			assert.Equal(t, 1000+tt.want, players[0].Bankroll)

			res, _ := r.Result()
			assert.Equal(t, OutcomeBlackjack, res.Hands[0].Outcome)
			assert.Len(t, res.Dealer, 2, "dealer does not draw")
			assert.Equal(t, 1, players[0].Stats.Blackjacks)
			assert.Equal(t, 1, players[0].Stats.Wins)
		})
	}
}

func TestBothBlackjackPush(t *testing.T) {
	r, players := newTestRound(t, "As Ah Kd Kc", []int{100})
	require.NoError(t, r.SubmitInsurance(0, 0))

	res, _ := r.Result()
	assert.Equal(t, OutcomePush, res.Hands[0].Outcome)
	assert.Equal(t, 1000, players[0].Bankroll)
	assert.Equal(t, 1, players[0].Stats.Ties)
}

func TestNaturalModes(t *testing.T) {
	// p1 natural, p2 17, dealer 17
	const cards = "As Ts 9h Kd 7c 8c"

	t.Run("ends round", func(t *testing.T) {
		r, players := newTestRound(t, cards, []int{100, 100})
		assert.Equal(t, PhaseRoundEnd, r.Phase())
		assert.Equal(t, 1150, players[0].Bankroll)
		assert.Equal(t, 1000, players[1].Bankroll)
	})

	t.Run("per hand", func(t *testing.T) {
		rules := DefaultRules()
		rules.Natural = NaturalPerHand
		r, players := newTestRound(t, cards+" 4h", []int{100, 100}, WithRules(rules))

		pending, ok := r.Pending()
		require.True(t, ok)
		assert.Equal(t, 1, pending.Player, "natural hand skips its turn")

		_, err := r.SubmitAction(1, 0, Hit)
		require.NoError(t, err)
		_, err = r.SubmitAction(1, 0, Stand)
		require.NoError(t, err)

		assert.Equal(t, PhaseRoundEnd, r.Phase())
		assert.Equal(t, 1150, players[0].Bankroll)
		assert.Equal(t, 1100, players[1].Bankroll, "21 beats dealer 17")
	})
}

func TestSettlementOutcomes(t *testing.T) {
	tests := []struct {
		name     string
		cards    string
		actions  []Action
		outcome  Outcome
		bankroll int
	}{
		{"higher wins", "Ts 9h 9d 8c", []Action{Stand}, OutcomeWin, 1100},
		{"lower loses", "Ts 9h 7d Tc", []Action{Stand}, OutcomeLose, 900},
		{"equal pushes", "Ts 9h 8d 9c", []Action{Stand}, OutcomePush, 1000},
		{"bust loses", "Ts 9h 6d 8c Kc", []Action{Hit}, OutcomeLose, 900},
		{"dealer bust wins", "Ts 6h 8d Tc Kc", []Action{Stand}, OutcomeWin, 1100},
		{"multi-card 21 pays even money", "5s 9h 6d 8c Ts", []Action{Hit, Stand}, OutcomeWin, 1100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, players := newTestRound(t, tt.cards, []int{100})
			for _, a := range tt.actions {
				_, err := r.SubmitAction(0, 0, a)
				require.NoError(t, err)
			}

			require.Equal(t, PhaseRoundEnd, r.Phase())
			res, _ := r.Result()
			assert.Equal(t, tt.outcome, res.Hands[0].Outcome)
			assert.Equal(t, tt.bankroll, players[0].Bankroll)
			assert.Equal(t, tt.bankroll-1000, players[0].Stats.Net)
			assert.Equal(t, 1, players[0].Stats.Rounds)
		})
	}
}

func TestBustSkipsDealerDraw(t *testing.T) {
	r, players := newTestRound(t, "Ts 9h 6d 5c Kc 9s", []int{100})
	view, err := r.SubmitAction(0, 0, Hit)
	require.NoError(t, err)
	assert.True(t, view.Busted)
	assert.True(t, view.Done)

	res, _ := r.Result()
	assert.Len(t, res.Dealer, 2, "dealer 14 does not draw with no live hands")
	assert.False(t, res.DealerBusted)
	assert.Equal(t, 1, players[0].Stats.Busts)
}

func TestHitOn21DoesNotStand(t *testing.T) {
	r, _ := newTestRound(t, "5s 9h 6d 8c Ts", []int{100})
	view, err := r.SubmitAction(0, 0, Hit)
	require.NoError(t, err)
	assert.Equal(t, 21, view.Value)
	assert.False(t, view.Done)
	assert.Equal(t, PhasePlayerTurns, r.Phase())
}

func TestDealerSoft17(t *testing.T) {
	// Player 18 against dealer A,6 with a 3 to come
	const cards = "Ts As 8d 6c 3h"

	tests := []struct {
		name     string
		policy   DealerPolicy
		dealer   int
		bankroll int
	}{
		{"stands on soft 17", DealerStandsAll17, 17, 1100},
		{"hits soft 17", DealerHitsSoft17, 20, 900},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := DefaultRules()
			rules.Dealer = tt.policy
			r, players := newTestRound(t, cards, []int{100}, WithRules(rules))
			require.NoError(t, r.SubmitInsurance(0, 0))
			_, err := r.SubmitAction(0, 0, Stand)
			require.NoError(t, err)

			res, _ := r.Result()
			assert.Equal(t, tt.dealer, res.DealerValue)
			assert.Equal(t, tt.bankroll, players[0].Bankroll)
		})
	}
}

func TestDoubleDown(t *testing.T) {
	t.Run("draws one card and doubles the wager", func(t *testing.T) {
		r, players := newTestRound(t, "5s Th 6d 8c Ts", []int{100})
		view, err := r.SubmitAction(0, 0, DoubleDown)
		require.NoError(t, err)

		assert.Equal(t, 21, view.Value)
		assert.Len(t, view.Cards, 3)
		assert.Equal(t, 200, view.Wager)
		assert.True(t, view.Doubled)
		assert.True(t, view.Done)

		res, _ := r.Result()
		assert.Equal(t, OutcomeWin, res.Hands[0].Outcome)
		assert.Equal(t, 200, res.Hands[0].Net)
		assert.Equal(t, 1200, players[0].Bankroll)
		assert.Equal(t, 1, players[0].Stats.Doubles)
	})

	t.Run("ends the hand even when busted", func(t *testing.T) {
		r, players := newTestRound(t, "Ts 9h 6d 8c Kc", []int{100})
		view, err := r.SubmitAction(0, 0, DoubleDown)
		require.NoError(t, err)
		assert.True(t, view.Busted)
		assert.Equal(t, 800, players[0].Bankroll)
	})

	t.Run("only with two cards", func(t *testing.T) {
		r, players := newTestRound(t, "5s Th 6d 8c 2c", []int{100})
		_, err := r.SubmitAction(0, 0, Hit)
		require.NoError(t, err)

		view, err := r.SubmitAction(0, 0, DoubleDown)
		require.ErrorIs(t, err, ErrInvalidAction)
		assert.Len(t, view.Cards, 3)
		assert.Equal(t, 100, players[0].Hands[0].Wager)
		assert.NotContains(t, r.ValidActions(), DoubleDown)
	})

	t.Run("needs bankroll to cover", func(t *testing.T) {
		players := newTestPlayers(150)
		r, err := NewRound(testRNG(), players, []int{100}, WithShoe(stacked("5s Th 6d 8c Ts")))
		require.NoError(t, err)

		_, err = r.SubmitAction(0, 0, DoubleDown)
		require.ErrorIs(t, err, ErrInvalidAction)
		assert.Equal(t, []Action{Hit, Stand}, r.ValidActions())
	})
}

func TestSplit(t *testing.T) {
	t.Run("split aces are never blackjack", func(t *testing.T) {
		r, players := newTestRound(t, "As 9h Ad 8c Kd Qh", []int{100})
		require.Contains(t, r.ValidActions(), Split)

		view, err := r.SubmitDecision(0, 0, Decision{Action: Split, Amount: 100})
		require.NoError(t, err)
		assert.Equal(t, "A♠ K♦", players[0].Hands[0].String())
		assert.Equal(t, 21, view.Value)
		assert.False(t, view.Blackjack)
		assert.False(t, view.Done, "splitting hand keeps acting")
		require.Len(t, players[0].Hands, 2)
		assert.Equal(t, "A♦ Q♥", players[0].Hands[1].String())
		assert.Equal(t, 800, players[0].Available())

		_, err = r.SubmitAction(0, 0, Stand)
		require.NoError(t, err)
		pending, _ := r.Pending()
		assert.Equal(t, 1, pending.Hand, "split hand is visited next")

		_, err = r.SubmitAction(0, 1, Stand)
		require.NoError(t, err)

		res, _ := r.Result()
		require.Len(t, res.Hands, 2)
		for _, h := range res.Hands {
			assert.Equal(t, OutcomeWin, h.Outcome)
			assert.True(t, h.FromSplit)
		}
		assert.Equal(t, 1200, players[0].Bankroll)
		assert.Equal(t, 1, players[0].Stats.Splits)
	})

	t.Run("split hand can double", func(t *testing.T) {
		r, players := newTestRound(t, "8s Th 8d 7c 3h 2c Ts 9d", []int{100})
		_, err := r.SubmitDecision(0, 0, Decision{Action: Split, Amount: 100})
		require.NoError(t, err)

		view, err := r.SubmitAction(0, 0, Hit)
		require.NoError(t, err)
		assert.Equal(t, 21, view.Value)
		_, err = r.SubmitAction(0, 0, Stand)
		require.NoError(t, err)

		view, err = r.SubmitAction(0, 1, DoubleDown)
		require.NoError(t, err)
		assert.Equal(t, 19, view.Value)
		assert.Equal(t, 200, view.Wager)

		// 21 and 19 against dealer 17
		assert.Equal(t, 1300, players[0].Bankroll)
	})

	t.Run("zero wager split hand", func(t *testing.T) {
		r, players := newTestRound(t, "8s Th 8d 9c 3h 2c", []int{100})
		_, err := r.SubmitAction(0, 0, Split)
		require.NoError(t, err)
		assert.Equal(t, 0, players[0].Hands[1].Wager)
	})

	t.Run("rejects non pairs", func(t *testing.T) {
		r, players := newTestRound(t, "8s Th 9d 7c", []int{100})
		view, err := r.SubmitAction(0, 0, Split)
		require.ErrorIs(t, err, ErrInvalidAction)
		assert.Len(t, view.Cards, 2)
		assert.Len(t, players[0].Hands, 1)
		assert.Equal(t, 0, r.shoe.Remaining())
	})

	t.Run("respects max hands", func(t *testing.T) {
		rules := DefaultRules()
		rules.MaxHands = 2
		r, _ := newTestRound(t, "8s Th 8d 7c 8c 8h", []int{100}, WithRules(rules))

		_, err := r.SubmitAction(0, 0, Split)
		require.NoError(t, err)
		assert.True(t, r.players[0].Hands[0].CanSplit())
		assert.NotContains(t, r.ValidActions(), Split)

		_, err = r.SubmitAction(0, 0, Split)
		assert.ErrorIs(t, err, ErrInvalidAction)
	})

	t.Run("rejects split wager over bankroll", func(t *testing.T) {
		r, players := newTestRound(t, "8s Th 8d 7c 3h 2c", []int{100})
		_, err := r.SubmitDecision(0, 0, Decision{Action: Split, Amount: 901})
		require.ErrorIs(t, err, ErrInvalidBetAmount)
		assert.Len(t, players[0].Hands, 1)
	})
}

func TestInvalidActionsDoNotMutate(t *testing.T) {
	r, players := newTestRound(t, "Ts 9h 7d 8c", []int{100})
	before := players[0].State()

	_, err := r.SubmitAction(0, 0, Action(99))
	assert.ErrorIs(t, err, ErrInvalidAction)

	_, err = r.SubmitAction(0, 1, Hit)
	assert.ErrorIs(t, err, ErrInvalidAction, "hand does not exist")

	_, err = r.SubmitAction(1, 0, Hit)
	assert.ErrorIs(t, err, ErrInvalidAction, "player does not exist")

	assert.ErrorIs(t, r.SubmitSideBet(0, 10), ErrInvalidAction, "wrong phase")

	assert.Equal(t, before, players[0].State())
	assert.Equal(t, PhasePlayerTurns, r.Phase())

	_, err = r.SubmitAction(0, 0, Stand)
	require.NoError(t, err)
	_, err = r.SubmitAction(0, 0, Hit)
	assert.ErrorIs(t, err, ErrInvalidAction, "round is over")
}

func TestSideBets(t *testing.T) {
	tests := []struct {
		name     string
		win      bool
		bankroll int
		net      int
	}{
		{"win returns stake plus payout", true, 1050, 50},
		{"loss keeps the stake", false, 950, -50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := DefaultRules()
			rules.SideBet = fixedSideBet{win: tt.win}
			r, players := newTestRound(t, "Ts 9h 8d 9c", []int{100}, WithRules(rules))

			require.Equal(t, PhaseSideBets, r.Phase())
			require.NoError(t, r.SubmitSideBet(0, 50))
			assert.Equal(t, 950, players[0].Bankroll, "stake deducted immediately")

			_, err := r.SubmitAction(0, 0, Stand)
			require.NoError(t, err)

			// Main hand pushes 18 against 18
			assert.Equal(t, tt.bankroll, players[0].Bankroll)
			res, _ := r.Result()
			require.Len(t, res.SideBets, 1)
			assert.Equal(t, tt.win, res.SideBets[0].Outcome.Won)
			assert.Equal(t, tt.net, res.Net["p1"])
		})
	}

	t.Run("rejects more than available", func(t *testing.T) {
		rules := DefaultRules()
		rules.SideBet = CoinFlip()
		r, players := newTestRound(t, "Ts 9h 8d 9c", []int{100}, WithRules(rules))
		require.ErrorIs(t, r.SubmitSideBet(0, 901), ErrInvalidBetAmount)
		require.ErrorIs(t, r.SubmitSideBet(0, -1), ErrInvalidBetAmount)
		assert.Equal(t, 1000, players[0].Bankroll)
		require.NoError(t, r.SubmitSideBet(0, 0))
		assert.Equal(t, PhasePlayerTurns, r.Phase())
	})
}

func TestExhaustedShoe(t *testing.T) {
	t.Run("during the deal", func(t *testing.T) {
		players := newTestPlayers(1000)
		r, err := NewRound(testRNG(), players, []int{100}, WithShoe(stacked("Ts 9h 7d")))
		require.ErrorIs(t, err, ErrExhaustedShoe)
		require.NotNil(t, r)
		assert.Equal(t, PhaseAborted, r.Phase())
		assert.ErrorIs(t, r.Err(), ErrExhaustedShoe)
		assert.Equal(t, 1000, players[0].Bankroll)
	})

	t.Run("on a hit refunds side bets", func(t *testing.T) {
		rules := DefaultRules()
		rules.SideBet = fixedSideBet{}
		r, players := newTestRound(t, "Ts 9h 6d 8c", []int{100}, WithRules(rules))
		require.NoError(t, r.SubmitSideBet(0, 50))

		_, err := r.SubmitAction(0, 0, Hit)
		require.ErrorIs(t, err, ErrExhaustedShoe)
		assert.Equal(t, PhaseAborted, r.Phase())
		assert.Equal(t, 1000, players[0].Bankroll)
		_, ok := r.Result()
		assert.False(t, ok)
	})

	t.Run("on a split draws nothing", func(t *testing.T) {
		r, players := newTestRound(t, "8s Th 8d 7c 3h", []int{100})
		_, err := r.SubmitAction(0, 0, Split)
		require.ErrorIs(t, err, ErrExhaustedShoe)
		assert.Len(t, players[0].Hands, 1)
		assert.Equal(t, 2, players[0].Hands[0].Len())
	})
}

func TestRoundEvents(t *testing.T) {
	t.Run("player turn round", func(t *testing.T) {
		rec := &eventRecorder{}
		bus := NewEventBus()
		bus.Subscribe(rec)

		r, _ := newTestRound(t, "5s Th 6d 8c Ts", []int{100}, WithEventBus(bus))
		_, err := r.SubmitAction(0, 0, DoubleDown)
		require.NoError(t, err)

		assert.Equal(t, []EventType{
			EventTypeRoundStart,
			EventTypePlayerAction,
			EventTypeDealerTurn,
			EventTypeRoundEnd,
		}, rec.types())

		action := rec.events[1].(PlayerActionEvent)
		assert.Equal(t, "p1", action.Player)
		assert.Equal(t, DoubleDown, action.Action)
		assert.Equal(t, 21, action.Hand.Value)

		end := rec.events[3].(RoundEndEvent)
		assert.Equal(t, "test", end.Result.RoundID)
	})

	t.Run("insurance and natural", func(t *testing.T) {
		rec := &eventRecorder{}
		bus := NewEventBus()
		bus.Subscribe(rec)

		r, _ := newTestRound(t, "8s Ah 8d Kc", []int{100}, WithEventBus(bus))
		require.NoError(t, r.SubmitInsurance(0, 25))

		assert.Equal(t, []EventType{
			EventTypeRoundStart,
			EventTypeInsurance,
			EventTypeRoundEnd,
		}, rec.types())
	})

	t.Run("unsubscribe", func(t *testing.T) {
		rec := &eventRecorder{}
		bus := NewEventBus()
		bus.Subscribe(rec)
		bus.Unsubscribe(rec)

		newTestRound(t, "As 9h Kd 7c", []int{100}, WithEventBus(bus))
		assert.Empty(t, rec.events)
	})
}
