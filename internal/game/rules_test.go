package game

import (
	"testing"

	"github.com/lox/blackjack/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayout(t *testing.T) {
	tests := []struct {
		in      string
		want    Payout
		wantErr bool
	}{
		{"3:2", ThreeToTwo, false},
		{" 6:5 ", SixToFive, false},
		{"1:1", EvenMoney, false},
		{"3/2", Payout{}, true},
		{"3:0", Payout{}, true},
		{"x:2", Payout{}, true},
		{"-1:2", Payout{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePayout(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPayoutApply(t *testing.T) {
	assert.Equal(t, 15, ThreeToTwo.Apply(10))
	assert.Equal(t, 1, ThreeToTwo.Apply(1))
	assert.Equal(t, 12, SixToFive.Apply(10))
	assert.Equal(t, 0, Payout{}.Apply(10))
}

func TestParseDealerPolicy(t *testing.T) {
	for in, want := range map[string]DealerPolicy{
		"":            DealerStandsAll17,
		"s17":         DealerStandsAll17,
		"stand_17":    DealerStandsAll17,
		"H17":         DealerHitsSoft17,
		"hit_soft_17": DealerHitsSoft17,
	} {
		got, err := ParseDealerPolicy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDealerPolicy("hit_everything")
	assert.Error(t, err)
}

func TestParseNaturalMode(t *testing.T) {
	m, err := ParseNaturalMode("per_hand")
	require.NoError(t, err)
	assert.Equal(t, NaturalPerHand, m)

	m, err = ParseNaturalMode("")
	require.NoError(t, err)
	assert.Equal(t, NaturalEndsRound, m)

	_, err = ParseNaturalMode("sometimes")
	assert.Error(t, err)
}

func TestRulesValidate(t *testing.T) {
	require.NoError(t, DefaultRules().Validate())

	tests := []struct {
		name   string
		mutate func(*Rules)
	}{
		{"no hands", func(r *Rules) { r.MaxHands = 0 }},
		{"zero denominator", func(r *Rules) { r.BlackjackPayout = Payout{3, 0} }},
		{"unknown dealer policy", func(r *Rules) { r.Dealer = DealerPolicy(7) }},
		{"side bet over 100%", func(r *Rules) {
			r.SideBet = OddsTable{{Label: "a", Probability: 0.6, Payout: EvenMoney}, {Label: "b", Probability: 0.6, Payout: EvenMoney}}
		}},
		{"empty side bet", func(r *Rules) { r.SideBet = OddsTable{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := DefaultRules()
			tt.mutate(&r)
			assert.Error(t, r.Validate())
		})
	}
}

func TestOddsTable(t *testing.T) {
	t.Run("coin flip is fair", func(t *testing.T) {
		coin := CoinFlip()
		require.NoError(t, coin.Validate())
		assert.InDelta(t, 1.0, coin.ExpectedReturn(), 1e-9)
	})

	t.Run("certain win", func(t *testing.T) {
		table := OddsTable{{Label: "always", Probability: 1, Payout: TwoToOne}}
		out := table.Resolve(randutil.New(1), 10)
		assert.True(t, out.Won)
		assert.Equal(t, "always", out.Label)
		assert.Equal(t, 30, out.Return)
	})

	t.Run("certain loss", func(t *testing.T) {
		table := OddsTable{{Label: "never", Probability: 0, Payout: TwoToOne}}
		out := table.Resolve(randutil.New(1), 10)
		assert.False(t, out.Won)
		assert.Zero(t, out.Return)
	})

	t.Run("frequency follows probability", func(t *testing.T) {
		rng := randutil.New(7)
		coin := CoinFlip()
		wins := 0
		const n = 10000
		for i := 0; i < n; i++ {
			if coin.Resolve(rng, 1).Won {
				wins++
			}
		}
		assert.InDelta(t, 0.5, float64(wins)/n, 0.03)
	})
}

func TestParseAction(t *testing.T) {
	for in, want := range map[string]Action{
		"h": Hit, "HIT": Hit, "s": Stand, "stand": Stand,
		"d": DoubleDown, "double": DoubleDown, "p": Split, " split ": Split,
	} {
		got, err := ParseAction(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseAction("fold")
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestPhase(t *testing.T) {
	assert.True(t, PhaseInsurance.AwaitsInput())
	assert.True(t, PhasePlayerTurns.AwaitsInput())
	assert.False(t, PhaseDealerTurn.AwaitsInput())
	assert.True(t, PhaseRoundEnd.IsTerminal())
	assert.True(t, PhaseAborted.IsTerminal())
	assert.Equal(t, "player-turns", PhasePlayerTurns.String())
	assert.Equal(t, "unknown", Phase(99).String())
}
