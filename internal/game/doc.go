// Package game implements the blackjack rules engine.
//
// The main type is Round, which runs one round as an explicit state machine:
// dealing, the insurance offer, side bets, each hand's decision loop, the
// dealer's draw and settlement. Exactly one decision is pending at a time.
//
// # Basic Usage
//
// Deal a round and answer decisions until it ends:
//
//	rng := randutil.New(42)
//	players := []*game.Player{game.NewPlayer(1, "Alice", 1000)}
//	r, err := game.NewRound(rng, players, []int{100})
//	for {
//	    pending, ok := r.Pending()
//	    if !ok {
//	        break
//	    }
//	    // SubmitInsurance, SubmitSideBet or SubmitAction for pending
//	}
//	result, _ := r.Result()
//
// # Deterministic Testing
//
// Stack the shoe to deal a fixed sequence. Cards are dealt one at a time to
// each player and then the dealer, twice, before any draws:
//
//	shoe := deck.NewStackedShoe(deck.MustParseCards("8s Th 8d 6c 3h")...)
//	r, err := game.NewRound(rng, players, bets, game.WithShoe(shoe))
//
// # Tables and Engines
//
// Table seats players across rounds and removes those who go broke. Engine
// drives a Table with Agents, and is what the simulator and the terminal
// shell use to play.
package game
