package main

import (
	"fmt"
	"os"

	"github.com/lox/blackjack/internal/config"
)

type RulesCmd struct {
	Defaults bool `help:"Print the built-in defaults instead of loading a file"`
}

func (c *RulesCmd) Run(g *Globals) error {
	cfg := config.DefaultConfig()
	if !c.Defaults {
		var err error
		if cfg, err = g.load(); err != nil {
			return err
		}
	}

	rules, err := cfg.GameRules()
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("Effective rules"))
	fmt.Printf("Dealer:           %s\n", rules.Dealer)
	fmt.Printf("Blackjack pays:   %s\n", rules.BlackjackPayout)
	fmt.Printf("Naturals:         %s\n", rules.Natural)
	fmt.Printf("Hands per player: %d\n", rules.MaxHands)
	fmt.Printf("Insurance:        %t\n", rules.Insurance)
	if rules.SideBet != nil {
		fmt.Printf("Side bet:         %s\n", rules.SideBet.Name())
	}
	fmt.Println()

	_, err = os.Stdout.Write(cfg.HCL())
	return err
}
