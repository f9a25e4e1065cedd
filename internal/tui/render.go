package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/muesli/reflow/truncate"
)

const sidebarWidth = 25

// View renders the table
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	// Don't render until we have valid dimensions
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionPane := paneStyle.
		BorderForeground(focusColor).
		Width(max(m.width-2, 1)).
		Render(actionContent)

	topHeight := max(m.height-actionHeight-4, 1)

	sidebarContent := m.renderSidebarPane()
	sideWidth := max(lipgloss.Width(sidebarContent), sidebarWidth)
	sidebarPane := paneStyle.
		Width(sideWidth).
		Height(topHeight).
		Render(sidebarContent)

	logWidth := max(m.width-sideWidth-4, 1)
	m.logViewport.Width = logWidth
	m.logViewport.Height = topHeight
	logPane := paneStyle.
		Width(logWidth).
		Height(topHeight).
		Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderSidebarPane lists bankrolls and table limits
func (m *Model) renderSidebarPane() string {
	var content strings.Builder
	cfg := m.table.Config()

	content.WriteString(HeaderStyle.Render(fmt.Sprintf(" Round %d ", m.table.RoundCount())))
	content.WriteString("\n\n")
	limits := fmt.Sprintf("Bet: $%d", cfg.MinBet)
	if cfg.MaxBet > 0 {
		limits += fmt.Sprintf("-$%d", cfg.MaxBet)
	}
	content.WriteString(WarningStyle.Render(limits))
	content.WriteString("\n\n")

	content.WriteString(InfoStyle.Render("Players at table:"))
	content.WriteString("\n")
	for _, p := range m.table.Players() {
		marker := " "
		if p.Name == m.human {
			marker = "*"
		}
		line := fmt.Sprintf("%s %s: $%d", marker, p.Name, p.Bankroll)
		content.WriteString(truncate.StringWithTail(line, sidebarWidth, "..."))
		content.WriteString("\n")
	}
	for _, p := range m.table.Eliminated() {
		line := truncate.StringWithTail("  "+p.Name+": out", sidebarWidth, "...")
		content.WriteString(InfoStyle.Render(line))
		content.WriteString("\n")
	}
	return content.String()
}

// renderActionPane shows the dealer, the human's hands and the prompt
func (m *Model) renderActionPane() string {
	var content strings.Builder

	if r := m.table.Round(); r != nil && (m.mode != ModeBet || m.hasResult) {
		content.WriteString(m.renderDealer(r))
		content.WriteString("\n")
		if idx := m.humanIndex(r); idx >= 0 {
			content.WriteString(m.renderHands(r, idx))
		}
	}

	content.WriteString(ActionsStyle.Render(m.prompt()))
	content.WriteString("\n")
	if m.status != "" {
		content.WriteString(ErrorStyle.Render(m.status))
		content.WriteString("\n")
	}
	if m.mode.takesAmount() {
		content.WriteString(m.input.View())
		content.WriteString("\n")
	}
	content.WriteString(InfoStyle.Render("PgUp/PgDn scroll log • Ctrl+C to quit"))
	return content.String()
}

func (m *Model) renderDealer(r *game.Round) string {
	if dealer, ok := r.DealerHand(); ok {
		return HandInfoStyle.Render("Dealer: ") + formatCards(dealer.Cards) + " " + formatValue(dealer)
	}
	if r.Phase() == game.PhaseAborted {
		return HandInfoStyle.Render("Dealer: ") + formatCards([]deck.Card{r.DealerUpCard()})
	}
	return HandInfoStyle.Render("Dealer: ") + formatCards([]deck.Card{r.DealerUpCard()}) + " [??]"
}

func (m *Model) renderHands(r *game.Round, idx int) string {
	var content strings.Builder
	player, err := r.Player(idx)
	if err != nil {
		return ""
	}
	pending, waiting := r.Pending()

	for i, h := range player.Hands {
		marker := "  "
		if waiting && pending.Phase == game.PhasePlayerTurns && pending.Player == idx && pending.Hand == i {
			marker = "▶ "
		}
		line := fmt.Sprintf("%sHand %d: %s %s  $%d", marker, i+1, formatCards(h.Cards), formatValue(h), h.Wager)
		if h.Doubled {
			line += " doubled"
		}
		if h.Insurance > 0 {
			line += fmt.Sprintf(" insured $%d", h.Insurance)
		}
		content.WriteString(line)
		content.WriteString("\n")
	}
	if player.SideBet > 0 {
		fmt.Fprintf(&content, "  Side bet: $%d\n", player.SideBet)
	}
	return content.String()
}

// prompt describes what the table is waiting on
func (m *Model) prompt() string {
	p, seated := m.table.Player(m.human)

	switch m.mode {
	case ModeBet:
		cfg := m.table.Config()
		if !seated {
			return "Place your bet"
		}
		if cfg.MaxBet > 0 {
			return fmt.Sprintf("Place your bet ($%d-$%d, bankroll $%d)", cfg.MinBet, cfg.MaxBet, p.Bankroll)
		}
		return fmt.Sprintf("Place your bet (min $%d, bankroll $%d)", cfg.MinBet, p.Bankroll)

	case ModeInsurance:
		limit := 0
		if r := m.table.Round(); r != nil {
			if state, err := r.Player(m.humanIndex(r)); err == nil && len(state.Hands) > 0 {
				limit = min(state.Hands[0].Wager/2, state.Available)
			}
		}
		return fmt.Sprintf("Dealer shows an Ace. Insurance up to $%d?", limit)

	case ModeSideBet:
		return "Side bet?"

	case ModeAction:
		var actions []string
		if r := m.table.Round(); r != nil {
			for _, a := range r.ValidActions() {
				actions = append(actions, fmt.Sprintf("[%s] %s", a.Key(), a))
			}
		}
		return "Actions: " + strings.Join(actions, " ")

	case ModeRoundOver:
		if m.hasResult {
			return fmt.Sprintf("Round over, net %+d. Enter for the next round, q to quit", m.result.Net[m.human])
		}
		return "Round over. Enter for the next round, q to quit"

	case ModeGameOver:
		return "You are out of chips. Enter to quit"
	}
	return ""
}

// formatCards formats cards with colors
func formatCards(cards []deck.Card) string {
	if len(cards) == 0 {
		return ""
	}

	formatted := make([]string, 0, len(cards))
	for _, card := range cards {
		if card.IsRed() {
			formatted = append(formatted, RedCardStyle.Render(card.String()))
		} else {
			formatted = append(formatted, BlackCardStyle.Render(card.String()))
		}
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

func formatValue(h game.HandView) string {
	switch {
	case h.Blackjack:
		return "blackjack"
	case h.Busted:
		return fmt.Sprintf("%d bust", h.Value)
	case h.Soft:
		return fmt.Sprintf("soft %d", h.Value)
	default:
		return fmt.Sprintf("%d", h.Value)
	}
}

// formatEvent renders play-by-play events. Settlement and eliminations are
// logged by the model itself once the round is finished.
func formatEvent(event game.GameEvent) string {
	switch e := event.(type) {
	case game.RoundStartEvent:
		bets := make([]string, len(e.Players))
		for i, name := range e.Players {
			bets[i] = fmt.Sprintf("%s $%d", name, e.Bets[i])
		}
		return HeaderStyle.Render(" New round ") + " " + strings.Join(bets, ", ") +
			"; dealer shows " + formatCards([]deck.Card{e.DealerUp})
	case game.InsuranceEvent:
		if e.Amount == 0 {
			return ""
		}
		return fmt.Sprintf("%s takes insurance for $%d", e.Player, e.Amount)
	case game.SideBetEvent:
		if e.Amount == 0 {
			return ""
		}
		return fmt.Sprintf("%s places a $%d side bet", e.Player, e.Amount)
	case game.PlayerActionEvent:
		return fmt.Sprintf("%s %ss hand %d: %s %s", e.Player, e.Action, e.HandIndex+1,
			formatCards(e.Hand.Cards), formatValue(e.Hand))
	case game.DealerTurnEvent:
		return "Dealer has " + formatCards(e.Hand.Cards) + " " + formatValue(e.Hand)
	}
	return ""
}

// formatResult renders the settlement of a round
func formatResult(res game.RoundResult) []string {
	lines := make([]string, 0, len(res.Hands)+len(res.Insurance)+len(res.SideBets))
	for _, h := range res.Hands {
		line := fmt.Sprintf("%s hand %d: %s (%+d)", h.Player, h.HandIndex+1, h.Outcome, h.Net)
		switch h.Outcome {
		case game.OutcomeWin, game.OutcomeBlackjack:
			line = SuccessStyle.Render(line)
		case game.OutcomeLose:
			line = ErrorStyle.Render(line)
		}
		lines = append(lines, line)
	}
	for _, i := range res.Insurance {
		lines = append(lines, fmt.Sprintf("%s insurance: %+d", i.Player, i.Net))
	}
	for _, s := range res.SideBets {
		lines = append(lines, fmt.Sprintf("%s side bet: %+d", s.Player, s.Net))
	}
	return lines
}
