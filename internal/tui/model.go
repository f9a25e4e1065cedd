// Package tui is the interactive table: one human seat plus any bot seats,
// driven through the game engine by a Bubble Tea program.
package tui

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/game"
)

// Mode is what the table is waiting on from the human
type Mode int

const (
	ModeBet Mode = iota
	ModeInsurance
	ModeSideBet
	ModeAction
	ModeRoundOver
	ModeGameOver
)

func (m Mode) String() string {
	if m < ModeBet || m > ModeGameOver {
		return "unknown"
	}
	return [...]string{"bet", "insurance", "side-bet", "action", "round-over", "game-over"}[m]
}

// takesAmount reports whether the mode reads a number from the input line
func (m Mode) takesAmount() bool {
	return m == ModeBet || m == ModeInsurance || m == ModeSideBet
}

// Model is the Bubble Tea model for a blackjack table
type Model struct {
	ctx    context.Context
	engine *game.Engine
	table  *game.Table
	human  string
	logger *log.Logger

	// UI components
	logViewport viewport.Model
	input       textinput.Model

	// State
	gameLog   []string
	mode      Mode
	status    string
	lastBet   int
	result    game.RoundResult
	hasResult bool
	quitting  bool

	// Dimensions
	width  int
	height int
}

// New creates a model for the named human seat. Every other seat must have
// an agent on the engine. The model logs play from the table's event bus
// when it has one.
func New(ctx context.Context, engine *game.Engine, human string, logger *log.Logger) (*Model, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	table := engine.Table()
	if _, ok := table.Player(human); !ok {
		return nil, fmt.Errorf("player %s is not seated", human)
	}

	// Properly sized when the first WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.CharLimit = 9
	ti.Width = 20
	ti.PromptStyle = lipgloss.NewStyle().Foreground(focusColor).Bold(true)
	ti.Prompt = "> "

	m := &Model{
		ctx:         ctx,
		engine:      engine,
		table:       table,
		human:       human,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		input:       ti,
		lastBet:     table.Config().MinBet,
	}
	if bus := table.EventBus(); bus != nil {
		bus.Subscribe(m)
	}
	m.setMode(ModeBet)
	return m, nil
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Mode returns what the table is waiting on
func (m *Model) Mode() Mode {
	return m.mode
}

// Status returns the last rejected input, if any
func (m *Model) Status() string {
	return m.status
}

// Log returns a copy of the game log
func (m *Model) Log() []string {
	out := make([]string, len(m.gameLog))
	copy(out, m.gameLog)
	return out
}

// OnEvent writes table events to the game log
func (m *Model) OnEvent(event game.GameEvent) {
	if entry := formatEvent(event); entry != "" {
		m.AddLogEntry(entry)
	}
}

// AddLogEntry appends an entry to the game log and scrolls to it
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m.quit()
		case "pgup":
			m.logViewport.HalfPageUp()
			return m, nil
		case "pgdown":
			m.logViewport.HalfPageDown()
			return m, nil
		}

		switch m.mode {
		case ModeAction:
			if msg.String() == "q" {
				return m.quit()
			}
			m.submitAction(msg.String())
			return m, nil
		case ModeRoundOver:
			if msg.String() == "enter" {
				m.setMode(ModeBet)
			}
			if msg.String() == "q" {
				return m.quit()
			}
			return m, nil
		case ModeGameOver:
			if msg.String() == "enter" || msg.String() == "q" {
				return m.quit()
			}
			return m, nil
		default:
			if msg.String() == "enter" {
				m.submitAmount()
				return m, nil
			}
		}
	}

	if m.mode.takesAmount() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Sequence(tea.ClearScreen, tea.Quit)
}

func (m *Model) setMode(mode Mode) {
	m.mode = mode
	m.input.SetValue("")
	if !mode.takesAmount() {
		m.input.Blur()
		return
	}

	switch mode {
	case ModeBet:
		m.input.Placeholder = fmt.Sprintf("bet (Enter for %d)", m.defaultBet())
	default:
		m.input.Placeholder = "amount (Enter to decline)"
	}
	m.input.Focus()
}

// defaultBet repeats the last bet while the bankroll covers it
func (m *Model) defaultBet() int {
	p, ok := m.table.Player(m.human)
	if !ok {
		return m.lastBet
	}
	return min(m.lastBet, p.Bankroll)
}

// submitAmount handles Enter on the bet, insurance and side bet prompts
func (m *Model) submitAmount() {
	text := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	amount := 0
	if text != "" {
		n, err := strconv.Atoi(text)
		if err != nil {
			m.status = fmt.Sprintf("%q is not a whole number", text)
			return
		}
		amount = n
	}

	switch m.mode {
	case ModeBet:
		if text == "" {
			amount = m.defaultBet()
		}
		r, err := m.engine.StartRound(m.ctx, map[string]int{m.human: amount})
		if r == nil {
			m.status = err.Error()
			return
		}
		m.status = ""
		m.lastBet = amount
		m.hasResult = false
		if err != nil {
			// Dealing ran out of cards
			m.finishRound()
			return
		}

	case ModeInsurance, ModeSideBet:
		r := m.table.Round()
		pending, ok := r.Pending()
		if !ok {
			return
		}
		var err error
		if m.mode == ModeInsurance {
			err = r.SubmitInsurance(pending.Player, amount)
		} else {
			err = r.SubmitSideBet(pending.Player, amount)
		}
		if err != nil {
			m.status = err.Error()
			return
		}
		m.status = ""
	}

	m.advance()
}

// submitAction handles a key press during the human's turn
func (m *Model) submitAction(key string) {
	action, err := game.ParseAction(key)
	if err != nil {
		return
	}

	r := m.table.Round()
	pending, ok := r.Pending()
	if !ok || pending.Phase != game.PhasePlayerTurns {
		return
	}

	d := game.Decision{Action: action}
	if action == game.Split {
		hand, _ := r.Hand(pending.Player, pending.Hand)
		player, _ := r.Player(pending.Player)
		d.Amount = min(hand.Wager, player.Available)
	}
	if _, err := r.SubmitDecision(pending.Player, pending.Hand, d); err != nil {
		if r.Phase() == game.PhaseAborted {
			m.finishRound()
			return
		}
		m.status = err.Error()
		return
	}
	m.status = ""
	m.advance()
}

// advance lets the bots play until the human is needed or the round ends
func (m *Model) advance() {
	waiting, err := m.engine.Advance(m.ctx)
	r := m.table.Round()
	if err != nil && r.Phase() != game.PhaseAborted {
		m.status = err.Error()
		return
	}

	if waiting {
		pending, _ := r.Pending()
		switch pending.Phase {
		case game.PhaseInsurance:
			m.setMode(ModeInsurance)
		case game.PhaseSideBets:
			m.setMode(ModeSideBet)
		default:
			m.setMode(ModeAction)
		}
		return
	}
	m.finishRound()
}

// finishRound settles the table and logs the outcome
func (m *Model) finishRound() {
	res, out, err := m.engine.FinishRound()
	if err != nil {
		m.AddLogEntry(ErrorStyle.Render("Round aborted: " + err.Error()))
	} else {
		m.result = res
		m.hasResult = true
		for _, line := range formatResult(res) {
			m.AddLogEntry(line)
		}
	}

	for _, p := range out {
		m.AddLogEntry(WarningStyle.Render(fmt.Sprintf("%s is out of chips after %d rounds", p.Name, p.Stats.Rounds)))
	}

	if _, seated := m.table.Player(m.human); !seated || m.table.IsGameOver() {
		m.setMode(ModeGameOver)
		return
	}
	m.setMode(ModeRoundOver)
}

// humanIndex returns the human's index in the current round
func (m *Model) humanIndex(r *game.Round) int {
	for i, p := range r.Players() {
		if p.Name == m.human {
			return i
		}
	}
	return -1
}
