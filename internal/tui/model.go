// Package tui is the terminal rendition of the chat widget.
package tui

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/PabloGalante/datagent/internal/app/conversation"
	"github.com/PabloGalante/datagent/internal/domain"
)

// modeTitles are the tab captions shown for each mode.
var modeTitles = map[domain.Mode]string{
	domain.ModeQuery:    "智能问数",
	domain.ModeReport:   "智能报表",
	domain.ModeAnalysis: "智能报告",
}

// Title returns the display title for mode.
func Title(mode domain.Mode) string {
	if t, ok := modeTitles[mode]; ok {
		return t
	}
	return "数据智能体"
}

// replyMsg is delivered when a submit finishes.
type replyMsg struct {
	entry domain.Entry
	err   error
}

// Model is the Bubble Tea model for the chat widget.
type Model struct {
	ctx    context.Context
	holder *conversation.Holder

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model
	renderer *glamour.TermRenderer

	width  int
	height int

	waiting    bool
	nextChip   int
	lastNotice string
}

func New(ctx context.Context, holder *conversation.Holder) Model {
	in := textinput.New()
	in.Placeholder = holder.Placeholder()
	in.CharLimit = 500
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = chartBarStyle

	m := Model{
		ctx:      ctx,
		holder:   holder,
		input:    in,
		spinner:  sp,
		viewport: viewport.New(80, 20),
		width:    80,
		height:   24,
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.switchMode(1)
		case "shift+tab":
			m.switchMode(-1)
		case "ctrl+n":
			m.useNextChip()
		case "enter":
			if cmd := m.submit(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}

	case spinner.TickMsg:
		if m.waiting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case replyMsg:
		m.waiting = false
		m.lastNotice = ""
		if errors.Is(msg.err, domain.ErrConversationReset) {
			m.lastNotice = "已切换模式，上一条回复已丢弃"
		}

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.refresh()
	return m, tea.Batch(cmds...)
}

// submit hands the input to the holder on a background command.
func (m *Model) submit() tea.Cmd {
	text := m.input.Value()
	if strings.TrimSpace(text) == "" || m.waiting || m.holder.Loading() {
		return nil
	}

	m.input.Reset()
	m.waiting = true
	m.lastNotice = ""

	ctx, holder := m.ctx, m.holder
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			entry, err := holder.Submit(ctx, text)
			return replyMsg{entry: entry, err: err}
		},
	)
}

func (m *Model) switchMode(step int) {
	i := slices.Index(domain.Modes, m.holder.Mode())
	if i < 0 {
		i = 0
		step = 0
	}
	n := len(domain.Modes)
	mode := domain.Modes[((i+step)%n+n)%n]

	m.holder.ResetForMode(mode)
	m.input.Reset()
	m.input.Placeholder = m.holder.Placeholder()
	m.nextChip = 0
}

// useNextChip cycles the mode's suggestion chips into the input.
func (m *Model) useNextChip() {
	chips := m.holder.Suggestions()
	if len(chips) == 0 {
		return
	}
	i := m.nextChip % len(chips)
	if m.holder.UseSuggestion(i) {
		m.input.SetValue(m.holder.Draft())
		m.input.CursorEnd()
	}
	m.nextChip = i + 1
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.input.Width = max(width-4, 10)

	// header, tabs, loading line, input, chips (3 rows), help
	m.viewport.Width = width
	m.viewport.Height = max(height-9, 3)

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(width-4, 20)),
	)
	if err == nil {
		m.renderer = r
	}
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderEntries())
	m.viewport.GotoBottom()
}
