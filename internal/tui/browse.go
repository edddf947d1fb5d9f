package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/basecamp/places-cli/internal/loader"
	"github.com/basecamp/places-cli/internal/resource"
	"github.com/basecamp/places-cli/internal/tui/empty"
)

// BrowseKeyMap defines key bindings for the browse view.
type BrowseKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

// DefaultBrowseKeyMap returns the default browse bindings.
func DefaultBrowseKeyMap() BrowseKeyMap {
	return BrowseKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// BrowseModel renders a loader's FetchState: a spinner while pending,
// the list once settled, the empty-state message for zero items, or the
// error in place of the list.
type BrowseModel struct {
	ctx     context.Context
	loader  *loader.Loader[[]resource.Item]
	noun    string
	styles  *Styles
	keys    BrowseKeyMap
	spinner spinner.Model

	cursor int
	offset int

	width, height int
}

// NewBrowseModel creates the browse view for l. noun names the records
// in messages ("places").
func NewBrowseModel(ctx context.Context, l *loader.Loader[[]resource.Item], noun string) *BrowseModel {
	styles := NewStyles()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Theme().Primary)

	return &BrowseModel{
		ctx:     ctx,
		loader:  l,
		noun:    noun,
		styles:  styles,
		keys:    DefaultBrowseKeyMap(),
		spinner: s,
		width:   80,
		height:  24,
	}
}

// Init implements tea.Model.
func (m *BrowseModel) Init() tea.Cmd {
	return m.trigger()
}

// Update implements tea.Model.
func (m *BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampCursor()
		return m, nil

	case loader.SettledMsg:
		if msg.Key == m.loader.Key() {
			m.clampCursor()
		}
		return m, nil

	case spinner.TickMsg:
		if m.loader.State().Pending() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			return m, m.trigger()
		case key.Matches(msg, m.keys.Up):
			m.move(-1)
		case key.Matches(msg, m.keys.Down):
			m.move(1)
		}
	}
	return m, nil
}

// trigger starts a fetch; nil when one is already in flight.
func (m *BrowseModel) trigger() tea.Cmd {
	cmd := m.loader.Trigger(m.ctx)
	if cmd == nil {
		return nil
	}
	m.cursor, m.offset = 0, 0
	return tea.Batch(m.spinner.Tick, cmd)
}

// Selected returns the highlighted item, if the list is showing.
func (m *BrowseModel) Selected() (resource.Item, bool) {
	items, ok := m.loader.State().Data()
	if !ok || m.cursor >= len(items) {
		return resource.Item{}, false
	}
	return items[m.cursor], true
}

func (m *BrowseModel) move(delta int) {
	items, ok := m.loader.State().Data()
	if !ok || len(items) == 0 {
		return
	}
	m.cursor += delta
	m.clampCursor()
}

func (m *BrowseModel) clampCursor() {
	items, _ := m.loader.State().Data()
	if m.cursor >= len(items) {
		m.cursor = len(items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	rows := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

// listHeight is the number of item rows that fit between header and help.
func (m *BrowseModel) listHeight() int {
	h := m.height - 5
	if h < 1 {
		return 1
	}
	return h
}

// View implements tea.Model.
func (m *BrowseModel) View() string {
	var b strings.Builder
	state := m.loader.State()
	b.WriteString(m.styles.Title.Render(titleCase(m.noun)))
	b.WriteString("\n")
	b.WriteString(m.statusLine(state))
	b.WriteString("\n")

	switch state.Phase() {
	case loader.PhaseIdle:
		b.WriteString(m.styles.Muted.Render("Press r to load " + m.noun))
	case loader.PhasePending:
		b.WriteString(m.spinner.View() + " Loading " + m.noun + "...")
	case loader.PhaseFailed:
		b.WriteString(m.renderMessage(empty.FetchFailed(m.noun, state.Message()), m.styles.Error))
	case loader.PhaseSucceeded:
		items, _ := state.Data()
		if len(items) == 0 {
			b.WriteString(m.renderMessage(empty.NoItems(m.noun), m.styles.Body))
		} else {
			b.WriteString(m.renderList(items))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(m.styles.Hint.Render(m.helpLine()))
	return b.String()
}

// statusLine summarizes the last settled fetch; empty until one settles.
func (m *BrowseModel) statusLine(state loader.FetchState[[]resource.Item]) string {
	if !state.Phase().Terminal() {
		return ""
	}
	asOf := m.styles.Subtitle.Render("as of " + state.SettledAt().Format("15:04:05"))
	items, ok := state.Data()
	if !ok {
		return asOf
	}
	return m.styles.Success.Render(fmt.Sprintf("%d %s", len(items), m.noun)) + " " + asOf
}

func (m *BrowseModel) renderMessage(msg empty.Message, title lipgloss.Style) string {
	var b strings.Builder
	b.WriteString(title.Bold(true).Render(msg.Title))
	if msg.Body != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Body.Render(msg.Body))
	}
	for _, h := range msg.Hints {
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render("  " + h))
	}
	return b.String()
}

func (m *BrowseModel) renderList(items []resource.Item) string {
	rows := m.listHeight()
	end := m.offset + rows
	if end > len(items) {
		end = len(items)
	}

	lines := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		item := items[i]
		id := m.styles.Muted.Render(" #" + item.ID)
		avail := m.width - 2 - runewidth.StringWidth(item.ID) - 2
		if avail < 8 {
			avail = 8
		}
		title := runewidth.Truncate(item.DisplayTitle(), avail, "…")

		if i == m.cursor {
			lines = append(lines, m.styles.Cursor.Render("> ")+m.styles.Selected.Render(title)+id)
		} else {
			lines = append(lines, "  "+m.styles.Body.Render(title)+id)
		}
	}
	if len(items) > rows {
		lines = append(lines, m.styles.Muted.Render(fmt.Sprintf("  %d/%d", m.cursor+1, len(items))))
	}
	return strings.Join(lines, "\n")
}

func (m *BrowseModel) helpLine() string {
	bindings := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Refresh, m.keys.Quit}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

// Browse runs the interactive browser until the user quits.
func Browse(ctx context.Context, l *loader.Loader[[]resource.Item], noun string) error {
	p := tea.NewProgram(NewBrowseModel(ctx, l, noun), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
