package tui

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCanceled is returned by Spinner.Run when the user quits early.
var ErrCanceled = errors.New("canceled")

// spinnerModel is the bubbletea model for a transient spinner line.
type spinnerModel struct {
	spinner  spinner.Model
	message  string
	done     bool
	quitting bool
}

func newSpinnerModel(message string) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ResolveTheme().Primary)

	return spinnerModel{
		spinner: s,
		message: message,
	}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

type spinnerDoneMsg struct{}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	case spinnerDoneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View clears the line once finished so the result can be printed
// on a clean terminal.
func (m spinnerModel) View() string {
	if m.quitting || m.done {
		return ""
	}
	return fmt.Sprintf("%s %s\n", m.spinner.View(), m.message)
}

// Spinner shows a spinner while a function executes.
type Spinner struct {
	message string
	out     io.Writer
}

// NewSpinner creates a new spinner that draws on stderr.
func NewSpinner(message string) *Spinner {
	return &Spinner{
		message: message,
		out:     os.Stderr,
	}
}

// Run executes fn while displaying the spinner. Returns ErrCanceled if the
// user quit before fn finished; fn keeps running in that case.
func (s *Spinner) Run(fn func()) error {
	m := newSpinnerModel(s.message)
	p := tea.NewProgram(m, tea.WithOutput(s.out))

	go func() {
		fn()
		p.Send(spinnerDoneMsg{})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	final := finalModel.(spinnerModel) //nolint:errcheck // type assertion always succeeds here
	if final.quitting {
		return ErrCanceled
	}
	return nil
}
