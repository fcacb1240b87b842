package spinner

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tracewire/tracewire/internal/ui"
)

// Model is the spinner shown while a remote operation runs.
type Model struct {
	spinner spinner.Model
	step    string
	err     error
	done    bool
	result  interface{}
}

func (m Model) HasError() bool {
	return m.err != nil
}

func (m Model) HasResult() bool {
	return m.result != nil
}

func (m Model) GetResult() interface{} {
	return m.result
}

func (m Model) GetError() error {
	return m.err
}

// NewWithMessage creates a spinner with an initial status line.
func NewWithMessage(message string) Model {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ui.InfoColor))
	return Model{
		spinner: s,
		step:    message,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// ResultMsg completes the spinner with a result.
type ResultMsg struct {
	Result interface{}
}

// ErrorMsg completes the spinner with an error.
type ErrorMsg struct {
	Err error
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" {
			return m, tea.Quit
		}
	case error:
		m.err = msg
		m.done = true
		return m, tea.Sequence(
			tea.Printf("%s", ui.ErrorStyle.Render(fmt.Sprintf("█ Error: %s", strings.TrimSpace(msg.Error())))),
			tea.Quit,
		)
	case ErrorMsg:
		m.err = msg.Err
		m.done = true
		return m, tea.Sequence(
			tea.Printf("%s", ui.ErrorStyle.Render(fmt.Sprintf("█ Error: %s", strings.TrimSpace(msg.Err.Error())))),
			tea.Quit,
		)
	case ResultMsg:
		m.result = msg.Result
		m.done = true
		return m, tea.Quit
	case string:
		m.step = msg
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	if m.err != nil || m.done {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), m.step)
}
