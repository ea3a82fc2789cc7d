package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// LoadingUpdate reports the loading indicator value in [0, 100].
type LoadingUpdate struct {
	Value float64
	Done  bool
}

// LoadingModel shows a determinate progress bar fed from a channel.
type LoadingModel struct {
	bar     progress.Model
	label   string
	value   float64
	done    bool
	skipped bool
	updates <-chan LoadingUpdate
}

// NewLoading creates a loading bar that follows updates until one reports Done
// or the channel closes.
func NewLoading(label string, updates <-chan LoadingUpdate) LoadingModel {
	var bar progress.Model
	switch {
	case CurrentPreferences.NoColor:
		bar = progress.New(progress.WithSolidFill(""), progress.WithoutPercentage())
	case CurrentPreferences.Gradient:
		bar = progress.New(progress.WithGradient(string(Primary), string(Secondary)), progress.WithoutPercentage())
	default:
		bar = progress.New(progress.WithSolidFill(string(Primary)), progress.WithoutPercentage())
	}
	bar.Width = 40
	return LoadingModel{bar: bar, label: label, updates: updates}
}

func (m LoadingModel) Init() tea.Cmd {
	return waitForLoading(m.updates)
}

func waitForLoading(updates <-chan LoadingUpdate) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return LoadingUpdate{Value: 100, Done: true}
		}
		return update
	}
}

func (m LoadingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "enter", "ctrl+c":
			m.skipped = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.bar.Width = min(60, max(10, msg.Width-len(m.label)-10))
	case LoadingUpdate:
		if msg.Value > m.value {
			m.value = msg.Value
		}
		if msg.Done {
			m.done = true
			return m, tea.Quit
		}
		return m, waitForLoading(m.updates)
	}
	return m, nil
}

func (m LoadingModel) View() string {
	if m.done || m.skipped {
		return ""
	}
	pct := MutedStyle.Render(fmt.Sprintf("%3.0f%%", m.value))
	return AlignWidth(m.label+" "+m.bar.ViewAs(m.value/100)+" "+pct, TerminalWidth()) + "\n"
}

// Value returns the last reported value.
func (m LoadingModel) Value() float64 { return m.value }

// Done reports whether the indicator reached the end.
func (m LoadingModel) Done() bool { return m.done }

// RunLoading blocks while the loading bar runs. Non-interactive terminals
// skip the bar entirely.
func RunLoading(label string, updates <-chan LoadingUpdate) error {
	if !IsInteractiveTerminal() {
		return nil
	}
	if _, err := tea.NewProgram(NewLoading(label, updates)).Run(); err != nil {
		return fmt.Errorf("loading indicator: %w", err)
	}
	return nil
}
