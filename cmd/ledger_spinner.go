package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var spinnerDoneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("70"))

type ledgerOpDoneMsg struct {
	result string
	err    error
}

// ledgerSpinnerModel animates a spinner while a ledger operation runs and
// leaves the operation's one-line result on screen when it finishes.
type ledgerSpinnerModel struct {
	spinner spinner.Model
	label   string
	op      tea.Cmd
	result  string
	err     error
	done    bool
}

func newLedgerSpinnerModel(label string, op tea.Cmd) ledgerSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return ledgerSpinnerModel{
		spinner: s,
		label:   label,
		op:      op,
	}
}

func (m ledgerSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.op)
}

func (m ledgerSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case ledgerOpDoneMsg:
		m.done = true
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m ledgerSpinnerModel) View() string {
	if !m.done {
		return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
	}
	if m.err != nil || m.result == "" {
		// The caller reports the error; leave nothing behind.
		return ""
	}
	return spinnerDoneStyle.Render("✓") + " " + m.result + "\n"
}

// runLedgerSpinner shows a spinner with the given label while op runs
// against the network. The string op returns replaces the spinner line
// on success.
func runLedgerSpinner(ctx context.Context, output io.Writer, label string, op func(context.Context) (string, error)) error {
	opCmd := func() tea.Msg {
		result, err := op(ctx)
		return ledgerOpDoneMsg{result: result, err: err}
	}

	p := tea.NewProgram(
		newLedgerSpinnerModel(label, opCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(ledgerSpinnerModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.err
}
