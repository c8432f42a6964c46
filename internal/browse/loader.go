package browse

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobsweep/internal/aggregator"
)

// ErrCancelled is returned by RunLoader when the user pressed ctrl+c.
var ErrCancelled = errors.New("cancelled")

// RunFunc executes one run of the pipeline.
type RunFunc func(ctx context.Context) (aggregator.Result, error)

type runDoneMsg struct {
	res aggregator.Result
	err error
}

type loaderModel struct {
	label   string
	run     RunFunc
	ctx     context.Context
	cancel  context.CancelFunc
	spinner spinner.Model
	result  aggregator.Result
	err     error
	done    bool
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.doRun(), m.spinner.Tick)
}

func (m loaderModel) doRun() tea.Cmd {
	run, ctx := m.run, m.ctx
	return func() tea.Msg {
		res, err := run(ctx)
		return runDoneMsg{res: res, err: err}
	}
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case runDoneMsg:
		m.result = msg.res
		if m.err == nil {
			m.err = msg.err
		}
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			m.done = true
			m.err = ErrCancelled
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s Fetching jobs from %s...\n", m.spinner.View(), m.label)
}

// RunLoader shows a spinner while run executes. It renders inline (no alt screen).
func RunLoader(ctx context.Context, label string, run RunFunc) (aggregator.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))

	m := loaderModel{
		label:   label,
		run:     run,
		ctx:     ctx,
		cancel:  cancel,
		spinner: s,
	}
	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return aggregator.Result{}, err
	}
	final := result.(loaderModel)
	return final.result, final.err
}
