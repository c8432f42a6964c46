package browse

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/amishk599/jobsweep/internal/dataset"
	"github.com/amishk599/jobsweep/internal/model"
)

// maxSourceKeys is how many sources get a number key toggle.
const maxSourceKeys = 9

// savedModel browses the dataset written by the last run: live search over
// title and company, per-source toggles and a cycling sort order.
type savedModel struct {
	all     []model.Job
	lastRun time.Time
	sources []string
	off     map[string]bool // sources toggled out
	sort    dataset.SortKey
	search  textinput.Model
	list    jobPane

	width  int
	height int
	ready  bool

	detail *detailPane
	opener func(url string)
}

func newSavedModel(jobs []model.Job, lastRun time.Time) savedModel {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search title or company"

	m := savedModel{
		all:     jobs,
		lastRun: lastRun,
		sources: dataset.Sources(jobs),
		off:     make(map[string]bool),
		search:  search,
		list:    jobPane{title: "Jobs"},
		opener:  openURL,
	}
	m.refresh()
	return m
}

// query is the current search, the sources still toggled in, and the sort.
// With every source toggled out no source filter applies.
func (m savedModel) query() dataset.Query {
	var selected []string
	for _, s := range m.sources {
		if !m.off[s] {
			selected = append(selected, s)
		}
	}
	return dataset.Query{Search: m.search.Value(), Sources: selected, Sort: m.sort}
}

func (m *savedModel) refresh() {
	m.list.jobs = dataset.Apply(m.all, m.query())
	m.list.move(0)
	if m.ready {
		m.list.render(true)
		m.list.scrollToCursor()
	}
}

func (m savedModel) Init() tea.Cmd {
	return nil
}

func (m savedModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Header, source line, search line, list border and status bar.
		w, h := max(m.width-2, 20), max(m.height-6, 3)
		if !m.ready {
			m.list.viewport = viewport.New(w, h)
			m.ready = true
		} else {
			m.list.viewport.Width, m.list.viewport.Height = w, h
		}
		m.refresh()
		if m.detail != nil {
			m.detail.resize(m.width, m.height)
		}
		return m, nil

	case tea.KeyMsg:
		if m.detail != nil {
			action, cmd := m.detail.handleKey(msg, m.opener)
			if action == detailBack {
				m.detail = nil
			}
			return m, cmd
		}
		if m.search.Focused() {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m savedModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "enter":
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refresh()
	return m, cmd
}

func (m savedModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "/":
		return m, m.search.Focus()
	case "x":
		m.search.SetValue("")
		m.refresh()
		return m, nil
	case "s":
		m.sort = m.sort.Next()
		m.refresh()
		return m, nil
	case "up", "k":
		m.list.move(-1)
		m.refresh()
		return m, nil
	case "down", "j":
		m.list.move(1)
		m.refresh()
		return m, nil
	case "enter":
		if job, ok := m.list.selected(); ok {
			m.detail = newDetailPane(job, m.width, m.height)
		}
		return m, nil
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		if i := int(key[0] - '1'); i < len(m.sources) {
			m.off[m.sources[i]] = !m.off[m.sources[i]]
			m.refresh()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list.viewport, cmd = m.list.viewport.Update(msg)
	return m, cmd
}

func (m savedModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.detail != nil {
		return m.detail.view()
	}

	header := activeHeaderStyle.Render(dataset.Header(m.lastRun, len(m.all))) +
		inactiveHeaderStyle.Render(fmt.Sprintf("showing %d", len(m.list.jobs)))

	status := statusBarStyle.Width(m.width).
		Render(" / search  x clear  1-9 toggle source  s sort  ↑/↓ cursor  Enter detail  q quit")

	return header + "\n" +
		m.sourceLine() + "\n" +
		m.search.View() + "\n" +
		activeBorderStyle.Width(m.list.viewport.Width).Render(m.list.viewport.View()) + "\n" +
		status
}

func (m savedModel) sourceLine() string {
	parts := make([]string, 0, len(m.sources)+1)
	for i, s := range m.sources {
		label := s
		if i < maxSourceKeys {
			label = fmt.Sprintf("%d %s", i+1, s)
		}
		if m.off[s] {
			parts = append(parts, sourceOffStyle.Render(label))
		} else {
			parts = append(parts, sourceOnStyle.Render(label))
		}
	}
	parts = append(parts, columnHeaderStyle.Render("sort: "+m.sort.String()))
	return " " + strings.Join(parts, "  ")
}

// RunSavedTUI browses the jobs of the last saved run. lastRun may be zero
// when no run marker exists.
func RunSavedTUI(jobs []model.Job, lastRun time.Time) error {
	_, err := tea.NewProgram(newSavedModel(jobs, lastRun), tea.WithAltScreen()).Run()
	return err
}
