package browse

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobsweep/internal/dataset"
	"github.com/amishk599/jobsweep/internal/model"
)

// Lines per job item in the list view (title + subtitle + blank separator).
const jobItemHeight = 3

// jobPane is a scrollable job list with a cursor.
type jobPane struct {
	title    string
	jobs     []model.Job
	cursor   int
	viewport viewport.Model
}

func (p *jobPane) move(delta int) {
	p.cursor = clamp(p.cursor+delta, 0, max(len(p.jobs)-1, 0))
}

func (p *jobPane) render(active bool) {
	p.viewport.SetContent(renderJobs(p.jobs, p.cursor, active))
}

// scrollToCursor keeps the cursor's item inside the viewport.
func (p *jobPane) scrollToCursor() {
	top := p.cursor * jobItemHeight
	bottom := top + jobItemHeight - 1
	if top < p.viewport.YOffset {
		p.viewport.SetYOffset(top)
	} else if bottom >= p.viewport.YOffset+p.viewport.Height {
		p.viewport.SetYOffset(bottom - p.viewport.Height + 1)
	}
}

func (p *jobPane) selected() (model.Job, bool) {
	if len(p.jobs) == 0 {
		return model.Job{}, false
	}
	return p.jobs[p.cursor], true
}

// browseModel shows one run: unique jobs on the left, keyword matches on
// the right.
type browseModel struct {
	panes  [2]jobPane // 0 = unique (after dedup), 1 = matched
	active int
	width  int
	height int
	ready  bool

	detail *detailPane

	opener   func(url string)
	wantQuit bool
}

func newBrowseModel(unique, matched []model.Job) browseModel {
	return browseModel{
		panes: [2]jobPane{
			{title: "Unique", jobs: unique},
			{title: "Matched", jobs: matched},
		},
		opener: openURL,
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		if m.detail != nil {
			m.detail.resize(m.width, m.height)
		}
		return m, nil

	case tea.KeyMsg:
		if m.detail != nil {
			action, cmd := m.detail.handleKey(msg, m.opener)
			switch action {
			case detailQuit:
				m.wantQuit = true
			case detailBack:
				m.detail = nil
			}
			return m, cmd
		}
		return m.updateList(msg)
	}

	return m, nil
}

func (m browseModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := &m.panes[m.active]
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "b":
		m.wantQuit = false
		return m, tea.Quit
	case "tab", "left", "right":
		m.active = 1 - m.active
		m.renderPanes()
		return m, nil
	case "up", "k":
		p.move(-1)
		m.renderPanes()
		p.scrollToCursor()
		return m, nil
	case "down", "j":
		p.move(1)
		m.renderPanes()
		p.scrollToCursor()
		return m, nil
	case "enter":
		if job, ok := p.selected(); ok {
			m.detail = newDetailPane(job, m.width, m.height)
		}
		return m, nil
	}

	// pgup/pgdn/home/end scroll the active pane.
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return m, cmd
}

func (m *browseModel) layout() {
	// 2 border chars per pane + 1 gap between panes.
	paneWidth := max((m.width-5)/2, 20)
	// Header + border top/bottom + status bar.
	paneHeight := max(m.height-4, 5)

	for i := range m.panes {
		if !m.ready {
			m.panes[i].viewport = viewport.New(paneWidth, paneHeight)
			continue
		}
		m.panes[i].viewport.Width = paneWidth
		m.panes[i].viewport.Height = paneHeight
	}
	m.ready = true
	m.renderPanes()
}

func (m *browseModel) renderPanes() {
	for i := range m.panes {
		m.panes[i].render(i == m.active)
	}
}

func (m browseModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.detail != nil {
		return m.detail.view()
	}

	paneWidth := m.panes[0].viewport.Width
	var headers, bodies []string
	for i, p := range m.panes {
		header, border := inactiveHeaderStyle, inactiveBorderStyle
		if i == m.active {
			header, border = activeHeaderStyle, activeBorderStyle
		}
		if i > 0 {
			headers = append(headers, " ")
			bodies = append(bodies, " ")
		}
		headers = append(headers, lipgloss.NewStyle().Width(paneWidth+2).
			Render(header.Render(fmt.Sprintf(" %s (%d)", p.title, len(p.jobs)))))
		bodies = append(bodies, border.Width(paneWidth).Render(p.viewport.View()))
	}

	unique, matched := len(m.panes[0].jobs), len(m.panes[1].jobs)
	statusText := fmt.Sprintf(" %d unique | %d matched | %d filtered out    ←/→/Tab switch  ↑/↓ cursor  Enter detail  Esc back  q quit",
		unique, matched, unique-matched)

	return lipgloss.JoinHorizontal(lipgloss.Top, headers...) + "\n" +
		lipgloss.JoinHorizontal(lipgloss.Top, bodies...) + "\n" +
		statusBarStyle.Width(m.width).Render(statusText)
}

func renderJobs(jobs []model.Job, cursor int, isActive bool) string {
	if len(jobs) == 0 {
		return "  (no jobs)"
	}

	var b strings.Builder
	for i, j := range jobs {
		titleSt, subtitleSt, prefix := jobTitleStyle, jobSubtitleStyle, "  "
		if isActive && i == cursor {
			titleSt, subtitleSt, prefix = selectedJobTitleStyle, selectedJobSubtitleStyle, "> "
		}

		b.WriteString(prefix + titleSt.Render(j.Title) + "\n")
		b.WriteString(prefix + subtitleSt.Render(subtitle(j)) + "\n")
		if i < len(jobs)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// subtitle is "company · location · source · posted", skipping absent parts.
func subtitle(j model.Job) string {
	parts := []string{j.Company}
	if j.Location != nil {
		parts = append(parts, *j.Location)
	}
	parts = append(parts, j.Source)
	if j.PostedDate != nil {
		parts = append(parts, dataset.FormatPosted(j))
	}
	return strings.Join(parts, " · ")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RunBrowseTUI launches the split-pane view of one run: unique jobs on the
// left, keyword matches on the right. It returns wantQuit=true if the user
// pressed q/ctrl+c, false if they pressed esc to return to the picker.
func RunBrowseTUI(unique, matched []model.Job) (bool, error) {
	p := tea.NewProgram(newBrowseModel(unique, matched), tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return false, err
	}
	return result.(browseModel).wantQuit, nil
}
