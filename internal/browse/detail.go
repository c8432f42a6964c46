package browse

import (
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/amishk599/jobsweep/internal/dataset"
	"github.com/amishk599/jobsweep/internal/model"
	"github.com/amishk599/jobsweep/internal/normalize"
)

type detailAction int

const (
	detailStay detailAction = iota
	detailBack
	detailQuit
)

// detailPane is the full-screen view of one job, shared by the run and
// saved-dataset browsers.
type detailPane struct {
	job      model.Job
	viewport viewport.Model
	width    int
}

func newDetailPane(job model.Job, width, height int) *detailPane {
	d := &detailPane{job: job}
	d.viewport = viewport.New(width-4, height-4)
	d.resize(width, height)
	return d
}

func (d *detailPane) resize(width, height int) {
	d.width = width
	d.viewport.Width = width - 4
	d.viewport.Height = height - 4
	d.viewport.SetContent(renderDetail(d.job, width))
}

// handleKey applies a key press: q quits, esc goes back, o opens the job
// URL with opener, anything else scrolls.
func (d *detailPane) handleKey(msg tea.KeyMsg, opener func(string)) (detailAction, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return detailQuit, tea.Quit
	case "esc", "backspace":
		return detailBack, nil
	case "o":
		if opener != nil {
			opener(d.job.URL)
		}
		return detailStay, nil
	}
	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)
	return detailStay, cmd
}

func (d *detailPane) view() string {
	title := detailTitleStyle.Render("Job Details")
	content := activeBorderStyle.Width(d.width - 2).Render(d.viewport.View())
	statusBar := statusBarStyle.Width(d.width).Render(" o open URL  esc/backspace back  ↑/↓ scroll  q quit")
	return title + "\n" + content + "\n" + statusBar
}

func renderDetail(j model.Job, width int) string {
	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(detailValueStyle.Render(value))
		b.WriteByte('\n')
	}

	addField("Title", j.Title)
	addField("Company", j.Company)
	addField("Location", normalize.Value(j.Location))
	if j.PostedDate != nil {
		addField("Posted", dataset.FormatPosted(j))
	}
	addField("Source", j.Source)
	b.WriteByte('\n')
	addField("URL", j.URL)

	if j.Snippet != nil {
		wrapWidth := max(width-8, 20)
		label := "── Snippet "
		fill := strings.Repeat("─", max(wrapWidth-len(label), 3))
		b.WriteByte('\n')
		b.WriteString(snippetDividerStyle.Render(label+fill) + "\n\n")
		b.WriteString(snippetBodyStyle.Render(wordWrap(*j.Snippet, wrapWidth)) + "\n")
	}

	return b.String()
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}
