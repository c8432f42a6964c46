package notifier

import (
	"log/slog"

	"github.com/amishk599/jobsweep/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes matched jobs to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each job via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs each job with company, title, url and source, plus location
// and posted date when known. It never fails.
func (n *LogNotifier) Notify(jobs []model.Job) error {
	for _, j := range jobs {
		args := []any{"company", j.Company, "title", j.Title, "url", j.URL, "source", j.Source}
		if j.Location != nil {
			args = append(args, "location", *j.Location)
		}
		if j.PostedDate != nil {
			args = append(args, "posted_date", *j.PostedDate)
		}
		n.logger.Info("matched job", args...)
	}
	return nil
}
