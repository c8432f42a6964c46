package store

import (
	"context"
	"time"

	"github.com/amishk599/jobsweep/internal/model"
)

// NopStore is a no-op store used in check mode. Nothing is written and no
// run is ever recorded.
type NopStore struct{}

var _ model.ResultStore = (*NopStore)(nil)

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) Save(context.Context, model.Snapshot) error { return nil }
func (s *NopStore) LastRun(context.Context) (time.Time, error) {
	return time.Time{}, model.ErrNoRun
}
