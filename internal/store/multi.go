package store

import (
	"context"
	"time"

	"github.com/amishk599/jobsweep/internal/model"
)

// MultiStore saves to several stores in order. LastRun is answered by the
// first store.
type MultiStore struct {
	stores []model.ResultStore
}

var _ model.ResultStore = (*MultiStore)(nil)

// Multi returns a store writing to each of stores, stopping at the first error.
func Multi(stores ...model.ResultStore) *MultiStore {
	return &MultiStore{stores: stores}
}

func (m *MultiStore) Save(ctx context.Context, snap model.Snapshot) error {
	for _, s := range m.stores {
		if err := s.Save(ctx, snap); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiStore) LastRun(ctx context.Context) (time.Time, error) {
	if len(m.stores) == 0 {
		return time.Time{}, model.ErrNoRun
	}
	return m.stores[0].LastRun(ctx)
}
