package repository

import (
	"context"
	"sort"
	"sync"

	"dcmonitor/internal/domain"
)

// MemoryAlertHistoryRepo used when DB is disabled
type MemoryAlertHistoryRepo struct {
	mu      sync.RWMutex
	entries map[string]domain.AlertHistory
}

var _ AlertHistoryRepository = (*MemoryAlertHistoryRepo)(nil)

func NewMemoryAlertHistoryRepo(seed []domain.AlertHistory) *MemoryAlertHistoryRepo {
	r := &MemoryAlertHistoryRepo{entries: map[string]domain.AlertHistory{}}
	for _, h := range seed {
		r.entries[h.ID] = cloneHistory(h)
	}
	return r
}

func (r *MemoryAlertHistoryRepo) ListHistory(_ context.Context, filter AlertHistoryFilters) ([]domain.AlertHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.AlertHistory{}
	for _, h := range r.entries {
		if filter.match(&h) {
			out = append(out, cloneHistory(h))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].TriggeredAt.After(out[j].TriggeredAt)
	})
	return out, nil
}

func (r *MemoryAlertHistoryRepo) GetHistory(_ context.Context, id string) (*domain.AlertHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := cloneHistory(h)
	return &c, nil
}

func (r *MemoryAlertHistoryRepo) UpdateHistory(_ context.Context, h *domain.AlertHistory, expected domain.AlertStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.entries[h.ID]
	if !ok {
		return ErrNotFound
	}
	if cur.Status != expected {
		return ErrConflict
	}
	r.entries[h.ID] = cloneHistory(*h)
	return nil
}
