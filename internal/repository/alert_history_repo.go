package repository

import (
	"context"

	"dcmonitor/internal/domain"
)

// AlertHistoryFilters optional filters; empty fields match everything
type AlertHistoryFilters struct {
	Status   domain.AlertStatus
	Severity domain.AlertSeverity
}

func (f AlertHistoryFilters) match(h *domain.AlertHistory) bool {
	if f.Status != "" && h.Status != f.Status {
		return false
	}
	if f.Severity != "" && h.Severity != f.Severity {
		return false
	}
	return true
}

// AlertHistoryRepository fired alerts and their handling state
type AlertHistoryRepository interface {
	// ListHistory returns matching entries, newest triggered_at first
	ListHistory(ctx context.Context, filter AlertHistoryFilters) ([]domain.AlertHistory, error)
	GetHistory(ctx context.Context, id string) (*domain.AlertHistory, error)
	// UpdateHistory persists status / acknowledged / resolved fields only while
	// the stored status still equals expected; otherwise ErrConflict.
	UpdateHistory(ctx context.Context, h *domain.AlertHistory, expected domain.AlertStatus) error
}
