package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dcmonitor/internal/domain"
	"dcmonitor/internal/repository"

	"go.uber.org/zap"
)

type AlertHistoryService interface {
	List(ctx context.Context, filter repository.AlertHistoryFilters) ([]domain.AlertHistory, error)
	ActiveCount(ctx context.Context) (int, error)
	Acknowledge(ctx context.Context, id, by string) (*domain.AlertHistory, error)
	Resolve(ctx context.Context, id string) (*domain.AlertHistory, error)
}

type alertHistoryService struct {
	repo   repository.AlertHistoryRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewAlertHistoryService(repo repository.AlertHistoryRepository, logger *zap.Logger) AlertHistoryService {
	return &alertHistoryService{repo: repo, logger: logger, now: time.Now}
}

func (s *alertHistoryService) List(ctx context.Context, filter repository.AlertHistoryFilters) ([]domain.AlertHistory, error) {
	if filter.Status != "" && !domain.ValidStatus(filter.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, filter.Status)
	}
	if filter.Severity != "" && !domain.ValidSeverity(filter.Severity) {
		return nil, fmt.Errorf("%w: unknown severity %q", domain.ErrValidation, filter.Severity)
	}
	return s.repo.ListHistory(ctx, filter)
}

func (s *alertHistoryService) ActiveCount(ctx context.Context) (int, error) {
	active, err := s.repo.ListHistory(ctx, repository.AlertHistoryFilters{Status: domain.StatusActive})
	if err != nil {
		return 0, err
	}
	return len(active), nil
}

// Acknowledge moves an active alert to acknowledged.
func (s *alertHistoryService) Acknowledge(ctx context.Context, id, by string) (*domain.AlertHistory, error) {
	by = strings.TrimSpace(by)
	if by == "" {
		return nil, fmt.Errorf("%w: acknowledged_by is required", domain.ErrValidation)
	}
	h, err := s.repo.GetHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	if h.Status != domain.StatusActive {
		return nil, fmt.Errorf("%w: cannot acknowledge %s alert %s", ErrInvalidTransition, h.Status, id)
	}
	now := s.now().UTC()
	h.Status = domain.StatusAcknowledged
	h.AcknowledgedAt = &now
	h.AcknowledgedBy = &by
	if err := s.repo.UpdateHistory(ctx, h, domain.StatusActive); err != nil {
		return nil, staleTransition(err, "acknowledge", id)
	}
	s.logger.Info("Alert acknowledged", zap.String("alert_id", id), zap.String("by", by))
	return h, nil
}

// Resolve closes an active or acknowledged alert.
func (s *alertHistoryService) Resolve(ctx context.Context, id string) (*domain.AlertHistory, error) {
	h, err := s.repo.GetHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	if h.Status == domain.StatusResolved {
		return nil, fmt.Errorf("%w: alert %s is already resolved", ErrInvalidTransition, id)
	}
	from := h.Status
	now := s.now().UTC()
	h.Status = domain.StatusResolved
	h.ResolvedAt = &now
	if err := s.repo.UpdateHistory(ctx, h, from); err != nil {
		return nil, staleTransition(err, "resolve", id)
	}
	s.logger.Info("Alert resolved", zap.String("alert_id", id))
	return h, nil
}

// staleTransition reports a lost race with another writer as an invalid transition.
func staleTransition(err error, op, id string) error {
	if errors.Is(err, repository.ErrConflict) {
		return fmt.Errorf("%w: cannot %s alert %s, status changed", ErrInvalidTransition, op, id)
	}
	return err
}
