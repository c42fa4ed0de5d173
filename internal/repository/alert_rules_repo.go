package repository

import (
	"context"

	"dcmonitor/internal/domain"
)

// AlertRulesRepository persistence of user-defined alert rules
type AlertRulesRepository interface {
	// ListRules returns rules ordered by created_at
	ListRules(ctx context.Context) ([]domain.AlertRule, error)
	GetRule(ctx context.Context, id string) (*domain.AlertRule, error)
	// CreateRule stores a rule whose ID is already assigned
	CreateRule(ctx context.Context, rule *domain.AlertRule) error
	// UpdateRule replaces the stored rule with the same ID
	UpdateRule(ctx context.Context, rule *domain.AlertRule) error
	DeleteRule(ctx context.Context, id string) error
}
