package repository

import (
	"context"
	"sort"
	"sync"

	"dcmonitor/internal/domain"
)

// MemoryAlertRulesRepo used when DB is disabled
type MemoryAlertRulesRepo struct {
	mu    sync.RWMutex
	rules map[string]domain.AlertRule
}

var _ AlertRulesRepository = (*MemoryAlertRulesRepo)(nil)

func NewMemoryAlertRulesRepo(seed []domain.AlertRule) *MemoryAlertRulesRepo {
	r := &MemoryAlertRulesRepo{rules: map[string]domain.AlertRule{}}
	for _, rule := range seed {
		r.rules[rule.ID] = cloneRule(rule)
	}
	return r
}

func (r *MemoryAlertRulesRepo) ListRules(_ context.Context) ([]domain.AlertRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.AlertRule, 0, len(r.rules))
	for _, rule := range r.rules {
		out = append(out, cloneRule(rule))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryAlertRulesRepo) GetRule(_ context.Context, id string) (*domain.AlertRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rule, ok := r.rules[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := cloneRule(rule)
	return &c, nil
}

func (r *MemoryAlertRulesRepo) CreateRule(_ context.Context, rule *domain.AlertRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[rule.ID]; exists {
		return ErrConflict
	}
	r.rules[rule.ID] = cloneRule(*rule)
	return nil
}

func (r *MemoryAlertRulesRepo) UpdateRule(_ context.Context, rule *domain.AlertRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rules[rule.ID]; !ok {
		return ErrNotFound
	}
	r.rules[rule.ID] = cloneRule(*rule)
	return nil
}

func (r *MemoryAlertRulesRepo) DeleteRule(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rules[id]; !ok {
		return ErrNotFound
	}
	delete(r.rules, id)
	return nil
}
