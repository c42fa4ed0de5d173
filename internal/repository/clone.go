package repository

import (
	"maps"
	"slices"

	"dcmonitor/internal/domain"
)

// Memory repos hand out copies so callers never alias stored state.

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneRule(r domain.AlertRule) domain.AlertRule {
	r.Conditions = slices.Clone(r.Conditions)
	actions := make([]domain.AlertAction, len(r.Actions))
	for i, a := range r.Actions {
		actions[i] = domain.AlertAction{Type: a.Type, Config: maps.Clone(a.Config)}
	}
	r.Actions = actions
	r.LastTriggered = clonePtr(r.LastTriggered)
	return r
}

func cloneHistory(h domain.AlertHistory) domain.AlertHistory {
	h.ResolvedAt = clonePtr(h.ResolvedAt)
	h.AcknowledgedAt = clonePtr(h.AcknowledgedAt)
	h.AcknowledgedBy = clonePtr(h.AcknowledgedBy)
	return h
}

func cloneUser(u domain.User) domain.User {
	u.LastLogin = clonePtr(u.LastLogin)
	return u
}
