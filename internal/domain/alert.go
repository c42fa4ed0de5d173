package domain

import (
	"fmt"
	"strings"
	"time"

	"dcmonitor/internal/rack"
)

// ConditionOperator comparison applied to a metric
type ConditionOperator string

const (
	OpGreater ConditionOperator = ">"
	OpLess    ConditionOperator = "<"
	OpEqual   ConditionOperator = "="
)

// ConditionTarget scope a condition applies to
type ConditionTarget string

const (
	TargetAny    ConditionTarget = "any"
	TargetRoom   ConditionTarget = "room"
	TargetRack   ConditionTarget = "rack"
	TargetSensor ConditionTarget = "sensor"
)

// ActionType notification channel of a rule
type ActionType string

const (
	ActionEmail   ActionType = "email"
	ActionWebhook ActionType = "webhook"
	ActionSlack   ActionType = "slack"
)

// AlertCondition single threshold clause of a rule
type AlertCondition struct {
	Type     rack.MetricType   `json:"type"`
	Operator ConditionOperator `json:"operator"`
	Value    float64           `json:"value"`
	Target   ConditionTarget   `json:"target"`
	TargetID string            `json:"target_id,omitempty"`
}

// AlertAction notification configured on a rule
type AlertAction struct {
	Type   ActionType     `json:"type"`
	Config map[string]any `json:"config"`
}

// AlertRule user-managed alert definition; never evaluated against live data
type AlertRule struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Enabled       bool             `json:"enabled"`
	Conditions    []AlertCondition `json:"conditions"`
	Actions       []AlertAction    `json:"actions"`
	CreatedAt     time.Time        `json:"created_at"`
	LastTriggered *time.Time       `json:"last_triggered"`
	TriggerCount  int              `json:"trigger_count"`
}

func (c AlertCondition) Validate() error {
	if _, err := rack.ScaleFor(c.Type); err != nil {
		return fmt.Errorf("%w: condition type: %v", ErrValidation, err)
	}
	switch c.Operator {
	case OpGreater, OpLess, OpEqual:
	default:
		return fmt.Errorf("%w: unknown operator %q", ErrValidation, c.Operator)
	}
	switch c.Target {
	case TargetAny:
	case TargetRoom, TargetRack, TargetSensor:
		if strings.TrimSpace(c.TargetID) == "" {
			return fmt.Errorf("%w: target_id is required for target %q", ErrValidation, c.Target)
		}
	default:
		return fmt.Errorf("%w: unknown target %q", ErrValidation, c.Target)
	}
	return nil
}

func (a AlertAction) Validate() error {
	switch a.Type {
	case ActionEmail, ActionWebhook, ActionSlack:
		return nil
	}
	return fmt.Errorf("%w: unknown action type %q", ErrValidation, a.Type)
}

// Validate checks the user-editable fields of a rule.
func (r *AlertRule) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if len(r.Conditions) == 0 {
		return fmt.Errorf("%w: at least one condition is required", ErrValidation)
	}
	for i, c := range r.Conditions {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("condition %d: %w", i, err)
		}
	}
	for i, a := range r.Actions {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("action %d: %w", i, err)
		}
	}
	return nil
}

// AlertSeverity severity of a fired alert
type AlertSeverity string

const (
	SeverityLow      AlertSeverity = "low"
	SeverityMedium   AlertSeverity = "medium"
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

// AlertStatus lifecycle state: active -> acknowledged -> resolved
type AlertStatus string

const (
	StatusActive       AlertStatus = "active"
	StatusAcknowledged AlertStatus = "acknowledged"
	StatusResolved     AlertStatus = "resolved"
)

func ValidSeverity(s AlertSeverity) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

func ValidStatus(s AlertStatus) bool {
	switch s {
	case StatusActive, StatusAcknowledged, StatusResolved:
		return true
	}
	return false
}

// AlertHistory one fired alert and its handling state
type AlertHistory struct {
	ID             string          `json:"id"`
	RuleID         string          `json:"rule_id"`
	RuleName       string          `json:"rule_name"`
	Severity       AlertSeverity   `json:"severity"`
	Status         AlertStatus     `json:"status"`
	TriggeredAt    time.Time       `json:"triggered_at"`
	ResolvedAt     *time.Time      `json:"resolved_at"`
	AcknowledgedAt *time.Time      `json:"acknowledged_at"`
	AcknowledgedBy *string         `json:"acknowledged_by"`
	SensorID       string          `json:"sensor_id"`
	RackID         string          `json:"rack_id"`
	RoomID         string          `json:"room_id"`
	DCID           string          `json:"dc_id"`
	MetricType     rack.MetricType `json:"metric_type"`
	ActualValue    float64         `json:"actual_value"`
	ThresholdValue float64         `json:"threshold_value"`
	Message        string          `json:"message"`
}
