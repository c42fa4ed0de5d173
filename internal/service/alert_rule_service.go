package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"dcmonitor/internal/domain"
	"dcmonitor/internal/rack"
	"dcmonitor/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AlertRuleInput user-editable fields of a rule
type AlertRuleInput struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Enabled     bool                    `json:"enabled"`
	Conditions  []domain.AlertCondition `json:"conditions"`
	Actions     []domain.AlertAction    `json:"actions"`
}

// AlertRuleView rule plus its rendered condition / action text
type AlertRuleView struct {
	domain.AlertRule
	ConditionTexts []string `json:"condition_texts"`
	ActionTexts    []string `json:"action_texts"`
}

// AlertRuleService manages rule definitions only; rules are not evaluated
// against live readings.
type AlertRuleService interface {
	List(ctx context.Context) ([]AlertRuleView, error)
	Get(ctx context.Context, id string) (*AlertRuleView, error)
	Create(ctx context.Context, in AlertRuleInput) (*AlertRuleView, error)
	Update(ctx context.Context, id string, in AlertRuleInput) (*AlertRuleView, error)
	Delete(ctx context.Context, id string) error
	Toggle(ctx context.Context, id string) (*AlertRuleView, error)
}

type alertRuleService struct {
	repo   repository.AlertRulesRepository
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

func NewAlertRuleService(repo repository.AlertRulesRepository, logger *zap.Logger) AlertRuleService {
	return &alertRuleService{repo: repo, logger: logger, now: time.Now, newID: uuid.NewString}
}

func newRuleView(r *domain.AlertRule) *AlertRuleView {
	v := &AlertRuleView{
		AlertRule:      *r,
		ConditionTexts: make([]string, 0, len(r.Conditions)),
		ActionTexts:    make([]string, 0, len(r.Actions)),
	}
	for _, c := range r.Conditions {
		v.ConditionTexts = append(v.ConditionTexts, DescribeCondition(c))
	}
	for _, a := range r.Actions {
		v.ActionTexts = append(v.ActionTexts, DescribeAction(a))
	}
	return v
}

func (s *alertRuleService) List(ctx context.Context) ([]AlertRuleView, error) {
	rules, err := s.repo.ListRules(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]AlertRuleView, 0, len(rules))
	for i := range rules {
		out = append(out, *newRuleView(&rules[i]))
	}
	return out, nil
}

func (s *alertRuleService) Get(ctx context.Context, id string) (*AlertRuleView, error) {
	r, err := s.repo.GetRule(ctx, id)
	if err != nil {
		return nil, err
	}
	return newRuleView(r), nil
}

func (in AlertRuleInput) apply(r *domain.AlertRule) {
	r.Name = strings.TrimSpace(in.Name)
	r.Description = in.Description
	r.Enabled = in.Enabled
	r.Conditions = in.Conditions
	r.Actions = in.Actions
	if r.Actions == nil {
		r.Actions = []domain.AlertAction{}
	}
}

func (s *alertRuleService) Create(ctx context.Context, in AlertRuleInput) (*AlertRuleView, error) {
	r := &domain.AlertRule{ID: s.newID(), CreatedAt: s.now().UTC()}
	in.apply(r)
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.CreateRule(ctx, r); err != nil {
		return nil, err
	}
	s.logger.Info("Alert rule created", zap.String("rule_id", r.ID), zap.String("name", r.Name))
	return newRuleView(r), nil
}

// Update keeps id, created_at, last_triggered and trigger_count.
func (s *alertRuleService) Update(ctx context.Context, id string, in AlertRuleInput) (*AlertRuleView, error) {
	r, err := s.repo.GetRule(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(r)
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRule(ctx, r); err != nil {
		return nil, err
	}
	s.logger.Info("Alert rule updated", zap.String("rule_id", r.ID))
	return newRuleView(r), nil
}

func (s *alertRuleService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteRule(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Alert rule deleted", zap.String("rule_id", id))
	return nil
}

func (s *alertRuleService) Toggle(ctx context.Context, id string) (*AlertRuleView, error) {
	r, err := s.repo.GetRule(ctx, id)
	if err != nil {
		return nil, err
	}
	r.Enabled = !r.Enabled
	if err := s.repo.UpdateRule(ctx, r); err != nil {
		return nil, err
	}
	s.logger.Info("Alert rule toggled", zap.String("rule_id", id), zap.Bool("enabled", r.Enabled))
	return newRuleView(r), nil
}

var operatorText = map[domain.ConditionOperator]string{
	domain.OpGreater: "greater than",
	domain.OpLess:    "less than",
	domain.OpEqual:   "equal to",
}

// DescribeCondition e.g. "Any sensor temperature greater than 30°C".
func DescribeCondition(c domain.AlertCondition) string {
	var target string
	switch c.Target {
	case domain.TargetAny:
		target = "Any sensor"
	case domain.TargetRoom:
		target = "Room " + c.TargetID
	case domain.TargetRack:
		target = "Rack " + c.TargetID
	case domain.TargetSensor:
		target = "Sensor " + c.TargetID
	default:
		target = string(c.Target)
	}
	value := strconv.FormatFloat(c.Value, 'f', -1, 64)
	unit := c.Type.Unit()
	if c.Type == rack.MetricAirflow {
		unit = " " + unit
	}
	return fmt.Sprintf("%s %s %s %s%s", target, c.Type, operatorText[c.Operator], value, unit)
}

func configString(cfg map[string]any, key string) string {
	if v, ok := cfg[key]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return ""
}

// DescribeAction e.g. "Email: admin@example.com".
func DescribeAction(a domain.AlertAction) string {
	switch a.Type {
	case domain.ActionEmail:
		return "Email: " + configString(a.Config, "to")
	case domain.ActionWebhook:
		return "Webhook: " + configString(a.Config, "url")
	case domain.ActionSlack:
		return "Slack: " + configString(a.Config, "channel")
	}
	return string(a.Type)
}
