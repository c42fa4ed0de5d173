package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dcmonitor/internal/domain"
)

// PostgresAlertRulesRepo stores conditions and actions as JSONB
type PostgresAlertRulesRepo struct {
	db *sql.DB
}

var _ AlertRulesRepository = (*PostgresAlertRulesRepo)(nil)

func NewPostgresAlertRulesRepo(db *sql.DB) *PostgresAlertRulesRepo {
	return &PostgresAlertRulesRepo{db: db}
}

const alertRuleColumns = `id, name, description, enabled, conditions, actions, created_at, last_triggered, trigger_count`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(row rowScanner) (*domain.AlertRule, error) {
	var (
		rule          domain.AlertRule
		conditionsRaw []byte
		actionsRaw    []byte
		lastTriggered sql.NullTime
	)
	if err := row.Scan(
		&rule.ID,
		&rule.Name,
		&rule.Description,
		&rule.Enabled,
		&conditionsRaw,
		&actionsRaw,
		&rule.CreatedAt,
		&lastTriggered,
		&rule.TriggerCount,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(conditionsRaw, &rule.Conditions); err != nil {
		return nil, fmt.Errorf("decode conditions of rule %s: %w", rule.ID, err)
	}
	if err := json.Unmarshal(actionsRaw, &rule.Actions); err != nil {
		return nil, fmt.Errorf("decode actions of rule %s: %w", rule.ID, err)
	}
	if lastTriggered.Valid {
		t := lastTriggered.Time
		rule.LastTriggered = &t
	}
	return &rule, nil
}

func encodeRule(rule *domain.AlertRule) (conditions, actions []byte, err error) {
	if conditions, err = json.Marshal(rule.Conditions); err != nil {
		return nil, nil, fmt.Errorf("encode conditions: %w", err)
	}
	if actions, err = json.Marshal(rule.Actions); err != nil {
		return nil, nil, fmt.Errorf("encode actions: %w", err)
	}
	return conditions, actions, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func (r *PostgresAlertRulesRepo) ListRules(ctx context.Context) ([]domain.AlertRule, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+alertRuleColumns+` FROM alert_rules ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list alert rules: %w", err)
	}
	defer rows.Close()

	out := []domain.AlertRule{}
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert rule: %w", err)
		}
		out = append(out, *rule)
	}
	return out, rows.Err()
}

func (r *PostgresAlertRulesRepo) GetRule(ctx context.Context, id string) (*domain.AlertRule, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+alertRuleColumns+` FROM alert_rules WHERE id = $1`, id)
	rule, err := scanRule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get alert rule: %w", err)
	}
	return rule, nil
}

func (r *PostgresAlertRulesRepo) CreateRule(ctx context.Context, rule *domain.AlertRule) error {
	conditions, actions, err := encodeRule(rule)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO alert_rules (`+alertRuleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, rule.ID, rule.Name, rule.Description, rule.Enabled, conditions, actions,
		rule.CreatedAt, nullTime(rule.LastTriggered), rule.TriggerCount)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create alert rule: %w", err)
	}
	return nil
}

func (r *PostgresAlertRulesRepo) UpdateRule(ctx context.Context, rule *domain.AlertRule) error {
	conditions, actions, err := encodeRule(rule)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE alert_rules
		SET name = $2, description = $3, enabled = $4, conditions = $5, actions = $6,
			last_triggered = $7, trigger_count = $8
		WHERE id = $1
	`, rule.ID, rule.Name, rule.Description, rule.Enabled, conditions, actions,
		nullTime(rule.LastTriggered), rule.TriggerCount)
	if err != nil {
		return fmt.Errorf("failed to update alert rule: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresAlertRulesRepo) DeleteRule(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM alert_rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete alert rule: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
