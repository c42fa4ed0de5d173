package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"dcmonitor/internal/domain"
)

type PostgresAlertHistoryRepo struct {
	db *sql.DB
}

var _ AlertHistoryRepository = (*PostgresAlertHistoryRepo)(nil)

func NewPostgresAlertHistoryRepo(db *sql.DB) *PostgresAlertHistoryRepo {
	return &PostgresAlertHistoryRepo{db: db}
}

const alertHistoryColumns = `id, rule_id, rule_name, severity, status, triggered_at, resolved_at, ` +
	`acknowledged_at, acknowledged_by, sensor_id, rack_id, room_id, dc_id, ` +
	`metric_type, actual_value, threshold_value, message`

func scanHistory(row rowScanner) (*domain.AlertHistory, error) {
	var (
		h              domain.AlertHistory
		resolvedAt     sql.NullTime
		acknowledgedAt sql.NullTime
		acknowledgedBy sql.NullString
	)
	if err := row.Scan(
		&h.ID, &h.RuleID, &h.RuleName, &h.Severity, &h.Status, &h.TriggeredAt,
		&resolvedAt, &acknowledgedAt, &acknowledgedBy,
		&h.SensorID, &h.RackID, &h.RoomID, &h.DCID,
		&h.MetricType, &h.ActualValue, &h.ThresholdValue, &h.Message,
	); err != nil {
		return nil, err
	}
	if resolvedAt.Valid {
		t := resolvedAt.Time
		h.ResolvedAt = &t
	}
	if acknowledgedAt.Valid {
		t := acknowledgedAt.Time
		h.AcknowledgedAt = &t
	}
	if acknowledgedBy.Valid {
		s := acknowledgedBy.String
		h.AcknowledgedBy = &s
	}
	return &h, nil
}

func (r *PostgresAlertHistoryRepo) ListHistory(ctx context.Context, filter AlertHistoryFilters) ([]domain.AlertHistory, error) {
	where := []string{}
	args := []any{}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Severity != "" {
		args = append(args, string(filter.Severity))
		where = append(where, fmt.Sprintf("severity = $%d", len(args)))
	}

	query := `SELECT ` + alertHistoryColumns + ` FROM alert_history`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY triggered_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list alert history: %w", err)
	}
	defer rows.Close()

	out := []domain.AlertHistory{}
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert history: %w", err)
		}
		out = append(out, *h)
	}
	return out, rows.Err()
}

func (r *PostgresAlertHistoryRepo) GetHistory(ctx context.Context, id string) (*domain.AlertHistory, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+alertHistoryColumns+` FROM alert_history WHERE id = $1`, id)
	h, err := scanHistory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get alert history: %w", err)
	}
	return h, nil
}

func (r *PostgresAlertHistoryRepo) UpdateHistory(ctx context.Context, h *domain.AlertHistory, expected domain.AlertStatus) error {
	var ackBy sql.NullString
	if h.AcknowledgedBy != nil {
		ackBy = sql.NullString{String: *h.AcknowledgedBy, Valid: true}
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE alert_history
		SET status = $2, resolved_at = $3, acknowledged_at = $4, acknowledged_by = $5
		WHERE id = $1 AND status = $6
	`, h.ID, string(h.Status), nullTime(h.ResolvedAt), nullTime(h.AcknowledgedAt), ackBy, string(expected))
	if err != nil {
		return fmt.Errorf("failed to update alert history: %w", err)
	}
	err = requireAffected(res)
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	// nothing updated: either the id is unknown or another writer moved the status
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM alert_history WHERE id = $1)`, h.ID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check alert history: %w", err)
	}
	if exists {
		return ErrConflict
	}
	return ErrNotFound
}
