package repository

import (
	"time"

	"dcmonitor/internal/domain"
	"dcmonitor/internal/rack"
)

// Demo data loaded into the in-memory repositories.

func seedTime(layout, v string) time.Time {
	t, err := time.ParseInLocation(layout, v, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func day(v string) time.Time { return seedTime("2006-01-02", v) }
func instant(v string) time.Time { return seedTime("2006-01-02T15:04", v) }
func ptrTime(t time.Time) *time.Time { return &t }
func ptrString(s string) *string { return &s }

const seedOperator = "admin@example.com"

// SeedAlertRules demo rules
func SeedAlertRules() []domain.AlertRule {
	return []domain.AlertRule{
		{
			ID:          "1",
			Name:        "High temperature warning",
			Description: "Notify when a rack temperature exceeds 30°C",
			Enabled:     true,
			Conditions: []domain.AlertCondition{
				{Type: rack.MetricTemperature, Operator: domain.OpGreater, Value: 30, Target: domain.TargetAny},
			},
			Actions: []domain.AlertAction{
				{Type: domain.ActionEmail, Config: map[string]any{"to": "admin@example.com", "subject": "Temperature warning"}},
			},
			CreatedAt:     day("2025-01-15"),
			LastTriggered: ptrTime(day("2025-01-20")),
			TriggerCount:  5,
		},
		{
			ID:          "2",
			Name:        "Humidity anomaly",
			Description: "Humidity of a specific room exceeds 65%",
			Enabled:     true,
			Conditions: []domain.AlertCondition{
				{Type: rack.MetricHumidity, Operator: domain.OpGreater, Value: 65, Target: domain.TargetRoom, TargetID: "ROOM-001"},
			},
			Actions: []domain.AlertAction{
				{Type: domain.ActionWebhook, Config: map[string]any{"url": "https://api.example.com/alerts", "method": "POST"}},
			},
			CreatedAt: day("2025-01-10"),
		},
	}
}

// SeedAlertHistory demo fired alerts
func SeedAlertHistory() []domain.AlertHistory {
	return []domain.AlertHistory{
		{
			ID: "ah-1", RuleID: "1", RuleName: "High temperature warning",
			Severity: domain.SeverityHigh, Status: domain.StatusActive,
			TriggeredAt: instant("2025-01-22T10:30"),
			SensorID:    "SEN-001-G5-E", RackID: "RACK-001-G5", RoomID: "ROOM-001", DCID: "DC-001",
			MetricType: rack.MetricTemperature, ActualValue: 32.5, ThresholdValue: 30,
			Message: "Exhaust temperature of rack RACK-001-G5 reached 32.5°C",
		},
		{
			ID: "ah-2", RuleID: "2", RuleName: "Humidity anomaly",
			Severity: domain.SeverityMedium, Status: domain.StatusAcknowledged,
			TriggeredAt:    instant("2025-01-22T09:15"),
			AcknowledgedAt: ptrTime(instant("2025-01-22T09:20")),
			AcknowledgedBy: ptrString(seedOperator),
			SensorID:       "SEN-001-A1-I", RackID: "RACK-001-A1", RoomID: "ROOM-001", DCID: "DC-001",
			MetricType: rack.MetricHumidity, ActualValue: 68.2, ThresholdValue: 65,
			Message: "Humidity of room ROOM-001 reached 68.2%",
		},
		{
			ID: "ah-3", RuleID: "1", RuleName: "High temperature warning",
			Severity: domain.SeverityCritical, Status: domain.StatusResolved,
			TriggeredAt:    instant("2025-01-22T08:00"),
			ResolvedAt:     ptrTime(instant("2025-01-22T08:45")),
			AcknowledgedAt: ptrTime(instant("2025-01-22T08:05")),
			AcknowledgedBy: ptrString(seedOperator),
			SensorID:       "SEN-002-P10-E", RackID: "RACK-002-P10", RoomID: "ROOM-002", DCID: "DC-001",
			MetricType: rack.MetricTemperature, ActualValue: 35.8, ThresholdValue: 30,
			Message: "Exhaust temperature of rack RACK-002-P10 reached 35.8°C",
		},
		{
			ID: "ah-4", RuleID: "3", RuleName: "Airflow drop",
			Severity: domain.SeverityLow, Status: domain.StatusActive,
			TriggeredAt: instant("2025-01-22T07:30"),
			SensorID:    "SEN-001-M7-I", RackID: "RACK-001-M7", RoomID: "ROOM-001", DCID: "DC-001",
			MetricType: rack.MetricAirflow, ActualValue: 85, ThresholdValue: 90,
			Message: "Intake airflow of rack RACK-001-M7 dropped to 85 CFM",
		},
		{
			ID: "ah-5", RuleID: "1", RuleName: "High temperature warning",
			Severity: domain.SeverityHigh, Status: domain.StatusResolved,
			TriggeredAt: instant("2025-01-21T14:20"),
			ResolvedAt:  ptrTime(instant("2025-01-21T15:10")),
			SensorID:    "SEN-003-C3-E", RackID: "RACK-003-C3", RoomID: "ROOM-003", DCID: "DC-001",
			MetricType: rack.MetricTemperature, ActualValue: 31.2, ThresholdValue: 30,
			Message: "Exhaust temperature of rack RACK-003-C3 reached 31.2°C",
		},
	}
}

// SeedUsers demo accounts
func SeedUsers() []domain.User {
	user := func(id, name string, role domain.UserRole, status domain.UserStatus, lastLogin, created string) domain.User {
		return domain.User{
			ID:        id,
			Username:  name,
			Email:     name + "@example.com",
			Role:      role,
			Status:    status,
			LastLogin: ptrTime(instant(lastLogin)),
			CreatedAt: day(created),
		}
	}
	return []domain.User{
		user("1", "admin", domain.RoleAdmin, domain.UserActive, "2025-01-22T10:30", "2025-01-01"),
		user("2", "operator1", domain.RoleOperator, domain.UserActive, "2025-01-22T09:15", "2025-01-05"),
		user("3", "viewer1", domain.RoleViewer, domain.UserActive, "2025-01-21T14:20", "2025-01-10"),
		user("4", "operator2", domain.RoleOperator, domain.UserInactive, "2025-01-15T11:45", "2025-01-08"),
	}
}
