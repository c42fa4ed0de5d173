package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dcmonitor/internal/domain"
	"dcmonitor/internal/rack"
	"dcmonitor/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

func newRuleService() *alertRuleService {
	svc := NewAlertRuleService(repository.NewMemoryAlertRulesRepo(repository.SeedAlertRules()), zap.NewNop()).(*alertRuleService)
	svc.now = func() time.Time { return fixedNow }
	svc.newID = func() string { return "rule-new" }
	return svc
}

func validRuleInput() AlertRuleInput {
	return AlertRuleInput{
		Name:    "Airflow drop",
		Enabled: true,
		Conditions: []domain.AlertCondition{
			{Type: rack.MetricAirflow, Operator: domain.OpLess, Value: 90, Target: domain.TargetRack, TargetID: "ROOM-001-M07"},
		},
		Actions: []domain.AlertAction{
			{Type: domain.ActionSlack, Config: map[string]any{"channel": "#dc-ops"}},
		},
	}
}

func TestAlertRuleService_ListSeeded(t *testing.T) {
	rules, err := newRuleService().List(context.Background())
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, []string{"Room ROOM-001 humidity greater than 65%"}, rules[0].ConditionTexts)
	assert.Equal(t, []string{"Webhook: https://api.example.com/alerts"}, rules[0].ActionTexts)
	assert.Equal(t, []string{"Any sensor temperature greater than 30°C"}, rules[1].ConditionTexts)
	assert.Equal(t, []string{"Email: admin@example.com"}, rules[1].ActionTexts)
}

func TestAlertRuleService_CreateUpdateToggleDelete(t *testing.T) {
	ctx := context.Background()
	svc := newRuleService()

	created, err := svc.Create(ctx, validRuleInput())
	require.NoError(t, err)
	assert.Equal(t, "rule-new", created.ID)
	assert.True(t, fixedNow.Equal(created.CreatedAt))
	assert.Nil(t, created.LastTriggered)
	assert.Zero(t, created.TriggerCount)
	assert.Equal(t, []string{"Rack ROOM-001-M07 airflow less than 90 CFM"}, created.ConditionTexts)
	assert.Equal(t, []string{"Slack: #dc-ops"}, created.ActionTexts)

	in := validRuleInput()
	in.Name = "Airflow drop (row 7)"
	updated, err := svc.Update(ctx, "1", in)
	require.NoError(t, err)
	assert.Equal(t, "Airflow drop (row 7)", updated.Name)
	assert.Equal(t, 5, updated.TriggerCount)
	require.NotNil(t, updated.LastTriggered)
	assert.Equal(t, 2025, updated.CreatedAt.Year())

	toggled, err := svc.Toggle(ctx, "1")
	require.NoError(t, err)
	assert.False(t, toggled.Enabled)
	toggled, err = svc.Toggle(ctx, "1")
	require.NoError(t, err)
	assert.True(t, toggled.Enabled)

	require.NoError(t, svc.Delete(ctx, "1"))
	_, err = svc.Get(ctx, "1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "1"), repository.ErrNotFound)
	_, err = svc.Toggle(ctx, "1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAlertRuleService_Validation(t *testing.T) {
	ctx := context.Background()
	svc := newRuleService()

	in := validRuleInput()
	in.Name = "  "
	_, err := svc.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrValidation)

	in = validRuleInput()
	in.Conditions = nil
	_, err = svc.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrValidation)

	in = validRuleInput()
	in.Conditions[0].TargetID = ""
	_, err = svc.Update(ctx, "2", in)
	assert.ErrorIs(t, err, domain.ErrValidation)

	in = validRuleInput()
	in.Actions[0].Type = "sms"
	_, err = svc.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDescribeCondition(t *testing.T) {
	assert.Equal(t, "Sensor ROOM-001-A01-INTAKE temperature equal to 25.5°C", DescribeCondition(domain.AlertCondition{
		Type: rack.MetricTemperature, Operator: domain.OpEqual, Value: 25.5, Target: domain.TargetSensor, TargetID: "ROOM-001-A01-INTAKE",
	}))
	assert.Equal(t, "Webhook: ", DescribeAction(domain.AlertAction{Type: domain.ActionWebhook}))
}

func newHistoryService() *alertHistoryService {
	svc := NewAlertHistoryService(repository.NewMemoryAlertHistoryRepo(repository.SeedAlertHistory()), zap.NewNop()).(*alertHistoryService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestAlertHistoryService_ListAndCount(t *testing.T) {
	ctx := context.Background()
	svc := newHistoryService()

	all, err := svc.List(ctx, repository.AlertHistoryFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.Equal(t, "ah-1", all[0].ID)

	n, err := svc.ActiveCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = svc.List(ctx, repository.AlertHistoryFilters{Status: "open"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.List(ctx, repository.AlertHistoryFilters{Severity: "urgent"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAlertHistoryService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newHistoryService()

	h, err := svc.Acknowledge(ctx, "ah-1", "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAcknowledged, h.Status)
	require.NotNil(t, h.AcknowledgedAt)
	assert.True(t, fixedNow.Equal(*h.AcknowledgedAt))
	assert.Equal(t, "admin@example.com", *h.AcknowledgedBy)

	_, err = svc.Acknowledge(ctx, "ah-1", "admin@example.com")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	h, err = svc.Resolve(ctx, "ah-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusResolved, h.Status)
	require.NotNil(t, h.ResolvedAt)

	_, err = svc.Resolve(ctx, "ah-1")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// active alerts can be resolved without acknowledging first
	h, err = svc.Resolve(ctx, "ah-4")
	require.NoError(t, err)
	assert.Nil(t, h.AcknowledgedAt)

	n, err := svc.ActiveCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = svc.Acknowledge(ctx, "ah-2", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.Resolve(ctx, "ah-404")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// interleavedHistoryRepo lets another writer resolve the alert right after
// the service has read it.
type interleavedHistoryRepo struct {
	*repository.MemoryAlertHistoryRepo
}

func (r interleavedHistoryRepo) GetHistory(ctx context.Context, id string) (*domain.AlertHistory, error) {
	h, err := r.MemoryAlertHistoryRepo.GetHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	other := *h
	other.Status = domain.StatusResolved
	if err := r.MemoryAlertHistoryRepo.UpdateHistory(ctx, &other, h.Status); err != nil {
		return nil, err
	}
	return h, nil
}

func TestAlertHistoryService_LostRaceIsInvalidTransition(t *testing.T) {
	ctx := context.Background()
	repo := interleavedHistoryRepo{repository.NewMemoryAlertHistoryRepo(repository.SeedAlertHistory())}
	svc := NewAlertHistoryService(repo, zap.NewNop())

	_, err := svc.Resolve(ctx, "ah-1")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.Acknowledge(ctx, "ah-4", "ops@example.com")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAlertHistoryService_ConcurrentResolveSucceedsOnce(t *testing.T) {
	ctx := context.Background()
	svc := newHistoryService()

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Resolve(ctx, "ah-1")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrInvalidTransition):
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, rejected)

	h, err := svc.repo.GetHistory(ctx, "ah-1")
	require.NoError(t, err)
	require.NotNil(t, h.ResolvedAt)
	assert.True(t, fixedNow.Equal(*h.ResolvedAt))
}
