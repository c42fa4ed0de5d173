package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dcmonitor/internal/domain"
	"dcmonitor/internal/metrics"
	"dcmonitor/internal/publish"
	"dcmonitor/internal/simulation"
	"dcmonitor/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePublisher struct {
	mu     sync.Mutex
	snaps  []domain.SensorSnapshot
	err    error
	closed bool
}

func (f *fakePublisher) Name() string { return "fake" }

func (f *fakePublisher) Publish(_ context.Context, snap domain.SensorSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snaps = append(f.snaps, snap)
	return f.err
}

func (f *fakePublisher) Close() error { f.closed = true; return nil }

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.snaps)
}

type failingSink struct{}

func (failingSink) Save(context.Context, domain.SensorSnapshot) error { return errors.New("redis down") }

func (failingSink) Record(context.Context, domain.SensorSnapshot) error { return errors.New("redis down") }

func TestRunner_StepGeneratesThenTicks(t *testing.T) {
	ctx := context.Background()
	racks := simulation.GenerateRackLayout("ROOM-001", "DC-001")
	snaps := store.NewSnapshotStore(store.NewMemoryKV(), 0)
	pub := &fakePublisher{}
	r := NewRunner(simulation.NewGenerator(1), racks, snaps, []publish.Publisher{pub}, metrics.New(), time.Minute, zap.NewNop())

	first, err := r.Step(ctx)
	require.NoError(t, err)
	require.Len(t, first.Sensors, len(racks)*2)

	second, err := r.Step(ctx)
	require.NoError(t, err)
	require.Len(t, second.Sensors, len(first.Sensors))
	assert.Equal(t, first.Sensors[0].SensorID, second.Sensors[0].SensorID)
	assert.InDelta(t, first.Sensors[0].Temperature, second.Sensors[0].Temperature, 0.5)

	stored, err := snaps.Load(ctx, "ROOM-001")
	require.NoError(t, err)
	assert.Equal(t, second.Sensors, stored.Sensors)
	assert.Equal(t, 2, pub.count())

	r.Close()
	assert.True(t, pub.closed)
}

func TestRunner_PublishFailureIsNotFatal(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	r := NewRunner(simulation.NewGenerator(1), simulation.GenerateRackLayout("ROOM-002", "DC-001"),
		store.NewSnapshotStore(store.NewMemoryKV(), 0), []publish.Publisher{pub}, nil, time.Minute, zap.NewNop())

	_, err := r.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, pub.count())
}

func TestRunner_StoreFailure(t *testing.T) {
	pub := &fakePublisher{}
	r := NewRunner(simulation.NewGenerator(1), simulation.GenerateRackLayout("ROOM-002", "DC-001"),
		failingSink{}, []publish.Publisher{pub}, nil, time.Minute, zap.NewNop())

	_, err := r.Step(context.Background())
	assert.Error(t, err)
	assert.Zero(t, pub.count())
}

func TestRunner_RunUntilCancelled(t *testing.T) {
	pub := &fakePublisher{}
	r := NewRunner(simulation.NewGenerator(1), simulation.GenerateRackLayout("ROOM-003", "DC-001"),
		store.NewSnapshotStore(store.NewMemoryKV(), 0), []publish.Publisher{pub}, nil, 5*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return pub.count() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunner_SamplesHistoryAtInterval(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	history := store.NewHistoryStore(kv, 10, 0)
	r := NewRunner(simulation.NewGenerator(1), simulation.GenerateRackLayout("ROOM-001", "DC-001"),
		store.NewSnapshotStore(kv, 0), nil, nil, 5*time.Minute, zap.NewNop())
	r.RecordHistory(history, 10*time.Minute)

	now := time.Date(2025, 1, 22, 10, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }
	var snaps []domain.SensorSnapshot
	for i := 0; i < 5; i++ {
		snap, err := r.Step(ctx)
		require.NoError(t, err)
		snaps = append(snaps, snap)
		now = now.Add(5 * time.Minute)
	}

	// steps at 10:00 10:05 10:10 10:15 10:20 sample 10:00 10:10 10:20
	got, err := history.Load(ctx, "ROOM-001-A01-INTAKE")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, snaps[0].Timestamp.Equal(got[0].Timestamp))
	assert.True(t, snaps[2].Timestamp.Equal(got[1].Timestamp))
	assert.True(t, snaps[4].Timestamp.Equal(got[2].Timestamp))
	assert.Equal(t, snaps[4].Sensors[0].Temperature, got[2].Temperature)
}

func TestRunner_HistoryFailureIsNotFatal(t *testing.T) {
	pub := &fakePublisher{}
	r := NewRunner(simulation.NewGenerator(1), simulation.GenerateRackLayout("ROOM-002", "DC-001"),
		store.NewSnapshotStore(store.NewMemoryKV(), 0), []publish.Publisher{pub}, nil, time.Minute, zap.NewNop())
	r.RecordHistory(failingSink{}, time.Minute)

	_, err := r.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, pub.count())
}
