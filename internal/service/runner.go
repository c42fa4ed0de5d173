package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"dcmonitor/internal/domain"
	"dcmonitor/internal/metrics"
	"dcmonitor/internal/publish"
	"dcmonitor/internal/simulation"

	"go.uber.org/zap"
)

// SnapshotSink write side of the latest sensor snapshot
type SnapshotSink interface {
	Save(ctx context.Context, snap domain.SensorSnapshot) error
}

// HistoryRecorder write side of the per-sensor reading history
type HistoryRecorder interface {
	Record(ctx context.Context, snap domain.SensorSnapshot) error
}

// Runner owns the simulated readings: the first Step generates them, every
// later Step applies one tick of drift. Run drives Step on a ticker.
type Runner struct {
	gen        *simulation.Generator
	racks      []domain.Rack
	sink       SnapshotSink
	publishers []publish.Publisher
	metrics    *metrics.Metrics
	interval   time.Duration
	logger     *zap.Logger
	now        func() time.Time

	history      HistoryRecorder
	historyEvery time.Duration

	mu         sync.Mutex
	current    []domain.Sensor
	lastSample time.Time
}

func NewRunner(
	gen *simulation.Generator,
	racks []domain.Rack,
	sink SnapshotSink,
	publishers []publish.Publisher,
	m *metrics.Metrics,
	interval time.Duration,
	logger *zap.Logger,
) *Runner {
	return &Runner{
		gen:        gen,
		racks:      racks,
		sink:       sink,
		publishers: publishers,
		metrics:    m,
		interval:   interval,
		logger:     logger,
		now:        time.Now,
	}
}

// RecordHistory samples stored snapshots into rec, at most once per every.
// Call before Run.
func (r *Runner) RecordHistory(rec HistoryRecorder, every time.Duration) {
	r.history = rec
	r.historyEvery = every
}

// Step advances the simulation once, stores the snapshot and publishes it.
// History and publish failures are logged; only a failed store is returned.
func (r *Runner) Step(ctx context.Context) (domain.SensorSnapshot, error) {
	start := time.Now()

	r.mu.Lock()
	if r.current == nil {
		r.current = r.gen.GenerateSensors(r.racks)
	} else {
		r.current = r.gen.Tick(r.current)
	}
	snap := domain.SensorSnapshot{Timestamp: r.now().UTC(), Sensors: r.current}
	sample := r.history != nil &&
		(r.lastSample.IsZero() || !snap.Timestamp.Before(r.lastSample.Add(r.historyEvery)))
	if sample {
		r.lastSample = snap.Timestamp
	}
	r.mu.Unlock()

	if err := r.sink.Save(ctx, snap); err != nil {
		return snap, fmt.Errorf("store snapshot: %w", err)
	}
	if sample {
		if err := r.history.Record(ctx, snap); err != nil {
			r.logger.Warn("Failed to record sensor history",
				zap.Int("sensors", len(snap.Sensors)),
				zap.Error(err),
			)
		}
	}
	for _, p := range r.publishers {
		if err := p.Publish(ctx, snap); err != nil {
			r.metrics.PublishError(p.Name())
			r.logger.Warn("Failed to publish snapshot",
				zap.String("publisher", p.Name()),
				zap.Int("sensors", len(snap.Sensors)),
				zap.Error(err),
			)
		}
	}
	r.metrics.SimulationTick(time.Since(start), len(snap.Sensors))
	return snap, nil
}

// Run steps once immediately, then every interval until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	r.logger.Info("Simulation started",
		zap.Duration("interval", r.interval),
		zap.Int("racks", len(r.racks)),
		zap.Int("publishers", len(r.publishers)),
	)
	r.step(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Simulation stopped")
			return
		case <-ticker.C:
			r.step(ctx)
		}
	}
}

func (r *Runner) step(ctx context.Context) {
	snap, err := r.Step(ctx)
	if err != nil {
		r.logger.Error("Simulation step failed", zap.Error(err))
		return
	}
	r.logger.Debug("Simulation tick", zap.Int("sensors", len(snap.Sensors)))
}

// Close closes every publisher.
func (r *Runner) Close() {
	for _, p := range r.publishers {
		if err := p.Close(); err != nil {
			r.logger.Warn("Failed to close publisher", zap.String("publisher", p.Name()), zap.Error(err))
		}
	}
}
