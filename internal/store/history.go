package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dcmonitor/internal/domain"
)

const historyKeyPrefix = "dcmonitor:history:"

// HistoryStore bounded per-sensor reading history, one capped list per sensor
type HistoryStore struct {
	kv     ListKV
	points int
	ttl    time.Duration
}

// NewHistoryStore keeps at most points readings per sensor. A list that
// receives nothing for ttl expires (0 keeps it forever).
func NewHistoryStore(kv ListKV, points int, ttl time.Duration) *HistoryStore {
	if points < 1 {
		points = 1
	}
	return &HistoryStore{kv: kv, points: points, ttl: ttl}
}

func historyKey(sensorID string) string { return historyKeyPrefix + sensorID }

// Points capacity of every sensor list.
func (h *HistoryStore) Points() int { return h.points }

// Record appends the reading of every sensor in the snapshot.
func (h *HistoryStore) Record(ctx context.Context, snap domain.SensorSnapshot) error {
	if len(snap.Sensors) == 0 {
		return nil
	}
	entries := make(map[string]string, len(snap.Sensors))
	for _, s := range snap.Sensors {
		raw, err := json.Marshal(domain.SensorReading{
			Timestamp:   snap.Timestamp,
			Temperature: s.Temperature,
			Humidity:    s.Humidity,
			Airflow:     s.Airflow,
		})
		if err != nil {
			return fmt.Errorf("encode reading for %s: %w", s.SensorID, err)
		}
		entries[historyKey(s.SensorID)] = string(raw)
	}
	if err := h.kv.PushCapped(ctx, entries, h.points, h.ttl); err != nil {
		return fmt.Errorf("record history of %d sensors: %w", len(entries), err)
	}
	return nil
}

// Load returns the kept readings of one sensor, oldest first.
func (h *HistoryStore) Load(ctx context.Context, sensorID string) ([]domain.SensorReading, error) {
	raw, err := h.kv.Range(ctx, historyKey(sensorID))
	if err != nil {
		return nil, fmt.Errorf("load history of %s: %w", sensorID, err)
	}
	out := make([]domain.SensorReading, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		var r domain.SensorReading
		if err := json.Unmarshal([]byte(raw[i]), &r); err != nil {
			return nil, fmt.Errorf("decode history of %s: %w", sensorID, err)
		}
		out = append(out, r)
	}
	return out, nil
}
