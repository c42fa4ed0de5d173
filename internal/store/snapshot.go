package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"dcmonitor/internal/domain"
)

const snapshotKeyPrefix = "dcmonitor:snapshot:"

// SnapshotStore keeps the latest sensor snapshot, one key per room
type SnapshotStore struct {
	kv  KV
	ttl time.Duration
}

func NewSnapshotStore(kv KV, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{kv: kv, ttl: ttl}
}

func snapshotKey(roomID string) string { return snapshotKeyPrefix + roomID }

// Save splits the snapshot by room and overwrites each room key.
func (s *SnapshotStore) Save(ctx context.Context, snap domain.SensorSnapshot) error {
	byRoom := map[string][]domain.Sensor{}
	for _, sensor := range snap.Sensors {
		byRoom[sensor.RoomID] = append(byRoom[sensor.RoomID], sensor)
	}
	for roomID, sensors := range byRoom {
		raw, err := json.Marshal(domain.SensorSnapshot{Timestamp: snap.Timestamp, Sensors: sensors})
		if err != nil {
			return fmt.Errorf("encode snapshot for %s: %w", roomID, err)
		}
		if err := s.kv.Set(ctx, snapshotKey(roomID), string(raw), s.ttl); err != nil {
			return fmt.Errorf("save snapshot for %s: %w", roomID, err)
		}
	}
	return nil
}

// Load returns the latest snapshot of one room, ErrMiss when none is stored.
func (s *SnapshotStore) Load(ctx context.Context, roomID string) (*domain.SensorSnapshot, error) {
	raw, err := s.kv.Get(ctx, snapshotKey(roomID))
	if err != nil {
		return nil, err
	}
	var snap domain.SensorSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot for %s: %w", roomID, err)
	}
	return &snap, nil
}

// LoadAll merges every stored room in room id order. The merged timestamp is
// the oldest room timestamp.
func (s *SnapshotStore) LoadAll(ctx context.Context) (*domain.SensorSnapshot, error) {
	keys, err := s.kv.ScanKeys(ctx, snapshotKeyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan snapshot keys: %w", err)
	}
	if len(keys) == 0 {
		return nil, ErrMiss
	}
	sort.Strings(keys)

	out := &domain.SensorSnapshot{Sensors: []domain.Sensor{}}
	for _, k := range keys {
		snap, err := s.Load(ctx, strings.TrimPrefix(k, snapshotKeyPrefix))
		if errors.Is(err, ErrMiss) {
			// expired between scan and get
			continue
		}
		if err != nil {
			return nil, err
		}
		if out.Timestamp.IsZero() || snap.Timestamp.Before(out.Timestamp) {
			out.Timestamp = snap.Timestamp
		}
		out.Sensors = append(out.Sensors, snap.Sensors...)
	}
	if len(out.Sensors) == 0 {
		return nil, ErrMiss
	}
	return out, nil
}
