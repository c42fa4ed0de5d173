package store

import (
	"context"
	"testing"
	"time"

	"dcmonitor/internal/domain"
	"dcmonitor/internal/rack"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisKV) {
	mr := miniredis.RunT(t)
	c := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { c.Close() })
	return mr, NewRedisKV(c)
}

func TestRedisKV_GetSetScan(t *testing.T) {
	mr, kv := setupTestRedis(t)
	ctx := context.Background()

	_, err := kv.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, kv.Set(ctx, "a:1", "one", time.Minute))
	require.NoError(t, kv.Set(ctx, "a:2", "two", 0))
	require.NoError(t, kv.Set(ctx, "b:1", "other", 0))

	v, err := kv.Get(ctx, "a:1")
	require.NoError(t, err)
	assert.Equal(t, "one", v)

	keys, err := kv.ScanKeys(ctx, "a:*")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a:1", "a:2"}, keys)

	mr.FastForward(2 * time.Minute)
	_, err = kv.Get(ctx, "a:1")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryKV_Expiry(t *testing.T) {
	kv := NewMemoryKV()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	kv.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", "v", time.Second))
	require.NoError(t, kv.Set(ctx, "forever", "v", 0))

	v, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	now = now.Add(time.Second)
	_, err = kv.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)

	keys, err := kv.ScanKeys(ctx, "*")
	require.NoError(t, err)
	assert.Equal(t, []string{"forever"}, keys)
}

func sampleSnapshot(ts time.Time) domain.SensorSnapshot {
	return domain.SensorSnapshot{
		Timestamp: ts,
		Sensors: []domain.Sensor{
			{SensorID: "ROOM-001-A01-INTAKE", RackID: "ROOM-001-A01", RoomID: "ROOM-001", DCID: "DC-001", Position: rack.PositionIntake, Temperature: 24.1, Humidity: 45, Airflow: 130},
			{SensorID: "ROOM-001-A01-EXHAUST", RackID: "ROOM-001-A01", RoomID: "ROOM-001", DCID: "DC-001", Position: rack.PositionExhaust, Temperature: 28.4, Humidity: 43, Airflow: 110},
			{SensorID: "ROOM-006-A01-INTAKE", RackID: "ROOM-006-A01", RoomID: "ROOM-006", DCID: "DC-002", Position: rack.PositionIntake, Temperature: 23.0, Humidity: 47, Airflow: 125},
		},
	}
}

func TestSnapshotStore_RoundTripPerRoom(t *testing.T) {
	_, redisKV := setupTestRedis(t)
	for name, kv := range map[string]KV{"memory": NewMemoryKV(), "redis": redisKV} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := NewSnapshotStore(kv, time.Minute)
			ts := time.Date(2025, 1, 22, 10, 30, 0, 0, time.UTC)

			_, err := s.Load(ctx, "ROOM-001")
			assert.ErrorIs(t, err, ErrMiss)
			_, err = s.LoadAll(ctx)
			assert.ErrorIs(t, err, ErrMiss)

			require.NoError(t, s.Save(ctx, sampleSnapshot(ts)))

			room, err := s.Load(ctx, "ROOM-001")
			require.NoError(t, err)
			assert.Len(t, room.Sensors, 2)
			assert.True(t, ts.Equal(room.Timestamp))

			all, err := s.LoadAll(ctx)
			require.NoError(t, err)
			require.Len(t, all.Sensors, 3)
			assert.Equal(t, "ROOM-001", all.Sensors[0].RoomID)
			assert.Equal(t, "ROOM-006", all.Sensors[2].RoomID)
		})
	}
}

func TestListKV_PushCappedAndRange(t *testing.T) {
	_, redisKV := setupTestRedis(t)
	for name, kv := range map[string]ListKV{"memory": NewMemoryKV(), "redis": redisKV} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			empty, err := kv.Range(ctx, "missing")
			require.NoError(t, err)
			assert.Empty(t, empty)

			for _, v := range []string{"1", "2", "3", "4"} {
				require.NoError(t, kv.PushCapped(ctx, map[string]string{"l:a": v, "l:b": "b" + v}, 3, 0))
			}
			a, err := kv.Range(ctx, "l:a")
			require.NoError(t, err)
			assert.Equal(t, []string{"4", "3", "2"}, a)

			b, err := kv.Range(ctx, "l:b")
			require.NoError(t, err)
			assert.Equal(t, []string{"b4", "b3", "b2"}, b)
		})
	}
}

func TestListKV_Expiry(t *testing.T) {
	ctx := context.Background()

	mr, redisKV := setupTestRedis(t)
	require.NoError(t, redisKV.PushCapped(ctx, map[string]string{"l": "x"}, 5, time.Minute))
	mr.FastForward(2 * time.Minute)
	got, err := redisKV.Range(ctx, "l")
	require.NoError(t, err)
	assert.Empty(t, got)

	mem := NewMemoryKV()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mem.now = func() time.Time { return now }
	require.NoError(t, mem.PushCapped(ctx, map[string]string{"l": "old"}, 5, time.Minute))
	now = now.Add(time.Minute)
	got, err = mem.Range(ctx, "l")
	require.NoError(t, err)
	assert.Empty(t, got)

	// an expired list restarts instead of keeping stale entries
	require.NoError(t, mem.PushCapped(ctx, map[string]string{"l": "new"}, 5, time.Minute))
	got, err = mem.Range(ctx, "l")
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, got)
}

func TestHistoryStore_BoundedOldestFirst(t *testing.T) {
	_, redisKV := setupTestRedis(t)
	for name, kv := range map[string]ListKV{"memory": NewMemoryKV(), "redis": redisKV} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			h := NewHistoryStore(kv, 3, 0)
			assert.Equal(t, 3, h.Points())

			none, err := h.Load(ctx, "ROOM-001-A01-INTAKE")
			require.NoError(t, err)
			assert.Empty(t, none)

			start := time.Date(2025, 1, 22, 10, 0, 0, 0, time.UTC)
			for i := 0; i < 5; i++ {
				snap := sampleSnapshot(start.Add(time.Duration(i) * time.Minute))
				snap.Sensors[0].Temperature = 20 + float64(i)
				require.NoError(t, h.Record(ctx, snap))
			}

			got, err := h.Load(ctx, "ROOM-001-A01-INTAKE")
			require.NoError(t, err)
			require.Len(t, got, 3)
			assert.True(t, start.Add(2*time.Minute).Equal(got[0].Timestamp))
			assert.True(t, start.Add(4*time.Minute).Equal(got[2].Timestamp))
			assert.Equal(t, 22.0, got[0].Temperature)
			assert.Equal(t, 24.0, got[2].Temperature)
			assert.Equal(t, 45.0, got[2].Humidity)

			other, err := h.Load(ctx, "ROOM-006-A01-INTAKE")
			require.NoError(t, err)
			assert.Len(t, other, 3)

			require.NoError(t, h.Record(ctx, domain.SensorSnapshot{Timestamp: start}))
		})
	}
}
