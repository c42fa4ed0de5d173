package service

import (
	"context"
	"testing"
	"time"

	"dcmonitor/internal/domain"
	"dcmonitor/internal/rack"
	"dcmonitor/internal/store"

	"github.com/stretchr/testify/require"
)

// fixedSnapshot stores two racks of ROOM-001 with known readings
func fixedSnapshot(t *testing.T) (*store.SnapshotStore, time.Time) {
	t.Helper()
	ts := time.Date(2025, 1, 22, 10, 30, 0, 0, time.UTC)
	snaps := store.NewSnapshotStore(store.NewMemoryKV(), 0)
	require.NoError(t, snaps.Save(context.Background(), domain.SensorSnapshot{
		Timestamp: ts,
		Sensors: []domain.Sensor{
			{SensorID: "ROOM-001-A01-INTAKE", RackID: "ROOM-001-A01", RoomID: "ROOM-001", DCID: "DC-001", Position: rack.PositionIntake, Temperature: 22, Humidity: 50, Airflow: 140},
			{SensorID: "ROOM-001-A01-EXHAUST", RackID: "ROOM-001-A01", RoomID: "ROOM-001", DCID: "DC-001", Position: rack.PositionExhaust, Temperature: 33, Humidity: 40, Airflow: 100},
			{SensorID: "ROOM-001-B01-INTAKE", RackID: "ROOM-001-B01", RoomID: "ROOM-001", DCID: "DC-001", Position: rack.PositionIntake, Temperature: 24, Humidity: 48, Airflow: 130},
			{SensorID: "ROOM-001-B01-EXHAUST", RackID: "ROOM-001-B01", RoomID: "ROOM-001", DCID: "DC-001", Position: rack.PositionExhaust, Temperature: 29, Humidity: 44, Airflow: 110},
			{SensorID: "ROOM-006-C02-INTAKE", RackID: "ROOM-006-C02", RoomID: "ROOM-006", DCID: "DC-002", Position: rack.PositionIntake, Temperature: 23, Humidity: 46, Airflow: 125},
		},
	}))
	return snaps, ts
}
