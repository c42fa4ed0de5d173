package service

import (
	"context"
	"testing"

	"dcmonitor/internal/domain"
	"dcmonitor/internal/rack"
	"dcmonitor/internal/repository"
	"dcmonitor/internal/simulation"
	"dcmonitor/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacilityService(t *testing.T) {
	ctx := context.Background()
	f := NewFacilityService()

	assert.Len(t, f.DataCenters(ctx), 2)

	rooms, err := f.Rooms(ctx, "DC-002")
	require.NoError(t, err)
	assert.Len(t, rooms, 4)

	_, err = f.Rooms(ctx, "DC-404")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	racks, err := f.Racks(ctx, "ROOM-003")
	require.NoError(t, err)
	assert.Len(t, racks, 170)

	r, err := f.Rack(ctx, "ROOM-003-Q10")
	require.NoError(t, err)
	assert.Equal(t, "Q", r.ColumnLabel)
	assert.Equal(t, 10, r.Row)

	_, err = f.Rack(ctx, "ROOM-003-R01")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = f.Racks(ctx, "ROOM-404")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.Len(t, f.AllRacks(ctx), 9*170)

	// per-room racks keep the generated layout order
	dc2, err := f.Racks(ctx, "ROOM-006")
	require.NoError(t, err)
	assert.Equal(t, simulation.GenerateRackLayout("ROOM-006", "DC-002"), dc2)
}

func TestSensorService_Current(t *testing.T) {
	ctx := context.Background()
	snaps, ts := fixedSnapshot(t)
	svc := NewSensorService(snaps, NewFacilityService())

	room, err := svc.Current(ctx, "ROOM-001")
	require.NoError(t, err)
	assert.Len(t, room.Sensors, 4)
	assert.True(t, ts.Equal(room.Timestamp))

	all, err := svc.Current(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all.Sensors, 5)

	_, err = svc.Current(ctx, "ROOM-404")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// room known but nothing stored yet
	empty, err := svc.Current(ctx, "ROOM-002")
	require.NoError(t, err)
	assert.Empty(t, empty.Sensors)
}

func TestSensorService_Current_NoDataYet(t *testing.T) {
	svc := NewSensorService(store.NewSnapshotStore(store.NewMemoryKV(), 0), NewFacilityService())
	snap, err := svc.Current(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, snap.Sensors)
	assert.Empty(t, snap.Sensors)
}

func TestSensorService_Query(t *testing.T) {
	ctx := context.Background()
	snaps, _ := fixedSnapshot(t)
	svc := NewSensorService(snaps, NewFacilityService())

	cases := []struct {
		name   string
		filter SensorFilter
		want   int
	}{
		{"all", SensorFilter{}, 5},
		{"dc", SensorFilter{DCID: "DC-002"}, 1},
		{"room", SensorFilter{RoomID: "ROOM-001"}, 4},
		{"column", SensorFilter{Column: "B"}, 2},
		{"position", SensorFilter{Position: rack.PositionExhaust}, 2},
		{"search sensor id", SensorFilter{Search: "a01-intake"}, 1},
		{"search rack id", SensorFilter{Search: "ROOM-006"}, 1},
		{"combined", SensorFilter{RoomID: "ROOM-001", Column: "A", Position: rack.PositionIntake}, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := svc.Query(ctx, c.filter)
			require.NoError(t, err)
			assert.Len(t, got, c.want)
		})
	}

	_, err := svc.Query(ctx, SensorFilter{Column: "Z"})
	assert.ErrorIs(t, err, rack.ErrInvalidColumn)
	_, err = svc.Query(ctx, SensorFilter{Position: "top"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSensorService_Summary(t *testing.T) {
	snaps, _ := fixedSnapshot(t)
	svc := NewSensorService(snaps, NewFacilityService())

	sum, err := svc.Summary(context.Background(), "ROOM-001")
	require.NoError(t, err)
	assert.Equal(t, 4, sum.SensorCount)
	assert.Equal(t, 27.0, sum.AvgTemperature)
	assert.Equal(t, 45.5, sum.AvgHumidity)
	assert.Equal(t, 120.0, sum.AvgAirflow)
	assert.Equal(t, 33.0, sum.MaxExhaustTemperature)
	assert.Equal(t, "2025-01-22T10:30:00Z", sum.Timestamp)
	require.Len(t, sum.Cards, 4)
	assert.Equal(t, "°C", sum.Cards[0].Unit)

	empty, err := svc.Summary(context.Background(), "ROOM-002")
	require.NoError(t, err)
	assert.Zero(t, empty.SensorCount)
	assert.Zero(t, empty.MaxExhaustTemperature)
}

func TestSensorService_RackDetail(t *testing.T) {
	snaps, _ := fixedSnapshot(t)
	svc := NewSensorService(snaps, NewFacilityService())

	d, err := svc.RackDetail(context.Background(), "ROOM-001-A01")
	require.NoError(t, err)
	require.NotNil(t, d.Intake)
	require.NotNil(t, d.Exhaust)
	assert.Equal(t, 22.0, d.Intake.Temperature)
	assert.Equal(t, 33.0, d.Exhaust.Temperature)
	assert.Equal(t, 11.0, d.TemperatureDelta)
	assert.Equal(t, rack.Placement{Intake: rack.SideRight, Exhaust: rack.SideLeft}, d.Placement)

	b, err := svc.RackDetail(context.Background(), "ROOM-001-B01")
	require.NoError(t, err)
	assert.Equal(t, rack.SideLeft, b.Placement.Intake)

	missing, err := svc.RackDetail(context.Background(), "ROOM-001-C05")
	require.NoError(t, err)
	assert.Nil(t, missing.Intake)
	assert.Nil(t, missing.Exhaust)

	_, err = svc.RackDetail(context.Background(), "NOPE")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
