package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"dcmonitor/internal/catalog"
	"dcmonitor/internal/domain"
	"dcmonitor/internal/rack"
	"dcmonitor/internal/repository"
	"dcmonitor/internal/store"
)

// SnapshotSource read side of the latest sensor snapshot
type SnapshotSource interface {
	Load(ctx context.Context, roomID string) (*domain.SensorSnapshot, error)
	LoadAll(ctx context.Context) (*domain.SensorSnapshot, error)
}

// SensorFilter query over current readings; empty fields match everything
type SensorFilter struct {
	DCID     string
	RoomID   string
	Column   string // A..Q
	Position rack.Position
	Search   string // substring of sensor_id or rack_id, case-insensitive
}

// MetricCard one dashboard summary tile
type MetricCard struct {
	Title string  `json:"title"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// SensorSummary aggregate readings of a room (or every room)
type SensorSummary struct {
	RoomID                string       `json:"room_id,omitempty"`
	Timestamp             string       `json:"timestamp"`
	SensorCount           int          `json:"sensor_count"`
	AvgTemperature        float64      `json:"avg_temperature"`
	AvgHumidity           float64      `json:"avg_humidity"`
	AvgAirflow            float64      `json:"avg_airflow"`
	MaxExhaustTemperature float64      `json:"max_exhaust_temperature"`
	Cards                 []MetricCard `json:"cards"`
}

// RackDetail one rack with both of its sensors
type RackDetail struct {
	Rack             domain.Rack    `json:"rack"`
	Placement        rack.Placement `json:"placement"`
	Intake           *domain.Sensor `json:"intake"`
	Exhaust          *domain.Sensor `json:"exhaust"`
	TemperatureDelta float64        `json:"temperature_delta"` // exhaust - intake
}

type SensorService interface {
	// Current snapshot of one room; every room when roomID is empty
	Current(ctx context.Context, roomID string) (*domain.SensorSnapshot, error)
	Query(ctx context.Context, filter SensorFilter) ([]domain.Sensor, error)
	Summary(ctx context.Context, roomID string) (*SensorSummary, error)
	RackDetail(ctx context.Context, rackID string) (*RackDetail, error)
}

type sensorService struct {
	source   SnapshotSource
	facility FacilityService
}

func NewSensorService(source SnapshotSource, facility FacilityService) SensorService {
	return &sensorService{source: source, facility: facility}
}

func (s *sensorService) Current(ctx context.Context, roomID string) (*domain.SensorSnapshot, error) {
	var (
		snap *domain.SensorSnapshot
		err  error
	)
	if roomID == "" {
		snap, err = s.source.LoadAll(ctx)
	} else {
		if _, ok := catalog.Room(roomID); !ok {
			return nil, fmt.Errorf("room %s: %w", roomID, repository.ErrNotFound)
		}
		snap, err = s.source.Load(ctx, roomID)
	}
	if errors.Is(err, store.ErrMiss) {
		// simulation has not stored its first tick yet
		return &domain.SensorSnapshot{Sensors: []domain.Sensor{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return snap, nil
}

func (f SensorFilter) validate() error {
	if f.Column != "" {
		if _, err := rack.ColumnIndex(f.Column); err != nil {
			return err
		}
	}
	switch f.Position {
	case "", rack.PositionIntake, rack.PositionExhaust:
	default:
		return fmt.Errorf("%w: unknown position %q", domain.ErrValidation, f.Position)
	}
	return nil
}

func (s *sensorService) Query(ctx context.Context, filter SensorFilter) ([]domain.Sensor, error) {
	if err := filter.validate(); err != nil {
		return nil, err
	}
	snap, err := s.Current(ctx, filter.RoomID)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(filter.Search))

	out := []domain.Sensor{}
	for _, sensor := range snap.Sensors {
		if filter.DCID != "" && sensor.DCID != filter.DCID {
			continue
		}
		if filter.Position != "" && sensor.Position != filter.Position {
			continue
		}
		if filter.Column != "" {
			r, err := s.facility.Rack(ctx, sensor.RackID)
			if err != nil || r.ColumnLabel != filter.Column {
				continue
			}
		}
		if q != "" && !strings.Contains(strings.ToLower(sensor.SensorID), q) &&
			!strings.Contains(strings.ToLower(sensor.RackID), q) {
			continue
		}
		out = append(out, sensor)
	}
	return out, nil
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func (s *sensorService) Summary(ctx context.Context, roomID string) (*SensorSummary, error) {
	snap, err := s.Current(ctx, roomID)
	if err != nil {
		return nil, err
	}

	sum := &SensorSummary{RoomID: roomID, SensorCount: len(snap.Sensors)}
	if !snap.Timestamp.IsZero() {
		sum.Timestamp = snap.Timestamp.UTC().Format(time.RFC3339)
	}
	if n := float64(len(snap.Sensors)); n > 0 {
		var temp, hum, air float64
		maxExhaust := math.Inf(-1)
		for _, sensor := range snap.Sensors {
			temp += sensor.Temperature
			hum += sensor.Humidity
			air += sensor.Airflow
			if sensor.Position == rack.PositionExhaust && sensor.Temperature > maxExhaust {
				maxExhaust = sensor.Temperature
			}
		}
		sum.AvgTemperature = round1(temp / n)
		sum.AvgHumidity = round1(hum / n)
		sum.AvgAirflow = round1(air / n)
		if !math.IsInf(maxExhaust, -1) {
			sum.MaxExhaustTemperature = maxExhaust
		}
	}
	sum.Cards = []MetricCard{
		{Title: "Average temperature", Value: sum.AvgTemperature, Unit: rack.MetricTemperature.Unit()},
		{Title: "Average humidity", Value: sum.AvgHumidity, Unit: rack.MetricHumidity.Unit()},
		{Title: "Average airflow", Value: sum.AvgAirflow, Unit: rack.MetricAirflow.Unit()},
		{Title: "Max exhaust temperature", Value: sum.MaxExhaustTemperature, Unit: rack.MetricTemperature.Unit()},
	}
	return sum, nil
}

func (s *sensorService) RackDetail(ctx context.Context, rackID string) (*RackDetail, error) {
	r, err := s.facility.Rack(ctx, rackID)
	if err != nil {
		return nil, err
	}
	placement, err := rack.ResolvePositions(r.ColumnLabel)
	if err != nil {
		return nil, fmt.Errorf("rack %s: %w", rackID, err)
	}
	snap, err := s.Current(ctx, r.RoomID)
	if err != nil {
		return nil, err
	}

	detail := &RackDetail{Rack: *r, Placement: placement}
	for i := range snap.Sensors {
		sensor := snap.Sensors[i]
		if sensor.RackID != rackID {
			continue
		}
		if sensor.Position == rack.PositionIntake {
			detail.Intake = &sensor
		} else {
			detail.Exhaust = &sensor
		}
	}
	if detail.Intake != nil && detail.Exhaust != nil {
		detail.TemperatureDelta = round1(detail.Exhaust.Temperature - detail.Intake.Temperature)
	}
	return detail, nil
}
