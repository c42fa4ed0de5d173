package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dcmonitor/internal/domain"
	"dcmonitor/internal/rack"
)

// MaxCompareSensors series limit of one comparison
const MaxCompareSensors = 10

// HistorySource read side of the per-sensor reading history
type HistorySource interface {
	Load(ctx context.Context, sensorID string) ([]domain.SensorReading, error)
}

// SensorInfo where a sensor is mounted
type SensorInfo struct {
	SensorID string        `json:"sensor_id"`
	RackID   string        `json:"rack_id"`
	RoomID   string        `json:"room_id"`
	DCID     string        `json:"dc_id"`
	Position rack.Position `json:"position"`
}

// SensorHistory kept readings of one sensor, oldest first
type SensorHistory struct {
	SensorInfo
	Readings []domain.SensorReading `json:"readings"`
}

// CompareRequest names sensors explicitly or selects every sensor at
// Position in Column of RoomID.
type CompareRequest struct {
	SensorIDs []string
	RoomID    string
	Column    string
	Position  rack.Position // default exhaust
	Metric    rack.MetricType
}

type SeriesPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

type SensorSeries struct {
	SensorInfo
	Points []SeriesPoint `json:"points"`
}

// SensorComparison one metric of several sensors over time
type SensorComparison struct {
	Metric rack.MetricType `json:"metric"`
	Unit   string          `json:"unit"`
	Series []SensorSeries  `json:"series"`
}

type SensorHistoryService interface {
	History(ctx context.Context, sensorID string) (*SensorHistory, error)
	Compare(ctx context.Context, req CompareRequest) (*SensorComparison, error)
}

type sensorHistoryService struct {
	history  HistorySource
	facility FacilityService
}

func NewSensorHistoryService(history HistorySource, facility FacilityService) SensorHistoryService {
	return &sensorHistoryService{history: history, facility: facility}
}

func (s *sensorHistoryService) sensorInfo(ctx context.Context, sensorID string) (SensorInfo, error) {
	rackID, pos, err := domain.ParseSensorID(sensorID)
	if err != nil {
		return SensorInfo{}, err
	}
	r, err := s.facility.Rack(ctx, rackID)
	if err != nil {
		return SensorInfo{}, fmt.Errorf("sensor %s: %w", sensorID, err)
	}
	return SensorInfo{SensorID: sensorID, RackID: r.RackID, RoomID: r.RoomID, DCID: r.DCID, Position: pos}, nil
}

func (s *sensorHistoryService) History(ctx context.Context, sensorID string) (*SensorHistory, error) {
	info, err := s.sensorInfo(ctx, sensorID)
	if err != nil {
		return nil, err
	}
	readings, err := s.history.Load(ctx, sensorID)
	if err != nil {
		return nil, err
	}
	return &SensorHistory{SensorInfo: info, Readings: readings}, nil
}

// columnSensors ids of the sensors at pos in one column, front row first.
func (s *sensorHistoryService) columnSensors(ctx context.Context, roomID, column string, pos rack.Position) ([]string, error) {
	if _, err := rack.ColumnIndex(column); err != nil {
		return nil, err
	}
	racks, err := s.facility.Racks(ctx, roomID)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, r := range racks {
		if r.ColumnLabel == column {
			ids = append(ids, domain.SensorID(r.RackID, pos))
		}
	}
	return ids, nil
}

func (s *sensorHistoryService) Compare(ctx context.Context, req CompareRequest) (*SensorComparison, error) {
	metric := req.Metric
	if metric == "" {
		metric = rack.MetricTemperature
	}
	if _, err := rack.ScaleFor(metric); err != nil {
		return nil, err
	}

	var ids []string
	switch {
	case len(req.SensorIDs) > 0 && req.Column != "":
		return nil, fmt.Errorf("%w: give either sensor ids or a column", domain.ErrValidation)
	case len(req.SensorIDs) > 0:
		seen := map[string]bool{}
		for _, id := range req.SensorIDs {
			id = strings.TrimSpace(id)
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
		if len(ids) > MaxCompareSensors {
			return nil, fmt.Errorf("%w: at most %d sensors can be compared", domain.ErrValidation, MaxCompareSensors)
		}
	case req.Column != "":
		pos := req.Position
		switch pos {
		case "":
			pos = rack.PositionExhaust
		case rack.PositionIntake, rack.PositionExhaust:
		default:
			return nil, fmt.Errorf("%w: unknown position %q", domain.ErrValidation, pos)
		}
		roomID := req.RoomID
		if roomID == "" {
			roomID = DefaultRoomID
		}
		col, err := s.columnSensors(ctx, roomID, req.Column, pos)
		if err != nil {
			return nil, err
		}
		if len(col) > MaxCompareSensors {
			col = col[:MaxCompareSensors]
		}
		ids = col
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no sensors selected", domain.ErrValidation)
	}

	out := &SensorComparison{Metric: metric, Unit: metric.Unit(), Series: make([]SensorSeries, 0, len(ids))}
	for _, id := range ids {
		h, err := s.History(ctx, id)
		if err != nil {
			return nil, err
		}
		series := SensorSeries{SensorInfo: h.SensorInfo, Points: make([]SeriesPoint, 0, len(h.Readings))}
		for _, r := range h.Readings {
			v, err := r.Value(metric)
			if err != nil {
				return nil, err
			}
			series.Points = append(series.Points, SeriesPoint{Timestamp: r.Timestamp, Value: v})
		}
		out.Series = append(out.Series, series)
	}
	return out, nil
}
