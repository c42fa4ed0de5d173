package service

import (
	"context"
	"fmt"
	"time"

	"dcmonitor/internal/rack"
)

// DefaultRoomID room shown when a heatmap request names none
const DefaultRoomID = "ROOM-001"

// HeatmapCell values and colors of one rack; front is the intake sensor,
// back the exhaust sensor. Missing sensors read as 0.
type HeatmapCell struct {
	RackID      string      `json:"rack_id"`
	Row         int         `json:"row"`
	Col         int         `json:"col"`
	ColumnLabel string      `json:"column_label"`
	FrontValue  float64     `json:"front_value"`
	BackValue   float64     `json:"back_value"`
	AvgValue    float64     `json:"avg_value"`
	FrontColor  rack.Bucket `json:"front_color"`
	BackColor   rack.Bucket `json:"back_color"`
	AvgColor    rack.Bucket `json:"avg_color"`
	IntakeSide  rack.Side   `json:"intake_side"`
	ExhaustSide rack.Side   `json:"exhaust_side"`
}

// HeatmapScale legend for the requested metric
type HeatmapScale struct {
	Min    float64       `json:"min"`
	Max    float64       `json:"max"`
	Unit   string        `json:"unit"`
	Colors []rack.Bucket `json:"colors"`
}

type HeatmapResponse struct {
	Type      rack.MetricType `json:"type"`
	RoomID    string          `json:"room_id"`
	Timestamp time.Time       `json:"timestamp"`
	Scale     HeatmapScale    `json:"scale"`
	Data      []HeatmapCell   `json:"data"`
}

type HeatmapService interface {
	Build(ctx context.Context, roomID string, metric rack.MetricType) (*HeatmapResponse, error)
}

type heatmapService struct {
	sensors  SensorService
	facility FacilityService
}

func NewHeatmapService(sensors SensorService, facility FacilityService) HeatmapService {
	return &heatmapService{sensors: sensors, facility: facility}
}

type faceValues struct {
	front, back float64
}

func (s *heatmapService) Build(ctx context.Context, roomID string, metric rack.MetricType) (*HeatmapResponse, error) {
	if roomID == "" {
		roomID = DefaultRoomID
	}
	if metric == "" {
		metric = rack.MetricTemperature
	}
	scale, err := rack.ScaleFor(metric)
	if err != nil {
		return nil, err
	}
	racks, err := s.facility.Racks(ctx, roomID)
	if err != nil {
		return nil, err
	}
	snap, err := s.sensors.Current(ctx, roomID)
	if err != nil {
		return nil, err
	}

	values := make(map[string]faceValues, len(racks))
	for _, sensor := range snap.Sensors {
		v, err := sensor.Value(metric)
		if err != nil {
			return nil, err
		}
		fv := values[sensor.RackID]
		if sensor.Position == rack.PositionIntake {
			fv.front = v
		} else {
			fv.back = v
		}
		values[sensor.RackID] = fv
	}

	resp := &HeatmapResponse{
		Type:      metric,
		RoomID:    roomID,
		Timestamp: snap.Timestamp,
		Scale: HeatmapScale{
			Min:    scale.Min,
			Max:    scale.Max,
			Unit:   metric.Unit(),
			Colors: scale.Colors[:],
		},
		Data: make([]HeatmapCell, 0, len(racks)),
	}
	for _, r := range racks {
		placement, err := rack.ResolvePositions(r.ColumnLabel)
		if err != nil {
			return nil, fmt.Errorf("rack %s: %w", r.RackID, err)
		}
		fv := values[r.RackID]
		cell := HeatmapCell{
			RackID:      r.RackID,
			Row:         r.Row,
			Col:         r.Col,
			ColumnLabel: r.ColumnLabel,
			FrontValue:  fv.front,
			BackValue:   fv.back,
			AvgValue:    (fv.front + fv.back) / 2,
			IntakeSide:  placement.Intake,
			ExhaustSide: placement.Exhaust,
		}
		if cell.FrontColor, err = rack.ColorFor(cell.FrontValue, metric); err != nil {
			return nil, err
		}
		if cell.BackColor, err = rack.ColorFor(cell.BackValue, metric); err != nil {
			return nil, err
		}
		if cell.AvgColor, err = rack.ColorFor(cell.AvgValue, metric); err != nil {
			return nil, err
		}
		resp.Data = append(resp.Data, cell)
	}
	return resp, nil
}
