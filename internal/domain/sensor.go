package domain

import (
	"fmt"
	"strings"
	"time"

	"dcmonitor/internal/rack"
)

// Sensor reading of one rack face; two per rack (intake + exhaust)
type Sensor struct {
	SensorID    string        `json:"sensor_id"`
	RackID      string        `json:"rack_id"`
	RoomID      string        `json:"room_id"`
	DCID        string        `json:"dc_id"`
	Position    rack.Position `json:"position"`
	Temperature float64       `json:"temperature"`
	Humidity    float64       `json:"humidity"`
	Airflow     float64       `json:"airflow"`
}

// Value returns the reading for metric.
func (s Sensor) Value(metric rack.MetricType) (float64, error) {
	switch metric {
	case rack.MetricTemperature:
		return s.Temperature, nil
	case rack.MetricHumidity:
		return s.Humidity, nil
	case rack.MetricAirflow:
		return s.Airflow, nil
	}
	return 0, fmt.Errorf("%w: %q", rack.ErrUnknownMetric, metric)
}

// SensorID builds "<rack_id>-INTAKE" / "<rack_id>-EXHAUST".
func SensorID(rackID string, pos rack.Position) string {
	if pos == rack.PositionIntake {
		return rackID + "-INTAKE"
	}
	return rackID + "-EXHAUST"
}

// ParseSensorID splits a sensor id built by SensorID into rack id and position.
func ParseSensorID(sensorID string) (string, rack.Position, error) {
	switch {
	case strings.HasSuffix(sensorID, "-INTAKE") && len(sensorID) > len("-INTAKE"):
		return strings.TrimSuffix(sensorID, "-INTAKE"), rack.PositionIntake, nil
	case strings.HasSuffix(sensorID, "-EXHAUST") && len(sensorID) > len("-EXHAUST"):
		return strings.TrimSuffix(sensorID, "-EXHAUST"), rack.PositionExhaust, nil
	}
	return "", "", fmt.Errorf("%w: malformed sensor id %q", ErrValidation, sensorID)
}

// SensorSnapshot all sensor readings at one instant
type SensorSnapshot struct {
	Timestamp time.Time `json:"timestamp"`
	Sensors   []Sensor  `json:"sensors"`
}

// SensorReading one historical sample of a sensor
type SensorReading struct {
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Airflow     float64   `json:"airflow"`
}

// Value returns the sample for metric.
func (r SensorReading) Value(metric rack.MetricType) (float64, error) {
	return Sensor{Temperature: r.Temperature, Humidity: r.Humidity, Airflow: r.Airflow}.Value(metric)
}
