package simulation

import (
	"math"
	"math/rand"

	"dcmonitor/internal/domain"
	"dcmonitor/internal/rack"
)

const (
	baseTemperature = 23.0
	baseHumidity    = 45.0
	baseAirflow     = 120.0

	minHumidity = 30.0
	maxHumidity = 70.0
	minAirflow  = 80.0
)

// Generator produces and jitters mock readings from an injected source.
// Not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator uses seed for a reproducible sequence.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }

// centered returns a uniform value in [-width/2, width/2).
func (g *Generator) centered(width float64) float64 {
	return (g.rng.Float64() - 0.5) * width
}

func (g *Generator) temperature(pos rack.Position, row, col int) float64 {
	positionOffset := 0.0
	if pos == rack.PositionExhaust {
		positionOffset = g.rng.Float64()*2 + 3
	}
	// racks near the middle of the room run warmer
	centerDistance := math.Hypot(float64(row-5), float64(col-9))
	centerOffset := math.Max(0, 5-centerDistance*0.3)
	return round1(baseTemperature + positionOffset + centerOffset + g.centered(2))
}

func (g *Generator) humidity(temperature float64) float64 {
	tempOffset := (temperature - 25) * -0.5
	return round1(clamp(baseHumidity+tempOffset+g.centered(5), minHumidity, maxHumidity))
}

func (g *Generator) airflow(pos rack.Position, temperature float64) float64 {
	positionOffset := 0.0
	if pos == rack.PositionIntake {
		positionOffset = g.rng.Float64()*20 + 10
	}
	tempOffset := (temperature - 25) * 2
	return round1(math.Max(minAirflow, baseAirflow+positionOffset+tempOffset+g.centered(20)))
}

func (g *Generator) sensor(r domain.Rack, pos rack.Position) domain.Sensor {
	t := g.temperature(pos, r.Row, r.Col)
	return domain.Sensor{
		SensorID:    domain.SensorID(r.RackID, pos),
		RackID:      r.RackID,
		RoomID:      r.RoomID,
		DCID:        r.DCID,
		Position:    pos,
		Temperature: t,
		Humidity:    g.humidity(t),
		Airflow:     g.airflow(pos, t),
	}
}

// GenerateSensors creates the intake and exhaust sensor of every rack.
func (g *Generator) GenerateSensors(racks []domain.Rack) []domain.Sensor {
	sensors := make([]domain.Sensor, 0, len(racks)*2)
	for _, r := range racks {
		sensors = append(sensors, g.sensor(r, rack.PositionIntake), g.sensor(r, rack.PositionExhaust))
	}
	return sensors
}

// Tick returns a new collection with small random drift applied to every
// reading. The input slice is left untouched.
func (g *Generator) Tick(current []domain.Sensor) []domain.Sensor {
	next := make([]domain.Sensor, len(current))
	for i, s := range current {
		s.Temperature = round1(s.Temperature + g.centered(0.5))
		s.Humidity = round1(clamp(s.Humidity+g.centered(1), minHumidity, maxHumidity))
		s.Airflow = round1(math.Max(minAirflow, s.Airflow+g.centered(5)))
		next[i] = s
	}
	return next
}
