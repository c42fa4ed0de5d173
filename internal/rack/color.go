package rack

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrUnknownMetric metric type has no configured scale
	ErrUnknownMetric = errors.New("unknown metric type")
	// ErrInvalidValue value cannot be placed on a scale (NaN)
	ErrInvalidValue = errors.New("invalid metric value")
)

// MetricType measured quantity of a sensor
type MetricType string

const (
	MetricTemperature MetricType = "temperature"
	MetricHumidity    MetricType = "humidity"
	MetricAirflow     MetricType = "airflow"
)

// MetricTypes returns every supported metric in display order.
func MetricTypes() []MetricType {
	return []MetricType{MetricTemperature, MetricHumidity, MetricAirflow}
}

// ParseMetricType accepts a metric name case-insensitively.
func ParseMetricType(s string) (MetricType, error) {
	m := MetricType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := scales[m]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
	}
	return m, nil
}

// Unit display unit of the metric.
func (m MetricType) Unit() string {
	switch m {
	case MetricTemperature:
		return "°C"
	case MetricHumidity:
		return "%"
	case MetricAirflow:
		return "CFM"
	}
	return ""
}

// FormatValue renders a reading with its unit (airflow without decimals).
func FormatValue(value float64, m MetricType) string {
	switch m {
	case MetricTemperature:
		return fmt.Sprintf("%.1f°C", value)
	case MetricHumidity:
		return fmt.Sprintf("%.1f%%", value)
	case MetricAirflow:
		return fmt.Sprintf("%.0f CFM", value)
	}
	return fmt.Sprintf("%g", value)
}

// Bucket heatmap severity color, ordered cold < normal < warm < hot < critical
type Bucket int

const (
	BucketCold Bucket = iota
	BucketNormal
	BucketWarm
	BucketHot
	BucketCritical
)

// BucketCount number of color buckets on every scale
const BucketCount = 5

var bucketNames = [BucketCount]string{"cold", "normal", "warm", "hot", "critical"}

// Hex values follow the dashboard's --color-heatmap-* palette.
var bucketHex = [BucketCount]string{"#3B82F6", "#10B981", "#F59E0B", "#F97316", "#EF4444"}

func (b Bucket) valid() bool { return b >= BucketCold && b <= BucketCritical }

func (b Bucket) String() string {
	if !b.valid() {
		return "unknown"
	}
	return bucketNames[b]
}

// Hex CSS color of the bucket.
func (b Bucket) Hex() string {
	if !b.valid() {
		return ""
	}
	return bucketHex[b]
}

func (b Bucket) MarshalText() ([]byte, error) {
	if !b.valid() {
		return nil, fmt.Errorf("invalid bucket %d", int(b))
	}
	return []byte(bucketNames[b]), nil
}

func (b *Bucket) UnmarshalText(text []byte) error {
	for i, n := range bucketNames {
		if n == string(text) {
			*b = Bucket(i)
			return nil
		}
	}
	return fmt.Errorf("unknown bucket %q", string(text))
}

// Scale display range and ordered palette for one metric
type Scale struct {
	Min    float64
	Max    float64
	Colors [BucketCount]Bucket
}

// Adding a metric only needs a new entry here.
var scales = map[MetricType]Scale{
	MetricTemperature: {
		Min:    20,
		Max:    35,
		Colors: [BucketCount]Bucket{BucketCold, BucketNormal, BucketWarm, BucketHot, BucketCritical},
	},
	MetricHumidity: {
		Min:    30,
		Max:    70,
		Colors: [BucketCount]Bucket{BucketCritical, BucketHot, BucketNormal, BucketHot, BucketCritical},
	},
	MetricAirflow: {
		Min:    80,
		Max:    150,
		Colors: [BucketCount]Bucket{BucketCritical, BucketHot, BucketWarm, BucketNormal, BucketCold},
	},
}

// ScaleFor returns the scale configured for a metric.
func ScaleFor(m MetricType) (Scale, error) {
	s, ok := scales[m]
	if !ok {
		return Scale{}, fmt.Errorf("%w: %q", ErrUnknownMetric, m)
	}
	return s, nil
}

// BucketIndex returns the palette slot 0..4 of value on the metric's scale.
// Out-of-range values land on the boundary slot.
func BucketIndex(value float64, m MetricType) (int, error) {
	s, err := ScaleFor(m)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) {
		return 0, fmt.Errorf("%w: NaN for %s", ErrInvalidValue, m)
	}

	t := (value - s.Min) / (s.Max - s.Min)
	idx := math.Floor(t * BucketCount)
	// clamp before int conversion so ±Inf stays defined
	if idx < 0 {
		idx = 0
	}
	if idx > BucketCount-1 {
		idx = BucketCount - 1
	}
	return int(idx), nil
}

// ColorFor maps a metric value to its heatmap bucket.
func ColorFor(value float64, m MetricType) (Bucket, error) {
	idx, err := BucketIndex(value, m)
	if err != nil {
		return 0, err
	}
	return scales[m].Colors[idx], nil
}
