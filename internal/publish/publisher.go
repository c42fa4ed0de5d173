package publish

import (
	"context"
	"encoding/json"
	"fmt"

	"dcmonitor/internal/domain"
)

// Publisher fans a simulated snapshot out to an external system
type Publisher interface {
	Name() string
	Publish(ctx context.Context, snap domain.SensorSnapshot) error
	Close() error
}

// SensorMessage wire format of one reading
type SensorMessage struct {
	Timestamp int64 `json:"timestamp"` // unix millis
	domain.Sensor
}

func encodeSensor(snap domain.SensorSnapshot, s domain.Sensor) ([]byte, error) {
	raw, err := json.Marshal(SensorMessage{Timestamp: snap.Timestamp.UnixMilli(), Sensor: s})
	if err != nil {
		return nil, fmt.Errorf("encode sensor %s: %w", s.SensorID, err)
	}
	return raw, nil
}

// RoomMessage wire format of one room's readings
type RoomMessage struct {
	Timestamp int64           `json:"timestamp"` // unix millis
	RoomID    string          `json:"room_id"`
	Sensors   []domain.Sensor `json:"sensors"`
}

// splitByRoom keeps rooms in first-seen order.
func splitByRoom(snap domain.SensorSnapshot) []RoomMessage {
	var out []RoomMessage
	index := map[string]int{}
	for _, s := range snap.Sensors {
		i, ok := index[s.RoomID]
		if !ok {
			i = len(out)
			index[s.RoomID] = i
			out = append(out, RoomMessage{Timestamp: snap.Timestamp.UnixMilli(), RoomID: s.RoomID})
		}
		out[i].Sensors = append(out[i].Sensors, s)
	}
	return out
}
