package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"dcmonitor/common/mqtt"
	"dcmonitor/internal/domain"
)

type mqttClient interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
	QoS() byte
	Disconnect()
}

// MQTTPublisher publishes the room snapshot to <base>/<room_id>, retained
// so late subscribers get the latest values.
type MQTTPublisher struct {
	client    mqttClient
	baseTopic string
}

func NewMQTTPublisher(client *mqtt.Client, baseTopic string) *MQTTPublisher {
	return &MQTTPublisher{client: client, baseTopic: strings.TrimSuffix(baseTopic, "/")}
}

func (p *MQTTPublisher) Name() string { return "mqtt" }

func (p *MQTTPublisher) Publish(ctx context.Context, snap domain.SensorSnapshot) error {
	for _, room := range splitByRoom(snap) {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw, err := json.Marshal(room)
		if err != nil {
			return fmt.Errorf("encode room %s: %w", room.RoomID, err)
		}
		if err := p.client.Publish(p.baseTopic+"/"+room.RoomID, p.client.QoS(), true, raw); err != nil {
			return err
		}
	}
	return nil
}

func (p *MQTTPublisher) Close() error {
	p.client.Disconnect()
	return nil
}
