package publish

import (
	"context"
	"fmt"

	"dcmonitor/internal/domain"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes one message per sensor keyed by sensor id
type KafkaPublisher struct {
	w messageWriter
}

func NewKafkaPublisher(w *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{w: w}
}

func (p *KafkaPublisher) Name() string { return "kafka" }

func (p *KafkaPublisher) Publish(ctx context.Context, snap domain.SensorSnapshot) error {
	if len(snap.Sensors) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(snap.Sensors))
	for _, s := range snap.Sensors {
		value, err := encodeSensor(snap, s)
		if err != nil {
			return err
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(s.SensorID),
			Value: value,
			Time:  snap.Timestamp,
		})
	}
	if err := p.w.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d messages: %w", len(msgs), err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error { return p.w.Close() }
