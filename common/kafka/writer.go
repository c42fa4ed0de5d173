package kafka

import (
	"time"

	"dcmonitor/common/config"

	"github.com/segmentio/kafka-go"
)

// NewWriter builds a producer keyed by message key hash.
func NewWriter(cfg *config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
}
