package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("PG_HOST", "db.internal")
	t.Setenv("PG_PORT", "6543")
	t.Setenv("PG_NAME", "metrics")
	t.Setenv("PG_MAX_CONNS", "12")

	c := DatabaseConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "secret", Database: "dcmonitor", SSLMode: "disable"}
	c.LoadFromEnv("PG")

	assert.Equal(t, "db.internal", c.Host)
	assert.Equal(t, 6543, c.Port)
	assert.Equal(t, "metrics", c.Database)
	assert.Equal(t, 12, c.MaxConns)
	assert.Equal(t, "postgres", c.User)
	assert.Equal(t, "host=db.internal port=6543 user=postgres password=secret dbname=metrics sslmode=disable", c.GetDSN())
}

func TestRedisAndMQTTConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("CACHE_ADDR", "cache:6380")
	t.Setenv("CACHE_DB", "3")
	r := RedisConfig{Addr: "localhost:6379"}
	r.LoadFromEnv("CACHE")
	assert.Equal(t, "cache:6380", r.Addr)
	assert.Equal(t, 3, r.DB)

	t.Setenv("BROKER_BROKER", "tcp://mqtt:1883")
	t.Setenv("BROKER_QOS", "2")
	m := MQTTConfig{Broker: "tcp://localhost:1883", ClientID: "sim", QoS: 1}
	m.LoadFromEnv("BROKER")
	assert.Equal(t, "tcp://mqtt:1883", m.Broker)
	assert.Equal(t, byte(2), m.QoS)
	assert.Equal(t, "sim", m.ClientID)
}

func TestKafkaConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("BUS_BROKERS", " k1:9092, ,k2:9092 ")
	k := KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "dcmonitor.sensors"}
	k.LoadFromEnv("BUS")
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, k.Brokers)
	assert.Equal(t, "dcmonitor.sensors", k.Topic)
}
