package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	commoncfg "dcmonitor/common/config"
)

// Config dcmonitor HTTP API settings
type Config struct {
	Env  string
	HTTP struct {
		Addr              string
		CORSOrigins       []string
		ReadHeaderTimeout time.Duration
		WriteTimeout      time.Duration
		IdleTimeout       time.Duration
		ShutdownTimeout   time.Duration
	}
	Log struct {
		Level  string
		Format string
	}
	Auth struct {
		Required bool
		Username string
		Password string
	}
	Simulation struct {
		Interval time.Duration
		Seed     int64 // 0 means time based
	}
	// History per-sensor readings kept for charts: one sample every Interval,
	// at most Points per sensor
	History struct {
		Interval time.Duration
		Points   int
	}

	DBEnabled bool
	Database  commoncfg.DatabaseConfig

	RedisEnabled bool
	Redis        commoncfg.RedisConfig

	// RedisStream also appends every tick to this stream when Redis is enabled; empty disables
	RedisStream       string
	RedisStreamMaxLen int64

	MQTTEnabled bool
	MQTT        commoncfg.MQTTConfig
	MQTTTopic   string

	KafkaEnabled bool
	Kafka        commoncfg.KafkaConfig
}

// Production reports whether cookies should be marked Secure.
func (c *Config) Production() bool { return c.Env == "production" }

func Load() *Config {
	cfg := &Config{}
	cfg.Env = getEnv("APP_ENV", "development")
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")
	cfg.HTTP.CORSOrigins = splitList(os.Getenv("CORS_ORIGINS"))
	cfg.HTTP.ReadHeaderTimeout = parseDuration(getEnv("HTTP_READ_HEADER_TIMEOUT", "5s"), 5*time.Second)
	cfg.HTTP.WriteTimeout = parseDuration(getEnv("HTTP_WRITE_TIMEOUT", "30s"), 30*time.Second)
	cfg.HTTP.IdleTimeout = parseDuration(getEnv("HTTP_IDLE_TIMEOUT", "60s"), time.Minute)
	cfg.HTTP.ShutdownTimeout = parseDuration(getEnv("HTTP_SHUTDOWN_TIMEOUT", "5s"), 5*time.Second)
	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.Auth.Required = getEnv("AUTH_REQUIRED", "true") == "true"
	cfg.Auth.Username = getEnv("AUTH_USERNAME", "admin")
	cfg.Auth.Password = getEnv("AUTH_PASSWORD", "password123")

	cfg.Simulation.Interval = parseDuration(getEnv("SIM_INTERVAL", "60s"), time.Minute)
	cfg.Simulation.Seed = int64(parseInt(getEnv("SIM_SEED", "0"), 0))

	// defaults cover 24 hours at 15 minute resolution
	cfg.History.Interval = parseDuration(getEnv("HISTORY_INTERVAL", "15m"), 15*time.Minute)
	cfg.History.Points = parseInt(getEnv("HISTORY_POINTS", "96"), 96)
	if cfg.History.Points < 1 {
		cfg.History.Points = 96
	}

	// In-memory repositories unless a database is explicitly enabled.
	cfg.DBEnabled = getEnv("DB_ENABLED", "false") == "true"
	cfg.Database.Host = "localhost"
	cfg.Database.Port = 5432
	cfg.Database.User = "postgres"
	cfg.Database.Password = "postgres"
	cfg.Database.Database = "dcmonitor"
	cfg.Database.SSLMode = "disable"
	cfg.Database.LoadFromEnv("DB")

	cfg.RedisEnabled = getEnv("REDIS_ENABLED", "false") == "true"
	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.LoadFromEnv("REDIS")
	cfg.RedisStream = os.Getenv("REDIS_STREAM")
	cfg.RedisStreamMaxLen = int64(parseInt(getEnv("REDIS_STREAM_MAXLEN", "10000"), 10000))

	cfg.MQTTEnabled = getEnv("MQTT_ENABLED", "false") == "true"
	cfg.MQTT.Broker = "tcp://localhost:1883"
	cfg.MQTT.ClientID = "dcmonitor-sim"
	cfg.MQTT.QoS = 1
	cfg.MQTT.LoadFromEnv("MQTT")
	cfg.MQTTTopic = getEnv("MQTT_TOPIC", "dcmonitor/sensors")

	cfg.KafkaEnabled = getEnv("KAFKA_ENABLED", "false") == "true"
	cfg.Kafka.Brokers = []string{"localhost:9092"}
	cfg.Kafka.Topic = "dcmonitor.sensors"
	cfg.Kafka.LoadFromEnv("KAFKA")

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ViewerConfig rackview terminal client settings
type ViewerConfig struct {
	BaseURL  string
	Username string
	Password string
	Refresh  time.Duration
	LogLevel string
	LogFile  string
}

func LoadViewer() *ViewerConfig {
	return &ViewerConfig{
		BaseURL:  getEnv("DCMONITOR_URL", "http://localhost:8080"),
		Username: getEnv("AUTH_USERNAME", "admin"),
		Password: getEnv("AUTH_PASSWORD", "password123"),
		Refresh:  parseDuration(getEnv("RACKVIEW_REFRESH", "10s"), 10*time.Second),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("RACKVIEW_LOG", "rackview.log"),
	}
}
