package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dcmonitor/common/database"
	commonkafka "dcmonitor/common/kafka"
	"dcmonitor/common/logger"
	commonmqtt "dcmonitor/common/mqtt"
	commonredis "dcmonitor/common/redis"
	"dcmonitor/internal/config"
	httpapi "dcmonitor/internal/http"
	"dcmonitor/internal/metrics"
	"dcmonitor/internal/publish"
	"dcmonitor/internal/repository"
	"dcmonitor/internal/service"
	"dcmonitor/internal/simulation"
	"dcmonitor/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "dcmonitor")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Snapshot store: Redis when enabled and reachable, otherwise in process.
	var kv store.KV = store.NewMemoryKV()
	var redisClient *redis.Client
	if cfg.RedisEnabled {
		c := commonredis.NewRedisClient(&cfg.Redis)
		if err := commonredis.Ping(ctx, c); err == nil {
			redisClient = c
			kv = store.NewRedisKV(c)
			log.Info("Redis enabled for sensor snapshots", zap.String("addr", cfg.Redis.Addr))
		} else {
			log.Warn("Redis enabled but unreachable, falling back to memory", zap.Error(err))
			_ = c.Close()
		}
	}
	snapshots := store.NewSnapshotStore(kv, 5*cfg.Simulation.Interval)

	var listKV store.ListKV = store.NewMemoryKV()
	if redisClient != nil {
		listKV = store.NewRedisKV(redisClient)
	}
	// a list idle for one full window has nothing left worth charting
	history := store.NewHistoryStore(listKV, cfg.History.Points, time.Duration(cfg.History.Points)*cfg.History.Interval)

	// Alert and user repositories: Postgres when enabled, otherwise seeded memory.
	var (
		db          *sql.DB
		rulesRepo   repository.AlertRulesRepository
		historyRepo repository.AlertHistoryRepository
		usersRepo   repository.UsersRepository
	)
	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(&cfg.Database); err == nil {
			if err := repository.EnsureSchema(ctx, d); err != nil {
				log.Warn("Schema setup failed, falling back to memory", zap.Error(err))
				_ = d.Close()
			} else {
				db = d
				log.Info("DB enabled for dcmonitor", zap.String("database", cfg.Database.Database))
			}
		} else {
			log.Warn("DB enabled but connection failed, falling back to memory", zap.Error(err))
		}
	}
	if db != nil {
		rulesRepo = repository.NewPostgresAlertRulesRepo(db)
		historyRepo = repository.NewPostgresAlertHistoryRepo(db)
		usersRepo = repository.NewPostgresUsersRepo(db)
	} else {
		rulesRepo = repository.NewMemoryAlertRulesRepo(repository.SeedAlertRules())
		historyRepo = repository.NewMemoryAlertHistoryRepo(repository.SeedAlertHistory())
		usersRepo = repository.NewMemoryUsersRepo(repository.SeedUsers())
	}

	var publishers []publish.Publisher
	if cfg.MQTTEnabled {
		if c, err := commonmqtt.NewClient(&cfg.MQTT, log); err == nil {
			publishers = append(publishers, publish.NewMQTTPublisher(c, cfg.MQTTTopic))
		} else {
			log.Warn("MQTT enabled but connection failed, skipping", zap.Error(err))
		}
	}
	if redisClient != nil && cfg.RedisStream != "" {
		publishers = append(publishers, publish.NewStreamPublisher(redisClient, cfg.RedisStream, cfg.RedisStreamMaxLen))
	}
	if cfg.KafkaEnabled {
		publishers = append(publishers, publish.NewKafkaPublisher(commonkafka.NewWriter(&cfg.Kafka)))
	}

	m := metrics.New()
	facility := service.NewFacilityService()
	sensors := service.NewSensorService(snapshots, facility)

	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	runner := service.NewRunner(
		simulation.NewGenerator(seed),
		facility.AllRacks(ctx),
		snapshots,
		publishers,
		m,
		cfg.Simulation.Interval,
		log,
	)
	runner.RecordHistory(history, cfg.History.Interval)
	go runner.Run(ctx)

	router := httpapi.NewRouter(httpapi.Services{
		Facility:     facility,
		Sensors:      sensors,
		History:      service.NewSensorHistoryService(history, facility),
		Heatmap:      service.NewHeatmapService(sensors, facility),
		Export:       service.NewExportService(sensors),
		AlertRules:   service.NewAlertRuleService(rulesRepo, log),
		AlertHistory: service.NewAlertHistoryService(historyRepo, log),
		Users:        service.NewUserService(usersRepo, log),
		Auth:         service.NewAuthService(cfg.Auth.Username, cfg.Auth.Password, cfg.Production()),
	}, httpapi.Options{
		AuthRequired: cfg.Auth.Required,
		CORSOrigins:  cfg.HTTP.CORSOrigins,
		Metrics:      m,
	}, log)

	srv := service.NewServer(cfg.HTTP.Addr, router, service.ServerTimeouts{
		ReadHeader: cfg.HTTP.ReadHeaderTimeout,
		Write:      cfg.HTTP.WriteTimeout,
		Idle:       cfg.HTTP.IdleTimeout,
	}, log)
	if err := srv.Listen(); err != nil {
		log.Fatal("HTTP server cannot listen", zap.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			log.Error("HTTP server failed", zap.Error(err))
		}
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	runner.Close()
	if redisClient != nil {
		_ = commonredis.Close(redisClient)
	}
	_ = database.Close(db)
}
