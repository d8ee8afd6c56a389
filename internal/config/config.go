package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// HTTP holds HTTP server configuration.
type HTTP struct {
	Host string
	Port int
}

// GRPC holds gRPC server configuration.
type GRPC struct {
	Enabled bool
	Host    string
	Port    int
}

// Cache configures caching behavior and backend selection.
type Cache struct {
	Enabled    bool
	Driver     string
	DefaultTTL time.Duration
	MemorySize int
	Redis      Redis
}

// Redis contains redis-specific connection settings.
type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Messaging configures the message bus used by the application.
type Messaging struct {
	Driver        string
	Enabled       bool
	Kafka         Kafka
	ConsumerGroup string
	Workers       Worker
}

// Kafka holds Kafka connection details.
type Kafka struct {
	Brokers        []string
	ClientID       string
	Topic          string
	CommitInterval time.Duration
	MinBytes       int
	MaxBytes       int
	ConnectTimeout time.Duration
}

// Worker configures background worker concurrency and polling.
type Worker struct {
	Enabled      bool
	PollInterval time.Duration
	Concurrency  int
}

// Database holds primary and read replica connection settings.
type Database struct {
	Driver          string
	WriterDSN       string
	ReaderDSN       string
	MaxOpenConns    int
	MaxIdleConns    int
	MaxConnLifetime time.Duration
	AutoMigrate     bool
	SeedOnStart     bool
}

// Calendar configures the business-day holiday calendar.
type Calendar struct {
	ExtraHolidays []string
}

// Observability contains logging, tracing, and metrics configuration.
type Observability struct {
	ServiceName     string
	Environment     string
	LogLevel        string
	LogEncoding     string
	EnableTracing   bool
	TraceExporter   string
	TraceEndpoint   string
	TraceInsecure   bool
	EnableMetrics   bool
	MetricsExporter string
	PrometheusPath  string
}

// Config wraps all application configuration knobs.
type Config struct {
	HTTP          HTTP
	GRPC          GRPC
	Cache         Cache
	Messaging     Messaging
	Database      Database
	Calendar      Calendar
	Observability Observability
}

// Module wires the configuration loader into the Fx graph.
var Module = fx.Provide(New)

var loadEnvOnce sync.Once

// New builds a Config from environment variables or defaults.
func New() (Config, error) {
	loadEnvOnce.Do(func() {
		_ = godotenv.Load()
	})

	env := &loader{}
	cfg := Config{
		HTTP: HTTP{
			Host: env.str("HTTP_HOST", "0.0.0.0"),
			Port: env.int("HTTP_PORT", 8080),
		},
		GRPC: GRPC{
			Enabled: env.bool("GRPC_ENABLED", true),
			Host:    env.str("GRPC_HOST", "0.0.0.0"),
			Port:    env.int("GRPC_PORT", 9090),
		},
		Cache: Cache{
			Enabled:    env.bool("CACHE_ENABLED", true),
			Driver:     env.str("CACHE_DRIVER", "memory"),
			DefaultTTL: env.duration("CACHE_DEFAULT_TTL", time.Minute*5),
			MemorySize: env.int("CACHE_MEMORY_SIZE", 1024),
			Redis: Redis{
				Addr:     env.str("REDIS_ADDR", "127.0.0.1:6379"),
				Password: env.str("REDIS_PASSWORD", ""),
				DB:       env.int("REDIS_DB", 0),
			},
		},
		Messaging: Messaging{
			Driver:  env.str("MESSAGING_DRIVER", "kafka"),
			Enabled: env.bool("MESSAGING_ENABLED", false),
			Kafka: Kafka{
				Brokers:        env.list("KAFKA_BROKERS", []string{"127.0.0.1:9092"}),
				ClientID:       env.str("KAFKA_CLIENT_ID", "orderdesk-service"),
				Topic:          env.str("KAFKA_TOPIC", "orders.events"),
				CommitInterval: env.duration("KAFKA_COMMIT_INTERVAL", time.Second),
				MinBytes:       env.int("KAFKA_MIN_BYTES", 10e3),
				MaxBytes:       env.int("KAFKA_MAX_BYTES", 10e6),
				ConnectTimeout: env.duration("KAFKA_CONNECT_TIMEOUT", 5*time.Second),
			},
			ConsumerGroup: env.str("KAFKA_CONSUMER_GROUP", "orderdesk-worker"),
			Workers: Worker{
				Enabled:      env.bool("WORKER_ENABLED", true),
				PollInterval: env.duration("WORKER_POLL_INTERVAL", time.Second),
				Concurrency:  env.int("WORKER_CONCURRENCY", 4),
			},
		},
		Database: Database{
			Driver:          env.str("DB_DRIVER", "sqlite"),
			WriterDSN:       env.str("DB_WRITER_DSN", "file::memory:?cache=shared"),
			ReaderDSN:       env.str("DB_READER_DSN", ""),
			MaxOpenConns:    env.int("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    env.int("DB_MAX_IDLE_CONNS", 25),
			MaxConnLifetime: env.duration("DB_MAX_CONN_LIFETIME", time.Minute*5),
			AutoMigrate:     env.bool("DB_AUTO_MIGRATE", true),
			SeedOnStart:     env.bool("SEED_ON_START", true),
		},
		Calendar: Calendar{
			ExtraHolidays: env.list("HOLIDAY_DATES", nil),
		},
		Observability: Observability{
			ServiceName:     env.str("OBS_SERVICE_NAME", "orderdesk"),
			Environment:     env.str("OBS_ENVIRONMENT", "local"),
			LogLevel:        env.str("OBS_LOG_LEVEL", "info"),
			LogEncoding:     env.str("OBS_LOG_ENCODING", "json"),
			EnableTracing:   env.bool("OBS_ENABLE_TRACING", false),
			TraceExporter:   env.str("OBS_TRACE_EXPORTER", "stdout"),
			TraceEndpoint:   env.str("OBS_OTLP_ENDPOINT", "localhost:4317"),
			TraceInsecure:   env.bool("OBS_OTLP_INSECURE", true),
			EnableMetrics:   env.bool("OBS_ENABLE_METRICS", true),
			MetricsExporter: env.str("OBS_METRICS_EXPORTER", "prometheus"),
			PrometheusPath:  env.str("OBS_PROMETHEUS_PATH", "/metrics"),
		},
	}

	if err := env.err(); err != nil {
		return Config{}, err
	}

	if cfg.HTTP.Port <= 0 {
		return Config{}, fmt.Errorf("invalid HTTP port: %d", cfg.HTTP.Port)
	}

	if cfg.GRPC.Enabled && cfg.GRPC.Port <= 0 {
		return Config{}, fmt.Errorf("invalid gRPC port: %d", cfg.GRPC.Port)
	}

	if !cfg.Cache.Enabled {
		cfg.Cache.Driver = "noop"
	}

	switch cfg.Cache.Driver {
	case "memory", "redis", "noop":
		// supported
	default:
		return Config{}, fmt.Errorf("unsupported cache driver: %s", cfg.Cache.Driver)
	}

	if cfg.Cache.Driver == "redis" && cfg.Cache.Redis.Addr == "" {
		return Config{}, fmt.Errorf("missing REDIS_ADDR for redis cache")
	}

	if cfg.Cache.Driver == "memory" && cfg.Cache.MemorySize <= 0 {
		cfg.Cache.MemorySize = 1024
	}

	if cfg.Cache.DefaultTTL < 0 {
		cfg.Cache.DefaultTTL = time.Minute * 5
	}

	cfg.Observability.LogLevel = strings.ToLower(strings.TrimSpace(cfg.Observability.LogLevel))
	if cfg.Observability.LogLevel == "" {
		cfg.Observability.LogLevel = "info"
	}
	cfg.Observability.LogEncoding = strings.ToLower(strings.TrimSpace(cfg.Observability.LogEncoding))
	if cfg.Observability.LogEncoding == "" {
		cfg.Observability.LogEncoding = "json"
	}
	cfg.Observability.TraceExporter = strings.ToLower(strings.TrimSpace(cfg.Observability.TraceExporter))
	if cfg.Observability.TraceExporter == "" {
		cfg.Observability.TraceExporter = "stdout"
	}
	cfg.Observability.MetricsExporter = strings.ToLower(strings.TrimSpace(cfg.Observability.MetricsExporter))
	if cfg.Observability.MetricsExporter == "" {
		cfg.Observability.MetricsExporter = "prometheus"
	}

	if cfg.Observability.PrometheusPath == "" {
		cfg.Observability.PrometheusPath = "/metrics"
	} else if !strings.HasPrefix(cfg.Observability.PrometheusPath, "/") {
		cfg.Observability.PrometheusPath = "/" + cfg.Observability.PrometheusPath
	}

	if !cfg.Messaging.Enabled {
		cfg.Messaging.Driver = "noop"
	}

	switch cfg.Messaging.Driver {
	case "kafka", "noop":
		// supported
	default:
		return Config{}, fmt.Errorf("unsupported messaging driver: %s", cfg.Messaging.Driver)
	}

	if cfg.Messaging.Driver == "kafka" {
		if len(cfg.Messaging.Kafka.Brokers) == 0 {
			return Config{}, fmt.Errorf("KAFKA_BROKERS must be provided")
		}
		if cfg.Messaging.Kafka.Topic == "" {
			return Config{}, fmt.Errorf("KAFKA_TOPIC must be provided")
		}
		if cfg.Messaging.ConsumerGroup == "" {
			return Config{}, fmt.Errorf("KAFKA_CONSUMER_GROUP must be provided")
		}
	}

	if cfg.Messaging.Workers.Concurrency <= 0 {
		cfg.Messaging.Workers.Concurrency = 1
	}
	if cfg.Messaging.Workers.PollInterval <= 0 {
		cfg.Messaging.Workers.PollInterval = time.Second
	}

	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	switch cfg.Database.Driver {
	case "memory":
		cfg.Database.AutoMigrate = false
		return cfg, nil
	case "postgres", "pgx", "mysql", "sqlite":
		// supported
	default:
		return Config{}, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}

	if cfg.Database.WriterDSN == "" {
		return Config{}, fmt.Errorf("missing DB_WRITER_DSN")
	}

	if cfg.Database.ReaderDSN == "" {
		cfg.Database.ReaderDSN = cfg.Database.WriterDSN
	}

	return cfg, nil
}
