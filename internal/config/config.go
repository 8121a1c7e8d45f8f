package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации симулятора
type Config struct {
	Sim       SimConfig       `yaml:"sim"`
	Logging   LoggingConfig   `yaml:"logging"`
	Server    ServerConfig    `yaml:"server"`
	EventBus  EventBusConfig  `yaml:"eventbus"`
	Storage   StorageConfig   `yaml:"storage"`
	Replay    ReplayConfig    `yaml:"replay"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// SimConfig параметры прогона. Seed == 0 означает случайный сид.
type SimConfig struct {
	Seed       int64  `yaml:"seed"`
	PlayerName string `yaml:"player_name"`
	StartLevel int    `yaml:"start_level"`
	MaxLevel   int    `yaml:"max_level"`
	TickRate   int    `yaml:"tick_rate"`
	MaxTicks   int    `yaml:"max_ticks"`
	Realtime   bool   `yaml:"realtime"`
}

type LoggingConfig struct {
	Level     string `yaml:"level"`
	FileLevel string `yaml:"file_level"`
	Dir       string `yaml:"dir"`
	ToFile    bool   `yaml:"to_file"`
}

type ServerConfig struct {
	APIPort     int  `yaml:"api_port"`
	MetricsPort int  `yaml:"metrics_port"`
	EnableAPI   bool `yaml:"enable_api"`
}

// Поддерживаемые бэкенды шины событий
const (
	BusMemory = "memory"
	BusNATS   = "nats"
)

type EventBusConfig struct {
	Backend   string `yaml:"backend"`
	Capacity  int    `yaml:"capacity"`
	URL       string `yaml:"url"`
	Stream    string `yaml:"stream"`
	Retention int    `yaml:"retention_hours"`
}

// Поддерживаемые хранилища рекордов
const (
	StorageMemory = "memory"
	StorageBadger = "badger"
	StorageRedis  = "redis"
	StorageMaria  = "maria"
	StorageMongo  = "mongo"
)

type StorageConfig struct {
	Backend string      `yaml:"backend"`
	Path    string      `yaml:"path"`
	Redis   RedisConfig `yaml:"redis"`
	Maria   MariaConfig `yaml:"maria"`
	Mongo   MongoConfig `yaml:"mongo"`
}

type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

type MariaConfig struct {
	DSN string `yaml:"dsn"`
}

type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

// ReplayConfig запись срезов состояния каждые EveryTicks тиков
type ReplayConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Path       string `yaml:"path"`
	EveryTicks int    `yaml:"every_ticks"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Sim: SimConfig{
			PlayerName: "gunslinger",
			StartLevel: 1,
			MaxLevel:   10,
			TickRate:   60,
			MaxTicks:   60 * 60 * 10,
		},
		Logging: LoggingConfig{
			Level:     "INFO",
			FileLevel: "DEBUG",
			Dir:       "logs",
		},
		EventBus: EventBusConfig{
			Backend:   BusMemory,
			Capacity:  1024,
			URL:       "nats://127.0.0.1:4222",
			Stream:    "GUNGEON",
			Retention: 24,
		},
		Storage: StorageConfig{
			Backend: StorageMemory,
			Path:    "data/scores",
			Redis: RedisConfig{
				Addr:      "localhost:6379",
				KeyPrefix: "gungeon:",
			},
			Mongo: MongoConfig{
				URI:        "mongodb://localhost:27017",
				Database:   "gungeon",
				Collection: "scores",
			},
		},
		Replay: ReplayConfig{
			Path:       "replays",
			EveryTicks: 6,
		},
		Telemetry: TelemetryConfig{
			Endpoint:    "localhost:4318",
			ServiceName: "gungeon-sim",
		},
	}
}

// GetAPIPort возвращает порт REST API с поддержкой fallback значений
func (s *ServerConfig) GetAPIPort() int {
	return getPortWithEnvFallback(s.APIPort, "GUNGEON_API_PORT", 8088)
}

// GetMetricsPort возвращает Prometheus метрики порт с поддержкой fallback значений
func (s *ServerConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(s.MetricsPort, "GUNGEON_METRICS_PORT", 2112)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пробует ENV GUNGEON_CONFIG; без файла возвращает Default().
// Переменные окружения GUNGEON_* применяются последними.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("GUNGEON_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("не удалось прочитать конфиг %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("ошибка разбора конфига %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("GUNGEON_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("некорректный GUNGEON_SEED %q: %w", v, err)
		}
		c.Sim.Seed = seed
	}
	if v := os.Getenv("GUNGEON_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("GUNGEON_STORAGE"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("GUNGEON_REDIS_ADDR"); v != "" {
		c.Storage.Redis.Addr = v
	}
	if v := os.Getenv("GUNGEON_MARIA_DSN"); v != "" {
		c.Storage.Maria.DSN = v
	}
	if v := os.Getenv("GUNGEON_MONGO_URI"); v != "" {
		c.Storage.Mongo.URI = v
	}
	if v := os.Getenv("GUNGEON_NATS_URL"); v != "" {
		c.EventBus.Backend = BusNATS
		c.EventBus.URL = v
	}
	if v := os.Getenv("GUNGEON_OTLP_ENDPOINT"); v != "" {
		c.Telemetry.Enabled = true
		c.Telemetry.Endpoint = v
	}
	return nil
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	if c.Sim.TickRate <= 0 {
		return fmt.Errorf("tick_rate должен быть положительным: %d", c.Sim.TickRate)
	}
	if c.Sim.StartLevel < 1 || c.Sim.MaxLevel < c.Sim.StartLevel {
		return fmt.Errorf("некорректные уровни: start=%d max=%d", c.Sim.StartLevel, c.Sim.MaxLevel)
	}

	c.EventBus.Backend = strings.ToLower(c.EventBus.Backend)
	switch c.EventBus.Backend {
	case BusMemory, BusNATS:
	default:
		return fmt.Errorf("неизвестная шина событий: %s", c.EventBus.Backend)
	}

	c.Storage.Backend = strings.ToLower(c.Storage.Backend)
	switch c.Storage.Backend {
	case StorageMemory, StorageBadger, StorageRedis, StorageMongo:
	case StorageMaria:
		if c.Storage.Maria.DSN == "" {
			return fmt.Errorf("для maria требуется storage.maria.dsn")
		}
	default:
		return fmt.Errorf("неизвестное хранилище: %s", c.Storage.Backend)
	}

	if c.Replay.Enabled && c.Replay.EveryTicks <= 0 {
		return fmt.Errorf("replay.every_ticks должен быть положительным: %d", c.Replay.EveryTicks)
	}
	return nil
}

// DeltaTime шаг симуляции в секундах
func (s SimConfig) DeltaTime() float64 {
	return 1 / float64(s.TickRate)
}
