package config

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	ModeStandalone = "standalone"
	ModeRemote     = "remote"

	SlotsFile  = "file"
	SlotsRedis = "redis"
)

// Config holds application configuration from environment.
type Config struct {
	HTTPPort        string   `env:"HTTP_PORT" env-default:"8080"`
	DatabaseURL     string   `env:"DATABASE_URL"`
	DBPoolSize      int      `env:"DB_POOL_SIZE" env-default:"20"`
	RedisURL        string   `env:"REDIS_URL" env-default:"redis://localhost:6379/0"`
	RedisPoolSize   int      `env:"REDIS_POOL_SIZE" env-default:"50"`
	CacheTTL        int      `env:"CACHE_TTL_SEC" env-default:"300"` // seconds
	KafkaBrokers    []string `env:"KAFKA_BROKERS" env-separator:"," env-default:"localhost:9092"`
	KafkaTopic      string   `env:"KAFKA_RECORD_TOPIC" env-default:"record-events"`
	KafkaPartitions int      `env:"KAFKA_PARTITIONS" env-default:"8"`
	KafkaGroupID    string   `env:"KAFKA_GROUP_ID" env-default:"record-cache-invalidators"`
	JWTSecret       string   `env:"JWT_SECRET"`
	LogLevel        string   `env:"LOG_LEVEL" env-default:"info"`

	Client ClientConfig
}

// ClientConfig configures the taskflow CLI.
type ClientConfig struct {
	Mode           string        `env:"TASKFLOW_MODE" env-default:"standalone"`
	APIURL         string        `env:"TASKFLOW_API_URL" env-default:"http://localhost:8080"`
	Token          string        `env:"TASKFLOW_TOKEN"`
	RequestTimeout time.Duration `env:"TASKFLOW_REQUEST_TIMEOUT" env-default:"10s"`
	Slots          string        `env:"TASKFLOW_SLOTS" env-default:"file"`
	StateDir       string        `env:"TASKFLOW_STATE_DIR"`
}

var (
	cfg     *Config
	cfgOnce sync.Once
	cfgErr  error
)

// Get returns the application config (loads once from env and an optional .env file).
func Get() (*Config, error) {
	cfgOnce.Do(func() {
		_ = godotenv.Load()
		cfg, cfgErr = Load()
	})
	return cfg, cfgErr
}

// Load reads a fresh Config from the current environment.
func Load() (*Config, error) {
	c := new(Config)
	if err := cleanenv.ReadEnv(c); err != nil {
		return nil, err
	}
	if c.Client.StateDir == "" {
		c.Client.StateDir = defaultStateDir()
	}
	return c, nil
}

// CacheTTLDuration returns CacheTTL as a time.Duration.
func (c *Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskflow"
	}
	return filepath.Join(home, ".taskflow")
}
