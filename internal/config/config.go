package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
	CacheDriverNone   = "none"
)

type Config struct {
	Server ServerConfig `envconfig:"SERVER"`
	ECB    ECBConfig    `envconfig:"ECB"`
	Cache  CacheConfig  `envconfig:"CACHE"`
	Log    LogConfig    `envconfig:"LOG"`
}

type ServerConfig struct {
	Port            int           `envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"5s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"10s"`
	IdleTimeout     time.Duration `envconfig:"IDLE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

type ECBConfig struct {
	DailyURL      string        `envconfig:"DAILY_URL" default:"https://www.ecb.europa.eu/stats/eurofxref/eurofxref-daily.xml"`
	NinetyDaysURL string        `envconfig:"NINETY_DAYS_URL" default:"https://www.ecb.europa.eu/stats/eurofxref/eurofxref-hist-90d.xml"`
	HistoryURL    string        `envconfig:"HISTORY_URL" default:"https://www.ecb.europa.eu/stats/eurofxref/eurofxref-hist.xml"`
	Timeout       time.Duration `envconfig:"TIMEOUT" default:"10s"`
	UserAgent     string        `envconfig:"USER_AGENT"`
	// WarmSchedule is a cron spec; empty disables the warm-up job.
	WarmSchedule string `envconfig:"WARM_SCHEDULE" default:"@hourly"`
}

type CacheConfig struct {
	Driver          string        `envconfig:"DRIVER" default:"memory"`
	RedisURL        string        `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	Prefix          string        `envconfig:"PREFIX" default:"ecb:"`
	CurrentTTL      time.Duration `envconfig:"CURRENT_TTL" default:"1h"`
	HistoryTTL      time.Duration `envconfig:"HISTORY_TTL" default:"1440h"`
	CleanupInterval time.Duration `envconfig:"CLEANUP_INTERVAL" default:"10m"`
}

type LogConfig struct {
	Level  string `envconfig:"LEVEL" default:"info"`
	Format string `envconfig:"FORMAT" default:"text"`
}

// LoadConfig reads the named env files, or an optional ./.env when none are
// given, and then the process environment. Named files must exist.
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		// A missing default .env is normal outside development.
		if len(envFiles) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Cache.Driver {
	case CacheDriverMemory, CacheDriverRedis, CacheDriverNone:
	default:
		return fmt.Errorf("invalid CACHE_DRIVER %q, want memory, redis or none", c.Cache.Driver)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid SERVER_PORT %d", c.Server.Port)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid LOG_FORMAT %q, want text or json", c.Log.Format)
	}
	return nil
}
