package app

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kairoslabs/kairos-backend/internal/platform/envutil"
	"github.com/kairoslabs/kairos-backend/internal/platform/logger"
)

type Config struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`

	MetricsAddr string `yaml:"metrics_addr"`
	RedisAddr   string `yaml:"redis_addr"`

	// LeaderboardBackend selects "redis" or "memory".
	LeaderboardBackend string `yaml:"leaderboard_backend"`

	// StateScale selects how raw published state values are normalized:
	// "bps" for the original basis-point contract, "wad" for the
	// 18-decimal one.
	StateScale string `yaml:"state_scale"`

	ReplyWait time.Duration `yaml:"reply_wait"`
}

// LoadConfig builds the runtime config. A YAML file named by
// CONFIG_FILE supplies the base; environment variables override it.
func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:               "8080",
		Environment:        "development",
		Version:            "dev",
		LeaderboardBackend: "memory",
		StateScale:         "bps",
	}

	if path := envutil.Str("CONFIG_FILE", ""); path != "" {
		if err := loadConfigFile(path, &cfg); err != nil {
			log.Warn("config file not loaded", "path", path, "error", err)
		} else {
			log.Info("config file loaded", "path", path)
		}
	}

	cfg.Port = envutil.Str("PORT", cfg.Port)
	cfg.Environment = envutil.Str("ENVIRONMENT", cfg.Environment)
	cfg.Version = envutil.Str("VERSION", cfg.Version)
	cfg.MetricsAddr = envutil.Str("METRICS_ADDR", cfg.MetricsAddr)
	cfg.RedisAddr = envutil.Str("REDIS_ADDR", cfg.RedisAddr)
	cfg.LeaderboardBackend = envutil.Str("LEADERBOARD_BACKEND", cfg.LeaderboardBackend)
	cfg.StateScale = envutil.Str("STATE_SCALE", cfg.StateScale)
	cfg.ReplyWait = envutil.Duration("AGENT_REPLY_WAIT", cfg.ReplyWait)
	return cfg
}

func loadConfigFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
