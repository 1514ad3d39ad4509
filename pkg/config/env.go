// pkg/config/env.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/opd-ai/vectorspace/pkg/logging"
)

// EnvPrefix is prepended to every environment key
const EnvPrefix = "VECTORSPACE"

// EnvironmentConfig holds the deployment settings read from the
// environment, e.g. VECTORSPACE_TICK_RATE
type EnvironmentConfig struct {
	ConfigPath      string
	LogLevel        string
	LogFile         string
	TickRate        int
	HealthPort      int
	Seed            uint64
	AgentCount      int
	WorldHalfExtent float64
	ReadTimeout     time.Duration
	ShutdownTimeout time.Duration
}

func newEnvViper() *viper.Viper {
	defaults := DefaultConfig()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("config_path", "")
	v.SetDefault("log_level", "INFO")
	v.SetDefault("log_file", "vectorspace.log")
	v.SetDefault("tick_rate", defaults.Server.TickRate)
	v.SetDefault("health_port", defaults.Server.HealthPort)
	v.SetDefault("seed", defaults.World.Seed)
	v.SetDefault("agent_count", defaults.Agents.Count)
	v.SetDefault("world_half_extent", defaults.World.HalfExtent)
	v.SetDefault("read_timeout", 5*time.Second)
	v.SetDefault("shutdown_timeout", 10*time.Second)
	return v
}

// LoadConfigFromEnv reads the environment into an EnvironmentConfig
func LoadConfigFromEnv() (*EnvironmentConfig, error) {
	v := newEnvViper()

	config := &EnvironmentConfig{
		ConfigPath:      v.GetString("config_path"),
		LogLevel:        strings.ToUpper(v.GetString("log_level")),
		LogFile:         v.GetString("log_file"),
		TickRate:        v.GetInt("tick_rate"),
		HealthPort:      v.GetInt("health_port"),
		Seed:            v.GetUint64("seed"),
		AgentCount:      v.GetInt("agent_count"),
		WorldHalfExtent: v.GetFloat64("world_half_extent"),
		ReadTimeout:     v.GetDuration("read_timeout"),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
	}

	if err := validateEnvironmentConfig(config); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	return config, nil
}

func validateEnvironmentConfig(config *EnvironmentConfig) error {
	if _, ok := logging.ParseLevel(config.LogLevel); !ok {
		return &ValidationError{Field: "LogLevel", Message: fmt.Sprintf("unknown level %q", config.LogLevel)}
	}
	if config.TickRate <= 0 || config.TickRate > 1000 {
		return &ValidationError{Field: "TickRate", Message: "must be between 1 and 1000"}
	}
	if config.HealthPort < 0 || config.HealthPort > 65535 {
		return &ValidationError{Field: "HealthPort", Message: "must be a valid port"}
	}
	if config.AgentCount < 0 {
		return &ValidationError{Field: "AgentCount", Message: "must not be negative"}
	}
	if config.WorldHalfExtent <= 0 {
		return &ValidationError{Field: "WorldHalfExtent", Message: "must be positive"}
	}
	if config.ReadTimeout <= 0 {
		return &ValidationError{Field: "ReadTimeout", Message: "must be positive"}
	}
	if config.ShutdownTimeout <= 0 {
		return &ValidationError{Field: "ShutdownTimeout", Message: "must be positive"}
	}
	return nil
}

// ApplyEnvironmentOverrides merges explicitly set environment values into
// the game config. Unset or empty variables leave the file values alone.
func ApplyEnvironmentOverrides(gameConfig *GameConfig) error {
	env, err := LoadConfigFromEnv()
	if err != nil {
		return err
	}

	if envSet("tick_rate") {
		gameConfig.Server.TickRate = env.TickRate
	}
	if envSet("health_port") {
		gameConfig.Server.HealthPort = env.HealthPort
	}
	if envSet("seed") {
		gameConfig.World.Seed = env.Seed
	}
	if envSet("agent_count") {
		gameConfig.Agents.Count = env.AgentCount
	}
	if envSet("world_half_extent") {
		gameConfig.World.HalfExtent = env.WorldHalfExtent
	}

	return gameConfig.Validate()
}

func envSet(key string) bool {
	value, ok := os.LookupEnv(EnvPrefix + "_" + strings.ToUpper(key))
	return ok && value != ""
}
