package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// Logging
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// CORS
	CorsOrigins []string `mapstructure:"CORS_ORIGINS"`

	// Simulation
	DefaultSimulations  int     `mapstructure:"DEFAULT_SIMULATIONS"`
	MaxSimulations      int     `mapstructure:"MAX_SIMULATIONS"`
	SimulationChunkSize int     `mapstructure:"SIMULATION_CHUNK_SIZE"`
	DefaultSeed         int64   `mapstructure:"DEFAULT_SEED"`
	BoomThreshold       float64 `mapstructure:"BOOM_THRESHOLD"`
	FloorPercentile     float64 `mapstructure:"FLOOR_PERCENTILE"`
	CeilingPercentile   float64 `mapstructure:"CEILING_PERCENTILE"`

	// Results retention (in-memory, per process)
	MaxStoredRuns int `mapstructure:"MAX_STORED_RUNS"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "")
	viper.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("DEFAULT_SIMULATIONS", 10000)
	viper.SetDefault("MAX_SIMULATIONS", 100000)
	viper.SetDefault("SIMULATION_CHUNK_SIZE", 2048)
	viper.SetDefault("DEFAULT_SEED", 42)
	viper.SetDefault("BOOM_THRESHOLD", 1.5)
	viper.SetDefault("FLOOR_PERCENTILE", 10.0)
	viper.SetDefault("CEILING_PERCENTILE", 90.0)
	viper.SetDefault("MAX_STORED_RUNS", 100)

	// Read from environment
	viper.AutomaticEnv()

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Parse CORS origins from comma-separated string
	if corsStr := viper.GetString("CORS_ORIGINS"); corsStr != "" {
		config.CorsOrigins = strings.Split(corsStr, ",")
	}

	return &config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
