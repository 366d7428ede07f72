package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string         `mapstructure:"environment"`
	LogLevel    string         `mapstructure:"log_level"`
	Server      ServerConfig   `mapstructure:"server"`
	Database    DatabaseConfig `mapstructure:"database"`
	Redis       RedisConfig    `mapstructure:"redis"`
	Model       ModelConfig    `mapstructure:"model"`
	Features    FeaturesConfig `mapstructure:"features"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	DBName       string `mapstructure:"dbname"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ModelConfig locates the pre-trained classifier artifact and its
// categorical encoding map. Both files are required at first scoring call.
type ModelConfig struct {
	ArtifactPath string `mapstructure:"artifact_path"`
	EncodingPath string `mapstructure:"encoding_path"`
}

// FeaturesConfig controls feature snapshot caching.
type FeaturesConfig struct {
	SnapshotTTL string `mapstructure:"snapshot_ttl"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	setDefaults()

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Environment = strings.ToLower(config.Environment)

	if config.Features.SnapshotTTL != "" {
		if _, err := time.ParseDuration(config.Features.SnapshotTTL); err != nil {
			return nil, fmt.Errorf("invalid snapshot TTL duration: %w", err)
		}
	}

	return &config, nil
}

// TTL parses the configured snapshot TTL, falling back to one hour.
func (f FeaturesConfig) TTL() time.Duration {
	d, err := time.ParseDuration(f.SnapshotTTL)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

func setDefaults() {
	// Environment
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	// Server
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Database
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.dbname", "moabank_risk")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.max_open_conns", 25)

	// Redis
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Model artifact
	viper.SetDefault("model.artifact_path", "./configs/models/risk_model.json")
	viper.SetDefault("model.encoding_path", "./configs/models/encoding_map.json")

	// Feature snapshots
	viper.SetDefault("features.snapshot_ttl", "1h")
}
