package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Sequence backends understood by LoadConfig.
const (
	SequenceMongo  = "mongo"
	SequenceRedis  = "redis"
	SequenceMemory = "memory"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	Redis    RedisConfig
	Sequence SequenceConfig
	CORS     CORSConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	BasePath     string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type MongoDBConfig struct {
	URI                 string
	Database            string
	IncidentsCollection string
	CountersCollection  string
	Timeout             time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port, or "" when Redis is not configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return r.Host + ":" + r.Port
}

// SequenceConfig selects where issue numbers are allocated.
type SequenceConfig struct {
	Backend string
	Name    string
}

type CORSConfig struct {
	AllowOrigins string
}

type LogConfig struct {
	Level  string
	Format string
}

// LoadConfig loads configuration from environment variables and an optional .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "5000")
	v.SetDefault("SERVER_HOST", "127.0.0.1")
	v.SetDefault("SERVER_BASE_PATH", "/api")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("MONGODB_DATABASE", "incident_management")
	v.SetDefault("MONGODB_INCIDENTS_COLLECTION", "incidents")
	v.SetDefault("MONGODB_COUNTERS_COLLECTION", "counters")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SEQUENCE_NAME", "issue_number")
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("SERVER_PORT"),
			Host:         v.GetString("SERVER_HOST"),
			BasePath:     v.GetString("SERVER_BASE_PATH"),
			Environment:  v.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:                 v.GetString("MONGODB_URI"),
			Database:            v.GetString("MONGODB_DATABASE"),
			IncidentsCollection: v.GetString("MONGODB_INCIDENTS_COLLECTION"),
			CountersCollection:  v.GetString("MONGODB_COUNTERS_COLLECTION"),
			Timeout:             time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Sequence: SequenceConfig{
			Backend: strings.ToLower(strings.TrimSpace(v.GetString("SEQUENCE_BACKEND"))),
			Name:    v.GetString("SEQUENCE_NAME"),
		},
		CORS: CORSConfig{
			AllowOrigins: v.GetString("CORS_ALLOW_ORIGINS"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

	if cfg.Sequence.Backend == "" {
		if cfg.MongoDB.URI != "" {
			cfg.Sequence.Backend = SequenceMongo
		} else {
			cfg.Sequence.Backend = SequenceMemory
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Sequence.Backend {
	case SequenceMongo:
		if c.MongoDB.URI == "" {
			return fmt.Errorf("sequence backend %q requires MONGODB_URI", c.Sequence.Backend)
		}
	case SequenceRedis:
		if c.Redis.Host == "" {
			return fmt.Errorf("sequence backend %q requires REDIS_HOST", c.Sequence.Backend)
		}
	case SequenceMemory:
	default:
		return fmt.Errorf("unknown sequence backend %q", c.Sequence.Backend)
	}
	if c.Sequence.Name == "" {
		return fmt.Errorf("SEQUENCE_NAME must not be empty")
	}
	if c.MongoDB.Timeout <= 0 {
		return fmt.Errorf("MONGODB_TIMEOUT must be positive")
	}
	return nil
}
