package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	MongoDB  MongoDBConfig
	AI       AIConfig
	Snapshot SnapshotConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port     string
	LogLevel string
}

// StorageConfig holds the flat-file fallback store and upload locations.
type StorageConfig struct {
	DataDir   string
	UploadDir string
}

// MongoDBConfig holds settings for MongoDB. An empty URI means the server
// runs in file-only mode.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// AIConfig holds settings for the OpenRouter advice proxy.
type AIConfig struct {
	OpenRouterKey string
}

// SnapshotConfig holds the periodic persistence snapshot schedule.
type SnapshotConfig struct {
	CronSchedule string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:     getenvWithDefault("APP_PORT", "3000"),
			LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			DataDir:   getenvWithDefault("DATA_DIR", "."),
			UploadDir: getenvWithDefault("UPLOAD_DIR", "images"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "cropwise"),
		},
		AI: AIConfig{
			OpenRouterKey: os.Getenv("OPENROUTER_API_KEY"),
		},
		Snapshot: SnapshotConfig{
			CronSchedule: getenvWithDefault("SNAPSHOT_CRON", "*/30 * * * *"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
// MONGODB_URI and OPENROUTER_API_KEY are deliberately optional: without the
// former the store runs against the flat files, without the latter the
// ai-chat endpoint reports a configuration error.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Storage.DataDir == "" {
		return errors.New("DATA_DIR must not be empty")
	}

	if c.Storage.UploadDir == "" {
		return errors.New("UPLOAD_DIR must not be empty")
	}

	if c.MongoDB.URI != "" && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided when MONGODB_URI is set")
	}

	if c.Snapshot.CronSchedule == "" {
		return errors.New("SNAPSHOT_CRON must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
