package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "LOG_LEVEL", "DATA_DIR", "UPLOAD_DIR", "MONGODB_URI", "MONGODB_DB_NAME", "OPENROUTER_API_KEY", "SNAPSHOT_CRON"} {
		t.Setenv(key, "")
	}

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, ".", cfg.Storage.DataDir)
	assert.Equal(t, "images", cfg.Storage.UploadDir)
	assert.Empty(t, cfg.MongoDB.URI)
	assert.Equal(t, "cropwise", cfg.MongoDB.DBName)
	assert.Empty(t, cfg.AI.OpenRouterKey)
	assert.Equal(t, "*/30 * * * *", cfg.Snapshot.CronSchedule)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", "8081")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("MONGODB_DB_NAME", "cropwise_test")
	t.Setenv("OPENROUTER_API_KEY", "sk-test")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	assert.Equal(t, "cropwise_test", cfg.MongoDB.DBName)
	assert.Equal(t, "sk-test", cfg.AI.OpenRouterKey)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "3000"},
			Storage:  StorageConfig{DataDir: ".", UploadDir: "images"},
			MongoDB:  MongoDBConfig{DBName: "cropwise"},
			Snapshot: SnapshotConfig{CronSchedule: "*/30 * * * *"},
		}
	}

	cases := []struct {
		desc    string
		mutate  func(*Config)
		wantErr string
	}{
		{desc: "valid", mutate: func(*Config) {}},
		{
			desc:    "missing port",
			mutate:  func(c *Config) { c.Server.Port = "" },
			wantErr: "APP_PORT",
		},
		{
			desc:    "missing data dir",
			mutate:  func(c *Config) { c.Storage.DataDir = "" },
			wantErr: "DATA_DIR",
		},
		{
			desc:    "missing upload dir",
			mutate:  func(c *Config) { c.Storage.UploadDir = "" },
			wantErr: "UPLOAD_DIR",
		},
		{
			desc: "mongo uri without db name",
			mutate: func(c *Config) {
				c.MongoDB.URI = "mongodb://localhost:27017"
				c.MongoDB.DBName = ""
			},
			wantErr: "MONGODB_DB_NAME",
		},
		{
			desc:    "missing snapshot schedule",
			mutate:  func(c *Config) { c.Snapshot.CronSchedule = "" },
			wantErr: "SNAPSHOT_CRON",
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}
