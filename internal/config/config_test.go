package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir(), nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultConnectString, cfg.DB.ConnectString)
	assert.Equal(t, "3000", cfg.App.HTTPPort)
	assert.Equal(t, 10, cfg.App.RequestTimeoutSeconds)
	assert.False(t, cfg.App.GRPCEnabled)
	assert.Equal(t, "", cfg.Logger.Level)
	assert.Equal(t, "stderr", cfg.Logger.OutputPath)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("CONNECT_STRING", "postgres://u:p@localhost:5432/users")
	t.Setenv("HTTP_PORT", "8081")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("GRPC_ENABLED", "true")

	cfg, err := LoadConfig(t.TempDir(), nil)
	require.NoError(t, err)

	assert.Equal(t, "postgres://u:p@localhost:5432/users", cfg.DB.ConnectString)
	assert.Equal(t, "8081", cfg.App.HTTPPort)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.True(t, cfg.App.GRPCEnabled)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	content := "CONNECT_STRING=sqlite://from-file.db\nHTTP_REQUEST_TIMEOUT_SECONDS=3\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600))

	cfg, err := LoadConfig(dir, nil)
	require.NoError(t, err)

	assert.Equal(t, "sqlite://from-file.db", cfg.DB.ConnectString)
	assert.Equal(t, 3, cfg.App.RequestTimeoutSeconds)
}

func TestLoadConfig_FlagOverridesEnvironment(t *testing.T) {
	t.Setenv("CONNECT_STRING", "sqlite://env.db")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("connect-string", DefaultConnectString, "")

	cfg, err := LoadConfig(t.TempDir(), flags)
	require.NoError(t, err)
	assert.Equal(t, "sqlite://env.db", cfg.DB.ConnectString)

	require.NoError(t, flags.Parse([]string{"--connect-string", "sqlite://flag.db"}))
	cfg, err = LoadConfig(t.TempDir(), flags)
	require.NoError(t, err)
	assert.Equal(t, "sqlite://flag.db", cfg.DB.ConnectString)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg, err := LoadConfig(t.TempDir(), nil)
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{name: "empty connect string", mutate: func(c *Config) { c.DB.ConnectString = " " }, errMsg: "CONNECT_STRING"},
		{name: "zero timeout", mutate: func(c *Config) { c.App.RequestTimeoutSeconds = 0 }, errMsg: "HTTP_REQUEST_TIMEOUT_SECONDS"},
		{name: "grpc without port", mutate: func(c *Config) { c.App.GRPCEnabled = true; c.App.GRPCPort = "" }, errMsg: "GRPC_PORT"},
		{name: "rate limit without burst", mutate: func(c *Config) { c.RateLimit.Enabled = true; c.RateLimit.BurstCapacity = 0 }, errMsg: "RATE_LIMIT_BURST_CAPACITY"},
		{name: "negative pool", mutate: func(c *Config) { c.DB.MaxOpenConns = -1 }, errMsg: "DB_MAX_OPEN_CONNS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestRedisConfig_RedisAddr(t *testing.T) {
	c := RedisConfig{Host: "cache", Port: "6380"}
	assert.Equal(t, "cache:6380", c.RedisAddr())
}
