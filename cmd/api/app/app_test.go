package app

import (
	"context"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"

	"user-record-service/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		DB: config.DatabaseConfig{
			ConnectString: "sqlite://" + filepath.Join(t.TempDir(), "users.db"),
			MaxOpenConns:  4,
			MaxIdleConns:  2,
		},
		App: config.AppConfig{
			HTTPPort:               "0",
			RequestTimeoutSeconds:  5,
			ShutdownTimeoutSeconds: 5,
			Environment:            "test",
		},
		Logger: config.LoggerConfig{ServiceName: "test", OutputPath: "discard"},
	}
}

func TestApp_RunUntilCanceled(t *testing.T) {
	a, err := New(context.Background(), testConfig(t), zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	_, port, err := net.SplitHostPort(a.Server.HTTPAddr())
	require.NoError(t, err)
	resp, err := http.Get("http://127.0.0.1:" + port + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestApp_PortInUse(t *testing.T) {
	lis, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = lis.Close() })
	_, port, err := net.SplitHostPort(lis.Addr().String())
	require.NoError(t, err)

	cfg := testConfig(t)
	cfg.App.HTTPPort = port

	_, err = New(context.Background(), cfg, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestNewLogger_FallbackLevel(t *testing.T) {
	cfg := testConfig(t)

	l, err := NewLogger(cfg, "warn")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	cfg.Logger.Level = "debug"
	l, err = NewLogger(cfg, "warn")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestLoadConfig_ConfigPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", t.TempDir())
	t.Setenv("CONNECT_STRING", "sqlite::memory:")

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "sqlite::memory:", cfg.DB.ConnectString)
}
