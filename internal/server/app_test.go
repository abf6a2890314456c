package server

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/falconusers/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.EndpointAddrHTTP = "127.0.0.1:0"
	c.DatabaseDriver = config.DriverMemory
	return c
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := logOutput
	logOutput = &buf
	t.Cleanup(func() { logOutput = orig })
	return &buf
}

func TestNewApp_WarnsOnDefaultSecret(t *testing.T) {
	logs := captureLogs(t)

	_, err := NewApp(context.Background(), testConfig())
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "falling back to the built-in default key")
}

func TestNewApp_RejectsInvalidConfig(t *testing.T) {
	captureLogs(t)

	c := testConfig()
	c.Environment = "production"
	_, err := NewApp(context.Background(), c)
	assert.ErrorContains(t, err, "default secret key is not allowed in production")

	c = testConfig()
	c.DatabaseDriver = "oracle"
	_, err = NewApp(context.Background(), c)
	assert.Error(t, err)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	logs := captureLogs(t)

	c := testConfig()
	c.SecretKey = "configured"
	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop after context cancel")
	}
	assert.Contains(t, logs.String(), "App stopped")
}
