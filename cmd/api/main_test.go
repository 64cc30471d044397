package main

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/config"
)

func TestServe_StopsOnCancel(t *testing.T) {
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)

	go func() { done <- serve(ctx, srv, time.Second) }()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

func TestServe_ListenError(t *testing.T) {
	srv := &http.Server{Addr: "256.0.0.1:80", Handler: http.NotFoundHandler()}

	err := serve(t.Context(), srv, time.Second)
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	cfg := &config.Config{}
	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"

	logger := newLogger(cfg)
	assert.True(t, logger.Enabled(t.Context(), slog.LevelDebug))

	cfg.Log.Level = "error"
	cfg.Log.Format = "text"

	logger = newLogger(cfg)
	assert.False(t, logger.Enabled(t.Context(), slog.LevelWarn))
}
