package slogutil

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javi11/greetbuf/internal/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestDynamicLeveler(t *testing.T) {
	var zero DynamicLeveler
	assert.Equal(t, slog.LevelInfo, zero.Level())

	dl := NewDynamicLeveler(slog.LevelWarn)
	assert.Equal(t, slog.LevelWarn, dl.Level())
	dl.SetLevel(slog.LevelDebug)
	assert.Equal(t, slog.LevelDebug, dl.Level())
}

func TestSetupLogging_DefaultLevelIsQuiet(t *testing.T) {
	var console bytes.Buffer
	logger, closer := SetupLogging(&console, config.LogConfig{})
	defer func() { assert.NoError(t, closer.Close()) }()

	logger.Info("Buffer acquired")
	assert.Empty(t, console.String())

	logger.Warn("Allocation limit reached")
	assert.Contains(t, console.String(), "Allocation limit reached")
}

func TestSetupLogging_WritesFile(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "greetbuf.log")

	logger, closer := SetupLogging(&console, config.LogConfig{File: path, Level: "debug", MaxSize: 1})
	logger.Debug("Buffer released", "capacity", 14)
	require.NoError(t, closer.Close())

	assert.Contains(t, console.String(), "capacity=14")
	assert.FileExists(t, path)
}

func TestHandler_AddsContextAttrs(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(WrapHandler(slog.NewTextHandler(&out, nil)))

	ctx := WithAttrs(context.Background(), slog.String("allocator", "heap"))
	ctx = With(ctx, "capacity", 14)

	logger.InfoContext(ctx, "Buffer acquired")

	assert.Contains(t, out.String(), "allocator=heap")
	assert.Contains(t, out.String(), "capacity=14")
	assert.Equal(t, []slog.Attr{slog.String("allocator", "heap"), slog.Int("capacity", 14)}, Attrs(ctx))
}

func TestWithAttrs_DoesNotMutateParent(t *testing.T) {
	parent := With(context.Background(), "component", "buffer")
	child := With(parent, "component", "greeting", "exit_code", 1)

	assert.Len(t, Attrs(parent), 1)
	assert.Equal(t, "buffer", Attrs(parent)[0].Value.String())
	assert.Len(t, Attrs(child), 2)
	assert.Equal(t, parent, With(parent))
}
