package slogutil

import (
	"io"
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/javi11/greetbuf/internal/config"
)

// ParseLevel maps a configured level name to a slog level. Unknown names fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetupLogging builds a text logger writing to console and, when logConfig.File is set,
// also to a lumberjack-rotated file. The returned closer releases the log file and must be
// called once logging is done.
func SetupLogging(console io.Writer, logConfig config.LogConfig) (*slog.Logger, io.Closer) {
	writer := console
	var closer io.Closer = nopCloser{}

	if logConfig.File != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   logConfig.File,
			MaxSize:    logConfig.MaxSize,    // MB
			MaxBackups: logConfig.MaxBackups, // number of old files
			MaxAge:     logConfig.MaxAge,     // days
			Compress:   logConfig.Compress,   // compress old files
		}
		writer = io.MultiWriter(console, fileWriter)
		closer = fileWriter
	}

	level := logConfig.Level
	if level == "" {
		level = "warn"
	}

	leveler := NewDynamicLeveler(ParseLevel(level))

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level: leveler,
	})

	return slog.New(WrapHandler(handler)), closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
