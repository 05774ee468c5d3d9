package slogutil

import (
	"log/slog"
	"sync/atomic"
)

type DynamicLeveler struct {
	level atomic.Value
}

// NewDynamicLeveler creates a leveler starting at level.
func NewDynamicLeveler(level slog.Level) *DynamicLeveler {
	dl := &DynamicLeveler{}
	dl.SetLevel(level)
	return dl
}

// Level returns the current logging level.
func (dl *DynamicLeveler) Level() slog.Level {
	level, ok := dl.level.Load().(slog.Level)
	if !ok {
		return slog.LevelInfo
	}
	return level
}

// SetLevel updates the logging level.
func (dl *DynamicLeveler) SetLevel(level slog.Level) {
	dl.level.Store(level)
}
