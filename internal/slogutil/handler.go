package slogutil

import (
	"context"
	"log/slog"
	"os"
)

// Handler is a slog.Handler that adds the attributes stored in the record context
// (see WithAttrs) before delegating.
type Handler struct {
	handler slog.Handler
}

// WrapHandler creates a new Handler with the given slog.Handler.
// If the provided handler is nil, a text handler on stderr is used; stdout carries program output only.
func WrapHandler(h slog.Handler) Handler {
	if h == nil {
		h = slog.NewTextHandler(os.Stderr, nil)
	}

	return Handler{handler: h}
}

func (h Handler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.handler.Enabled(ctx, l)
}

func (h Handler) Handle(ctx context.Context, r slog.Record) error {
	if attrs := Attrs(ctx); len(attrs) > 0 {
		r = r.Clone()
		r.AddAttrs(attrs...)
	}

	return h.handler.Handle(ctx, r)
}

func (h Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return Handler{handler: h.handler.WithAttrs(attrs)}
}

func (h Handler) WithGroup(name string) slog.Handler {
	return Handler{handler: h.handler.WithGroup(name)}
}
