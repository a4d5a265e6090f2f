package logging

import (
	"context"
	"log/slog"

	"github.com/thoreinstein/envseed/internal/errors"
)

// MultiHandler tees records to several handlers. Setup uses it to send
// the terminal stream and the --log-file JSON copy the same records.
type MultiHandler struct {
	handlers []slog.Handler
}

// NewMultiHandler tees to the given handlers, ignoring nil ones.
func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	var m MultiHandler
	for _, h := range handlers {
		if h != nil {
			m.handlers = append(m.handlers, h)
		}
	}
	return &m
}

// Enabled is true when any handler accepts level.
func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle passes a clone of r to each handler that accepts its level. A
// failing handler does not starve the others; all failures are returned
// together.
func (m *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error
	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			err = errors.CombineErrors(err, h.Handle(ctx, r.Clone()))
		}
	}
	return err
}

func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return m.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (m *MultiHandler) WithGroup(name string) slog.Handler {
	return m.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (m *MultiHandler) derive(fn func(slog.Handler) slog.Handler) *MultiHandler {
	out := &MultiHandler{handlers: make([]slog.Handler, len(m.handlers))}
	for i, h := range m.handlers {
		out.handlers[i] = fn(h)
	}
	return out
}
