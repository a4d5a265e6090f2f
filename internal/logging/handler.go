package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Attribute keys rendered as a "[batch/task]" scope before the message
// instead of as key=value pairs.
const (
	KeyBatch = "batch"
	KeyTask  = "task"
)

// palette holds the colors of a Handler. Nil colors print plain text.
type palette struct {
	time, key, scope          *color.Color
	debug, info, warn, danger *color.Color
}

func newPalette(enabled bool) palette {
	if !enabled {
		return palette{}
	}
	// The caller decided; fatih/color must not second-guess it
	c := func(attrs ...color.Attribute) *color.Color {
		col := color.New(attrs...)
		col.EnableColor()
		return col
	}
	return palette{
		time:   c(color.FgHiBlack),
		key:    c(color.FgCyan),
		scope:  c(color.FgBlue),
		debug:  c(color.FgMagenta),
		info:   c(color.FgGreen),
		warn:   c(color.FgYellow),
		danger: c(color.FgRed, color.Bold),
	}
}

func paint(c *color.Color, s string) string {
	if c == nil {
		return s
	}
	return c.Sprint(s)
}

func (p palette) level(l slog.Level) string {
	label := fmt.Sprintf("%-5s", l.String())
	switch {
	case l >= slog.LevelError:
		return paint(p.danger, label)
	case l >= slog.LevelWarn:
		return paint(p.warn, label)
	case l >= slog.LevelInfo:
		return paint(p.info, label)
	default:
		return paint(p.debug, label)
	}
}

// Handler is a slog.Handler for terminals. Records are written as
//
//	3:04PM INFO  [files/defaults] task finished status=successful
//
// with colors when the writer supports them and secrets masked.
type Handler struct {
	opts   slog.HandlerOptions
	out    io.Writer
	mu     *sync.Mutex
	colors palette

	batch, task string
	attrs       []slog.Attr
	groups      []string
}

// NewHandler creates a Handler writing to out, colored when out is a
// terminal.
func NewHandler(out io.Writer, opts *slog.HandlerOptions) *Handler {
	return newHandler(out, opts, SupportsColor(out))
}

func newHandler(out io.Writer, opts *slog.HandlerOptions, colored bool) *Handler {
	h := &Handler{out: out, mu: &sync.Mutex{}, colors: newPalette(colored)}
	if opts != nil {
		h.opts = *opts
	}
	return h
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle formats r into a single line and writes it with one call.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	batch, task := h.batch, h.task
	var attrs []slog.Attr
	r.Attrs(func(a slog.Attr) bool {
		switch {
		case len(h.groups) == 0 && a.Key == KeyBatch:
			batch = a.Value.String()
		case len(h.groups) == 0 && a.Key == KeyTask:
			task = a.Value.String()
		default:
			attrs = append(attrs, a)
		}
		return true
	})

	var buf bytes.Buffer
	if !r.Time.IsZero() {
		buf.WriteString(paint(h.colors.time, r.Time.Format(time.Kitchen)))
		buf.WriteByte(' ')
	}
	buf.WriteString(h.colors.level(r.Level))
	buf.WriteByte(' ')

	if scope := joinScope(batch, task); scope != "" {
		buf.WriteString(paint(h.colors.scope, "["+scope+"]"))
		buf.WriteByte(' ')
	}
	buf.WriteString(r.Message)

	// WithAttrs already qualified these keys
	for _, a := range h.attrs {
		h.writeAttr(&buf, nil, a)
	}
	for _, a := range attrs {
		h.writeAttr(&buf, h.groups, a)
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf.Bytes())
	return err
}

func joinScope(batch, task string) string {
	switch {
	case batch != "" && task != "":
		return batch + "/" + task
	case batch != "":
		return batch
	default:
		return task
	}
}

func (h *Handler) writeAttr(buf *bytes.Buffer, groups []string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			groups = append(groups[:len(groups):len(groups)], a.Key)
		}
		for _, ga := range a.Value.Group() {
			h.writeAttr(buf, groups, ga)
		}
		return
	}

	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}

	value := a.Value.String()
	if ShouldMask(a.Key) || ContainsTokenPrefix(value) {
		value = MaskValue(value)
	}

	fmt.Fprintf(buf, " %s=%s", paint(h.colors.key, key), value)
}

// WithAttrs returns a Handler that adds attrs to every record. Batch and
// task attributes become the record scope.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(nh.attrs, h.attrs)
	for _, a := range attrs {
		switch {
		case len(h.groups) == 0 && a.Key == KeyBatch:
			nh.batch = a.Value.String()
		case len(h.groups) == 0 && a.Key == KeyTask:
			nh.task = a.Value.String()
		default:
			if len(h.groups) > 0 {
				a = slog.Attr{Key: strings.Join(h.groups, ".") + "." + a.Key, Value: a.Value}
			}
			nh.attrs = append(nh.attrs, a)
		}
	}
	return &nh
}

// WithGroup returns a Handler that prefixes later keys with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	nh.groups = append(h.groups[:len(h.groups):len(h.groups)], name)
	return &nh
}
