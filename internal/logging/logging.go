package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/thoreinstein/envseed/internal/errors"
)

// LevelTrace is more verbose than slog.LevelDebug.
const LevelTrace = slog.LevelDebug - 4

// Format is the encoding of log records.
type Format string

const (
	// FormatText selects the terminal Handler.
	FormatText Format = "text"
	// FormatJSON selects slog's JSON handler.
	FormatJSON Format = "json"
)

// ErrInvalidFormat is returned by ParseFormat for unknown formats.
var ErrInvalidFormat = errors.New("invalid log format")

// ParseFormat parses a --log-format value. Empty means FormatText.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON:
		return f, nil
	default:
		return "", errors.Wrapf(ErrInvalidFormat, "%q (want text or json)", s)
	}
}

// Config holds the configuration for creating a new logger.
type Config struct {
	// Level is the minimum level logged.
	Level slog.Level
	// Format selects text or JSON; anything else means text.
	Format Format
	// Output defaults to os.Stderr.
	Output io.Writer
	// Color applies to the text format. Empty means ColorAuto.
	Color ColorMode
}

// New creates a logger from cfg. Both formats mask values of secret
// looking keys.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	if cfg.Format == FormatJSON {
		return slog.New(newJSONHandler(out, cfg.Level))
	}
	mode := cfg.Color
	if mode == "" {
		mode = ColorAuto
	}
	return slog.New(newHandler(out, &slog.HandlerOptions{Level: cfg.Level}, mode.Enabled(out)))
}

func newJSONHandler(w io.Writer, level slog.Leveler) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: maskAttr,
	})
}

// maskAttr is a slog.HandlerOptions.ReplaceAttr masking secrets.
func maskAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindString {
		if ShouldMask(a.Key) && a.Value.Kind() != slog.KindGroup {
			return slog.String(a.Key, MaskValue(a.Value.String()))
		}
		return a
	}
	if v := a.Value.String(); ShouldMask(a.Key) || ContainsTokenPrefix(v) {
		return slog.String(a.Key, MaskValue(v))
	}
	return a
}

// LevelFromVerbosity maps a count of -v flags to a log level:
// 0 is Warn, 1 is Info, 2 is Debug and 3 or more is Trace.
func LevelFromVerbosity(v int) slog.Level {
	switch {
	case v <= 0:
		return slog.LevelWarn
	case v == 1:
		return slog.LevelInfo
	case v == 2:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying logger.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored in ctx by NewContext, or
// slog.Default() if there is none.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok && logger != nil {
			return logger
		}
	}
	return slog.Default()
}

// testWriter sends each log line to t.Log.
type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// ForTest returns a Debug level logger writing to the test log, so
// records show up only for failing tests or with -v.
func ForTest(t testing.TB) *slog.Logger {
	t.Helper()
	return New(Config{Level: slog.LevelDebug, Format: FormatText, Output: testWriter{t: t}})
}
