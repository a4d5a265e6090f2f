package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/thoreinstein/envseed/internal/errors"
)

// EnvDebug enables debug ("1", "true") or trace ("2") logging when no -v
// flag is given.
const EnvDebug = "ENVSEED_DEBUG"

// Options describes the logging flags of the CLI.
type Options struct {
	// Verbosity is the number of -v flags.
	Verbosity int
	// Quiet restricts output to errors.
	Quiet bool
	// Format is the format of the terminal log stream.
	Format Format
	// LogFile, when set, receives a JSON copy of every record.
	LogFile string
	// Output is the terminal stream, usually stderr.
	Output io.Writer
	// Color is the --color value.
	Color string
}

// Level resolves the effective level from the flags and EnvDebug.
func (o Options) Level() slog.Level {
	if o.Quiet {
		return slog.LevelError
	}

	v := o.Verbosity
	if v == 0 {
		switch os.Getenv(EnvDebug) {
		case "1", "true":
			v = 2
		case "2":
			v = 3
		}
	}
	return LevelFromVerbosity(v)
}

// Setup builds the CLI logger. The returned close function releases the
// log file and is never nil.
func Setup(o Options) (*slog.Logger, func() error, error) {
	noop := func() error { return nil }

	if o.Quiet && o.Verbosity > 0 {
		return nil, noop, errors.NewUserError(
			errors.New("--quiet and --verbose are mutually exclusive"), "Use either -q or -v")
	}

	format, err := ParseFormat(string(o.Format))
	if err != nil {
		return nil, noop, errors.NewUserError(err, "Use --log-format text or --log-format json")
	}

	mode, err := ParseColorMode(o.Color)
	if err != nil {
		return nil, noop, errors.NewUserError(err, "Use --color auto, always or never")
	}

	level := o.Level()
	primary := New(Config{Level: level, Format: format, Output: o.Output, Color: mode}).Handler()

	if o.LogFile == "" {
		return slog.New(primary), noop, nil
	}

	f, err := os.OpenFile(o.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, noop, errors.NewUserError(err, "failed to open log file")
	}

	// The file always gets JSON
	file := newJSONHandler(f, level)
	return slog.New(NewMultiHandler(primary, file)), f.Close, nil
}
