package logging

import (
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/thoreinstein/envseed/internal/errors"
)

// ColorMode is the value of the --color flag.
type ColorMode string

const (
	// ColorAuto colors terminals unless the environment opts out.
	ColorAuto ColorMode = "auto"
	// ColorAlways colors every stream, including pipes and files.
	ColorAlways ColorMode = "always"
	// ColorNever disables color.
	ColorNever ColorMode = "never"
)

// ErrInvalidColorMode is returned by ParseColorMode for unknown modes.
var ErrInvalidColorMode = errors.New("invalid color mode")

// ParseColorMode parses a --color value. Empty means ColorAuto.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ColorAuto, nil
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	default:
		return "", errors.Wrapf(ErrInvalidColorMode, "%q (want auto, always or never)", s)
	}
}

// Enabled reports whether output written to w should carry ANSI colors.
func (m ColorMode) Enabled(w io.Writer) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return autoColor(IsTTY(w))
	}
}

// IsTTY reports whether w is a terminal. Any writer with an Fd method,
// such as *os.File, is checked.
func IsTTY(w io.Writer) bool {
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// SupportsColor is ColorAuto.Enabled(w).
func SupportsColor(w io.Writer) bool {
	return ColorAuto.Enabled(w)
}

// autoColor applies NO_COLOR (https://no-color.org), CLICOLOR_FORCE and
// TERM=dumb on top of terminal detection. NO_COLOR wins over everything.
func autoColor(isTTY bool) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if v := os.Getenv("CLICOLOR_FORCE"); v != "" && v != "0" {
		return true
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTTY
}

// ConfigureColor sets fatih/color's global switch so that command output
// follows the same mode as log output.
func ConfigureColor(w io.Writer, mode ColorMode) {
	color.NoColor = !mode.Enabled(w)
}
