// Package display renders batch progress and results for humans.
// Nothing here is authoritative: it consumes tracker snapshots and bus
// events, and the summary it prints is derived from batch results.
package display

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Interactive reports whether f can host an in-place live display.
// Dumb terminals get the plain line-per-event output instead.
func Interactive(f *os.File) bool {
	return IsTerminal(f) && strings.ToLower(os.Getenv("TERM")) != "dumb"
}

// ColorEnabled reports whether ANSI colors should be emitted on f,
// honoring the NO_COLOR convention (https://no-color.org).
func ColorEnabled(f *os.File) bool {
	return Interactive(f) && os.Getenv("NO_COLOR") == ""
}
