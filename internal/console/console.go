// Package console writes user-facing lint output, coloured when the
// destination is a terminal.
package console

import (
	"fmt"
	"io"
	"os"
)

// ANSI escape codes for TTY output.
const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Gray   = "\033[90m"
)

// Console is a writer that knows whether it may emit escape codes.
type Console struct {
	w     io.Writer
	color bool
}

// New returns a Console writing to w. Colour is used only if color is true.
func New(w io.Writer, color bool) *Console {
	return &Console{w: w, color: color}
}

// Discard returns a Console that drops everything.
func Discard() *Console {
	return New(io.Discard, false)
}

// IsTerminal reports whether f is a character device.
func IsTerminal(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// Paint wraps s in the given escape code, or returns s unchanged when
// colour is disabled.
func (c *Console) Paint(code, s string) string {
	if !c.color || code == "" {
		return s
	}
	return code + s + Reset
}

func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.w, format, args...)
}

func (c *Console) Println(args ...any) {
	fmt.Fprintln(c.w, args...)
}
