// Package dlog is the dashboard's logger: a standard log.Logger with
// per-component prefixes and debug lines that exist only in -tags debug builds.
package dlog

import (
	"io"
	"log"
	"os"
)

type Logger struct {
	*log.Logger
}

// LoggerOption configures a Logger built by NewLogger
type LoggerOption func(*Logger)

// NewLogger writes to stderr with date and time unless options say otherwise
func NewLogger(options ...LoggerOption) *Logger {
	l := &Logger{log.New(os.Stderr, "", log.LstdFlags)}
	for _, apply := range options {
		apply(l)
	}
	return l
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	return NewLogger(LoggerSetOutput(io.Discard))
}

// Named returns a logger sharing l's output and flags whose lines start with
// "[name] ". Naming a named logger replaces the prefix.
func (l *Logger) Named(name string) *Logger {
	return &Logger{log.New(l.Writer(), "["+name+"] ", l.Flags())}
}

func LoggerSetOutput(w io.Writer) LoggerOption {
	return func(l *Logger) { l.SetOutput(w) }
}

func LoggerSetPrefix(p string) LoggerOption {
	return func(l *Logger) { l.SetPrefix(p) }
}

func LoggerSetFlags(flag int) LoggerOption {
	return func(l *Logger) { l.SetFlags(flag) }
}
