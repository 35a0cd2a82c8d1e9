//go:build debug

package dlog

import (
	"fmt"
)

// Debugf logs like Printf; only debug builds print it
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.Output(2, "DEBUG "+fmt.Sprintf(format, v...))
}

// Debug logs like Print; only debug builds print it
func (l *Logger) Debug(v ...interface{}) {
	l.Output(2, "DEBUG "+fmt.Sprint(v...))
}
