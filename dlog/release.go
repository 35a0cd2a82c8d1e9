//go:build !debug

package dlog

// Debugf is compiled out of release builds
func (l *Logger) Debugf(format string, v ...interface{}) {}

// Debug is compiled out of release builds
func (l *Logger) Debug(v ...interface{}) {}
