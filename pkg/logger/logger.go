// Package logger provides the logging sink injected into the cookie jar and
// the private session. Components never log through a process-wide logger;
// they receive a Logger at construction time.
package logger

import (
	"fmt"
	"log"
)

// Logger defines the interface for leveled logging across all Aluminum components.
// Implementations may log to console, files or the Windows Event Log.
type Logger interface {
	// Debug logs a diagnostic message (e.g., "cookie sid set for example.com").
	// Implementations may drop debug output unless explicitly enabled.
	Debug(format string, args ...interface{})

	// Info logs an informational message (e.g., "private session started").
	Info(format string, args ...interface{})

	// Warning logs a warning message (e.g., "invalid max-age in Set-Cookie header").
	Warning(format string, args ...interface{})

	// Error logs an error message (e.g., "failed to overwrite scratch file").
	Error(format string, args ...interface{})

	// Close releases resources held by the logger (e.g., Windows Event Log handle).
	// Safe to call multiple times. Returns nil for loggers without resources.
	Close() error
}

// StandardLogger wraps the stdlib *log.Logger for console/file output.
type StandardLogger struct {
	logger *log.Logger
	debug  bool
}

// NewStandardLogger creates a logger that wraps the given *log.Logger.
// Debug messages are discarded unless debug is true.
func NewStandardLogger(l *log.Logger, debug bool) *StandardLogger {
	return &StandardLogger{logger: l, debug: debug}
}

// Debug logs a diagnostic message with [DEBUG] prefix when debugging is enabled.
func (s *StandardLogger) Debug(format string, args ...interface{}) {
	if !s.debug {
		return
	}
	s.logger.Printf("[DEBUG] "+format, args...)
}

// Info logs an informational message with [INFO] prefix.
func (s *StandardLogger) Info(format string, args ...interface{}) {
	s.logger.Printf("[INFO] "+format, args...)
}

// Warning logs a warning message with [WARNING] prefix.
func (s *StandardLogger) Warning(format string, args ...interface{}) {
	s.logger.Printf("[WARNING] "+format, args...)
}

// Error logs an error message with [ERROR] prefix.
func (s *StandardLogger) Error(format string, args ...interface{}) {
	s.logger.Printf("[ERROR] "+format, args...)
}

// Close is a no-op for StandardLogger (no resources to release).
func (s *StandardLogger) Close() error {
	return nil
}

// NopLogger is a logger that discards all messages.
// It is the default sink for the jar and the private session.
type NopLogger struct{}

// NewNopLogger creates a logger that discards all messages.
func NewNopLogger() *NopLogger {
	return &NopLogger{}
}

func (n *NopLogger) Debug(format string, args ...interface{})   {}
func (n *NopLogger) Info(format string, args ...interface{})    {}
func (n *NopLogger) Warning(format string, args ...interface{}) {}
func (n *NopLogger) Error(format string, args ...interface{})   {}

// Close is a no-op.
func (n *NopLogger) Close() error {
	return nil
}

// Ensure implementations satisfy the Logger interface.
var (
	_ Logger = (*StandardLogger)(nil)
	_ Logger = (*NopLogger)(nil)
)

// MockLogger implements Logger for testing purposes.
// It records all log calls for verification in tests.
type MockLogger struct {
	DebugCalls   []string
	InfoCalls    []string
	WarningCalls []string
	ErrorCalls   []string
	CloseCalled  bool
}

// NewMockLogger creates a new MockLogger for testing.
func NewMockLogger() *MockLogger {
	return &MockLogger{
		DebugCalls:   make([]string, 0),
		InfoCalls:    make([]string, 0),
		WarningCalls: make([]string, 0),
		ErrorCalls:   make([]string, 0),
	}
}

// Debug records the formatted message.
func (m *MockLogger) Debug(format string, args ...interface{}) {
	m.DebugCalls = append(m.DebugCalls, fmt.Sprintf(format, args...))
}

// Info records the formatted message.
func (m *MockLogger) Info(format string, args ...interface{}) {
	m.InfoCalls = append(m.InfoCalls, fmt.Sprintf(format, args...))
}

// Warning records the formatted message.
func (m *MockLogger) Warning(format string, args ...interface{}) {
	m.WarningCalls = append(m.WarningCalls, fmt.Sprintf(format, args...))
}

// Error records the formatted message.
func (m *MockLogger) Error(format string, args ...interface{}) {
	m.ErrorCalls = append(m.ErrorCalls, fmt.Sprintf(format, args...))
}

// Close records that Close was called.
func (m *MockLogger) Close() error {
	m.CloseCalled = true
	return nil
}

// All returns every recorded message regardless of level, in level order
// debug, info, warning, error.
func (m *MockLogger) All() []string {
	out := make([]string, 0, len(m.DebugCalls)+len(m.InfoCalls)+len(m.WarningCalls)+len(m.ErrorCalls))
	out = append(out, m.DebugCalls...)
	out = append(out, m.InfoCalls...)
	out = append(out, m.WarningCalls...)
	return append(out, m.ErrorCalls...)
}

// Ensure MockLogger satisfies the Logger interface.
var _ Logger = (*MockLogger)(nil)

// OrNop returns l, or a NopLogger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return NewNopLogger()
	}
	return l
}
