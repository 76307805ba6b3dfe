//go:build windows

package logger

import (
	"fmt"

	"golang.org/x/sys/windows/svc/eventlog"
)

// Event IDs for Windows Event Log entries.
const (
	EventIDInfo    uint32 = 1
	EventIDWarning uint32 = 2
	EventIDError   uint32 = 3
)

// EventLogger writes log messages to Windows Event Log. Debug messages are
// never forwarded; the event log is not a diagnostics channel.
type EventLogger struct {
	log EventLogWriter
}

// NewEventLogger opens the event source registered for the browser
// (typically "Aluminum") and returns a logger writing to it.
func NewEventLogger(sourceName string) (*EventLogger, error) {
	elog, err := eventlog.Open(sourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open event log: %w", err)
	}
	return &EventLogger{log: elog}, nil
}

// NewEventLoggerWithWriter creates an EventLogger over an arbitrary writer.
func NewEventLoggerWithWriter(w EventLogWriter) *EventLogger {
	return &EventLogger{log: w}
}

func (e *EventLogger) Debug(format string, args ...interface{}) {}

// Info logs an informational message with Event ID 1.
func (e *EventLogger) Info(format string, args ...interface{}) {
	// Error intentionally ignored: teardown must continue even if logging fails.
	_ = e.log.Info(EventIDInfo, fmt.Sprintf(format, args...))
}

// Warning logs a warning message with Event ID 2.
func (e *EventLogger) Warning(format string, args ...interface{}) {
	_ = e.log.Warning(EventIDWarning, fmt.Sprintf(format, args...))
}

// Error logs an error message with Event ID 3.
func (e *EventLogger) Error(format string, args ...interface{}) {
	_ = e.log.Error(EventIDError, fmt.Sprintf(format, args...))
}

// Close releases the Windows Event Log handle.
func (e *EventLogger) Close() error {
	if e.log != nil {
		return e.log.Close()
	}
	return nil
}

var _ Logger = (*EventLogger)(nil)
