package logging

import "sync"

// LogEntry captures one logged message for inspection in tests.
type LogEntry struct {
	Level   string
	Message string
	Fields  []Field
}

// MockLogger is a Logger implementation that records entries instead of
// writing them anywhere. Intended for tests only.
type MockLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewMockLogger creates an empty MockLogger.
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (m *MockLogger) record(level, msg string, fields []Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, LogEntry{Level: level, Message: msg, Fields: fields})
}

// Debug records a debug-level entry
func (m *MockLogger) Debug(msg string, fields ...Field) { m.record("debug", msg, fields) }

// Info records an info-level entry
func (m *MockLogger) Info(msg string, fields ...Field) { m.record("info", msg, fields) }

// Warn records a warn-level entry
func (m *MockLogger) Warn(msg string, fields ...Field) { m.record("warn", msg, fields) }

// Error records an error-level entry
func (m *MockLogger) Error(msg string, fields ...Field) { m.record("error", msg, fields) }

// WithError returns the same logger; the error is attached as a field on record.
func (m *MockLogger) WithError(err error) Logger {
	return m
}

// WithField returns the same logger.
func (m *MockLogger) WithField(key string, value interface{}) Logger {
	return m
}

// WithFields returns the same logger.
func (m *MockLogger) WithFields(fields ...Field) Logger {
	return m
}

// Fatal records a fatal-level entry without exiting, so tests can assert on it.
func (m *MockLogger) Fatal(msg string, fields ...Field) { m.record("fatal", msg, fields) }

// Fatalf records a fatal-level entry without exiting.
func (m *MockLogger) Fatalf(msg string, args ...interface{}) { m.record("fatal", msg, nil) }

// Entries returns a copy of the recorded entries.
func (m *MockLogger) Entries() []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]LogEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// HasEntry reports whether an entry with the given level and message was recorded.
func (m *MockLogger) HasEntry(level, message string) bool {
	for _, e := range m.Entries() {
		if e.Level == level && e.Message == message {
			return true
		}
	}
	return false
}
