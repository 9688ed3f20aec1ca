package spies

import (
	"context"
	"fmt"
	"sync"

	"github.com/AntonStoeckl/specification-filter-go/specification"
)

const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// LoggerSpy implements specification.Logger and specification.ContextualLogger and captures all calls.
type LoggerSpy struct {
	records     []SpyLogRecord
	mu          sync.Mutex
	recordCalls bool
}

// SpyLogRecord represents a recorded log call, Context is nil for calls of the plain Logger methods.
type SpyLogRecord struct {
	Level   string
	Message string
	Args    []any
	Context context.Context
}

// NewLoggerSpy creates a new LoggerSpy, set recordCalls to true to capture the calls.
func NewLoggerSpy(recordCalls bool) *LoggerSpy {
	return &LoggerSpy{recordCalls: recordCalls}
}

func (s *LoggerSpy) Debug(msg string, args ...any) { s.record(nil, LevelDebug, msg, args) }
func (s *LoggerSpy) Info(msg string, args ...any)  { s.record(nil, LevelInfo, msg, args) }
func (s *LoggerSpy) Warn(msg string, args ...any)  { s.record(nil, LevelWarn, msg, args) }
func (s *LoggerSpy) Error(msg string, args ...any) { s.record(nil, LevelError, msg, args) }

func (s *LoggerSpy) DebugContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, LevelDebug, msg, args)
}

func (s *LoggerSpy) InfoContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, LevelInfo, msg, args)
}

func (s *LoggerSpy) WarnContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, LevelWarn, msg, args)
}

func (s *LoggerSpy) ErrorContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, LevelError, msg, args)
}

func (s *LoggerSpy) record(ctx context.Context, level, msg string, args []any) {
	if !s.recordCalls {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, SpyLogRecord{
		Level:   level,
		Message: msg,
		Args:    append([]any(nil), args...),
		Context: ctx,
	})
}

// GetRecords returns a copy of all captured records.
func (s *LoggerSpy) GetRecords() []SpyLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpyLogRecord(nil), s.records...)
}

// GetRecordCount returns the number of captured records.
func (s *LoggerSpy) GetRecordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}

// Reset clears all captured records.
func (s *LoggerSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = s.records[:0]
}

// HasLogWithMessage checks if a record with the level and message exists.
func (s *LoggerSpy) HasLogWithMessage(level, message string) bool {
	for _, record := range s.GetRecords() {
		if record.Level == level && record.Message == message {
			return true
		}
	}

	return false
}

// HasLogWithAttribute checks if a record with the level carries the key/value pair,
// values are compared by their fmt representation.
func (s *LoggerSpy) HasLogWithAttribute(level, key, value string) bool {
	for _, record := range s.GetRecords() {
		if record.Level != level {
			continue
		}

		for i := 0; i+1 < len(record.Args); i += 2 {
			if record.Args[i] == key && fmt.Sprint(record.Args[i+1]) == value {
				return true
			}
		}
	}

	return false
}

// HasContextualLog checks if a record with the level and message was logged through the ContextualLogger methods.
func (s *LoggerSpy) HasContextualLog(level, message string) bool {
	for _, record := range s.GetRecords() {
		if record.Level == level && record.Message == message && record.Context != nil {
			return true
		}
	}

	return false
}

func (s *LoggerSpy) HasDebugLogWithMessage(message string) bool {
	return s.HasLogWithMessage(LevelDebug, message)
}

func (s *LoggerSpy) HasInfoLogWithMessage(message string) bool {
	return s.HasLogWithMessage(LevelInfo, message)
}

func (s *LoggerSpy) HasWarnLogWithMessage(message string) bool {
	return s.HasLogWithMessage(LevelWarn, message)
}

func (s *LoggerSpy) HasErrorLogWithMessage(message string) bool {
	return s.HasLogWithMessage(LevelError, message)
}

func (s *LoggerSpy) HasInfoLogWithAttribute(key, value string) bool {
	return s.HasLogWithAttribute(LevelInfo, key, value)
}

func (s *LoggerSpy) HasErrorLogWithAttribute(key, value string) bool {
	return s.HasLogWithAttribute(LevelError, key, value)
}

var _ specification.Logger = (*LoggerSpy)(nil)
var _ specification.ContextualLogger = (*LoggerSpy)(nil)
