package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

type TestLogHandler struct {
	mu      sync.Mutex
	records []TestLogRecord
}

type TestLogRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

func NewTestLogHandler() *TestLogHandler {
	return &TestLogHandler{
		records: make([]TestLogRecord, 0),
	}
}

// NewTestLogger returns a logger that records everything into the returned handler.
func NewTestLogger() (*slog.Logger, *TestLogHandler) {
	handler := NewTestLogHandler()
	return slog.New(handler), handler
}

func (h *TestLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return true
}

func (h *TestLogHandler) Handle(ctx context.Context, record slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	attrs := make(map[string]any)
	record.Attrs(func(attr slog.Attr) bool {
		attrs[attr.Key] = attr.Value.Any()
		return true
	})
	h.records = append(h.records, TestLogRecord{
		Level:   record.Level,
		Message: record.Message,
		Attrs:   attrs,
	})

	return nil
}

func (h *TestLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h *TestLogHandler) WithGroup(name string) slog.Handler {
	return h
}

func (h *TestLogHandler) Records() []TestLogRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]TestLogRecord(nil), h.records...)
}

func (h *TestLogHandler) RecordsByLevel(level slog.Level) []TestLogRecord {
	var filtered []TestLogRecord
	for _, record := range h.Records() {
		if record.Level == level {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

// ContainsMessage reports whether a record at level contains message as a substring.
func (h *TestLogHandler) ContainsMessage(level slog.Level, message string) bool {
	for _, record := range h.RecordsByLevel(level) {
		if strings.Contains(record.Message, message) {
			return true
		}
	}
	return false
}

func (h *TestLogHandler) CountMessage(message string) int {
	count := 0
	for _, record := range h.Records() {
		if record.Message == message {
			count++
		}
	}
	return count
}
