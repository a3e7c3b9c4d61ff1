package commands

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

type telemetryLogger struct {
	fields   []map[string]any
	messages []string
}

func (l *telemetryLogger) Trace(string, ...any) {}
func (l *telemetryLogger) Debug(string, ...any) {}
func (l *telemetryLogger) Warn(string, ...any)  {}
func (l *telemetryLogger) Fatal(string, ...any) {}

func (l *telemetryLogger) Info(msg string, _ ...any) {
	l.messages = append(l.messages, msg)
}

func (l *telemetryLogger) Error(msg string, _ ...any) {
	l.messages = append(l.messages, msg)
}

func (l *telemetryLogger) WithContext(context.Context) interfaces.Logger { return l }

func (l *telemetryLogger) WithFields(fields map[string]any) interfaces.Logger {
	l.fields = append(l.fields, fields)
	return l
}

func TestDefaultTelemetryAttachesFields(t *testing.T) {
	logger := &telemetryLogger{}
	emit := DefaultTelemetry[testMessage](logger)

	emit(context.Background(), testMessage{}, TelemetryInfo{
		Command:  "sitegen.test.message",
		Fields:   map[string]any{"dry_run": true},
		Duration: 5 * time.Millisecond,
		Status:   TelemetryStatusSuccess,
	})

	if len(logger.fields) != 1 || logger.fields[0]["dry_run"] != true {
		t.Fatalf("expected dry_run field, got %v", logger.fields)
	}
	if len(logger.messages) != 1 || logger.messages[0] != "command.execute.success" {
		t.Fatalf("unexpected messages %v", logger.messages)
	}
}

func TestDefaultTelemetrySkipsFieldsWhenAbsent(t *testing.T) {
	logger := &telemetryLogger{}
	emit := DefaultTelemetry[testMessage](logger)

	emit(context.Background(), testMessage{}, TelemetryInfo{
		Command: "sitegen.test.message",
		Status:  TelemetryStatusFailed,
	})

	if len(logger.fields) != 0 {
		t.Fatalf("expected no fields, got %v", logger.fields)
	}
	if len(logger.messages) != 1 || logger.messages[0] != "command.execute.failed" {
		t.Fatalf("unexpected messages %v", logger.messages)
	}
}
