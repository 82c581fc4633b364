package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"", slog.LevelInfo, false},
		{"WARN", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLogger_ComponentField(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Component: ComponentBudget, Handler: NewHandler(&buf, slog.LevelInfo, "json")})

	logger.Info("budget evaluated", FieldEntityID, "b1")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON log line: %v", err)
	}
	if entry[FieldComponent] != ComponentBudget {
		t.Errorf("component = %v, want %v", entry[FieldComponent], ComponentBudget)
	}
	if entry[FieldEntityID] != "b1" {
		t.Errorf("entity_id = %v", entry[FieldEntityID])
	}
}

func TestFromContext(t *testing.T) {
	logger := New(Config{Component: ComponentHTTP, Handler: NewHandler(&bytes.Buffer{}, slog.LevelInfo, "text")})

	ctx := context.WithValue(context.Background(), LoggerContextKey, logger)
	if FromContext(ctx) != logger {
		t.Error("FromContext should return the logger stored in the context")
	}
	if FromContext(context.Background()).Component() != "unknown" {
		t.Error("FromContext without a logger should fall back to the default")
	}
}

func TestStructuredLogger_LogEntityChange(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Component: ComponentHTTP, Handler: NewHandler(&buf, slog.LevelInfo, "json")}))

	sl.LogEntityChange(context.Background(), OpDelete, ComponentGoal, "g1", "u1")

	line := buf.String()
	if strings.Count(line, `"component"`) != 1 {
		t.Errorf("component should appear once: %s", line)
	}
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON log line: %v", err)
	}
	if entry["msg"] != "Entity deleted" || entry[FieldComponent] != ComponentGoal || entry[FieldUserID] != "u1" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestStructuredLogger_LogAuth(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Component: ComponentHTTP, Handler: NewHandler(&buf, slog.LevelInfo, "json")}))

	sl.LogAuth(context.Background(), OpLogin, "u1")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON log line: %v", err)
	}
	if entry[FieldComponent] != ComponentAuth || entry[FieldOperation] != OpLogin || entry[FieldUserID] != "u1" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestStructuredLogger_LogError(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Component: ComponentApp, Handler: NewHandler(&buf, slog.LevelInfo, "json")}))

	sl.LogError(context.Background(), "store failed", errors.New("boom"), ComponentStorage, OpCreate, nil)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON log line: %v", err)
	}
	if entry[FieldError] != "boom" || entry[FieldOperation] != OpCreate {
		t.Errorf("unexpected entry: %v", entry)
	}
}
