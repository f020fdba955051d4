package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newJSONLogger(buf *bytes.Buffer, level string) *Logger {
	cfg := &Config{Level: level, Format: FormatJSON}
	return NewWithWriter(cfg, "geocode", buf)
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	line := strings.TrimSpace(buf.String())
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("invalid JSON log line %q: %v", line, err)
	}
	return m
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("geocode")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "geocode" {
		t.Errorf("expected service 'geocode', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	cfg := &Config{Level: "invalid-level", Format: FormatJSON}
	var buf bytes.Buffer
	l := NewWithWriter(cfg, "test", &buf)
	l.Info("still logs at info")
	if buf.Len() == 0 {
		t.Error("expected invalid level to fall back to info")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, "warn")
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected info to be filtered at warn level, got %q", buf.String())
	}
	l.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected warn message, got %q", buf.String())
	}
}

func TestJSONIncludesServiceAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, "debug")
	l.Info("dispatch ok", QueryFields("osm", "geocode", "Ottawa"))

	m := decodeLine(t, &buf)
	if m[FieldService] != "geocode" {
		t.Errorf("expected service=geocode, got %v", m[FieldService])
	}
	if m[FieldProvider] != "osm" {
		t.Errorf("expected provider=osm, got %v", m[FieldProvider])
	}
	if m[FieldLocation] != "Ottawa" {
		t.Errorf("expected location=Ottawa, got %v", m[FieldLocation])
	}
	if m["message"] != "dispatch ok" {
		t.Errorf("expected message, got %v", m["message"])
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, "info").WithComponent("pipeline")
	l.Info("x")
	m := decodeLine(t, &buf)
	if m[FieldComponent] != "pipeline" {
		t.Errorf("expected component=pipeline, got %v", m[FieldComponent])
	}
}

func TestWithContextRequestID(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithRequestID(context.Background(), "req-1")
	newJSONLogger(&buf, "info").WithContext(ctx).Info("x")
	m := decodeLine(t, &buf)
	if m[FieldRequestID] != "req-1" {
		t.Errorf("expected request_id=req-1, got %v", m[FieldRequestID])
	}
}

func TestWithContextWithoutRequestID(t *testing.T) {
	var buf bytes.Buffer
	newJSONLogger(&buf, "info").WithContext(context.Background()).Info("x")
	m := decodeLine(t, &buf)
	if _, ok := m[FieldRequestID]; ok {
		t.Error("expected no request_id field")
	}
}

func TestConsoleFormatNoColor(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{Level: "info", Format: FormatConsole, NoColor: true}
	NewWithWriter(cfg, "geocode", &buf).Info("hello", Fields("provider", "osm"))
	out := buf.String()
	if !strings.Contains(out, " INF hello") {
		t.Errorf("expected level tag before the message, got %q", out)
	}
	if !strings.Contains(out, "provider=osm") {
		t.Errorf("expected field rendering, got %q", out)
	}
}

func TestLevelTag(t *testing.T) {
	if got := levelTag("warn", true); got != "WRN" {
		t.Errorf("expected WRN, got %q", got)
	}
	if got := levelTag("panic", true); got != "PANIC" {
		t.Errorf("expected PANIC, got %q", got)
	}
	if got := levelTag("error", false); got != "\033[31mERR\033[0m" {
		t.Errorf("expected colored ERR, got %q", got)
	}
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Error("discarded")
}

func TestFileOutputUsesRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geocode.log")
	cfg := &Config{Output: path}
	cfg.ApplyDefaults()
	w := outputWriter(cfg)
	if _, ok := w.(interface{ Rotate() error }); !ok {
		t.Errorf("expected rotating writer for file output, got %T", w)
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != FormatConsole {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stderr" {
		t.Errorf("expected output 'stderr', got %q", cfg.Output)
	}
	if cfg.MaxSize != 100 || cfg.MaxBackups != 3 || cfg.MaxAge != 28 {
		t.Errorf("unexpected rotation defaults: %+v", cfg)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamp=true")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: FormatJSON}, false},
		{"disabled level", Config{Level: "disabled", Format: FormatConsole}, false},
		{"bad level", Config{Level: "loud", Format: FormatJSON}, true},
		{"bad format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetCachesUntilGlobalChanges(t *testing.T) {
	defer SetGlobalLogger(nil)

	var first, second bytes.Buffer
	SetGlobalLogger(newJSONLogger(&first, "info"))
	a := Get("dispatcher")
	if Get("dispatcher") != a {
		t.Error("expected the same component logger on repeat calls")
	}
	a.Info("one")
	if !strings.Contains(first.String(), `"component":"dispatcher"`) {
		t.Errorf("expected component tag, got %q", first.String())
	}

	SetGlobalLogger(newJSONLogger(&second, "info"))
	Get("dispatcher").Info("two")
	if second.Len() == 0 || strings.Contains(first.String(), "two") {
		t.Errorf("expected Get to follow the new global logger")
	}
}

func TestGlobalLogger(t *testing.T) {
	defer SetGlobalLogger(nil)

	var buf bytes.Buffer
	SetGlobalLogger(newJSONLogger(&buf, "debug"))
	Debug("d")
	Info("i")
	Warn("w")
	Error("e")
	if got := strings.Count(buf.String(), "\n"); got != 4 {
		t.Errorf("expected 4 lines, got %d: %q", got, buf.String())
	}

	buf.Reset()
	WithComponent("cli").Info("x")
	if !strings.Contains(buf.String(), `"component":"cli"`) {
		t.Errorf("expected component tag, got %q", buf.String())
	}
}

func TestFields(t *testing.T) {
	m := Fields("a", 1, "b", "two", 3, "skipped", "dangling")
	if len(m) != 2 {
		t.Errorf("expected 2 fields, got %d: %v", len(m), m)
	}
	if m["a"] != 1 || m["b"] != "two" {
		t.Errorf("unexpected fields: %v", m)
	}
}

func TestMergeHelpers(t *testing.T) {
	m := MergeWithError(nil, errors.New("bad"))
	if m[FieldError] != "bad" {
		t.Errorf("expected error=bad, got %v", m[FieldError])
	}
	m = MergeWithDuration(m, 1500*time.Millisecond)
	if m[FieldDuration] != int64(1500) {
		t.Errorf("expected duration_ms=1500, got %v", m[FieldDuration])
	}
}
