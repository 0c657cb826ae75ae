package logger

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"
)

func TestNewDefault(t *testing.T) {
	l := NewDefault("ingest")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.pipeline != "ingest" {
		t.Errorf("expected pipeline 'ingest', got %q", l.pipeline)
	}
}

func TestNew(t *testing.T) {
	cfg := &Config{
		Level:  "debug",
		Format: "json",
		Output: "stdout",
	}
	l := New(cfg, "my-pipeline")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.pipeline != "my-pipeline" {
		t.Errorf("expected pipeline 'my-pipeline', got %q", l.pipeline)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	cfg := &Config{
		Level:  "invalid-level",
		Format: "json",
		Output: "stdout",
	}
	l := New(cfg, "test")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
}

func TestNewFromEnv(t *testing.T) {
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("LOG_FORMAT", "json")
	defer os.Unsetenv("LOG_LEVEL")
	defer os.Unsetenv("LOG_FORMAT")

	l := NewFromEnv("env-pipe")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestWithComponent(t *testing.T) {
	l := NewDefault("test")
	cl := l.WithComponent("decoder")
	if cl == nil {
		t.Fatal("expected non-nil logger")
	}
	if cl.pipeline != "test" {
		t.Errorf("pipeline name should be preserved, got %q", cl.pipeline)
	}
}

func TestWithContext(t *testing.T) {
	l := NewDefault("test")
	ctx := context.WithValue(context.Background(), contextKey("trace_id"), "abc123")
	cl := l.WithContext(ctx)
	if cl == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestWithStreamID(t *testing.T) {
	l := NewDefault("test")
	ctx := WithStreamID(context.Background(), "stream-42")
	cl := l.WithContext(ctx)
	if cl == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestWithFields(t *testing.T) {
	l := NewDefault("test")
	fl := l.WithFields(map[string]interface{}{"key": "value"})
	if fl == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestWithError(t *testing.T) {
	l := NewDefault("test")
	el := l.WithError(nil)
	if el == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestInit(t *testing.T) {
	cfg := Config{
		Level:  "info",
		Format: "console",
		Output: "stdout",
	}
	Init(cfg)
	gl := GetGlobalLogger()
	if gl == nil {
		t.Fatal("expected global logger to be set after Init")
	}
}

func TestGetGlobalLoggerDefault(t *testing.T) {
	globalLogger = nil
	l := GetGlobalLogger()
	if l == nil {
		t.Fatal("expected default global logger to be created")
	}
}

func TestSetGlobalLogger(t *testing.T) {
	l := NewDefault("custom")
	SetGlobalLogger(l)
	got := GetGlobalLogger()
	if got != l {
		t.Error("expected SetGlobalLogger to set the global logger")
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	Init(Config{Level: "debug", Format: "console", Output: "stdout"})
	// These should not panic
	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")
	Error("error msg")
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stdout" {
		t.Errorf("expected output 'stdout', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected Timestamp to be true")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json"}, false},
		{"valid console", Config{Level: "debug", Format: "console"}, false},
		{"invalid level", Config{Level: "bad", Format: "json"}, true},
		{"invalid format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestConsoleLoggerFormat(t *testing.T) {
	cfg := &Config{
		Level:   "info",
		Format:  "console",
		Output:  "stdout",
		NoColor: true,
	}
	l := New(cfg, "test-svc")
	if l == nil {
		t.Fatal("expected logger with console format")
	}
}

func TestGetLoggerMethod(t *testing.T) {
	l := NewDefault("test")
	zl := l.GetLogger()
	_ = zl
}

func TestRegisterAndGet(t *testing.T) {
	l := NewDefault("custom-component")
	Register("my-component", l)

	got := Get("my-component")
	if got != l {
		t.Error("expected Get to return the registered logger")
	}
}

func TestGetUnregistered(t *testing.T) {
	// Getting an unregistered name should return global logger with component tag
	got := Get("unregistered-component")
	if got == nil {
		t.Fatal("expected non-nil logger for unregistered component")
	}
}

func TestRegisterDefaults(t *testing.T) {
	Init(Config{Level: "info", Format: "json", Output: "stdout"})
	RegisterDefaults("runner", "decoder", "encoder")

	for _, name := range []string{"runner", "decoder", "encoder"} {
		got := Get(name)
		if got == nil {
			t.Errorf("expected non-nil logger for %q", name)
		}
	}
}

func TestFields(t *testing.T) {
	tests := []struct {
		name     string
		input    []interface{}
		expected map[string]interface{}
	}{
		{
			"key-value pairs",
			[]interface{}{"op", "drain", "elements", 42},
			map[string]interface{}{"op": "drain", "elements": 42},
		},
		{
			"odd number of args",
			[]interface{}{"op", "drain", "trailing"},
			map[string]interface{}{"op": "drain"},
		},
		{
			"empty",
			[]interface{}{},
			map[string]interface{}{},
		},
		{
			"non-string key skipped",
			[]interface{}{123, "value", "key", "val"},
			map[string]interface{}{"key": "val"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Fields(tc.input...)
			for k, v := range tc.expected {
				if result[k] != v {
					t.Errorf("Fields[%q] = %v, expected %v", k, result[k], v)
				}
			}
		})
	}
}

func TestErrorFields(t *testing.T) {
	err := fmt.Errorf("something broke")
	fields := ErrorFields("decode", err)

	if fields[FieldOperation] != "decode" {
		t.Errorf("expected operation 'decode', got %v", fields[FieldOperation])
	}
	if fields[FieldError] != "something broke" {
		t.Errorf("expected error 'something broke', got %v", fields[FieldError])
	}
}

func TestDurationFields(t *testing.T) {
	d := 150 * time.Millisecond
	fields := DurationFields("drain", d)

	if fields[FieldOperation] != "drain" {
		t.Errorf("expected operation 'drain', got %v", fields[FieldOperation])
	}
	if fields[FieldDuration] != int64(150) {
		t.Errorf("expected duration 150, got %v", fields[FieldDuration])
	}
}

func TestStreamFields(t *testing.T) {
	fields := StreamFields("stream-1", "connect")
	if fields[FieldStreamID] != "stream-1" {
		t.Errorf("expected stream id 'stream-1', got %v", fields[FieldStreamID])
	}
	if fields[FieldOperation] != "connect" {
		t.Errorf("expected operation 'connect', got %v", fields[FieldOperation])
	}
}

func TestMergeWithError(t *testing.T) {
	err := fmt.Errorf("test error")

	// Merge into existing map
	fields := map[string]interface{}{"op": "drain"}
	result := MergeWithError(fields, err)
	if result[FieldError] != "test error" {
		t.Errorf("expected error field, got %v", result[FieldError])
	}
	if result["op"] != "drain" {
		t.Error("expected existing fields to be preserved")
	}

	// Merge into nil map
	result2 := MergeWithError(nil, err)
	if result2[FieldError] != "test error" {
		t.Errorf("expected error field from nil map, got %v", result2[FieldError])
	}
}

func TestMergeWithDuration(t *testing.T) {
	d := 200 * time.Millisecond

	// Merge into existing map
	fields := map[string]interface{}{"op": "drain"}
	result := MergeWithDuration(fields, d)
	if result[FieldDuration] != int64(200) {
		t.Errorf("expected duration 200, got %v", result[FieldDuration])
	}
	if result["op"] != "drain" {
		t.Error("expected existing fields to be preserved")
	}

	// Merge into nil map
	result2 := MergeWithDuration(nil, d)
	if result2[FieldDuration] != int64(200) {
		t.Errorf("expected duration from nil map, got %v", result2[FieldDuration])
	}
}

func TestNewWithStderrOutput(t *testing.T) {
	cfg := &Config{
		Level:  "info",
		Format: "json",
		Output: "stderr",
	}
	l := New(cfg, "test")
	if l == nil {
		t.Fatal("expected non-nil logger with stderr output")
	}
}

func TestNewWithPrettyFormat(t *testing.T) {
	cfg := &Config{
		Level:  "info",
		Format: "pretty",
		Output: "stdout",
	}
	l := New(cfg, "test")
	if l == nil {
		t.Fatal("expected non-nil logger with pretty format")
	}
}

func TestWithContextAllKeys(t *testing.T) {
	l := NewDefault("test")
	ctx := context.Background()
	ctx = context.WithValue(ctx, contextKey("trace_id"), "trace-123")
	ctx = context.WithValue(ctx, contextKey("span_id"), "span-456")
	ctx = WithStreamID(ctx, "stream-789")

	cl := l.WithContext(ctx)
	if cl == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestNewFromEnvDefaults(t *testing.T) {
	// Clear env vars to use defaults
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("LOG_FORMAT")
	os.Unsetenv("LOG_OUTPUT")
	os.Unsetenv("LOG_NO_COLOR")
	os.Unsetenv("LOG_TIMESTAMP")

	l := NewFromEnv("defaults-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestPackageLevelWithContext(t *testing.T) {
	Init(Config{Level: "debug", Format: "json", Output: "stdout"})
	ctx := context.Background()
	l := WithContext(ctx)
	if l == nil {
		t.Fatal("expected non-nil logger from WithContext")
	}
}

func TestPackageLevelWithComponent(t *testing.T) {
	Init(Config{Level: "debug", Format: "json", Output: "stdout"})
	l := WithComponent("decoder")
	if l == nil {
		t.Fatal("expected non-nil logger from WithComponent")
	}
}
