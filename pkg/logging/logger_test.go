package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"testing"
)

// decode parses the single JSON entry in buf
func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse log JSON %q: %v", buf.String(), err)
	}
	return entry
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger()
	if logger == nil {
		t.Fatal("NewLogger() returned nil")
	}
	if logger.Logger == nil {
		t.Fatal("Logger.Logger is nil")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		want   slog.Level
		wantOK bool
	}{
		{"debug level", "DEBUG", slog.LevelDebug, true},
		{"info level", "INFO", slog.LevelInfo, true},
		{"warn level", "WARN", slog.LevelWarn, true},
		{"warning level", "WARNING", slog.LevelWarn, true},
		{"error level", "ERROR", slog.LevelError, true},
		{"lowercase debug", "debug", slog.LevelDebug, true},
		{"mixed case", "Info", slog.LevelInfo, true},
		{"invalid level", "INVALID", slog.LevelInfo, false},
		{"empty value", "", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLevel(tt.value)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseLevel(%q) = %v, %v, want %v, %v", tt.value, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLogLevelFromEnv(t *testing.T) {
	t.Setenv(LevelEnv, "error")
	if got := getLogLevelFromEnv(); got != slog.LevelError {
		t.Errorf("getLogLevelFromEnv() = %v, want %v", got, slog.LevelError)
	}

	t.Setenv(LevelEnv, "loud")
	if got := getLogLevelFromEnv(); got != slog.LevelInfo {
		t.Errorf("getLogLevelFromEnv() with bad value = %v, want %v", got, slog.LevelInfo)
	}
}

func TestSession(t *testing.T) {
	t.Run("new IDs differ", func(t *testing.T) {
		id1, id2 := NewSessionID(), NewSessionID()
		if id1 == id2 {
			t.Error("NewSessionID() returned duplicate IDs")
		}
		if len(id1) != 16 {
			t.Errorf("NewSessionID() returned wrong length: %d", len(id1))
		}
	})

	t.Run("explicit ID", func(t *testing.T) {
		ctx := WithSession(context.Background(), "seed-123")
		if got := SessionID(ctx); got != "seed-123" {
			t.Errorf("SessionID() = %q, want %q", got, "seed-123")
		}
	})

	t.Run("no session", func(t *testing.T) {
		if got := SessionID(context.Background()); got != "" {
			t.Errorf("SessionID() = %q, want empty string", got)
		}
	})

	t.Run("empty ID is generated", func(t *testing.T) {
		ctx := WithSession(context.Background(), "")
		if got := SessionID(ctx); len(got) != 16 {
			t.Errorf("generated session ID = %q, want 16 hex digits", got)
		}
	})
}

func TestFormatFloats(t *testing.T) {
	tests := []struct {
		name string
		attr slog.Attr
		want slog.Value
	}{
		{"rounds", slog.Float64("x", 1.23456789), slog.Float64Value(1.235)},
		{"negative", slog.Float64("vy", -0.0004), slog.Float64Value(-0)},
		{"NaN", slog.Float64("x", math.NaN()), slog.StringValue("NaN")},
		{"positive infinity", slog.Float64("speed", math.Inf(1)), slog.StringValue("+Inf")},
		{"negative infinity", slog.Float64("speed", math.Inf(-1)), slog.StringValue("-Inf")},
		{"int untouched", slog.Int("bodies", 12), slog.IntValue(12)},
		{"string untouched", slog.String("mode", "orbit"), slog.StringValue("orbit")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatFloats(nil, tt.attr)
			if got.Key != tt.attr.Key {
				t.Errorf("key = %q, want %q", got.Key, tt.attr.Key)
			}
			if !got.Value.Equal(tt.want) {
				t.Errorf("formatFloats() = %v, want %v", got.Value, tt.want)
			}
		})
	}
}

func TestLoggerMethods(t *testing.T) {
	var buf bytes.Buffer
	t.Setenv(LevelEnv, "DEBUG")
	logger := NewLoggerTo(&buf)

	ctx := WithSession(context.Background(), "run-1")

	tests := []struct {
		name      string
		log       func()
		wantLevel string
	}{
		{"info", func() { logger.Info(ctx, "tick", "bodies", 3) }, "INFO"},
		{"warn", func() { logger.Warn(ctx, "tick", "bodies", 3) }, "WARN"},
		{"debug", func() { logger.Debug(ctx, "tick", "bodies", 3) }, "DEBUG"},
		{"error", func() { logger.Error(ctx, "tick", errors.New("boom"), "bodies", 3) }, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.log()
			entry := decode(t, &buf)

			if entry["msg"] != "tick" {
				t.Errorf("msg = %v, want tick", entry["msg"])
			}
			if entry["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %s", entry["level"], tt.wantLevel)
			}
			if entry["session"] != "run-1" {
				t.Errorf("session = %v, want run-1", entry["session"])
			}
			if entry["bodies"] != float64(3) {
				t.Errorf("bodies = %v, want 3", entry["bodies"])
			}
		})
	}

	buf.Reset()
	logger.Error(ctx, "tick", errors.New("boom"))
	if entry := decode(t, &buf); entry["error"] != "boom" {
		t.Errorf("error = %v, want boom", entry["error"])
	}
}

func TestLogger_Component(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf).Component("engine")

	logger.Info(context.Background(), "world reset")

	entry := decode(t, &buf)
	if entry["component"] != "engine" {
		t.Errorf("component = %v, want engine", entry["component"])
	}
	if _, ok := entry["session"]; ok {
		t.Error("session present without one in the context")
	}
}

func TestLogger_NonFiniteFloatsStayValidJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf)

	logger.Info(context.Background(), "ship", "x", math.NaN(), "vx", math.Inf(1), "y", 2.00049)

	entry := decode(t, &buf)
	if entry["x"] != "NaN" || entry["vx"] != "+Inf" {
		t.Errorf("non-finite floats = %v, %v", entry["x"], entry["vx"])
	}
	if entry["y"] != 2.0 {
		t.Errorf("y = %v, want 2", entry["y"])
	}
}

func TestWrapError(t *testing.T) {
	base := errors.New("file missing")

	tests := []struct {
		name    string
		err     error
		context string
		args    []any
		want    string
	}{
		{"nil", nil, "loading", nil, ""},
		{"plain", base, "loading config", nil, "loading config: file missing"},
		{"formatted", base, "loading %s at tick %d", []any{"bodies", 42}, "loading bodies at tick 42: file missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapError(tt.err, tt.context, tt.args...)
			if tt.err == nil {
				if got != nil {
					t.Errorf("WrapError(nil) = %v, want nil", got)
				}
				return
			}
			if got.Error() != tt.want {
				t.Errorf("WrapError() = %q, want %q", got.Error(), tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Error("WrapError() lost the original error")
			}
		})
	}
}
