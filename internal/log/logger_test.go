package log

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/flowdeck/flowdeck/internal/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{
			name:   "default config",
			config: DefaultConfig(),
		},
		{
			name:   "development config",
			config: DevelopmentConfig(),
		},
		{
			name: "custom config json",
			config: Config{
				Level:     LevelDebug,
				Format:    FormatJSON,
				Output:    OutputStdout(),
				AddSource: true,
			},
		},
		{
			name: "custom config text",
			config: Config{
				Level:     LevelWarn,
				Format:    FormatText,
				Output:    OutputStderr(),
				AddSource: false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.config)
			if logger == nil {
				t.Fatal("expected logger, got nil")
			}
			if logger.slog == nil {
				t.Fatal("expected slog logger, got nil")
			}
			if logger.config.Level != tt.config.Level {
				t.Errorf("expected level %v, got %v", tt.config.Level, logger.config.Level)
			}
		})
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  LevelInfo,
		Format: FormatJSON,
		Output: NewOutput(&buf),
	})

	logger.Info("request sent", "method", "GET", "path", "/workflows")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if entry["msg"] != "request sent" {
		t.Errorf("expected msg 'request sent', got %v", entry["msg"])
	}
	if entry["method"] != "GET" {
		t.Errorf("expected method GET, got %v", entry["method"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  LevelWarn,
		Format: FormatText,
		Output: NewOutput(&buf),
	})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")

	output := buf.String()
	if strings.Contains(output, "debug message") {
		t.Errorf("debug message should be filtered at warn level")
	}
	if strings.Contains(output, "info message") {
		t.Errorf("info message should be filtered at warn level")
	}
	if !strings.Contains(output, "warn message") {
		t.Errorf("warn message should be present")
	}

	ctx := context.Background()
	if logger.Enabled(ctx, LevelDebug) {
		t.Errorf("debug should not be enabled at warn level")
	}
	if !logger.Enabled(ctx, LevelError) {
		t.Errorf("error should be enabled at warn level")
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  LevelInfo,
		Format: FormatJSON,
		Output: NewOutput(&buf),
	})

	deckErr := errors.New(errors.ErrCodeAuthRequired, "not logged in").
		WithSuggestion("Run 'flowdeck auth login'")

	logger.WithError(deckErr).Error("command failed")

	output := buf.String()
	if !strings.Contains(output, "AUTH-001") {
		t.Errorf("expected error code in output, got: %s", output)
	}
	if !strings.Contains(output, "not logged in") {
		t.Errorf("expected error message in output, got: %s", output)
	}
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  LevelInfo,
		Format: FormatJSON,
		Output: NewOutput(&buf),
	})

	logger.LogError(errors.New(errors.ErrCodeSessionPersist, "write failed"))

	output := buf.String()
	if !strings.Contains(output, "SESSION-002") {
		t.Errorf("expected error code in output, got: %s", output)
	}

	// nil is a no-op
	buf.Reset()
	logger.LogError(nil)
	if buf.Len() != 0 {
		t.Errorf("LogError(nil) should not write output")
	}
}

func TestDefaultLogger(t *testing.T) {
	custom := Development()
	SetDefaultLogger(custom)
	if DefaultLogger() != custom {
		t.Errorf("DefaultLogger should return the configured logger")
	}
}
