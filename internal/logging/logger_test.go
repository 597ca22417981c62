package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level   string
		logged  []string
		dropped []string
	}{
		{
			level:   "debug",
			logged:  []string{"debug message", "info message", "warn message"},
			dropped: []string{"trace message"},
		},
		{
			level:   "info",
			logged:  []string{"info message", "warn message"},
			dropped: []string{"trace message", "debug message"},
		},
		{
			level:   "warn",
			logged:  []string{"warn message"},
			dropped: []string{"debug message", "info message"},
		},
		{
			level:   "ERROR",
			logged:  []string{"error message"},
			dropped: []string{"info message", "warn message"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Level: tt.level, Output: &buf})

			logger.Trace().Msg("trace message")
			logger.Debug().Msg("debug message")
			logger.Info().Msg("info message")
			logger.Warn().Msg("warn message")
			logger.Error().Msg("error message")

			output := buf.String()
			for _, msg := range tt.logged {
				if !strings.Contains(output, msg) {
					t.Errorf("expected %q to be logged at %s level", msg, tt.level)
				}
			}
			for _, msg := range tt.dropped {
				if strings.Contains(output, msg) {
					t.Errorf("expected %q to NOT be logged at %s level", msg, tt.level)
				}
			}
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  "invalid",
		Output: &buf,
	})

	// Invalid level should default to warn.
	logger.Info().Msg("info message")
	logger.Warn().Msg("warn message")

	output := buf.String()
	if strings.Contains(output, "info message") {
		t.Error("Expected info message to NOT be logged with invalid level")
	}
	if !strings.Contains(output, "warn message") {
		t.Error("Expected warn message to be logged with invalid level")
	}
}

func TestNew_PrettyOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  "info",
		Pretty: true,
		Output: &buf,
	})

	logger.Info().Msg("test message")

	if !strings.Contains(buf.String(), "test message") {
		t.Error("Expected pretty output to contain message 'test message'")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != "warn" {
		t.Errorf("Expected default level 'warn', got '%s'", cfg.Level)
	}
	if cfg.Output == nil {
		t.Error("Expected default output to be set")
	}
}
