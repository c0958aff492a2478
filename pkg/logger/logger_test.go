package logger

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"tweetsync/pkg/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    zerolog.Level
		wantErr bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"info", zerolog.InfoLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"fatal", zerolog.FatalLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"DEBUG", zerolog.DebugLevel, false},
		{"verbose", zerolog.InfoLevel, true},
		{"", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseLogLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseLogLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New(&config.LoggingConfig{Level: "nope"})
	if err == nil {
		t.Error("Expected error for invalid log level")
	}
}

func TestWithFieldsReturnsNewLogger(t *testing.T) {
	log, err := New(&config.LoggingConfig{Level: "disabled"})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	derived := log.WithField("handle", "someaccount").
		WithFields(map[string]interface{}{"added": 3}).
		WithError(errors.New("boom"))

	if derived == nil {
		t.Fatal("Expected a derived logger")
	}

	// Logging through the derived logger must not mutate or panic
	derived.Info("test message")
	derived.DebugWithFields("test message", map[string]interface{}{"total": 4})
}

func TestWithErrorNilIsNoop(t *testing.T) {
	log, err := New(&config.LoggingConfig{Level: "disabled"})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if log.WithError(nil) != log {
		t.Error("WithError(nil) should return the same logger")
	}
}

func TestGetLoggerDefault(t *testing.T) {
	globalLogger = nil
	log := GetLogger()
	if log == nil {
		t.Fatal("GetLogger() returned nil")
	}
}

func TestNopLogger(t *testing.T) {
	log := NewNopLogger()
	log.Info("ignored")
	log.WithField("k", "v").WithError(errors.New("ignored")).Error("ignored")
	if log.GetZerolog() != nil {
		t.Error("Nop logger should not expose a zerolog instance")
	}
}
