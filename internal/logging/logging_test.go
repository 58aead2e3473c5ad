package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	for _, debug := range []bool{false, true} {
		logger, err := New(debug)
		if err != nil {
			t.Fatalf("unexpected error (debug=%v): %v", debug, err)
		}
		if logger == nil {
			t.Fatalf("expected logger instance (debug=%v)", debug)
		}
		_ = logger.Sync()
	}
}

func TestNewDebugEnablesDebugLevel(t *testing.T) {
	logger, err := New(true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger.Check(zapcore.DebugLevel, "probe") == nil {
		t.Fatalf("expected debug level to be enabled in debug mode")
	}
}
