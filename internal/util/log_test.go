package util

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLoggerLevel(t *testing.T) {
	logger := NewLogger("debug")
	if logger.GetLevel() != zerolog.DebugLevel {
		t.Fatalf("expected debug level, got %s", logger.GetLevel())
	}

	logger = NewLogger("invalid")
	if logger.GetLevel() != zerolog.InfoLevel {
		t.Fatalf("expected info fallback, got %s", logger.GetLevel())
	}
}

func TestComponentTagging(t *testing.T) {
	base := NewLogger("warn")
	child := Component(base, "sweep")
	if child.GetLevel() != zerolog.WarnLevel {
		t.Fatalf("component logger should inherit level, got %s", child.GetLevel())
	}
}
