package common

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	logger.Info().Int("hyperplanes", 3).Msg("Test Info")
	logger.Warn().Msg("Test Warn")
	logger.Error().Msg("Test Err")
	if buf.Len() == 0 {
		t.Fatal("Loggers returned nothing")
	}
	if !strings.Contains(buf.String(), `"hyperplanes":3`) {
		t.Errorf("Structured field is missing: %s", buf.String())
	}
}

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	logger.SetLevel(false)
	logger.Debug().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatal("Debug message must be filtered out")
	}
	logger.SetLevel(true)
	logger.Debug().Msg("shown")
	if buf.Len() == 0 {
		t.Fatal("Debug message must be written")
	}
}

func TestNopLogger(t *testing.T) {
	logger := OrNop(nil)
	logger.Info().Msg("nothing")
}
