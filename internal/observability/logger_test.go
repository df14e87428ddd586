package observability

import (
	"bytes"
	"strings"
	"testing"
)

// TestInitLoggerLevels verifies debug output is gated by verbose
func TestInitLoggerLevels(t *testing.T) {
	var quiet bytes.Buffer
	logger := initLogger(&quiet, "ebsdgrid", false)
	logger.Debug().Msg("hidden")
	logger.Info().Msg("shown")

	if strings.Contains(quiet.String(), "hidden") {
		t.Error("Expected debug message to be suppressed")
	}
	if !strings.Contains(quiet.String(), "shown") || !strings.Contains(quiet.String(), "ebsdgrid") {
		t.Errorf("Expected info message with app name, got %q", quiet.String())
	}

	var loud bytes.Buffer
	logger = initLogger(&loud, "ebsdgrid", true)
	logger.Debug().Msg("visible")
	if !strings.Contains(loud.String(), "visible") {
		t.Error("Expected debug message in verbose mode")
	}
}
