package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "info", Output: &buf})

	logger.Debug().Msg("hidden")
	logger.Info().Str("mode", "hybrid").Msg("dispatch")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug message emitted at info level")
	}
	if !strings.Contains(out, `"mode":"hybrid"`) {
		t.Errorf("missing structured field in %q", out)
	}
}
