package common

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestColorHandler_Enabled(t *testing.T) {
	var buf bytes.Buffer

	tests := []struct {
		name    string
		level   slog.Level
		opts    *slog.HandlerOptions
		enabled bool
	}{
		{"default level (info)", slog.LevelInfo, nil, true},
		{"debug level with info handler", slog.LevelDebug, nil, false},
		{"error level", slog.LevelError, nil, true},
		{"debug handler with debug level", slog.LevelDebug, &slog.HandlerOptions{Level: slog.LevelDebug}, true},
		{"warn handler with info level", slog.LevelInfo, &slog.HandlerOptions{Level: slog.LevelWarn}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewColorHandler(&buf, tt.opts)
			if got := h.Enabled(context.Background(), tt.level); got != tt.enabled {
				t.Errorf("Enabled() = %v, want %v", got, tt.enabled)
			}
		})
	}
}

func TestColorHandler_HandleWithoutColor(t *testing.T) {
	var buf bytes.Buffer
	h := NewColorHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	if h.useColor {
		t.Fatal("a bytes.Buffer is not a terminal; color should be off")
	}

	logger := slog.New(h).With("component", "exec")
	logger.Warn("node client failed", "exit_code", 2, "error", errors.New("boom"), "elapsed", 1500*time.Millisecond)

	out := buf.String()
	for _, want := range []string{"[WARN ]", "[exec]", "node client failed", "exit_code=2", "error=boom", "elapsed=1.5s"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
	if strings.Contains(out, "component=") {
		t.Errorf("component should be rendered as a tag: %q", out)
	}
}

func TestColorHandler_MasksValues(t *testing.T) {
	var buf bytes.Buffer
	h := NewColorHandler(&buf, nil)
	slog.New(h).Info("config", "node", "https://a:b@host", "mnemonic", "word word")

	out := buf.String()
	if strings.Contains(out, "a:b@") || strings.Contains(out, "word word") {
		t.Fatalf("secrets leaked: %q", out)
	}
}

func TestColorHandler_Colorize(t *testing.T) {
	var buf bytes.Buffer
	h := NewColorHandler(&buf, nil)
	h.SetColorEnabled(true)
	if got := h.colorize(Red, "x"); got != Red+"x"+Reset {
		t.Fatalf("unexpected colorized %q", got)
	}
	h.SetColorEnabled(false)
	if got := h.colorize(Red, "x"); got != "x" {
		t.Fatalf("unexpected plain %q", got)
	}
}

func TestColorHandler_WithGroupPrefixesKeys(t *testing.T) {
	var buf bytes.Buffer
	h := NewColorHandler(&buf, nil)
	slog.New(h).WithGroup("network").Info("resolved", "chain_id", "juno-1")
	if !strings.Contains(buf.String(), "network.chain_id=") {
		t.Fatalf("expected grouped key, got %q", buf.String())
	}
}
