package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestWithContextAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	previous := Logger
	Logger = zerolog.New(&buf)
	defer func() { Logger = previous }()

	ctx := ContextWithRequestID(context.Background(), "req-42")
	Info(ctx).Msg("hello")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not json: %v (%s)", err, buf.String())
	}
	if entry["request_id"] != "req-42" {
		t.Fatalf("request_id missing from %v", entry)
	}
	if _, ok := entry["trace_id"]; ok {
		t.Fatalf("trace_id must be absent without an active span")
	}
}

func TestSetLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		SetLevel(tt.in)
		if got := zerolog.GlobalLevel(); got != tt.want {
			t.Errorf("SetLevel(%q) -> %v, want %v", tt.in, got, tt.want)
		}
	}
}
