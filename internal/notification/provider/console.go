package provider

import (
	"context"

	"github.com/google/uuid"

	"github.com/tair/pharmacy-backend/pkg/logger"
)

// Console logs messages instead of sending them
type Console struct{}

// NewConsole creates a console provider
func NewConsole() *Console {
	return &Console{}
}

func (*Console) Name() string { return "console" }

func (*Console) Send(ctx context.Context, to, body string) (string, error) {
	id := "console-" + uuid.NewString()
	logger.Info(ctx).
		Str("to", to).
		Str("message", body).
		Str("message_id", id).
		Msg("SMS (console)")
	return id, nil
}
