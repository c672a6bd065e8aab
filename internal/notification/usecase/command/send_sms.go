package command

import (
	"context"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/pharmacy-backend/internal/notification/domain"
	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/logger"
)

// SendSMSCommand sends either a stored template or a literal body
type SendSMSCommand struct {
	To         string
	TemplateID *uint
	Body       *string
	Params     map[string]string
}

// SendSMSHandler renders, records and dispatches messages. Provider
// failures are stored on the outbox row and never returned.
type SendSMSHandler struct {
	templates domain.TemplateRepository
	outbox    domain.OutboxRepository
	provider  domain.Provider
	messages  *prometheus.CounterVec
}

// NewSendSMSHandler creates a new handler and registers its counter on reg
func NewSendSMSHandler(templates domain.TemplateRepository, outbox domain.OutboxRepository, provider domain.Provider, reg prometheus.Registerer) *SendSMSHandler {
	messages := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pharmacy_sms_messages_total",
		Help: "SMS messages by final outbox status",
	}, []string{"status"})
	reg.MustRegister(messages)

	return &SendSMSHandler{
		templates: templates,
		outbox:    outbox,
		provider:  provider,
		messages:  messages,
	}
}

func (h *SendSMSHandler) Handle(ctx context.Context, cmd SendSMSCommand) (*domain.OutboxMessage, error) {
	to := strings.TrimSpace(cmd.To)
	if to == "" {
		return nil, apperror.Validation("to is required")
	}

	var text string
	switch {
	case cmd.TemplateID != nil:
		t, err := h.templates.FindByID(ctx, *cmd.TemplateID)
		if err != nil {
			if apperror.Is(err, apperror.KindNotFound) {
				return nil, apperror.Validation("Invalid template_id")
			}
			return nil, err
		}
		text = domain.Render(t.Body, cmd.Params)
	case cmd.Body != nil && strings.TrimSpace(*cmd.Body) != "":
		text = domain.Render(*cmd.Body, cmd.Params)
	default:
		return nil, apperror.Validation("Either template_id or body is required")
	}

	return h.dispatch(ctx, to, text, cmd.TemplateID)
}

// SendNamed sends the named template, creating it with defaultBody first
// when it does not exist
func (h *SendSMSHandler) SendNamed(ctx context.Context, to, name, defaultBody string, params map[string]string) (*domain.OutboxMessage, error) {
	t, err := h.templates.EnsureByName(ctx, name, defaultBody)
	if err != nil {
		return nil, err
	}
	id := t.ID
	return h.dispatch(ctx, to, domain.Render(t.Body, params), &id)
}

func (h *SendSMSHandler) dispatch(ctx context.Context, to, text string, templateID *uint) (*domain.OutboxMessage, error) {
	msg := &domain.OutboxMessage{ToNumber: to, Body: text, TemplateID: templateID, Status: domain.StatusQueued}
	if err := h.outbox.Create(ctx, msg); err != nil {
		return nil, err
	}

	providerID, sendErr := h.provider.Send(ctx, to, text)
	if sendErr != nil {
		reason := sendErr.Error()
		msg.Status = domain.StatusFailed
		msg.Error = &reason
		logger.Warn(ctx).
			Err(sendErr).
			Uint("outbox_id", msg.ID).
			Str("provider", h.provider.Name()).
			Msg("SMS delivery failed")
		if err := h.outbox.MarkFailed(ctx, msg.ID, reason); err != nil {
			logger.Error(ctx).Err(err).Uint("outbox_id", msg.ID).Msg("Failed to record SMS failure")
		}
	} else {
		msg.Status = domain.StatusSent
		if providerID != "" {
			msg.ProviderMessageID = &providerID
		}
		if err := h.outbox.MarkSent(ctx, msg.ID, providerID); err != nil {
			logger.Error(ctx).Err(err).Uint("outbox_id", msg.ID).Msg("Failed to record SMS delivery")
		}
	}

	h.messages.WithLabelValues(strings.ToLower(msg.Status)).Inc()
	return msg, nil
}
