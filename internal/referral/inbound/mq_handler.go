package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/instrument"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/messaging"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/uid"
	"github.com/bandwidthbucks/bandwidthbucks/internal/referral/usecase"
	"github.com/bandwidthbucks/bandwidthbucks/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers []messaging.Header) context.Context {
	for i := range headers {
		if headers[i].Key == keyOfCorrelationID {
			return instrument.SetCorrelationID(ctx, string(headers[i].Value))
		}
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) UserRegistrationReferral(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("referral.inbound.mq").Start(ctx, "UserRegistrationReferral")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: user registration referral", "msg_body", string(body))

	var payload event.UserRegistrationMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of user registration referral", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.ConsumeUserRegistration(ctx, usecase.ConsumeUserRegistrationInput{
		UserID:       payload.UserID,
		ReferralCode: payload.ReferralCode,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume user registration referral", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}

func (h *MQHandler) EarningsUpdatedReferral(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("referral.inbound.mq").Start(ctx, "EarningsUpdatedReferral")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: earnings updated referral", "msg_body", string(body))

	var payload event.EarningsUpdatedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of earnings updated referral", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.ConsumeEarningsUpdated(ctx, usecase.ConsumeEarningsUpdatedInput{
		UserID:    payload.UserID,
		AmountINR: payload.AmountINR,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume earnings updated referral", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}
