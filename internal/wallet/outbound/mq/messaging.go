package mq

import (
	"context"
	"encoding/json"

	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/instrument"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/messaging"
	"github.com/bandwidthbucks/bandwidthbucks/internal/shared/event"
	"github.com/bandwidthbucks/bandwidthbucks/internal/wallet/usecase"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Messaging
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Messaging, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishEarningsUpdated(ctx context.Context, msg usecase.EarningsUpdatedEvent) error {
	ctx, span := m.ins.Tracer("wallet.outbound.mq").Start(ctx, "PublishEarningsUpdated")
	defer span.End()

	body, err := json.Marshal(event.EarningsUpdatedMessage{
		UserID:    msg.UserID,
		AmountINR: msg.AmountINR,
		GB:        msg.GB,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, event.EarningsUpdatedDestination, messaging.OutgoingMessage{
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (m *Messaging) PublishPayoutDecided(ctx context.Context, msg usecase.PayoutDecidedEvent) error {
	ctx, span := m.ins.Tracer("wallet.outbound.mq").Start(ctx, "PublishPayoutDecided")
	defer span.End()

	body, err := json.Marshal(event.PayoutDecidedMessage{
		PayoutID:  msg.PayoutID,
		UserID:    msg.UserID,
		Email:     msg.Email,
		Method:    msg.Method,
		Amount:    msg.Amount,
		AmountINR: msg.AmountINR,
		Approved:  msg.Approved,
		Reason:    msg.Reason,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, event.PayoutDecidedDestination, messaging.OutgoingMessage{
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
