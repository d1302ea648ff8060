package mq

import (
	"context"
	"encoding/json"

	"github.com/shandysiswandi/goverid/internal/pkg/instrument"
	"github.com/shandysiswandi/goverid/internal/pkg/messaging"
	"github.com/shandysiswandi/goverid/internal/shared/event"
	"github.com/shandysiswandi/goverid/internal/verification/usecase"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishPhoneVerified(ctx context.Context, msg usecase.PhoneVerifiedEvent) error {
	ctx, span := m.ins.Tracer("verification.outbound.mq").Start(ctx, "PublishPhoneVerified")
	defer span.End()

	body, err := json.Marshal(event.PhoneVerifiedMessage{
		Phone:      msg.Phone,
		TokenID:    msg.TokenID,
		VerifiedAt: msg.VerifiedAt.Unix(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, event.PhoneVerifiedDestination, messaging.OutgoingMessage{
		Body:    body,
		Key:     []byte(msg.Phone),
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (m *Messaging) PublishPhoneBanned(ctx context.Context, msg usecase.PhoneBannedEvent) error {
	ctx, span := m.ins.Tracer("verification.outbound.mq").Start(ctx, "PublishPhoneBanned")
	defer span.End()

	body, err := json.Marshal(event.PhoneBannedMessage{
		Phone:        msg.Phone,
		RequestCount: msg.RequestCount,
		BannedUntil:  msg.BannedUntil.Unix(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, event.PhoneBannedDestination, messaging.OutgoingMessage{
		Body:    body,
		Key:     []byte(msg.Phone),
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
