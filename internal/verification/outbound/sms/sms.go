package sms

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/goverid/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
)

// SNS delivers verification codes as transactional SMS via AWS SNS.
//
// Publishes are retried with capped fibonacci backoff; the caller only sees
// the final failure. Store operations elsewhere are never retried, SMS is
// the one outbound call where a transient hiccup should not cost the user a
// throttle slot.
type SNS struct {
	client     *sns.Client
	ins        instrument.Instrumentation
	maxRetries uint64
}

// NewSNS constructs the SNS sender.
func NewSNS(client *sns.Client, ins instrument.Instrumentation) *SNS {
	return &SNS{client: client, ins: ins, maxRetries: 3}
}

// Send publishes body to phone.
func (s *SNS) Send(ctx context.Context, phone, body string) error {
	ctx, span := s.ins.Tracer("verification.outbound.sms").Start(ctx, "Send")
	defer span.End()

	b := retry.NewFibonacci(200 * time.Millisecond)
	b = retry.WithCappedDuration(2*time.Second, b)
	b = retry.WithMaxRetries(s.maxRetries, b)

	err := retry.Do(ctx, b, func(ctx context.Context) error {
		if _, err := s.client.Publish(ctx, &sns.PublishInput{
			PhoneNumber: &phone,
			Message:     &body,
		}); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("sms: sns publish: %w", err)
	}

	return nil
}
