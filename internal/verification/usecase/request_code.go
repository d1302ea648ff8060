package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/shandysiswandi/goverid/internal/pkg/goerror"
	"github.com/shandysiswandi/goverid/internal/verification/entity"
)

type RequestCodeInput struct {
	Phone string `validate:"required,phone"`
}

// RequestCode admits or rejects a code request for a phone number, then
// generates a new challenge and delivers the code over SMS.
//
// Admission policy per identity within a rolling window:
//   - every request increments the window counter, throttled or not
//   - a request before the stored cooldown deadline is rejected with the
//     remaining wait
//   - requests 1..max set an escalating deadline (count * cooldown step) and
//     are admitted
//   - requests past max set the ban flag and are rejected for the rest of
//     the window
func (s *Usecase) RequestCode(ctx context.Context, in RequestCodeInput) error {
	ctx, span := s.startSpan(ctx, "RequestCode")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	now := s.clock.Now()

	count, err := s.repoKV.Incr(ctx, keyRequests+in.Phone)
	if err != nil {
		slog.ErrorContext(ctx, "failed to increment request counter", "phone", in.Phone, "error", err)
		return goerror.NewServer(err)
	}

	// First increment created the key; bound it to the rolling window. A
	// concurrent first request setting the same TTL is harmless.
	if count == 1 {
		if err := s.repoKV.Expire(ctx, keyRequests+in.Phone, s.windowTTL()); err != nil {
			slog.ErrorContext(ctx, "failed to set request counter ttl", "phone", in.Phone, "error", err)
			return goerror.NewServer(err)
		}
	}

	deadline, err := s.getDeadline(ctx, in.Phone)
	if err != nil {
		return err
	}

	if now.Before(deadline) {
		retryAfter := int64(math.Ceil(deadline.Sub(now).Seconds()))
		slog.WarnContext(ctx, "code request throttled", "phone", in.Phone, "retry_after_seconds", retryAfter)
		s.audit(ctx, entity.AuditActionRequestThrottled, in.Phone, strconv.FormatInt(retryAfter, 10))

		return goerror.NewTooManyRequest(
			"too many verification requests, retry later",
			"retry_after_seconds", strconv.FormatInt(retryAfter, 10),
		)
	}

	if count > int64(s.cfg.GetInt("modules.verification.max_requests")) {
		return s.banRequester(ctx, in.Phone, count, now)
	}

	step := s.cfg.GetSecond("modules.verification.cooldown_step_seconds")
	newDeadline := now.Add(time.Duration(count) * step)
	if err := s.repoKV.Set(ctx, keyDeadline+in.Phone, strconv.FormatInt(newDeadline.UnixMilli(), 10), s.windowTTL()); err != nil {
		slog.ErrorContext(ctx, "failed to store cooldown deadline", "phone", in.Phone, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.issueChallenge(ctx, in.Phone); err != nil {
		return err
	}

	s.audit(ctx, entity.AuditActionCodeRequested, in.Phone, strconv.FormatInt(count, 10))

	return nil
}

func (s *Usecase) getDeadline(ctx context.Context, phone string) (time.Time, error) {
	raw, found, err := s.repoKV.Get(ctx, keyDeadline+phone)
	if err != nil {
		slog.ErrorContext(ctx, "failed to read cooldown deadline", "phone", phone, "error", err)
		return time.Time{}, goerror.NewServer(err)
	}
	if !found {
		return time.Time{}, nil
	}

	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// A corrupt deadline must not lock the identity out; treat as absent.
		slog.WarnContext(ctx, "cooldown deadline is not a timestamp, ignoring", "phone", phone, "value", raw)
		return time.Time{}, nil
	}

	return time.UnixMilli(millis), nil
}

func (s *Usecase) banRequester(ctx context.Context, phone string, count int64, now time.Time) error {
	bannedUntil := now.Add(s.windowTTL())

	if err := s.repoKV.Set(ctx, keyBan+phone, "banned", s.windowTTL()); err != nil {
		slog.ErrorContext(ctx, "failed to store ban flag", "phone", phone, "error", err)
		return goerror.NewServer(err)
	}

	slog.WarnContext(ctx, "requester banned for request window", "phone", phone, "request_count", count)
	s.audit(ctx, entity.AuditActionRequesterBanned, phone, strconv.FormatInt(count, 10))

	evt := PhoneBannedEvent{Phone: phone, RequestCount: count, BannedUntil: bannedUntil}
	s.goroutine.Go(context.WithoutCancel(ctx), func(pCtx context.Context) error {
		return s.repoMessaging.PublishPhoneBanned(pCtx, evt)
	})

	return goerror.NewTooManyRequest("verification requests are blocked, try again later")
}

func (s *Usecase) issueChallenge(ctx context.Context, phone string) error {
	code, err := s.codes.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate verification code", "phone", phone, "error", err)
		return goerror.NewServer(err)
	}

	codeTTL := s.cfg.GetSecond("modules.verification.otp_ttl_seconds")
	markerTTL := s.cfg.GetSecond("modules.verification.request_marker_ttl_seconds")

	// Overwrites any prior challenge for the phone; only the derived secret
	// is stored, never the code.
	if err := s.repoKV.Set(ctx, keyChallenge+phone, s.secret.Derive(code), codeTTL); err != nil {
		slog.ErrorContext(ctx, "failed to store challenge secret", "phone", phone, "error", err)
		return goerror.NewServer(err)
	}
	if err := s.repoKV.Set(ctx, keyChallengeMarker+phone, markerRequested, markerTTL); err != nil {
		slog.ErrorContext(ctx, "failed to store challenge marker", "phone", phone, "error", err)
		return goerror.NewServer(err)
	}

	body := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(codeTTL.Minutes()))
	if err := s.repoSMS.Send(ctx, phone, body); err != nil {
		slog.ErrorContext(ctx, "failed to deliver verification code", "phone", phone, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
