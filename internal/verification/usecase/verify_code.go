package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/goverid/internal/pkg/goerror"
	"github.com/shandysiswandi/goverid/internal/verification/entity"
)

type VerifyCodeInput struct {
	Phone string `validate:"required,phone"`
	Code  string `validate:"required,numeric,len=6"`
}

type VerifyCodeOutput struct {
	OnboardingToken string
}

// VerifyCode checks a submitted code against the stored challenge and, on
// success, consumes the challenge and mints an onboarding token.
//
// Rejections stay coarse on purpose: absent request, expired code, or wrong
// code, and nothing beyond that.
func (s *Usecase) VerifyCode(ctx context.Context, in VerifyCodeInput) (*VerifyCodeOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyCode")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	_, found, err := s.repoKV.Get(ctx, keyChallengeMarker+in.Phone)
	if err != nil {
		slog.ErrorContext(ctx, "failed to read challenge marker", "phone", in.Phone, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !found {
		slog.WarnContext(ctx, "verification without a code request", "phone", in.Phone)
		s.audit(ctx, entity.AuditActionCodeRejected, in.Phone, "no_request_found")
		return nil, goerror.NewBusiness("no verification request found", goerror.CodeNotFound)
	}

	storedSecret, found, err := s.repoKV.Get(ctx, keyChallenge+in.Phone)
	if err != nil {
		slog.ErrorContext(ctx, "failed to read challenge secret", "phone", in.Phone, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !found {
		slog.WarnContext(ctx, "verification code expired", "phone", in.Phone)
		s.audit(ctx, entity.AuditActionCodeRejected, in.Phone, "expired")
		return nil, goerror.NewBusiness("verification code has expired", goerror.CodeUnauthorized)
	}

	if !s.secret.Verify(storedSecret, in.Code) {
		slog.WarnContext(ctx, "verification code mismatch", "phone", in.Phone)
		s.audit(ctx, entity.AuditActionCodeRejected, in.Phone, "incorrect")
		return nil, goerror.NewBusiness("verification code is incorrect", goerror.CodeUnauthorized)
	}

	// Single use: the challenge is gone the moment it verifies, so the same
	// code cannot be replayed within its TTL.
	if err := s.repoKV.Del(ctx, keyChallenge+in.Phone, keyChallengeMarker+in.Phone); err != nil {
		slog.ErrorContext(ctx, "failed to consume challenge", "phone", in.Phone, "error", err)
		return nil, goerror.NewServer(err)
	}

	issued, err := s.IssueOnboardingToken(ctx, IssueOnboardingTokenInput{Phone: in.Phone})
	if err != nil {
		return nil, err
	}

	s.audit(ctx, entity.AuditActionCodeVerified, in.Phone, issued.TokenID)

	evt := PhoneVerifiedEvent{Phone: in.Phone, TokenID: issued.TokenID, VerifiedAt: s.clock.Now()}
	s.goroutine.Go(context.WithoutCancel(ctx), func(pCtx context.Context) error {
		return s.repoMessaging.PublishPhoneVerified(pCtx, evt)
	})

	return &VerifyCodeOutput{OnboardingToken: issued.Token}, nil
}
