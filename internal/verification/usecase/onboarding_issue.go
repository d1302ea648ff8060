package usecase

import (
	"context"
	"encoding/base64"
	"log/slog"

	"github.com/shandysiswandi/goverid/internal/pkg/crypt"
	"github.com/shandysiswandi/goverid/internal/pkg/goerror"
	"github.com/shandysiswandi/goverid/internal/verification/entity"
)

type IssueOnboardingTokenInput struct {
	Phone string `validate:"required,phone"`
}

type IssueOnboardingTokenOutput struct {
	Token   string
	TokenID string
}

// IssueOnboardingToken mints a signed, time-boxed, single-redemption token
// proving the phone passed verification.
//
// The phone travels inside the token only as ciphertext, and the server-side
// redemption record holds the same ciphertext under the token id.
func (s *Usecase) IssueOnboardingToken(ctx context.Context, in IssueOnboardingTokenInput) (*IssueOnboardingTokenOutput, error) {
	ctx, span := s.startSpan(ctx, "IssueOnboardingToken")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	tokenID := s.uuid.Generate()

	cipher, err := s.encryptor.Encrypt([]byte(in.Phone), crypt.Scope{Purpose: onboardingScopePurpose})
	if err != nil {
		slog.ErrorContext(ctx, "failed to encrypt phone for onboarding record", "phone", in.Phone, "error", err)
		return nil, goerror.NewServer(err)
	}
	phoneCipher := base64.RawURLEncoding.EncodeToString(cipher)

	recordTTL := s.cfg.GetSecond("modules.verification.onboarding_record_ttl_seconds")
	if err := s.repoKV.Set(ctx, keyOnboardingToken+tokenID, phoneCipher, recordTTL); err != nil {
		slog.ErrorContext(ctx, "failed to store onboarding record", "token_id", tokenID, "error", err)
		return nil, goerror.NewServer(err)
	}

	signed, err := s.token.Generate(phoneCipher, tokenID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to sign onboarding token", "token_id", tokenID, "error", err)
		return nil, goerror.NewServer(err)
	}

	s.audit(ctx, entity.AuditActionTokenIssued, in.Phone, tokenID)

	return &IssueOnboardingTokenOutput{Token: signed, TokenID: tokenID}, nil
}
