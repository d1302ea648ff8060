package usecase

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"log/slog"

	"github.com/shandysiswandi/goverid/internal/pkg/crypt"
	"github.com/shandysiswandi/goverid/internal/pkg/goerror"
	"github.com/shandysiswandi/goverid/internal/verification/entity"
)

type RedeemOnboardingTokenInput struct {
	Token string `validate:"required"`
}

type RedeemOnboardingTokenOutput struct {
	Redeemed bool
	Phone    string
}

// errRedeemRejected collapses signature failure, decode failure, a missing
// record, and a mismatch into one outcome so a caller cannot probe which
// check failed.
func errRedeemRejected() error {
	return goerror.NewBusiness("invalid or expired onboarding token", goerror.CodeUnauthorized)
}

// RedeemOnboardingToken validates a token and consumes its server-side
// record. Redemption is at most once per token id: the record is deleted
// only on the success path, and a deleted record can never match again.
func (s *Usecase) RedeemOnboardingToken(ctx context.Context, in RedeemOnboardingTokenInput) (*RedeemOnboardingTokenOutput, error) {
	ctx, span := s.startSpan(ctx, "RedeemOnboardingToken")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	claims, err := s.token.Verify(in.Token)
	if err != nil {
		slog.WarnContext(ctx, "onboarding token failed verification", "error", err)
		s.audit(ctx, entity.AuditActionTokenRejected, "", "signature")
		return nil, errRedeemRejected()
	}

	stored, found, err := s.repoKV.Get(ctx, keyOnboardingToken+claims.TokenID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to read onboarding record", "token_id", claims.TokenID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !found {
		slog.WarnContext(ctx, "onboarding record absent, already redeemed or expired", "token_id", claims.TokenID)
		s.audit(ctx, entity.AuditActionTokenRejected, "", claims.TokenID)
		return nil, errRedeemRejected()
	}

	phone, ok := s.matchOnboardingRecord(ctx, stored, claims.PhoneCipher)
	if !ok {
		s.audit(ctx, entity.AuditActionTokenRejected, "", claims.TokenID)
		return nil, errRedeemRejected()
	}

	// Mismatches above never delete: a bad token must not destroy a valid
	// pending record.
	if err := s.repoKV.Del(ctx, keyOnboardingToken+claims.TokenID); err != nil {
		slog.ErrorContext(ctx, "failed to consume onboarding record", "token_id", claims.TokenID, "error", err)
		return nil, goerror.NewServer(err)
	}

	s.audit(ctx, entity.AuditActionTokenRedeemed, phone, claims.TokenID)

	return &RedeemOnboardingTokenOutput{Redeemed: true, Phone: phone}, nil
}

// matchOnboardingRecord decrypts both the stored record and the token claim
// and compares the plaintexts. Decrypting both sides keeps the comparison in
// one representation even if the two ciphertexts differ byte for byte.
func (s *Usecase) matchOnboardingRecord(ctx context.Context, stored, claimed string) (string, bool) {
	storedPlain, ok := s.decryptPhone(ctx, stored)
	if !ok {
		return "", false
	}
	claimedPlain, ok := s.decryptPhone(ctx, claimed)
	if !ok {
		return "", false
	}

	if subtle.ConstantTimeCompare(storedPlain, claimedPlain) != 1 {
		slog.WarnContext(ctx, "onboarding token identity mismatch")
		return "", false
	}

	return string(storedPlain), true
}

func (s *Usecase) decryptPhone(ctx context.Context, encoded string) ([]byte, bool) {
	cipher, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		slog.WarnContext(ctx, "onboarding ciphertext is not base64", "error", err)
		return nil, false
	}

	plain, err := s.encryptor.Decrypt(cipher, crypt.Scope{Purpose: onboardingScopePurpose})
	if err != nil {
		slog.WarnContext(ctx, "onboarding ciphertext failed decryption", "error", err)
		return nil, false
	}

	return plain, true
}
