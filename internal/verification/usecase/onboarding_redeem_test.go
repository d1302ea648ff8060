package usecase

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/shandysiswandi/goverid/internal/pkg/crypt"
	"github.com/shandysiswandi/goverid/internal/pkg/goerror"
	"github.com/shandysiswandi/goverid/internal/pkg/token"
	"github.com/shandysiswandi/goverid/internal/verification/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issueToken(t *testing.T, env *testEnv) *IssueOnboardingTokenOutput {
	t.Helper()

	out, err := env.uc.IssueOnboardingToken(t.Context(), IssueOnboardingTokenInput{Phone: testPhone})
	require.NoError(t, err)
	return out
}

func TestRedeemOnboardingToken_MissingToken(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.uc.RedeemOnboardingToken(t.Context(), RedeemOnboardingTokenInput{})

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, goerror.CodeInvalidInput, gerr.Code())
}

func TestRedeemOnboardingToken_Garbage(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.uc.RedeemOnboardingToken(t.Context(), RedeemOnboardingTokenInput{Token: "not-a-jwt"})

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, goerror.CodeUnauthorized, gerr.Code())
}

func TestRedeemOnboardingToken_ForgedSignature(t *testing.T) {
	env := newTestEnv(t)
	issued := issueToken(t, env)

	forger, err := token.NewHS512(token.Config{
		Secret:    []byte("another-secret-another-secret-another-secret-another-secret-1234"),
		Issuer:    "goverid-test",
		Audiences: []string{"onboarding"},
		TTL:       3 * time.Minute,
		Clock:     fixedClock{now: env.now},
		UUID:      &stubID{},
	})
	require.NoError(t, err)

	claims, err := env.token.Verify(issued.Token)
	require.NoError(t, err)

	forged, err := forger.Generate(claims.PhoneCipher, claims.TokenID)
	require.NoError(t, err)

	_, err = env.uc.RedeemOnboardingToken(t.Context(), RedeemOnboardingTokenInput{Token: forged})

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, goerror.CodeUnauthorized, gerr.Code())

	// The pending record survives a bad token.
	_, ok := env.kv.get(keyOnboardingToken + claims.TokenID)
	assert.True(t, ok)
}

func TestRedeemOnboardingToken_RecordExpired(t *testing.T) {
	env := newTestEnv(t)
	issued := issueToken(t, env)

	require.NoError(t, env.kv.Del(t.Context(), keyOnboardingToken+issued.TokenID))

	_, err := env.uc.RedeemOnboardingToken(t.Context(), RedeemOnboardingTokenInput{Token: issued.Token})

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, goerror.CodeUnauthorized, gerr.Code())
}

func TestRedeemOnboardingToken_RecordMismatch(t *testing.T) {
	env := newTestEnv(t)
	issued := issueToken(t, env)

	otherCipher, err := env.encryptor.Encrypt([]byte("+6289876543210"), crypt.Scope{Purpose: "onboarding-phone"})
	require.NoError(t, err)
	env.kv.set(keyOnboardingToken+issued.TokenID, base64.RawURLEncoding.EncodeToString(otherCipher))

	_, err = env.uc.RedeemOnboardingToken(t.Context(), RedeemOnboardingTokenInput{Token: issued.Token})

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, goerror.CodeUnauthorized, gerr.Code())

	// Mismatch must not consume the record.
	_, ok := env.kv.get(keyOnboardingToken + issued.TokenID)
	assert.True(t, ok)
}

func TestRedeemOnboardingToken_Success(t *testing.T) {
	env := newTestEnv(t)
	issued := issueToken(t, env)

	out, err := env.uc.RedeemOnboardingToken(t.Context(), RedeemOnboardingTokenInput{Token: issued.Token})
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.True(t, out.Redeemed)
	assert.Equal(t, testPhone, out.Phone)

	_, ok := env.kv.get(keyOnboardingToken + issued.TokenID)
	assert.False(t, ok)

	env.drain(t)
	assert.Contains(t, env.audit.actions(), entity.AuditActionTokenRedeemed)
}

func TestRedeemOnboardingToken_AtMostOnce(t *testing.T) {
	env := newTestEnv(t)
	issued := issueToken(t, env)

	_, err := env.uc.RedeemOnboardingToken(t.Context(), RedeemOnboardingTokenInput{Token: issued.Token})
	require.NoError(t, err)

	_, err = env.uc.RedeemOnboardingToken(t.Context(), RedeemOnboardingTokenInput{Token: issued.Token})

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, goerror.CodeUnauthorized, gerr.Code())
}
