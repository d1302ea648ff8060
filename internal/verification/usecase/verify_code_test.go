package usecase

import (
	"testing"

	"github.com/shandysiswandi/goverid/internal/pkg/goerror"
	"github.com/shandysiswandi/goverid/internal/verification/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedChallenge(env *testEnv, phone, code string) {
	env.kv.set(keyChallenge+phone, env.secret.Derive(code))
	env.kv.set(keyChallengeMarker+phone, markerRequested)
}

func TestVerifyCode_InvalidInput(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.uc.VerifyCode(t.Context(), VerifyCodeInput{Phone: testPhone, Code: "12ab56"})

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, goerror.CodeInvalidInput, gerr.Code())
}

func TestVerifyCode_NoRequestFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.uc.VerifyCode(t.Context(), VerifyCodeInput{Phone: testPhone, Code: "123456"})

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, goerror.CodeNotFound, gerr.Code())
}

func TestVerifyCode_Expired(t *testing.T) {
	env := newTestEnv(t)

	// Marker outlives the challenge secret, which distinguishes "expired"
	// from "never requested".
	env.kv.set(keyChallengeMarker+testPhone, markerRequested)

	_, err := env.uc.VerifyCode(t.Context(), VerifyCodeInput{Phone: testPhone, Code: "123456"})

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, goerror.CodeUnauthorized, gerr.Code())
}

func TestVerifyCode_Incorrect(t *testing.T) {
	env := newTestEnv(t)
	seedChallenge(env, testPhone, "123456")

	_, err := env.uc.VerifyCode(t.Context(), VerifyCodeInput{Phone: testPhone, Code: "654321"})

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, goerror.CodeUnauthorized, gerr.Code())

	// A wrong guess does not consume the challenge.
	_, ok := env.kv.get(keyChallenge + testPhone)
	assert.True(t, ok)
}

func TestVerifyCode_Success(t *testing.T) {
	env := newTestEnv(t)
	seedChallenge(env, testPhone, "123456")

	out, err := env.uc.VerifyCode(t.Context(), VerifyCodeInput{Phone: testPhone, Code: "123456"})
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.NotEmpty(t, out.OnboardingToken)

	// Challenge is single use.
	_, ok := env.kv.get(keyChallenge + testPhone)
	assert.False(t, ok)
	_, ok = env.kv.get(keyChallengeMarker + testPhone)
	assert.False(t, ok)

	claims, err := env.token.Verify(out.OnboardingToken)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.TokenID)
	assert.NotEmpty(t, claims.PhoneCipher)
	assert.NotContains(t, claims.PhoneCipher, testPhone)

	// A redemption record exists under the token id.
	stored, ok := env.kv.get(keyOnboardingToken + claims.TokenID)
	require.True(t, ok)
	assert.Equal(t, claims.PhoneCipher, stored)

	env.drain(t)
	actions := env.audit.actions()
	assert.Contains(t, actions, entity.AuditActionTokenIssued)
	assert.Contains(t, actions, entity.AuditActionCodeVerified)

	events := env.messaging.verifiedEvents()
	require.Len(t, events, 1)
	assert.Equal(t, testPhone, events[0].Phone)
	assert.Equal(t, claims.TokenID, events[0].TokenID)
}

func TestVerifyCode_Replay(t *testing.T) {
	env := newTestEnv(t)
	seedChallenge(env, testPhone, "123456")

	_, err := env.uc.VerifyCode(t.Context(), VerifyCodeInput{Phone: testPhone, Code: "123456"})
	require.NoError(t, err)

	_, err = env.uc.VerifyCode(t.Context(), VerifyCodeInput{Phone: testPhone, Code: "123456"})

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, goerror.CodeNotFound, gerr.Code())
}
