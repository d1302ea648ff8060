package inbound

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/goverid/internal/pkg/config"
	"github.com/shandysiswandi/goverid/internal/pkg/goerror"
	"github.com/shandysiswandi/goverid/internal/pkg/instrument"
	"github.com/shandysiswandi/goverid/internal/pkg/router"
	"github.com/shandysiswandi/goverid/internal/pkg/uid"
	"github.com/shandysiswandi/goverid/internal/verification/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUsecase struct {
	requestErr error
	verifyOut  *usecase.VerifyCodeOutput
	verifyErr  error
	redeemOut  *usecase.RedeemOnboardingTokenOutput
	redeemErr  error
}

func (s *stubUsecase) RequestCode(context.Context, usecase.RequestCodeInput) error {
	return s.requestErr
}

func (s *stubUsecase) VerifyCode(context.Context, usecase.VerifyCodeInput) (*usecase.VerifyCodeOutput, error) {
	return s.verifyOut, s.verifyErr
}

func (s *stubUsecase) RedeemOnboardingToken(context.Context, usecase.RedeemOnboardingTokenInput) (*usecase.RedeemOnboardingTokenOutput, error) {
	return s.redeemOut, s.redeemErr
}

type envelope struct {
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   map[string]string `json:"error"`
}

func newTestServer(t *testing.T, uc uc) *httptest.Server {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("app:\n  name: test\n"))
	require.NoError(t, err)

	r := router.NewRouter(router.Config{
		Config:     cfg,
		UUID:       uid.NewUUID(),
		Instrument: instrument.NewNoop(),
	})
	RegisterHTTPEndpoint(r, uc)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, srv *httptest.Server, path, body string) (int, envelope) {
	t.Helper()

	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestRequestCode_OK(t *testing.T) {
	srv := newTestServer(t, &stubUsecase{})

	status, env := postJSON(t, srv, "/api/v1/verification/phone/request", `{"phone":"+6281234567890"}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, env.Message, "verification code")
}

func TestRequestCode_Throttled(t *testing.T) {
	srv := newTestServer(t, &stubUsecase{
		requestErr: goerror.NewTooManyRequest("too many verification requests, retry later", "retry_after_seconds", "29"),
	})

	status, env := postJSON(t, srv, "/api/v1/verification/phone/request", `{"phone":"+6281234567890"}`)

	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, "29", env.Error["retry_after_seconds"])
}

func TestRequestCode_MalformedBody(t *testing.T) {
	srv := newTestServer(t, &stubUsecase{})

	status, _ := postJSON(t, srv, "/api/v1/verification/phone/request", `{"phone":`)

	assert.Equal(t, http.StatusBadRequest, status)
}

func TestVerifyCode_OK(t *testing.T) {
	srv := newTestServer(t, &stubUsecase{
		verifyOut: &usecase.VerifyCodeOutput{OnboardingToken: "signed-token"},
	})

	status, env := postJSON(t, srv, "/api/v1/verification/phone/verify", `{"phone":"+6281234567890","code":"123456"}`)

	assert.Equal(t, http.StatusOK, status)

	var data VerifyCodeResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "signed-token", data.OnboardingToken)
}

func TestVerifyCode_Incorrect(t *testing.T) {
	srv := newTestServer(t, &stubUsecase{
		verifyErr: goerror.NewBusiness("verification code is incorrect", goerror.CodeUnauthorized),
	})

	status, env := postJSON(t, srv, "/api/v1/verification/phone/verify", `{"phone":"+6281234567890","code":"000000"}`)

	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "verification code is incorrect", env.Message)
}

func TestRedeemOnboardingToken_OK(t *testing.T) {
	srv := newTestServer(t, &stubUsecase{
		redeemOut: &usecase.RedeemOnboardingTokenOutput{Redeemed: true, Phone: "+6281234567890"},
	})

	status, env := postJSON(t, srv, "/api/v1/verification/onboarding/redeem", `{"token":"signed-token"}`)

	assert.Equal(t, http.StatusOK, status)

	var data RedeemOnboardingTokenResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.True(t, data.Redeemed)
	assert.Equal(t, "+6281234567890", data.Phone)
}

func TestRedeemOnboardingToken_Rejected(t *testing.T) {
	srv := newTestServer(t, &stubUsecase{
		redeemErr: goerror.NewBusiness("invalid or expired onboarding token", goerror.CodeUnauthorized),
	})

	status, env := postJSON(t, srv, "/api/v1/verification/onboarding/redeem", `{"token":"bad"}`)

	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid or expired onboarding token", env.Message)
}
