package inbound

import (
	"github.com/shandysiswandi/goverid/internal/pkg/router"
	"github.com/shandysiswandi/goverid/internal/verification/usecase"
)

// HTTPEndpoint exposes HTTP handlers for the phone verification and
// onboarding handoff workflows. All endpoints are pre-auth.
type HTTPEndpoint struct {
	uc uc
}

// RequestCode requests a verification code for a phone number.
// @Summary Request verification code
// @Description Issues a one-time verification code and delivers it over SMS. Requests are throttled per phone number.
// @Tags Verification
// @Accept json
// @Produce json
// @Param request body RequestCodeRequest true "Code request payload"
// @Success 200 {object} router.successResponse "Code request accepted"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 429 {object} router.errorResponse "Throttled or banned" example:{"message":"too many verification requests, retry later","error":{"retry_after_seconds":"30"}}
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/verification/phone/request [post]
func (h *HTTPEndpoint) RequestCode(r *router.Request) (any, error) {
	var req RequestCodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.RequestCode(r.Context(), usecase.RequestCodeInput{Phone: req.Phone}); err != nil {
		return nil, err
	}

	return RequestCodeResponse{}, nil
}

// VerifyCode checks a verification code and issues an onboarding token.
// @Summary Verify phone number
// @Description Verifies the code sent to a phone number. On success the challenge is consumed and a single-use onboarding token is returned.
// @Tags Verification
// @Accept json
// @Produce json
// @Param request body VerifyCodeRequest true "Code verification payload"
// @Success 200 {object} router.successResponse{data=VerifyCodeResponse} "Verification result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Expired or incorrect code"
// @Failure 404 {object} router.errorResponse "No verification request found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/verification/phone/verify [post]
func (h *HTTPEndpoint) VerifyCode(r *router.Request) (any, error) {
	var req VerifyCodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyCode(r.Context(), usecase.VerifyCodeInput{
		Phone: req.Phone,
		Code:  req.Code,
	})
	if err != nil {
		return nil, err
	}

	return VerifyCodeResponse{OnboardingToken: resp.OnboardingToken}, nil
}

// RedeemOnboardingToken consumes an onboarding token and reveals the phone.
// @Summary Redeem onboarding token
// @Description Validates an onboarding token and consumes its server-side record. Each token can be redeemed at most once.
// @Tags Verification, Onboarding
// @Accept json
// @Produce json
// @Param request body RedeemOnboardingTokenRequest true "Redemption payload"
// @Success 200 {object} router.successResponse{data=RedeemOnboardingTokenResponse} "Redemption result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid, expired, or already redeemed token"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/verification/onboarding/redeem [post]
func (h *HTTPEndpoint) RedeemOnboardingToken(r *router.Request) (any, error) {
	var req RedeemOnboardingTokenRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.RedeemOnboardingToken(r.Context(), usecase.RedeemOnboardingTokenInput{Token: req.Token})
	if err != nil {
		return nil, err
	}

	return RedeemOnboardingTokenResponse{
		Redeemed: resp.Redeemed,
		Phone:    resp.Phone,
	}, nil
}
