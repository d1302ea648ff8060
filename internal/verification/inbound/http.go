package inbound

import (
	"context"

	"github.com/shandysiswandi/goverid/internal/pkg/router"
	"github.com/shandysiswandi/goverid/internal/verification/usecase"
)

type uc interface {
	RequestCode(ctx context.Context, in usecase.RequestCodeInput) error
	VerifyCode(ctx context.Context, in usecase.VerifyCodeInput) (*usecase.VerifyCodeOutput, error)
	RedeemOnboardingToken(ctx context.Context, in usecase.RedeemOnboardingTokenInput) (*usecase.RedeemOnboardingTokenOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Phone verification (pre-auth, throttled per phone number)
	r.POST("/api/v1/verification/phone/request", end.RequestCode)
	r.POST("/api/v1/verification/phone/verify", end.VerifyCode)

	// Onboarding handoff
	r.POST("/api/v1/verification/onboarding/redeem", end.RedeemOnboardingToken)
}
