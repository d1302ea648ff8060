package inbound

type RequestCodeRequest struct {
	Phone string `json:"phone"`
}

type RequestCodeResponse struct{}

func (RequestCodeResponse) Message() string {
	return "If the phone number is valid, a verification code has been sent."
}

type VerifyCodeRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

type VerifyCodeResponse struct {
	OnboardingToken string `json:"onboarding_token"`
}

func (VerifyCodeResponse) Message() string {
	return "Phone number verified."
}

type RedeemOnboardingTokenRequest struct {
	Token string `json:"token"`
}

type RedeemOnboardingTokenResponse struct {
	Redeemed bool   `json:"redeemed"`
	Phone    string `json:"phone"`
}

func (RedeemOnboardingTokenResponse) Message() string {
	return "Onboarding token redeemed."
}
