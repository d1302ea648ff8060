package event

const PhoneVerifiedDestination string = "verification.phone.verified"
const PhoneVerifiedConsumerOnboarding string = "verification.phone.verified.onboarding"

type PhoneVerifiedMessage struct {
	Phone      string `json:"phone"`
	TokenID    string `json:"token_id"`
	VerifiedAt int64  `json:"verified_at"`
}
