package event

const PhoneBannedDestination string = "verification.phone.banned"
const PhoneBannedConsumerRisk string = "verification.phone.banned.risk"

type PhoneBannedMessage struct {
	Phone        string `json:"phone"`
	RequestCount int64  `json:"request_count"`
	BannedUntil  int64  `json:"banned_until"`
}
