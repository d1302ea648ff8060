package entity

// AuditAction classifies entries in the verification audit trail.
type AuditAction int

const (
	// AuditActionUnknown is the zero value.
	AuditActionUnknown AuditAction = iota
	// AuditActionCodeRequested records an admitted code request.
	AuditActionCodeRequested
	// AuditActionRequestThrottled records a request rejected by a cooldown deadline.
	AuditActionRequestThrottled
	// AuditActionRequesterBanned records a request that tripped the window ban.
	AuditActionRequesterBanned
	// AuditActionCodeVerified records a successful challenge verification.
	AuditActionCodeVerified
	// AuditActionCodeRejected records a failed challenge verification.
	AuditActionCodeRejected
	// AuditActionTokenIssued records an onboarding token issuance.
	AuditActionTokenIssued
	// AuditActionTokenRedeemed records a successful token redemption.
	AuditActionTokenRedeemed
	// AuditActionTokenRejected records a failed token redemption.
	AuditActionTokenRejected
)

// String returns the audit action as a stable storage value.
func (a AuditAction) String() string {
	switch a {
	case AuditActionCodeRequested:
		return "code_requested"
	case AuditActionRequestThrottled:
		return "request_throttled"
	case AuditActionRequesterBanned:
		return "requester_banned"
	case AuditActionCodeVerified:
		return "code_verified"
	case AuditActionCodeRejected:
		return "code_rejected"
	case AuditActionTokenIssued:
		return "token_issued"
	case AuditActionTokenRedeemed:
		return "token_redeemed"
	case AuditActionTokenRejected:
		return "token_rejected"
	default:
		return "unknown"
	}
}
