package entity

import "time"

// AuditRecord is one append-only entry in the verification audit trail.
//
// Phone is stored for abuse investigations; retention is handled by the
// audit store, not by this service.
type AuditRecord struct {
	// Phone is the requester identity the action applies to.
	Phone string
	// Action classifies what happened.
	Action AuditAction
	// Detail carries optional free-form context (rejection reason, token id).
	Detail string
	// OccurredAt is when the action happened.
	OccurredAt time.Time
}
