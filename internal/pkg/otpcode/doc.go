// Package otpcode generates one-time verification codes and derives the
// storable challenge secret for them.
//
// The code itself is never persisted. Storage holds only an HMAC of the code
// keyed by a service secret, so a leaked cache snapshot cannot be replayed as
// a verification code.
package otpcode
