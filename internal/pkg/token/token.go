package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidSigningMethod is returned when the JWT signing method is not supported.
	ErrInvalidSigningMethod = errors.New("invalid JWT signing method")

	// ErrSigningKeyTooShort is returned when the HS512 signing key is less than 64 bytes.
	ErrSigningKeyTooShort = errors.New("HS512 signing key must be at least 64 bytes (512 bits)")

	// ErrTokenExpired is returned when the token has expired.
	ErrTokenExpired = errors.New("token has expired")

	// ErrInvalidToken is returned when the token is malformed or fails validation.
	ErrInvalidToken = errors.New("invalid token")
)

// Token issues and verifies signed onboarding tokens.
type Token interface {
	// Generate creates a signed token binding the encrypted phone to a
	// single-use token ID.
	Generate(phoneCipher, tokenID string) (string, error)
	// Verify parses and validates the token and returns claims.
	Verify(tokenStr string) (Claims, error)
}

type clocker interface {
	Now() time.Time
}

type generator interface {
	Generate() string
}

// Config defines the inputs for building a Token implementation.
type Config struct {
	// Secret is the HMAC signing key.
	Secret []byte
	// Issuer is the token issuer value.
	Issuer string
	// Audiences are the accepted token audiences.
	Audiences []string
	// TTL is the token time-to-live.
	TTL time.Duration
	// Clock provides the current time source.
	Clock clocker
	// UUID generates JWT IDs.
	UUID generator
}

// Claims wraps registered claims with the onboarding payload.
//
// PhoneCipher is opaque to the client; only the service holding the
// encryption key can recover the phone number from it.
type Claims struct {
	// RegisteredClaims holds the standard JWT claims.
	jwt.RegisteredClaims
	// PhoneCipher is the encrypted verified phone number.
	PhoneCipher string `json:"phone_cipher"`
	// TokenID references the server-side redemption record.
	TokenID string `json:"token_id"`
}
