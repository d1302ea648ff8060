package otpcode

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"math/big"
)

// DefaultLength is the number of digits used when a Numeric generator is
// built with a non-positive length.
const DefaultLength = 6

// Generator produces one-time numeric codes.
type Generator interface {
	// Generate returns a new random code.
	Generate() (string, error)
}

// Numeric generates fixed-length decimal codes from crypto/rand.
type Numeric struct {
	length int
}

// NewNumeric constructs a Numeric generator of the given digit length.
func NewNumeric(length int) *Numeric {
	if length < 1 {
		length = DefaultLength
	}

	return &Numeric{length: length}
}

var ten = big.NewInt(10)

// Generate returns a new random decimal code. Leading zeros are allowed, so
// every code carries the full digit space.
func (n *Numeric) Generate() (string, error) {
	digits := make([]byte, n.length)
	for i := range digits {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		digits[i] = '0' + byte(d.Int64())
	}

	return string(digits), nil
}

// Secret derives and verifies the challenge secret stored for a code.
type Secret struct {
	key []byte
}

// NewSecret creates a secret deriver keyed with the service secret.
func NewSecret(key string) *Secret {
	return &Secret{key: []byte(key)}
}

// Derive returns the hex-encoded HMAC SHA-256 of the code.
func (s *Secret) Derive(code string) string {
	return string(s.gen(code))
}

// Verify checks whether the submitted code matches the stored secret.
// The comparison is constant time.
func (s *Secret) Verify(stored, code string) bool {
	expected := s.gen(code)
	return subtle.ConstantTimeCompare([]byte(stored), expected) == 1
}

func (s *Secret) gen(code string) []byte {
	h := hmac.New(sha256.New, s.key)
	h.Write([]byte(code))
	sum := h.Sum(nil)
	result := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(result, sum)
	return result
}
