package token

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type stubID struct {
	mu sync.Mutex
	n  int
}

func (s *stubID) Generate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return string(rune('a' + s.n))
}

func newTestToken(t *testing.T, clk fixedClock) *Symmetric {
	t.Helper()

	tok, err := NewHS512(Config{
		Secret:    []byte(testSecret),
		Issuer:    "goverid-test",
		Audiences: []string{"onboarding"},
		TTL:       3 * time.Minute,
		Clock:     clk,
		UUID:      &stubID{},
	})
	require.NoError(t, err)
	return tok
}

func TestNewHS512_ShortKey(t *testing.T) {
	_, err := NewHS512(Config{Secret: []byte("too-short")})
	assert.ErrorIs(t, err, ErrSigningKeyTooShort)
}

func TestSymmetric_RoundTrip(t *testing.T) {
	tok := newTestToken(t, fixedClock{now: time.Now()})

	signed, err := tok.Generate("cipher-value", "token-id-1")
	require.NoError(t, err)

	claims, err := tok.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "cipher-value", claims.PhoneCipher)
	assert.Equal(t, "token-id-1", claims.TokenID)
	assert.Equal(t, "token-id-1", claims.Subject)
	assert.Equal(t, "goverid-test", claims.Issuer)
}

func TestSymmetric_Expired(t *testing.T) {
	tok := newTestToken(t, fixedClock{now: time.Now().Add(-10 * time.Minute)})

	signed, err := tok.Generate("cipher-value", "token-id-1")
	require.NoError(t, err)

	_, err = tok.Verify(signed)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestSymmetric_WrongSecret(t *testing.T) {
	tok := newTestToken(t, fixedClock{now: time.Now()})

	signed, err := tok.Generate("cipher-value", "token-id-1")
	require.NoError(t, err)

	other, err := NewHS512(Config{
		Secret:    []byte("another-secret-another-secret-another-secret-another-secret-1234"),
		Issuer:    "goverid-test",
		Audiences: []string{"onboarding"},
		TTL:       3 * time.Minute,
		Clock:     fixedClock{now: time.Now()},
		UUID:      &stubID{},
	})
	require.NoError(t, err)

	_, err = other.Verify(signed)
	assert.Error(t, err)
}

func TestSymmetric_WrongIssuer(t *testing.T) {
	issuerA := newTestToken(t, fixedClock{now: time.Now()})

	issuerB, err := NewHS512(Config{
		Secret:    []byte(testSecret),
		Issuer:    "someone-else",
		Audiences: []string{"onboarding"},
		TTL:       3 * time.Minute,
		Clock:     fixedClock{now: time.Now()},
		UUID:      &stubID{},
	})
	require.NoError(t, err)

	signed, err := issuerB.Generate("cipher-value", "token-id-1")
	require.NoError(t, err)

	_, err = issuerA.Verify(signed)
	assert.Error(t, err)
}

func TestSymmetric_MissingPayloadClaims(t *testing.T) {
	tok := newTestToken(t, fixedClock{now: time.Now()})

	signed, err := tok.Generate("", "")
	require.NoError(t, err)

	_, err = tok.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSymmetric_Garbage(t *testing.T) {
	tok := newTestToken(t, fixedClock{now: time.Now()})

	_, err := tok.Verify("not.a.token")
	assert.Error(t, err)
}
