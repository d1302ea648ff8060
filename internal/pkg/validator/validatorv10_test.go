package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type phonePayload struct {
	Phone string `validate:"required,phone"`
	Code  string `validate:"required,numeric,len=6"`
}

func newTestValidator(t *testing.T) *V10Validator {
	t.Helper()

	v, err := NewV10Validator()
	require.NoError(t, err)
	return v
}

func TestV10Validator_Valid(t *testing.T) {
	v := newTestValidator(t)

	err := v.Validate(phonePayload{Phone: "+6281234567890", Code: "123456"})
	assert.NoError(t, err)
}

func TestV10Validator_PhoneRule(t *testing.T) {
	v := newTestValidator(t)

	tests := []struct {
		name  string
		phone string
		valid bool
	}{
		{name: "international format", phone: "+14155550123", valid: true},
		{name: "missing plus", phone: "6281234567890", valid: false},
		{name: "leading zero country code", phone: "+0812345678", valid: false},
		{name: "too short", phone: "+12345", valid: false},
		{name: "too long", phone: "+1234567890123456", valid: false},
		{name: "letters", phone: "+62812abc7890", valid: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate(phonePayload{Phone: tc.phone, Code: "123456"})
			if tc.valid {
				assert.NoError(t, err)
				return
			}

			var verr V10ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Values(), "phone")
			assert.Contains(t, verr.Values()["phone"], "international format")
		})
	}
}

func TestV10Validator_SnakeCaseKeys(t *testing.T) {
	v := newTestValidator(t)

	type payload struct {
		OnboardingToken string `validate:"required"`
	}

	var verr V10ValidationError
	require.ErrorAs(t, v.Validate(payload{}), &verr)
	assert.Contains(t, verr.Values(), "onboarding_token")
}

func TestV10Validator_CodeRules(t *testing.T) {
	v := newTestValidator(t)

	var verr V10ValidationError
	require.ErrorAs(t, v.Validate(phonePayload{Phone: "+6281234567890", Code: "12ab56"}), &verr)
	assert.Contains(t, verr.Values(), "code")

	require.ErrorAs(t, v.Validate(phonePayload{Phone: "+6281234567890", Code: "1234"}), &verr)
	assert.Contains(t, verr.Values(), "code")
}
