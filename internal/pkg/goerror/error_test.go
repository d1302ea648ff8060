package goerror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewServer(cause)

	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, TypeServer, gerr.Type())
	assert.Equal(t, CodeInternal, gerr.Code())
	assert.Equal(t, http.StatusInternalServerError, gerr.StatusCode())
	assert.Equal(t, "Internal server error", gerr.Msg())
	assert.ErrorIs(t, err, cause)
}

func TestNewBusiness(t *testing.T) {
	err := NewBusiness("verification code has expired", CodeUnauthorized)

	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, TypeBusiness, gerr.Type())
	assert.Equal(t, http.StatusUnauthorized, gerr.StatusCode())
	assert.Equal(t, "verification code has expired", gerr.Error())
}

func TestNewTooManyRequest(t *testing.T) {
	err := NewTooManyRequest("too many requests", "retry_after_seconds", "29")

	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, http.StatusTooManyRequests, gerr.StatusCode())
	assert.Equal(t, map[string]string{"retry_after_seconds": "29"}, gerr.Fields())
}

func TestNewTooManyRequest_NoFields(t *testing.T) {
	err := NewTooManyRequest("blocked")

	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Empty(t, gerr.Fields())
}

func TestNewInvalidInput(t *testing.T) {
	err := NewInvalidInput(errors.New("phone is required"))

	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, TypeValidation, gerr.Type())
	assert.Equal(t, http.StatusUnprocessableEntity, gerr.StatusCode())
}

func TestNewInvalidFormat(t *testing.T) {
	var gerr *Error
	require.ErrorAs(t, NewInvalidFormat(), &gerr)
	assert.Equal(t, http.StatusBadRequest, gerr.StatusCode())
	assert.Equal(t, "Invalid request body", gerr.Msg())
}

func TestStatusCodeMapping(t *testing.T) {
	tests := []struct {
		code   Code
		status int
	}{
		{CodeInternal, http.StatusInternalServerError},
		{CodeInvalidFormat, http.StatusBadRequest},
		{CodeInvalidInput, http.StatusUnprocessableEntity},
		{CodeNotFound, http.StatusNotFound},
		{CodeTooManyRequest, http.StatusTooManyRequests},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeTimeout, http.StatusRequestTimeout},
	}

	for _, tc := range tests {
		t.Run(tc.code.String(), func(t *testing.T) {
			e := &Error{code: tc.code}
			assert.Equal(t, tc.status, e.StatusCode())
		})
	}
}
