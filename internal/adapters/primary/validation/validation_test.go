package validation

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/lorrc/service-desk-realtime/internal/core/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type replyBody struct {
	Reply json.RawMessage `json:"reply"`
}

func (b *replyBody) Validate(v *Validator) {
	v.JSONObject("reply", b.Reply)
}

func TestDecodeAndValidate(t *testing.T) {
	newRequest := func(body string) *http.Request {
		return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	}

	t.Run("valid body", func(t *testing.T) {
		body, err := DecodeAndValidate[replyBody](newRequest(`{"reply":{"id":7}}`), 0)
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":7}`, string(body.Reply))
	})

	t.Run("empty body", func(t *testing.T) {
		_, err := DecodeAndValidate[replyBody](newRequest(``), 0)
		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	})

	t.Run("malformed body", func(t *testing.T) {
		_, err := DecodeAndValidate[replyBody](newRequest(`{"reply":`), 0)
		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr))
	})

	t.Run("validation failure", func(t *testing.T) {
		_, err := DecodeAndValidate[replyBody](newRequest(`{"reply":[1,2]}`), 0)
		var validationErrs *apperrors.ValidationErrors
		require.True(t, errors.As(err, &validationErrs))
		assert.Contains(t, validationErrs.Errors, "reply")
	})

	t.Run("too large", func(t *testing.T) {
		_, err := DecodeAndValidate[replyBody](newRequest(`{"reply":{"body":"`+strings.Repeat("x", 64)+`"}}`), 16)
		require.Error(t, err)
	})
}

func TestValidator_JSONObject(t *testing.T) {
	tests := []struct {
		raw   string
		valid bool
	}{
		{`{"a":1}`, true},
		{`{}`, true},
		{``, false},
		{`null`, false},
		{`"text"`, false},
		{`[1]`, false},
	}

	for _, tt := range tests {
		v := NewValidator().JSONObject("field", json.RawMessage(tt.raw))
		assert.Equal(t, !tt.valid, v.HasErrors(), "raw=%q", tt.raw)
	}
}

func TestParseTicketID(t *testing.T) {
	id, err := ParseTicketID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = ParseTicketID("")
	assert.ErrorIs(t, err, apperrors.ErrTicketIDRequired)

	for _, raw := range []string{"abc", "0", "-3", "4.2"} {
		_, err := ParseTicketID(raw)
		assert.ErrorIs(t, err, apperrors.ErrBadRequest, raw)
	}
}
