package http

import (
	"encoding/json"
	"errors"
	"fmt"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lorrc/service-desk-realtime/internal/core/errors"
)

func TestErrorHandler_Handle(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unauthorized", apperrors.ErrUnauthorized, stdhttp.StatusUnauthorized, "UNAUTHORIZED"},
		{"invalid token", apperrors.ErrInvalidToken, stdhttp.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", apperrors.ErrForbidden, stdhttp.StatusForbidden, "FORBIDDEN"},
		{"ticket not found", fmt.Errorf("lookup: %w", apperrors.ErrTicketNotFound), stdhttp.StatusNotFound, "TICKET_NOT_FOUND"},
		{"not found", apperrors.ErrNotFound, stdhttp.StatusNotFound, "NOT_FOUND"},
		{"ticket id required", apperrors.ErrTicketIDRequired, stdhttp.StatusBadRequest, "VALIDATION_ERROR"},
		{"invalid room key", apperrors.ErrInvalidRoomKey, stdhttp.StatusBadRequest, "VALIDATION_ERROR"},
		{"broadcast unavailable", apperrors.ErrBroadcastUnavailable, stdhttp.StatusServiceUnavailable, "BROADCAST_UNAVAILABLE"},
		{"rate limited", apperrors.ErrRateLimited, stdhttp.StatusTooManyRequests, "RATE_LIMITED"},
		{"app error", apperrors.NewBadRequestError(errors.New("boom"), "Bad input"), stdhttp.StatusBadRequest, "BAD_REQUEST"},
		{"unknown", errors.New("database exploded"), stdhttp.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	handler := NewErrorHandler(discardLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(stdhttp.MethodGet, "/", nil)
			rr := httptest.NewRecorder()

			handler.Handle(rr, req, tt.err)

			assert.Equal(t, tt.wantStatus, rr.Code)
			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestErrorHandler_ValidationErrors(t *testing.T) {
	errs := apperrors.NewValidationErrors()
	errs.Add("reply", "Must be a JSON object")

	rr := httptest.NewRecorder()
	NewErrorHandler(discardLogger()).Handle(rr, httptest.NewRequest(stdhttp.MethodPost, "/", nil), errs)

	assert.Equal(t, stdhttp.StatusUnprocessableEntity, rr.Code)
	var resp ValidationErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "VALIDATION_ERROR", resp.Code)
	assert.Equal(t, []string{"Must be a JSON object"}, resp.Fields["reply"])
}

func TestHandleError_NilIsNoop(t *testing.T) {
	rr := httptest.NewRecorder()
	handled := HandleError(rr, httptest.NewRequest(stdhttp.MethodGet, "/", nil), nil, NewErrorHandler(discardLogger()))
	assert.False(t, handled)
	assert.Equal(t, stdhttp.StatusOK, rr.Code)
}
