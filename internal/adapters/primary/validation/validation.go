package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/lorrc/service-desk-realtime/internal/core/errors"
)

// DefaultMaxBodyBytes bounds request bodies when no limit is given.
const DefaultMaxBodyBytes int64 = 1 << 20

// Validator validates request data
type Validator struct {
	errors *apperrors.ValidationErrors
}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{
		errors: apperrors.NewValidationErrors(),
	}
}

// HasErrors returns true if there are validation errors
func (v *Validator) HasErrors() bool {
	return v.errors.HasErrors()
}

// Errors returns the validation errors
func (v *Validator) Errors() *apperrors.ValidationErrors {
	return v.errors
}

// Custom adds a custom validation
func (v *Validator) Custom(field string, valid bool, message string) *Validator {
	if !valid {
		v.errors.Add(field, message)
	}
	return v
}

// JSONObject validates that raw holds a JSON object
func (v *Validator) JSONObject(field string, raw json.RawMessage) *Validator {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		v.errors.Add(field, "This field is required")
		return v
	}
	if !strings.HasPrefix(trimmed, "{") || !json.Valid(raw) {
		v.errors.Add(field, "Must be a JSON object")
	}
	return v
}

// Validatable is implemented by request bodies that check themselves.
type Validatable interface {
	Validate(v *Validator)
}

// DecodeAndValidate decodes a JSON request body of at most maxBytes and runs
// the body's own validation when it has one.
func DecodeAndValidate[T any](r *http.Request, maxBytes int64) (*T, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}

	var req T
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBytes+1))
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperrors.NewBadRequestError(err, "Request body is required")
		}
		return nil, apperrors.NewBadRequestError(err, "Invalid request body")
	}
	if decoder.InputOffset() > maxBytes {
		return nil, apperrors.NewBadRequestError(apperrors.ErrBadRequest, "Request body too large")
	}

	if validatable, ok := any(&req).(Validatable); ok {
		v := NewValidator()
		validatable.Validate(v)
		if v.HasErrors() {
			return nil, v.Errors()
		}
	}

	return &req, nil
}

// ParseTicketID parses a ticket ID path segment
func ParseTicketID(raw string) (int64, error) {
	if raw == "" {
		return 0, apperrors.ErrTicketIDRequired
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewBadRequestError(
			fmt.Errorf("%w: %q", apperrors.ErrBadRequest, raw),
			"Ticket ID must be a positive integer",
		)
	}
	return id, nil
}
