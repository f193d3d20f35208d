package services

import (
	"fmt"

	"github.com/lorrc/service-desk-realtime/internal/core/domain"
)

func marshalEventPayload(kind domain.EventKind, payload any) (domain.Projection, error) {
	projection, err := domain.NewProjection(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", kind, err)
	}
	return projection, nil
}
