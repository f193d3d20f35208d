package http

import (
	"encoding/json"
	"net/http"
)

// AcceptedResponse acknowledges a best-effort operation.
type AcceptedResponse struct {
	Status string `json:"status"`
	Event  string `json:"event"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The header has already been sent, so an encode error cannot be reported.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteAccepted acknowledges that event was handed to the realtime fabric.
// Delivery itself is not confirmed.
func WriteAccepted(w http.ResponseWriter, event string) {
	WriteJSON(w, http.StatusAccepted, AcceptedResponse{Status: "accepted", Event: event})
}
