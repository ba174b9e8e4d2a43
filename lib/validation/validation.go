package validation

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
)

// ParseID parses a path id. Only positive base-10 integers are ids; anything
// else reports false so the caller can answer 404 as for a missing row.
func ParseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", slog.Any("error", err))
	}
}

// WriteError writes {"error": message}.
func WriteError(w http.ResponseWriter, message string, status int) {
	WriteJSON(w, map[string]string{"error": message}, status)
}

// WriteErrors writes {"errors": [messages...]}.
func WriteErrors(w http.ResponseWriter, messages []string, status int) {
	if messages == nil {
		messages = []string{}
	}
	WriteJSON(w, map[string][]string{"errors": messages}, status)
}
