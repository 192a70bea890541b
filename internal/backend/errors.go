package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for backend call outcomes. Handlers branch on these to
// pick the right user-facing treatment.
var (
	// ErrUnavailable indicates a transport-level failure: the backend
	// could not be reached at all.
	ErrUnavailable = errors.New("backend unreachable")
	// ErrUnauthorized covers 401 and 403 uniformly; both mean the stored
	// token is missing, expired or lacks rights.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound is returned for 404 on single-entity fetches.
	ErrNotFound = errors.New("not found")
)

// StatusError carries a non-auth, non-404 backend failure together with
// the message extracted from the response body.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("ошибка %d", e.Status)
}

// IsUnauthorized reports whether err is an authorization failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsNotFound reports whether err is a missing-record failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnavailable reports whether err is a transport failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// extractMessage digs a human-readable message out of an error response
// body. The backend is inconsistent: some endpoints return a plain string,
// some {"error": ...}, validation errors return a field-keyed object whose
// values may be arrays.
func extractMessage(body []byte, contentType string, status int) string {
	fallback := fmt.Sprintf("ошибка %d", status)
	if len(body) == 0 {
		return fallback
	}
	if !strings.Contains(contentType, "application/json") {
		if text := strings.TrimSpace(string(body)); text != "" {
			return text
		}
		return fallback
	}

	var asString string
	if err := json.Unmarshal(body, &asString); err == nil {
		if asString != "" {
			return asString
		}
		return fallback
	}

	var asObject map[string]json.RawMessage
	if err := json.Unmarshal(body, &asObject); err != nil || len(asObject) == 0 {
		return fallback
	}
	if raw, ok := asObject["error"]; ok {
		if msg := rawToString(raw); msg != "" {
			return msg
		}
	}
	for _, raw := range asObject {
		if msg := rawToString(raw); msg != "" {
			return msg
		}
	}
	return fallback
}

func rawToString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	return ""
}
