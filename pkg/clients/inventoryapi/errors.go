package inventoryapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

const maxRawMessage = 200

// APIError is returned for any non-2xx response from the inventory API.
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: inventory api error: status=%d, message=%s", e.Endpoint, e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError carrying a 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Message extracts the user-facing text of err: the server-supplied message
// for API errors, the error string otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

func newAPIError(endpoint string, status int, body []byte) *APIError {
	return &APIError{
		Endpoint:   endpoint,
		StatusCode: status,
		Message:    extractMessage(status, body),
		Body:       string(body),
	}
}

// extractMessage understands {"error": ...}, {"detail": ...} and the
// field-error maps produced by the API's validation layer.
func extractMessage(status int, body []byte) string {
	trimmed := strings.TrimSpace(string(body))

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil && len(payload) > 0 {
		for _, key := range []string{"error", "detail", "message", "non_field_errors"} {
			if msg := flatten(payload[key]); msg != "" {
				return msg
			}
		}

		fields := make([]string, 0, len(payload))
		for field := range payload {
			fields = append(fields, field)
		}
		sort.Strings(fields)

		parts := make([]string, 0, len(fields))
		for _, field := range fields {
			if msg := flatten(payload[field]); msg != "" {
				parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "; ")
		}
	}

	var list []any
	if err := json.Unmarshal(body, &list); err == nil {
		if msg := flatten(list); msg != "" {
			return msg
		}
	}

	if trimmed != "" && !strings.HasPrefix(trimmed, "<") {
		if len(trimmed) > maxRawMessage {
			trimmed = trimmed[:maxRawMessage]
		}
		return trimmed
	}

	return http.StatusText(status)
}

func flatten(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := flatten(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}
