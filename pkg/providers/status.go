package providers

import (
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// maxErrorMessage bounds how much of a raw error body is kept in a message.
const maxErrorMessage = 512

// CheckStatus maps a non-2xx response onto the error taxonomy before any
// body parsing happens. It returns nil for 2xx responses.
func CheckStatus(provider ProviderID, resp *RawResponse) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	e := &ProviderError{
		Provider:   provider,
		StatusCode: resp.StatusCode,
		Message:    errorMessage(resp.Body),
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		e.Kind = AuthenticationFailed
	case http.StatusForbidden:
		e.Kind = Forbidden
	case http.StatusNotFound:
		e.Kind = NotFound
	case http.StatusTooManyRequests:
		e.Kind = RateLimited
		e.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
	default:
		e.Kind = ServiceUnavailable
	}
	return e
}

// errorMessage pulls the provider's own error text out of a body, falling
// back to a bounded slice of the raw body.
func errorMessage(body []byte) string {
	if gjson.ValidBytes(body) {
		for _, path := range []string{"error.message", "error", "message", "detail", "error.status"} {
			if v := gjson.GetBytes(body, path); v.Type == gjson.String && v.String() != "" {
				return v.String()
			}
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorMessage {
		msg = msg[:maxErrorMessage]
		for !utf8.ValidString(msg) {
			msg = msg[:len(msg)-1]
		}
		msg += "..."
	}
	if msg == "" {
		msg = "empty response body"
	}
	return msg
}

// parseRetryAfter parses the Retry-After header value.
// It supports both delay-seconds and HTTP-date formats.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}

	var seconds int
	if _, err := fmt.Sscanf(header, "%d", &seconds); err == nil {
		if seconds < 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(header); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}

	return 0
}
