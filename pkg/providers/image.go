package providers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// MinImageBytes is the smallest decoded payload accepted as an image. Every
// supported format needs at least a signature and a header.
const MinImageBytes = 16

var errNotImageReference = errors.New("value is neither a URL, a data URI nor base64 image data")

// NormalizeImageReference turns a provider image value into a reference the
// caller can use directly. http(s) URLs and data URIs are returned as-is.
// Bare base64 payloads become data URIs; the MIME type is mimeHint when it
// names an image type and is sniffed otherwise. Payloads that decode to
// something other than an image are rejected.
func NormalizeImageReference(value, mimeHint string) (string, error) {
	v := strings.TrimSpace(value)
	lower := strings.ToLower(v)

	switch {
	case strings.HasPrefix(lower, "https://"), strings.HasPrefix(lower, "http://"):
		return v, nil
	case strings.HasPrefix(lower, "data:"):
		if !strings.Contains(v, ",") {
			return "", errors.New("data URI has no payload")
		}
		return v, nil
	}

	data, err := decodeBase64(v)
	if err != nil || len(data) == 0 {
		return "", errNotImageReference
	}
	if len(data) < MinImageBytes {
		return "", fmt.Errorf("decoded payload is %d bytes, too short for an image", len(data))
	}

	mime := strings.ToLower(strings.TrimSpace(mimeHint))
	if !strings.HasPrefix(mime, "image/") {
		mime = http.DetectContentType(data)
		if !strings.HasPrefix(mime, "image/") {
			return "", fmt.Errorf("decoded payload is %s, not an image", mime)
		}
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// IsImageReference reports whether s is an http(s) URL or a data URI, the
// two forms accepted as an image input.
func IsImageReference(s string) bool {
	lower := strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "http://") ||
		(strings.HasPrefix(lower, "data:image/") && strings.Contains(lower, ","))
}

// SplitDataURI returns the MIME type and base64 payload of a data URI.
func SplitDataURI(ref string) (mime, data string, ok bool) {
	ref = strings.TrimSpace(ref)
	if !strings.HasPrefix(strings.ToLower(ref), "data:") {
		return "", "", false
	}
	header, payload, found := strings.Cut(ref[len("data:"):], ",")
	if !found {
		return "", "", false
	}
	mime, _, _ = strings.Cut(header, ";")
	return mime, payload, true
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, s)

	encodings := []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	}
	var lastErr error
	for _, enc := range encodings {
		data, err := enc.DecodeString(s)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
