package logging

import (
	"log/slog"
	"regexp"
	"strings"

	"lumenhq/dispatch/pkg/config"
)

// Redactor masks credentials and inline image data in log output.
type Redactor struct {
	patterns []redactPattern
}

// redactPattern contains a compiled regex and replacement string.
type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// Built-in pattern names.
const (
	PatternBearerToken = "bearer_token"
	PatternOpenAIKey   = "openai_key"
	PatternGoogleKey   = "google_key"
	PatternKeyParam    = "key_param"
	PatternDataURI     = "data_uri"
	PatternPassword    = "password"
	PatternEmail       = "email"
)

// Patterns run in this order. Bearer tokens go first so the key patterns
// never see a half-masked header.
var defaultPatterns = []struct {
	name        string
	regex       string
	replacement string
}{
	{PatternBearerToken, `Bearer\s+[A-Za-z0-9\-._~+/]+=*`, "Bearer ***"},
	{PatternOpenAIKey, `\bsk-[A-Za-z0-9_\-]{6,}`, "sk-***"},
	{PatternGoogleKey, `\bAIza[0-9A-Za-z_\-]{20,}`, "AIza***"},
	{PatternKeyParam, `(?i)((?:x-goog-)?api[-_]?key|[?&]key)(["']?\s*[:=]\s*["']?)[^\s"'&,}]+`, "$1$2***"},
	{PatternDataURI, `data:image/[A-Za-z0-9.+\-]+;base64,[A-Za-z0-9+/=]{64,}`, "data:image;base64,***"},
	{PatternPassword, `(?i)(password|passwd|pwd)[:=]\s*[^\s]+`, "$1: ***"},
	{PatternEmail, `([a-zA-Z0-9._%+-]+)@([a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`, "***@$2"},
}

var sensitiveKeySuffixes = []string{
	"password", "passwd", "secret", "token",
	"api_key", "apikey", "api-key", "authorization",
	"private_key",
}

// NewRedactor creates a Redactor with the built-in patterns followed by
// custom ones. Invalid custom patterns are skipped; configuration
// validation reports them.
func NewRedactor(custom []config.RedactPattern) *Redactor {
	r := &Redactor{}
	for _, p := range defaultPatterns {
		r.patterns = append(r.patterns, redactPattern{
			name:        p.name,
			regex:       regexp.MustCompile(p.regex),
			replacement: p.replacement,
		})
	}

	for _, p := range custom {
		regex, err := regexp.Compile(p.Pattern)
		if err != nil {
			continue
		}
		replacement := p.Replacement
		if replacement == "" {
			replacement = "***"
		}
		r.patterns = append(r.patterns, redactPattern{
			name:        p.Name,
			regex:       regex,
			replacement: replacement,
		})
	}

	return r
}

// RedactString masks every pattern match in value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}
	for _, p := range r.patterns {
		value = p.regex.ReplaceAllString(value, p.replacement)
	}
	return value
}

// RedactAttr redacts a single attribute. Values under sensitive keys are
// masked whole; other strings, errors and groups are pattern-matched.
func (r *Redactor) RedactAttr(a slog.Attr) slog.Attr {
	v := a.Value.Resolve()

	if isSensitiveKey(a.Key) {
		if v.Kind() == slog.KindString {
			return slog.String(a.Key, RedactAPIKey(v.String()))
		}
		return slog.String(a.Key, "***")
	}

	switch v.Kind() {
	case slog.KindString:
		return slog.String(a.Key, r.RedactString(v.String()))
	case slog.KindGroup:
		group := v.Group()
		redacted := make([]slog.Attr, len(group))
		for i, g := range group {
			redacted[i] = r.RedactAttr(g)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redacted...)}
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return slog.String(a.Key, r.RedactString(err.Error()))
		}
	}
	return slog.Attr{Key: a.Key, Value: v}
}

// RedactArgs redacts alternating key/value log arguments.
func (r *Redactor) RedactArgs(args ...any) []any {
	if len(args) == 0 {
		return args
	}

	redacted := make([]any, len(args))
	copy(redacted, args)

	for i := 1; i < len(redacted); i += 2 {
		key, ok := redacted[i-1].(string)
		if !ok {
			continue
		}
		a := r.RedactAttr(slog.Any(key, redacted[i]))
		redacted[i] = a.Value.Any()
	}
	return redacted
}

// isSensitiveKey reports whether a key names a credential. Suffix matching
// keeps counters such as max_tokens readable.
func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for _, s := range sensitiveKeySuffixes {
		if strings.HasSuffix(lowerKey, s) {
			return true
		}
	}
	return false
}

// RedactAPIKey redacts an API key, keeping only a short prefix.
func RedactAPIKey(apiKey string) string {
	if apiKey == "" {
		return ""
	}
	if len(apiKey) <= 8 {
		return "***"
	}
	return apiKey[:4] + "***"
}
