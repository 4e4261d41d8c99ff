package providers

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "a studio portrait", "a studio portrait"},
		{"control characters", "soft\x00 light\x07\x1b", "soft light"},
		{"keeps tabs and newlines", "a\tb\nc", "a\tb\nc"},
		{"crlf", "line one\r\nline two\rline three", "line one\nline two\nline three"},
		{"collapses blank runs", "top\n\n\n\n\nbottom", "top\n\nbottom"},
		{"blank lines with spaces", "top\n   \n \t \n\nbottom", "top\n\nbottom"},
		{"trailing blanks per line", "left   \nright\t", "left\nright"},
		{"trims ends", "\n\n  framed  \n\n", "framed"},
		{"line separators", "one\u2028two\u2029\ufeff", "onetwo"},
		{"invalid utf-8", "bad\xff\xfebytes", "badbytes"},
		{"keeps unicode", "café · 東京", "café · 東京"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"\x01a\r\n\r\n\r\nb  \n\n\nc\x7f",
		"  lead\n\n\n\ttrail\t\n",
		strings.Repeat("x\n\n\n", 50),
	}
	for _, in := range inputs {
		once := Sanitize(in)
		if twice := Sanitize(once); twice != once {
			t.Errorf("not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestSanitize_JSONRoundTrip(t *testing.T) {
	in := "quote \" backslash \\ nul \x00 esc \x1b end"
	clean := Sanitize(in)

	data, err := json.Marshal(map[string]string{"prompt": clean})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var out map[string]string
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if out["prompt"] != clean {
		t.Errorf("round trip changed text: %q != %q", out["prompt"], clean)
	}
}

func TestRuneLen(t *testing.T) {
	if RuneLen("東京") != 2 {
		t.Errorf("expected 2 runes, got %d", RuneLen("東京"))
	}
}
