package compress

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Boundary thresholds as fractions of the budget. A boundary earlier than
// its threshold loses too much text and the next strategy is tried.
const (
	ParagraphThreshold = 0.7
	SentenceThreshold  = 0.8
)

var (
	paragraphBreaks = []string{"\n\n", "\n## ", "\n### ", "\n---\n", "\n**"}
	sentenceEnds    = []string{". ", ".\n", "! ", "? ", "!\n", "?\n"}
)

// SmartTruncate shortens text to at most budget runes. It cuts at, in order
// of preference, the last paragraph break at or after 70% of the budget, the
// last sentence end at or after 80%, the last whitespace, and finally a hard
// cut. Trailing whitespace is trimmed. Text already within budget is
// returned as is; a budget below one yields "".
func SmartTruncate(text string, budget int) string {
	if budget < 1 {
		return ""
	}
	if utf8.RuneCountInString(text) <= budget {
		return text
	}

	window, next := split(text, budget)

	if idx := lastIndexAny(window, paragraphBreaks); idx >= 0 && atLeast(window[:idx], budget, ParagraphThreshold) {
		if cut := trimRight(window[:idx]); cut != "" {
			return cut
		}
	}

	if end := sentenceEnd(window, next); end > 0 && atLeast(window[:end], budget, SentenceThreshold) {
		return trimRight(window[:end])
	}

	if idx := strings.LastIndexFunc(window, unicode.IsSpace); idx > 0 {
		if cut := trimRight(window[:idx]); cut != "" {
			return cut
		}
	}

	return trimRight(window)
}

// split returns the first budget runes of text and the rune that follows them.
func split(text string, budget int) (string, rune) {
	n := 0
	for i := range text {
		if n == budget {
			r, _ := utf8.DecodeRuneInString(text[i:])
			return text[:i], r
		}
		n++
	}
	return text, utf8.RuneError
}

// sentenceEnd returns the byte offset just past the last sentence-ending
// punctuation in window, or -1.
func sentenceEnd(window string, next rune) int {
	if last, size := utf8.DecodeLastRuneInString(window); isTerminal(last) && unicode.IsSpace(next) {
		return len(window) - size + 1
	}
	if idx := lastIndexAny(window, sentenceEnds); idx >= 0 {
		return idx + 1
	}
	return -1
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func lastIndexAny(s string, seps []string) int {
	best := -1
	for _, sep := range seps {
		if idx := strings.LastIndex(s, sep); idx > best {
			best = idx
		}
	}
	return best
}

func atLeast(prefix string, budget int, fraction float64) bool {
	return float64(utf8.RuneCountInString(prefix)) >= float64(budget)*fraction
}

func trimRight(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}
