package text

import (
	"strings"
	"unicode"
)

// TruncationMarker is appended to every clamped text.
const TruncationMarker = "…"

// minBoundaryRatio: a word or sentence boundary is only used when it keeps at least
// this share of the limit. Earlier boundaries fall back to a hard cut.
const minBoundaryRatio = 0.4

// Clamp trims s and limits it to max runes.
//
// Text within the limit is returned unchanged (after trimming). Longer text is cut at
// the last whitespace or punctuation boundary that leaves room for TruncationMarker,
// provided that boundary is not before 40% of max; otherwise it is hard-cut. The result
// always ends with TruncationMarker when truncation happened and never exceeds max runes,
// so Clamp(Clamp(s, n), n) == Clamp(s, n).
func Clamp(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 {
		return ""
	}
	if CountRunes(s) <= max {
		return s
	}

	markerLen := CountRunes(TruncationMarker)
	if max <= markerLen {
		return string([]rune(TruncationMarker)[:max])
	}

	runes := []rune(s)
	head := runes[:max-markerLen]

	cut := lastBoundary(head)
	if cut < int(float64(max)*minBoundaryRatio+0.5) {
		cut = len(head)
	}

	body := strings.TrimRightFunc(string(head[:cut]), unicode.IsSpace)
	return body + TruncationMarker
}

// lastBoundary returns the cut position after the last usable boundary in r, or -1.
// Whitespace is excluded from the kept text, punctuation is kept.
func lastBoundary(r []rune) int {
	for i := len(r) - 1; i > 0; i-- {
		switch {
		case unicode.IsSpace(r[i]):
			return i
		case isSentencePunct(r[i]):
			return i + 1
		}
	}
	return -1
}

func isSentencePunct(r rune) bool {
	switch r {
	case '.', ',', '!', '?', ';', ':', '،', '؛', '؟', '۔':
		return true
	}
	return false
}
