// Package text provides utilities for text processing and analysis.
// Every function in this package is pure and total: any input string, including
// the empty string, produces a defined result and no function panics.
package text

import "unicode/utf8"

// CountRunes counts the number of Unicode characters (runes) in the given text.
// Platform ceilings are expressed in characters, so Arabic text and emoji must be
// counted by rune rather than by byte.
//
// Examples:
//
//	CountRunes("hello")       // returns 5
//	CountRunes("مرحبا")       // returns 5
//	CountRunes("hello👋")      // returns 6
//	CountRunes("")            // returns 0
func CountRunes(text string) int {
	return utf8.RuneCountInString(text)
}
