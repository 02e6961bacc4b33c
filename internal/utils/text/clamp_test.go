package text_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"nashr/internal/utils/text"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "empty", in: "", max: 280, want: ""},
		{name: "under limit unchanged", in: "Short punchy line #launch", max: 280, want: "Short punchy line #launch"},
		{name: "trims surrounding space", in: "  hi  ", max: 280, want: "hi"},
		{name: "exactly at limit", in: "abcde", max: 5, want: "abcde"},
		{name: "word boundary", in: "one two three four", max: 12, want: "one two…"},
		{name: "punctuation kept", in: "Hello, world and more", max: 12, want: "Hello,…"},
		{name: "boundary too early hard cuts", in: "a bcdefghijklmnop", max: 10, want: "a bcdefgh…"},
		{name: "no boundary hard cuts", in: "abcdefghijklmnop", max: 6, want: "abcde…"},
		{name: "zero limit", in: "abc", max: 0, want: ""},
		{name: "limit of one", in: "abc", max: 1, want: "…"},
		{name: "arabic boundary", in: "الذكاء الاصطناعي يغير الأعمال", max: 20, want: "الذكاء الاصطناعي…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, text.Clamp(tt.in, tt.max))
		})
	}
}

func TestClamp_Properties(t *testing.T) {
	inputs := []string{
		"",
		"x",
		strings.Repeat("a", 279),
		strings.Repeat("a", 280),
		strings.Repeat("a", 281),
		strings.Repeat("word ", 100),
		strings.Repeat("جملة عربية. ", 60),
		strings.Repeat("🚀", 400),
		strings.Repeat("x", 300),
		"   " + strings.Repeat("b", 500) + "   ",
		strings.Repeat("a", 100) + " " + strings.Repeat("b", 250),
	}

	for _, in := range inputs {
		got := text.Clamp(in, 280)
		trimmed := strings.TrimSpace(in)

		assert.LessOrEqual(t, text.CountRunes(got), 280)
		assert.Equal(t, got, text.Clamp(got, 280), "clamp must be idempotent")

		if text.CountRunes(trimmed) <= 280 {
			assert.Equal(t, trimmed, got)
			continue
		}
		assert.True(t, strings.HasSuffix(got, text.TruncationMarker))
		body := strings.TrimSuffix(got, text.TruncationMarker)
		assert.True(t, strings.HasPrefix(trimmed, body), "clamped text must be a prefix of the input")
	}
}

func TestClamp_ThreeHundredCharacters(t *testing.T) {
	in := strings.Repeat("Growth tips ", 25)
	assert.Equal(t, 300, text.CountRunes(in))

	got := text.Clamp(in, 280)
	assert.LessOrEqual(t, text.CountRunes(got), 280)
	assert.True(t, strings.HasSuffix(got, "…"))
}
