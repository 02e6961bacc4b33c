package text

import (
	"regexp"
	"strings"
)

// headingDecor matches Markdown decoration around a heading line: "## ", "**", "- ", "> ".
// A hashtag such as "#X" is not decoration.
var headingDecor = regexp.MustCompile(`^(?:#{1,6}\s+|[>\-•]\s+|\*{1,3})+|[*_]+$`)

// SplitSections splits s into labeled sections. A label line is a line whose text,
// ignoring Markdown decoration, is one of labels (case-insensitive) either alone or
// followed by ':' or '-' and optional inline content. A section runs until the next
// label line or the end of text.
//
// Keys are the matching label lowercased. When no label line is found the whole
// trimmed text is returned under the empty key. Text before the first label is dropped.
func SplitSections(s string, labels ...string) map[string]string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")

	sections := make(map[string][]string)
	current := ""
	found := false

	for _, line := range lines {
		if label, rest, ok := matchLabel(line, labels); ok {
			current = label
			found = true
			if _, seen := sections[current]; !seen {
				sections[current] = nil
			}
			if rest != "" {
				sections[current] = append(sections[current], rest)
			}
			continue
		}
		if found {
			sections[current] = append(sections[current], line)
		}
	}

	if !found {
		return map[string]string{"": strings.TrimSpace(s)}
	}

	out := make(map[string]string, len(sections))
	for k, v := range sections {
		out[k] = strings.TrimSpace(strings.Join(v, "\n"))
	}
	return out
}

func matchLabel(line string, labels []string) (label, rest string, ok bool) {
	t := strings.TrimSpace(line)
	if t == "" {
		return "", "", false
	}
	t = strings.TrimSpace(headingDecor.ReplaceAllString(t, ""))
	tr := []rune(t)

	for _, l := range labels {
		ll := strings.ToLower(strings.TrimSpace(l))
		n := CountRunes(ll)
		if n == 0 || len(tr) < n || !strings.EqualFold(string(tr[:n]), ll) {
			continue
		}
		after := strings.TrimSpace(string(tr[n:]))
		after = strings.TrimLeft(after, "*_ ")
		switch {
		case after == "":
			return ll, "", true
		case strings.HasPrefix(after, ":"), strings.HasPrefix(after, "："),
			after == "-", strings.HasPrefix(after, "- "),
			after == "–", strings.HasPrefix(after, "– "):
			_, r, _ := cutSeparator(after)
			return ll, strings.TrimSpace(strings.Trim(r, "*_")), true
		}
	}
	return "", "", false
}

func cutSeparator(s string) (sep, rest string, ok bool) {
	for _, p := range []string{":", "：", "–", "-"} {
		if strings.HasPrefix(s, p) {
			return p, s[len(p):], true
		}
	}
	return "", s, false
}
