package text

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

// ExtractTag returns the trimmed content between [tag] and [/tag], matched
// case-insensitively. The first occurrence wins; an absent or unclosed tag yields "".
func ExtractTag(s, tag string) string {
	tag = strings.TrimSpace(tag)
	if s == "" || tag == "" {
		return ""
	}
	q := regexp.QuoteMeta(tag)
	re, err := regexp.Compile(`(?is)\[` + q + `\](.*?)\[/` + q + `\]`)
	if err != nil {
		return ""
	}
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// JSON failure reasons reported by ParseJSON.
const (
	ReasonEmpty    = "empty input"
	ReasonNoObject = "no JSON object found"
	ReasonInvalid  = "invalid JSON object"
)

// JSONResult is the outcome of a lenient JSON parse. When OK is false, Reason says why
// and Value is nil. Raw holds the exact JSON text that parsed.
type JSONResult struct {
	Value  map[string]any
	Raw    string
	OK     bool
	Reason string
}

var (
	fenceOpen  = regexp.MustCompile("^```[A-Za-z0-9_-]*[ \t]*\r?\n?")
	fenceClose = regexp.MustCompile("\r?\n?```[ \t]*$")
)

// ParseJSON parses model output that is supposed to be a JSON object. It tries, in order:
// the text as-is, the text with Markdown code fences removed, and the substring from the
// first '{' to the last '}'.
func ParseJSON(s string) JSONResult {
	s = strings.TrimSpace(s)
	if s == "" {
		return JSONResult{Reason: ReasonEmpty}
	}

	candidates := []string{s}
	if unfenced := StripCodeFence(s); unfenced != s {
		candidates = append(candidates, unfenced)
	}
	if start, end := strings.IndexByte(s, '{'), strings.LastIndexByte(s, '}'); start >= 0 && end > start {
		candidates = append(candidates, s[start:end+1])
	} else if len(candidates) == 1 {
		return JSONResult{Reason: ReasonNoObject}
	}

	for _, c := range candidates {
		if v, ok := decodeObject(c); ok {
			return JSONResult{Value: v, Raw: c, OK: true}
		}
	}
	return JSONResult{Reason: ReasonInvalid}
}

// DecodeJSON runs ParseJSON and, on success, decodes the recovered object into dst.
func DecodeJSON(s string, dst any) JSONResult {
	res := ParseJSON(s)
	if !res.OK {
		return res
	}
	if err := json.Unmarshal([]byte(res.Raw), dst); err != nil {
		return JSONResult{Reason: ReasonInvalid + ": " + err.Error()}
	}
	return res
}

// StripCodeFence removes a surrounding ``` or ```json fence.
func StripCodeFence(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return s
	}
	t = fenceOpen.ReplaceAllString(t, "")
	t = fenceClose.ReplaceAllString(t, "")
	return strings.TrimSpace(t)
}

func decodeObject(s string) (map[string]any, bool) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var v map[string]any
	if err := dec.Decode(&v); err != nil || v == nil {
		return nil, false
	}
	if dec.More() {
		return nil, false
	}
	return v, true
}

// StringField returns v[key] when it is a string, trimmed.
func StringField(v map[string]any, key string) string {
	if v == nil {
		return ""
	}
	s, _ := v[key].(string)
	return strings.TrimSpace(s)
}
