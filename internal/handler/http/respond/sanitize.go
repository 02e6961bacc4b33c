package respond

import "regexp"

// redactions run in order; the Anthropic key must be masked before the generic
// OpenAI "sk-" pattern sees it.
var redactions = []struct {
	re   *regexp.Regexp
	mask string
}{
	{regexp.MustCompile(`sk-ant-[a-zA-Z0-9_-]+`), "sk-ant-****"},
	{regexp.MustCompile(`sk-[a-zA-Z0-9_-]{10,}`), "sk-****"},
	{regexp.MustCompile(`AIza[0-9A-Za-z_-]{20,}`), "AIza****"},
	{regexp.MustCompile(`(?i)bearer\s+[a-z0-9._~+/=-]{8,}`), "Bearer ****"},
	{regexp.MustCompile(`(?i)(x-api-key|x-goog-api-key)(["']?\s*[:=]\s*["']?)[^\s"',]+`), "$1$2****"},
	// password inside postgres:// or redis:// URLs
	{regexp.MustCompile(`://([^:/@\s]*):([^@\s]+)@`), "://$1:****@"},
}

// SanitizeError returns err's message with credentials masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeMessage(err.Error())
}

// SanitizeMessage masks provider API keys, bearer tokens, key headers and URL
// passwords in msg.
func SanitizeMessage(msg string) string {
	for _, r := range redactions {
		msg = r.re.ReplaceAllString(msg, r.mask)
	}
	return msg
}
