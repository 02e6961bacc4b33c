// Package respond writes JSON responses. Every failure uses the envelope
// {"ok": false, "error": "..."}, with error text passed through SanitizeMessage.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorBody is the failure envelope. Code and Limit are set by the usage gate only.
type ErrorBody struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

const internalError = "internal server error"

// JSON writes v with status code. A nil v leaves the body empty.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", slog.Int("status", code), slog.Any("error", err))
	}
}

// Error writes err's masked message.
func Error(w http.ResponseWriter, code int, err error) {
	JSON(w, code, ErrorBody{Error: SanitizeError(err)})
}

// Fail writes a prepared envelope, forcing ok=false and masking the message.
func Fail(w http.ResponseWriter, code int, body ErrorBody) {
	body.OK, body.Error = false, SanitizeMessage(body.Error)
	JSON(w, code, body)
}

// SafeError behaves like Error for 4xx. For 5xx the client only sees
// "internal server error" and the masked cause goes to the log.
func SafeError(w http.ResponseWriter, code int, err error) {
	switch {
	case err == nil:
	case code < http.StatusInternalServerError:
		Error(w, code, err)
	default:
		slog.Error(internalError, slog.Int("status", code), slog.String("error", SanitizeError(err)))
		JSON(w, code, ErrorBody{Error: internalError})
	}
}
