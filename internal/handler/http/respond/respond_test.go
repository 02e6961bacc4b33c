package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestJSON(t *testing.T) {
	tests := []struct {
		name         string
		code         int
		data         any
		expectedBody string
	}{
		{name: "map", code: http.StatusOK, data: map[string]any{"ok": true}, expectedBody: `{"ok":true}`},
		{name: "struct", code: http.StatusCreated, data: struct{ ID int }{ID: 123}, expectedBody: `{"ID":123}`},
		{name: "nil", code: http.StatusNoContent, data: nil, expectedBody: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			JSON(w, tt.code, tt.data)

			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
			assert.Equal(t, tt.expectedBody, strings.TrimSpace(w.Body.String()))
		})
	}
}

func TestJSON_EncodingError(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, map[string]any{"bad": make(chan int)})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, strings.TrimSpace(w.Body.String()))
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, http.StatusInternalServerError, errors.New("openai: missing OPENAI_API_KEY"))

	body := decodeBody(t, w)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "openai: missing OPENAI_API_KEY", body["error"])
	assert.NotContains(t, body, "code")
	assert.NotContains(t, body, "limit")
}

func TestError_MasksSecrets(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, http.StatusUnauthorized, errors.New("Incorrect API key provided: sk-abcdefghijklmnop1234"))

	body := decodeBody(t, w)
	assert.Equal(t, "Incorrect API key provided: sk-****", body["error"])
}

func TestFail(t *testing.T) {
	w := httptest.NewRecorder()
	Fail(w, http.StatusTooManyRequests, ErrorBody{OK: true, Error: "daily usage limit reached", Code: "USAGE_LIMIT", Limit: 20})

	body := decodeBody(t, w)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, map[string]any{
		"ok":    false,
		"error": "daily usage limit reached",
		"code":  "USAGE_LIMIT",
		"limit": float64(20),
	}, body)
}

func TestSafeError(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		err     error
		wantMsg string
	}{
		{name: "client error passes through", code: http.StatusBadRequest, err: errors.New("invalid request body"), wantMsg: "invalid request body"},
		{name: "server error is hidden", code: http.StatusInternalServerError, err: errors.New("pq: connection refused"), wantMsg: "internal server error"},
		{name: "bad gateway is hidden", code: http.StatusBadGateway, err: fmt.Errorf("wrapped: %w", errors.New("boom")), wantMsg: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			SafeError(w, tt.code, tt.err)

			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, tt.wantMsg, decodeBody(t, w)["error"])
		})
	}

	t.Run("nil error writes nothing", func(t *testing.T) {
		w := httptest.NewRecorder()
		SafeError(w, http.StatusBadRequest, nil)
		assert.Zero(t, w.Body.Len())
	})
}
