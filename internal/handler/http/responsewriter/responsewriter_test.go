package responsewriter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_Defaults(t *testing.T) {
	rw := Wrap(httptest.NewRecorder())

	assert.Equal(t, http.StatusOK, rw.StatusCode())
	assert.Zero(t, rw.BytesWritten())
	assert.False(t, rw.Written())
}

func TestWrap_Idempotent(t *testing.T) {
	rw := Wrap(httptest.NewRecorder())
	assert.Same(t, rw, Wrap(rw))
}

func TestWriteHeader(t *testing.T) {
	tests := []struct {
		name  string
		codes []int
		want  int
	}{
		{name: "single", codes: []int{http.StatusTooManyRequests}, want: http.StatusTooManyRequests},
		{name: "first call wins", codes: []int{http.StatusBadRequest, http.StatusInternalServerError}, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			rw := Wrap(rec)
			for _, c := range tt.codes {
				rw.WriteHeader(c)
			}

			assert.Equal(t, tt.want, rw.StatusCode())
			assert.Equal(t, tt.want, rec.Code)
			assert.True(t, rw.Written())
		})
	}
}

func TestWrite(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := Wrap(rec)

	n, err := rw.Write([]byte(`{"ok":true,`))
	require.NoError(t, err)
	assert.Equal(t, 11, n)

	_, err = rw.Write([]byte(`"output":"hi"}`))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rw.StatusCode())
	assert.Equal(t, 25, rw.BytesWritten())
	assert.Equal(t, `{"ok":true,"output":"hi"}`, rec.Body.String())
}

func TestFlush(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := Wrap(rec)

	rw.Flush()

	assert.True(t, rec.Flushed)
	assert.True(t, rw.Written())
}

func TestUnwrap(t *testing.T) {
	rec := httptest.NewRecorder()
	assert.Same(t, rec, Wrap(rec).Unwrap())

	require.NoError(t, http.NewResponseController(Wrap(rec)).Flush())
}
