package response

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	Success(w, map[string]string{"status": "ok"}, discard)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	body := decode(t, w)
	assert.Equal(t, float64(Version), body["v"])
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]any{"status": "ok"}, body["data"])
	assert.NotContains(t, body, "error")
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name     string
		write    func(w http.ResponseWriter)
		status   int
		wantCode string
	}{
		{"not found", func(w http.ResponseWriter) { NotFound(w, "route not found", discard) }, http.StatusNotFound, "NOT_FOUND"},
		{"internal", func(w http.ResponseWriter) { InternalError(w, "boom", discard) }, http.StatusInternalServerError, "INTERNAL"},
		{"method", func(w http.ResponseWriter) { Error(w, http.StatusMethodNotAllowed, "nope", discard) }, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)

			assert.Equal(t, tt.status, w.Code)
			body := decode(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantCode, body["code"])
			assert.NotEmpty(t, body["error"])
			assert.NotContains(t, body, "data")
		})
	}
}

func TestTooManyRequests(t *testing.T) {
	w := httptest.NewRecorder()
	TooManyRequests(w, "slow down", 2, discard)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("Retry-After"))
	assert.Equal(t, "RATE_LIMITED", decode(t, w)["code"])
}
