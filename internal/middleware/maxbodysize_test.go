package middleware_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/truck-tracker/internal/middleware"
)

// drainBody reads the whole body the way a JSON decoder would and reports a
// failed read as 413.
func drainBody(w http.ResponseWriter, r *http.Request) {
	if _, err := io.ReadAll(r.Body); err != nil {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func TestMaxBodySizeHandler(t *testing.T) {
	const limit = 100
	tests := []struct {
		name          string
		size          int
		contentLength int64 // -1 means unknown length (chunked)
		want          int
	}{
		{"under limit", 50, 50, http.StatusOK},
		{"exact limit", limit, limit, http.StatusOK},
		{"declared over limit", 200, 200, http.StatusRequestEntityTooLarge},
		{"streamed over limit", 200, -1, http.StatusRequestEntityTooLarge},
		{"streamed under limit", 20, -1, http.StatusOK},
	}
	h := middleware.NewMaxBodySizeHandler(limit)(http.HandlerFunc(drainBody))

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/trips", strings.NewReader(strings.Repeat("x", tc.size)))
			req.ContentLength = tc.contentLength
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestMaxBodySizeHandler_RejectsBeforeHandler(t *testing.T) {
	called := false
	h := middleware.NewMaxBodySizeHandler(10)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodPatch, "/trips/abc", strings.NewReader(strings.Repeat("x", 11)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.False(t, called)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "body_too_large", body.Error.Code)
}
