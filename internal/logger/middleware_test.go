package logger

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID_GeneratesUUID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/movies", nil))

	require.NotEmpty(t, seen)
	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
}

func TestRequestID_KeepsIncomingHeader(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-supplied")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "client-supplied", seen)
	assert.Equal(t, "client-supplied", rec.Header().Get(RequestIDHeader))
}

func TestAccessLog(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantLevel string
	}{
		{"ok", http.StatusOK, `{"success":true}`, "INFO"},
		{"implicit ok", 0, "hello", "INFO"},
		{"not found", http.StatusNotFound, `{"success":false}`, "WARN"},
		{"server error", http.StatusInternalServerError, `{"success":false}`, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := newJSON(&buf, slog.LevelDebug)

			h := RequestID(AccessLog(l.Logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
				_, _ = w.Write([]byte(tt.body))
			})))

			req := httptest.NewRequest(http.MethodPost, "/api/movies", nil)
			req.Header.Set(RequestIDHeader, "req-1")
			h.ServeHTTP(httptest.NewRecorder(), req)

			recs := decodeLines(t, &buf)
			require.Len(t, recs, 1)
			rec := recs[0]

			want := tt.status
			if want == 0 {
				want = http.StatusOK
			}
			assert.Equal(t, "http request", rec["msg"])
			assert.Equal(t, tt.wantLevel, rec["level"])
			assert.Equal(t, "POST", rec["method"])
			assert.Equal(t, "/api/movies", rec["path"])
			assert.Equal(t, float64(want), rec["status"])
			assert.Equal(t, float64(len(tt.body)), rec["bytes"])
			assert.Equal(t, "req-1", rec["request_id"])
			assert.Contains(t, rec, "duration")
		})
	}
}
