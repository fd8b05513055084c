package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
})

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	t.Run("generates when missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		_, err := uuid.Parse(seen)
		require.NoError(t, err)
		assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
	})

	t.Run("keeps a valid caller id", func(t *testing.T) {
		id := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, id)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, id, seen)
	})

	t.Run("replaces garbage", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "<script>")
		h.ServeHTTP(httptest.NewRecorder(), req)

		assert.NotEqual(t, "<script>", seen)
	})
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})

	h := RequestID(Logging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("hello"))
	})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/analyze", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "POST", entry["method"])
	assert.Equal(t, "/api/analyze", entry["path"])
	assert.EqualValues(t, http.StatusCreated, entry["status"])
	assert.EqualValues(t, 5, entry["bytes"])
	assert.NotEmpty(t, entry["request_id"])
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	fail := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	m.Middleware(okHandler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	m.Middleware(fail).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	rec := httptest.NewRecorder()
	m.Handler(func() map[string]any {
		return map[string]any{"analyses": map[string]int{"demo": 2}}
	}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.EqualValues(t, 2, out["requests_total"])
	assert.EqualValues(t, 1, out["requests_success"])
	assert.EqualValues(t, 1, out["requests_failed"])
	assert.EqualValues(t, 0, out["requests_in_progress"])
	assert.Contains(t, out, "analyses")
}

func TestRateLimiter_Reserve(t *testing.T) {
	rl := NewRateLimiter(60, 2)
	defer rl.Stop()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	ok, _ := rl.Reserve("a")
	assert.True(t, ok)
	ok, _ = rl.Reserve("a")
	assert.True(t, ok)
	ok, wait := rl.Reserve("a")
	assert.False(t, ok)
	assert.InDelta(t, time.Second.Seconds(), wait.Seconds(), 0.01)

	// other keys have their own bucket
	ok, _ = rl.Reserve("b")
	assert.True(t, ok)

	// one token per second refills
	now = now.Add(time.Second)
	ok, _ = rl.Reserve("a")
	assert.True(t, ok)
}

func TestRateLimiter_EvictIdle(t *testing.T) {
	rl := NewRateLimiter(60, 1)
	defer rl.Stop()
	now := time.Now()
	rl.now = func() time.Time { return now }

	rl.Reserve("a")
	require.Equal(t, 1, rl.Len())

	now = now.Add(idleTimeout + time.Second)
	rl.evictIdle()
	assert.Equal(t, 0, rl.Len())
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	defer rl.Stop()
	h := RateLimit(rl)(okHandler)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
	req.RemoteAddr = "192.0.2.1:1234"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"detail":"rate limit exceeded, please try again later"}`, rec.Body.String())

	// a different port from the same host shares the bucket
	req.RemoteAddr = "192.0.2.1:9999"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		checkers   map[string]HealthChecker
		wantStatus int
		wantState  string
	}{
		{
			name:       "all healthy",
			checkers:   map[string]HealthChecker{"a": CheckerFunc(func(context.Context) error { return nil })},
			wantStatus: http.StatusOK,
			wantState:  "healthy",
		},
		{
			name: "one failing",
			checkers: map[string]HealthChecker{
				"a": CheckerFunc(func(context.Context) error { return nil }),
				"b": CheckerFunc(func(context.Context) error { return errors.New("down") }),
			},
			wantStatus: http.StatusServiceUnavailable,
			wantState:  "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HealthHandler(tt.checkers).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var hs HealthStatus
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hs))
			assert.Equal(t, tt.wantState, hs.Status)
			assert.Len(t, hs.Checks, len(tt.checkers))
		})
	}
}
