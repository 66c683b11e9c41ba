package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wayfarerhq/wayfarer/pkg/httpx"
)

func TestIPKeyExtractor(t *testing.T) {
	t.Parallel()

	t.Run("prefers X-Forwarded-For", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2")
		r.Header.Set("X-Real-IP", "203.0.113.9")

		require.Equal(t, "203.0.113.7", httpx.IPKeyExtractor(r))
	})

	t.Run("falls back to X-Real-IP", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		r.Header.Set("X-Real-IP", "203.0.113.9")

		require.Equal(t, "203.0.113.9", httpx.IPKeyExtractor(r))
	})

	t.Run("uses RemoteAddr last", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "10.0.0.1:1234"

		require.Equal(t, "10.0.0.1", httpx.IPKeyExtractor(r))
	})
}

func TestUserIDKeyExtractor(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Empty(t, httpx.UserIDKeyExtractor(r))

	r = r.WithContext(httpx.WithUserID(r.Context(), "user-1"))
	require.Equal(t, "user-1", httpx.UserIDKeyExtractor(r))
}

func TestCompositeKeyExtractor(t *testing.T) {
	t.Parallel()

	extractor := httpx.CompositeKeyExtractor(":",
		httpx.UserIDKeyExtractor,
		httpx.IPKeyExtractor,
	)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"

	// Empty parts are skipped, so anonymous requests key on IP alone.
	require.Equal(t, "10.0.0.1", extractor(r))

	r = r.WithContext(httpx.WithUserID(r.Context(), "user-1"))
	require.Equal(t, "user-1:10.0.0.1", extractor(r))
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Parallel()

	config := httpx.RateLimitConfig{
		RequestsPerWindow: 2,
		Window:            time.Minute,
		Burst:             2,
	}

	handler := httpx.RateLimitByIP(config)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(remoteAddr string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w
	}

	// The burst is admitted, then the bucket is empty.
	require.Equal(t, http.StatusNoContent, do("10.0.0.1:1234").Code)
	require.Equal(t, http.StatusNoContent, do("10.0.0.1:1234").Code)

	limited := do("10.0.0.1:1234")
	require.Equal(t, http.StatusTooManyRequests, limited.Code)
	require.NotEmpty(t, limited.Header().Get("Retry-After"))
	require.Equal(t, "2", limited.Header().Get("X-RateLimit-Limit"))
	require.JSONEq(t,
		`{"error":"rate_limit_exceeded","error_description":"Too many requests. Please try again later."}`,
		limited.Body.String(),
	)

	// Other clients have their own bucket.
	require.Equal(t, http.StatusNoContent, do("10.0.0.2:1234").Code)
}

func TestRateLimitByUserKeysOnUserID(t *testing.T) {
	t.Parallel()

	config := httpx.RateLimitConfig{
		RequestsPerWindow: 1,
		Window:            time.Minute,
		Burst:             1,
	}

	handler := httpx.RateLimitByUser(config)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(userID, remoteAddr string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = remoteAddr
		if userID != "" {
			r = r.WithContext(httpx.WithUserID(r.Context(), userID))
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w
	}

	// Two users behind the same IP are limited independently.
	require.Equal(t, http.StatusNoContent, do("user-1", "10.0.0.1:1234").Code)
	require.Equal(t, http.StatusNoContent, do("user-2", "10.0.0.1:1234").Code)
	require.Equal(t, http.StatusTooManyRequests, do("user-1", "10.0.0.1:1234").Code)
}

func TestParseRateLimitFromEnv(t *testing.T) {
	defaults := httpx.RateLimitConfig{
		RequestsPerWindow: 5,
		Window:            time.Minute,
		Burst:             5,
	}

	t.Run("keeps defaults when unset", func(t *testing.T) {
		config := httpx.ParseRateLimitFromEnv("TESTPROFILE", defaults)
		require.Equal(t, defaults, config)
	})

	t.Run("reads overrides", func(t *testing.T) {
		t.Setenv("RATELIMIT_TESTPROFILE_REQUESTS", "50")
		t.Setenv("RATELIMIT_TESTPROFILE_WINDOW_SEC", "30")
		t.Setenv("RATELIMIT_TESTPROFILE_BURST", "10")

		config := httpx.ParseRateLimitFromEnv("TESTPROFILE", defaults)
		require.Equal(t, 50, config.RequestsPerWindow)
		require.Equal(t, 30*time.Second, config.Window)
		require.Equal(t, 10, config.Burst)
	})

	t.Run("ignores invalid values", func(t *testing.T) {
		t.Setenv("RATELIMIT_TESTPROFILE_REQUESTS", "not-a-number")
		t.Setenv("RATELIMIT_TESTPROFILE_WINDOW_SEC", "-1")

		config := httpx.ParseRateLimitFromEnv("TESTPROFILE", defaults)
		require.Equal(t, defaults, config)
	})
}

func TestChainOrder(t *testing.T) {
	t.Parallel()

	var order []string
	tag := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), tag("outer"), tag("inner"))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "inner", "handler"}, order)
}
