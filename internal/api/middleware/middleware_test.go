package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TableBookingService/internal/domain"
	"github.com/m04kA/SMC-TableBookingService/pkg/logger"
)

func captureRequester(got *domain.Requester) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = GetRequester(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		role       string
		wantStatus int
		wantRole   domain.Role
	}{
		{"missing user", "", "", http.StatusUnauthorized, ""},
		{"bad user id", "abc", "", http.StatusUnauthorized, ""},
		{"negative user id", "-5", "", http.StatusUnauthorized, ""},
		{"user", "42", "", http.StatusNoContent, domain.RoleUser},
		{"operator", "42", "operator", http.StatusNoContent, domain.RoleOperator},
		{"unknown role falls back to user", "42", "admin", http.StatusNoContent, domain.RoleUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got domain.Requester
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.userID != "" {
				req.Header.Set(HeaderUserID, tt.userID)
			}
			if tt.role != "" {
				req.Header.Set(HeaderUserRole, tt.role)
			}
			rec := httptest.NewRecorder()

			Auth(captureRequester(&got)).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusNoContent {
				assert.Equal(t, tt.wantRole, got.Role)
				require.NotNil(t, got.UserID)
				assert.Equal(t, int64(42), *got.UserID)
			}
		})
	}
}

func TestOptionalAuth_Guest(t *testing.T) {
	var got domain.Requester
	rec := httptest.NewRecorder()

	OptionalAuth(captureRequester(&got)).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, got.IsGuest())
	assert.Nil(t, got.UserID)
}

func TestRequireOperator(t *testing.T) {
	handler := Auth(RequireOperator(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderUserID, "7")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `"reason":"FORBIDDEN"`)

	req.Header.Set(HeaderUserRole, "operator")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_PerClient(t *testing.T) {
	limiter := NewRateLimiter(1, 2)
	handler := limiter.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(userID string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderUserID, userID)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("1"))
	assert.Equal(t, http.StatusOK, send("1"))
	assert.Equal(t, http.StatusTooManyRequests, send("1"))
	assert.Equal(t, http.StatusOK, send("2"))
}

func TestClientKey_FallsBackToIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.5:51234"
	assert.Equal(t, "ip:10.0.0.5", clientKey(req))
}

type recordedRequest struct {
	method string
	path   string
	status int
}

type fakeHTTPMetrics struct{ got []recordedRequest }

func (m *fakeHTTPMetrics) ObserveHTTPRequest(method, path string, status int, _ time.Duration) {
	m.got = append(m.got, recordedRequest{method, path, status})
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	m := &fakeHTTPMetrics{}
	router := mux.NewRouter()
	router.Use(Metrics(m), Logging(logger.NewNop()))
	router.HandleFunc("/bookings/{bookingId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings/15", nil))

	require.Len(t, m.got, 1)
	assert.Equal(t, recordedRequest{http.MethodGet, "/bookings/{bookingId}", http.StatusNotFound}, m.got[0])
}
