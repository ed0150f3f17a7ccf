package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"mediflow-service/internal/app/config"
	"mediflow-service/internal/pkg/constvars"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRequestIDMiddleware(t *testing.T) {
	middlewares := NewMiddlewares(zap.NewNop(), &config.InternalConfig{})

	t.Run("Client Supplied Request ID Is Kept", func(t *testing.T) {
		var seenRequestID string
		var seenIsClient bool

		handler := middlewares.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seenRequestID, _ = r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
			seenIsClient, _ = r.Context().Value(constvars.CONTEXT_IS_CLIENT_REQUEST_ID_KEY).(bool)
		}))

		req := httptest.NewRequest("GET", "/api/v1/sessions/resolve", nil)
		req.Header.Set(constvars.HeaderXRequestID, "client-req-1")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, "client-req-1", seenRequestID)
		assert.True(t, seenIsClient)
		assert.Equal(t, "client-req-1", rr.Header().Get(constvars.HeaderXRequestID))
	})

	t.Run("Request ID Is Generated When Absent", func(t *testing.T) {
		var seenRequestID string
		var seenIsClient bool

		handler := middlewares.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seenRequestID, _ = r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
			seenIsClient, _ = r.Context().Value(constvars.CONTEXT_IS_CLIENT_REQUEST_ID_KEY).(bool)
		}))

		req := httptest.NewRequest("GET", "/api/v1/sessions/resolve", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.NotEmpty(t, seenRequestID)
		assert.False(t, seenIsClient)
		assert.Equal(t, seenRequestID, rr.Header().Get(constvars.HeaderXRequestID))
	})
}

func TestLoggingMiddleware(t *testing.T) {
	middlewares := NewMiddlewares(zap.NewNop(), &config.InternalConfig{})

	handler := middlewares.Logging(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))

	req := httptest.NewRequest("GET", "/api/v1/sessions/resolve", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Equal(t, "short and stout", rr.Body.String())
}
