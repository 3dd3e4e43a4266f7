package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalfonso89/fortune-teller-service/internal/logger"
)

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(handlers...)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"request_id": c.GetString(RequestIDKey),
			"session_id": c.GetString(SessionIDKey),
		})
	})
	return router
}

func TestRequestID(t *testing.T) {
	router := newRouter(RequestID())

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ping", nil))
	generated := recorder.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/ping", nil)
	request.Header.Set(RequestIDHeader, "trace-123")
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	assert.Equal(t, "trace-123", recorder.Header().Get(RequestIDHeader))
	assert.Contains(t, recorder.Body.String(), `"request_id":"trace-123"`)
}

func TestSessionID(t *testing.T) {
	router := newRouter(SessionID())
	existing := uuid.NewString()

	tests := []struct {
		name     string
		header   string
		preserve bool
	}{
		{"missing header", "", false},
		{"not a uuid", "my-session", false},
		{"valid uuid", existing, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.header != "" {
				request.Header.Set(SessionIDHeader, tt.header)
			}
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)

			sessionID := recorder.Header().Get(SessionIDHeader)
			_, err := uuid.Parse(sessionID)
			require.NoError(t, err)
			if tt.preserve {
				assert.Equal(t, tt.header, sessionID)
			} else {
				assert.NotEqual(t, tt.header, sessionID)
			}
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	router := newRouter(SecurityHeaders())

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, "nosniff", recorder.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", recorder.Header().Get("X-Frame-Options"))
}

func TestCORS_Preflight(t *testing.T) {
	router := newRouter(CORS())

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodOptions, "/ping", nil))

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "*", recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, recorder.Header().Get("Access-Control-Allow-Headers"), SessionIDHeader)
}

func TestRequestLogger(t *testing.T) {
	var output bytes.Buffer
	router := newRouter(RequestID(), RequestLogger(logger.NewWithOutput("info", &output)))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Contains(t, output.String(), "HTTP Request")
	assert.Contains(t, output.String(), `"path":"/ping"`)
	assert.Contains(t, output.String(), `"status":200`)
}
