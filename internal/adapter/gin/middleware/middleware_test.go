package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type httpCall struct {
	method string
	route  string
	status int
}

type recordingObserver struct {
	mu    sync.Mutex
	calls []httpCall
}

func (r *recordingObserver) ObserveHTTP(method, route string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, httpCall{method, route, status})
}

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	r := gin.New()
	r.Use(Logger(log))
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.POST("/bad", func(c *gin.Context) { c.String(http.StatusUnauthorized, "no") })

	serve(r, http.MethodGet, "/ok")
	serve(r, http.MethodPost, "/bad")

	entries := logs.FilterMessage("HTTP request").All()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])
	assert.Equal(t, "/ok", entries[0].ContextMap()["path"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, int64(http.StatusUnauthorized), entries[1].ContextMap()["status"])
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)

	r := gin.New()
	r.Use(Recovery(zap.New(core)))
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })

	w := serve(r, http.MethodGet, "/panic")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", w.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestMetrics(t *testing.T) {
	obs := &recordingObserver{}

	r := gin.New()
	r.Use(Metrics(obs))
	r.POST("/login", func(c *gin.Context) { c.String(http.StatusUnauthorized, "no") })

	serve(r, http.MethodPost, "/login")
	serve(r, http.MethodGet, "/users/42")

	require.Len(t, obs.calls, 2)
	assert.Equal(t, httpCall{http.MethodPost, "/login", http.StatusUnauthorized}, obs.calls[0])
	assert.Equal(t, httpCall{http.MethodGet, "unmatched", http.StatusNotFound}, obs.calls[1])
}

func TestMetrics_NilObserver(t *testing.T) {
	r := gin.New()
	r.Use(Metrics(nil))
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/ok").Code)
}
