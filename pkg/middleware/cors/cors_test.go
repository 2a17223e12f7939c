package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/wartakota/newsroom-api/pkg/config"
)

func runCORS(t *testing.T, cfg config.CORSConfig, method, origin string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, "/", nil)
	if origin != "" {
		c.Request.Header.Set("Origin", origin)
	}
	New(cfg)(c)
	return rec
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	cfg := config.CORSConfig{AllowedOrigins: []string{"https://wartakota.example/"}}

	rec := runCORS(t, cfg, http.MethodGet, "https://wartakota.example")
	assert.Equal(t, "https://wartakota.example", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = runCORS(t, cfg, http.MethodGet, "https://evil.example")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSEmptyListAllowsAll(t *testing.T) {
	rec := runCORS(t, config.CORSConfig{}, http.MethodGet, "https://anywhere.example")
	assert.Equal(t, "https://anywhere.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	rec := runCORS(t, config.CORSConfig{}, http.MethodOptions, "https://anywhere.example")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Methods"))
}
