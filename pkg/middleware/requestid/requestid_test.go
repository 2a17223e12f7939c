package requestid

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareKeepsCallerID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("X-Request-ID", "upstream-42")

	Middleware()(c)

	assert.Equal(t, "upstream-42", Value(c))
	assert.Equal(t, "upstream-42", rec.Header().Get("X-Request-ID"))
}

func TestMiddlewareMintsID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Middleware()(c)

	assert.NotEmpty(t, Value(c))
	assert.Equal(t, Value(c), rec.Header().Get("X-Request-ID"))
}
