package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serve(origins []string, method, origin string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(New(origins))
	r.Any("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(method, "/x", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORSAllowsListedOrigin(t *testing.T) {
	w := serve([]string{"http://admin.test/"}, http.MethodGet, "http://admin.test")
	assert.Equal(t, "http://admin.test", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Content-Disposition, X-Request-ID", w.Header().Get("Access-Control-Expose-Headers"))
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	w := serve([]string{"http://admin.test"}, http.MethodGet, "http://evil.test")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	w := serve(nil, http.MethodOptions, "http://any.test")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://any.test", w.Header().Get("Access-Control-Allow-Origin"))
}
