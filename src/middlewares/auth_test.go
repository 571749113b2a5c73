package middlewares

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/private", AuthMiddleware, func(ctx *gin.Context) {
		ctx.Status(200)
	})

	// none of these reach token verification, the last two used to index past
	// the end of the split header
	for _, header := range []string{"", "Token abc", "Bearer", "Bearer "} {
		req := httptest.NewRequest("GET", "/private", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, 401, rec.Code, "header %q", header)
	}
}
