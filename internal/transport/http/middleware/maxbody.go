package middleware

import (
	"github.com/gin-gonic/gin"
	"net/http"
	resp "usercenter/internal/transport/http/response"
)

// MaxBodyBytes 限制请求体大小（16MB）
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
		if c.Err() != nil && !c.Writer.Written() {
			resp.Abort(c, resp.Error(resp.CodeBadRequest, "request body too large"))
		}
	}
}
