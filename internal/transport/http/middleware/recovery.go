package middleware

import (
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "usercenter/internal/transport/http/response"
)

// Recovery panic 时记录堆栈并返回统一响应体
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				l.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("path", c.Request.URL.Path),
					zap.String("rid", c.GetString(KeyRequestID)),
					zap.ByteString("stack", debug.Stack()),
				)
				resp.Abort(c, resp.Error(resp.CodeServerError, "internal error"))
			}
		}()
		c.Next()
	}
}
