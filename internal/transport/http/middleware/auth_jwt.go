package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"usercenter/internal/core/auth"
	"usercenter/internal/transport/http/ez"
	resp "usercenter/internal/transport/http/response"
)

// AuthJWT 校验 Bearer token，写入 userId / role / claims；requireRole 非空时限定角色
func AuthJWT(j *auth.JWTer, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.Abort(c, resp.Error(resp.CodeUnauthorized, "missing token"))
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			resp.Abort(c, resp.Error(resp.CodeUnauthorized, "invalid token"))
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			resp.Abort(c, resp.Error(resp.CodeForbidden, "forbidden"))
			return
		}
		c.Set(ez.KeyUserID, claims.UID)
		c.Set(ez.KeyRole, claims.Role)
		c.Set(ez.KeyClaims, claims)
		c.Next()
	}
}
