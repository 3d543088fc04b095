package router

import (
	"github.com/gin-gonic/gin"

	"usercenter/internal/transport/http/handler"
	mdw "usercenter/internal/transport/http/middleware"
)

// NewAPIEngine 用户端：/api/v1
func NewAPIEngine(d Deps, authH handler.Auth, extra ...Module) *gin.Engine {
	r := newEngine("api", d)

	api := d.ez(r.Group("/api/v1"))
	mountAll(api, ModuleFunc(authH.MountPublic))

	// 鉴权分组（/me 必须挂这里，才能拿到 userId）
	authed := api.Group("", mdw.AuthJWT(d.JWT, ""))
	mountAll(authed, append([]Module{ModuleFunc(authH.Mount)}, extra...)...)
	return r
}
