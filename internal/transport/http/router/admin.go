package router

import (
	"github.com/gin-gonic/gin"

	"usercenter/internal/service"
	"usercenter/internal/transport/http/handler"
	mdw "usercenter/internal/transport/http/middleware"
)

// NewAdminEngine 管理端：/admin/v1，除登录外统一要求 admin 角色
func NewAdminEngine(d Deps, adminH handler.Admin, authH handler.Auth) *gin.Engine {
	r := newEngine("admin", d)

	base := d.ez(r.Group("/admin/v1"))
	mountAll(base, ModuleFunc(authH.MountLogin))

	admin := base.Group("", mdw.AuthJWT(d.JWT, service.AdminRoleName))
	mountAll(admin, adminH, ModuleFunc(authH.Mount))
	return r
}
