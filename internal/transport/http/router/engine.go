package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"usercenter/internal/core/auth"
	"usercenter/internal/core/database"
	"usercenter/internal/core/server"
	"usercenter/internal/transport/http/ez"
	"usercenter/internal/transport/http/handler"
	mdw "usercenter/internal/transport/http/middleware"
)

type Deps struct {
	Log          *zap.Logger
	TM           *database.TxManager
	JWT          *auth.JWTer
	Mode         string
	AllowOrigins []string
}

// newEngine /health 与 /metrics 先于中间件注册，不受限流/超时影响
func newEngine(name string, d Deps) *gin.Engine {
	r := server.NewRouter(d.Log, server.Options{Name: name, Mode: d.Mode, AllowOrigins: d.AllowOrigins})
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(2000, 4000),
		mdw.RateLimitPerIP(200, 400, 10*time.Minute),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		mdw.Recovery(d.Log),
		mdw.Metrics(name),
		mdw.AccessLog(d.Log),
	)
	return r
}

func (d Deps) ez(g *gin.RouterGroup) ez.EZ { return ez.New(g, d.TM, d.Log, handler.MapError) }
