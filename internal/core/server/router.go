package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Options struct {
	Name string
	// release | debug | test，空则不修改
	Mode string
	// 为空时允许所有来源
	AllowOrigins []string
}

// NewRouter 基础引擎：zap panic 日志、CORS、/health、/metrics
func NewRouter(l *zap.Logger, o Options) *gin.Engine {
	if o.Mode != "" {
		gin.SetMode(o.Mode)
	}
	r := gin.New()
	r.Use(ginzap.RecoveryWithZap(l, true))
	if len(o.AllowOrigins) > 0 {
		cfg := cors.DefaultConfig()
		cfg.AllowOrigins = o.AllowOrigins
		cfg.AddAllowHeaders("Authorization")
		r.Use(cors.New(cfg))
	} else {
		r.Use(cors.Default())
	}

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1, "name": o.Name}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

// Serve 阻塞直到 ctx 取消或监听失败；取消后在 grace 内优雅关闭
func Serve(ctx context.Context, srv *http.Server, l *zap.Logger, grace time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		l.Info("http starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	l.Info("http shutting down", zap.String("addr", srv.Addr))
	return srv.Shutdown(shutdownCtx)
}

func BuildServer(addr string, handler http.Handler, rt, wt, it time.Duration) *http.Server {
	return &http.Server{
		Addr:           addr,
		Handler:        handler,
		ReadTimeout:    rt,
		WriteTimeout:   wt,
		IdleTimeout:    it,
		MaxHeaderBytes: 1 << 20, // 1MB
	}
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }
