package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	resp "usercenter/internal/transport/http/response"
)

// HTTP 状态恒为 200，按信封里的业务码统计
var (
	httpReqTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "usercenter",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Requests by engine, route and envelope code",
		},
		[]string{"engine", "route", "method", "code"},
	)
	httpLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "usercenter",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency by engine and route",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"engine", "route", "method"},
	)
)

func init() { prometheus.MustRegister(httpReqTotal, httpLatency) }

// Metrics engine 区分 api / admin；未匹配路由记为 "unmatched"
func Metrics(engine string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpReqTotal.WithLabelValues(engine, route, c.Request.Method, strconv.Itoa(resp.CodeOf(c))).Inc()
		httpLatency.WithLabelValues(engine, route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
