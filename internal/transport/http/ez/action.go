package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"usercenter/internal/core/database"
	resp "usercenter/internal/transport/http/response"
)

// 上下文 key，由鉴权中间件写入
const (
	KeyUserID = "userId"
	KeyRole   = "role"
	KeyClaims = "claims"
)

// EZ 路由分组 + 会话提供者
type EZ struct {
	g   *gin.RouterGroup
	tm  *database.TxManager
	log *zap.Logger
	// 把业务错误翻译成 AErr，未设置则按 500 处理
	mapErr func(error) error
}

func New(g *gin.RouterGroup, tm *database.TxManager, l *zap.Logger, mapErr func(error) error) EZ {
	return EZ{g: g, tm: tm, log: l, mapErr: mapErr}
}

// Group 子分组，继承会话提供者与错误映射
func (e EZ) Group(path string, h ...gin.HandlerFunc) EZ {
	e.g = e.g.Group(path, h...)
	return e
}

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// 统一错误对象（配合 resp.Error(int, msg)）
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: resp.CodeUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Code: resp.CodeForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: resp.CodeNotFound, Msg: msg} }
func Conflict(msg string) error     { return &AErr{Code: resp.CodeConflict, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method string   // "GET" | "POST" | "PUT" | "DELETE"
	Path   string   // 例："/auth/login"、"/managers/:id/restore"
	Binder Binder   // 绑定方式
	Auth   bool     // 是否要求登录（检查 userId）
	Roles  []string // 限定角色（可选）
	UseTx  bool     // 在同一个 session 中执行，handler 返回错误则回滚
	// s 为 nil 表示无会话（UseTx=false）
	Handler func(c *gin.Context, s *database.Session, in *I) (O, error)
}

// RegisterAction 在当前 EZ 下注册动作接口
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		// 1) 鉴权/角色
		if a.Auth {
			if c.GetString(KeyUserID) == "" {
				resp.JSON(c, resp.Error(resp.CodeUnauthorized, "unauthorized"))
				return
			}
			if len(a.Roles) > 0 && !hasRole(c.GetString(KeyRole), a.Roles) {
				resp.JSON(c, resp.Error(resp.CodeForbidden, "forbidden"))
				return
			}
		}

		// 2) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default:
		}
		if bindErr != nil {
			resp.JSON(c, resp.Error(resp.CodeBadRequest, bindErr.Error()))
			return
		}

		// 3) 执行（可选事务）
		ctx := c.Request.Context()
		var out O
		var err error
		if a.UseTx {
			err = e.tm.Transaction(ctx, func(s *database.Session) error {
				o, e := a.Handler(c, s, &in)
				out = o
				return e
			})
		} else {
			out, err = a.Handler(c, database.NoSession, &in)
		}

		// 4) 统一错误映射
		if err != nil {
			e.fail(c, err)
			return
		}
		resp.JSON(c, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

func (e EZ) fail(c *gin.Context, err error) {
	if e.mapErr != nil {
		err = e.mapErr(err)
	}
	var ae *AErr
	if !errors.As(err, &ae) {
		ae = &AErr{Code: resp.CodeServerError, Msg: "internal error", Err: err}
	}
	if ae.Code >= resp.CodeServerError && e.log != nil {
		e.log.Error("action failed",
			zap.String("path", c.FullPath()),
			zap.String("rid", c.GetString(KeyRequestID)),
			zap.Error(ae.Err))
	}
	resp.JSON(c, resp.Error(ae.Code, ae.Error()))
}

// KeyRequestID 与 middleware.RequestID 写入的 key 一致
const KeyRequestID = "X-Request-ID"

func hasRole(role string, allowed []string) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}
