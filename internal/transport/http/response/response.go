package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Resp 统一信封；HTTP 状态恒为 200，业务结果看 Code
type Resp struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

// KeyCode 本次响应的业务码，写入 gin 上下文供 metrics / 访问日志读取
const KeyCode = "resp.code"

// New 构造函数（保证 data 不为 null）
func New(code int, msg string, data interface{}) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: code, Msg: msg, Data: data}
}

// OK 成功响应
func OK(data interface{}) Resp {
	return New(CodeOK, CodeMsgMap[CodeOK], data)
}

// Error 失败响应（可以传自定义 msg 覆盖默认）
func Error(code int, customMsg string) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return New(code, msg, struct{}{})
}

// JSON 写出信封并记录业务码
func JSON(c *gin.Context, r Resp) {
	c.Set(KeyCode, r.Code)
	c.JSON(http.StatusOK, r)
}

// Abort 同 JSON，并中止后续 handler
func Abort(c *gin.Context, r Resp) {
	c.Set(KeyCode, r.Code)
	c.AbortWithStatusJSON(http.StatusOK, r)
}

// CodeOf 未经信封写出（如 /health）时返回 CodeOK
func CodeOf(c *gin.Context) int { return c.GetInt(KeyCode) }
