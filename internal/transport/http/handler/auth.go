package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"usercenter/internal/core/auth"
	"usercenter/internal/core/database"
	"usercenter/internal/service"
	"usercenter/internal/transport/http/ez"
)

type Auth struct {
	Service *service.AuthService
}

func claimsOf(c *gin.Context) (*auth.Claims, error) {
	if v, ok := c.Get(ez.KeyClaims); ok {
		if cl, ok := v.(*auth.Claims); ok {
			return cl, nil
		}
	}
	return nil, ez.Unauthorized("unauthorized")
}

// MountLogin /auth/login，无需登录
func (a Auth) MountLogin(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[service.LoginInput, *service.LoginResult]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, s *database.Session, in *service.LoginInput) (*service.LoginResult, error) {
			return a.Service.Login(c.Request.Context(), s, *in)
		},
	})
}

// MountPublic 登录 + 自助注册
func (a Auth) MountPublic(e ez.EZ) {
	a.MountLogin(e)
	ez.RegisterAction(e, ez.Action[service.RegisterInput, *service.LoginResult]{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Binder: ez.BindJSON,
		UseTx:  true,
		Handler: func(c *gin.Context, s *database.Session, in *service.RegisterInput) (*service.LoginResult, error) {
			return a.Service.Register(c.Request.Context(), s, *in)
		},
	})
}

// Mount /me 相关，必须挂在带 AuthJWT 的分组
func (a Auth) Mount(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[struct{}, *service.Profile]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, s *database.Session, _ *struct{}) (*service.Profile, error) {
			cl, err := claimsOf(c)
			if err != nil {
				return nil, err
			}
			return a.Service.Me(c.Request.Context(), s, cl)
		},
	})

	type okOut struct {
		OK bool `json:"ok"`
	}
	ez.RegisterAction(e, ez.Action[service.ChangePasswordInput, okOut]{
		Method: http.MethodPut,
		Path:   "/me/password",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, s *database.Session, in *service.ChangePasswordInput) (okOut, error) {
			cl, err := claimsOf(c)
			if err != nil {
				return okOut{}, err
			}
			if err := a.Service.ChangePassword(c.Request.Context(), s, cl, *in); err != nil {
				return okOut{}, err
			}
			return okOut{OK: true}, nil
		},
	})
}
