package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"usercenter/internal/core/database"
	"usercenter/internal/domain"
	"usercenter/internal/service"
	"usercenter/internal/transport/http/ez"
)

type Admin struct {
	Managers *service.ManagerService
	Clients  *service.ClientService
	Users    *service.UserService
	Roles    *service.RoleService
	// 列表默认条数
	DefaultLimit int
}

func (a Admin) Mount(e ez.EZ) {
	ez.Crud(e, ez.CrudConfig[domain.Manager, domain.ManagerFilter, service.CreateManagerInput, service.UpdateManagerInput]{
		Path: "/managers", Service: a.Managers, DefaultLimit: a.DefaultLimit,
	})
	ez.Crud(e, ez.CrudConfig[domain.Client, domain.ClientFilter, service.CreateClientInput, service.UpdateClientInput]{
		Path: "/clients", Service: a.Clients, DefaultLimit: a.DefaultLimit,
	})
	ez.Crud(e, ez.CrudConfig[domain.Role, domain.RoleFilter, service.RoleInput, service.RoleInput]{
		Path: "/roles", Service: a.Roles, DefaultLimit: a.DefaultLimit,
	})

	type importIn struct {
		Items []service.CreateClientInput `json:"items" binding:"required,min=1,dive"`
	}
	type importOut struct {
		IDs []string `json:"ids"`
	}
	ez.RegisterAction(e, ez.Action[importIn, importOut]{
		Method: http.MethodPost,
		Path:   "/clients/import",
		Binder: ez.BindJSON,
		Auth:   true,
		UseTx:  true,
		Handler: func(c *gin.Context, s *database.Session, in *importIn) (importOut, error) {
			ids, err := a.Clients.Import(c.Request.Context(), s, in.Items)
			return importOut{IDs: ids}, err
		},
	})

	// 全量角色（走缓存），供下拉框使用
	ez.RegisterAction(e, ez.Action[struct{}, []*domain.Role]{
		Method: http.MethodGet,
		Path:   "/roles/all",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, s *database.Session, _ *struct{}) ([]*domain.Role, error) {
			return a.Roles.All(c.Request.Context(), s)
		},
	})

	a.mountUsers(e)
}

func (a Admin) mountUsers(e ez.EZ) {
	limit := a.DefaultLimit
	ez.RegisterAction(e, ez.Action[domain.UserFilter, ez.ListOut[domain.User]]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, s *database.Session, f *domain.UserFilter) (ez.ListOut[domain.User], error) {
			f.WithDefaultLimit(limit)
			items, total, err := a.Users.List(c.Request.Context(), s, *f)
			return ez.ListOut[domain.User]{Items: items, Total: total}, err
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, s *database.Session, _ *struct{}) (*domain.User, error) {
			return a.Users.Get(c.Request.Context(), s, c.Param("id"))
		},
	})

	// --- 封禁（软删） / 解封 ---
	type idOut struct {
		ID string `json:"id"`
	}
	ez.RegisterAction(e, ez.Action[struct{}, idOut]{
		Method: http.MethodPost,
		Path:   "/users/:id/ban",
		Binder: ez.BindNone,
		Auth:   true,
		UseTx:  true,
		Handler: func(c *gin.Context, s *database.Session, _ *struct{}) (idOut, error) {
			id := c.Param("id")
			return idOut{ID: id}, a.Users.Ban(c.Request.Context(), s, id)
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, idOut]{
		Method: http.MethodPost,
		Path:   "/users/:id/unban",
		Binder: ez.BindNone,
		Auth:   true,
		UseTx:  true,
		Handler: func(c *gin.Context, s *database.Session, _ *struct{}) (idOut, error) {
			id := c.Param("id")
			return idOut{ID: id}, a.Users.Unban(c.Request.Context(), s, id)
		},
	})

	type roleIn struct {
		RoleID string `json:"roleId"`
	}
	ez.RegisterAction(e, ez.Action[roleIn, *domain.User]{
		Method: http.MethodPut,
		Path:   "/users/:id/role",
		Binder: ez.BindJSON,
		Auth:   true,
		UseTx:  true,
		Handler: func(c *gin.Context, s *database.Session, in *roleIn) (*domain.User, error) {
			return a.Users.SetRole(c.Request.Context(), s, c.Param("id"), in.RoleID)
		},
	})
}
