package ez

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"usercenter/internal/core/database"
)

// Resource 标准资源的用例集合。E 领域对象，F 列表过滤条件，C/U 创建/更新入参
type Resource[E any, F any, C any, U any] interface {
	List(ctx context.Context, s *database.Session, f F) ([]*E, int64, error)
	Get(ctx context.Context, s *database.Session, id string) (*E, error)
	Create(ctx context.Context, s *database.Session, in C) (*E, error)
	Update(ctx context.Context, s *database.Session, id string, in U) (*E, error)
	SoftDelete(ctx context.Context, s *database.Session, ids ...string) error
	Restore(ctx context.Context, s *database.Session, ids ...string) error
	Delete(ctx context.Context, s *database.Session, ids ...string) error
}

type CrudConfig[E any, F any, C any, U any] struct {
	Path    string // 例如 "/managers"
	Roles   []string
	Service Resource[E, F, C, U]

	// 全为 false 时默认全部放开
	AllowCreate bool
	AllowList   bool
	AllowGet    bool
	AllowUpdate bool
	AllowDelete bool

	DefaultLimit int
}

type ListOut[E any] struct {
	Items []*E  `json:"items"`
	Total int64 `json:"total"`
}

// IDs 批量操作入参
type IDs struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,required"`
}

type idOut struct {
	ID string `json:"id"`
}

type idsOut struct {
	IDs []string `json:"ids"`
}

// defaultLimiter 由嵌入 domain.Page 的过滤条件实现
type defaultLimiter interface{ WithDefaultLimit(int) }

// Crud 注册：
//
//	GET    {path}               列表
//	GET    {path}/:id           详情
//	POST   {path}               创建
//	PUT    {path}/:id           稀疏更新
//	DELETE {path}/:id           软删
//	POST   {path}/:id/restore   恢复
//	DELETE {path}/:id/purge     物理删除
//	POST   {path}/batch/{delete|restore|purge}
func Crud[E any, F any, C any, U any](e EZ, cfg CrudConfig[E, F, C, U]) {
	if !cfg.AllowCreate && !cfg.AllowGet && !cfg.AllowList && !cfg.AllowUpdate && !cfg.AllowDelete {
		cfg.AllowCreate, cfg.AllowList, cfg.AllowGet, cfg.AllowUpdate, cfg.AllowDelete = true, true, true, true, true
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 20
	}
	svc, p, roles := cfg.Service, cfg.Path, cfg.Roles

	if cfg.AllowList {
		RegisterAction(e, Action[F, ListOut[E]]{
			Method: http.MethodGet, Path: p, Binder: BindQuery, Auth: true, Roles: roles,
			Handler: func(c *gin.Context, s *database.Session, f *F) (ListOut[E], error) {
				if d, ok := any(f).(defaultLimiter); ok {
					d.WithDefaultLimit(cfg.DefaultLimit)
				}
				items, total, err := svc.List(c.Request.Context(), s, *f)
				return ListOut[E]{Items: items, Total: total}, err
			},
		})
	}

	if cfg.AllowGet {
		RegisterAction(e, Action[struct{}, *E]{
			Method: http.MethodGet, Path: p + "/:id", Binder: BindNone, Auth: true, Roles: roles,
			Handler: func(c *gin.Context, s *database.Session, _ *struct{}) (*E, error) {
				return svc.Get(c.Request.Context(), s, c.Param("id"))
			},
		})
	}

	if cfg.AllowCreate {
		RegisterAction(e, Action[C, *E]{
			Method: http.MethodPost, Path: p, Binder: BindJSON, Auth: true, Roles: roles, UseTx: true,
			Handler: func(c *gin.Context, s *database.Session, in *C) (*E, error) {
				return svc.Create(c.Request.Context(), s, *in)
			},
		})
	}

	if cfg.AllowUpdate {
		RegisterAction(e, Action[U, *E]{
			Method: http.MethodPut, Path: p + "/:id", Binder: BindJSON, Auth: true, Roles: roles, UseTx: true,
			Handler: func(c *gin.Context, s *database.Session, in *U) (*E, error) {
				return svc.Update(c.Request.Context(), s, c.Param("id"), *in)
			},
		})
	}

	if !cfg.AllowDelete {
		return
	}
	single := func(method, path string, op func(context.Context, *database.Session, ...string) error) {
		RegisterAction(e, Action[struct{}, idOut]{
			Method: method, Path: path, Binder: BindNone, Auth: true, Roles: roles, UseTx: true,
			Handler: func(c *gin.Context, s *database.Session, _ *struct{}) (idOut, error) {
				id := c.Param("id")
				return idOut{ID: id}, op(c.Request.Context(), s, id)
			},
		})
	}
	batch := func(path string, op func(context.Context, *database.Session, ...string) error) {
		RegisterAction(e, Action[IDs, idsOut]{
			Method: http.MethodPost, Path: path, Binder: BindJSON, Auth: true, Roles: roles, UseTx: true,
			Handler: func(c *gin.Context, s *database.Session, in *IDs) (idsOut, error) {
				return idsOut{IDs: in.IDs}, op(c.Request.Context(), s, in.IDs...)
			},
		})
	}
	single(http.MethodDelete, p+"/:id", svc.SoftDelete)
	single(http.MethodPost, p+"/:id/restore", svc.Restore)
	single(http.MethodDelete, p+"/:id/purge", svc.Delete)
	batch(p+"/batch/delete", svc.SoftDelete)
	batch(p+"/batch/restore", svc.Restore)
	batch(p+"/batch/purge", svc.Delete)
}
