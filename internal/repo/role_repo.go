package repo

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"usercenter/internal/core/cache"
	"usercenter/internal/core/database"
	"usercenter/internal/domain"
)

const RolesCacheKey = "roles:all"

// RoleRepo 角色列表读多写少，整表缓存在 RolesCacheKey 下，任何变更后失效
type RoleRepo struct {
	*Repository[domain.Role, roleRow, *roleRow]
	cache    cache.Store
	ttl      time.Duration
	maxLimit int
	log      *zap.Logger
}

func NewRoleRepo(db *gorm.DB, c cache.Store, ttl time.Duration, maxLimit int) *RoleRepo {
	return &RoleRepo{
		Repository: New[domain.Role, roleRow](db, RoleTable.Table),
		cache:      c,
		ttl:        ttl,
		maxLimit:   maxLimit,
		log:        zap.NewNop(),
	}
}

// WithLogger 缓存失效失败时写 Warn
func (r *RoleRepo) WithLogger(l *zap.Logger) *RoleRepo {
	if l != nil {
		r.log = l.Named("role_repo")
	}
	return r
}

func (r *RoleRepo) FindAndCount(ctx context.Context, s *database.Session, f domain.RoleFilter) ([]*domain.Role, int64, error) {
	c := Criteria{Order: RoleTable.RoleName + " ASC"}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		c.Scopes = append(c.Scopes, keywordScope(kw, RoleTable.RoleName, RoleTable.Description))
	}
	f.Page = f.Page.Clamp(r.maxLimit)
	return r.Repository.FindAndCount(ctx, s, f.Page, c)
}

func (r *RoleRepo) loadAll(ctx context.Context, s *database.Session) ([]*domain.Role, error) {
	var rows []roleRow
	if err := r.conn(ctx, s).Order(RoleTable.RoleName + " ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.toEntities(rows), nil
}

// ListAll 全部存活角色。会话内读取绕过缓存，避免把未提交数据写进共享缓存
func (r *RoleRepo) ListAll(ctx context.Context, s *database.Session) ([]*domain.Role, error) {
	if s != nil || r.cache == nil {
		return r.loadAll(ctx, s)
	}
	out, err := cache.GetOrLoadJSON(r.cache, ctx, RolesCacheKey, r.ttl, func(ctx context.Context) (*[]*domain.Role, error) {
		v, err := r.loadAll(ctx, nil)
		return &v, err
	})
	if err != nil || out == nil {
		return nil, err
	}
	return *out, nil
}

func (r *RoleRepo) FindByName(ctx context.Context, s *database.Session, name string) (*domain.Role, error) {
	return r.FindOne(ctx, s, eqScope(RoleTable.RoleName, strings.TrimSpace(name)))
}

func (r *RoleRepo) ClearCaching(ctx context.Context) error {
	if r.cache == nil {
		return nil
	}
	return r.cache.ClearCaching(ctx, RolesCacheKey)
}

// invalidate 有会话时推迟到提交之后，否则立即失效
func (r *RoleRepo) invalidate(ctx context.Context, s *database.Session) {
	drop := func(ctx context.Context) {
		if err := r.ClearCaching(ctx); err != nil {
			r.log.Warn("clear roles cache failed", zap.String("key", RolesCacheKey), zap.Error(err))
		}
	}
	if s == nil {
		drop(ctx)
		return
	}
	ctx = context.WithoutCancel(ctx)
	s.AfterCommit(func() { drop(ctx) })
}

func (r *RoleRepo) Create(ctx context.Context, s *database.Session, e *domain.Role) (string, error) {
	id, err := r.Repository.Create(ctx, s, e)
	if err == nil {
		r.invalidate(ctx, s)
	}
	return id, err
}

func (r *RoleRepo) CreateGet(ctx context.Context, s *database.Session, e *domain.Role) (*domain.Role, error) {
	id, err := r.Create(ctx, s, e)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, s, id)
}

func (r *RoleRepo) Update(ctx context.Context, s *database.Session, id string, e *domain.Role) (bool, error) {
	ok, err := r.Repository.Update(ctx, s, id, e)
	if ok {
		r.invalidate(ctx, s)
	}
	return ok, err
}

func (r *RoleRepo) SoftDelete(ctx context.Context, s *database.Session, ids ...string) (bool, error) {
	ok, err := r.Repository.SoftDelete(ctx, s, ids...)
	if err == nil {
		r.invalidate(ctx, s)
	}
	return ok, err
}

func (r *RoleRepo) Restore(ctx context.Context, s *database.Session, ids ...string) (bool, error) {
	ok, err := r.Repository.Restore(ctx, s, ids...)
	if err == nil {
		r.invalidate(ctx, s)
	}
	return ok, err
}

func (r *RoleRepo) Delete(ctx context.Context, s *database.Session, ids ...string) (bool, error) {
	ok, err := r.Repository.Delete(ctx, s, ids...)
	if err == nil {
		r.invalidate(ctx, s)
	}
	return ok, err
}

func (r *RoleRepo) CreateMultiple(ctx context.Context, s *database.Session, es []*domain.Role) ([]string, error) {
	ids, err := r.Repository.CreateMultiple(ctx, s, es)
	if err == nil {
		r.invalidate(ctx, s)
	}
	return ids, err
}

func (r *RoleRepo) UpdateGet(ctx context.Context, s *database.Session, id string, e *domain.Role) (*domain.Role, error) {
	ok, err := r.Update(ctx, s, id, e)
	if err != nil || !ok {
		return nil, err
	}
	return r.GetByID(ctx, s, id)
}

func (r *RoleRepo) UpdateFields(ctx context.Context, s *database.Session, id string, e *domain.Role, fields []string) (bool, error) {
	ok, err := r.Repository.UpdateFields(ctx, s, id, e, fields)
	if ok {
		r.invalidate(ctx, s)
	}
	return ok, err
}
