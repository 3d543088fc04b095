package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"usercenter/internal/core/database"
	"usercenter/internal/domain"
)

type UserRepo struct {
	*Repository[domain.User, userRow, *userRow]
	maxLimit int
}

func NewUserRepo(db *gorm.DB, maxLimit int) *UserRepo {
	return &UserRepo{
		Repository: New[domain.User, userRow](db, UserTable.Table),
		maxLimit:   maxLimit,
	}
}

func (r *UserRepo) criteria(f domain.UserFilter) Criteria {
	t := UserTable
	c := Criteria{
		Order:       desc(t.CreatedAt),
		Preload:     []string{"Role"},
		WithDeleted: f.WithDeleted,
	}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		c.Scopes = append(c.Scopes, keywordScope(kw, t.Username, t.Email))
	}
	if f.Status != "" {
		c.Scopes = append(c.Scopes, eqScope(t.Status, string(f.Status)))
	}
	if len(f.RoleIDs) > 0 {
		c.Scopes = append(c.Scopes, inScope(t.RoleID, f.RoleIDs))
	}
	return c
}

func (r *UserRepo) FindAndCount(ctx context.Context, s *database.Session, f domain.UserFilter) ([]*domain.User, int64, error) {
	f.Page = f.Page.Clamp(r.maxLimit)
	return r.Repository.FindAndCount(ctx, s, f.Page, r.criteria(f))
}

func (r *UserRepo) Count(ctx context.Context, s *database.Session, f domain.UserFilter) (int64, error) {
	return r.Repository.Count(ctx, s, r.criteria(f))
}

// GetWithRole 带角色关系
func (r *UserRepo) GetWithRole(ctx context.Context, s *database.Session, id string) (*domain.User, error) {
	return r.GetByID(ctx, s, id, preload("Role"))
}

func (r *UserRepo) FindByEmail(ctx context.Context, s *database.Session, email string) (*domain.User, error) {
	return r.FindOne(ctx, s, eqScope(UserTable.Email, strings.ToLower(strings.TrimSpace(email))))
}

func (r *UserRepo) FindByUsername(ctx context.Context, s *database.Session, username string) (*domain.User, error) {
	return r.FindOne(ctx, s, eqScope(UserTable.Username, strings.TrimSpace(username)))
}
