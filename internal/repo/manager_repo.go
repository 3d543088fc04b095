package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"usercenter/internal/core/database"
	"usercenter/internal/domain"
)

type ManagerRepo struct {
	*Repository[domain.Manager, managerRow, *managerRow]
	maxLimit int
}

func NewManagerRepo(db *gorm.DB, maxLimit int) *ManagerRepo {
	return &ManagerRepo{
		Repository: New[domain.Manager, managerRow](db, ManagerTable.Table),
		maxLimit:   maxLimit,
	}
}

func (r *ManagerRepo) criteria(f domain.ManagerFilter) Criteria {
	t := ManagerTable
	c := Criteria{
		Order:       desc(t.CreatedAt),
		Preload:     []string{"Role"},
		WithDeleted: f.WithDeleted,
	}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		c.Scopes = append(c.Scopes, keywordScope(kw, fullName(t.FirstName, t.LastName), t.Email))
	}
	if f.Status != "" {
		c.Scopes = append(c.Scopes, eqScope(t.Status, string(f.Status)))
	}
	if len(f.RoleIDs) > 0 {
		c.Scopes = append(c.Scopes, inScope(t.RoleID, f.RoleIDs))
	}
	return c
}

func (r *ManagerRepo) FindAndCount(ctx context.Context, s *database.Session, f domain.ManagerFilter) ([]*domain.Manager, int64, error) {
	f.Page = f.Page.Clamp(r.maxLimit)
	return r.Repository.FindAndCount(ctx, s, f.Page, r.criteria(f))
}

func (r *ManagerRepo) Count(ctx context.Context, s *database.Session, f domain.ManagerFilter) (int64, error) {
	return r.Repository.Count(ctx, s, r.criteria(f))
}

// GetWithRole 带角色关系
func (r *ManagerRepo) GetWithRole(ctx context.Context, s *database.Session, id string) (*domain.Manager, error) {
	return r.GetByID(ctx, s, id, preload("Role"))
}

// FindByEmail 只在存活行中查找
func (r *ManagerRepo) FindByEmail(ctx context.Context, s *database.Session, email string) (*domain.Manager, error) {
	return r.FindOne(ctx, s, eqScope(ManagerTable.Email, strings.ToLower(strings.TrimSpace(email))))
}
