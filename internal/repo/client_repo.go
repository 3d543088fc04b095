package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"usercenter/internal/core/database"
	"usercenter/internal/domain"
)

type ClientRepo struct {
	*Repository[domain.Client, clientRow, *clientRow]
	maxLimit int
}

func NewClientRepo(db *gorm.DB, maxLimit int) *ClientRepo {
	return &ClientRepo{
		Repository: New[domain.Client, clientRow](db, ClientTable.Table),
		maxLimit:   maxLimit,
	}
}

func (r *ClientRepo) criteria(f domain.ClientFilter) Criteria {
	t := ClientTable
	c := Criteria{Order: desc(t.CreatedAt), WithDeleted: f.WithDeleted}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		c.Scopes = append(c.Scopes, keywordScope(kw, fullName(t.FirstName, t.LastName), t.Email, t.Company))
	}
	if f.Status != "" {
		c.Scopes = append(c.Scopes, eqScope(t.Status, string(f.Status)))
	}
	if co := strings.TrimSpace(f.Company); co != "" {
		c.Scopes = append(c.Scopes, keywordScope(co, t.Company))
	}
	return c
}

func (r *ClientRepo) FindAndCount(ctx context.Context, s *database.Session, f domain.ClientFilter) ([]*domain.Client, int64, error) {
	f.Page = f.Page.Clamp(r.maxLimit)
	return r.Repository.FindAndCount(ctx, s, f.Page, r.criteria(f))
}

func (r *ClientRepo) Count(ctx context.Context, s *database.Session, f domain.ClientFilter) (int64, error) {
	return r.Repository.Count(ctx, s, r.criteria(f))
}

func (r *ClientRepo) FindByEmail(ctx context.Context, s *database.Session, email string) (*domain.Client, error) {
	return r.FindOne(ctx, s, eqScope(ClientTable.Email, strings.ToLower(strings.TrimSpace(email))))
}
