package repo

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"usercenter/internal/core/database"
	"usercenter/internal/domain"
)

type AuthRepo struct {
	*Repository[domain.Auth, authRow, *authRow]
	maxLimit int
}

func NewAuthRepo(db *gorm.DB, maxLimit int) *AuthRepo {
	return &AuthRepo{
		Repository: New[domain.Auth, authRow](db, AuthTable.Table),
		maxLimit:   maxLimit,
	}
}

func (r *AuthRepo) criteria(f domain.AuthFilter) Criteria {
	t := AuthTable
	c := Criteria{Order: desc(t.CreatedAt)}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		c.Scopes = append(c.Scopes, keywordScope(kw, t.Username))
	}
	if f.OwnerType != "" {
		c.Scopes = append(c.Scopes, eqScope(t.OwnerType, string(f.OwnerType)))
	}
	return c
}

func (r *AuthRepo) FindAndCount(ctx context.Context, s *database.Session, f domain.AuthFilter) ([]*domain.Auth, int64, error) {
	f.Page = f.Page.Clamp(r.maxLimit)
	return r.Repository.FindAndCount(ctx, s, f.Page, r.criteria(f))
}

func (r *AuthRepo) FindByUsername(ctx context.Context, s *database.Session, username string) (*domain.Auth, error) {
	return r.FindOne(ctx, s, eqScope(AuthTable.Username, strings.TrimSpace(username)))
}

func (r *AuthRepo) FindByOwner(ctx context.Context, s *database.Session, ownerType domain.OwnerType, ownerID string) (*domain.Auth, error) {
	return r.FindOne(ctx, s,
		eqScope(AuthTable.OwnerType, string(ownerType)),
		eqScope(AuthTable.OwnerID, ownerID),
	)
}

// TouchLogin 只更新 last_login_at
func (r *AuthRepo) TouchLogin(ctx context.Context, s *database.Session, id string, at time.Time) (bool, error) {
	return r.UpdateFields(ctx, s, id, &domain.Auth{LastLoginAt: &at}, []string{AuthTable.LastLoginAt})
}

// SetPassword 只更新 password_hash
func (r *AuthRepo) SetPassword(ctx context.Context, s *database.Session, id, hash string) (bool, error) {
	return r.UpdateFields(ctx, s, id, &domain.Auth{PasswordHash: hash}, []string{AuthTable.PasswordHash})
}

func (r *AuthRepo) byOwner(ctx context.Context, s *database.Session, t domain.OwnerType, ownerIDs []string) *gorm.DB {
	return r.conn(ctx, s).Model(new(authRow)).
		Where(AuthTable.OwnerType+" = ? AND "+AuthTable.OwnerID+" IN ?", string(t), ownerIDs)
}

// SoftDeleteByOwner 主体被软删时一并停用其凭证
func (r *AuthRepo) SoftDeleteByOwner(ctx context.Context, s *database.Session, t domain.OwnerType, ownerIDs ...string) error {
	if len(ownerIDs) == 0 {
		return nil
	}
	return r.byOwner(ctx, s, t, ownerIDs).Delete(new(authRow)).Error
}

func (r *AuthRepo) RestoreByOwner(ctx context.Context, s *database.Session, t domain.OwnerType, ownerIDs ...string) error {
	if len(ownerIDs) == 0 {
		return nil
	}
	return r.byOwner(ctx, s, t, ownerIDs).Unscoped().
		Where(AuthTable.DeletedAt+" IS NOT NULL").
		Update(AuthTable.DeletedAt, nil).Error
}

func (r *AuthRepo) DeleteByOwner(ctx context.Context, s *database.Session, t domain.OwnerType, ownerIDs ...string) error {
	if len(ownerIDs) == 0 {
		return nil
	}
	return r.byOwner(ctx, s, t, ownerIDs).Unscoped().Delete(new(authRow)).Error
}

// SetRoleName 角色变更后同步到凭证，令牌签发时直接读取
func (r *AuthRepo) SetRoleName(ctx context.Context, s *database.Session, t domain.OwnerType, ownerID, role string) error {
	return r.byOwner(ctx, s, t, []string{ownerID}).Update(AuthTable.RoleName, role).Error
}
