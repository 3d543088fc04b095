package service

import (
	"context"
	"strings"

	"usercenter/internal/core/database"
	"usercenter/internal/domain"
	"usercenter/internal/repo"
	"usercenter/pkg/utils"
)

type Credentials struct {
	Username string `json:"username" binding:"omitempty,min=3,max=64"`
	Password string `json:"password" binding:"omitempty,min=8,max=72"`
}

func (c Credentials) empty() bool { return strings.TrimSpace(c.Username) == "" }

// createAuth 为主体创建登录凭证，必须与主体写入处于同一 session
func createAuth(ctx context.Context, auths *repo.AuthRepo, s *database.Session,
	owner domain.OwnerType, ownerID, roleName string, c Credentials) error {
	username := strings.TrimSpace(c.Username)
	existing, err := auths.FindByUsername(ctx, s, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrUsernameTaken
	}
	hash, err := utils.HashPassword(c.Password)
	if err != nil {
		return err
	}
	_, err = auths.Create(ctx, s, &domain.Auth{
		Username:     username,
		PasswordHash: hash,
		OwnerID:      ownerID,
		OwnerType:    owner,
		RoleName:     roleName,
	})
	if isDupKey(err) {
		return ErrUsernameTaken
	}
	return err
}

func lookupRoleName(ctx context.Context, roles *repo.RoleRepo, s *database.Session, roleID string) (string, error) {
	if roleID == "" {
		return "", nil
	}
	r, err := roles.GetByID(ctx, s, roleID)
	if err != nil {
		return "", err
	}
	if r == nil {
		return "", ErrRoleNotFound
	}
	return r.Name, nil
}
