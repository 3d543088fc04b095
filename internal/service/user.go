package service

import (
	"context"

	"go.uber.org/zap"

	"usercenter/internal/core/database"
	"usercenter/internal/domain"
	"usercenter/internal/repo"
)

type UserService struct {
	tm    *database.TxManager
	users *repo.UserRepo
	auths *repo.AuthRepo
	roles *repo.RoleRepo
	log   *zap.Logger
}

func NewUserService(tm *database.TxManager, users *repo.UserRepo, auths *repo.AuthRepo, roles *repo.RoleRepo, l *zap.Logger) *UserService {
	return &UserService{tm: tm, users: users, auths: auths, roles: roles, log: l.Named("user")}
}

func (u *UserService) List(ctx context.Context, s *database.Session, f domain.UserFilter) ([]*domain.User, int64, error) {
	return u.users.FindAndCount(ctx, s, f)
}

func (u *UserService) Get(ctx context.Context, s *database.Session, id string) (*domain.User, error) {
	out, err := u.users.GetWithRole(ctx, s, id)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, ErrNotFound
	}
	return out, nil
}

// Ban 软删用户并停用其凭证
func (u *UserService) Ban(ctx context.Context, s *database.Session, ids ...string) error {
	err := within(ctx, u.tm, s, func(s *database.Session) error {
		if err := found(u.users.SoftDelete(ctx, s, ids...)); err != nil {
			return err
		}
		return u.auths.SoftDeleteByOwner(ctx, s, domain.OwnerUser, ids...)
	})
	if err == nil {
		u.log.Info("users banned", zap.Strings("ids", ids))
	}
	return err
}

func (u *UserService) Unban(ctx context.Context, s *database.Session, ids ...string) error {
	err := within(ctx, u.tm, s, func(s *database.Session) error {
		ok, err := u.users.Restore(ctx, s, ids...)
		if isDupKey(err) {
			return ErrEmailTaken
		}
		if err := found(ok, err); err != nil {
			return err
		}
		err = u.auths.RestoreByOwner(ctx, s, domain.OwnerUser, ids...)
		if isDupKey(err) {
			return ErrUsernameTaken
		}
		return err
	})
	if err == nil {
		u.log.Info("users unbanned", zap.Strings("ids", ids))
	}
	return err
}

// SetRole 只写 role_id；空 roleID 表示清除角色
func (u *UserService) SetRole(ctx context.Context, s *database.Session, id, roleID string) (*domain.User, error) {
	var out *domain.User
	err := within(ctx, u.tm, s, func(s *database.Session) error {
		roleName, err := lookupRoleName(ctx, u.roles, s, roleID)
		if err != nil {
			return err
		}
		if roleName == "" {
			roleName = UserRoleName
		}
		if err := found(u.users.UpdateFields(ctx, s, id, &domain.User{RoleID: roleID}, []string{repo.UserTable.RoleID})); err != nil {
			return err
		}
		if err := u.auths.SetRoleName(ctx, s, domain.OwnerUser, id, roleName); err != nil {
			return err
		}
		out, err = u.users.GetWithRole(ctx, s, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
