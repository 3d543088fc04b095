package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"usercenter/internal/core/database"
	"usercenter/internal/domain"
	"usercenter/internal/repo"
)

type CreateManagerInput struct {
	FirstName string `json:"firstName" binding:"required,max=64"`
	LastName  string `json:"lastName"  binding:"required,max=64"`
	Email     string `json:"email"     binding:"required,email"`
	Phone     string `json:"phone"     binding:"omitempty,max=32"`
	RoleID    string `json:"roleId"`
	Credentials
}

// UpdateManagerInput 空字段表示不修改
type UpdateManagerInput struct {
	FirstName string        `json:"firstName" binding:"omitempty,max=64"`
	LastName  string        `json:"lastName"  binding:"omitempty,max=64"`
	Email     string        `json:"email"     binding:"omitempty,email"`
	Phone     string        `json:"phone"     binding:"omitempty,max=32"`
	Status    domain.Status `json:"status"`
	RoleID    string        `json:"roleId"`
}

type ManagerService struct {
	tm       *database.TxManager
	managers *repo.ManagerRepo
	auths    *repo.AuthRepo
	roles    *repo.RoleRepo
	log      *zap.Logger
}

func NewManagerService(tm *database.TxManager, managers *repo.ManagerRepo, auths *repo.AuthRepo, roles *repo.RoleRepo, l *zap.Logger) *ManagerService {
	return &ManagerService{tm: tm, managers: managers, auths: auths, roles: roles, log: l.Named("manager")}
}

func (m *ManagerService) List(ctx context.Context, s *database.Session, f domain.ManagerFilter) ([]*domain.Manager, int64, error) {
	return m.managers.FindAndCount(ctx, s, f)
}

func (m *ManagerService) Get(ctx context.Context, s *database.Session, id string) (*domain.Manager, error) {
	out, err := m.managers.GetWithRole(ctx, s, id)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, ErrNotFound
	}
	return out, nil
}

// Create 邮箱在存活 manager 中唯一；提供用户名时同时创建登录凭证
func (m *ManagerService) Create(ctx context.Context, s *database.Session, in CreateManagerInput) (*domain.Manager, error) {
	email := normEmail(in.Email)
	var out *domain.Manager
	err := within(ctx, m.tm, s, func(s *database.Session) error {
		dup, err := m.managers.FindByEmail(ctx, s, email)
		if err != nil {
			return err
		}
		if dup != nil {
			return ErrEmailTaken
		}
		roleName, err := lookupRoleName(ctx, m.roles, s, in.RoleID)
		if err != nil {
			return err
		}
		out, err = m.managers.CreateGet(ctx, s, &domain.Manager{
			FirstName: strings.TrimSpace(in.FirstName),
			LastName:  strings.TrimSpace(in.LastName),
			Email:     email,
			Phone:     strings.TrimSpace(in.Phone),
			RoleID:    in.RoleID,
		})
		if isDupKey(err) {
			return ErrEmailTaken
		}
		if err != nil {
			return err
		}
		if in.Credentials.empty() {
			return nil
		}
		return createAuth(ctx, m.auths, s, domain.OwnerManager, out.ID, roleName, in.Credentials)
	})
	if err != nil {
		return nil, err
	}
	m.log.Info("manager created", zap.String("id", out.ID), zap.String("email", out.Email))
	return out, nil
}

func (m *ManagerService) Update(ctx context.Context, s *database.Session, id string, in UpdateManagerInput) (*domain.Manager, error) {
	if in.Status != "" && !in.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	var out *domain.Manager
	err := within(ctx, m.tm, s, func(s *database.Session) error {
		email := normEmail(in.Email)
		if email != "" {
			dup, err := m.managers.FindByEmail(ctx, s, email)
			if err != nil {
				return err
			}
			if dup != nil && dup.ID != id {
				return ErrEmailTaken
			}
		}
		roleName, err := lookupRoleName(ctx, m.roles, s, in.RoleID)
		if err != nil {
			return err
		}
		out, err = m.managers.UpdateGet(ctx, s, id, &domain.Manager{
			FirstName: strings.TrimSpace(in.FirstName),
			LastName:  strings.TrimSpace(in.LastName),
			Email:     email,
			Phone:     strings.TrimSpace(in.Phone),
			Status:    in.Status,
			RoleID:    in.RoleID,
		})
		if isDupKey(err) {
			return ErrEmailTaken
		}
		if err != nil {
			return err
		}
		if out == nil {
			return ErrNotFound
		}
		if in.RoleID != "" {
			return m.auths.SetRoleName(ctx, s, domain.OwnerManager, id, roleName)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SoftDelete 停用 manager 及其凭证；任一 id 未命中则返回 ErrNotFound 并回滚
func (m *ManagerService) SoftDelete(ctx context.Context, s *database.Session, ids ...string) error {
	err := within(ctx, m.tm, s, func(s *database.Session) error {
		if err := found(m.managers.SoftDelete(ctx, s, ids...)); err != nil {
			return err
		}
		return m.auths.SoftDeleteByOwner(ctx, s, domain.OwnerManager, ids...)
	})
	if err == nil {
		m.log.Info("managers soft deleted", zap.Strings("ids", ids))
	}
	return err
}

func (m *ManagerService) Restore(ctx context.Context, s *database.Session, ids ...string) error {
	err := within(ctx, m.tm, s, func(s *database.Session) error {
		ok, err := m.managers.Restore(ctx, s, ids...)
		if isDupKey(err) {
			return ErrEmailTaken
		}
		if err := found(ok, err); err != nil {
			return err
		}
		err = m.auths.RestoreByOwner(ctx, s, domain.OwnerManager, ids...)
		if isDupKey(err) {
			return ErrUsernameTaken
		}
		return err
	})
	if err == nil {
		m.log.Info("managers restored", zap.Strings("ids", ids))
	}
	return err
}

func (m *ManagerService) Delete(ctx context.Context, s *database.Session, ids ...string) error {
	err := within(ctx, m.tm, s, func(s *database.Session) error {
		if err := found(m.managers.Delete(ctx, s, ids...)); err != nil {
			return err
		}
		return m.auths.DeleteByOwner(ctx, s, domain.OwnerManager, ids...)
	})
	if err == nil {
		m.log.Info("managers deleted", zap.Strings("ids", ids))
	}
	return err
}
