package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"usercenter/internal/core/database"
	"usercenter/internal/domain"
	"usercenter/internal/repo"
)

type RoleInput struct {
	Name        string `json:"name"        binding:"omitempty,max=64"`
	Description string `json:"description" binding:"omitempty,max=255"`
}

type RoleService struct {
	roles *repo.RoleRepo
	log   *zap.Logger
}

func NewRoleService(roles *repo.RoleRepo, l *zap.Logger) *RoleService {
	return &RoleService{roles: roles, log: l.Named("role")}
}

func (r *RoleService) List(ctx context.Context, s *database.Session, f domain.RoleFilter) ([]*domain.Role, int64, error) {
	return r.roles.FindAndCount(ctx, s, f)
}

// All 走角色缓存
func (r *RoleService) All(ctx context.Context, s *database.Session) ([]*domain.Role, error) {
	return r.roles.ListAll(ctx, s)
}

func (r *RoleService) Create(ctx context.Context, s *database.Session, in RoleInput) (*domain.Role, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrInvalidName
	}
	dup, err := r.roles.FindByName(ctx, s, name)
	if err != nil {
		return nil, err
	}
	if dup != nil {
		return nil, ErrNameTaken
	}
	out, err := r.roles.CreateGet(ctx, s, &domain.Role{Name: name, Description: strings.TrimSpace(in.Description)})
	if isDupKey(err) {
		return nil, ErrNameTaken
	}
	if err != nil {
		return nil, err
	}
	r.log.Info("role created", zap.String("id", out.ID), zap.String("name", out.Name))
	return out, nil
}

// Update 已签发凭证上的角色名不随重命名变化，下次分配角色时同步
func (r *RoleService) Update(ctx context.Context, s *database.Session, id string, in RoleInput) (*domain.Role, error) {
	name := strings.TrimSpace(in.Name)
	if name != "" {
		dup, err := r.roles.FindByName(ctx, s, name)
		if err != nil {
			return nil, err
		}
		if dup != nil && dup.ID != id {
			return nil, ErrNameTaken
		}
	}
	out, err := r.roles.UpdateGet(ctx, s, id, &domain.Role{Name: name, Description: strings.TrimSpace(in.Description)})
	if isDupKey(err) {
		return nil, ErrNameTaken
	}
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, ErrNotFound
	}
	return out, nil
}

func (r *RoleService) SoftDelete(ctx context.Context, s *database.Session, ids ...string) error {
	err := found(r.roles.SoftDelete(ctx, s, ids...))
	if err == nil {
		r.log.Info("roles soft deleted", zap.Strings("ids", ids))
	}
	return err
}

func (r *RoleService) Restore(ctx context.Context, s *database.Session, ids ...string) error {
	ok, err := r.roles.Restore(ctx, s, ids...)
	if isDupKey(err) {
		return ErrNameTaken
	}
	return found(ok, err)
}

func (r *RoleService) Get(ctx context.Context, s *database.Session, id string) (*domain.Role, error) {
	out, err := r.roles.GetByID(ctx, s, id)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, ErrNotFound
	}
	return out, nil
}

func (r *RoleService) Delete(ctx context.Context, s *database.Session, ids ...string) error {
	err := found(r.roles.Delete(ctx, s, ids...))
	if err == nil {
		r.log.Info("roles deleted", zap.Strings("ids", ids))
	}
	return err
}

// Ensure 按名称查找角色，不存在则创建
func (r *RoleService) Ensure(ctx context.Context, s *database.Session, name, description string) (*domain.Role, error) {
	existing, err := r.roles.FindByName(ctx, s, name)
	if err != nil || existing != nil {
		return existing, err
	}
	return r.Create(ctx, s, RoleInput{Name: name, Description: description})
}
