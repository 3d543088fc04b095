package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"usercenter/internal/core/database"
	"usercenter/internal/domain"
	"usercenter/internal/repo"
)

type CreateClientInput struct {
	FirstName string `json:"firstName" binding:"required,max=64"`
	LastName  string `json:"lastName"  binding:"required,max=64"`
	Email     string `json:"email"     binding:"required,email"`
	Phone     string `json:"phone"     binding:"omitempty,max=32"`
	Company   string `json:"company"   binding:"omitempty,max=128"`
	Credentials
}

type UpdateClientInput struct {
	FirstName string        `json:"firstName" binding:"omitempty,max=64"`
	LastName  string        `json:"lastName"  binding:"omitempty,max=64"`
	Email     string        `json:"email"     binding:"omitempty,email"`
	Phone     string        `json:"phone"     binding:"omitempty,max=32"`
	Company   string        `json:"company"   binding:"omitempty,max=128"`
	Status    domain.Status `json:"status"`
}

// ClientRoleName 客户凭证固定的角色名
const ClientRoleName = "client"

type ClientService struct {
	tm      *database.TxManager
	clients *repo.ClientRepo
	auths   *repo.AuthRepo
	log     *zap.Logger
}

func NewClientService(tm *database.TxManager, clients *repo.ClientRepo, auths *repo.AuthRepo, l *zap.Logger) *ClientService {
	return &ClientService{tm: tm, clients: clients, auths: auths, log: l.Named("client")}
}

func (c *ClientService) List(ctx context.Context, s *database.Session, f domain.ClientFilter) ([]*domain.Client, int64, error) {
	return c.clients.FindAndCount(ctx, s, f)
}

func (c *ClientService) Get(ctx context.Context, s *database.Session, id string) (*domain.Client, error) {
	out, err := c.clients.GetByID(ctx, s, id)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, ErrNotFound
	}
	return out, nil
}

func (c *ClientService) Create(ctx context.Context, s *database.Session, in CreateClientInput) (*domain.Client, error) {
	email := normEmail(in.Email)
	var out *domain.Client
	err := within(ctx, c.tm, s, func(s *database.Session) error {
		dup, err := c.clients.FindByEmail(ctx, s, email)
		if err != nil {
			return err
		}
		if dup != nil {
			return ErrEmailTaken
		}
		out, err = c.clients.CreateGet(ctx, s, &domain.Client{
			FirstName: strings.TrimSpace(in.FirstName),
			LastName:  strings.TrimSpace(in.LastName),
			Email:     email,
			Phone:     strings.TrimSpace(in.Phone),
			Company:   strings.TrimSpace(in.Company),
		})
		if isDupKey(err) {
			return ErrEmailTaken
		}
		if err != nil || in.Credentials.empty() {
			return err
		}
		return createAuth(ctx, c.auths, s, domain.OwnerClient, out.ID, ClientRoleName, in.Credentials)
	})
	if err != nil {
		return nil, err
	}
	c.log.Info("client created", zap.String("id", out.ID), zap.String("email", out.Email))
	return out, nil
}

// Import 批量创建，全部成功或全部失败；不创建凭证
func (c *ClientService) Import(ctx context.Context, s *database.Session, in []CreateClientInput) ([]string, error) {
	es := make([]*domain.Client, len(in))
	for i, x := range in {
		es[i] = &domain.Client{
			FirstName: strings.TrimSpace(x.FirstName),
			LastName:  strings.TrimSpace(x.LastName),
			Email:     normEmail(x.Email),
			Phone:     strings.TrimSpace(x.Phone),
			Company:   strings.TrimSpace(x.Company),
		}
	}
	ids, err := c.clients.CreateMultiple(ctx, s, es)
	if isDupKey(err) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}
	c.log.Info("clients imported", zap.Int("count", len(ids)))
	return ids, nil
}

func (c *ClientService) Update(ctx context.Context, s *database.Session, id string, in UpdateClientInput) (*domain.Client, error) {
	if in.Status != "" && !in.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	email := normEmail(in.Email)
	if email != "" {
		dup, err := c.clients.FindByEmail(ctx, s, email)
		if err != nil {
			return nil, err
		}
		if dup != nil && dup.ID != id {
			return nil, ErrEmailTaken
		}
	}
	out, err := c.clients.UpdateGet(ctx, s, id, &domain.Client{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     email,
		Phone:     strings.TrimSpace(in.Phone),
		Company:   strings.TrimSpace(in.Company),
		Status:    in.Status,
	})
	if isDupKey(err) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, ErrNotFound
	}
	return out, nil
}

func (c *ClientService) SoftDelete(ctx context.Context, s *database.Session, ids ...string) error {
	err := within(ctx, c.tm, s, func(s *database.Session) error {
		if err := found(c.clients.SoftDelete(ctx, s, ids...)); err != nil {
			return err
		}
		return c.auths.SoftDeleteByOwner(ctx, s, domain.OwnerClient, ids...)
	})
	if err == nil {
		c.log.Info("clients soft deleted", zap.Strings("ids", ids))
	}
	return err
}

func (c *ClientService) Restore(ctx context.Context, s *database.Session, ids ...string) error {
	return within(ctx, c.tm, s, func(s *database.Session) error {
		ok, err := c.clients.Restore(ctx, s, ids...)
		if isDupKey(err) {
			return ErrEmailTaken
		}
		if err := found(ok, err); err != nil {
			return err
		}
		err = c.auths.RestoreByOwner(ctx, s, domain.OwnerClient, ids...)
		if isDupKey(err) {
			return ErrUsernameTaken
		}
		return err
	})
}

func (c *ClientService) Delete(ctx context.Context, s *database.Session, ids ...string) error {
	err := within(ctx, c.tm, s, func(s *database.Session) error {
		if err := found(c.clients.Delete(ctx, s, ids...)); err != nil {
			return err
		}
		return c.auths.DeleteByOwner(ctx, s, domain.OwnerClient, ids...)
	})
	if err == nil {
		c.log.Info("clients deleted", zap.Strings("ids", ids))
	}
	return err
}
