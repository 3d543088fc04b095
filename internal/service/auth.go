package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"usercenter/internal/core/auth"
	"usercenter/internal/core/database"
	"usercenter/internal/domain"
	"usercenter/internal/repo"
	"usercenter/pkg/utils"
)

const (
	// UserRoleName 自助注册用户的默认角色
	UserRoleName = "user"
	// AdminRoleName 可访问管理端的角色
	AdminRoleName = "admin"
)

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	Token string       `json:"token"`
	Auth  *domain.Auth `json:"auth"`
}

type RegisterInput struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type ChangePasswordInput struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8,max=72"`
}

// Profile 当前登录主体，三者只有一个非空
type Profile struct {
	Auth    *domain.Auth    `json:"auth"`
	Manager *domain.Manager `json:"manager,omitempty"`
	Client  *domain.Client  `json:"client,omitempty"`
	User    *domain.User    `json:"user,omitempty"`
}

type AuthService struct {
	tm       *database.TxManager
	auths    *repo.AuthRepo
	users    *repo.UserRepo
	managers *repo.ManagerRepo
	clients  *repo.ClientRepo
	jwt      *auth.JWTer
	log      *zap.Logger
	now      func() time.Time
}

func NewAuthService(tm *database.TxManager, auths *repo.AuthRepo, users *repo.UserRepo,
	managers *repo.ManagerRepo, clients *repo.ClientRepo, j *auth.JWTer, l *zap.Logger) *AuthService {
	return &AuthService{
		tm: tm, auths: auths, users: users, managers: managers, clients: clients,
		jwt: j, log: l.Named("auth"), now: time.Now,
	}
}

// Login 用户名不存在与密码错误返回同一个错误
func (a *AuthService) Login(ctx context.Context, s *database.Session, in LoginInput) (*LoginResult, error) {
	cred, err := a.auths.FindByUsername(ctx, s, in.Username)
	if err != nil {
		return nil, err
	}
	if cred == nil || !utils.CheckPassword(in.Password, cred.PasswordHash) {
		a.log.Info("login rejected", zap.String("username", in.Username))
		return nil, ErrInvalidCredentials
	}
	tok, err := a.jwt.Issue(cred.ID, cred.OwnerID, string(cred.OwnerType), cred.RoleName)
	if err != nil {
		return nil, err
	}
	at := a.now()
	if _, err := a.auths.TouchLogin(ctx, s, cred.ID, at); err != nil {
		// 登录时间写失败不影响本次登录
		a.log.Warn("touch login failed", zap.String("auth_id", cred.ID), zap.Error(err))
	} else {
		cred.LastLoginAt = &at
	}
	return &LoginResult{Token: tok, Auth: cred}, nil
}

// Register 自助注册：创建 user 与其凭证
func (a *AuthService) Register(ctx context.Context, s *database.Session, in RegisterInput) (*LoginResult, error) {
	email := normEmail(in.Email)
	username := strings.TrimSpace(in.Username)
	err := within(ctx, a.tm, s, func(s *database.Session) error {
		dup, err := a.users.FindByEmail(ctx, s, email)
		if err != nil {
			return err
		}
		if dup != nil {
			return ErrEmailTaken
		}
		u, err := a.users.CreateGet(ctx, s, &domain.User{Username: username, Email: email})
		if isDupKey(err) {
			return ErrUsernameTaken
		}
		if err != nil {
			return err
		}
		return createAuth(ctx, a.auths, s, domain.OwnerUser, u.ID, UserRoleName,
			Credentials{Username: username, Password: in.Password})
	})
	if err != nil {
		return nil, err
	}
	a.log.Info("user registered", zap.String("username", username))
	return a.Login(ctx, s, LoginInput{Username: username, Password: in.Password})
}

func (a *AuthService) credential(ctx context.Context, s *database.Session, c *auth.Claims) (*domain.Auth, error) {
	cred, err := a.auths.GetByID(ctx, s, c.Subject)
	if err != nil {
		return nil, err
	}
	if cred == nil || cred.OwnerID != c.UID {
		return nil, ErrNotFound
	}
	return cred, nil
}

// Me 凭证或主体已被删除时返回 ErrNotFound
func (a *AuthService) Me(ctx context.Context, s *database.Session, c *auth.Claims) (*Profile, error) {
	cred, err := a.credential(ctx, s, c)
	if err != nil {
		return nil, err
	}
	p := &Profile{Auth: cred}
	switch cred.OwnerType {
	case domain.OwnerManager:
		p.Manager, err = a.managers.GetWithRole(ctx, s, cred.OwnerID)
		if p.Manager == nil && err == nil {
			return nil, ErrNotFound
		}
	case domain.OwnerClient:
		p.Client, err = a.clients.GetByID(ctx, s, cred.OwnerID)
		if p.Client == nil && err == nil {
			return nil, ErrNotFound
		}
	case domain.OwnerUser:
		p.User, err = a.users.GetWithRole(ctx, s, cred.OwnerID)
		if p.User == nil && err == nil {
			return nil, ErrNotFound
		}
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (a *AuthService) ChangePassword(ctx context.Context, s *database.Session, c *auth.Claims, in ChangePasswordInput) error {
	cred, err := a.credential(ctx, s, c)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(in.OldPassword, cred.PasswordHash) {
		return ErrInvalidCredentials
	}
	hash, err := utils.HashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	if err := found(a.auths.SetPassword(ctx, s, cred.ID, hash)); err != nil {
		return err
	}
	a.log.Info("password changed", zap.String("auth_id", cred.ID))
	return nil
}
