// Package app 组装依赖，供 cmd/api、cmd/admin、cmd/ctl 共用
package app

import (
	"context"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"usercenter/internal/core/auth"
	"usercenter/internal/core/cache"
	"usercenter/internal/core/config"
	"usercenter/internal/core/database"
	"usercenter/internal/domain"
	"usercenter/internal/repo"
	"usercenter/internal/service"
	"usercenter/internal/transport/http/handler"
	"usercenter/internal/transport/http/router"
)

type App struct {
	Cfg   *config.Config
	Log   *zap.Logger
	DB    *gorm.DB
	TM    *database.TxManager
	Cache cache.Store
	JWT   *auth.JWTer

	Managers *service.ManagerService
	Clients  *service.ClientService
	Users    *service.UserService
	Roles    *service.RoleService
	Auth     *service.AuthService
}

func OpenDB(cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	return database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             l,
	})
}

// New 打开数据库并装配仓储与服务；migrate 为 true 时先建表
func New(cfg *config.Config, l *zap.Logger, migrate bool) (*App, error) {
	db, err := OpenDB(cfg, l)
	if err != nil {
		return nil, err
	}
	l.Info("database connected",
		zap.String("driver", cfg.DB.Driver),
		zap.String("dsn", database.MaskDSN(cfg.DB.DSN)))
	if migrate {
		if err := repo.Migrate(db); err != nil {
			return nil, err
		}
		l.Info("automigrate done")
	}

	store, err := cache.FromConfig(*cfg)
	if err != nil {
		return nil, err
	}
	return Wire(cfg, l, db, store), nil
}

// Wire 纯装配，不做 IO
func Wire(cfg *config.Config, l *zap.Logger, db *gorm.DB, store cache.Store) *App {
	maxLimit := cfg.Pagination.MaxLimit
	tm := database.NewTxManager(db)
	j := auth.FromConfig(cfg.JWT)

	auths := repo.NewAuthRepo(db, maxLimit)
	managers := repo.NewManagerRepo(db, maxLimit)
	clients := repo.NewClientRepo(db, maxLimit)
	users := repo.NewUserRepo(db, maxLimit)
	roles := repo.NewRoleRepo(db, store, time.Duration(cfg.Cache.TTLSec)*time.Second, maxLimit).WithLogger(l)

	return &App{
		Cfg: cfg, Log: l, DB: db, TM: tm, Cache: store, JWT: j,
		Managers: service.NewManagerService(tm, managers, auths, roles, l),
		Clients:  service.NewClientService(tm, clients, auths, l),
		Users:    service.NewUserService(tm, users, auths, roles, l),
		Roles:    service.NewRoleService(roles, l),
		Auth:     service.NewAuthService(tm, auths, users, managers, clients, j, l),
	}
}

func (a *App) deps() router.Deps {
	mode := gin.DebugMode
	switch a.Cfg.App.Env {
	case "prod":
		mode = gin.ReleaseMode
	case "test":
		mode = gin.TestMode
	}
	return router.Deps{Log: a.Log, TM: a.TM, JWT: a.JWT, Mode: mode}
}

func (a *App) APIEngine() *gin.Engine {
	return router.NewAPIEngine(a.deps(), handler.Auth{Service: a.Auth})
}

func (a *App) AdminEngine() *gin.Engine {
	return router.NewAdminEngine(a.deps(),
		handler.Admin{
			Managers:     a.Managers,
			Clients:      a.Clients,
			Users:        a.Users,
			Roles:        a.Roles,
			DefaultLimit: a.Cfg.Pagination.DefaultLimit,
		},
		handler.Auth{Service: a.Auth})
}

// Close 关闭数据库与缓存连接
func (a *App) Close() {
	if c, ok := a.Cache.(io.Closer); ok {
		_ = c.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

type SeedAdminInput struct {
	FirstName string
	LastName  string
	Email     string
	Username  string
	Password  string
}

// SeedAdmin 在一个事务中确保 admin 角色存在，并创建带凭证的管理员
func (a *App) SeedAdmin(ctx context.Context, in SeedAdminInput) (*domain.Manager, error) {
	var out *domain.Manager
	err := a.TM.Transaction(ctx, func(s *database.Session) error {
		role, err := a.Roles.Ensure(ctx, s, service.AdminRoleName, "full access to the admin api")
		if err != nil {
			return err
		}
		out, err = a.Managers.Create(ctx, s, service.CreateManagerInput{
			FirstName:   in.FirstName,
			LastName:    in.LastName,
			Email:       in.Email,
			RoleID:      role.ID,
			Credentials: service.Credentials{Username: in.Username, Password: in.Password},
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
