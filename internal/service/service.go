package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"usercenter/internal/core/database"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrEmailTaken         = errors.New("email already taken")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrNameTaken          = errors.New("name already taken")
	ErrInvalidName        = errors.New("name is required")
	ErrRoleNotFound       = errors.New("role not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidStatus      = errors.New("invalid status")
)

// within 调用方已持有 session 时沿用，否则自行开启事务
func within(ctx context.Context, tm *database.TxManager, s *database.Session, fn func(*database.Session) error) error {
	if s != nil {
		return fn(s)
	}
	return tm.Transaction(ctx, fn)
}

func isDupKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// 驱动未翻译时（如 modernc sqlite）按错误文本兜底
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}

func normEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// found 把"未命中"统一成 ErrNotFound
func found(ok bool, err error) error {
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
