package handler

import (
	"errors"

	"usercenter/internal/domain"
	"usercenter/internal/service"
	"usercenter/internal/transport/http/ez"
)

// MapError 业务错误 → 响应码；其余错误按 500 处理
func MapError(err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return ez.NotFound(err.Error())
	case errors.Is(err, service.ErrRoleNotFound),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidPage):
		return ez.BadRequest(err.Error())
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrNameTaken):
		return ez.Conflict(err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return ez.Unauthorized(err.Error())
	}
	return err
}
