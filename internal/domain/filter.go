package domain

import "errors"

var ErrInvalidPage = errors.New("invalid page: skip must be >= 0 and limit > 0")

// Page 列表查询的分页参数
type Page struct {
	Skip  int `form:"skip"  json:"skip"`
	Limit int `form:"limit" json:"limit"`
}

func (p Page) Validate() error {
	if p.Skip < 0 || p.Limit <= 0 {
		return ErrInvalidPage
	}
	return nil
}

// Clamp 把 limit 限制在 max 以内
func (p Page) Clamp(max int) Page {
	if max > 0 && p.Limit > max {
		p.Limit = max
	}
	return p
}

type RoleFilter struct {
	Page
	Keyword string `form:"q"`
}

type UserFilter struct {
	Page
	Keyword     string   `form:"q"`
	Status      Status   `form:"status"`
	RoleIDs     []string `form:"roleId"`
	WithDeleted bool     `form:"with_deleted"`
}

type ManagerFilter struct {
	Page
	Keyword     string   `form:"q"`
	Status      Status   `form:"status"`
	RoleIDs     []string `form:"roleId"`
	WithDeleted bool     `form:"with_deleted"`
}

type ClientFilter struct {
	Page
	Keyword     string `form:"q"`
	Status      Status `form:"status"`
	Company     string `form:"company"`
	WithDeleted bool   `form:"with_deleted"`
}

type AuthFilter struct {
	Page
	Keyword   string    `form:"q"`
	OwnerType OwnerType `form:"ownerType"`
}

// WithDefaultLimit 未指定 limit 时使用默认值
func (p *Page) WithDefaultLimit(n int) {
	if p.Limit == 0 {
		p.Limit = n
	}
}
