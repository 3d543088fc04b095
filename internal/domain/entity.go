package domain

import "time"

// Entity 所有领域对象共有的标识与生命周期字段。
// DeletedAt == nil 表示记录处于存活状态。
type Entity struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

func (e Entity) Live() bool { return e.DeletedAt == nil }

type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended:
		return true
	}
	return false
}

type Role struct {
	Entity
	Name        string `json:"name"`
	Description string `json:"description"`
}

type User struct {
	Entity
	Username string `json:"username"`
	Email    string `json:"email"`
	Status   Status `json:"status"`
	RoleID   string `json:"roleId"`
	Role     *Role  `json:"role,omitempty"`
}

type Manager struct {
	Entity
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Status    Status `json:"status"`
	RoleID    string `json:"roleId"`
	Role      *Role  `json:"role,omitempty"`
}

func (m Manager) FullName() string { return joinName(m.FirstName, m.LastName) }

type Client struct {
	Entity
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Company   string `json:"company"`
	Status    Status `json:"status"`
}

func (c Client) FullName() string { return joinName(c.FirstName, c.LastName) }

type OwnerType string

const (
	OwnerManager OwnerType = "manager"
	OwnerClient  OwnerType = "client"
	OwnerUser    OwnerType = "user"
)

// Auth 登录凭证，归属于 manager / client / user 之一
type Auth struct {
	Entity
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	OwnerID      string     `json:"ownerId"`
	OwnerType    OwnerType  `json:"ownerType"`
	RoleName     string     `json:"roleName"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	}
	return first + " " + last
}
