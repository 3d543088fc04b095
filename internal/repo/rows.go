package repo

import (
	"time"

	"usercenter/internal/domain"
)

// ---------- roles ----------

type roleRow struct {
	BaseRow
	Name        string `gorm:"size:64;not null"`
	Description string `gorm:"size:255"`
}

func (roleRow) TableName() string { return RoleTable.Table.Name }

func (r *roleRow) ToEntity() *domain.Role {
	return &domain.Role{Entity: r.entity(), Name: r.Name, Description: r.Description}
}

func (r *roleRow) FromEntity(e *domain.Role) {
	r.fromEntity(e.Entity)
	r.Name = e.Name
	r.Description = e.Description
}

func (r *roleRow) FromEntityPartial(e *domain.Role) {
	if e.Name != "" {
		r.Name = e.Name
	}
	if e.Description != "" {
		r.Description = e.Description
	}
}

// ---------- users ----------

type userRow struct {
	BaseRow
	Username string   `gorm:"size:64;not null"`
	Email    string   `gorm:"size:191;not null"`
	Status   string   `gorm:"size:16;not null;default:active"`
	RoleID   *string  `gorm:"type:varchar(36);index"`
	Role     *roleRow `gorm:"foreignKey:RoleID"`
}

func (userRow) TableName() string { return UserTable.Name }

func (r *userRow) ToEntity() *domain.User {
	u := &domain.User{
		Entity:   r.entity(),
		Username: r.Username,
		Email:    r.Email,
		Status:   domain.Status(r.Status),
		RoleID:   deref(r.RoleID),
	}
	if r.Role != nil {
		u.Role = r.Role.ToEntity()
	}
	return u
}

func (r *userRow) FromEntity(e *domain.User) {
	r.fromEntity(e.Entity)
	r.Username = e.Username
	r.Email = e.Email
	r.Status = string(e.Status)
	r.RoleID = optional(e.RoleID)
}

func (r *userRow) FromEntityPartial(e *domain.User) {
	if e.Username != "" {
		r.Username = e.Username
	}
	if e.Email != "" {
		r.Email = e.Email
	}
	if e.Status != "" {
		r.Status = string(e.Status)
	}
	if e.RoleID != "" {
		r.RoleID = optional(e.RoleID)
	}
}

// ---------- managers ----------

type managerRow struct {
	BaseRow
	FirstName string   `gorm:"size:64;not null"`
	LastName  string   `gorm:"size:64;not null"`
	Email     string   `gorm:"size:191;not null"`
	Phone     string   `gorm:"size:32"`
	Status    string   `gorm:"size:16;not null;default:active"`
	RoleID    *string  `gorm:"type:varchar(36);index"`
	Role      *roleRow `gorm:"foreignKey:RoleID"`
}

func (managerRow) TableName() string { return ManagerTable.Name }

func (r *managerRow) ToEntity() *domain.Manager {
	m := &domain.Manager{
		Entity:    r.entity(),
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Status:    domain.Status(r.Status),
		RoleID:    deref(r.RoleID),
	}
	if r.Role != nil {
		m.Role = r.Role.ToEntity()
	}
	return m
}

func (r *managerRow) FromEntity(e *domain.Manager) {
	r.fromEntity(e.Entity)
	r.FirstName = e.FirstName
	r.LastName = e.LastName
	r.Email = e.Email
	r.Phone = e.Phone
	r.Status = string(e.Status)
	r.RoleID = optional(e.RoleID)
}

func (r *managerRow) FromEntityPartial(e *domain.Manager) {
	if e.FirstName != "" {
		r.FirstName = e.FirstName
	}
	if e.LastName != "" {
		r.LastName = e.LastName
	}
	if e.Email != "" {
		r.Email = e.Email
	}
	if e.Phone != "" {
		r.Phone = e.Phone
	}
	if e.Status != "" {
		r.Status = string(e.Status)
	}
	if e.RoleID != "" {
		r.RoleID = optional(e.RoleID)
	}
}

// ---------- clients ----------

type clientRow struct {
	BaseRow
	FirstName string `gorm:"size:64;not null"`
	LastName  string `gorm:"size:64;not null"`
	Email     string `gorm:"size:191;not null"`
	Phone     string `gorm:"size:32"`
	Company   string `gorm:"size:128"`
	Status    string `gorm:"size:16;not null;default:active"`
}

func (clientRow) TableName() string { return ClientTable.Name }

func (r *clientRow) ToEntity() *domain.Client {
	return &domain.Client{
		Entity:    r.entity(),
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Company:   r.Company,
		Status:    domain.Status(r.Status),
	}
}

func (r *clientRow) FromEntity(e *domain.Client) {
	r.fromEntity(e.Entity)
	r.FirstName = e.FirstName
	r.LastName = e.LastName
	r.Email = e.Email
	r.Phone = e.Phone
	r.Company = e.Company
	r.Status = string(e.Status)
}

func (r *clientRow) FromEntityPartial(e *domain.Client) {
	if e.FirstName != "" {
		r.FirstName = e.FirstName
	}
	if e.LastName != "" {
		r.LastName = e.LastName
	}
	if e.Email != "" {
		r.Email = e.Email
	}
	if e.Phone != "" {
		r.Phone = e.Phone
	}
	if e.Company != "" {
		r.Company = e.Company
	}
	if e.Status != "" {
		r.Status = string(e.Status)
	}
}

// ---------- auths ----------

type authRow struct {
	BaseRow
	Username     string `gorm:"size:64;not null"`
	PasswordHash string `gorm:"size:100;not null"`
	OwnerID      string `gorm:"type:varchar(36);not null;index"`
	OwnerType    string `gorm:"size:16;not null;index"`
	RoleName     string `gorm:"size:64"`
	LastLoginAt  *time.Time
}

func (authRow) TableName() string { return AuthTable.Name }

func (r *authRow) ToEntity() *domain.Auth {
	return &domain.Auth{
		Entity:       r.entity(),
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		OwnerID:      r.OwnerID,
		OwnerType:    domain.OwnerType(r.OwnerType),
		RoleName:     r.RoleName,
		LastLoginAt:  timePtr(r.LastLoginAt),
	}
}

func (r *authRow) FromEntity(e *domain.Auth) {
	r.fromEntity(e.Entity)
	r.Username = e.Username
	r.PasswordHash = e.PasswordHash
	r.OwnerID = e.OwnerID
	r.OwnerType = string(e.OwnerType)
	r.RoleName = e.RoleName
	r.LastLoginAt = timePtr(e.LastLoginAt)
}

func (r *authRow) FromEntityPartial(e *domain.Auth) {
	if e.Username != "" {
		r.Username = e.Username
	}
	if e.PasswordHash != "" {
		r.PasswordHash = e.PasswordHash
	}
	if e.OwnerID != "" {
		r.OwnerID = e.OwnerID
	}
	if e.OwnerType != "" {
		r.OwnerType = string(e.OwnerType)
	}
	if e.RoleName != "" {
		r.RoleName = e.RoleName
	}
	if e.LastLoginAt != nil {
		r.LastLoginAt = timePtr(e.LastLoginAt)
	}
}
