package repo

import (
	"time"

	"gorm.io/gorm"

	"usercenter/internal/domain"
	"usercenter/pkg/utils"
)

// Row 领域对象与数据库行之间的双向映射。
//
// FromEntity 无条件覆盖所有声明字段（create 使用）；
// FromEntityPartial 只拷贝源对象上已设置（非零）的字段，且从不拷贝生命周期列（update 使用）。
// 关系字段只在 ToEntity 中递归映射，写入时忽略。
type Row[E any] interface {
	ToEntity() *E
	FromEntity(e *E)
	FromEntityPartial(e *E)
	RowID() string
}

// RowPtr 约束 *R 实现 Row[E]，仓储据此按值类型 R 实例化行
type RowPtr[E any, R any] interface {
	*R
	Row[E]
}

// BaseRow 生命周期列，所有行都嵌入它
type BaseRow struct {
	ID        string         `gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (b *BaseRow) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = utils.NewID()
	}
	return nil
}

func (b *BaseRow) RowID() string { return b.ID }

func (b *BaseRow) entity() domain.Entity {
	e := domain.Entity{ID: b.ID, CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt}
	if b.DeletedAt.Valid {
		t := b.DeletedAt.Time
		e.DeletedAt = &t
	}
	return e
}

func (b *BaseRow) fromEntity(e domain.Entity) {
	b.ID = e.ID
	b.CreatedAt = e.CreatedAt
	b.UpdatedAt = e.UpdatedAt
	b.DeletedAt = gorm.DeletedAt{}
	if e.DeletedAt != nil {
		b.DeletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func timePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
