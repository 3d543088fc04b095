package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"usercenter/internal/core/database"
	"usercenter/internal/domain"
)

// ErrNoIdentifier insert 成功但没有拿到主键，属于程序/数据错误
var ErrNoIdentifier = errors.New("repo: insert produced no identifier")

type Scope = func(*gorm.DB) *gorm.DB

// Criteria 由具体仓储组装的查询条件；通用层不附加任何排序
type Criteria struct {
	Scopes      []Scope
	Order       string
	Preload     []string
	WithDeleted bool
}

// Repository 通用仓储。E 领域对象，R 行类型，P 为 *R。
// 所有方法都显式接收 *database.Session；nil 表示默认连接。
// 实例无状态，可并发共享。
type Repository[E any, R any, P RowPtr[E, R]] struct {
	db    *gorm.DB
	table Table
}

func New[E any, R any, P RowPtr[E, R]](db *gorm.DB, t Table) *Repository[E, R, P] {
	return &Repository[E, R, P]{db: db, table: t}
}

func (r *Repository[E, R, P]) Table() Table { return r.table }

func (r *Repository[E, R, P]) conn(ctx context.Context, s *database.Session) *gorm.DB {
	return s.Conn(r.db).WithContext(ctx)
}

func (r *Repository[E, R, P]) query(ctx context.Context, s *database.Session, c Criteria) *gorm.DB {
	q := r.conn(ctx, s).Model(new(R))
	if c.WithDeleted {
		q = q.Unscoped()
	}
	if len(c.Scopes) > 0 {
		q = q.Scopes(c.Scopes...)
	}
	return q
}

func (r *Repository[E, R, P]) toEntities(rows []R) []*E {
	out := make([]*E, 0, len(rows))
	for i := range rows {
		out = append(out, P(&rows[i]).ToEntity())
	}
	return out
}

// FindAndCount total 为忽略 skip/limit 后的匹配总数
func (r *Repository[E, R, P]) FindAndCount(ctx context.Context, s *database.Session, page domain.Page, c Criteria) ([]*E, int64, error) {
	if err := page.Validate(); err != nil {
		return nil, 0, err
	}
	var total int64
	if err := r.query(ctx, s, c).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.query(ctx, s, c)
	for _, rel := range c.Preload {
		q = q.Preload(rel)
	}
	if c.Order != "" {
		q = q.Order(c.Order)
	}
	var rows []R
	if err := q.Offset(page.Skip).Limit(page.Limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return r.toEntities(rows), total, nil
}

func (r *Repository[E, R, P]) Count(ctx context.Context, s *database.Session, c Criteria) (int64, error) {
	var total int64
	err := r.query(ctx, s, c).Count(&total).Error
	return total, err
}

func (r *Repository[E, R, P]) get(ctx context.Context, s *database.Session, unscoped bool, id string, scopes []Scope) (*E, error) {
	q := r.conn(ctx, s)
	if unscoped {
		q = q.Unscoped()
	}
	if len(scopes) > 0 {
		q = q.Scopes(scopes...)
	}
	var row R
	err := q.Where(r.table.ID+" = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return P(&row).ToEntity(), nil
}

// GetByID 只查存活行；不存在返回 nil, nil
func (r *Repository[E, R, P]) GetByID(ctx context.Context, s *database.Session, id string, scopes ...Scope) (*E, error) {
	return r.get(ctx, s, false, id, scopes)
}

// GetByIDWithDeleted 软删行也可见（恢复前查看用）
func (r *Repository[E, R, P]) GetByIDWithDeleted(ctx context.Context, s *database.Session, id string, scopes ...Scope) (*E, error) {
	return r.get(ctx, s, true, id, scopes)
}

// FindOne 按条件取一条存活行，不存在返回 nil, nil
func (r *Repository[E, R, P]) FindOne(ctx context.Context, s *database.Session, scopes ...Scope) (*E, error) {
	var row R
	err := r.conn(ctx, s).Scopes(scopes...).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return P(&row).ToEntity(), nil
}

// Create 全量拷贝后插入一行，返回新主键
func (r *Repository[E, R, P]) Create(ctx context.Context, s *database.Session, e *E) (string, error) {
	row := P(new(R))
	row.FromEntity(e)
	if err := r.conn(ctx, s).Omit(clause.Associations).Create(row).Error; err != nil {
		return "", err
	}
	id := row.RowID()
	if id == "" {
		return "", ErrNoIdentifier
	}
	return id, nil
}

// CreateGet 插入后回读，拿到数据库生成的默认值。
// 需要与写入原子时调用方应传入 session。
func (r *Repository[E, R, P]) CreateGet(ctx context.Context, s *database.Session, e *E) (*E, error) {
	id, err := r.Create(ctx, s, e)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, s, id)
}

// CreateMultiple 批量插入，主键顺序与入参一致；要么全部成功要么整体失败。
// 未传 session 时自行开事务，传了则沿用调用方的事务。
func (r *Repository[E, R, P]) CreateMultiple(ctx context.Context, s *database.Session, es []*E) ([]string, error) {
	if len(es) == 0 {
		return []string{}, nil
	}
	rows := make([]R, len(es))
	for i, e := range es {
		P(&rows[i]).FromEntity(e)
	}
	insert := func(db *gorm.DB) error {
		return db.Omit(clause.Associations).Create(&rows).Error
	}
	var err error
	if s == nil {
		err = r.db.WithContext(ctx).Transaction(insert)
	} else {
		err = insert(r.conn(ctx, s))
	}
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(rows))
	for i := range rows {
		if ids[i] = P(&rows[i]).RowID(); ids[i] == "" {
			return nil, ErrNoIdentifier
		}
	}
	return ids, nil
}

// Update 稀疏更新：只写入 e 上已设置的字段。恰好影响一行返回 true。
func (r *Repository[E, R, P]) Update(ctx context.Context, s *database.Session, id string, e *E) (bool, error) {
	row := P(new(R))
	row.FromEntityPartial(e)
	res := r.conn(ctx, s).Model(new(R)).
		Where(r.table.ID+" = ?", id).
		Omit(clause.Associations).
		Updates(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// UpdateGet 更新后回读；未命中返回 nil
func (r *Repository[E, R, P]) UpdateGet(ctx context.Context, s *database.Session, id string, e *E) (*E, error) {
	ok, err := r.Update(ctx, s, id, e)
	if err != nil || !ok {
		return nil, err
	}
	return r.GetByID(ctx, s, id)
}

// UpdateFields 只更新白名单中的列（零值也会写入），生命周期列被忽略
func (r *Repository[E, R, P]) UpdateFields(ctx context.Context, s *database.Session, id string, e *E, fields []string) (bool, error) {
	cols := make([]string, 0, len(fields))
	for _, f := range fields {
		if !r.table.lifecycle(f) {
			cols = append(cols, f)
		}
	}
	if len(cols) == 0 {
		return false, nil
	}
	row := P(new(R))
	row.FromEntity(e)
	res := r.conn(ctx, s).Model(new(R)).
		Where(r.table.ID+" = ?", id).
		Select(cols).
		Omit(clause.Associations).
		Updates(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Delete 物理删除。受影响行数必须等于去重后的 id 数才算成功，
// 因此 Delete(a, a) 与 Delete(a) 等价；
// 部分命中时已存在的行仍会被删除，但返回 false。
func (r *Repository[E, R, P]) Delete(ctx context.Context, s *database.Session, ids ...string) (bool, error) {
	ids = distinct(ids)
	if len(ids) == 0 {
		return false, nil
	}
	res := r.conn(ctx, s).Unscoped().Where(r.table.ID+" IN ?", ids).Delete(new(R))
	return affectedAll(res, ids)
}

// SoftDelete 设置 deleted_at，计数规则同 Delete；已软删的行不计入影响行数
func (r *Repository[E, R, P]) SoftDelete(ctx context.Context, s *database.Session, ids ...string) (bool, error) {
	ids = distinct(ids)
	if len(ids) == 0 {
		return false, nil
	}
	res := r.conn(ctx, s).Where(r.table.ID+" IN ?", ids).Delete(new(R))
	return affectedAll(res, ids)
}

// Restore 清空 deleted_at，计数规则同 Delete；存活行不计入影响行数
func (r *Repository[E, R, P]) Restore(ctx context.Context, s *database.Session, ids ...string) (bool, error) {
	ids = distinct(ids)
	if len(ids) == 0 {
		return false, nil
	}
	res := r.conn(ctx, s).Unscoped().Model(new(R)).
		Where(r.table.ID+" IN ? AND "+r.table.DeletedAt+" IS NOT NULL", ids).
		Update(r.table.DeletedAt, nil)
	return affectedAll(res, ids)
}

func affectedAll(res *gorm.DB, ids []string) (bool, error) {
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == int64(len(ids)), nil
}

func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
