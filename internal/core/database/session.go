package database

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"
)

// Session 绑定一个已开启的事务连接。
// 仓储方法显式接收 *Session；nil（NoSession）表示使用默认连接。
// Session 由创建者负责提交/回滚，仓储从不关闭它。
type Session struct {
	tx *gorm.DB

	mu          sync.Mutex
	done        bool
	afterCommit []func()
}

// NoSession 显式的"无会话"哨兵
var NoSession *Session

var ErrSessionDone = errors.New("database: session already committed or rolled back")

// Conn 返回本次语句应使用的连接
func (s *Session) Conn(def *gorm.DB) *gorm.DB {
	if s == nil {
		return def
	}
	return s.tx
}

func (s *Session) finish(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return ErrSessionDone
	}
	s.done = true
	return fn()
}

// AfterCommit 登记提交成功后执行的回调（按登记顺序）；回滚时丢弃
func (s *Session) AfterCommit(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.afterCommit = append(s.afterCommit, fn)
}

func (s *Session) Commit() error {
	var hooks []func()
	err := s.finish(func() error {
		if err := s.tx.Commit().Error; err != nil {
			return err
		}
		hooks, s.afterCommit = s.afterCommit, nil
		return nil
	})
	for _, fn := range hooks {
		fn()
	}
	return err
}

func (s *Session) Rollback() error {
	return s.finish(func() error {
		s.afterCommit = nil
		return s.tx.Rollback().Error
	})
}

// Release 未提交则回滚，可直接 defer
func (s *Session) Release() {
	if s == nil {
		return
	}
	_ = s.Rollback()
}

// TxManager 连接/会话提供者
type TxManager struct{ db *gorm.DB }

func NewTxManager(db *gorm.DB) *TxManager { return &TxManager{db: db} }

// DB 默认连接
func (m *TxManager) DB() *gorm.DB { return m.db }

func (m *TxManager) Begin(ctx context.Context) (*Session, error) {
	tx := m.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &Session{tx: tx}, nil
}

// Transaction fn 返回 nil 则提交，否则回滚并返回 fn 的错误
func (m *TxManager) Transaction(ctx context.Context, fn func(s *Session) error) (err error) {
	s, err := m.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			s.Release()
			panic(p)
		}
	}()
	if err = fn(s); err != nil {
		s.Release()
		return err
	}
	return s.Commit()
}
