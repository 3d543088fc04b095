package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type note struct {
	ID   uint `gorm:"primaryKey"`
	Body string
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewGorm(Opts{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "db_test.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&note{}))
	return db
}

func countNotes(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&note{}).Count(&n).Error)
	return n
}

func TestNewGormUnsupportedDriver(t *testing.T) {
	_, err := NewGorm(Opts{Driver: "oracle"})
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestNewGormTranslatesErrors(t *testing.T) {
	db := openTestDB(t)
	assert.True(t, db.Config.TranslateError)
}

func TestAfterCommitRunsOnlyOnCommit(t *testing.T) {
	ctx := context.Background()
	m := NewTxManager(openTestDB(t))

	var ran []string
	err := m.Transaction(ctx, func(s *Session) error {
		s.AfterCommit(func() { ran = append(ran, "first") })
		s.AfterCommit(func() { ran = append(ran, "second") })
		assert.Empty(t, ran, "not before commit")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, ran)

	ran = nil
	err = m.Transaction(ctx, func(s *Session) error {
		s.AfterCommit(func() { ran = append(ran, "rolled back") })
		return errors.New("boom")
	})
	require.Error(t, err)
	assert.Empty(t, ran)

	s, err := m.Begin(ctx)
	require.NoError(t, err)
	s.AfterCommit(func() { ran = append(ran, "once") })
	require.NoError(t, s.Commit())
	s.Release()
	assert.Equal(t, []string{"once"}, ran)
}

func TestNoSessionUsesDefault(t *testing.T) {
	db := openTestDB(t)
	assert.Same(t, db, NoSession.Conn(db))
	NoSession.Release()
}

func TestTransactionCommit(t *testing.T) {
	db := openTestDB(t)
	m := NewTxManager(db)

	err := m.Transaction(context.Background(), func(s *Session) error {
		return s.Conn(db).Create(&note{Body: "a"}).Error
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, countNotes(t, db))
}

func TestTransactionRollbackOnError(t *testing.T) {
	db := openTestDB(t)
	m := NewTxManager(db)
	boom := errors.New("boom")

	err := m.Transaction(context.Background(), func(s *Session) error {
		require.NoError(t, s.Conn(db).Create(&note{Body: "a"}).Error)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.EqualValues(t, 0, countNotes(t, db))
}

func TestSessionReleaseAfterCommitIsNoop(t *testing.T) {
	db := openTestDB(t)
	m := NewTxManager(db)

	s, err := m.Begin(context.Background())
	require.NoError(t, err)
	defer s.Release()

	require.NoError(t, s.Conn(db).Create(&note{Body: "kept"}).Error)
	require.NoError(t, s.Commit())
	assert.ErrorIs(t, s.Rollback(), ErrSessionDone)
	assert.EqualValues(t, 1, countNotes(t, db))
}

func TestNormalizeMySQLDSN(t *testing.T) {
	got := normalizeMySQLDSN("jdbc:mysql://root:pw@127.0.0.1:3306/uc?useSSL=false&serverTimezone=UTC", "", "secret")
	assert.Contains(t, got, "root:secret@tcp(127.0.0.1:3306)/uc?")
	assert.Contains(t, got, "clientFoundRows=true")
	assert.Contains(t, got, "parseTime=true")
	assert.Contains(t, got, "tls=false")
	assert.Contains(t, got, "loc=UTC")

	raw := normalizeMySQLDSN("root:pw@tcp(db:3306)/uc?parseTime=true", "", "")
	assert.Equal(t, "root:pw@tcp(db:3306)/uc?parseTime=true&clientFoundRows=true", raw)
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "root:****@tcp(db:3306)/uc", MaskDSN("root:pw@tcp(db:3306)/uc"))
	assert.Equal(t, "host=localhost", MaskDSN("host=localhost"))
}
