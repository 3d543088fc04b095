package repo

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"usercenter/internal/core/database"
	"usercenter/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "repo_test.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func mustCreateManager(t *testing.T, r *ManagerRepo, first, last, email string) string {
	t.Helper()
	id, err := r.Create(context.Background(), database.NoSession, &domain.Manager{
		FirstName: first,
		LastName:  last,
		Email:     email,
		Phone:     "+1-555-0100",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)
	return id
}

func page(skip, limit int) domain.Page { return domain.Page{Skip: skip, Limit: limit} }
