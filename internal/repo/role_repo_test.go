package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"usercenter/internal/core/cache"
	"usercenter/internal/core/database"
	"usercenter/internal/domain"
)

// countingStore 记录回源次数
type countingStore struct {
	*cache.Memory
	loads   int
	cleared []string
}

func (c *countingStore) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	return c.Memory.GetOrLoad(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		c.loads++
		return load(ctx)
	})
}

func (c *countingStore) ClearCaching(ctx context.Context, key string) error {
	c.cleared = append(c.cleared, key)
	return c.Memory.ClearCaching(ctx, key)
}

func newRoleRepo(t *testing.T) (*RoleRepo, *countingStore) {
	t.Helper()
	store := &countingStore{Memory: cache.NewMemory(time.Minute)}
	return NewRoleRepo(newTestDB(t), store, time.Minute, 100), store
}

func TestRoleListAllIsCached(t *testing.T) {
	ctx := context.Background()
	r, store := newRoleRepo(t)
	_, err := r.Create(ctx, none, &domain.Role{Name: "support"})
	require.NoError(t, err)
	_, err = r.Create(ctx, none, &domain.Role{Name: "admin"})
	require.NoError(t, err)

	all, err := r.ListAll(ctx, none)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "admin", all[0].Name, "ordered by name")

	_, err = r.ListAll(ctx, none)
	require.NoError(t, err)
	assert.Equal(t, 1, store.loads)
}

func TestRoleMutationsInvalidate(t *testing.T) {
	ctx := context.Background()
	r, store := newRoleRepo(t)
	id, err := r.Create(ctx, none, &domain.Role{Name: "support"})
	require.NoError(t, err)

	_, err = r.ListAll(ctx, none)
	require.NoError(t, err)

	ok, err := r.Update(ctx, none, id, &domain.Role{Description: "helpdesk"})
	require.NoError(t, err)
	require.True(t, ok)

	all, err := r.ListAll(ctx, none)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "helpdesk", all[0].Description, "stale list not served after update")
	assert.Equal(t, 2, store.loads)

	ok, err = r.SoftDelete(ctx, none, id)
	require.NoError(t, err)
	require.True(t, ok)
	all, err = r.ListAll(ctx, none)
	require.NoError(t, err)
	assert.Empty(t, all)

	ok, err = r.Restore(ctx, none, id)
	require.NoError(t, err)
	require.True(t, ok)
	all, err = r.ListAll(ctx, none)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	for _, k := range store.cleared {
		assert.Equal(t, RolesCacheKey, k)
	}
}

func TestRoleListAllInSessionBypassesCache(t *testing.T) {
	ctx := context.Background()
	r, store := newRoleRepo(t)
	tm := database.NewTxManager(r.db)

	err := tm.Transaction(ctx, func(s *database.Session) error {
		if _, err := r.Create(ctx, s, &domain.Role{Name: "pending"}); err != nil {
			return err
		}
		all, err := r.ListAll(ctx, s)
		require.NoError(t, err)
		assert.Len(t, all, 1)
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)
	assert.Zero(t, store.loads)

	all, err := r.ListAll(ctx, none)
	require.NoError(t, err)
	assert.Empty(t, all, "uncommitted role never reached the shared cache")
}

func TestRoleCacheClearedAfterCommit(t *testing.T) {
	ctx := context.Background()
	r, store := newRoleRepo(t)
	tm := database.NewTxManager(r.db)
	_, err := r.Create(ctx, none, &domain.Role{Name: "support"})
	require.NoError(t, err)

	s, err := tm.Begin(ctx)
	require.NoError(t, err)
	defer s.Release()
	_, err = r.Create(ctx, s, &domain.Role{Name: "auditor"})
	require.NoError(t, err)
	cleared := len(store.cleared)

	// 提交前的并发读把旧列表放进缓存
	all, err := r.ListAll(ctx, none)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, cleared, len(store.cleared), "not cleared while the session is open")

	require.NoError(t, s.Commit())
	assert.Equal(t, cleared+1, len(store.cleared))

	all, err = r.ListAll(ctx, none)
	require.NoError(t, err)
	assert.Len(t, all, 2, "committed role visible after commit")
}

type brokenStore struct{ *cache.Memory }

func (brokenStore) ClearCaching(context.Context, string) error { return errors.New("redis down") }

func TestRoleCacheClearFailureIsLogged(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.WarnLevel)
	r := NewRoleRepo(newTestDB(t), brokenStore{cache.NewMemory(time.Minute)}, time.Minute, 100).WithLogger(zap.New(core))

	_, err := r.Create(ctx, none, &domain.Role{Name: "support"})
	require.NoError(t, err, "committed write is not reported as failed")
	require.Equal(t, 1, logs.FilterMessage("clear roles cache failed").Len())
	assert.EqualError(t, r.ClearCaching(ctx), "redis down")
}

func TestRoleFindByNameAndKeyword(t *testing.T) {
	ctx := context.Background()
	r := NewRoleRepo(newTestDB(t), nil, 0, 100)
	_, err := r.CreateMultiple(ctx, none, []*domain.Role{
		{Name: "admin", Description: "full access"},
		{Name: "auditor", Description: "read only"},
	})
	require.NoError(t, err)

	got, err := r.FindByName(ctx, none, " auditor ")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "read only", got.Description)

	items, total, err := r.FindAndCount(ctx, none, domain.RoleFilter{Page: page(0, 10), Keyword: "ACCESS"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "admin", items[0].Name)

	all, err := r.ListAll(ctx, none)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
