package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usercenter/internal/domain"
)

func TestAuthRepo(t *testing.T) {
	ctx := context.Background()
	r := NewAuthRepo(newTestDB(t), 100)

	id, err := r.Create(ctx, none, &domain.Auth{
		Username:     "ada",
		PasswordHash: "hash-1",
		OwnerID:      "m1",
		OwnerType:    domain.OwnerManager,
		RoleName:     "admin",
	})
	require.NoError(t, err)

	got, err := r.FindByUsername(ctx, none, "ada")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, id, got.ID)
	assert.Nil(t, got.LastLoginAt)

	byOwner, err := r.FindByOwner(ctx, none, domain.OwnerManager, "m1")
	require.NoError(t, err)
	require.NotNil(t, byOwner)
	assert.Equal(t, id, byOwner.ID)

	other, err := r.FindByOwner(ctx, none, domain.OwnerClient, "m1")
	require.NoError(t, err)
	assert.Nil(t, other)

	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	ok, err := r.TouchLogin(ctx, none, id, at)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.SetPassword(ctx, none, id, "hash-2")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err = r.GetByID(ctx, none, id)
	require.NoError(t, err)
	require.NotNil(t, got.LastLoginAt)
	assert.True(t, at.Equal(*got.LastLoginAt))
	assert.Equal(t, "hash-2", got.PasswordHash)
	assert.Equal(t, "admin", got.RoleName, "untouched columns survive field updates")

	ok, err = r.TouchLogin(ctx, none, "missing", at)
	require.NoError(t, err)
	assert.False(t, ok)

	items, total, err := r.FindAndCount(ctx, none, domain.AuthFilter{Page: page(0, 10), OwnerType: domain.OwnerManager})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, items, 1)
}

func TestUserRepoLookups(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepo(newTestDB(t), 100)
	id, err := r.Create(ctx, none, &domain.User{Username: "grace", Email: "grace@x.com"})
	require.NoError(t, err)

	byEmail, err := r.FindByEmail(ctx, none, " GRACE@x.com ")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, id, byEmail.ID)

	byName, err := r.FindByUsername(ctx, none, "grace")
	require.NoError(t, err)
	require.NotNil(t, byName)

	n, err := r.Count(ctx, none, domain.UserFilter{Keyword: "GRA"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestKeywordIsLiteral(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepo(newTestDB(t), 100)
	_, err := r.CreateMultiple(ctx, none, []*domain.User{
		{Username: "a_b", Email: "one@x.com"},
		{Username: "axb", Email: "two@x.com"},
		{Username: "50%off", Email: "three@x.com"},
		{Username: "wow!", Email: "four@x.com"},
	})
	require.NoError(t, err)

	cases := []struct {
		kw   string
		want int64
	}{
		{"A_B", 1},
		{"_", 1},
		{"%", 1},
		{"0%o", 1},
		{"!", 1},
		{"axb", 1},
	}
	for _, tc := range cases {
		n, err := r.Count(ctx, none, domain.UserFilter{Keyword: tc.kw})
		require.NoError(t, err)
		assert.EqualValues(t, tc.want, n, tc.kw)
	}
}

func TestClientRepoFilters(t *testing.T) {
	ctx := context.Background()
	r := NewClientRepo(newTestDB(t), 100)
	_, err := r.CreateMultiple(ctx, none, []*domain.Client{
		{FirstName: "Ann", LastName: "Archer", Email: "ann@x.com", Company: "Acme"},
		{FirstName: "Bob", LastName: "Baker", Email: "bob@x.com", Company: "Globex"},
	})
	require.NoError(t, err)

	n, err := r.Count(ctx, none, domain.ClientFilter{Keyword: "acme"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = r.Count(ctx, none, domain.ClientFilter{Company: "Globex"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
