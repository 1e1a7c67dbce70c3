package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-adoption-marketplace/internal/domain/users"
)

func setupTestDB(t *testing.T) *UsersRepo {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	return NewUsersRepo(db)
}

func TestUsersRepo_CreateGetList(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, users.User{Email: "a@x.com", Name: "A", PasswordHash: "h1", Role: "user", CreatedAt: now}))
	require.NoError(t, repo.Create(ctx, users.User{Email: "b@x.com", Name: "B", PasswordHash: "h2", Role: "admin", CreatedAt: now.Add(time.Second)}))

	err := repo.Create(ctx, users.User{Email: "a@x.com", Name: "dup", PasswordHash: "h3", Role: "user", CreatedAt: now})
	assert.ErrorIs(t, err, users.ErrEmailTaken)

	got, err := repo.GetByEmail(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, "admin", got.Role)
	assert.Equal(t, "h2", got.PasswordHash)

	_, err = repo.GetByEmail(ctx, "missing@x.com")
	assert.ErrorIs(t, err, users.ErrUserNotFound)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a@x.com", all[0].Email)
}
