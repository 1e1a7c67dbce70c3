package users

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"pet-adoption-marketplace/internal/apperr"
	"pet-adoption-marketplace/internal/ports/auth"
)

type testRepo struct {
	mu      sync.Mutex
	byEmail map[string]User
	order   []string
}

func newTestRepo() *testRepo {
	return &testRepo{byEmail: map[string]User{}}
}

func (r *testRepo) Create(ctx context.Context, u User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return ErrEmailTaken
	}
	r.byEmail[u.Email] = u
	r.order = append(r.order, u.Email)
	return nil
}

func (r *testRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (r *testRepo) List(ctx context.Context) ([]User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]User, 0, len(r.order))
	for _, e := range r.order {
		out = append(out, r.byEmail[e])
	}
	return out, nil
}

type fakeIssuer struct{}

func (fakeIssuer) Issue(ctx context.Context, c auth.Claims) (string, error) {
	return "tok:" + c.Email + ":" + c.Role, nil
}

func newTestService(repo Repository) *Service {
	s := NewService(repo, fakeIssuer{}, nil)
	s.cost = bcrypt.MinCost
	return s
}

func TestRegister_AndLogin(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	sess, err := svc.Register(ctx, RegisterInput{Name: "Alice", Email: " Alice@X.com ", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", sess.User.Email)
	assert.Equal(t, auth.RoleUser, sess.User.Role)
	assert.Equal(t, "tok:alice@x.com:user", sess.Token)

	stored, err := repo.GetByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.PasswordHash)

	sess, err = svc.Login(ctx, "alice@x.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "tok:alice@x.com:user", sess.Token)

	_, err = svc.Login(ctx, "alice@x.com", "wrong-pass")
	assert.True(t, errors.Is(err, apperr.ErrAuthorization))

	_, err = svc.Login(ctx, "nobody@x.com", "secret123")
	assert.True(t, errors.Is(err, apperr.ErrAuthorization))
}

func TestRegister_Errors(t *testing.T) {
	svc := newTestService(newTestRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "not-an-email", Password: "secret123"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = svc.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: "short"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = svc.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: "secret123"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterInput{Name: "B", Email: "A@x.com", Password: "secret123"})
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	in := RegisterInput{Name: "Root", Email: "root@x.com", Password: "rootroot"}
	require.NoError(t, svc.EnsureAdmin(ctx, in))
	require.NoError(t, svc.EnsureAdmin(ctx, in))

	u, err := repo.GetByEmail(ctx, "root@x.com")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, u.Role)
}

func TestListUsers_AdminOnlyAndNoHashes(t *testing.T) {
	svc := newTestService(newTestRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.ListUsers(ctx, auth.Claims{Email: "a@x.com", Role: auth.RoleUser})
	assert.True(t, errors.Is(err, apperr.ErrAuthorization))

	items, err := svc.ListUsers(ctx, auth.Claims{Email: "root@x.com", Role: auth.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Empty(t, items[0].PasswordHash)
}

func TestMe(t *testing.T) {
	svc := newTestService(newTestRepo())

	_, err := svc.Me(auth.Claims{})
	assert.True(t, errors.Is(err, apperr.ErrAuthorization))

	c := auth.Claims{Email: "a@x.com", Role: auth.RoleUser, Name: "A"}
	got, err := svc.Me(c)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}
