package jwtauth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-adoption-marketplace/internal/ports/auth"
)

func TestIssueVerify_RoundTrip(t *testing.T) {
	s, err := New(Config{Secret: "test-secret", TTL: time.Hour})
	require.NoError(t, err)

	in := auth.Claims{Email: "a@x.com", Role: auth.RoleAdmin, Name: "A"}
	tok, err := s.Issue(context.Background(), in)
	require.NoError(t, err)

	out, err := s.Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestVerify_Rejects(t *testing.T) {
	s, err := New(Config{Secret: "test-secret", TTL: time.Minute})
	require.NoError(t, err)
	ctx := context.Background()

	tok, err := s.Issue(ctx, auth.Claims{Email: "a@x.com", Role: auth.RoleUser})
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other, err := New(Config{Secret: "other"})
		require.NoError(t, err)
		_, err = other.Verify(ctx, tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong audience", func(t *testing.T) {
		other, err := New(Config{Secret: "test-secret", Audience: "someone-else"})
		require.NoError(t, err)
		_, err = other.Verify(ctx, tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		defer func() { s.now = time.Now }()
		_, err := s.Verify(ctx, tok)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := s.Verify(ctx, "not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestNoTTL_NeverExpires(t *testing.T) {
	s, err := New(Config{Secret: "test-secret"})
	require.NoError(t, err)

	tok, err := s.Issue(context.Background(), auth.Claims{Email: "a@x.com", Role: auth.RoleUser})
	require.NoError(t, err)

	s.now = func() time.Time { return time.Now().Add(24 * 365 * time.Hour) }
	_, err = s.Verify(context.Background(), tok)
	assert.NoError(t, err)
}

func TestNew_RequiresSecret(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrSecretRequired)
}
