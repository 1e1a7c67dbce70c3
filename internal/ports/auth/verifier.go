package auth

import "context"

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// TokenIssuer emite tokens para una identidad ya autenticada (signup/login).
type TokenIssuer interface {
	Issue(ctx context.Context, c Claims) (string, error)
}
