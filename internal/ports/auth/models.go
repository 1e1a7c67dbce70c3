package auth

import "strings"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Claims representa la identidad verificada del caller.
// El email es la clave estable de identidad en todo el sistema.
type Claims struct {
	Email string
	Role  string
	Name  string
}

// NormalizeEmail deja el email en la forma canónica (sin espacios, minúsculas).
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (c Claims) IsAuthenticated() bool {
	return strings.TrimSpace(c.Email) != ""
}

func (c Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
