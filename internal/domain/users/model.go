package users

import "time"

// User es una cuenta registrada. El email es la clave de identidad.
type User struct {
	Email        string
	Name         string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}
