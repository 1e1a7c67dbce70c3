package listings

import "pet-adoption-marketplace/internal/ports/auth"

// CanManage decide si el caller puede mutar la publicación (estado, solicitudes, borrado).
// Solo el dueño; el rol admin no da permisos de escritura sobre publicaciones ajenas.
func CanManage(caller auth.Claims, l Listing) bool {
	email := auth.NormalizeEmail(caller.Email)
	return email != "" && email == auth.NormalizeEmail(l.OwnerEmail)
}
