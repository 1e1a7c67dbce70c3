package listings

import (
	"context"
	"errors"
)

var (
	// ErrListingNotFound lo devuelven los repos cuando no existe la publicación.
	ErrListingNotFound = errors.New("listing not found")
	// ErrConcurrentUpdate: el store no pudo aplicar la escritura atómica (CAS agotado, 0 filas).
	ErrConcurrentUpdate = errors.New("listing was modified concurrently")
)

// MutateFunc aplica reglas sobre el documento recién leído. Si devuelve error no se escribe nada.
type MutateFunc func(l *Listing) error

type Repository interface {
	Create(ctx context.Context, l Listing) error
	GetByID(ctx context.Context, id string) (Listing, error)
	ListByStatus(ctx context.Context, statuses ...ListingStatus) ([]Listing, error)
	ListByOwner(ctx context.Context, ownerEmail string) ([]Listing, error)
	ListAll(ctx context.Context) ([]Listing, error)

	// FindByRequestID devuelve la publicación que contiene la solicitud.
	FindByRequestID(ctx context.Context, requestID string) (Listing, error)

	// Update es el único read-modify-write: atómico por publicación.
	Update(ctx context.Context, id string, fn MutateFunc) (Listing, error)

	Delete(ctx context.Context, id string) error

	// ListRequestsByRequester aplana las solicitudes de un requester a través de todas las publicaciones.
	ListRequestsByRequester(ctx context.Context, requesterEmail string) ([]RequesterRequest, error)
}
