package listings

import "time"

// ListingStatus define el estado de la publicación.
// @Enum Available, Pending, Adopted
type ListingStatus string

const (
	StatusAvailable ListingStatus = "Available"
	StatusPending   ListingStatus = "Pending"
	StatusAdopted   ListingStatus = "Adopted"
)

func (s ListingStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusPending, StatusAdopted:
		return true
	default:
		return false
	}
}

// RequestStatus define el estado de una solicitud de adopción.
// @Enum Pending, Approved, Rejected
type RequestStatus string

const (
	RequestPending  RequestStatus = "Pending"
	RequestApproved RequestStatus = "Approved"
	RequestRejected RequestStatus = "Rejected"
)

type Address struct {
	Street     string
	City       string
	State      string
	PostalCode string
}

type OwnerContact struct {
	Name    string
	Phone   string
	Address Address
}

// Listing es una mascota publicada para adopción, con sus solicitudes embebidas.
type Listing struct {
	ID string

	Name        string
	Species     string
	Age         int
	Description string
	Image       string // referencia al blob: /uploads/<key>

	OwnerEmail   string
	OwnerContact OwnerContact

	Status   ListingStatus
	Requests []AdoptionRequest // orden de llegada

	CreatedAt time.Time
	UpdatedAt time.Time

	// Version se incrementa en cada escritura (CAS en stores de documentos).
	Version int64
}

type ContactInfo struct {
	Phone   string
	Address Address
}

type HomeInfo struct {
	Type       string
	YardSize   string
	HoursAlone string
}

type Experience struct {
	OtherPets          string
	PreviousExperience string
}

// AdoptionRequest vive dentro de su Listing; no existe fuera de él.
type AdoptionRequest struct {
	ID string

	RequesterEmail string
	RequesterName  string

	Contact    ContactInfo
	Home       HomeInfo
	Experience Experience
	Reason     string

	Status      RequestStatus
	RequestedAt time.Time
	UpdatedAt   *time.Time
}

// PetSummary es la vista mínima de la publicación que ve quien pidió adoptar.
type PetSummary struct {
	ID           string
	Name         string
	Image        string
	OwnerContact OwnerContact
}

// RequesterRequest es una solicitud aplanada junto a su publicación.
type RequesterRequest struct {
	RequestID   string
	Status      RequestStatus
	RequestedAt time.Time
	UpdatedAt   *time.Time
	Pet         PetSummary
}

// Clone devuelve una copia sin aliasing del slice de solicitudes.
func (l Listing) Clone() Listing {
	out := l
	if l.Requests != nil {
		out.Requests = make([]AdoptionRequest, len(l.Requests))
		copy(out.Requests, l.Requests)
		for i := range out.Requests {
			if t := l.Requests[i].UpdatedAt; t != nil {
				tt := *t
				out.Requests[i].UpdatedAt = &tt
			}
		}
	}
	return out
}

func (l Listing) Summary() PetSummary {
	return PetSummary{
		ID:           l.ID,
		Name:         l.Name,
		Image:        l.Image,
		OwnerContact: l.OwnerContact,
	}
}
