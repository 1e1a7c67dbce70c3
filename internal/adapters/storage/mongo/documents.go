package mongo

import (
	"time"

	"pet-adoption-marketplace/internal/domain/listings"
)

type addressDoc struct {
	Street     string `bson:"street"`
	City       string `bson:"city"`
	State      string `bson:"state"`
	PostalCode string `bson:"postal_code"`
}

type ownerContactDoc struct {
	Name    string     `bson:"name"`
	Phone   string     `bson:"phone"`
	Address addressDoc `bson:"address"`
}

type requestDoc struct {
	ID             string `bson:"id"`
	RequesterEmail string `bson:"requester_email"`
	RequesterName  string `bson:"requester_name"`

	ContactInfo struct {
		Phone   string     `bson:"phone"`
		Address addressDoc `bson:"address"`
	} `bson:"contact_info"`

	HomeInfo struct {
		Type       string `bson:"type"`
		YardSize   string `bson:"yard_size"`
		HoursAlone string `bson:"hours_alone"`
	} `bson:"home_info"`

	Experience struct {
		OtherPets          string `bson:"other_pets"`
		PreviousExperience string `bson:"previous_experience"`
	} `bson:"experience"`

	Reason      string     `bson:"reason"`
	Status      string     `bson:"status"`
	RequestDate time.Time  `bson:"request_date"`
	UpdatedAt   *time.Time `bson:"updated_at,omitempty"`
}

// listingDoc es el documento completo: las solicitudes viven embebidas.
type listingDoc struct {
	ID           string          `bson:"_id"`
	Name         string          `bson:"name"`
	Species      string          `bson:"species"`
	Age          int             `bson:"age"`
	Description  string          `bson:"description"`
	Image        string          `bson:"image"`
	Owner        string          `bson:"owner"`
	OwnerContact ownerContactDoc `bson:"owner_contact"`
	Status       string          `bson:"status"`
	Requests     []requestDoc    `bson:"adoption_requests"`
	CreatedAt    time.Time       `bson:"created_at"`
	UpdatedAt    time.Time       `bson:"updated_at"`
	Version      int64           `bson:"version"`
}

// requesterDoc es la salida del pipeline de "mis solicitudes".
type requesterDoc struct {
	RequestID   string     `bson:"request_id"`
	Status      string     `bson:"status"`
	RequestDate time.Time  `bson:"request_date"`
	UpdatedAt   *time.Time `bson:"updated_at,omitempty"`
	Pet         struct {
		ID           string          `bson:"_id"`
		Name         string          `bson:"name"`
		Image        string          `bson:"image"`
		OwnerContact ownerContactDoc `bson:"owner_contact"`
	} `bson:"pet"`
}

func toAddressDoc(a listings.Address) addressDoc {
	return addressDoc{Street: a.Street, City: a.City, State: a.State, PostalCode: a.PostalCode}
}

func (d addressDoc) toDomain() listings.Address {
	return listings.Address{Street: d.Street, City: d.City, State: d.State, PostalCode: d.PostalCode}
}

func toOwnerContactDoc(c listings.OwnerContact) ownerContactDoc {
	return ownerContactDoc{Name: c.Name, Phone: c.Phone, Address: toAddressDoc(c.Address)}
}

func (d ownerContactDoc) toDomain() listings.OwnerContact {
	return listings.OwnerContact{Name: d.Name, Phone: d.Phone, Address: d.Address.toDomain()}
}

func toListingDoc(l listings.Listing) listingDoc {
	reqs := make([]requestDoc, 0, len(l.Requests))
	for _, a := range l.Requests {
		var rd requestDoc
		rd.ID = a.ID
		rd.RequesterEmail = a.RequesterEmail
		rd.RequesterName = a.RequesterName
		rd.ContactInfo.Phone = a.Contact.Phone
		rd.ContactInfo.Address = toAddressDoc(a.Contact.Address)
		rd.HomeInfo.Type = a.Home.Type
		rd.HomeInfo.YardSize = a.Home.YardSize
		rd.HomeInfo.HoursAlone = a.Home.HoursAlone
		rd.Experience.OtherPets = a.Experience.OtherPets
		rd.Experience.PreviousExperience = a.Experience.PreviousExperience
		rd.Reason = a.Reason
		rd.Status = string(a.Status)
		rd.RequestDate = a.RequestedAt
		rd.UpdatedAt = a.UpdatedAt
		reqs = append(reqs, rd)
	}

	return listingDoc{
		ID:           l.ID,
		Name:         l.Name,
		Species:      l.Species,
		Age:          l.Age,
		Description:  l.Description,
		Image:        l.Image,
		Owner:        l.OwnerEmail,
		OwnerContact: toOwnerContactDoc(l.OwnerContact),
		Status:       string(l.Status),
		Requests:     reqs,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
		Version:      l.Version,
	}
}

func (d listingDoc) toDomain() listings.Listing {
	l := listings.Listing{
		ID:           d.ID,
		Name:         d.Name,
		Species:      d.Species,
		Age:          d.Age,
		Description:  d.Description,
		Image:        d.Image,
		OwnerEmail:   d.Owner,
		OwnerContact: d.OwnerContact.toDomain(),
		Status:       listings.ListingStatus(d.Status),
		Requests:     make([]listings.AdoptionRequest, 0, len(d.Requests)),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
		Version:      d.Version,
	}
	for _, rd := range d.Requests {
		l.Requests = append(l.Requests, listings.AdoptionRequest{
			ID:             rd.ID,
			RequesterEmail: rd.RequesterEmail,
			RequesterName:  rd.RequesterName,
			Contact: listings.ContactInfo{
				Phone:   rd.ContactInfo.Phone,
				Address: rd.ContactInfo.Address.toDomain(),
			},
			Home: listings.HomeInfo{
				Type:       rd.HomeInfo.Type,
				YardSize:   rd.HomeInfo.YardSize,
				HoursAlone: rd.HomeInfo.HoursAlone,
			},
			Experience: listings.Experience{
				OtherPets:          rd.Experience.OtherPets,
				PreviousExperience: rd.Experience.PreviousExperience,
			},
			Reason:      rd.Reason,
			Status:      listings.RequestStatus(rd.Status),
			RequestedAt: rd.RequestDate,
			UpdatedAt:   rd.UpdatedAt,
		})
	}
	return l
}

func (d requesterDoc) toDomain() listings.RequesterRequest {
	return listings.RequesterRequest{
		RequestID:   d.RequestID,
		Status:      listings.RequestStatus(d.Status),
		RequestedAt: d.RequestDate,
		UpdatedAt:   d.UpdatedAt,
		Pet: listings.PetSummary{
			ID:           d.Pet.ID,
			Name:         d.Pet.Name,
			Image:        d.Pet.Image,
			OwnerContact: d.Pet.OwnerContact.toDomain(),
		},
	}
}
