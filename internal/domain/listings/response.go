package listings

import (
	"net/http"
	"strings"
	"time"
)

type addressResponse struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

type ownerContactResponse struct {
	Name    string          `json:"name"`
	Phone   string          `json:"phone"`
	Address addressResponse `json:"address"`
}

type adoptionRequestResponse struct {
	ID            string `json:"id"`
	RequesterID   string `json:"requester_id"`
	RequesterName string `json:"requester_name"`

	ContactInfo struct {
		Phone   string          `json:"phone"`
		Address addressResponse `json:"address"`
	} `json:"contact_info"`

	HomeInfo struct {
		Type       string `json:"type"`
		YardSize   string `json:"yard_size"`
		HoursAlone string `json:"hours_alone"`
	} `json:"home_info"`

	Experience struct {
		OtherPets          string `json:"other_pets"`
		PreviousExperience string `json:"previous_experience"`
	} `json:"experience"`

	Reason      string        `json:"reason"`
	Status      RequestStatus `json:"status"`
	RequestDate time.Time     `json:"request_date"`
	UpdatedAt   *time.Time    `json:"updated_at,omitempty"`
}

type listingResponse struct {
	ID           string                    `json:"id"`
	Name         string                    `json:"name"`
	Species      string                    `json:"species"`
	Age          int                       `json:"age"`
	Description  string                    `json:"description"`
	Image        string                    `json:"image"`
	Owner        string                    `json:"owner"`
	OwnerContact ownerContactResponse      `json:"owner_contact"`
	Status       ListingStatus             `json:"status"`
	Requests     []adoptionRequestResponse `json:"adoption_requests"`
	CreatedAt    time.Time                 `json:"created_at"`
	UpdatedAt    time.Time                 `json:"updated_at"`
}

type petSummaryResponse struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Image        string               `json:"image"`
	OwnerContact ownerContactResponse `json:"owner_contact"`
}

type requesterRequestResponse struct {
	RequestID   string             `json:"request_id"`
	Status      RequestStatus      `json:"status"`
	RequestDate time.Time          `json:"request_date"`
	UpdatedAt   *time.Time         `json:"updated_at,omitempty"`
	Pet         petSummaryResponse `json:"pet"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error     string            `json:"error"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

func toAddressResponse(a Address) addressResponse {
	return addressResponse{
		Street:     a.Street,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
	}
}

func toOwnerContactResponse(c OwnerContact) ownerContactResponse {
	return ownerContactResponse{
		Name:    c.Name,
		Phone:   c.Phone,
		Address: toAddressResponse(c.Address),
	}
}

func toRequestResponse(a AdoptionRequest) adoptionRequestResponse {
	var out adoptionRequestResponse
	out.ID = a.ID
	out.RequesterID = a.RequesterEmail
	out.RequesterName = a.RequesterName
	out.ContactInfo.Phone = a.Contact.Phone
	out.ContactInfo.Address = toAddressResponse(a.Contact.Address)
	out.HomeInfo.Type = a.Home.Type
	out.HomeInfo.YardSize = a.Home.YardSize
	out.HomeInfo.HoursAlone = a.Home.HoursAlone
	out.Experience.OtherPets = a.Experience.OtherPets
	out.Experience.PreviousExperience = a.Experience.PreviousExperience
	out.Reason = a.Reason
	out.Status = a.Status
	out.RequestDate = a.RequestedAt
	out.UpdatedAt = a.UpdatedAt
	return out
}

func toListingResponse(r *http.Request, l Listing) listingResponse {
	reqs := make([]adoptionRequestResponse, 0, len(l.Requests))
	for _, a := range l.Requests {
		reqs = append(reqs, toRequestResponse(a))
	}
	return listingResponse{
		ID:           l.ID,
		Name:         l.Name,
		Species:      l.Species,
		Age:          l.Age,
		Description:  l.Description,
		Image:        imageURL(r, l.Image),
		Owner:        l.OwnerEmail,
		OwnerContact: toOwnerContactResponse(l.OwnerContact),
		Status:       l.Status,
		Requests:     reqs,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

func toListingResponses(r *http.Request, items []Listing) []listingResponse {
	out := make([]listingResponse, 0, len(items))
	for _, l := range items {
		out = append(out, toListingResponse(r, l))
	}
	return out
}

func toRequesterRequestResponse(r *http.Request, rr RequesterRequest) requesterRequestResponse {
	return requesterRequestResponse{
		RequestID:   rr.RequestID,
		Status:      rr.Status,
		RequestDate: rr.RequestedAt,
		UpdatedAt:   rr.UpdatedAt,
		Pet: petSummaryResponse{
			ID:           rr.Pet.ID,
			Name:         rr.Pet.Name,
			Image:        imageURL(r, rr.Pet.Image),
			OwnerContact: toOwnerContactResponse(rr.Pet.OwnerContact),
		},
	}
}

// imageURL expande /uploads/<key> a URL absoluta con el host del request.
func imageURL(r *http.Request, ref string) string {
	if !strings.HasPrefix(ref, uploadsPrefix) {
		return ref
	}
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host + ref
}
