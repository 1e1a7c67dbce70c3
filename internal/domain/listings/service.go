package listings

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-adoption-marketplace/internal/apperr"
	"pet-adoption-marketplace/internal/platform/logger"
	"pet-adoption-marketplace/internal/ports/auth"
)

type Service struct {
	repo Repository
	log  logger.Logger
	now  func() time.Time
}

func NewService(repo Repository, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		repo: repo,
		log:  log.With(map[string]any{"component": "listings"}),
		now:  time.Now,
	}
}

func (s *Service) CreateListing(ctx context.Context, caller auth.Claims, in CreateInput, imageRef string) (Listing, error) {
	const op = "listings.CreateListing"

	if !caller.IsAuthenticated() {
		return Listing{}, apperr.Unauthorized(op, "authentication required")
	}

	in = in.normalized()
	if err := validateStruct(op, in); err != nil {
		return Listing{}, err
	}

	now := s.now()
	l := Listing{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Species:     in.Species,
		Age:         in.Age,
		Description: in.Description,
		Image:       strings.TrimSpace(imageRef),
		OwnerEmail:  auth.NormalizeEmail(caller.Email),
		OwnerContact: OwnerContact{
			Name:  in.OwnerName,
			Phone: in.Phone,
			Address: Address{
				Street:     in.Street,
				City:       in.City,
				State:      in.State,
				PostalCode: in.PostalCode,
			},
		},
		Status:    StatusAvailable,
		Requests:  []AdoptionRequest{},
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return Listing{}, apperr.Persistence(op, err)
	}

	s.log.Info("listing created", map[string]any{"listing_id": l.ID, "owner": l.OwnerEmail})
	return l, nil
}

// ListAvailableListings devuelve lo que se puede pedir: Available y Pending.
func (s *Service) ListAvailableListings(ctx context.Context) ([]Listing, error) {
	items, err := s.repo.ListByStatus(ctx, StatusAvailable, StatusPending)
	if err != nil {
		return nil, apperr.Persistence("listings.ListAvailableListings", err)
	}
	return items, nil
}

func (s *Service) ListOwnedListings(ctx context.Context, owner auth.Claims) ([]Listing, error) {
	const op = "listings.ListOwnedListings"

	if !owner.IsAuthenticated() {
		return nil, apperr.Unauthorized(op, "authentication required")
	}
	items, err := s.repo.ListByOwner(ctx, auth.NormalizeEmail(owner.Email))
	if err != nil {
		return nil, apperr.Persistence(op, err)
	}
	return items, nil
}

func (s *Service) GetListing(ctx context.Context, id string) (Listing, error) {
	const op = "listings.GetListing"

	l, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Listing{}, mapRepoErr(op, err)
	}
	return l, nil
}

// ListAllListings es la vista de administración: todos los estados.
func (s *Service) ListAllListings(ctx context.Context, caller auth.Claims) ([]Listing, error) {
	const op = "listings.ListAllListings"

	if !caller.IsAdmin() {
		return nil, apperr.Unauthorized(op, "admin role required")
	}
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, apperr.Persistence(op, err)
	}
	return items, nil
}

func (s *Service) SubmitAdoptionRequest(ctx context.Context, requester auth.Claims, listingID string, d RequestDetails) (AdoptionRequest, error) {
	const op = "listings.SubmitAdoptionRequest"

	if !requester.IsAuthenticated() {
		return AdoptionRequest{}, apperr.Unauthorized(op, "authentication required")
	}
	listingID = strings.TrimSpace(listingID)
	if listingID == "" {
		return AdoptionRequest{}, apperr.InvalidField(op, "pet_listing_id", "pet_listing_id is required")
	}

	d = d.normalized()
	if err := validateStruct(op, d); err != nil {
		return AdoptionRequest{}, err
	}

	now := s.now()
	req := AdoptionRequest{
		ID:             uuid.NewString(),
		RequesterEmail: auth.NormalizeEmail(requester.Email),
		RequesterName:  strings.TrimSpace(requester.Name),
		Contact: ContactInfo{
			Phone: d.Contact,
			Address: Address{
				Street:     d.Address,
				City:       d.City,
				State:      d.State,
				PostalCode: d.PostalCode,
			},
		},
		Home: HomeInfo{
			Type:       d.HomeType,
			YardSize:   d.YardSize,
			HoursAlone: d.HoursAlone,
		},
		Experience: Experience{
			OtherPets:          d.OtherPets,
			PreviousExperience: d.PetExperience,
		},
		Reason:      d.AdoptionReason,
		Status:      RequestPending,
		RequestedAt: now,
	}

	_, err := s.repo.Update(ctx, listingID, func(l *Listing) error {
		if err := l.submit(req); err != nil {
			return err
		}
		l.UpdatedAt = now
		return nil
	})
	if err != nil {
		return AdoptionRequest{}, mapRepoErr(op, err)
	}

	s.log.Info("adoption request submitted", map[string]any{
		"listing_id": listingID,
		"request_id": req.ID,
		"requester":  req.RequesterEmail,
	})
	return req, nil
}

func (s *Service) UpdateRequestStatus(ctx context.Context, owner auth.Claims, listingID, requestID string, status RequestStatus) error {
	const op = "listings.UpdateRequestStatus"

	if status != RequestApproved && status != RequestRejected {
		return apperr.InvalidField(op, "status", "status must be Approved or Rejected")
	}
	if !owner.IsAuthenticated() {
		return apperr.Unauthorized(op, "authentication required")
	}

	now := s.now()
	_, err := s.repo.Update(ctx, strings.TrimSpace(listingID), func(l *Listing) error {
		if !CanManage(owner, *l) {
			return apperr.Unauthorized(op, "only the listing owner can decide adoption requests")
		}
		if err := l.decide(strings.TrimSpace(requestID), status, now); err != nil {
			return err
		}
		l.UpdatedAt = now
		return nil
	})
	if err != nil {
		return mapRepoErr(op, err)
	}

	msg := "adoption request rejected"
	if status == RequestApproved {
		msg = "adoption request approved"
	}
	s.log.Info(msg, map[string]any{"listing_id": listingID, "request_id": requestID})
	return nil
}

// UpdatePetStatus es el override manual del dueño; no toca las solicitudes.
func (s *Service) UpdatePetStatus(ctx context.Context, owner auth.Claims, listingID string, status ListingStatus) error {
	const op = "listings.UpdatePetStatus"

	if !status.Valid() {
		return apperr.InvalidField(op, "status", "status must be one of Available, Pending, Adopted")
	}
	if !owner.IsAuthenticated() {
		return apperr.Unauthorized(op, "authentication required")
	}

	var prev ListingStatus
	_, err := s.repo.Update(ctx, strings.TrimSpace(listingID), func(l *Listing) error {
		if !CanManage(owner, *l) {
			return apperr.Unauthorized(op, "only the listing owner can change its status")
		}
		if l.Status == status {
			return apperr.Conflict(op, "pet status is already "+string(status))
		}
		prev = l.Status
		l.Status = status
		l.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return mapRepoErr(op, err)
	}

	s.log.Info("listing status changed", map[string]any{
		"listing_id": listingID,
		"from":       string(prev),
		"to":         string(status),
	})
	return nil
}

// DeleteListing devuelve la publicación borrada para que el caller limpie su imagen.
func (s *Service) DeleteListing(ctx context.Context, owner auth.Claims, listingID string) (Listing, error) {
	const op = "listings.DeleteListing"

	if !owner.IsAuthenticated() {
		return Listing{}, apperr.Unauthorized(op, "authentication required")
	}

	listingID = strings.TrimSpace(listingID)
	l, err := s.repo.GetByID(ctx, listingID)
	if err != nil {
		return Listing{}, mapRepoErr(op, err)
	}
	if !CanManage(owner, l) {
		return Listing{}, apperr.Unauthorized(op, "only the listing owner can delete it")
	}
	if err := s.repo.Delete(ctx, listingID); err != nil {
		return Listing{}, mapRepoErr(op, err)
	}

	s.log.Info("listing deleted", map[string]any{"listing_id": listingID, "requests": len(l.Requests)})
	return l, nil
}

func (s *Service) ListRequestsForRequester(ctx context.Context, requester auth.Claims) ([]RequesterRequest, error) {
	const op = "listings.ListRequestsForRequester"

	if !requester.IsAuthenticated() {
		return nil, apperr.Unauthorized(op, "authentication required")
	}
	items, err := s.repo.ListRequestsByRequester(ctx, auth.NormalizeEmail(requester.Email))
	if err != nil {
		return nil, apperr.Persistence(op, err)
	}
	return items, nil
}

// WithdrawRequest quita la solicitud propia en cualquier estado y re-deriva el estado de la publicación.
func (s *Service) WithdrawRequest(ctx context.Context, requester auth.Claims, requestID string) error {
	const op = "listings.WithdrawRequest"

	if !requester.IsAuthenticated() {
		return apperr.Unauthorized(op, "authentication required")
	}
	requestID = strings.TrimSpace(requestID)
	email := auth.NormalizeEmail(requester.Email)

	l, err := s.repo.FindByRequestID(ctx, requestID)
	if err != nil {
		if errors.Is(err, ErrListingNotFound) {
			return apperr.NotFound(op, "request not found or already removed")
		}
		return apperr.Persistence(op, err)
	}

	_, err = s.repo.Update(ctx, l.ID, func(cur *Listing) error {
		if err := cur.withdraw(email, requestID); err != nil {
			return err
		}
		cur.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrListingNotFound) {
			return apperr.NotFound(op, "request not found or already removed")
		}
		return mapRepoErr(op, err)
	}

	s.log.Info("adoption request withdrawn", map[string]any{"listing_id": l.ID, "request_id": requestID})
	return nil
}

// mapRepoErr deja pasar los errores del core y traduce los del store.
func mapRepoErr(op string, err error) error {
	if _, ok := apperr.As(err); ok {
		return err
	}
	if errors.Is(err, ErrListingNotFound) {
		return apperr.NotFound(op, "pet listing not found")
	}
	return apperr.Persistence(op, err)
}
