package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"pet-adoption-marketplace/internal/domain/listings"
)

type listingRepo struct {
	mu    sync.RWMutex
	byID  map[string]listings.Listing
	order []string // orden de alta
}

func NewListingRepo() listings.Repository {
	return &listingRepo{
		byID: make(map[string]listings.Listing),
	}
}

func (r *listingRepo) Create(ctx context.Context, l listings.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(l.ID) == "" {
		return errors.New("listing id required")
	}
	if _, exists := r.byID[l.ID]; exists {
		return errors.New("listing already exists")
	}
	r.byID[l.ID] = l.Clone()
	r.order = append(r.order, l.ID)
	return nil
}

func (r *listingRepo) GetByID(ctx context.Context, id string) (listings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.byID[id]
	if !ok {
		return listings.Listing{}, listings.ErrListingNotFound
	}
	return l.Clone(), nil
}

// scan recorre en orden de alta bajo read lock y devuelve copias.
func (r *listingRepo) scan(keep func(l listings.Listing) bool) []listings.Listing {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]listings.Listing, 0)
	for _, id := range r.order {
		l, ok := r.byID[id]
		if !ok || !keep(l) {
			continue
		}
		out = append(out, l.Clone())
	}
	return out
}

func (r *listingRepo) ListByStatus(ctx context.Context, statuses ...listings.ListingStatus) ([]listings.Listing, error) {
	want := make(map[listings.ListingStatus]struct{}, len(statuses))
	for _, s := range statuses {
		want[s] = struct{}{}
	}
	return r.scan(func(l listings.Listing) bool {
		_, ok := want[l.Status]
		return ok
	}), nil
}

func (r *listingRepo) ListByOwner(ctx context.Context, ownerEmail string) ([]listings.Listing, error) {
	return r.scan(func(l listings.Listing) bool { return l.OwnerEmail == ownerEmail }), nil
}

func (r *listingRepo) ListAll(ctx context.Context) ([]listings.Listing, error) {
	return r.scan(func(listings.Listing) bool { return true }), nil
}

func (r *listingRepo) FindByRequestID(ctx context.Context, requestID string) (listings.Listing, error) {
	found := r.scan(func(l listings.Listing) bool {
		for _, a := range l.Requests {
			if a.ID == requestID {
				return true
			}
		}
		return false
	})
	if len(found) == 0 {
		return listings.Listing{}, listings.ErrListingNotFound
	}
	return found[0], nil
}

// Update corre fn bajo el write lock sobre una copia; solo se guarda si fn no falla.
func (r *listingRepo) Update(ctx context.Context, id string, fn listings.MutateFunc) (listings.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[id]
	if !ok {
		return listings.Listing{}, listings.ErrListingNotFound
	}

	next := cur.Clone()
	if err := fn(&next); err != nil {
		return listings.Listing{}, err
	}
	next.ID = cur.ID
	next.Version = cur.Version + 1

	r.byID[id] = next.Clone()
	return next, nil
}

func (r *listingRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return listings.ErrListingNotFound
	}
	delete(r.byID, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *listingRepo) ListRequestsByRequester(ctx context.Context, requesterEmail string) ([]listings.RequesterRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]listings.RequesterRequest, 0)
	for _, id := range r.order {
		l := r.byID[id]
		for _, a := range l.Requests {
			if a.RequesterEmail != requesterEmail {
				continue
			}
			rr := listings.RequesterRequest{
				RequestID:   a.ID,
				Status:      a.Status,
				RequestedAt: a.RequestedAt,
				Pet:         l.Summary(),
			}
			if a.UpdatedAt != nil {
				t := *a.UpdatedAt
				rr.UpdatedAt = &t
			}
			out = append(out, rr)
		}
	}
	return out, nil
}
