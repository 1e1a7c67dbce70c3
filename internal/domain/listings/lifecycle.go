package listings

import (
	"time"

	"pet-adoption-marketplace/internal/apperr"
)

// Reglas de transición. Se ejecutan siempre dentro de Repository.Update,
// sobre el documento recién leído, así que todos los stores comparten la misma lógica.

func (l *Listing) pendingRequestBy(requesterEmail string) (AdoptionRequest, bool) {
	for _, r := range l.Requests {
		if r.RequesterEmail == requesterEmail && r.Status == RequestPending {
			return r, true
		}
	}
	return AdoptionRequest{}, false
}

func (l *Listing) indexOfRequest(requestID string) int {
	for i, r := range l.Requests {
		if r.ID == requestID {
			return i
		}
	}
	return -1
}

func (l *Listing) hasPending() bool {
	for _, r := range l.Requests {
		if r.Status == RequestPending {
			return true
		}
	}
	return false
}

func (l *Listing) approvedCount() int {
	n := 0
	for _, r := range l.Requests {
		if r.Status == RequestApproved {
			n++
		}
	}
	return n
}

// submit agrega una solicitud Pending. Available pasa a Pending.
func (l *Listing) submit(req AdoptionRequest) error {
	const op = "listings.submit"

	if l.Status == StatusAdopted {
		return apperr.Conflict(op, "this pet has already been adopted")
	}
	if existing, ok := l.pendingRequestBy(req.RequesterEmail); ok {
		return apperr.DuplicatePending(op, existing.ID)
	}

	req.Status = RequestPending
	l.Requests = append(l.Requests, req)
	if l.Status == StatusAvailable {
		l.Status = StatusPending
	}
	return nil
}

// decide aplica Approved/Rejected sobre una solicitud Pending.
// Approved rechaza en cascada al resto de Pending y deja la publicación Adopted.
func (l *Listing) decide(requestID string, decision RequestStatus, now time.Time) error {
	const op = "listings.decide"

	idx := l.indexOfRequest(requestID)
	if idx < 0 {
		return apperr.NotFound(op, "adoption request not found")
	}
	if l.Requests[idx].Status != RequestPending {
		return apperr.Conflict(op, "adoption request already "+string(l.Requests[idx].Status))
	}

	switch decision {
	case RequestApproved:
		if l.approvedCount() > 0 {
			return apperr.Conflict(op, "another adoption request is already approved")
		}
		for i := range l.Requests {
			if i == idx {
				continue
			}
			if l.Requests[i].Status == RequestPending {
				l.Requests[i].Status = RequestRejected
				l.Requests[i].UpdatedAt = timePtr(now)
			}
		}
		l.Requests[idx].Status = RequestApproved
		l.Requests[idx].UpdatedAt = timePtr(now)
		l.Status = StatusAdopted

	case RequestRejected:
		l.Requests[idx].Status = RequestRejected
		l.Requests[idx].UpdatedAt = timePtr(now)
		l.deriveStatus()

	default:
		return apperr.InvalidField(op, "status", "status must be Approved or Rejected")
	}
	return nil
}

// withdraw quita la solicitud del requester, en cualquier estado, y re-deriva el estado.
// Si se retira la Approved la publicación deja de estar Adopted: sin adoptante vuelve a
// Pending (si quedan Pending) o a Available.
func (l *Listing) withdraw(requesterEmail, requestID string) error {
	idx := l.indexOfRequest(requestID)
	if idx < 0 || l.Requests[idx].RequesterEmail != requesterEmail {
		return apperr.NotFound("listings.withdraw", "request not found or already removed")
	}
	removed := l.Requests[idx]
	l.Requests = append(l.Requests[:idx], l.Requests[idx+1:]...)

	if removed.Status == RequestApproved {
		l.Status = StatusAvailable
		if l.hasPending() {
			l.Status = StatusPending
		}
		return nil
	}
	l.deriveStatus()
	return nil
}

// deriveStatus: sin solicitudes Pending la publicación vuelve a Available. Adopted no se toca.
func (l *Listing) deriveStatus() {
	if l.Status == StatusAdopted || l.hasPending() {
		return
	}
	l.Status = StatusAvailable
}

func timePtr(t time.Time) *time.Time {
	return &t
}
