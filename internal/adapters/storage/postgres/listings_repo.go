package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"pet-adoption-marketplace/internal/domain/listings"
)

type ListingsRepo struct {
	db *sqlx.DB
}

func NewListingsRepo(db *sql.DB) *ListingsRepo {
	return &ListingsRepo{db: wrap(db)}
}

type listingRow struct {
	ID              string    `db:"id"`
	Name            string    `db:"name"`
	Species         string    `db:"species"`
	Age             int       `db:"age"`
	Description     string    `db:"description"`
	Image           string    `db:"image"`
	OwnerEmail      string    `db:"owner_email"`
	OwnerName       string    `db:"owner_name"`
	OwnerPhone      string    `db:"owner_phone"`
	OwnerStreet     string    `db:"owner_street"`
	OwnerCity       string    `db:"owner_city"`
	OwnerState      string    `db:"owner_state"`
	OwnerPostalCode string    `db:"owner_postal_code"`
	Status          string    `db:"status"`
	Version         int64     `db:"version"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type requestRow struct {
	ID                 string       `db:"id"`
	ListingID          string       `db:"listing_id"`
	Position           int          `db:"position"`
	RequesterEmail     string       `db:"requester_email"`
	RequesterName      string       `db:"requester_name"`
	Phone              string       `db:"phone"`
	Street             string       `db:"street"`
	City               string       `db:"city"`
	State              string       `db:"state"`
	PostalCode         string       `db:"postal_code"`
	HomeType           string       `db:"home_type"`
	YardSize           string       `db:"yard_size"`
	HoursAlone         string       `db:"hours_alone"`
	OtherPets          string       `db:"other_pets"`
	PreviousExperience string       `db:"previous_experience"`
	Reason             string       `db:"reason"`
	Status             string       `db:"status"`
	RequestedAt        time.Time    `db:"requested_at"`
	UpdatedAt          sql.NullTime `db:"updated_at"`
}

const listingColumns = `
	id, name, species, age, description, image,
	owner_email, owner_name, owner_phone,
	owner_street, owner_city, owner_state, owner_postal_code,
	status, version, created_at, updated_at`

const requestColumns = `
	id, listing_id, position, requester_email, requester_name,
	phone, street, city, state, postal_code,
	home_type, yard_size, hours_alone, other_pets, previous_experience,
	reason, status, requested_at, updated_at`

func (r *ListingsRepo) Create(ctx context.Context, l listings.Listing) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO pet_listings (`+listingColumns+`)
		VALUES (
			:id, :name, :species, :age, :description, :image,
			:owner_email, :owner_name, :owner_phone,
			:owner_street, :owner_city, :owner_state, :owner_postal_code,
			:status, :version, :created_at, :updated_at
		)
	`, toListingRow(l))
	if err != nil {
		return err
	}

	if err := upsertRequests(ctx, tx, l); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *ListingsRepo) GetByID(ctx context.Context, id string) (listings.Listing, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return listings.Listing{}, listings.ErrListingNotFound
	}

	var row listingRow
	err := r.db.GetContext(ctx, &row, `SELECT `+listingColumns+` FROM pet_listings WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return listings.Listing{}, listings.ErrListingNotFound
	}
	if err != nil {
		return listings.Listing{}, err
	}

	reqs, err := loadRequests(ctx, r.db, id)
	if err != nil {
		return listings.Listing{}, err
	}
	return fromRows(row, reqs), nil
}

func (r *ListingsRepo) ListByStatus(ctx context.Context, statuses ...listings.ListingStatus) ([]listings.Listing, error) {
	ss := make([]string, 0, len(statuses))
	for _, s := range statuses {
		ss = append(ss, string(s))
	}
	return r.list(ctx, `WHERE status = ANY($1)`, ss)
}

func (r *ListingsRepo) ListByOwner(ctx context.Context, ownerEmail string) ([]listings.Listing, error) {
	return r.list(ctx, `WHERE owner_email = $1`, ownerEmail)
}

func (r *ListingsRepo) ListAll(ctx context.Context) ([]listings.Listing, error) {
	return r.list(ctx, ``)
}

func (r *ListingsRepo) list(ctx context.Context, where string, args ...any) ([]listings.Listing, error) {
	var rows []listingRow
	q := `SELECT ` + listingColumns + ` FROM pet_listings ` + where + ` ORDER BY seq ASC`
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []listings.Listing{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	var reqRows []requestRow
	err := r.db.SelectContext(ctx, &reqRows, `
		SELECT `+requestColumns+`
		FROM adoption_requests
		WHERE listing_id = ANY($1)
		ORDER BY listing_id, position ASC
	`, ids)
	if err != nil {
		return nil, err
	}

	byListing := make(map[string][]requestRow, len(rows))
	for _, rr := range reqRows {
		byListing[rr.ListingID] = append(byListing[rr.ListingID], rr)
	}

	out := make([]listings.Listing, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromRows(row, byListing[row.ID]))
	}
	return out, nil
}

func (r *ListingsRepo) FindByRequestID(ctx context.Context, requestID string) (listings.Listing, error) {
	var listingID string
	err := r.db.GetContext(ctx, &listingID, `SELECT listing_id FROM adoption_requests WHERE id = $1`, requestID)
	if errors.Is(err, sql.ErrNoRows) {
		return listings.Listing{}, listings.ErrListingNotFound
	}
	if err != nil {
		return listings.Listing{}, err
	}
	return r.GetByID(ctx, listingID)
}

// Update bloquea la fila de la publicación (FOR UPDATE) durante todo el read-modify-write.
func (r *ListingsRepo) Update(ctx context.Context, id string, fn listings.MutateFunc) (listings.Listing, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return listings.Listing{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var row listingRow
	err = tx.GetContext(ctx, &row, `SELECT `+listingColumns+` FROM pet_listings WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return listings.Listing{}, listings.ErrListingNotFound
	}
	if err != nil {
		return listings.Listing{}, err
	}

	reqs, err := loadRequests(ctx, tx, id)
	if err != nil {
		return listings.Listing{}, err
	}

	cur := fromRows(row, reqs)
	if err := fn(&cur); err != nil {
		return listings.Listing{}, err
	}
	cur.ID = row.ID
	cur.Version = row.Version + 1

	res, err := tx.ExecContext(ctx, `
		UPDATE pet_listings
		SET status = $2, image = $3, version = $4, updated_at = $5
		WHERE id = $1 AND version = $6
	`, cur.ID, string(cur.Status), cur.Image, cur.Version, cur.UpdatedAt, row.Version)
	if err != nil {
		return listings.Listing{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return listings.Listing{}, listings.ErrConcurrentUpdate
	}

	if err := upsertRequests(ctx, tx, cur); err != nil {
		return listings.Listing{}, err
	}

	keep := make([]string, 0, len(cur.Requests))
	for _, a := range cur.Requests {
		keep = append(keep, a.ID)
	}
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM adoption_requests
		WHERE listing_id = $1 AND NOT (id = ANY($2))
	`, cur.ID, keep); err != nil {
		return listings.Listing{}, err
	}

	if err := tx.Commit(); err != nil {
		return listings.Listing{}, err
	}
	return cur, nil
}

func (r *ListingsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pet_listings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return listings.ErrListingNotFound
	}
	return nil
}

type requesterRow struct {
	RequestID   string       `db:"request_id"`
	Status      string       `db:"status"`
	RequestedAt time.Time    `db:"requested_at"`
	UpdatedAt   sql.NullTime `db:"updated_at"`

	PetID           string `db:"pet_id"`
	PetName         string `db:"pet_name"`
	PetImage        string `db:"pet_image"`
	OwnerName       string `db:"owner_name"`
	OwnerPhone      string `db:"owner_phone"`
	OwnerStreet     string `db:"owner_street"`
	OwnerCity       string `db:"owner_city"`
	OwnerState      string `db:"owner_state"`
	OwnerPostalCode string `db:"owner_postal_code"`
}

func (r *ListingsRepo) ListRequestsByRequester(ctx context.Context, requesterEmail string) ([]listings.RequesterRequest, error) {
	var rows []requesterRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT
			ar.id AS request_id, ar.status, ar.requested_at, ar.updated_at,
			pl.id AS pet_id, pl.name AS pet_name, pl.image AS pet_image,
			pl.owner_name, pl.owner_phone,
			pl.owner_street, pl.owner_city, pl.owner_state, pl.owner_postal_code
		FROM adoption_requests ar
		JOIN pet_listings pl ON pl.id = ar.listing_id
		WHERE ar.requester_email = $1
		ORDER BY pl.seq ASC, ar.position ASC
	`, requesterEmail)
	if err != nil {
		return nil, err
	}

	out := make([]listings.RequesterRequest, 0, len(rows))
	for _, row := range rows {
		out = append(out, listings.RequesterRequest{
			RequestID:   row.RequestID,
			Status:      listings.RequestStatus(row.Status),
			RequestedAt: row.RequestedAt,
			UpdatedAt:   fromNullTime(row.UpdatedAt),
			Pet: listings.PetSummary{
				ID:    row.PetID,
				Name:  row.PetName,
				Image: row.PetImage,
				OwnerContact: listings.OwnerContact{
					Name:  row.OwnerName,
					Phone: row.OwnerPhone,
					Address: listings.Address{
						Street:     row.OwnerStreet,
						City:       row.OwnerCity,
						State:      row.OwnerState,
						PostalCode: row.OwnerPostalCode,
					},
				},
			},
		})
	}
	return out, nil
}

// -------------------------
// helpers
// -------------------------

func loadRequests(ctx context.Context, q sqlx.QueryerContext, listingID string) ([]requestRow, error) {
	var rows []requestRow
	err := sqlx.SelectContext(ctx, q, &rows, `
		SELECT `+requestColumns+`
		FROM adoption_requests
		WHERE listing_id = $1
		ORDER BY position ASC
	`, listingID)
	return rows, err
}

func upsertRequests(ctx context.Context, tx *sqlx.Tx, l listings.Listing) error {
	for i, a := range l.Requests {
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO adoption_requests (`+requestColumns+`)
			VALUES (
				:id, :listing_id, :position, :requester_email, :requester_name,
				:phone, :street, :city, :state, :postal_code,
				:home_type, :yard_size, :hours_alone, :other_pets, :previous_experience,
				:reason, :status, :requested_at, :updated_at
			)
			ON CONFLICT (id) DO UPDATE SET
				position = EXCLUDED.position,
				status = EXCLUDED.status,
				updated_at = EXCLUDED.updated_at
		`, toRequestRow(l.ID, i, a))
		if err != nil {
			return fmt.Errorf("upsert request %s: %w", a.ID, err)
		}
	}
	return nil
}

func toListingRow(l listings.Listing) listingRow {
	return listingRow{
		ID:              l.ID,
		Name:            l.Name,
		Species:         l.Species,
		Age:             l.Age,
		Description:     l.Description,
		Image:           l.Image,
		OwnerEmail:      l.OwnerEmail,
		OwnerName:       l.OwnerContact.Name,
		OwnerPhone:      l.OwnerContact.Phone,
		OwnerStreet:     l.OwnerContact.Address.Street,
		OwnerCity:       l.OwnerContact.Address.City,
		OwnerState:      l.OwnerContact.Address.State,
		OwnerPostalCode: l.OwnerContact.Address.PostalCode,
		Status:          string(l.Status),
		Version:         l.Version,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

func toRequestRow(listingID string, pos int, a listings.AdoptionRequest) requestRow {
	return requestRow{
		ID:                 a.ID,
		ListingID:          listingID,
		Position:           pos,
		RequesterEmail:     a.RequesterEmail,
		RequesterName:      a.RequesterName,
		Phone:              a.Contact.Phone,
		Street:             a.Contact.Address.Street,
		City:               a.Contact.Address.City,
		State:              a.Contact.Address.State,
		PostalCode:         a.Contact.Address.PostalCode,
		HomeType:           a.Home.Type,
		YardSize:           a.Home.YardSize,
		HoursAlone:         a.Home.HoursAlone,
		OtherPets:          a.Experience.OtherPets,
		PreviousExperience: a.Experience.PreviousExperience,
		Reason:             a.Reason,
		Status:             string(a.Status),
		RequestedAt:        a.RequestedAt,
		UpdatedAt:          toNullTime(a.UpdatedAt),
	}
}

func fromRows(row listingRow, reqs []requestRow) listings.Listing {
	l := listings.Listing{
		ID:          row.ID,
		Name:        row.Name,
		Species:     row.Species,
		Age:         row.Age,
		Description: row.Description,
		Image:       row.Image,
		OwnerEmail:  row.OwnerEmail,
		OwnerContact: listings.OwnerContact{
			Name:  row.OwnerName,
			Phone: row.OwnerPhone,
			Address: listings.Address{
				Street:     row.OwnerStreet,
				City:       row.OwnerCity,
				State:      row.OwnerState,
				PostalCode: row.OwnerPostalCode,
			},
		},
		Status:    listings.ListingStatus(row.Status),
		Requests:  make([]listings.AdoptionRequest, 0, len(reqs)),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
		Version:   row.Version,
	}
	for _, rr := range reqs {
		l.Requests = append(l.Requests, listings.AdoptionRequest{
			ID:             rr.ID,
			RequesterEmail: rr.RequesterEmail,
			RequesterName:  rr.RequesterName,
			Contact: listings.ContactInfo{
				Phone: rr.Phone,
				Address: listings.Address{
					Street:     rr.Street,
					City:       rr.City,
					State:      rr.State,
					PostalCode: rr.PostalCode,
				},
			},
			Home: listings.HomeInfo{
				Type:       rr.HomeType,
				YardSize:   rr.YardSize,
				HoursAlone: rr.HoursAlone,
			},
			Experience: listings.Experience{
				OtherPets:          rr.OtherPets,
				PreviousExperience: rr.PreviousExperience,
			},
			Reason:      rr.Reason,
			Status:      listings.RequestStatus(rr.Status),
			RequestedAt: rr.RequestedAt,
			UpdatedAt:   fromNullTime(rr.UpdatedAt),
		})
	}
	return l
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func fromNullTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
