package listings

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"pet-adoption-marketplace/internal/apperr"
	"pet-adoption-marketplace/internal/middleware"
	"pet-adoption-marketplace/internal/platform/logger"
	"pet-adoption-marketplace/internal/ports/auth"
	"pet-adoption-marketplace/internal/ports/blob"
)

const (
	uploadsPrefix  = "/uploads/"
	maxUploadBytes = 10 << 20
)

var allowedImageExt = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
}

// RegisterRoutes monta las rutas del módulo sobre el subrouter /api.
func RegisterRoutes(r chi.Router, svc *Service, blobs blob.Storage, log logger.Logger) {
	if log == nil {
		log = logger.NewNop()
	}

	// Publicaciones
	r.Post("/pet-listing", createListingHandler(svc, blobs, log))
	r.Patch("/pet-listing/{listingID}", updatePetStatusHandler(svc))
	r.Delete("/pet-listing/{listingID}", deleteListingHandler(svc, blobs, log))

	r.Get("/pet-listings", listAvailableHandler(svc))
	r.Get("/pet-listings/{listingID}", getListingHandler(svc))
	r.Get("/my-pet-listings", listOwnedHandler(svc))

	// Solicitudes de adopción
	r.Post("/adoption-request", submitRequestHandler(svc))
	r.Put("/adoption-request/{listingID}/{requestID}", updateRequestStatusHandler(svc))
	r.Delete("/adoption-request/{requestID}", withdrawRequestHandler(svc))
	r.Get("/my-adoption-requests", listMyRequestsHandler(svc))

	// Admin
	r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/admin/pet-listings", listAllHandler(svc))
}

// RegisterUploadRoutes sirve las imágenes fuera de /api.
func RegisterUploadRoutes(r chi.Router, blobs blob.Storage) {
	r.Get(uploadsPrefix+"{key}", serveImageHandler(blobs))
}

// flexString acepta "3" o 3 (el form del frontend manda ambos).
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type submitRequestRequest struct {
	PetListingID string `json:"pet_listing_id"`

	Contact    flexString `json:"contact"`
	Address    string     `json:"address"`
	City       string     `json:"city"`
	State      string     `json:"state"`
	PostalCode flexString `json:"postalCode"`

	HomeType   string     `json:"homeType"`
	YardSize   flexString `json:"yardSize"`
	HoursAlone flexString `json:"hoursAlone"`

	OtherPets      string `json:"otherPets"`
	PetExperience  string `json:"petExperience"`
	AdoptionReason string `json:"adoptionReason"`
}

type submitRequestResponse struct {
	Message      string                  `json:"message"`
	Request      adoptionRequestResponse `json:"request"`
	PetListingID string                  `json:"pet_listing_id"`
}

type createListingResponse struct {
	Message string          `json:"message"`
	Listing listingResponse `json:"listing"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// createListingHandler godoc
// @Summary Publicar mascota
// @Description Form multipart con los datos de la mascota y el campo "image" (png, jpg, jpeg, gif).
// @Tags listings
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Nombre"
// @Param species formData string true "Especie"
// @Param age formData int true "Edad"
// @Param description formData string true "Descripción"
// @Param ownerName formData string true "Nombre del dueño"
// @Param phone formData string true "Teléfono (10 dígitos)"
// @Param street formData string true "Calle"
// @Param city formData string true "Ciudad"
// @Param state formData string true "Estado"
// @Param postalCode formData string true "Código postal"
// @Param image formData file true "Imagen"
// @Success 201 {object} createListingResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 422 {object} errorResponse
// @Router /api/pet-listing [post]
func createListingHandler(svc *Service, blobs blob.Storage, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "authentication required")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeMessage(w, http.StatusBadRequest, "No form data received")
			return
		}

		in := CreateInput{
			Name:        r.FormValue("name"),
			Species:     r.FormValue("species"),
			Description: r.FormValue("description"),
			OwnerName:   r.FormValue("ownerName"),
			Phone:       r.FormValue("phone"),
			Street:      r.FormValue("street"),
			City:        r.FormValue("city"),
			State:       r.FormValue("state"),
			PostalCode:  r.FormValue("postalCode"),
		}
		// Edad no numérica se reporta igual que edad <= 0.
		if age, err := strconv.Atoi(strings.TrimSpace(r.FormValue("age"))); err == nil {
			in.Age = age
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "No image file provided")
			return
		}
		defer file.Close()

		if strings.TrimSpace(header.Filename) == "" {
			writeMessage(w, http.StatusBadRequest, "No selected image file")
			return
		}
		if _, ok := allowedImageExt[strings.ToLower(filepath.Ext(header.Filename))]; !ok {
			writeMessage(w, http.StatusBadRequest, "Invalid file type. Allowed types: png, jpg, jpeg, gif")
			return
		}

		// Validamos antes de subir para no dejar blobs huérfanos por input inválido.
		if err := validateStruct("listings.CreateListing", in.normalized()); err != nil {
			writeError(w, err, http.StatusUnprocessableEntity)
			return
		}

		key, err := blobs.Put(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
		if err != nil {
			log.Error("image upload failed", map[string]any{"error": err.Error()})
			writeMessage(w, http.StatusInternalServerError, "Failed to save image")
			return
		}

		l, err := svc.CreateListing(r.Context(), claims, in, uploadsPrefix+key)
		if err != nil {
			if derr := blobs.Delete(r.Context(), key); derr != nil {
				log.Warn("image rollback failed", map[string]any{"key": key, "error": derr.Error()})
			}
			writeError(w, err, http.StatusUnprocessableEntity)
			return
		}

		writeJSON(w, http.StatusCreated, createListingResponse{
			Message: "Pet listing created successfully!",
			Listing: toListingResponse(r, l),
		})
	}
}

// listAvailableHandler godoc
// @Summary Publicaciones visibles
// @Description Publicaciones en estado Available o Pending, en orden de creación.
// @Tags listings
// @Produce json
// @Success 200 {array} listingResponse
// @Router /api/pet-listings [get]
func listAvailableHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListAvailableListings(r.Context())
		if err != nil {
			writeError(w, err, http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, toListingResponses(r, items))
	}
}

func getListingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, err := svc.GetListing(r.Context(), chi.URLParam(r, "listingID"))
		if err != nil {
			writeError(w, err, http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, toListingResponse(r, l))
	}
}

func listOwnedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "authentication required")
			return
		}
		items, err := svc.ListOwnedListings(r.Context(), claims)
		if err != nil {
			writeError(w, err, http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, toListingResponses(r, items))
	}
}

func listAllHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		items, err := svc.ListAllListings(r.Context(), claims)
		if err != nil {
			writeError(w, err, http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, toListingResponses(r, items))
	}
}

// submitRequestHandler godoc
// @Summary Solicitar adopción
// @Tags adoption-requests
// @Accept json
// @Produce json
// @Param body body submitRequestRequest true "Formulario de adopción"
// @Success 201 {object} submitRequestResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /api/adoption-request [post]
func submitRequestHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "authentication required")
			return
		}

		var req submitRequestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid json")
			return
		}

		created, err := svc.SubmitAdoptionRequest(r.Context(), claims, req.PetListingID, RequestDetails{
			Contact:        string(req.Contact),
			Address:        req.Address,
			City:           req.City,
			State:          req.State,
			PostalCode:     string(req.PostalCode),
			HomeType:       req.HomeType,
			YardSize:       string(req.YardSize),
			HoursAlone:     string(req.HoursAlone),
			OtherPets:      req.OtherPets,
			PetExperience:  req.PetExperience,
			AdoptionReason: req.AdoptionReason,
		})
		if err != nil {
			writeError(w, err, http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, submitRequestResponse{
			Message:      "Adoption request submitted!",
			Request:      toRequestResponse(created),
			PetListingID: strings.TrimSpace(req.PetListingID),
		})
	}
}

// updateRequestStatusHandler godoc
// @Summary Aprobar o rechazar una solicitud
// @Description Solo el dueño. Aprobar rechaza el resto de Pending y deja la publicación Adopted.
// @Tags adoption-requests
// @Accept json
// @Produce json
// @Param listingID path string true "Publicación"
// @Param requestID path string true "Solicitud"
// @Param body body statusRequest true "Approved | Rejected"
// @Success 200 {object} messageResponse
// @Failure 400 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /api/adoption-request/{listingID}/{requestID} [put]
func updateRequestStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "authentication required")
			return
		}

		var req statusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Status) == "" {
			writeMessage(w, http.StatusBadRequest, "Missing status in request body")
			return
		}

		status := RequestStatus(strings.TrimSpace(req.Status))
		err := svc.UpdateRequestStatus(r.Context(), claims,
			chi.URLParam(r, "listingID"), chi.URLParam(r, "requestID"), status)
		if err != nil {
			writeError(w, err, http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusOK, messageResponse{
			Message: "Request " + strings.ToLower(string(status)) + " successfully",
		})
	}
}

func updatePetStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "authentication required")
			return
		}

		var req statusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Status) == "" {
			writeMessage(w, http.StatusBadRequest, "Missing status field")
			return
		}

		err := svc.UpdatePetStatus(r.Context(), claims, chi.URLParam(r, "listingID"),
			ListingStatus(strings.TrimSpace(req.Status)))
		if err != nil {
			writeError(w, err, http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Pet status updated successfully"})
	}
}

func deleteListingHandler(svc *Service, blobs blob.Storage, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "authentication required")
			return
		}

		l, err := svc.DeleteListing(r.Context(), claims, chi.URLParam(r, "listingID"))
		if err != nil {
			writeError(w, err, http.StatusBadRequest)
			return
		}

		// Best effort: la publicación ya no existe aunque falle el borrado de la imagen.
		if key := strings.TrimPrefix(l.Image, uploadsPrefix); key != "" && key != l.Image {
			if err := blobs.Delete(r.Context(), key); err != nil && !errors.Is(err, blob.ErrNotFound) {
				log.Warn("image delete failed", map[string]any{"listing_id": l.ID, "key": key, "error": err.Error()})
			}
		}

		writeJSON(w, http.StatusOK, messageResponse{Message: "Pet listing deleted successfully"})
	}
}

func listMyRequestsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "authentication required")
			return
		}

		items, err := svc.ListRequestsForRequester(r.Context(), claims)
		if err != nil {
			writeError(w, err, http.StatusBadRequest)
			return
		}

		out := make([]requesterRequestResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toRequesterRequestResponse(r, it))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func withdrawRequestHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "authentication required")
			return
		}

		if err := svc.WithdrawRequest(r.Context(), claims, chi.URLParam(r, "requestID")); err != nil {
			writeError(w, err, http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Adoption request removed successfully"})
	}
}

func serveImageHandler(blobs blob.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc, contentType, err := blobs.Open(r.Context(), chi.URLParam(r, "key"))
		if err != nil {
			if errors.Is(err, blob.ErrNotFound) {
				writeMessage(w, http.StatusNotFound, "image not found")
				return
			}
			writeMessage(w, http.StatusInternalServerError, "internal error")
			return
		}
		defer rc.Close()

		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = io.Copy(w, rc)
	}
}

// writeError traduce el tipo de error a status. validationStatus permite 422 en el alta.
func writeError(w http.ResponseWriter, err error, validationStatus int) {
	e, ok := apperr.As(err)
	if !ok {
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}

	var status int
	switch e.Kind {
	case apperr.KindValidation:
		status = validationStatus
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindAuthorization:
		status = http.StatusForbidden
	default:
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, status, errorResponse{
		Error:     e.Msg,
		Fields:    e.Fields,
		RequestID: e.RequestID,
	})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
