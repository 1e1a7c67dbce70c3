package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pet-adoption-marketplace/internal/adapters/auth/jwtauth"
	"pet-adoption-marketplace/internal/adapters/blob/local"
	"pet-adoption-marketplace/internal/router"
)

const (
	ownerEmail = "owner@example.com"
	aliceEmail = "alice@example.com"
	bobEmail   = "bob@example.com"
)

func newDevServer(t *testing.T) *httptest.Server {
	t.Helper()

	blobs, err := local.New(t.TempDir())
	if err != nil {
		t.Fatalf("local blobs: %v", err)
	}
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil, Blobs: blobs}))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd_AdoptionLifecycle(t *testing.T) {
	ts := newDevServer(t)

	// 1) Dueño publica
	listing := createListing(t, ts.URL, ownerEmail, "age", "3", "image.png")
	listingID := listing.ID

	// 2) Aparece en el listado público como Available
	{
		st, body := doReq(t, ts.URL, "GET", "/api/pet-listings", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list, got %d body=%s", st, string(body))
		}
		var items []listingBody
		_ = json.Unmarshal(body, &items)
		if len(items) != 1 || items[0].Status != "Available" {
			t.Fatalf("expected one Available listing, got %s", string(body))
		}
	}

	// 3) Alice y Bob solicitan
	aliceReq := submitRequest(t, ts.URL, aliceEmail, listingID)
	bobReq := submitRequest(t, ts.URL, bobEmail, listingID)

	// 4) Alice no puede duplicar mientras la suya esté Pending
	{
		st, body := doReq(t, ts.URL, "POST", "/api/adoption-request", aliceEmail, requestPayload(listingID))
		if st != http.StatusConflict {
			t.Fatalf("expected 409 duplicate request, got %d body=%s", st, string(body))
		}
		var e errorBody
		_ = json.Unmarshal(body, &e)
		if e.RequestID != aliceReq {
			t.Fatalf("expected request_id %q in conflict, got %q", aliceReq, e.RequestID)
		}
	}

	// 5) Bob no puede decidir sobre una publicación ajena
	{
		st, _ := doReq(t, ts.URL, "PUT", "/api/adoption-request/"+listingID+"/"+aliceReq, bobEmail,
			map[string]any{"status": "Approved"})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 non-owner decision, got %d", st)
		}
	}

	// 6) El dueño aprueba a Alice: Bob queda Rejected y la publicación Adopted
	{
		st, body := doReq(t, ts.URL, "PUT", "/api/adoption-request/"+listingID+"/"+aliceReq, ownerEmail,
			map[string]any{"status": "Approved"})
		if st != http.StatusOK {
			t.Fatalf("expected 200 approve, got %d body=%s", st, string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/api/pet-listings/"+listingID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get listing, got %d body=%s", st, string(body))
		}
		var l listingBody
		_ = json.Unmarshal(body, &l)
		if l.Status != "Adopted" {
			t.Fatalf("expected Adopted, got %q", l.Status)
		}
		got := map[string]string{}
		for _, r := range l.Requests {
			got[r.ID] = r.Status
		}
		if got[aliceReq] != "Approved" || got[bobReq] != "Rejected" {
			t.Fatalf("unexpected request statuses: %v", got)
		}
	}

	// 7) Adoptada: sale del listado público y no acepta solicitudes
	{
		_, body := doReq(t, ts.URL, "GET", "/api/pet-listings", "", nil)
		var items []listingBody
		_ = json.Unmarshal(body, &items)
		if len(items) != 0 {
			t.Fatalf("expected adopted listing hidden, got %s", string(body))
		}
	}
	{
		st, _ := doReq(t, ts.URL, "POST", "/api/adoption-request", "carol@example.com", requestPayload(listingID))
		if st != http.StatusConflict {
			t.Fatalf("expected 409 on adopted listing, got %d", st)
		}
	}

	// 8) Una segunda aprobación tampoco pasa
	{
		st, _ := doReq(t, ts.URL, "PUT", "/api/adoption-request/"+listingID+"/"+bobReq, ownerEmail,
			map[string]any{"status": "Approved"})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 second approval, got %d", st)
		}
	}

	// 9) Alice ve su solicitud aprobada con el contacto del dueño
	{
		st, body := doReq(t, ts.URL, "GET", "/api/my-adoption-requests", aliceEmail, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 my requests, got %d body=%s", st, string(body))
		}
		var items []struct {
			RequestID string `json:"request_id"`
			Status    string `json:"status"`
			Pet       struct {
				ID           string `json:"id"`
				OwnerContact struct {
					Phone string `json:"phone"`
				} `json:"owner_contact"`
			} `json:"pet"`
		}
		_ = json.Unmarshal(body, &items)
		if len(items) != 1 || items[0].RequestID != aliceReq || items[0].Status != "Approved" {
			t.Fatalf("unexpected my requests: %s", string(body))
		}
		if items[0].Pet.ID != listingID || items[0].Pet.OwnerContact.Phone != "5551234567" {
			t.Fatalf("unexpected pet summary: %s", string(body))
		}
	}
}

func TestHTTP_RejectRevertsAndWithdraw(t *testing.T) {
	ts := newDevServer(t)

	listingID := createListing(t, ts.URL, ownerEmail, "age", "2", "cat.jpg").ID
	aliceReq := submitRequest(t, ts.URL, aliceEmail, listingID)

	// Rechazar la única Pending vuelve a Available
	{
		st, body := doReq(t, ts.URL, "PUT", "/api/adoption-request/"+listingID+"/"+aliceReq, ownerEmail,
			map[string]any{"status": "Rejected"})
		if st != http.StatusOK {
			t.Fatalf("expected 200 reject, got %d body=%s", st, string(body))
		}
		if got := listingStatus(t, ts.URL, listingID); got != "Available" {
			t.Fatalf("expected Available after reject, got %q", got)
		}
	}

	// Tras un rechazo puede volver a solicitar
	again := submitRequest(t, ts.URL, aliceEmail, listingID)
	if got := listingStatus(t, ts.URL, listingID); got != "Pending" {
		t.Fatalf("expected Pending, got %q", got)
	}

	// Bob no puede retirar la solicitud de Alice
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/api/adoption-request/"+again, bobEmail, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 withdraw by other user, got %d", st)
		}
	}

	// Alice retira: sin Pending, vuelve a Available
	{
		st, body := doReq(t, ts.URL, "DELETE", "/api/adoption-request/"+again, aliceEmail, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 withdraw, got %d body=%s", st, string(body))
		}
		if got := listingStatus(t, ts.URL, listingID); got != "Available" {
			t.Fatalf("expected Available after withdraw, got %q", got)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/api/adoption-request/"+again, aliceEmail, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 on second withdraw, got %d", st)
		}
	}

	// Cambio manual de estado y borrado, solo el dueño
	{
		st, _ := doReq(t, ts.URL, "PATCH", "/api/pet-listing/"+listingID, aliceEmail, map[string]any{"status": "Adopted"})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 status change by non-owner, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "PATCH", "/api/pet-listing/"+listingID, ownerEmail, map[string]any{"status": "Sold"})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 invalid status, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "PATCH", "/api/pet-listing/"+listingID, ownerEmail, map[string]any{})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 missing status, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/api/pet-listing/"+listingID, aliceEmail, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 delete by non-owner, got %d", st)
		}
		st, body := doReq(t, ts.URL, "DELETE", "/api/pet-listing/"+listingID, ownerEmail, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 delete, got %d body=%s", st, string(body))
		}
		st, _ = doReq(t, ts.URL, "GET", "/api/pet-listings/"+listingID, "", nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 after delete, got %d", st)
		}
	}
}

func TestHTTP_IdentityCaseAndStatusNoop(t *testing.T) {
	ts := newDevServer(t)

	listingID := createListing(t, ts.URL, "Owner@Example.com", "age", "4", "image.png").ID

	// Mismo dueño con otro casing en el header
	{
		st, body := doReq(t, ts.URL, "PATCH", "/api/pet-listing/"+listingID, "OWNER@example.com",
			map[string]any{"status": "Pending"})
		if st != http.StatusOK {
			t.Fatalf("expected 200 status change by same owner, got %d body=%s", st, string(body))
		}
	}

	// Repetir el estado actual es 409
	{
		st, _ := doReq(t, ts.URL, "PATCH", "/api/pet-listing/"+listingID, ownerEmail,
			map[string]any{"status": "Pending"})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 unchanged status, got %d", st)
		}
	}

	// Retirar la solicitud aprobada reabre la publicación
	reqID := submitRequest(t, ts.URL, aliceEmail, listingID)
	{
		st, body := doReq(t, ts.URL, "PUT", "/api/adoption-request/"+listingID+"/"+reqID, ownerEmail,
			map[string]any{"status": "Approved"})
		if st != http.StatusOK {
			t.Fatalf("expected 200 approve, got %d body=%s", st, string(body))
		}
		st, body = doReq(t, ts.URL, "DELETE", "/api/adoption-request/"+reqID, "Alice@Example.com", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 withdraw approved, got %d body=%s", st, string(body))
		}
		if got := listingStatus(t, ts.URL, listingID); got != "Available" {
			t.Fatalf("expected Available after approved withdrawn, got %q", got)
		}
	}
}

func TestHTTP_CreateListing_Validation(t *testing.T) {
	ts := newDevServer(t)

	// Sin identidad
	{
		st, _ := postMultipart(t, ts.URL, "", listingForm("age", "3"), "image.png")
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 without identity, got %d", st)
		}
	}

	// Extensión no permitida
	{
		st, body := postMultipart(t, ts.URL, ownerEmail, listingForm("age", "3"), "notes.txt")
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 bad extension, got %d body=%s", st, string(body))
		}
	}

	// Edad inválida => 422 con el campo
	{
		st, body := postMultipart(t, ts.URL, ownerEmail, listingForm("age", "abc"), "image.png")
		if st != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422 bad age, got %d body=%s", st, string(body))
		}
		var e errorBody
		_ = json.Unmarshal(body, &e)
		if _, ok := e.Fields["age"]; !ok {
			t.Fatalf("expected age field error, got %s", string(body))
		}
	}

	// Teléfono corto => 422
	{
		form := listingForm("phone", "123")
		st, _ := postMultipart(t, ts.URL, ownerEmail, form, "image.png")
		if st != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422 bad phone, got %d", st)
		}
	}

	// Solicitud sin campos requeridos => 400
	{
		listingID := createListing(t, ts.URL, ownerEmail, "age", "1", "dog.gif").ID
		st, _ := doReq(t, ts.URL, "POST", "/api/adoption-request", aliceEmail, map[string]any{
			"pet_listing_id": listingID,
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 missing fields, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "POST", "/api/adoption-request", aliceEmail, requestPayload("missing"))
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 unknown listing, got %d", st)
		}
	}
}

func TestHTTP_ImageServedFromUploads(t *testing.T) {
	ts := newDevServer(t)

	l := createListing(t, ts.URL, ownerEmail, "age", "3", "image.png")
	if !strings.HasPrefix(l.Image, ts.URL+"/uploads/") {
		t.Fatalf("expected absolute image url, got %q", l.Image)
	}

	resp, err := http.Get(l.Image)
	if err != nil {
		t.Fatalf("get image: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(b) != "fake-png-bytes" {
		t.Fatalf("unexpected image response: %d %q", resp.StatusCode, string(b))
	}

	st, _ := doReq(t, ts.URL, "GET", "/uploads/nope.png", "", nil)
	if st != http.StatusNotFound {
		t.Fatalf("expected 404 missing image, got %d", st)
	}
}

func TestHTTP_AdminRoutes(t *testing.T) {
	ts := newDevServer(t)
	createListing(t, ts.URL, ownerEmail, "age", "3", "image.png")

	st, _ := doReq(t, ts.URL, "GET", "/api/admin/pet-listings", "", nil)
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", st)
	}
	st, _ = doReq(t, ts.URL, "GET", "/api/admin/pet-listings", aliceEmail, nil)
	if st != http.StatusForbidden {
		t.Fatalf("expected 403 for regular user, got %d", st)
	}

	req := newReq(t, ts.URL, "GET", "/api/admin/pet-listings", "admin@example.com", nil)
	req.Header.Set("X-Debug-User-Role", "admin")
	st, body := send(t, req)
	if st != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d body=%s", st, string(body))
	}
	var items []listingBody
	_ = json.Unmarshal(body, &items)
	if len(items) != 1 {
		t.Fatalf("expected 1 listing, got %s", string(body))
	}
}

func TestHTTP_SignupLoginWithJWT(t *testing.T) {
	tokens, err := jwtauth.New(jwtauth.Config{Secret: strings.Repeat("s", 32)})
	if err != nil {
		t.Fatalf("jwt: %v", err)
	}
	blobs, err := local.New(t.TempDir())
	if err != nil {
		t.Fatalf("local blobs: %v", err)
	}
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: tokens, Issuer: tokens, Blobs: blobs}))
	defer ts.Close()

	st, body := doReq(t, ts.URL, "POST", "/api/signup", "", map[string]any{
		"name": "Alice", "email": "Alice@Example.com", "password": "supersecret",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 signup, got %d body=%s", st, string(body))
	}

	st, _ = doReq(t, ts.URL, "POST", "/api/signup", "", map[string]any{
		"name": "Alice", "email": "alice@example.com", "password": "supersecret",
	})
	if st != http.StatusConflict {
		t.Fatalf("expected 409 duplicate signup, got %d", st)
	}

	st, _ = doReq(t, ts.URL, "POST", "/api/login", "", map[string]any{
		"email": "alice@example.com", "password": "wrong-password",
	})
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 bad credentials, got %d", st)
	}

	st, body = doReq(t, ts.URL, "POST", "/api/login", "", map[string]any{
		"email": "alice@example.com", "password": "supersecret",
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 login, got %d body=%s", st, string(body))
	}
	var tok struct {
		AccessToken string `json:"access_token"`
		Role        string `json:"role"`
	}
	_ = json.Unmarshal(body, &tok)
	if tok.AccessToken == "" || tok.Role != "user" {
		t.Fatalf("unexpected token response: %s", string(body))
	}

	// Los headers de debug no valen con verifier
	st, _ = doReq(t, ts.URL, "GET", "/api/me", aliceEmail, nil)
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 with debug headers in jwt mode, got %d", st)
	}

	req := newReq(t, ts.URL, "GET", "/api/me", "", nil)
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	st, body = send(t, req)
	if st != http.StatusOK || !strings.Contains(string(body), "alice@example.com") {
		t.Fatalf("expected 200 me, got %d body=%s", st, string(body))
	}
}

func TestHTTP_HealthAndSwagger(t *testing.T) {
	ts := newDevServer(t)

	st, body := doReq(t, ts.URL, "GET", "/health", "", nil)
	if st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("expected health ok, got %d %q", st, string(body))
	}

	st, body = doReq(t, ts.URL, "GET", "/swagger/doc.json", "", nil)
	if st != http.StatusOK || !strings.Contains(string(body), "/api/adoption-request") {
		t.Fatalf("expected swagger doc, got %d", st)
	}
}

// -------------------------
// helpers
// -------------------------

type listingBody struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Image    string `json:"image"`
	Requests []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"adoption_requests"`
}

type errorBody struct {
	Error     string            `json:"error"`
	Fields    map[string]string `json:"fields"`
	RequestID string            `json:"request_id"`
}

func listingForm(overrideKey, overrideVal string) map[string]string {
	form := map[string]string{
		"name":        "Milo",
		"species":     "dog",
		"age":         "3",
		"description": "friendly",
		"ownerName":   "Olga",
		"phone":       "5551234567",
		"street":      "1 Main St",
		"city":        "Springfield",
		"state":       "IL",
		"postalCode":  "62701",
	}
	form[overrideKey] = overrideVal
	return form
}

func createListing(t *testing.T, baseURL, email, overrideKey, overrideVal, filename string) listingBody {
	t.Helper()

	st, body := postMultipart(t, baseURL, email, listingForm(overrideKey, overrideVal), filename)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create listing, got %d body=%s", st, string(body))
	}

	var resp struct {
		Listing listingBody `json:"listing"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Listing.ID == "" {
		t.Fatalf("create listing: missing id body=%s", string(body))
	}
	return resp.Listing
}

func requestPayload(listingID string) map[string]any {
	return map[string]any{
		"pet_listing_id": listingID,
		"contact":        5559876543,
		"address":        "2 Elm St",
		"city":           "Springfield",
		"state":          "IL",
		"postalCode":     62702,
		"homeType":       "house",
		"yardSize":       "large",
		"hoursAlone":     4,
		"otherPets":      "none",
		"petExperience":  "grew up with dogs",
		"adoptionReason": "companionship",
	}
}

func submitRequest(t *testing.T, baseURL, email, listingID string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/api/adoption-request", email, requestPayload(listingID))
	if st != http.StatusCreated {
		t.Fatalf("expected 201 submit request, got %d body=%s", st, string(body))
	}

	var resp struct {
		Request struct {
			ID string `json:"id"`
		} `json:"request"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Request.ID == "" {
		t.Fatalf("submit request: missing id body=%s", string(body))
	}
	return resp.Request.ID
}

func listingStatus(t *testing.T, baseURL, listingID string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "GET", "/api/pet-listings/"+listingID, "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 get listing, got %d body=%s", st, string(body))
	}
	var l listingBody
	_ = json.Unmarshal(body, &l)
	return l.Status
}

func postMultipart(t *testing.T, baseURL, email string, fields map[string]string, filename string) (int, []byte) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	fw, err := mw.CreateFormFile("image", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = fw.Write([]byte("fake-png-bytes"))
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req, err := http.NewRequest("POST", baseURL+"/api/pet-listing", &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if email != "" {
		req.Header.Set("X-Debug-User-Email", email)
	}
	return send(t, req)
}

func newReq(t *testing.T, baseURL, method, path, email string, payload any) *http.Request {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if email != "" {
		req.Header.Set("X-Debug-User-Email", email)
	}
	return req
}

func send(t *testing.T, req *http.Request) (int, []byte) {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b
}

func doReq(t *testing.T, baseURL, method, path, email string, payload any) (int, []byte) {
	t.Helper()
	return send(t, newReq(t, baseURL, method, path, email, payload))
}
