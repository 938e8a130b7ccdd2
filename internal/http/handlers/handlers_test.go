package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"fleetmove/internal/domain"
	"fleetmove/internal/domain/models"
	"fleetmove/internal/http/middleware"
	"fleetmove/internal/repositories"
	"fleetmove/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memStore keeps transport requests in memory for handler tests.
type memStore struct {
	mu      sync.Mutex
	records map[int64]repositories.TransportRequestRecord
	nextID  int64
}

func newMemStore(recs ...repositories.TransportRequestRecord) *memStore {
	m := &memStore{records: map[int64]repositories.TransportRequestRecord{}, nextID: 100}
	for _, r := range recs {
		m.records[r.ID] = r
	}
	return m
}

func (m *memStore) List(ctx context.Context, p domain.PageParams) ([]repositories.TransportRequestRecord, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []repositories.TransportRequestRecord{}
	for _, r := range m.records {
		out = append(out, r)
	}
	return out, len(out), nil
}

func (m *memStore) GetByID(ctx context.Context, id int64) (repositories.TransportRequestRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return r, domain.NotFoundError{Resource: "transport request", ID: id}
	}
	return r, nil
}

func (m *memStore) Create(ctx context.Context, rec repositories.TransportRequestRecord) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	rec.ID = m.nextID
	m.records[rec.ID] = rec
	return rec.ID, nil
}

func (m *memStore) Update(ctx context.Context, rec repositories.TransportRequestRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[rec.ID]; !ok {
		return domain.NotFoundError{Resource: "transport request", ID: rec.ID}
	}
	m.records[rec.ID] = rec
	return nil
}

func (m *memStore) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

func (m *memStore) ListForDriver(ctx context.Context, driverID int64, from, to time.Time) ([]repositories.TransportRequestRecord, error) {
	return nil, nil
}

func (m *memStore) ApplyTripEvent(ctx context.Context, id int64, from []string, to string, log models.TripLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return domain.NotFoundError{Resource: "transport request", ID: id}
	}
	for _, s := range from {
		if r.Status == s {
			r.Status = to
			m.records[id] = r
			return nil
		}
	}
	return domain.ConflictError{Resource: "transport request", Msg: "cannot change status"}
}

type memDrivers map[int64]models.Driver

func (m memDrivers) GetByID(ctx context.Context, id int64) (models.Driver, error) {
	d, ok := m[id]
	if !ok {
		return d, domain.NotFoundError{Resource: "driver", ID: id}
	}
	return d, nil
}

func seedRecord(id int64, status string) repositories.TransportRequestRecord {
	driver := int64(3)
	at := time.Date(2025, 3, 1, 8, 30, 0, 0, time.UTC)
	return repositories.TransportRequestRecord{
		ID: id, RiderType: "guest", PassengerName: "Sarah Chen", PassengerDepartment: "Acme",
		PassengerEmail: "sarah@acme.test", PickupLocation: "NAIA", DropoffLocation: "Clark",
		PickupAt: at, DropoffAt: at.Add(2 * time.Hour), Purpose: "Transfer", Status: status,
		MoveDriverID: &driver, ExternalServiceProvider: "none", Notes: "-",
	}
}

func newTestEngine(store *memStore) *gin.Engine {
	loc := time.FixedZone("PHT", 8*3600)
	drivers := memDrivers{3: {ID: 3, Name: "Juan Santos"}}
	tr := TransportRequestHandler{
		Service: services.TransportRequestService{Repo: store, Loc: loc},
		Docs:    services.DocsService{Drivers: drivers},
	}
	trips := TripHandler{Service: services.TripService{Requests: store, Drivers: drivers, Loc: loc}}

	r := gin.New()
	r.Use(middleware.RequestID())
	g := r.Group("/api/move")
	g.GET("/transport-requests", tr.List)
	g.POST("/transport-requests", tr.Create)
	g.GET("/transport-requests/:id", tr.Get)
	g.PATCH("/transport-requests/:id", tr.Update)
	g.DELETE("/transport-requests/:id", tr.Delete)
	g.GET("/transport-requests/:id/trip-ticket", tr.TripTicket)
	g.POST("/transport-requests/:id/start", trips.Start)
	g.GET("/drivers/:id/board", trips.Board)
	g.GET("/drivers/:id", DriverHandler{Drivers: drivers}.Get)
	return r
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validPayload() models.TransportRequestInput {
	return models.TransportRequestInput{
		RiderType: "guest", PassengerName: "Sarah Chen", PassengerDepartment: "Acme",
		PassengerEmail: "sarah@acme.test", PickupLocation: "NAIA", DropoffLocation: "Clark",
		PickupDateTime: "2025-03-01 16:30", DropoffDateTime: "2025-03-01 18:30", Purpose: "Transfer",
		Status: "approved", MoveDriverID: "3", MoveVehicleID: "9", ExternalServiceFlag: "false",
		ExternalServiceProvider: "none", Notes: "-",
	}
}

func TestListTransportRequests(t *testing.T) {
	r := newTestEngine(newMemStore(seedRecord(7, models.StatusPending)))
	w := doJSON(r, http.MethodGet, "/api/move/transport-requests?page=1&limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page domain.Page[models.TransportRequest]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Records, 1)
	assert.Equal(t, "2025-03-01 16:30:00", page.Records[0].PickupDateTime)
	assert.Equal(t, 5, page.Limit)
}

func TestCreateValidationReportsFields(t *testing.T) {
	r := newTestEngine(newMemStore())
	w := doJSON(r, http.MethodPost, "/api/move/transport-requests", map[string]string{"rider_type": "guest"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validation failed", body.Message)
	assert.Equal(t, "validation_error", body.Code)
	assert.NotEmpty(t, body.RequestID)
	details, ok := body.Details.(map[string]any)
	require.True(t, ok)
	assert.Len(t, details, 14)
	assert.Equal(t, "Required", details["notes"])
}

func TestCreateAndPatch(t *testing.T) {
	store := newMemStore(seedRecord(7, models.StatusPending))
	r := newTestEngine(store)

	w := doJSON(r, http.MethodPost, "/api/move/transport-requests", validPayload())
	require.Equal(t, http.StatusCreated, w.Code)

	in := validPayload()
	in.Status = "approved"
	w = doJSON(r, http.MethodPatch, "/api/move/transport-requests/7", in)
	require.Equal(t, http.StatusOK, w.Code)
	var tr models.TransportRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tr))
	assert.Equal(t, int64(7), tr.ID)
	assert.Equal(t, "approved", tr.Status)
	assert.Equal(t, int64(9), *tr.MoveVehicleID)
}

func TestDeleteErrors(t *testing.T) {
	r := newTestEngine(newMemStore(seedRecord(7, models.StatusInProgress)))

	w := doJSON(r, http.MethodDelete, "/api/move/transport-requests/7", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "cannot delete a transport request while its trip is in progress")

	w = doJSON(r, http.MethodDelete, "/api/move/transport-requests/8", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodDelete, "/api/move/transport-requests/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStartTripTransitions(t *testing.T) {
	r := newTestEngine(newMemStore(seedRecord(7, models.StatusApproved)))
	body := models.TripActionInput{OdometerKM: "1200", PassengerCount: "1", Location: "NAIA", Date: "2025-03-01", Time: "14:30"}

	w := doJSON(r, http.MethodPost, "/api/move/transport-requests/7/start", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"in_progress"`)

	w = doJSON(r, http.MethodPost, "/api/move/transport-requests/7/start", body)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestTripTicketPDF(t *testing.T) {
	r := newTestEngine(newMemStore(seedRecord(7, models.StatusApproved)))
	w := doJSON(r, http.MethodGet, "/api/move/transport-requests/7/trip-ticket", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "TRIP_TICKET_7_Sarah_Chen.pdf")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestDriverLookup(t *testing.T) {
	r := newTestEngine(newMemStore())
	w := doJSON(r, http.MethodGet, "/api/move/drivers/3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Juan Santos")

	w = doJSON(r, http.MethodGet, "/api/move/drivers/4", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateRejectsDisplayNameEmail(t *testing.T) {
	store := newMemStore()
	r := newTestEngine(store)

	in := validPayload()
	in.PassengerEmail = "Bob Smith <bob@acme.test>"
	w := doJSON(r, http.MethodPost, "/api/move/transport-requests", in)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	details, ok := body.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"passenger_email": "must be a valid email address"}, details)
}

func TestCreateAcceptsWhitespaceText(t *testing.T) {
	r := newTestEngine(newMemStore())
	in := validPayload()
	in.Notes = " "
	w := doJSON(r, http.MethodPost, "/api/move/transport-requests", in)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestLoginRequiresEmailShape(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.POST("/api/auth/login", AuthHandler{}.Login)

	w := doJSON(r, http.MethodPost, "/api/auth/login", map[string]string{"email": "admin", "password": "secret123"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"must be a valid email address"`)
}
