package portal

import (
	"context"
	"strconv"
	"sync"
	"time"

	"fleetmove/internal/domain/models"
	"fleetmove/internal/moveapi"
	"fleetmove/internal/utils"

	"github.com/google/uuid"
)

// API is everything the portal needs from the transport request service.
type API interface {
	TransportRequestAPI
	VehicleAPI
	DriverAPI
}

// Session is the page state of one browser session.
type Session struct {
	ID     string
	Toasts *Notifier

	owner *Sessions

	mu       sync.Mutex
	lastSeen time.Time
	requests *TransportRequestsPage
	vehicles *VehiclesPage
	drivers  map[int64]*DriverHomePage
}

// TransportRequests returns the session's admin page, creating it on first use.
func (s *Session) TransportRequests() *TransportRequestsPage {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.requests == nil {
		o := s.owner
		s.requests = NewTransportRequestsPage(o.api, o.fetch, o.query, s.Toasts, o.loc)
	}
	return s.requests
}

// Vehicles returns the session's vehicle page, creating it on first use.
func (s *Session) Vehicles() *VehiclesPage {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.vehicles == nil {
		o := s.owner
		cfg := o.query
		cfg.Endpoint = moveapi.VehiclesEndpoint
		s.vehicles = NewVehiclesPage(o.api, o.vehicles, cfg, s.Toasts)
	}
	return s.vehicles
}

// Driver returns the session's home page for driverID, creating it on first use.
func (s *Session) Driver(driverID int64) *DriverHomePage {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drivers == nil {
		s.drivers = map[int64]*DriverHomePage{}
	}
	p, ok := s.drivers[driverID]
	if !ok {
		p = NewDriverHomePage(s.owner.api, driverID, s.Toasts, s.owner.loc)
		s.drivers[driverID] = p
	}
	return p
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Close cancels work the session still has in flight.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.requests != nil {
		s.requests.Close()
	}
	if s.vehicles != nil {
		s.vehicles.Close()
	}
}

type SessionsConfig struct {
	Fetch    Fetcher[models.TransportRequest]
	Vehicles Fetcher[models.Vehicle]
	Query    QueryConfig
	Loc      *time.Location
	TTL      time.Duration
	Now      func() time.Time
}

// Sessions is the registry of live portal sessions keyed by cookie id.
type Sessions struct {
	api      API
	fetch    Fetcher[models.TransportRequest]
	vehicles Fetcher[models.Vehicle]
	query    QueryConfig
	loc      *time.Location
	ttl      time.Duration
	now      func() time.Time

	mu    sync.Mutex
	items map[string]*Session
}

func NewSessions(api API, cfg SessionsConfig) *Sessions {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Loc == nil {
		cfg.Loc = time.Local
	}
	return &Sessions{
		api:      api,
		fetch:    cfg.Fetch,
		vehicles: cfg.Vehicles,
		query:    cfg.Query,
		loc:      cfg.Loc,
		ttl:      cfg.TTL,
		now:      cfg.Now,
		items:    map[string]*Session{},
	}
}

// Ensure returns the live session with id, or a new one with a fresh id.
// created reports whether the caller must set a new cookie.
func (r *Sessions) Ensure(id string) (sess *Session, created bool) {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.items[id]; ok && id != "" {
		if now.Sub(s.idleSince()) <= r.ttl {
			s.touch(now)
			return s, false
		}
		delete(r.items, id)
		s.Close()
	}
	s := &Session{ID: uuid.NewString(), Toasts: &Notifier{}, owner: r, lastSeen: now}
	r.items[s.ID] = s
	return s, true
}

func (r *Sessions) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	return s, ok
}

func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Sweep drops sessions idle longer than the TTL and cancels their fetches.
func (r *Sessions) Sweep() int {
	now := r.now()
	var expired []*Session

	r.mu.Lock()
	for id, s := range r.items {
		if now.Sub(s.idleSince()) > r.ttl {
			expired = append(expired, s)
			delete(r.items, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}
	if len(expired) > 0 {
		utils.LogEvent("", "portal", "sweep", "expired_sessions="+strconv.Itoa(len(expired)))
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done.
func (r *Sessions) Run(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = time.Minute
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.Sweep()
		}
	}
}

// CloseAll closes every session, used on shutdown.
func (r *Sessions) CloseAll() {
	r.mu.Lock()
	items := r.items
	r.items = map[string]*Session{}
	r.mu.Unlock()
	for _, s := range items {
		s.Close()
	}
}
