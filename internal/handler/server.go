// Package handler implements the HTTP handlers for the partner API.
// Handlers are methods on Server, split into one file per resource. They
// decode requests, call a service through a consumer-side interface, and map
// results and errors onto JSON responses.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/locapro/partner-api/internal/domain"
	"github.com/locapro/partner-api/internal/repo"
	"github.com/locapro/partner-api/internal/screening"
	"github.com/locapro/partner-api/internal/service"
)

// VehicleServicer defines the fleet operations the vehicle handlers depend on.
type VehicleServicer interface {
	Create(ctx context.Context, partnerID uuid.UUID, v domain.Vehicle) (domain.Vehicle, error)
	GetByID(ctx context.Context, partnerID, id uuid.UUID) (domain.Vehicle, error)
	ListPaged(ctx context.Context, partnerID uuid.UUID, availableOnly bool, p domain.PaginationParams) ([]domain.Vehicle, int64, error)
	Update(ctx context.Context, partnerID uuid.UUID, v domain.Vehicle) (domain.Vehicle, error)
	SetAvailability(ctx context.Context, partnerID, id uuid.UUID, available bool) (domain.Vehicle, error)
	Delete(ctx context.Context, partnerID, id uuid.UUID) error
}

// ClientServicer defines the renter operations the client handlers depend on.
type ClientServicer interface {
	Create(ctx context.Context, partnerID uuid.UUID, c domain.Client) (domain.Client, error)
	GetByID(ctx context.Context, partnerID, id uuid.UUID) (domain.Client, error)
	ListPaged(ctx context.Context, partnerID uuid.UUID, search string, p domain.PaginationParams) ([]domain.Client, int64, error)
	Update(ctx context.Context, partnerID uuid.UUID, c domain.Client) (domain.Client, error)
	Delete(ctx context.Context, partnerID, id uuid.UUID) error
	PromoteToBlacklist(ctx context.Context, partnerID uuid.UUID, addedBy string, clientID uuid.UUID, reason string) (domain.BlacklistEntry, error)
}

// BlacklistServicer defines the blacklist operations and lookups.
type BlacklistServicer interface {
	Create(ctx context.Context, partnerID uuid.UUID, addedBy string, e domain.BlacklistEntry) (domain.BlacklistEntry, error)
	GetByID(ctx context.Context, partnerID, id uuid.UUID) (domain.BlacklistEntry, error)
	List(ctx context.Context, partnerID uuid.UUID) ([]domain.BlacklistEntry, error)
	Delete(ctx context.Context, partnerID, id uuid.UUID) error
	Check(ctx context.Context, partnerID uuid.UUID, c screening.Candidate) (domain.BlacklistEntry, bool, error)
	VerifyByCIN(ctx context.Context, partnerID uuid.UUID, cin string) (domain.BlacklistEntry, bool, error)
}

// ContractServicer defines the contract operations, quote included.
type ContractServicer interface {
	Create(ctx context.Context, partnerID uuid.UUID, createdBy string, in service.ContractInput) (domain.Contract, error)
	Update(ctx context.Context, partnerID, id uuid.UUID, in service.ContractInput) (domain.Contract, error)
	UpdateStatus(ctx context.Context, partnerID, id uuid.UUID, next domain.ContractStatus) (domain.Contract, error)
	GetByID(ctx context.Context, partnerID, id uuid.UUID) (domain.Contract, error)
	ListPaged(ctx context.Context, partnerID uuid.UUID, f repo.ContractFilter, p domain.PaginationParams) ([]domain.Contract, int64, error)
	Delete(ctx context.Context, partnerID, id uuid.UUID) error
	Quote(ctx context.Context, partnerID uuid.UUID, in service.QuoteInput) (service.Quote, error)
}

// PartnerServicer reads and edits the caller's own partner profile.
type PartnerServicer interface {
	Get(ctx context.Context, partnerID uuid.UUID) (domain.Partner, error)
	Update(ctx context.Context, partnerID uuid.UUID, p domain.Partner) (domain.Partner, error)
}

// OverviewServicer produces the dashboard counts.
type OverviewServicer interface {
	Get(ctx context.Context, partnerID uuid.UUID) (service.Overview, error)
}

// Pinger reports whether the database is reachable. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services groups the dependencies of Server. A nil field leaves its routes
// unregistered, which keeps handler tests focused on one resource.
type Services struct {
	Vehicles  VehicleServicer
	Clients   ClientServicer
	Blacklist BlacklistServicer
	Contracts ContractServicer
	Partners  PartnerServicer
	Overview  OverviewServicer
	DB        Pinger
}

// Server holds every handler dependency.
type Server struct {
	svc Services
	now func() time.Time
}

// NewServer constructs the Server with all its dependencies.
func NewServer(svc Services) *Server {
	return &Server{svc: svc, now: time.Now}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(Services{})
}

// Handler returns the full route tree. /healthz and /openapi.yaml are public;
// everything under /api/v1 runs behind auth, which must place a
// middleware.Principal in the request context.
func (s *Server) Handler(auth func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth)

		if s.svc.Partners != nil {
			r.Get("/partner", s.GetPartner)
			r.Put("/partner", s.UpdatePartner)
		}
		if s.svc.Overview != nil {
			r.Get("/overview", s.GetOverview)
		}
		if s.svc.Vehicles != nil {
			r.Route("/vehicles", func(r chi.Router) {
				r.Get("/", s.ListVehicles)
				r.Post("/", s.CreateVehicle)
				r.Get("/{id}", s.GetVehicle)
				r.Put("/{id}", s.UpdateVehicle)
				r.Delete("/{id}", s.DeleteVehicle)
				r.Patch("/{id}/availability", s.SetVehicleAvailability)
			})
		}
		if s.svc.Clients != nil {
			r.Route("/clients", func(r chi.Router) {
				r.Get("/", s.ListClients)
				r.Post("/", s.CreateClient)
				r.Get("/{id}", s.GetClient)
				r.Put("/{id}", s.UpdateClient)
				r.Delete("/{id}", s.DeleteClient)
				r.Post("/{id}/blacklist", s.PromoteClient)
			})
		}
		if s.svc.Blacklist != nil {
			r.Route("/blacklist", func(r chi.Router) {
				r.Get("/", s.ListBlacklist)
				r.Post("/", s.CreateBlacklistEntry)
				r.Get("/check", s.CheckBlacklist)
				r.Get("/verify", s.VerifyBlacklist)
				r.Get("/{id}", s.GetBlacklistEntry)
				r.Delete("/{id}", s.DeleteBlacklistEntry)
			})
		}
		if s.svc.Contracts != nil {
			r.Route("/contracts", func(r chi.Router) {
				r.Post("/quote", s.QuoteContract)
				r.Get("/", s.ListContracts)
				r.Post("/", s.CreateContract)
				r.Get("/{id}", s.GetContract)
				r.Put("/{id}", s.UpdateContract)
				r.Delete("/{id}", s.DeleteContract)
				r.Patch("/{id}/status", s.UpdateContractStatus)
			})
		}
	})
	return r
}

// WithClock replaces the clock used to derive the effective status of
// contracts that have none stored.
func (s *Server) WithClock(now func() time.Time) *Server {
	s.now = now
	return s
}
