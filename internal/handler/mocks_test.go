package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/locapro/partner-api/internal/domain"
	"github.com/locapro/partner-api/internal/handler"
	"github.com/locapro/partner-api/internal/middleware"
	"github.com/locapro/partner-api/internal/repo"
	"github.com/locapro/partner-api/internal/screening"
	"github.com/locapro/partner-api/internal/service"
)

// Each mock is a test double for one handler servicer interface.
// Set only the method fields your test needs.

type mockVehicleServicer struct {
	create          func(ctx context.Context, partnerID uuid.UUID, v domain.Vehicle) (domain.Vehicle, error)
	getByID         func(ctx context.Context, partnerID, id uuid.UUID) (domain.Vehicle, error)
	listPaged       func(ctx context.Context, partnerID uuid.UUID, availableOnly bool, p domain.PaginationParams) ([]domain.Vehicle, int64, error)
	update          func(ctx context.Context, partnerID uuid.UUID, v domain.Vehicle) (domain.Vehicle, error)
	setAvailability func(ctx context.Context, partnerID, id uuid.UUID, available bool) (domain.Vehicle, error)
	delete          func(ctx context.Context, partnerID, id uuid.UUID) error
}

func (m *mockVehicleServicer) Create(ctx context.Context, partnerID uuid.UUID, v domain.Vehicle) (domain.Vehicle, error) {
	return m.create(ctx, partnerID, v)
}
func (m *mockVehicleServicer) GetByID(ctx context.Context, partnerID, id uuid.UUID) (domain.Vehicle, error) {
	return m.getByID(ctx, partnerID, id)
}
func (m *mockVehicleServicer) ListPaged(ctx context.Context, partnerID uuid.UUID, availableOnly bool, p domain.PaginationParams) ([]domain.Vehicle, int64, error) {
	return m.listPaged(ctx, partnerID, availableOnly, p)
}
func (m *mockVehicleServicer) Update(ctx context.Context, partnerID uuid.UUID, v domain.Vehicle) (domain.Vehicle, error) {
	return m.update(ctx, partnerID, v)
}
func (m *mockVehicleServicer) SetAvailability(ctx context.Context, partnerID, id uuid.UUID, available bool) (domain.Vehicle, error) {
	return m.setAvailability(ctx, partnerID, id, available)
}
func (m *mockVehicleServicer) Delete(ctx context.Context, partnerID, id uuid.UUID) error {
	return m.delete(ctx, partnerID, id)
}

type mockClientServicer struct {
	create    func(ctx context.Context, partnerID uuid.UUID, c domain.Client) (domain.Client, error)
	getByID   func(ctx context.Context, partnerID, id uuid.UUID) (domain.Client, error)
	listPaged func(ctx context.Context, partnerID uuid.UUID, search string, p domain.PaginationParams) ([]domain.Client, int64, error)
	update    func(ctx context.Context, partnerID uuid.UUID, c domain.Client) (domain.Client, error)
	delete    func(ctx context.Context, partnerID, id uuid.UUID) error
	promote   func(ctx context.Context, partnerID uuid.UUID, addedBy string, clientID uuid.UUID, reason string) (domain.BlacklistEntry, error)
}

func (m *mockClientServicer) Create(ctx context.Context, partnerID uuid.UUID, c domain.Client) (domain.Client, error) {
	return m.create(ctx, partnerID, c)
}
func (m *mockClientServicer) GetByID(ctx context.Context, partnerID, id uuid.UUID) (domain.Client, error) {
	return m.getByID(ctx, partnerID, id)
}
func (m *mockClientServicer) ListPaged(ctx context.Context, partnerID uuid.UUID, search string, p domain.PaginationParams) ([]domain.Client, int64, error) {
	return m.listPaged(ctx, partnerID, search, p)
}
func (m *mockClientServicer) Update(ctx context.Context, partnerID uuid.UUID, c domain.Client) (domain.Client, error) {
	return m.update(ctx, partnerID, c)
}
func (m *mockClientServicer) Delete(ctx context.Context, partnerID, id uuid.UUID) error {
	return m.delete(ctx, partnerID, id)
}
func (m *mockClientServicer) PromoteToBlacklist(ctx context.Context, partnerID uuid.UUID, addedBy string, clientID uuid.UUID, reason string) (domain.BlacklistEntry, error) {
	return m.promote(ctx, partnerID, addedBy, clientID, reason)
}

type mockBlacklistServicer struct {
	create  func(ctx context.Context, partnerID uuid.UUID, addedBy string, e domain.BlacklistEntry) (domain.BlacklistEntry, error)
	getByID func(ctx context.Context, partnerID, id uuid.UUID) (domain.BlacklistEntry, error)
	list    func(ctx context.Context, partnerID uuid.UUID) ([]domain.BlacklistEntry, error)
	delete  func(ctx context.Context, partnerID, id uuid.UUID) error
	check   func(ctx context.Context, partnerID uuid.UUID, c screening.Candidate) (domain.BlacklistEntry, bool, error)
	verify  func(ctx context.Context, partnerID uuid.UUID, cin string) (domain.BlacklistEntry, bool, error)
}

func (m *mockBlacklistServicer) Create(ctx context.Context, partnerID uuid.UUID, addedBy string, e domain.BlacklistEntry) (domain.BlacklistEntry, error) {
	return m.create(ctx, partnerID, addedBy, e)
}
func (m *mockBlacklistServicer) GetByID(ctx context.Context, partnerID, id uuid.UUID) (domain.BlacklistEntry, error) {
	return m.getByID(ctx, partnerID, id)
}
func (m *mockBlacklistServicer) List(ctx context.Context, partnerID uuid.UUID) ([]domain.BlacklistEntry, error) {
	return m.list(ctx, partnerID)
}
func (m *mockBlacklistServicer) Delete(ctx context.Context, partnerID, id uuid.UUID) error {
	return m.delete(ctx, partnerID, id)
}
func (m *mockBlacklistServicer) Check(ctx context.Context, partnerID uuid.UUID, c screening.Candidate) (domain.BlacklistEntry, bool, error) {
	return m.check(ctx, partnerID, c)
}
func (m *mockBlacklistServicer) VerifyByCIN(ctx context.Context, partnerID uuid.UUID, cin string) (domain.BlacklistEntry, bool, error) {
	return m.verify(ctx, partnerID, cin)
}

type mockContractServicer struct {
	create       func(ctx context.Context, partnerID uuid.UUID, createdBy string, in service.ContractInput) (domain.Contract, error)
	update       func(ctx context.Context, partnerID, id uuid.UUID, in service.ContractInput) (domain.Contract, error)
	updateStatus func(ctx context.Context, partnerID, id uuid.UUID, next domain.ContractStatus) (domain.Contract, error)
	getByID      func(ctx context.Context, partnerID, id uuid.UUID) (domain.Contract, error)
	listPaged    func(ctx context.Context, partnerID uuid.UUID, f repo.ContractFilter, p domain.PaginationParams) ([]domain.Contract, int64, error)
	delete       func(ctx context.Context, partnerID, id uuid.UUID) error
	quote        func(ctx context.Context, partnerID uuid.UUID, in service.QuoteInput) (service.Quote, error)
}

func (m *mockContractServicer) Create(ctx context.Context, partnerID uuid.UUID, createdBy string, in service.ContractInput) (domain.Contract, error) {
	return m.create(ctx, partnerID, createdBy, in)
}
func (m *mockContractServicer) Update(ctx context.Context, partnerID, id uuid.UUID, in service.ContractInput) (domain.Contract, error) {
	return m.update(ctx, partnerID, id, in)
}
func (m *mockContractServicer) UpdateStatus(ctx context.Context, partnerID, id uuid.UUID, next domain.ContractStatus) (domain.Contract, error) {
	return m.updateStatus(ctx, partnerID, id, next)
}
func (m *mockContractServicer) GetByID(ctx context.Context, partnerID, id uuid.UUID) (domain.Contract, error) {
	return m.getByID(ctx, partnerID, id)
}
func (m *mockContractServicer) ListPaged(ctx context.Context, partnerID uuid.UUID, f repo.ContractFilter, p domain.PaginationParams) ([]domain.Contract, int64, error) {
	return m.listPaged(ctx, partnerID, f, p)
}
func (m *mockContractServicer) Delete(ctx context.Context, partnerID, id uuid.UUID) error {
	return m.delete(ctx, partnerID, id)
}
func (m *mockContractServicer) Quote(ctx context.Context, partnerID uuid.UUID, in service.QuoteInput) (service.Quote, error) {
	return m.quote(ctx, partnerID, in)
}

type mockPartnerServicer struct {
	get    func(ctx context.Context, partnerID uuid.UUID) (domain.Partner, error)
	update func(ctx context.Context, partnerID uuid.UUID, p domain.Partner) (domain.Partner, error)
}

func (m *mockPartnerServicer) Get(ctx context.Context, partnerID uuid.UUID) (domain.Partner, error) {
	return m.get(ctx, partnerID)
}
func (m *mockPartnerServicer) Update(ctx context.Context, partnerID uuid.UUID, p domain.Partner) (domain.Partner, error) {
	return m.update(ctx, partnerID, p)
}

type mockOverviewServicer struct {
	get func(ctx context.Context, partnerID uuid.UUID) (service.Overview, error)
}

func (m *mockOverviewServicer) Get(ctx context.Context, partnerID uuid.UUID) (service.Overview, error) {
	return m.get(ctx, partnerID)
}

type mockPinger struct{ err error }

func (m mockPinger) Ping(context.Context) error { return m.err }

// compile-time checks: every mock must satisfy its handler interface.
var (
	_ handler.VehicleServicer   = (*mockVehicleServicer)(nil)
	_ handler.ClientServicer    = (*mockClientServicer)(nil)
	_ handler.BlacklistServicer = (*mockBlacklistServicer)(nil)
	_ handler.ContractServicer  = (*mockContractServicer)(nil)
	_ handler.PartnerServicer   = (*mockPartnerServicer)(nil)
	_ handler.OverviewServicer  = (*mockOverviewServicer)(nil)
	_ handler.Pinger            = mockPinger{}
)

// ---- helpers ---------------------------------------------------------------

var (
	callerPartner = uuid.MustParse("6f0c5a0e-1b8e-4f5e-9a51-3b0d3f1f7c11")
	fixedNow      = time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC)
)

const callerSubject = "agent@atlas.test"

// fakeAuth stands in for the JWT middleware and authenticates every request
// as callerPartner.
func fakeAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := middleware.WithPrincipal(r.Context(), middleware.Principal{PartnerID: callerPartner, Subject: callerSubject})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// newHTTPHandler wires a Server with the given services into its router,
// the same way main.go does in production.
func newHTTPHandler(svc handler.Services) http.Handler {
	return handler.NewServer(svc).WithClock(func() time.Time { return fixedNow }).Handler(fakeAuth)
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func serve(h http.Handler, method, target string, body *bytes.Buffer) *httptest.ResponseRecorder {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}
