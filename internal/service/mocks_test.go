package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/locapro/partner-api/internal/domain"
	"github.com/locapro/partner-api/internal/repo"
)

// Hand-written test doubles. Each method is a function field; set only the
// ones a test needs. Calling an unset field panics, which makes an
// unexpected repo call fail the test loudly.

type mockPartnerRepo struct {
	create  func(ctx context.Context, p domain.Partner) (domain.Partner, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Partner, error)
	update  func(ctx context.Context, p domain.Partner) (domain.Partner, error)
}

func (m *mockPartnerRepo) Create(ctx context.Context, p domain.Partner) (domain.Partner, error) {
	return m.create(ctx, p)
}
func (m *mockPartnerRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Partner, error) {
	return m.getByID(ctx, id)
}
func (m *mockPartnerRepo) Update(ctx context.Context, p domain.Partner) (domain.Partner, error) {
	return m.update(ctx, p)
}

type mockVehicleRepo struct {
	create                func(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	getByID               func(ctx context.Context, partnerID, id uuid.UUID) (domain.Vehicle, error)
	listPaged             func(ctx context.Context, partnerID uuid.UUID, availableOnly bool, p domain.PaginationParams) ([]domain.Vehicle, int64, error)
	update                func(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	setAvailability       func(ctx context.Context, partnerID, id uuid.UUID, available bool) (domain.Vehicle, error)
	delete                func(ctx context.Context, partnerID, id uuid.UUID) error
	count                 func(ctx context.Context, partnerID uuid.UUID) (int64, int64, error)
	listInsuranceExpiring func(ctx context.Context, cutoff time.Time) ([]domain.Vehicle, error)
}

func (m *mockVehicleRepo) Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	return m.create(ctx, v)
}
func (m *mockVehicleRepo) GetByID(ctx context.Context, partnerID, id uuid.UUID) (domain.Vehicle, error) {
	return m.getByID(ctx, partnerID, id)
}
func (m *mockVehicleRepo) ListPaged(ctx context.Context, partnerID uuid.UUID, availableOnly bool, p domain.PaginationParams) ([]domain.Vehicle, int64, error) {
	return m.listPaged(ctx, partnerID, availableOnly, p)
}
func (m *mockVehicleRepo) Update(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	return m.update(ctx, v)
}
func (m *mockVehicleRepo) SetAvailability(ctx context.Context, partnerID, id uuid.UUID, available bool) (domain.Vehicle, error) {
	return m.setAvailability(ctx, partnerID, id, available)
}
func (m *mockVehicleRepo) Delete(ctx context.Context, partnerID, id uuid.UUID) error {
	return m.delete(ctx, partnerID, id)
}
func (m *mockVehicleRepo) Count(ctx context.Context, partnerID uuid.UUID) (int64, int64, error) {
	return m.count(ctx, partnerID)
}
func (m *mockVehicleRepo) ListInsuranceExpiring(ctx context.Context, cutoff time.Time) ([]domain.Vehicle, error) {
	return m.listInsuranceExpiring(ctx, cutoff)
}

type mockClientRepo struct {
	create    func(ctx context.Context, c domain.Client) (domain.Client, error)
	getByID   func(ctx context.Context, partnerID, id uuid.UUID) (domain.Client, error)
	listPaged func(ctx context.Context, partnerID uuid.UUID, search string, p domain.PaginationParams) ([]domain.Client, int64, error)
	update    func(ctx context.Context, c domain.Client) (domain.Client, error)
	delete    func(ctx context.Context, partnerID, id uuid.UUID) error
	count     func(ctx context.Context, partnerID uuid.UUID) (int64, error)
}

func (m *mockClientRepo) Create(ctx context.Context, c domain.Client) (domain.Client, error) {
	return m.create(ctx, c)
}
func (m *mockClientRepo) GetByID(ctx context.Context, partnerID, id uuid.UUID) (domain.Client, error) {
	return m.getByID(ctx, partnerID, id)
}
func (m *mockClientRepo) ListPaged(ctx context.Context, partnerID uuid.UUID, search string, p domain.PaginationParams) ([]domain.Client, int64, error) {
	return m.listPaged(ctx, partnerID, search, p)
}
func (m *mockClientRepo) Update(ctx context.Context, c domain.Client) (domain.Client, error) {
	return m.update(ctx, c)
}
func (m *mockClientRepo) Delete(ctx context.Context, partnerID, id uuid.UUID) error {
	return m.delete(ctx, partnerID, id)
}
func (m *mockClientRepo) Count(ctx context.Context, partnerID uuid.UUID) (int64, error) {
	return m.count(ctx, partnerID)
}

type mockBlacklistRepo struct {
	create  func(ctx context.Context, e domain.BlacklistEntry) (domain.BlacklistEntry, error)
	getByID func(ctx context.Context, partnerID, id uuid.UUID) (domain.BlacklistEntry, error)
	list    func(ctx context.Context, partnerID uuid.UUID) ([]domain.BlacklistEntry, error)
	delete  func(ctx context.Context, partnerID, id uuid.UUID) error
	count   func(ctx context.Context, partnerID uuid.UUID) (int64, error)
}

func (m *mockBlacklistRepo) Create(ctx context.Context, e domain.BlacklistEntry) (domain.BlacklistEntry, error) {
	return m.create(ctx, e)
}
func (m *mockBlacklistRepo) GetByID(ctx context.Context, partnerID, id uuid.UUID) (domain.BlacklistEntry, error) {
	return m.getByID(ctx, partnerID, id)
}
func (m *mockBlacklistRepo) List(ctx context.Context, partnerID uuid.UUID) ([]domain.BlacklistEntry, error) {
	return m.list(ctx, partnerID)
}
func (m *mockBlacklistRepo) Delete(ctx context.Context, partnerID, id uuid.UUID) error {
	return m.delete(ctx, partnerID, id)
}
func (m *mockBlacklistRepo) Count(ctx context.Context, partnerID uuid.UUID) (int64, error) {
	return m.count(ctx, partnerID)
}

type mockContractRepo struct {
	create                 func(ctx context.Context, c domain.Contract) (domain.Contract, error)
	getByID                func(ctx context.Context, partnerID, id uuid.UUID) (domain.Contract, error)
	listPaged              func(ctx context.Context, partnerID uuid.UUID, f repo.ContractFilter, now time.Time, p domain.PaginationParams) ([]domain.Contract, int64, error)
	update                 func(ctx context.Context, c domain.Contract) (domain.Contract, error)
	updateStatus           func(ctx context.Context, partnerID, id uuid.UUID, status domain.ContractStatus) (domain.Contract, error)
	delete                 func(ctx context.Context, partnerID, id uuid.UUID) error
	countByEffectiveStatus func(ctx context.Context, partnerID uuid.UUID, now time.Time) (map[domain.ContractStatus]int64, error)
}

func (m *mockContractRepo) Create(ctx context.Context, c domain.Contract) (domain.Contract, error) {
	return m.create(ctx, c)
}
func (m *mockContractRepo) GetByID(ctx context.Context, partnerID, id uuid.UUID) (domain.Contract, error) {
	return m.getByID(ctx, partnerID, id)
}
func (m *mockContractRepo) ListPaged(ctx context.Context, partnerID uuid.UUID, f repo.ContractFilter, now time.Time, p domain.PaginationParams) ([]domain.Contract, int64, error) {
	return m.listPaged(ctx, partnerID, f, now, p)
}
func (m *mockContractRepo) Update(ctx context.Context, c domain.Contract) (domain.Contract, error) {
	return m.update(ctx, c)
}
func (m *mockContractRepo) UpdateStatus(ctx context.Context, partnerID, id uuid.UUID, status domain.ContractStatus) (domain.Contract, error) {
	return m.updateStatus(ctx, partnerID, id, status)
}
func (m *mockContractRepo) Delete(ctx context.Context, partnerID, id uuid.UUID) error {
	return m.delete(ctx, partnerID, id)
}
func (m *mockContractRepo) CountByEffectiveStatus(ctx context.Context, partnerID uuid.UUID, now time.Time) (map[domain.ContractStatus]int64, error) {
	return m.countByEffectiveStatus(ctx, partnerID, now)
}

// compile-time checks: every mock must satisfy its repo interface.
var (
	_ repo.PartnerRepo   = (*mockPartnerRepo)(nil)
	_ repo.VehicleRepo   = (*mockVehicleRepo)(nil)
	_ repo.ClientRepo    = (*mockClientRepo)(nil)
	_ repo.BlacklistRepo = (*mockBlacklistRepo)(nil)
	_ repo.ContractRepo  = (*mockContractRepo)(nil)
)

// blacklistOf returns a blacklist repo whose List yields entries.
func blacklistOf(entries ...domain.BlacklistEntry) *mockBlacklistRepo {
	return &mockBlacklistRepo{
		list: func(context.Context, uuid.UUID) ([]domain.BlacklistEntry, error) {
			return entries, nil
		},
	}
}
