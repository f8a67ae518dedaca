// Package service contains the business logic of the partner API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here: services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/locapro/partner-api/internal/domain"
	"github.com/locapro/partner-api/internal/pricing"
	"github.com/locapro/partner-api/internal/repo"
	"github.com/locapro/partner-api/internal/screening"
)

// ContractInput is what a partner submits to write or rewrite a contract.
// PriceOverride, when set, replaces the vehicle's catalog price.
type ContractInput struct {
	VehicleID      uuid.UUID
	Client         domain.ClientInfo
	SecondDriver   *domain.SecondDriverInfo
	StartAt        time.Time
	EndAt          time.Time
	PickupLocation string
	ReturnLocation string
	PriceOverride  *decimal.Decimal
}

// QuoteInput is the subset of a contract draft that determines its price.
// A nil VehicleID means no vehicle has been picked yet.
type QuoteInput struct {
	VehicleID     uuid.UUID
	StartAt       time.Time
	EndAt         time.Time
	PriceOverride *decimal.Decimal
}

// Quote is the price of a draft at the moment it was asked for.
type Quote struct {
	PricePerDay decimal.Decimal
	RentalDays  int
	TotalPrice  decimal.Decimal
}

// ContractService assembles rental contracts: it validates the draft, screens
// the renter, prices the rental, and freezes copies of the vehicle and
// partner into the stored record.
type ContractService struct {
	contracts repo.ContractRepo
	vehicles  repo.VehicleRepo
	partners  repo.PartnerRepo
	blacklist repo.BlacklistRepo
	now       func() time.Time
}

// NewContractService constructs a ContractService using the wall clock.
func NewContractService(contracts repo.ContractRepo, vehicles repo.VehicleRepo, partners repo.PartnerRepo, blacklist repo.BlacklistRepo) *ContractService {
	return NewContractServiceWithClock(contracts, vehicles, partners, blacklist, time.Now)
}

// NewContractServiceWithClock is NewContractService with an injected clock,
// used to resolve the status of contracts that never had one stored.
func NewContractServiceWithClock(contracts repo.ContractRepo, vehicles repo.VehicleRepo, partners repo.PartnerRepo, blacklist repo.BlacklistRepo, now func() time.Time) *ContractService {
	return &ContractService{
		contracts: contracts,
		vehicles:  vehicles,
		partners:  partners,
		blacklist: blacklist,
		now:       now,
	}
}

// Create writes a new contract for partnerID on behalf of createdBy.
//
// Steps, each of which aborts without writing on failure:
//  1. validate the draft (domain.FieldErrors)
//  2. screen the renter's CIN and passport (domain.ErrBlacklisted,
//     domain.ErrScreeningUnavailable)
//  3. resolve the vehicle, which must be available (domain.ErrNotFound)
//  4. price the rental
//  5. freeze the client, second driver, vehicle, and partner
//
// The contract starts out pending.
func (s *ContractService) Create(ctx context.Context, partnerID uuid.UUID, createdBy string, in ContractInput) (domain.Contract, error) {
	if err := validateContract(in); err != nil {
		return domain.Contract{}, fmt.Errorf("service.ContractService.Create: %w", err)
	}

	if err := screen(ctx, s.blacklist, partnerID, screening.ForContract(in.Client)); err != nil {
		return domain.Contract{}, fmt.Errorf("service.ContractService.Create: %w", err)
	}

	c, err := s.assemble(ctx, partnerID, in, true)
	if err != nil {
		return domain.Contract{}, fmt.Errorf("service.ContractService.Create: %w", err)
	}
	c.Status = domain.ContractPending
	c.CreatedBy = createdBy

	created, err := s.contracts.Create(ctx, c)
	if err != nil {
		return domain.Contract{}, fmt.Errorf("service.ContractService.Create: %w", err)
	}
	return created, nil
}

// Update rewrites an existing contract from a new draft. The renter is not
// screened again and the vehicle may be unavailable. The stored snapshots are
// replaced as a whole; the status is kept.
func (s *ContractService) Update(ctx context.Context, partnerID, id uuid.UUID, in ContractInput) (domain.Contract, error) {
	if err := validateContract(in); err != nil {
		return domain.Contract{}, fmt.Errorf("service.ContractService.Update: %w", err)
	}

	existing, err := s.contracts.GetByID(ctx, partnerID, id)
	if err != nil {
		return domain.Contract{}, fmt.Errorf("service.ContractService.Update: %w", err)
	}

	c, err := s.assemble(ctx, partnerID, in, false)
	if err != nil {
		return domain.Contract{}, fmt.Errorf("service.ContractService.Update: %w", err)
	}
	c.ID = existing.ID
	c.Status = existing.Status
	c.CreatedBy = existing.CreatedBy

	updated, err := s.contracts.Update(ctx, c)
	if err != nil {
		return domain.Contract{}, fmt.Errorf("service.ContractService.Update: %w", err)
	}
	return updated, nil
}

// UpdateStatus moves a contract to next. The current state is the stored
// status or, when none was ever stored, the one implied by the rental window.
func (s *ContractService) UpdateStatus(ctx context.Context, partnerID, id uuid.UUID, next domain.ContractStatus) (domain.Contract, error) {
	if !next.Valid() {
		fe := domain.FieldErrors{}
		fe.Add("status", "must be one of pending, active, completed, cancelled")
		return domain.Contract{}, fmt.Errorf("service.ContractService.UpdateStatus: %w", fe)
	}

	existing, err := s.contracts.GetByID(ctx, partnerID, id)
	if err != nil {
		return domain.Contract{}, fmt.Errorf("service.ContractService.UpdateStatus: %w", err)
	}

	current := existing.EffectiveStatus(s.now())
	if current.Terminal() {
		return domain.Contract{}, fmt.Errorf("service.ContractService.UpdateStatus: %w: contract is already %s",
			domain.ErrInvalidTransition, current)
	}
	if !current.CanTransitionTo(next) {
		return domain.Contract{}, fmt.Errorf("service.ContractService.UpdateStatus: %w: %s to %s",
			domain.ErrInvalidTransition, current, next)
	}

	updated, err := s.contracts.UpdateStatus(ctx, partnerID, id, next)
	if err != nil {
		return domain.Contract{}, fmt.Errorf("service.ContractService.UpdateStatus: %w", err)
	}
	return updated, nil
}

// GetByID returns one contract owned by the partner.
func (s *ContractService) GetByID(ctx context.Context, partnerID, id uuid.UUID) (domain.Contract, error) {
	c, err := s.contracts.GetByID(ctx, partnerID, id)
	if err != nil {
		return domain.Contract{}, fmt.Errorf("service.ContractService.GetByID: %w", err)
	}
	return c, nil
}

// ListPaged returns one page of contracts. f.Status filters on effective status.
func (s *ContractService) ListPaged(ctx context.Context, partnerID uuid.UUID, f repo.ContractFilter, p domain.PaginationParams) ([]domain.Contract, int64, error) {
	if f.Status != "" && !f.Status.Valid() {
		fe := domain.FieldErrors{}
		fe.Add("status", "must be one of pending, active, completed, cancelled")
		return nil, 0, fmt.Errorf("service.ContractService.ListPaged: %w", fe)
	}
	contracts, total, err := s.contracts.ListPaged(ctx, partnerID, f, s.now(), p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.ContractService.ListPaged: %w", err)
	}
	return contracts, total, nil
}

// Delete removes a contract owned by the partner.
func (s *ContractService) Delete(ctx context.Context, partnerID, id uuid.UUID) error {
	if err := s.contracts.Delete(ctx, partnerID, id); err != nil {
		return fmt.Errorf("service.ContractService.Delete: %w", err)
	}
	return nil
}

// Quote prices a draft without writing anything. The catalog price comes
// from storage; with no vehicle picked the catalog price is zero.
func (s *ContractService) Quote(ctx context.Context, partnerID uuid.UUID, in QuoteInput) (Quote, error) {
	if in.PriceOverride != nil {
		fe := domain.FieldErrors{}
		dailyRate(fe, "price_per_day", *in.PriceOverride)
		if err := fe.Err(); err != nil {
			return Quote{}, fmt.Errorf("service.ContractService.Quote: %w", err)
		}
	}

	catalog := decimal.Zero
	if in.VehicleID != uuid.Nil {
		v, err := s.vehicles.GetByID(ctx, partnerID, in.VehicleID)
		if err != nil {
			return Quote{}, fmt.Errorf("service.ContractService.Quote: %w", err)
		}
		catalog = v.PricePerDay
	}

	rate := pricing.ResolveRate(in.PriceOverride, catalog)
	r := pricing.Compute(in.StartAt, in.EndAt, rate)
	return Quote{PricePerDay: rate, RentalDays: r.Days, TotalPrice: r.Total}, nil
}

// assemble resolves the vehicle and partner, prices the rental, and builds
// the contract with its frozen copies. requireAvailable rejects a disabled
// vehicle with a field error.
func (s *ContractService) assemble(ctx context.Context, partnerID uuid.UUID, in ContractInput, requireAvailable bool) (domain.Contract, error) {
	vehicle, err := s.vehicles.GetByID(ctx, partnerID, in.VehicleID)
	if err != nil {
		return domain.Contract{}, fmt.Errorf("resolve vehicle: %w", err)
	}
	if requireAvailable && !vehicle.Available {
		fe := domain.FieldErrors{}
		fe.Add("vehicle_id", "vehicle is not available")
		return domain.Contract{}, fe
	}

	rate := pricing.ResolveRate(in.PriceOverride, vehicle.PricePerDay)
	priced := pricing.Compute(in.StartAt, in.EndAt, rate)

	partner, err := s.partners.GetByID(ctx, partnerID)
	if err != nil {
		return domain.Contract{}, fmt.Errorf("resolve partner: %w", err)
	}

	var second *domain.SecondDriverInfo
	if in.SecondDriver != nil && !in.SecondDriver.IsZero() {
		d := *in.SecondDriver
		second = &d
	}

	client := in.Client
	id := client.Identity().Normalize()
	client.CIN, client.Passport, client.LicenseNumber = id.CIN, id.Passport, id.LicenseNumber

	return domain.Contract{
		PartnerID:    partnerID,
		VehicleID:    vehicle.ID,
		Client:       client,
		SecondDriver: second,
		Vehicle:      vehicle,
		Partner:      partner,
		Rental: domain.RentalInfo{
			StartAt:        in.StartAt,
			EndAt:          in.EndAt,
			PickupLocation: in.PickupLocation,
			ReturnLocation: in.ReturnLocation,
			PricePerDay:    rate,
			TotalPrice:     priced.Total,
			RentalDays:     priced.Days,
		},
	}, nil
}

func validateContract(in ContractInput) error {
	fe := domain.FieldErrors{}
	requireText(fe, "client.last_name", in.Client.LastName)
	requireText(fe, "client.first_name", in.Client.FirstName)
	requireTime(fe, "client.birth_date", in.Client.BirthDate)
	requireText(fe, "client.phone", in.Client.Phone)
	requireText(fe, "client.address", in.Client.Address)
	requireText(fe, "client.license_number", in.Client.LicenseNumber)
	if in.Client.LicenseIssueDate == nil || in.Client.LicenseIssueDate.IsZero() {
		fe.Add("client.license_issue_date", "is required")
	}

	if in.VehicleID == uuid.Nil {
		fe.Add("vehicle_id", "is required")
	}
	requireTime(fe, "start_at", in.StartAt)
	requireTime(fe, "end_at", in.EndAt)
	requireText(fe, "pickup_location", in.PickupLocation)
	requireText(fe, "return_location", in.ReturnLocation)

	if in.PriceOverride != nil {
		dailyRate(fe, "price_per_day", *in.PriceOverride)
	}
	return fe.Err()
}
