package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/locapro/partner-api/internal/domain"
	"github.com/locapro/partner-api/internal/repo"
)

// VehicleService implements business logic for a partner's fleet.
type VehicleService struct {
	vehicles repo.VehicleRepo
}

// NewVehicleService constructs a VehicleService backed by the provided VehicleRepo.
func NewVehicleService(vehicles repo.VehicleRepo) *VehicleService {
	return &VehicleService{vehicles: vehicles}
}

// Create validates and persists a new vehicle owned by partnerID.
func (s *VehicleService) Create(ctx context.Context, partnerID uuid.UUID, v domain.Vehicle) (domain.Vehicle, error) {
	v.PartnerID = partnerID
	if err := validateVehicle(v); err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.Create: %w", err)
	}
	created, err := s.vehicles.Create(ctx, v)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns one vehicle owned by the partner.
func (s *VehicleService) GetByID(ctx context.Context, partnerID, id uuid.UUID) (domain.Vehicle, error) {
	v, err := s.vehicles.GetByID(ctx, partnerID, id)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.GetByID: %w", err)
	}
	return v, nil
}

// ListPaged returns one page of the partner's vehicles and the total count.
func (s *VehicleService) ListPaged(ctx context.Context, partnerID uuid.UUID, availableOnly bool, p domain.PaginationParams) ([]domain.Vehicle, int64, error) {
	vehicles, total, err := s.vehicles.ListPaged(ctx, partnerID, availableOnly, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.VehicleService.ListPaged: %w", err)
	}
	return vehicles, total, nil
}

// Update validates and replaces every mutable field of an existing vehicle.
// Existing contracts keep the copy they were written with.
func (s *VehicleService) Update(ctx context.Context, partnerID uuid.UUID, v domain.Vehicle) (domain.Vehicle, error) {
	v.PartnerID = partnerID
	if err := validateVehicle(v); err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.Update: %w", err)
	}
	updated, err := s.vehicles.Update(ctx, v)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.Update: %w", err)
	}
	return updated, nil
}

// SetAvailability enables or disables a vehicle for new contracts.
func (s *VehicleService) SetAvailability(ctx context.Context, partnerID, id uuid.UUID, available bool) (domain.Vehicle, error) {
	v, err := s.vehicles.SetAvailability(ctx, partnerID, id, available)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.SetAvailability: %w", err)
	}
	return v, nil
}

// Delete removes a vehicle owned by the partner.
func (s *VehicleService) Delete(ctx context.Context, partnerID, id uuid.UUID) error {
	if err := s.vehicles.Delete(ctx, partnerID, id); err != nil {
		return fmt.Errorf("service.VehicleService.Delete: %w", err)
	}
	return nil
}

func validateVehicle(v domain.Vehicle) error {
	fe := domain.FieldErrors{}
	requireText(fe, "name", v.Name)
	requireText(fe, "category", v.Category)
	requireText(fe, "transmission", v.Transmission)
	requireText(fe, "fuel_type", v.FuelType)

	limitWords(fe, "name", v.Name)
	limitWords(fe, "category", v.Category)
	limitWords(fe, "description", v.Description)
	limitWords(fe, "remarks", v.Remarks)

	dailyRate(fe, "price_per_day", v.PricePerDay)
	nonNegative(fe, "key_count", v.KeyCount)
	nonNegative(fe, "odometer_start", v.OdometerStart)
	nonNegative(fe, "odometer_return", v.OdometerReturn)
	nonNegative(fe, "oil_change_interval_km", v.OilChangeInterval)

	if v.InsuranceStart != nil && v.InsuranceEnd != nil && v.InsuranceEnd.Before(*v.InsuranceStart) {
		fe.Add("insurance_end", "must not be before insurance_start")
	}
	return fe.Err()
}
