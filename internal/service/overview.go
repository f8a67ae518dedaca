package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/locapro/partner-api/internal/domain"
	"github.com/locapro/partner-api/internal/repo"
)

// Overview is the dashboard summary of one partner's data.
type Overview struct {
	VehiclesTotal     int64
	VehiclesAvailable int64
	Clients           int64
	BlacklistEntries  int64
	Contracts         map[domain.ContractStatus]int64
}

// OverviewService counts a partner's records for the dashboard landing page.
type OverviewService struct {
	vehicles  repo.VehicleRepo
	clients   repo.ClientRepo
	blacklist repo.BlacklistRepo
	contracts repo.ContractRepo
	now       func() time.Time
}

// NewOverviewService constructs an OverviewService using the wall clock.
func NewOverviewService(vehicles repo.VehicleRepo, clients repo.ClientRepo, blacklist repo.BlacklistRepo, contracts repo.ContractRepo) *OverviewService {
	return &OverviewService{vehicles: vehicles, clients: clients, blacklist: blacklist, contracts: contracts, now: time.Now}
}

// Get returns the partner's counts. Contracts are grouped by effective status
// and every status is present in the map, zero when there are none.
func (s *OverviewService) Get(ctx context.Context, partnerID uuid.UUID) (Overview, error) {
	var (
		o   Overview
		err error
	)
	if o.VehiclesTotal, o.VehiclesAvailable, err = s.vehicles.Count(ctx, partnerID); err != nil {
		return Overview{}, fmt.Errorf("service.OverviewService.Get: %w", err)
	}
	if o.Clients, err = s.clients.Count(ctx, partnerID); err != nil {
		return Overview{}, fmt.Errorf("service.OverviewService.Get: %w", err)
	}
	if o.BlacklistEntries, err = s.blacklist.Count(ctx, partnerID); err != nil {
		return Overview{}, fmt.Errorf("service.OverviewService.Get: %w", err)
	}

	counts, err := s.contracts.CountByEffectiveStatus(ctx, partnerID, s.now())
	if err != nil {
		return Overview{}, fmt.Errorf("service.OverviewService.Get: %w", err)
	}
	o.Contracts = map[domain.ContractStatus]int64{
		domain.ContractPending:   counts[domain.ContractPending],
		domain.ContractActive:    counts[domain.ContractActive],
		domain.ContractCompleted: counts[domain.ContractCompleted],
		domain.ContractCancelled: counts[domain.ContractCancelled],
	}
	return o, nil
}
