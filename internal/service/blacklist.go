package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/locapro/partner-api/internal/domain"
	"github.com/locapro/partner-api/internal/repo"
	"github.com/locapro/partner-api/internal/screening"
)

// BlacklistService manages a partner's blacklist and answers direct
// screening lookups.
type BlacklistService struct {
	entries repo.BlacklistRepo
}

// NewBlacklistService constructs a BlacklistService backed by the provided BlacklistRepo.
func NewBlacklistService(entries repo.BlacklistRepo) *BlacklistService {
	return &BlacklistService{entries: entries}
}

// Create validates and persists a new entry. addedBy is the calling subject.
func (s *BlacklistService) Create(ctx context.Context, partnerID uuid.UUID, addedBy string, e domain.BlacklistEntry) (domain.BlacklistEntry, error) {
	e.PartnerID = partnerID
	e.AddedBy = addedBy
	e.Identity = e.Identity.Normalize()

	fe := domain.FieldErrors{}
	if !e.Identity.HasAny() {
		fe.Add("identity", "at least one of cin, passport, license_number is required")
	}
	requireText(fe, "reason", e.Reason)
	if err := fe.Err(); err != nil {
		return domain.BlacklistEntry{}, fmt.Errorf("service.BlacklistService.Create: %w", err)
	}

	created, err := s.entries.Create(ctx, e)
	if err != nil {
		return domain.BlacklistEntry{}, fmt.Errorf("service.BlacklistService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns one blacklist entry owned by the partner.
func (s *BlacklistService) GetByID(ctx context.Context, partnerID, id uuid.UUID) (domain.BlacklistEntry, error) {
	e, err := s.entries.GetByID(ctx, partnerID, id)
	if err != nil {
		return domain.BlacklistEntry{}, fmt.Errorf("service.BlacklistService.GetByID: %w", err)
	}
	return e, nil
}

// List returns every entry of the partner, newest first.
func (s *BlacklistService) List(ctx context.Context, partnerID uuid.UUID) ([]domain.BlacklistEntry, error) {
	entries, err := s.entries.List(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("service.BlacklistService.List: %w", err)
	}
	return entries, nil
}

// Delete removes a blacklist entry owned by the partner.
func (s *BlacklistService) Delete(ctx context.Context, partnerID, id uuid.UUID) error {
	if err := s.entries.Delete(ctx, partnerID, id); err != nil {
		return fmt.Errorf("service.BlacklistService.Delete: %w", err)
	}
	return nil
}

// Check screens c against the partner's blacklist and returns the matching
// entry, if any.
func (s *BlacklistService) Check(ctx context.Context, partnerID uuid.UUID, c screening.Candidate) (domain.BlacklistEntry, bool, error) {
	if c.Empty() {
		fe := domain.FieldErrors{}
		fe.Add("identity", "at least one of cin, passport, license_number is required")
		return domain.BlacklistEntry{}, false, fmt.Errorf("service.BlacklistService.Check: %w", fe)
	}
	entries, err := loadBlacklist(ctx, s.entries, partnerID)
	if err != nil {
		return domain.BlacklistEntry{}, false, fmt.Errorf("service.BlacklistService.Check: %w", err)
	}
	e, ok := screening.Match(c, entries)
	return e, ok, nil
}

// VerifyByCIN screens on the national id number alone.
func (s *BlacklistService) VerifyByCIN(ctx context.Context, partnerID uuid.UUID, cin string) (domain.BlacklistEntry, bool, error) {
	if strings.TrimSpace(cin) == "" {
		fe := domain.FieldErrors{}
		fe.Add("cin", "is required")
		return domain.BlacklistEntry{}, false, fmt.Errorf("service.BlacklistService.VerifyByCIN: %w", fe)
	}
	e, ok, err := s.Check(ctx, partnerID, screening.Candidate{CIN: cin})
	if err != nil {
		return domain.BlacklistEntry{}, false, fmt.Errorf("service.BlacklistService.VerifyByCIN: %w", err)
	}
	return e, ok, nil
}

// loadBlacklist fetches the entry set screening runs against. Any failure is
// reported as domain.ErrScreeningUnavailable so the caller fails closed.
func loadBlacklist(ctx context.Context, entries repo.BlacklistRepo, partnerID uuid.UUID) ([]domain.BlacklistEntry, error) {
	list, err := entries.List(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrScreeningUnavailable, err)
	}
	return list, nil
}

// screen loads the blacklist and rejects c when it matches an entry.
func screen(ctx context.Context, entries repo.BlacklistRepo, partnerID uuid.UUID, c screening.Candidate) error {
	list, err := loadBlacklist(ctx, entries, partnerID)
	if err != nil {
		return err
	}
	if e, ok := screening.Match(c, list); ok {
		return fmt.Errorf("%w: matches blacklist entry %s", domain.ErrBlacklisted, e.ID)
	}
	return nil
}
