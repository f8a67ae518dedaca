package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/locapro/partner-api/internal/domain"
	"github.com/locapro/partner-api/internal/repo"
)

// PartnerService reads and edits the calling partner's own profile.
type PartnerService struct {
	partners repo.PartnerRepo
}

// NewPartnerService constructs a PartnerService backed by the provided PartnerRepo.
func NewPartnerService(partners repo.PartnerRepo) *PartnerService {
	return &PartnerService{partners: partners}
}

func (s *PartnerService) Get(ctx context.Context, partnerID uuid.UUID) (domain.Partner, error) {
	p, err := s.partners.GetByID(ctx, partnerID)
	if err != nil {
		return domain.Partner{}, fmt.Errorf("service.PartnerService.Get: %w", err)
	}
	return p, nil
}

// Update edits the profile fields. Status and role are never taken from p.
func (s *PartnerService) Update(ctx context.Context, partnerID uuid.UUID, p domain.Partner) (domain.Partner, error) {
	p.ID = partnerID
	fe := domain.FieldErrors{}
	requireText(fe, "company_name", p.CompanyName)
	if err := fe.Err(); err != nil {
		return domain.Partner{}, fmt.Errorf("service.PartnerService.Update: %w", err)
	}
	updated, err := s.partners.Update(ctx, p)
	if err != nil {
		return domain.Partner{}, fmt.Errorf("service.PartnerService.Update: %w", err)
	}
	return updated, nil
}
