package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/locapro/partner-api/internal/domain"
	"github.com/locapro/partner-api/internal/repo"
	"github.com/locapro/partner-api/internal/screening"
)

// ClientService manages a partner's renters. New clients are screened
// against the blacklist on every identity document.
type ClientService struct {
	clients   repo.ClientRepo
	blacklist repo.BlacklistRepo
}

// NewClientService constructs a ClientService.
func NewClientService(clients repo.ClientRepo, blacklist repo.BlacklistRepo) *ClientService {
	return &ClientService{clients: clients, blacklist: blacklist}
}

// Create validates the client, screens its CIN, passport, and license number,
// and persists it. A match returns domain.ErrBlacklisted and nothing is written.
func (s *ClientService) Create(ctx context.Context, partnerID uuid.UUID, c domain.Client) (domain.Client, error) {
	c.PartnerID = partnerID
	c.Identity = c.Identity.Normalize()
	if err := validateClient(c); err != nil {
		return domain.Client{}, fmt.Errorf("service.ClientService.Create: %w", err)
	}
	if err := screen(ctx, s.blacklist, partnerID, screening.ForClient(c.Identity)); err != nil {
		return domain.Client{}, fmt.Errorf("service.ClientService.Create: %w", err)
	}
	created, err := s.clients.Create(ctx, c)
	if err != nil {
		return domain.Client{}, fmt.Errorf("service.ClientService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns one client owned by the partner.
func (s *ClientService) GetByID(ctx context.Context, partnerID, id uuid.UUID) (domain.Client, error) {
	c, err := s.clients.GetByID(ctx, partnerID, id)
	if err != nil {
		return domain.Client{}, fmt.Errorf("service.ClientService.GetByID: %w", err)
	}
	return c, nil
}

// ListPaged returns one page of clients. search may be empty.
func (s *ClientService) ListPaged(ctx context.Context, partnerID uuid.UUID, search string, p domain.PaginationParams) ([]domain.Client, int64, error) {
	clients, total, err := s.clients.ListPaged(ctx, partnerID, strings.TrimSpace(search), p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.ClientService.ListPaged: %w", err)
	}
	return clients, total, nil
}

// Update validates and persists an edited client. Edits are not re-screened.
func (s *ClientService) Update(ctx context.Context, partnerID uuid.UUID, c domain.Client) (domain.Client, error) {
	c.PartnerID = partnerID
	c.Identity = c.Identity.Normalize()
	if err := validateClient(c); err != nil {
		return domain.Client{}, fmt.Errorf("service.ClientService.Update: %w", err)
	}
	updated, err := s.clients.Update(ctx, c)
	if err != nil {
		return domain.Client{}, fmt.Errorf("service.ClientService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a client owned by the partner.
func (s *ClientService) Delete(ctx context.Context, partnerID, id uuid.UUID) error {
	if err := s.clients.Delete(ctx, partnerID, id); err != nil {
		return fmt.Errorf("service.ClientService.Delete: %w", err)
	}
	return nil
}

// PromoteToBlacklist moves a client onto the blacklist: it creates an entry
// from the client's documents, name, and phone, then deletes the client.
//
// The two writes are not atomic. When the entry was created but the delete
// failed, the entry is returned together with an error wrapping
// domain.ErrPartialFailure; retrying the delete (or deleting the client) is
// left to the caller.
func (s *ClientService) PromoteToBlacklist(ctx context.Context, partnerID uuid.UUID, addedBy string, clientID uuid.UUID, reason string) (domain.BlacklistEntry, error) {
	c, err := s.clients.GetByID(ctx, partnerID, clientID)
	if err != nil {
		return domain.BlacklistEntry{}, fmt.Errorf("service.ClientService.PromoteToBlacklist: %w", err)
	}

	fe := domain.FieldErrors{}
	if !c.Identity.HasAny() {
		fe.Add("identity", "client has no cin, passport, or license_number to blacklist")
	}
	requireText(fe, "reason", reason)
	if err := fe.Err(); err != nil {
		return domain.BlacklistEntry{}, fmt.Errorf("service.ClientService.PromoteToBlacklist: %w", err)
	}

	entry, err := s.blacklist.Create(ctx, domain.BlacklistEntry{
		PartnerID:  partnerID,
		Identity:   c.Identity.Normalize(),
		ClientName: c.FullName(),
		Phone:      c.Phone,
		Reason:     strings.TrimSpace(reason),
		AddedBy:    addedBy,
	})
	if err != nil {
		return domain.BlacklistEntry{}, fmt.Errorf("service.ClientService.PromoteToBlacklist: create entry: %w", err)
	}

	if err := s.clients.Delete(ctx, partnerID, clientID); err != nil {
		return entry, fmt.Errorf("service.ClientService.PromoteToBlacklist: %w",
			errors.Join(
				fmt.Errorf("%w: blacklist entry %s created but client %s was not deleted", domain.ErrPartialFailure, entry.ID, clientID),
				err,
			))
	}
	return entry, nil
}

func validateClient(c domain.Client) error {
	fe := domain.FieldErrors{}
	requireText(fe, "last_name", c.LastName)
	requireText(fe, "first_name", c.FirstName)
	requireTime(fe, "birth_date", c.BirthDate)
	requireText(fe, "phone", c.Phone)
	if !c.Identity.HasAny() {
		fe.Add("identity", "at least one of cin, passport, license_number is required")
	}
	return fe.Err()
}
