package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/locapro/partner-api/internal/domain"
)

// PartnerRepo defines the persistence operations for partner accounts.
type PartnerRepo interface {
	// Create inserts a partner and returns the persisted record.
	// A duplicate email is reported as domain.ErrValidation.
	Create(ctx context.Context, p domain.Partner) (domain.Partner, error)

	// GetByID returns domain.ErrNotFound if the partner does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Partner, error)

	// Update overwrites the profile fields a partner may edit. Status and role
	// are owned by the identity system and are left untouched.
	Update(ctx context.Context, p domain.Partner) (domain.Partner, error)
}

type pgPartnerRepo struct {
	db db
}

// NewPartnerRepo constructs a PartnerRepo backed by the provided db connection.
func NewPartnerRepo(db db) PartnerRepo {
	return &pgPartnerRepo{db: db}
}

const partnerColumns = `id, company_name, email, phone, logo_url, country, city, status, role, created_at, updated_at`

func (r *pgPartnerRepo) Create(ctx context.Context, p domain.Partner) (domain.Partner, error) {
	const q = `
		INSERT INTO partners (company_name, email, phone, logo_url, country, city, status, role)
		VALUES (@company_name, @email, @phone, @logo_url, @country, @city,
		        COALESCE(NULLIF(@status, ''), 'pending'), COALESCE(NULLIF(@role, ''), 'partner'))
		RETURNING ` + partnerColumns

	args := pgx.NamedArgs{
		"company_name": p.CompanyName,
		"email":        p.Email,
		"phone":        p.Phone,
		"logo_url":     p.LogoURL,
		"country":      p.Country,
		"city":         p.City,
		"status":       p.Status,
		"role":         p.Role,
	}
	result, err := scanPartner(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Partner{}, fmt.Errorf("repo.PartnerRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgPartnerRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Partner, error) {
	const q = `SELECT ` + partnerColumns + ` FROM partners WHERE id = @id`

	result, err := scanPartner(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Partner{}, fmt.Errorf("repo.PartnerRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgPartnerRepo) Update(ctx context.Context, p domain.Partner) (domain.Partner, error) {
	const q = `
		UPDATE partners
		SET company_name = @company_name,
		    phone        = @phone,
		    logo_url     = @logo_url,
		    country      = @country,
		    city         = @city,
		    updated_at   = now()
		WHERE id = @id
		RETURNING ` + partnerColumns

	args := pgx.NamedArgs{
		"id":           p.ID,
		"company_name": p.CompanyName,
		"phone":        p.Phone,
		"logo_url":     p.LogoURL,
		"country":      p.Country,
		"city":         p.City,
	}
	result, err := scanPartner(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Partner{}, fmt.Errorf("repo.PartnerRepo.Update: %w", err)
	}
	return result, nil
}

func scanPartner(s scanner) (domain.Partner, error) {
	var (
		p  domain.Partner
		id pgtype.UUID
	)
	err := s.Scan(&id, &p.CompanyName, &p.Email, &p.Phone, &p.LogoURL,
		&p.Country, &p.City, &p.Status, &p.Role, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Partner{}, mapErr(err)
	}
	p.ID = fromUUID(id)
	return p, nil
}
