package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/locapro/partner-api/internal/domain"
)

// BlacklistRepo defines the persistence operations for a partner's blacklist.
// Entries are immutable: there is no Update.
type BlacklistRepo interface {
	// Create inserts an entry and returns the persisted record.
	Create(ctx context.Context, e domain.BlacklistEntry) (domain.BlacklistEntry, error)

	// GetByID returns domain.ErrNotFound when the entry does not exist
	// or belongs to another partner.
	GetByID(ctx context.Context, partnerID, id uuid.UUID) (domain.BlacklistEntry, error)

	// List returns every entry of the partner, newest first. Screening runs
	// against this full set.
	List(ctx context.Context, partnerID uuid.UUID) ([]domain.BlacklistEntry, error)

	// Delete removes an entry. Returns domain.ErrNotFound if nothing was deleted.
	Delete(ctx context.Context, partnerID, id uuid.UUID) error

	// Count returns how many entries the partner has.
	Count(ctx context.Context, partnerID uuid.UUID) (int64, error)
}

type pgBlacklistRepo struct {
	db db
}

// NewBlacklistRepo constructs a BlacklistRepo backed by the provided db connection.
func NewBlacklistRepo(db db) BlacklistRepo {
	return &pgBlacklistRepo{db: db}
}

const blacklistColumns = `
	id, partner_id, cin, passport, license_number, client_name, phone, email,
	reason, added_by, created_at`

func (r *pgBlacklistRepo) Create(ctx context.Context, e domain.BlacklistEntry) (domain.BlacklistEntry, error) {
	const q = `
		INSERT INTO blacklist_entries (partner_id, cin, passport, license_number,
		                               client_name, phone, email, reason, added_by)
		VALUES (@partner_id, @cin, @passport, @license_number,
		        @client_name, @phone, @email, @reason, @added_by)
		RETURNING ` + blacklistColumns

	id := e.Identity.Normalize()
	args := pgx.NamedArgs{
		"partner_id":     e.PartnerID,
		"cin":            id.CIN,
		"passport":       id.Passport,
		"license_number": id.LicenseNumber,
		"client_name":    e.ClientName,
		"phone":          e.Phone,
		"email":          e.Email,
		"reason":         e.Reason,
		"added_by":       e.AddedBy,
	}
	result, err := scanBlacklistEntry(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.BlacklistEntry{}, fmt.Errorf("repo.BlacklistRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgBlacklistRepo) GetByID(ctx context.Context, partnerID, id uuid.UUID) (domain.BlacklistEntry, error) {
	const q = `SELECT ` + blacklistColumns + ` FROM blacklist_entries WHERE id = @id AND partner_id = @partner_id`

	result, err := scanBlacklistEntry(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "partner_id": partnerID}))
	if err != nil {
		return domain.BlacklistEntry{}, fmt.Errorf("repo.BlacklistRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgBlacklistRepo) List(ctx context.Context, partnerID uuid.UUID) ([]domain.BlacklistEntry, error) {
	const q = `
		SELECT ` + blacklistColumns + `
		FROM blacklist_entries
		WHERE partner_id = @partner_id
		ORDER BY created_at DESC, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"partner_id": partnerID})
	if err != nil {
		return nil, fmt.Errorf("repo.BlacklistRepo.List: %w", err)
	}
	defer rows.Close()

	entries := []domain.BlacklistEntry{}
	for rows.Next() {
		e, err := scanBlacklistEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.BlacklistRepo.List: scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.BlacklistRepo.List: rows: %w", err)
	}
	return entries, nil
}

func (r *pgBlacklistRepo) Delete(ctx context.Context, partnerID, id uuid.UUID) error {
	const q = `DELETE FROM blacklist_entries WHERE id = @id AND partner_id = @partner_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "partner_id": partnerID})
	if err != nil {
		return fmt.Errorf("repo.BlacklistRepo.Delete: %w", mapErr(err))
	}
	if err := requireRows(tag); err != nil {
		return fmt.Errorf("repo.BlacklistRepo.Delete: %w", err)
	}
	return nil
}

func (r *pgBlacklistRepo) Count(ctx context.Context, partnerID uuid.UUID) (int64, error) {
	const q = `SELECT COUNT(*) FROM blacklist_entries WHERE partner_id = @partner_id`

	var n int64
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"partner_id": partnerID}).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.BlacklistRepo.Count: %w", err)
	}
	return n, nil
}

func scanBlacklistEntry(s scanner) (domain.BlacklistEntry, error) {
	var (
		e             domain.BlacklistEntry
		id, partnerID pgtype.UUID
	)
	err := s.Scan(&id, &partnerID, &e.Identity.CIN, &e.Identity.Passport, &e.Identity.LicenseNumber,
		&e.ClientName, &e.Phone, &e.Email, &e.Reason, &e.AddedBy, &e.CreatedAt)
	if err != nil {
		return domain.BlacklistEntry{}, mapErr(err)
	}
	e.ID = fromUUID(id)
	e.PartnerID = fromUUID(partnerID)
	return e, nil
}
