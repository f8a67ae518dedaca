package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/locapro/partner-api/internal/domain"
)

// ClientRepo defines the persistence operations for a partner's renters.
type ClientRepo interface {
	// Create inserts a client and returns the persisted record.
	Create(ctx context.Context, c domain.Client) (domain.Client, error)

	// GetByID returns domain.ErrNotFound when the client does not exist
	// or belongs to another partner.
	GetByID(ctx context.Context, partnerID, id uuid.UUID) (domain.Client, error)

	// ListPaged returns one page of clients ordered by last then first name.
	// A non-empty search matches names and identity numbers case-insensitively.
	ListPaged(ctx context.Context, partnerID uuid.UUID, search string, p domain.PaginationParams) ([]domain.Client, int64, error)

	// Update overwrites the mutable fields of a client.
	Update(ctx context.Context, c domain.Client) (domain.Client, error)

	// Delete removes a client. Returns domain.ErrNotFound if nothing was deleted.
	Delete(ctx context.Context, partnerID, id uuid.UUID) error

	// Count returns how many clients the partner has on file.
	Count(ctx context.Context, partnerID uuid.UUID) (int64, error)
}

type pgClientRepo struct {
	db db
}

// NewClientRepo constructs a ClientRepo backed by the provided db connection.
func NewClientRepo(db db) ClientRepo {
	return &pgClientRepo{db: db}
}

const clientColumns = `
	id, partner_id, last_name, first_name, birth_date, phone, address,
	cin, passport, license_number, license_issue_date, created_at, updated_at`

func clientArgs(c domain.Client) pgx.NamedArgs {
	id := c.Identity.Normalize()
	return pgx.NamedArgs{
		"id":                 c.ID,
		"partner_id":         c.PartnerID,
		"last_name":          c.LastName,
		"first_name":         c.FirstName,
		"birth_date":         pgtype.Date{Time: c.BirthDate, Valid: !c.BirthDate.IsZero()},
		"phone":              c.Phone,
		"address":            c.Address,
		"cin":                id.CIN,
		"passport":           id.Passport,
		"license_number":     id.LicenseNumber,
		"license_issue_date": dateArg(c.LicenseIssueDate),
	}
}

func (r *pgClientRepo) Create(ctx context.Context, c domain.Client) (domain.Client, error) {
	const q = `
		INSERT INTO clients (partner_id, last_name, first_name, birth_date, phone, address,
		                     cin, passport, license_number, license_issue_date)
		VALUES (@partner_id, @last_name, @first_name, @birth_date, @phone, @address,
		        @cin, @passport, @license_number, @license_issue_date)
		RETURNING ` + clientColumns

	result, err := scanClient(r.db.QueryRow(ctx, q, clientArgs(c)))
	if err != nil {
		return domain.Client{}, fmt.Errorf("repo.ClientRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgClientRepo) GetByID(ctx context.Context, partnerID, id uuid.UUID) (domain.Client, error) {
	const q = `SELECT ` + clientColumns + ` FROM clients WHERE id = @id AND partner_id = @partner_id`

	result, err := scanClient(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "partner_id": partnerID}))
	if err != nil {
		return domain.Client{}, fmt.Errorf("repo.ClientRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgClientRepo) ListPaged(ctx context.Context, partnerID uuid.UUID, search string, p domain.PaginationParams) ([]domain.Client, int64, error) {
	const where = `
		WHERE partner_id = @partner_id
		  AND (@search = '' OR
		       last_name ILIKE '%' || @search || '%' OR
		       first_name ILIKE '%' || @search || '%' OR
		       cin ILIKE @search || '%' OR
		       passport ILIKE @search || '%' OR
		       license_number ILIKE @search || '%')`

	const countQ = `SELECT COUNT(*) FROM clients` + where
	const q = `SELECT ` + clientColumns + ` FROM clients` + where + `
		ORDER BY last_name, first_name, id
		LIMIT @limit OFFSET @offset`

	var total int64
	filter := pgx.NamedArgs{"partner_id": partnerID, "search": search}
	if err := r.db.QueryRow(ctx, countQ, filter).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.ClientRepo.ListPaged: count: %w", err)
	}

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"partner_id": partnerID,
		"search":     search,
		"limit":      p.Limit,
		"offset":     p.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ClientRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	clients := []domain.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.ClientRepo.ListPaged: scan: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.ClientRepo.ListPaged: rows: %w", err)
	}
	return clients, total, nil
}

func (r *pgClientRepo) Update(ctx context.Context, c domain.Client) (domain.Client, error) {
	const q = `
		UPDATE clients
		SET last_name          = @last_name,
		    first_name         = @first_name,
		    birth_date         = @birth_date,
		    phone              = @phone,
		    address            = @address,
		    cin                = @cin,
		    passport           = @passport,
		    license_number     = @license_number,
		    license_issue_date = @license_issue_date,
		    updated_at         = now()
		WHERE id = @id AND partner_id = @partner_id
		RETURNING ` + clientColumns

	result, err := scanClient(r.db.QueryRow(ctx, q, clientArgs(c)))
	if err != nil {
		return domain.Client{}, fmt.Errorf("repo.ClientRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgClientRepo) Delete(ctx context.Context, partnerID, id uuid.UUID) error {
	const q = `DELETE FROM clients WHERE id = @id AND partner_id = @partner_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "partner_id": partnerID})
	if err != nil {
		return fmt.Errorf("repo.ClientRepo.Delete: %w", mapErr(err))
	}
	if err := requireRows(tag); err != nil {
		return fmt.Errorf("repo.ClientRepo.Delete: %w", err)
	}
	return nil
}

func (r *pgClientRepo) Count(ctx context.Context, partnerID uuid.UUID) (int64, error) {
	const q = `SELECT COUNT(*) FROM clients WHERE partner_id = @partner_id`

	var n int64
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"partner_id": partnerID}).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.ClientRepo.Count: %w", err)
	}
	return n, nil
}

func scanClient(s scanner) (domain.Client, error) {
	var (
		c                    domain.Client
		id, partnerID        pgtype.UUID
		birth, licenseIssued pgtype.Date
	)
	err := s.Scan(&id, &partnerID, &c.LastName, &c.FirstName, &birth, &c.Phone, &c.Address,
		&c.Identity.CIN, &c.Identity.Passport, &c.Identity.LicenseNumber, &licenseIssued,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Client{}, mapErr(err)
	}
	c.ID = fromUUID(id)
	c.PartnerID = fromUUID(partnerID)
	c.BirthDate = birth.Time
	c.LicenseIssueDate = datePtr(licenseIssued)
	return c, nil
}
