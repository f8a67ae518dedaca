package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/locapro/partner-api/internal/domain"
)

// ContractFilter narrows a contract listing. Zero values match everything.
type ContractFilter struct {
	// Status matches the effective status: the stored one, or the one implied
	// by the rental window when none was ever stored.
	Status    domain.ContractStatus
	VehicleID uuid.UUID
}

// ContractRepo defines the persistence operations for rental contracts.
// The client, second driver, vehicle, and partner are stored as JSONB copies.
type ContractRepo interface {
	// Create inserts a contract with its snapshots and returns the persisted record.
	Create(ctx context.Context, c domain.Contract) (domain.Contract, error)

	// GetByID returns domain.ErrNotFound when the contract does not exist
	// or belongs to another partner.
	GetByID(ctx context.Context, partnerID, id uuid.UUID) (domain.Contract, error)

	// ListPaged returns one page of contracts, newest first, and the total
	// count. now resolves the effective status used by f.Status.
	ListPaged(ctx context.Context, partnerID uuid.UUID, f ContractFilter, now time.Time, p domain.PaginationParams) ([]domain.Contract, int64, error)

	// Update replaces the snapshots and rental fields. Status, created_by and
	// created_at are left as they are.
	Update(ctx context.Context, c domain.Contract) (domain.Contract, error)

	// UpdateStatus writes the status column only.
	UpdateStatus(ctx context.Context, partnerID, id uuid.UUID, status domain.ContractStatus) (domain.Contract, error)

	// Delete removes a contract. Returns domain.ErrNotFound if nothing was deleted.
	Delete(ctx context.Context, partnerID, id uuid.UUID) error

	// CountByEffectiveStatus groups the partner's contracts by effective status at now.
	CountByEffectiveStatus(ctx context.Context, partnerID uuid.UUID, now time.Time) (map[domain.ContractStatus]int64, error)
}

type pgContractRepo struct {
	db db
}

// NewContractRepo constructs a ContractRepo backed by the provided db connection.
func NewContractRepo(db db) ContractRepo {
	return &pgContractRepo{db: db}
}

const contractColumns = `
	id, partner_id, vehicle_id, client_info, second_driver_info, vehicle_info, partner_info,
	start_at, end_at, pickup_location, return_location, price_per_day, total_price,
	rental_days, status, created_by, created_at, updated_at`

// effectiveStatusSQL mirrors domain.Contract.EffectiveStatus.
const effectiveStatusSQL = `
	CASE
		WHEN status IS NOT NULL THEN status
		WHEN @now < start_at THEN 'pending'
		WHEN @now > end_at THEN 'completed'
		ELSE 'active'
	END`

func statusArg(s domain.ContractStatus) pgtype.Text {
	return pgtype.Text{String: string(s), Valid: s != ""}
}

func contractArgs(c domain.Contract) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":                 c.ID,
		"partner_id":         c.PartnerID,
		"vehicle_id":         c.VehicleID,
		"client_info":        c.Client,
		"second_driver_info": c.SecondDriver,
		"vehicle_info":       c.Vehicle,
		"partner_info":       c.Partner,
		"start_at":           c.Rental.StartAt,
		"end_at":             c.Rental.EndAt,
		"pickup_location":    c.Rental.PickupLocation,
		"return_location":    c.Rental.ReturnLocation,
		"price_per_day":      c.Rental.PricePerDay,
		"total_price":        c.Rental.TotalPrice,
		"rental_days":        c.Rental.RentalDays,
		"status":             statusArg(c.Status),
		"created_by":         c.CreatedBy,
	}
}

func (r *pgContractRepo) Create(ctx context.Context, c domain.Contract) (domain.Contract, error) {
	const q = `
		INSERT INTO contracts (
			partner_id, vehicle_id, client_info, second_driver_info, vehicle_info, partner_info,
			start_at, end_at, pickup_location, return_location, price_per_day, total_price,
			rental_days, status, created_by)
		VALUES (
			@partner_id, @vehicle_id, @client_info, @second_driver_info, @vehicle_info, @partner_info,
			@start_at, @end_at, @pickup_location, @return_location, @price_per_day, @total_price,
			@rental_days, @status, @created_by)
		RETURNING ` + contractColumns

	result, err := scanContract(r.db.QueryRow(ctx, q, contractArgs(c)))
	if err != nil {
		return domain.Contract{}, fmt.Errorf("repo.ContractRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgContractRepo) GetByID(ctx context.Context, partnerID, id uuid.UUID) (domain.Contract, error) {
	const q = `SELECT ` + contractColumns + ` FROM contracts WHERE id = @id AND partner_id = @partner_id`

	result, err := scanContract(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "partner_id": partnerID}))
	if err != nil {
		return domain.Contract{}, fmt.Errorf("repo.ContractRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgContractRepo) ListPaged(ctx context.Context, partnerID uuid.UUID, f ContractFilter, now time.Time, p domain.PaginationParams) ([]domain.Contract, int64, error) {
	const where = `
		WHERE partner_id = @partner_id
		  AND (@status = '' OR ` + effectiveStatusSQL + ` = @status)
		  AND (@vehicle_id::uuid IS NULL OR vehicle_id = @vehicle_id)`

	const countQ = `SELECT COUNT(*) FROM contracts` + where
	const q = `SELECT ` + contractColumns + ` FROM contracts` + where + `
		ORDER BY created_at DESC, id
		LIMIT @limit OFFSET @offset`

	var vehicleID pgtype.UUID
	if f.VehicleID != uuid.Nil {
		vehicleID = pgtype.UUID{Bytes: f.VehicleID, Valid: true}
	}
	args := pgx.NamedArgs{
		"partner_id": partnerID,
		"status":     string(f.Status),
		"vehicle_id": vehicleID,
		"now":        now,
	}

	var total int64
	if err := r.db.QueryRow(ctx, countQ, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.ContractRepo.ListPaged: count: %w", err)
	}

	args["limit"] = p.Limit
	args["offset"] = p.Offset()
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ContractRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	contracts := []domain.Contract{}
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.ContractRepo.ListPaged: scan: %w", err)
		}
		contracts = append(contracts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.ContractRepo.ListPaged: rows: %w", err)
	}
	return contracts, total, nil
}

func (r *pgContractRepo) Update(ctx context.Context, c domain.Contract) (domain.Contract, error) {
	const q = `
		UPDATE contracts
		SET vehicle_id         = @vehicle_id,
		    client_info        = @client_info,
		    second_driver_info = @second_driver_info,
		    vehicle_info       = @vehicle_info,
		    partner_info       = @partner_info,
		    start_at           = @start_at,
		    end_at             = @end_at,
		    pickup_location    = @pickup_location,
		    return_location    = @return_location,
		    price_per_day      = @price_per_day,
		    total_price        = @total_price,
		    rental_days        = @rental_days,
		    updated_at         = now()
		WHERE id = @id AND partner_id = @partner_id
		RETURNING ` + contractColumns

	args := contractArgs(c)
	delete(args, "status")
	delete(args, "created_by")

	result, err := scanContract(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Contract{}, fmt.Errorf("repo.ContractRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgContractRepo) UpdateStatus(ctx context.Context, partnerID, id uuid.UUID, status domain.ContractStatus) (domain.Contract, error) {
	const q = `
		UPDATE contracts
		SET status = @status, updated_at = now()
		WHERE id = @id AND partner_id = @partner_id
		RETURNING ` + contractColumns

	args := pgx.NamedArgs{"id": id, "partner_id": partnerID, "status": statusArg(status)}
	result, err := scanContract(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Contract{}, fmt.Errorf("repo.ContractRepo.UpdateStatus: %w", err)
	}
	return result, nil
}

func (r *pgContractRepo) Delete(ctx context.Context, partnerID, id uuid.UUID) error {
	const q = `DELETE FROM contracts WHERE id = @id AND partner_id = @partner_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "partner_id": partnerID})
	if err != nil {
		return fmt.Errorf("repo.ContractRepo.Delete: %w", mapErr(err))
	}
	if err := requireRows(tag); err != nil {
		return fmt.Errorf("repo.ContractRepo.Delete: %w", err)
	}
	return nil
}

func (r *pgContractRepo) CountByEffectiveStatus(ctx context.Context, partnerID uuid.UUID, now time.Time) (map[domain.ContractStatus]int64, error) {
	const q = `
		SELECT ` + effectiveStatusSQL + ` AS effective, COUNT(*)
		FROM contracts
		WHERE partner_id = @partner_id
		GROUP BY effective`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"partner_id": partnerID, "now": now})
	if err != nil {
		return nil, fmt.Errorf("repo.ContractRepo.CountByEffectiveStatus: %w", err)
	}
	defer rows.Close()

	counts := map[domain.ContractStatus]int64{}
	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("repo.ContractRepo.CountByEffectiveStatus: scan: %w", err)
		}
		counts[domain.ContractStatus(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ContractRepo.CountByEffectiveStatus: rows: %w", err)
	}
	return counts, nil
}

// scanContract maps a row selected with contractColumns into a domain.Contract.
// The JSONB snapshot columns decode straight into their domain structs.
func scanContract(s scanner) (domain.Contract, error) {
	var (
		c                        domain.Contract
		id, partnerID, vehicleID pgtype.UUID
		status                   pgtype.Text
	)
	err := s.Scan(
		&id, &partnerID, &vehicleID, &c.Client, &c.SecondDriver, &c.Vehicle, &c.Partner,
		&c.Rental.StartAt, &c.Rental.EndAt, &c.Rental.PickupLocation, &c.Rental.ReturnLocation,
		&c.Rental.PricePerDay, &c.Rental.TotalPrice, &c.Rental.RentalDays,
		&status, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return domain.Contract{}, mapErr(err)
	}
	c.ID = fromUUID(id)
	c.PartnerID = fromUUID(partnerID)
	c.VehicleID = fromUUID(vehicleID)
	if status.Valid {
		c.Status = domain.ContractStatus(status.String)
	}
	return c, nil
}
