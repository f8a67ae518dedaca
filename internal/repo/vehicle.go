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

// VehicleRepo defines the persistence operations for a partner's fleet.
// Every read and write is scoped by partner id.
type VehicleRepo interface {
	// Create inserts a vehicle and returns the persisted record.
	Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)

	// GetByID returns domain.ErrNotFound when the vehicle does not exist
	// or belongs to another partner.
	GetByID(ctx context.Context, partnerID, id uuid.UUID) (domain.Vehicle, error)

	// ListPaged returns one page of vehicles, newest first, and the total count.
	// When availableOnly is true, disabled vehicles are skipped.
	ListPaged(ctx context.Context, partnerID uuid.UUID, availableOnly bool, p domain.PaginationParams) ([]domain.Vehicle, int64, error)

	// Update overwrites every mutable field of the vehicle.
	Update(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)

	// SetAvailability flips the available flag only.
	SetAvailability(ctx context.Context, partnerID, id uuid.UUID, available bool) (domain.Vehicle, error)

	// Delete removes the vehicle. Contracts keep their own copy of it.
	Delete(ctx context.Context, partnerID, id uuid.UUID) error

	// Count returns the partner's total and available vehicle counts.
	Count(ctx context.Context, partnerID uuid.UUID) (total, available int64, err error)

	// ListInsuranceExpiring returns vehicles of every partner whose insurance
	// ends on or before cutoff, soonest first.
	ListInsuranceExpiring(ctx context.Context, cutoff time.Time) ([]domain.Vehicle, error)
}

type pgVehicleRepo struct {
	db db
}

// NewVehicleRepo constructs a VehicleRepo backed by the provided db connection.
func NewVehicleRepo(db db) VehicleRepo {
	return &pgVehicleRepo{db: db}
}

const vehicleColumns = `
	id, partner_id, name, category, transmission, fuel_type, description, image_url,
	price_per_day, fuel_level, has_radio, has_gps, has_mp3, has_cd, key_count,
	odometer_start, odometer_return, tax_years_paid, insurance_start, insurance_end,
	oil_change_interval_km, remarks, damages, available, created_at, updated_at`

func vehicleArgs(v domain.Vehicle) pgx.NamedArgs {
	taxYears := v.TaxYearsPaid
	if taxYears == nil {
		taxYears = []int{}
	}
	damages := v.Damages
	if damages == nil {
		damages = []string{}
	}
	return pgx.NamedArgs{
		"id":                     v.ID,
		"partner_id":             v.PartnerID,
		"name":                   v.Name,
		"category":               v.Category,
		"transmission":           v.Transmission,
		"fuel_type":              v.FuelType,
		"description":            v.Description,
		"image_url":              v.ImageURL,
		"price_per_day":          v.PricePerDay,
		"fuel_level":             v.FuelLevel,
		"has_radio":              v.Equipment.Radio,
		"has_gps":                v.Equipment.GPS,
		"has_mp3":                v.Equipment.MP3,
		"has_cd":                 v.Equipment.CD,
		"key_count":              v.KeyCount,
		"odometer_start":         v.OdometerStart,
		"odometer_return":        v.OdometerReturn,
		"tax_years_paid":         taxYears,
		"insurance_start":        dateArg(v.InsuranceStart),
		"insurance_end":          dateArg(v.InsuranceEnd),
		"oil_change_interval_km": v.OilChangeInterval,
		"remarks":                v.Remarks,
		"damages":                damages,
		"available":              v.Available,
	}
}

func (r *pgVehicleRepo) Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	const q = `
		INSERT INTO vehicles (
			partner_id, name, category, transmission, fuel_type, description, image_url,
			price_per_day, fuel_level, has_radio, has_gps, has_mp3, has_cd, key_count,
			odometer_start, odometer_return, tax_years_paid, insurance_start, insurance_end,
			oil_change_interval_km, remarks, damages, available)
		VALUES (
			@partner_id, @name, @category, @transmission, @fuel_type, @description, @image_url,
			@price_per_day, @fuel_level, @has_radio, @has_gps, @has_mp3, @has_cd, @key_count,
			@odometer_start, @odometer_return, @tax_years_paid, @insurance_start, @insurance_end,
			@oil_change_interval_km, @remarks, @damages, @available)
		RETURNING ` + vehicleColumns

	result, err := scanVehicle(r.db.QueryRow(ctx, q, vehicleArgs(v)))
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgVehicleRepo) GetByID(ctx context.Context, partnerID, id uuid.UUID) (domain.Vehicle, error) {
	const q = `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = @id AND partner_id = @partner_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "partner_id": partnerID})
	result, err := scanVehicle(row)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgVehicleRepo) ListPaged(ctx context.Context, partnerID uuid.UUID, availableOnly bool, p domain.PaginationParams) ([]domain.Vehicle, int64, error) {
	const countQ = `
		SELECT COUNT(*) FROM vehicles
		WHERE partner_id = @partner_id AND (NOT @available_only OR available)`

	const q = `
		SELECT ` + vehicleColumns + `
		FROM vehicles
		WHERE partner_id = @partner_id AND (NOT @available_only OR available)
		ORDER BY created_at DESC, id
		LIMIT @limit OFFSET @offset`

	filter := pgx.NamedArgs{"partner_id": partnerID, "available_only": availableOnly}

	var total int64
	if err := r.db.QueryRow(ctx, countQ, filter).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.VehicleRepo.ListPaged: count: %w", err)
	}

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"partner_id":     partnerID,
		"available_only": availableOnly,
		"limit":          p.Limit,
		"offset":         p.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.VehicleRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	vehicles := []domain.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.VehicleRepo.ListPaged: scan: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.VehicleRepo.ListPaged: rows: %w", err)
	}
	return vehicles, total, nil
}

func (r *pgVehicleRepo) Update(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	const q = `
		UPDATE vehicles
		SET name                   = @name,
		    category               = @category,
		    transmission           = @transmission,
		    fuel_type              = @fuel_type,
		    description            = @description,
		    image_url              = @image_url,
		    price_per_day          = @price_per_day,
		    fuel_level             = @fuel_level,
		    has_radio              = @has_radio,
		    has_gps                = @has_gps,
		    has_mp3                = @has_mp3,
		    has_cd                 = @has_cd,
		    key_count              = @key_count,
		    odometer_start         = @odometer_start,
		    odometer_return        = @odometer_return,
		    tax_years_paid         = @tax_years_paid,
		    insurance_start        = @insurance_start,
		    insurance_end          = @insurance_end,
		    oil_change_interval_km = @oil_change_interval_km,
		    remarks                = @remarks,
		    damages                = @damages,
		    available              = @available,
		    updated_at             = now()
		WHERE id = @id AND partner_id = @partner_id
		RETURNING ` + vehicleColumns

	result, err := scanVehicle(r.db.QueryRow(ctx, q, vehicleArgs(v)))
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgVehicleRepo) SetAvailability(ctx context.Context, partnerID, id uuid.UUID, available bool) (domain.Vehicle, error) {
	const q = `
		UPDATE vehicles
		SET available = @available, updated_at = now()
		WHERE id = @id AND partner_id = @partner_id
		RETURNING ` + vehicleColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "partner_id": partnerID, "available": available})
	result, err := scanVehicle(row)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.SetAvailability: %w", err)
	}
	return result, nil
}

func (r *pgVehicleRepo) Delete(ctx context.Context, partnerID, id uuid.UUID) error {
	const q = `DELETE FROM vehicles WHERE id = @id AND partner_id = @partner_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "partner_id": partnerID})
	if err != nil {
		return fmt.Errorf("repo.VehicleRepo.Delete: %w", mapErr(err))
	}
	if err := requireRows(tag); err != nil {
		return fmt.Errorf("repo.VehicleRepo.Delete: %w", err)
	}
	return nil
}

func (r *pgVehicleRepo) Count(ctx context.Context, partnerID uuid.UUID) (int64, int64, error) {
	const q = `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE available)
		FROM vehicles
		WHERE partner_id = @partner_id`

	var total, available int64
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"partner_id": partnerID}).Scan(&total, &available); err != nil {
		return 0, 0, fmt.Errorf("repo.VehicleRepo.Count: %w", err)
	}
	return total, available, nil
}

func (r *pgVehicleRepo) ListInsuranceExpiring(ctx context.Context, cutoff time.Time) ([]domain.Vehicle, error) {
	const q = `
		SELECT ` + vehicleColumns + `
		FROM vehicles
		WHERE insurance_end IS NOT NULL AND insurance_end <= @cutoff
		ORDER BY insurance_end, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"cutoff": pgtype.Date{Time: cutoff, Valid: true}})
	if err != nil {
		return nil, fmt.Errorf("repo.VehicleRepo.ListInsuranceExpiring: %w", err)
	}
	defer rows.Close()

	vehicles := []domain.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.VehicleRepo.ListInsuranceExpiring: scan: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.VehicleRepo.ListInsuranceExpiring: rows: %w", err)
	}
	return vehicles, nil
}

// scanVehicle maps a row selected with vehicleColumns into a domain.Vehicle.
func scanVehicle(s scanner) (domain.Vehicle, error) {
	var (
		v                domain.Vehicle
		id, partnerID    pgtype.UUID
		insStart, insEnd pgtype.Date
	)
	err := s.Scan(
		&id, &partnerID, &v.Name, &v.Category, &v.Transmission, &v.FuelType,
		&v.Description, &v.ImageURL, &v.PricePerDay, &v.FuelLevel,
		&v.Equipment.Radio, &v.Equipment.GPS, &v.Equipment.MP3, &v.Equipment.CD,
		&v.KeyCount, &v.OdometerStart, &v.OdometerReturn, &v.TaxYearsPaid,
		&insStart, &insEnd, &v.OilChangeInterval, &v.Remarks, &v.Damages,
		&v.Available, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return domain.Vehicle{}, mapErr(err)
	}
	v.ID = fromUUID(id)
	v.PartnerID = fromUUID(partnerID)
	v.InsuranceStart = datePtr(insStart)
	v.InsuranceEnd = datePtr(insEnd)
	return v, nil
}
