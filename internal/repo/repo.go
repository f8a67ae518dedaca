// Package repo contains all database access logic for the partner API.
// Each resource has its own file with an interface and a Postgres implementation.
// Every query is scoped by partner_id; a row belonging to another partner is
// reported as domain.ErrNotFound. No business logic lives here.
package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/locapro/partner-api/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Integration tests pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// mapErr translates driver errors into domain sentinels. Missing rows become
// ErrNotFound; integrity violations (SQLSTATE class 23) become ErrValidation
// carrying the constraint detail.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		msg := pgErr.Detail
		if msg == "" {
			msg = pgErr.Message
		}
		return fmt.Errorf("%w: %s", domain.ErrValidation, msg)
	}
	return err
}

// requireRows turns an Exec that touched nothing into ErrNotFound.
func requireRows(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func fromUUID(id pgtype.UUID) uuid.UUID {
	return uuid.UUID(id.Bytes)
}

// datePtr converts a nullable DATE column to *time.Time.
func datePtr(d pgtype.Date) *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}

// dateArg prepares an optional date for a DATE parameter. nil becomes NULL.
func dateArg(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: *t, Valid: true}
}
