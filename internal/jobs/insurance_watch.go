// Package jobs holds the background work the API runs on a schedule.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/locapro/partner-api/internal/domain"
)

// ExpiringVehicleLister is the read the insurance watch needs.
// repo.VehicleRepo satisfies it.
type ExpiringVehicleLister interface {
	ListInsuranceExpiring(ctx context.Context, cutoff time.Time) ([]domain.Vehicle, error)
}

// InsuranceWatch logs every vehicle whose insurance has ended or ends within
// Days days. It never writes.
type InsuranceWatch struct {
	vehicles ExpiringVehicleLister
	days     int
	logger   *slog.Logger
	now      func() time.Time
}

// NewInsuranceWatch constructs an InsuranceWatch using the wall clock.
func NewInsuranceWatch(vehicles ExpiringVehicleLister, days int, logger *slog.Logger) *InsuranceWatch {
	return &InsuranceWatch{vehicles: vehicles, days: days, logger: logger, now: time.Now}
}

// Run performs one pass and returns how many vehicles were reported.
func (j *InsuranceWatch) Run(ctx context.Context) (int, error) {
	today := j.now().UTC().Truncate(24 * time.Hour)
	cutoff := today.AddDate(0, 0, j.days)

	vehicles, err := j.vehicles.ListInsuranceExpiring(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("jobs.InsuranceWatch.Run: %w", err)
	}

	for _, v := range vehicles {
		end := *v.InsuranceEnd
		level := slog.LevelWarn
		msg := "insurance expiring"
		if end.Before(today) {
			level = slog.LevelError
			msg = "insurance expired"
		}
		j.logger.Log(ctx, level, msg,
			"partner_id", v.PartnerID,
			"vehicle_id", v.ID,
			"vehicle", v.Name,
			"insurance_end", end.Format(time.DateOnly),
			"days_left", int(end.Sub(today).Hours()/24),
		)
	}
	j.logger.InfoContext(ctx, "insurance watch finished", "reported", len(vehicles), "cutoff", cutoff.Format(time.DateOnly))
	return len(vehicles), nil
}
