// Package pricing derives the billable duration and total price of a rental.
// Everything here is pure: callers recompute whenever the dates, the vehicle,
// or the manual rate change instead of caching a total next to a draft.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Day is the billing unit. A started day bills as a full one.
const Day = 24 * time.Hour

// Rental is the outcome of a price computation.
// Days is zero only when the window is not yet known.
type Rental struct {
	Days  int
	Total decimal.Decimal
}

// Compute returns the number of billable days between start and end and the
// total at pricePerDay. The order of start and end does not matter, and a
// zero-length window bills one day. A zero start or end yields the zero
// Rental so a caller can show a placeholder.
func Compute(start, end time.Time, pricePerDay decimal.Decimal) Rental {
	if start.IsZero() || end.IsZero() {
		return Rental{Total: decimal.Zero}
	}
	days := Days(start, end)
	return Rental{
		Days:  days,
		Total: pricePerDay.Mul(decimal.NewFromInt(int64(days))),
	}
}

// Days returns ceil(|end - start| / 24h), with a minimum of one.
func Days(start, end time.Time) int {
	diff := end.Sub(start)
	if diff < 0 {
		diff = -diff
	}
	days := int(diff / Day)
	if diff%Day != 0 {
		days++
	}
	if days == 0 {
		return 1
	}
	return days
}

// ResolveRate picks the per-day price for a contract: the manual override
// whenever one was supplied, otherwise the vehicle's catalog price.
func ResolveRate(override *decimal.Decimal, catalog decimal.Decimal) decimal.Decimal {
	if override != nil {
		return *override
	}
	return catalog
}
