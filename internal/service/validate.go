package service

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/locapro/partner-api/internal/domain"
)

// maxFreeTextWords caps short free-text vehicle fields, as the dashboard form does.
const maxFreeTextWords = 10

func requireText(fe domain.FieldErrors, field, value string) {
	if strings.TrimSpace(value) == "" {
		fe.Add(field, "is required")
	}
}

func requireTime(fe domain.FieldErrors, field string, value time.Time) {
	if value.IsZero() {
		fe.Add(field, "is required")
	}
}

func limitWords(fe domain.FieldErrors, field, value string) {
	if len(strings.Fields(value)) > maxFreeTextWords {
		fe.Add(field, "must be at most 10 words")
	}
}

func nonNegative(fe domain.FieldErrors, field string, value int) {
	if value < 0 {
		fe.Add(field, "must not be negative")
	}
}

// dailyRate checks a per-day price against the NUMERIC(12,2) column it lands in.
func dailyRate(fe domain.FieldErrors, field string, value decimal.Decimal) {
	switch {
	case !value.IsPositive():
		fe.Add(field, "must be greater than 0")
	case !value.Equal(value.Round(2)):
		fe.Add(field, "must have at most 2 decimal places")
	}
}
