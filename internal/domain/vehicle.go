package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Equipment lists the optional on-board equipment of a vehicle.
type Equipment struct {
	Radio bool `json:"radio"`
	GPS   bool `json:"gps"`
	MP3   bool `json:"mp3"`
	CD    bool `json:"cd"`
}

// Vehicle is a car in a partner's fleet.
// It is soft-disabled through Available rather than deleted in normal use.
// The json tags define the shape of the copy frozen into contracts.
type Vehicle struct {
	ID                uuid.UUID       `json:"id"`
	PartnerID         uuid.UUID       `json:"partner_id"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	Transmission      string          `json:"transmission"`
	FuelType          string          `json:"fuel_type"`
	Description       string          `json:"description,omitempty"`
	ImageURL          string          `json:"image_url,omitempty"`
	PricePerDay       decimal.Decimal `json:"price_per_day"`
	FuelLevel         string          `json:"fuel_level,omitempty"`
	Equipment         Equipment       `json:"equipment"`
	KeyCount          int             `json:"key_count"`
	OdometerStart     int             `json:"odometer_start"`
	OdometerReturn    int             `json:"odometer_return"`
	TaxYearsPaid      []int           `json:"tax_years_paid"`
	InsuranceStart    *time.Time      `json:"insurance_start,omitempty"`
	InsuranceEnd      *time.Time      `json:"insurance_end,omitempty"` // nil when unknown
	OilChangeInterval int             `json:"oil_change_interval_km"`
	Remarks           string          `json:"remarks,omitempty"`
	Damages           []string        `json:"damages"`
	Available         bool            `json:"available"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
