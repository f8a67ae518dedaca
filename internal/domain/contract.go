package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContractStatus is the lifecycle state of a rental contract.
type ContractStatus string

const (
	ContractPending   ContractStatus = "pending"
	ContractActive    ContractStatus = "active"
	ContractCompleted ContractStatus = "completed"
	ContractCancelled ContractStatus = "cancelled"
)

// Valid reports whether s is one of the four known states.
func (s ContractStatus) Valid() bool {
	switch s {
	case ContractPending, ContractActive, ContractCompleted, ContractCancelled:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s ContractStatus) Terminal() bool {
	return s == ContractCompleted || s == ContractCancelled
}

// CanTransitionTo reports whether moving from s to next is allowed.
// The machine only moves forward: pending → active → completed, and
// cancelled is reachable from pending or active.
func (s ContractStatus) CanTransitionTo(next ContractStatus) bool {
	switch s {
	case ContractPending:
		return next == ContractActive || next == ContractCancelled
	case ContractActive:
		return next == ContractCompleted || next == ContractCancelled
	}
	return false
}

// ClientInfo is the renter as they were when the contract was written.
type ClientInfo struct {
	LastName         string     `json:"last_name"`
	FirstName        string     `json:"first_name"`
	BirthDate        time.Time  `json:"birth_date"`
	Phone            string     `json:"phone"`
	Address          string     `json:"address"`
	CIN              string     `json:"cin,omitempty"`
	Passport         string     `json:"passport,omitempty"`
	LicenseNumber    string     `json:"license_number"`
	LicenseIssueDate *time.Time `json:"license_issue_date,omitempty"`
}

// Identity returns the documents carried by the snapshot.
func (c ClientInfo) Identity() Identity {
	return Identity{CIN: c.CIN, Passport: c.Passport, LicenseNumber: c.LicenseNumber}
}

// FullName returns "First Last", trimmed.
func (c ClientInfo) FullName() string {
	return joinName(c.FirstName, c.LastName)
}

// SecondDriverInfo is an optional additional driver on the contract.
type SecondDriverInfo struct {
	LastName         string     `json:"last_name,omitempty"`
	FirstName        string     `json:"first_name,omitempty"`
	LicenseNumber    string     `json:"license_number,omitempty"`
	LicenseIssueDate *time.Time `json:"license_issue_date,omitempty"`
}

// IsZero reports whether no second-driver field was filled in.
func (d SecondDriverInfo) IsZero() bool {
	return strings.TrimSpace(d.LastName) == "" &&
		strings.TrimSpace(d.FirstName) == "" &&
		strings.TrimSpace(d.LicenseNumber) == "" &&
		d.LicenseIssueDate == nil
}

// RentalInfo holds the booked window and the price computed for it.
type RentalInfo struct {
	StartAt        time.Time       `json:"start_at"`
	EndAt          time.Time       `json:"end_at"`
	PickupLocation string          `json:"pickup_location"`
	ReturnLocation string          `json:"return_location"`
	PricePerDay    decimal.Decimal `json:"price_per_day"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	RentalDays     int             `json:"rental_days"`
}

// Contract is a rental agreement. Vehicle and Partner are owned copies taken
// when the contract was written; editing the live records later never
// changes them.
type Contract struct {
	ID           uuid.UUID
	PartnerID    uuid.UUID
	VehicleID    uuid.UUID
	Client       ClientInfo
	SecondDriver *SecondDriverInfo // nil when there is no second driver
	Vehicle      Vehicle
	Partner      Partner
	Rental       RentalInfo
	Status       ContractStatus // empty on records that never had a status set
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EffectiveStatus returns the stored status, or, when none was ever set,
// the status implied by comparing now against the rental window.
func (c Contract) EffectiveStatus(now time.Time) ContractStatus {
	if c.Status != "" {
		return c.Status
	}
	switch {
	case now.Before(c.Rental.StartAt):
		return ContractPending
	case now.After(c.Rental.EndAt):
		return ContractCompleted
	default:
		return ContractActive
	}
}

func joinName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}
