package domain

import (
	"time"

	"github.com/google/uuid"
)

// Client is a renter on file with one partner. The renter pool is
// partner-scoped: the same person may appear under several partners.
type Client struct {
	ID               uuid.UUID
	PartnerID        uuid.UUID
	LastName         string
	FirstName        string
	BirthDate        time.Time
	Phone            string
	Address          string
	Identity         Identity
	LicenseIssueDate *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// FullName returns "First Last", trimmed.
func (c Client) FullName() string {
	return joinName(c.FirstName, c.LastName)
}
