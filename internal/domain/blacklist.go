package domain

import (
	"time"

	"github.com/google/uuid"
)

// BlacklistEntry bans a person from renting with one partner.
// It is keyed by whichever identity documents were known when it was added
// and is never updated after creation.
type BlacklistEntry struct {
	ID         uuid.UUID
	PartnerID  uuid.UUID
	Identity   Identity
	ClientName string
	Phone      string
	Email      string
	Reason     string
	AddedBy    string
	CreatedAt  time.Time
}
