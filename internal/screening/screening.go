// Package screening decides whether a prospective renter is on a partner's
// blacklist. It works on an entry set the caller has already loaded and never
// touches storage, so the freshness of a verdict is the freshness of that set.
package screening

import (
	"strings"

	"github.com/locapro/partner-api/internal/domain"
)

// Candidate is the identity being screened. Empty fields never match.
type Candidate struct {
	CIN           string
	Passport      string
	LicenseNumber string
}

// ForClient builds a candidate from every document a client record carries.
// Used before a client is created and for direct lookups.
func ForClient(id domain.Identity) Candidate {
	n := id.Normalize()
	return Candidate{CIN: n.CIN, Passport: n.Passport, LicenseNumber: n.LicenseNumber}
}

// ForContract builds a candidate from the contract's CIN and passport.
// The license number is not a cross-check key when writing a contract.
func ForContract(c domain.ClientInfo) Candidate {
	n := c.Identity().Normalize()
	return Candidate{CIN: n.CIN, Passport: n.Passport}
}

// Empty reports whether the candidate carries no document at all.
func (c Candidate) Empty() bool {
	t := c.trimmed()
	return t.CIN == "" && t.Passport == "" && t.LicenseNumber == ""
}

func (c Candidate) trimmed() Candidate {
	return Candidate{
		CIN:           strings.TrimSpace(c.CIN),
		Passport:      strings.TrimSpace(c.Passport),
		LicenseNumber: strings.TrimSpace(c.LicenseNumber),
	}
}

// Match returns the first entry sharing a non-empty document number with c.
func Match(c Candidate, entries []domain.BlacklistEntry) (domain.BlacklistEntry, bool) {
	c = c.trimmed()
	if c.Empty() {
		return domain.BlacklistEntry{}, false
	}
	for _, e := range entries {
		id := e.Identity.Normalize()
		if (c.CIN != "" && c.CIN == id.CIN) ||
			(c.Passport != "" && c.Passport == id.Passport) ||
			(c.LicenseNumber != "" && c.LicenseNumber == id.LicenseNumber) {
			return e, true
		}
	}
	return domain.BlacklistEntry{}, false
}

// IsBlacklisted reports whether any non-empty field of c equals the same
// field of any entry.
func IsBlacklisted(c Candidate, entries []domain.BlacklistEntry) bool {
	_, ok := Match(c, entries)
	return ok
}
