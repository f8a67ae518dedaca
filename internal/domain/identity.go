package domain

import "strings"

// Identity is the set of documents a renter can be recognised by.
// Any field may be empty; matching only ever considers non-empty fields.
type Identity struct {
	CIN           string `json:"cin,omitempty"`
	Passport      string `json:"passport,omitempty"`
	LicenseNumber string `json:"license_number,omitempty"`
}

// Normalize trims surrounding whitespace from every document number.
func (i Identity) Normalize() Identity {
	return Identity{
		CIN:           strings.TrimSpace(i.CIN),
		Passport:      strings.TrimSpace(i.Passport),
		LicenseNumber: strings.TrimSpace(i.LicenseNumber),
	}
}

// HasAny reports whether at least one document number is present.
func (i Identity) HasAny() bool {
	n := i.Normalize()
	return n.CIN != "" || n.Passport != "" || n.LicenseNumber != ""
}
