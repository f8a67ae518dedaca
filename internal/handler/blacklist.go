package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/locapro/partner-api/internal/domain"
	"github.com/locapro/partner-api/internal/screening"
)

// BlacklistRequest is the body of POST /blacklist.
type BlacklistRequest struct {
	CIN           string `json:"cin"`
	Passport      string `json:"passport"`
	LicenseNumber string `json:"license_number"`
	ClientName    string `json:"client_name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Reason        string `json:"reason"`
}

// BlacklistResponse is the JSON shape of a blacklist entry.
type BlacklistResponse struct {
	ID            uuid.UUID `json:"id"`
	CIN           string    `json:"cin,omitempty"`
	Passport      string    `json:"passport,omitempty"`
	LicenseNumber string    `json:"license_number,omitempty"`
	ClientName    string    `json:"client_name,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Email         string    `json:"email,omitempty"`
	Reason        string    `json:"reason"`
	AddedBy       string    `json:"added_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// CheckResponse answers the check and verify lookups. Entry is set only
// when Blacklisted is true.
type CheckResponse struct {
	Blacklisted bool               `json:"blacklisted"`
	Entry       *BlacklistResponse `json:"entry,omitempty"`
}

// ListResponse wraps an unpaged list.
type ListResponse[T any] struct {
	Data []T `json:"data"`
}

// CreateBlacklistEntry handles POST /blacklist.
func (s *Server) CreateBlacklistEntry(w http.ResponseWriter, r *http.Request) {
	p, ok := partnerOf(w, r)
	if !ok {
		return
	}
	var body BlacklistRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	created, err := s.svc.Blacklist.Create(r.Context(), p.PartnerID, p.Subject, domain.BlacklistEntry{
		Identity:   domain.Identity{CIN: body.CIN, Passport: body.Passport, LicenseNumber: body.LicenseNumber},
		ClientName: body.ClientName,
		Phone:      body.Phone,
		Email:      body.Email,
		Reason:     body.Reason,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, blacklistToResponse(created))
}

// ListBlacklist handles GET /blacklist. Entries come newest first.
func (s *Server) ListBlacklist(w http.ResponseWriter, r *http.Request) {
	p, ok := partnerOf(w, r)
	if !ok {
		return
	}

	entries, err := s.svc.Blacklist.List(r.Context(), p.PartnerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ListResponse[BlacklistResponse]{Data: mapSlice(entries, blacklistToResponse)})
}

// CheckBlacklist handles GET /blacklist/check?cin=&passport=&license_number=.
// Any one matching document is a hit.
func (s *Server) CheckBlacklist(w http.ResponseWriter, r *http.Request) {
	p, ok := partnerOf(w, r)
	if !ok {
		return
	}
	var c screening.Candidate
	if !queryString(w, r, "cin", &c.CIN) ||
		!queryString(w, r, "passport", &c.Passport) ||
		!queryString(w, r, "license_number", &c.LicenseNumber) {
		return
	}

	entry, found, err := s.svc.Blacklist.Check(r.Context(), p.PartnerID, c)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, checkResponse(entry, found))
}

// VerifyBlacklist handles GET /blacklist/verify?cin=, the quick lookup used
// at the counter before a contract is drafted.
func (s *Server) VerifyBlacklist(w http.ResponseWriter, r *http.Request) {
	p, ok := partnerOf(w, r)
	if !ok {
		return
	}
	var cin string
	if !queryString(w, r, "cin", &cin) {
		return
	}

	entry, found, err := s.svc.Blacklist.VerifyByCIN(r.Context(), p.PartnerID, cin)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, checkResponse(entry, found))
}

// GetBlacklistEntry handles GET /blacklist/{id}.
func (s *Server) GetBlacklistEntry(w http.ResponseWriter, r *http.Request) {
	p, ok := partnerOf(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	e, err := s.svc.Blacklist.GetByID(r.Context(), p.PartnerID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, blacklistToResponse(e))
}

// DeleteBlacklistEntry handles DELETE /blacklist/{id}.
func (s *Server) DeleteBlacklistEntry(w http.ResponseWriter, r *http.Request) {
	p, ok := partnerOf(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.svc.Blacklist.Delete(r.Context(), p.PartnerID, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func checkResponse(e domain.BlacklistEntry, found bool) CheckResponse {
	if !found {
		return CheckResponse{}
	}
	resp := blacklistToResponse(e)
	return CheckResponse{Blacklisted: true, Entry: &resp}
}

func blacklistToResponse(e domain.BlacklistEntry) BlacklistResponse {
	return BlacklistResponse{
		ID:            e.ID,
		CIN:           e.Identity.CIN,
		Passport:      e.Identity.Passport,
		LicenseNumber: e.Identity.LicenseNumber,
		ClientName:    e.ClientName,
		Phone:         e.Phone,
		Email:         e.Email,
		Reason:        e.Reason,
		AddedBy:       e.AddedBy,
		CreatedAt:     e.CreatedAt,
	}
}
