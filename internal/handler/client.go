package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/locapro/partner-api/internal/domain"
)

// ClientRequest is the body of POST and PUT /clients.
type ClientRequest struct {
	LastName         string              `json:"last_name"`
	FirstName        string              `json:"first_name"`
	BirthDate        *openapi_types.Date `json:"birth_date"`
	Phone            string              `json:"phone"`
	Address          string              `json:"address"`
	CIN              string              `json:"cin"`
	Passport         string              `json:"passport"`
	LicenseNumber    string              `json:"license_number"`
	LicenseIssueDate *openapi_types.Date `json:"license_issue_date"`
}

// ClientResponse is the JSON shape of a client on file.
type ClientResponse struct {
	ID               uuid.UUID           `json:"id"`
	LastName         string              `json:"last_name"`
	FirstName        string              `json:"first_name"`
	BirthDate        openapi_types.Date  `json:"birth_date"`
	Phone            string              `json:"phone"`
	Address          string              `json:"address,omitempty"`
	CIN              string              `json:"cin,omitempty"`
	Passport         string              `json:"passport,omitempty"`
	LicenseNumber    string              `json:"license_number,omitempty"`
	LicenseIssueDate *openapi_types.Date `json:"license_issue_date,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// PromoteRequest is the body of POST /clients/{id}/blacklist.
type PromoteRequest struct {
	Reason string `json:"reason"`
}

// CreateClient handles POST /clients. The client is screened against the
// blacklist on every document it carries.
func (s *Server) CreateClient(w http.ResponseWriter, r *http.Request) {
	p, ok := partnerOf(w, r)
	if !ok {
		return
	}
	var body ClientRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	created, err := s.svc.Clients.Create(r.Context(), p.PartnerID, requestToClient(uuid.Nil, body))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, clientToResponse(created))
}

// ListClients handles GET /clients.
// Supports ?page=, ?limit=, and ?search= (name or document number).
func (s *Server) ListClients(w http.ResponseWriter, r *http.Request) {
	p, ok := partnerOf(w, r)
	if !ok {
		return
	}
	params, ok := pagination(w, r)
	if !ok {
		return
	}
	var search string
	if !queryString(w, r, "search", &search) {
		return
	}

	clients, total, err := s.svc.Clients.ListPaged(r.Context(), p.PartnerID, search, params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pageOf(mapSlice(clients, clientToResponse), params, total))
}

// GetClient handles GET /clients/{id}.
func (s *Server) GetClient(w http.ResponseWriter, r *http.Request) {
	p, ok := partnerOf(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	c, err := s.svc.Clients.GetByID(r.Context(), p.PartnerID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, clientToResponse(c))
}

// UpdateClient handles PUT /clients/{id}.
func (s *Server) UpdateClient(w http.ResponseWriter, r *http.Request) {
	p, ok := partnerOf(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body ClientRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	updated, err := s.svc.Clients.Update(r.Context(), p.PartnerID, requestToClient(id, body))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, clientToResponse(updated))
}

// DeleteClient handles DELETE /clients/{id}.
func (s *Server) DeleteClient(w http.ResponseWriter, r *http.Request) {
	p, ok := partnerOf(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.svc.Clients.Delete(r.Context(), p.PartnerID, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PromoteClient handles POST /clients/{id}/blacklist. It creates a blacklist
// entry from the client and removes the client. When the entry was written
// but the client survived, the response is 502 and carries the entry id so
// the caller can retry the delete.
func (s *Server) PromoteClient(w http.ResponseWriter, r *http.Request) {
	p, ok := partnerOf(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body PromoteRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	entry, err := s.svc.Clients.PromoteToBlacklist(r.Context(), p.PartnerID, p.Subject, id, body.Reason)
	if err != nil {
		if errors.Is(err, domain.ErrPartialFailure) && entry.ID != uuid.Nil {
			writeJSON(w, http.StatusBadGateway, PartialFailureResponse{
				Error: ErrorDetail{Code: "partial_failure", Message: unwrapMessage(err, domain.ErrPartialFailure)},
				Entry: blacklistToResponse(entry),
			})
			return
		}
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, blacklistToResponse(entry))
}

// PartialFailureResponse reports a promotion whose second step failed.
type PartialFailureResponse struct {
	Error ErrorDetail       `json:"error"`
	Entry BlacklistResponse `json:"entry"`
}

// --- mapping helpers --------------------------------------------------------

func requestToClient(id uuid.UUID, b ClientRequest) domain.Client {
	c := domain.Client{
		ID:               id,
		LastName:         b.LastName,
		FirstName:        b.FirstName,
		Phone:            b.Phone,
		Address:          b.Address,
		Identity:         domain.Identity{CIN: b.CIN, Passport: b.Passport, LicenseNumber: b.LicenseNumber},
		LicenseIssueDate: fromDate(b.LicenseIssueDate),
	}
	if b.BirthDate != nil {
		c.BirthDate = b.BirthDate.Time
	}
	return c
}

func clientToResponse(c domain.Client) ClientResponse {
	return ClientResponse{
		ID:               c.ID,
		LastName:         c.LastName,
		FirstName:        c.FirstName,
		BirthDate:        openapi_types.Date{Time: c.BirthDate},
		Phone:            c.Phone,
		Address:          c.Address,
		CIN:              c.Identity.CIN,
		Passport:         c.Identity.Passport,
		LicenseNumber:    c.Identity.LicenseNumber,
		LicenseIssueDate: toDate(c.LicenseIssueDate),
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}
