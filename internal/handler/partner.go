package handler

import (
	"net/http"

	"github.com/locapro/partner-api/internal/domain"
)

// PartnerRequest is the body of PUT /partner. Only profile fields are
// editable; email, status, and role belong to the identity system.
type PartnerRequest struct {
	CompanyName string `json:"company_name"`
	Phone       string `json:"phone"`
	LogoURL     string `json:"logo_url"`
	Country     string `json:"country"`
	City        string `json:"city"`
}

// OverviewResponse is the dashboard summary for the calling partner.
type OverviewResponse struct {
	Vehicles struct {
		Total     int64 `json:"total"`
		Available int64 `json:"available"`
	} `json:"vehicles"`
	Clients          int64                           `json:"clients"`
	BlacklistEntries int64                           `json:"blacklist_entries"`
	Contracts        map[domain.ContractStatus]int64 `json:"contracts"`
}

// GetPartner handles GET /partner.
func (s *Server) GetPartner(w http.ResponseWriter, r *http.Request) {
	p, ok := partnerOf(w, r)
	if !ok {
		return
	}

	partner, err := s.svc.Partners.Get(r.Context(), p.PartnerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, partner)
}

// UpdatePartner handles PUT /partner.
func (s *Server) UpdatePartner(w http.ResponseWriter, r *http.Request) {
	p, ok := partnerOf(w, r)
	if !ok {
		return
	}
	var body PartnerRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	updated, err := s.svc.Partners.Update(r.Context(), p.PartnerID, domain.Partner{
		CompanyName: body.CompanyName,
		Phone:       body.Phone,
		LogoURL:     body.LogoURL,
		Country:     body.Country,
		City:        body.City,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// GetOverview handles GET /overview.
func (s *Server) GetOverview(w http.ResponseWriter, r *http.Request) {
	p, ok := partnerOf(w, r)
	if !ok {
		return
	}

	o, err := s.svc.Overview.Get(r.Context(), p.PartnerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var resp OverviewResponse
	resp.Vehicles.Total = o.VehiclesTotal
	resp.Vehicles.Available = o.VehiclesAvailable
	resp.Clients = o.Clients
	resp.BlacklistEntries = o.BlacklistEntries
	resp.Contracts = o.Contracts
	writeJSON(w, http.StatusOK, resp)
}
