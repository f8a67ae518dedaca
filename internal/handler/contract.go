package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"

	"github.com/locapro/partner-api/internal/domain"
	"github.com/locapro/partner-api/internal/repo"
	"github.com/locapro/partner-api/internal/service"
)

// ClientInfoBody is the renter block of a contract, in requests and responses.
type ClientInfoBody struct {
	LastName         string              `json:"last_name"`
	FirstName        string              `json:"first_name"`
	BirthDate        *openapi_types.Date `json:"birth_date"`
	Phone            string              `json:"phone"`
	Address          string              `json:"address"`
	CIN              string              `json:"cin,omitempty"`
	Passport         string              `json:"passport,omitempty"`
	LicenseNumber    string              `json:"license_number"`
	LicenseIssueDate *openapi_types.Date `json:"license_issue_date,omitempty"`
}

// SecondDriverBody is the optional second driver of a contract.
type SecondDriverBody struct {
	LastName         string              `json:"last_name,omitempty"`
	FirstName        string              `json:"first_name,omitempty"`
	LicenseNumber    string              `json:"license_number,omitempty"`
	LicenseIssueDate *openapi_types.Date `json:"license_issue_date,omitempty"`
}

// ContractRequest is the body of POST and PUT /contracts.
// PricePerDay, when set, overrides the vehicle's catalog price.
type ContractRequest struct {
	VehicleID      uuid.UUID         `json:"vehicle_id"`
	Client         ClientInfoBody    `json:"client"`
	SecondDriver   *SecondDriverBody `json:"second_driver"`
	StartAt        time.Time         `json:"start_at"`
	EndAt          time.Time         `json:"end_at"`
	PickupLocation string            `json:"pickup_location"`
	ReturnLocation string            `json:"return_location"`
	PricePerDay    *decimal.Decimal  `json:"price_per_day"`
}

// RentalBody is the booked window and its price.
type RentalBody struct {
	StartAt        time.Time       `json:"start_at"`
	EndAt          time.Time       `json:"end_at"`
	PickupLocation string          `json:"pickup_location"`
	ReturnLocation string          `json:"return_location"`
	PricePerDay    decimal.Decimal `json:"price_per_day"`
	RentalDays     int             `json:"rental_days"`
	TotalPrice     decimal.Decimal `json:"total_price"`
}

// ContractResponse is the JSON shape of a stored contract. Status is what
// was stored and may be empty; EffectiveStatus is always set.
type ContractResponse struct {
	ID              uuid.UUID         `json:"id"`
	VehicleID       uuid.UUID         `json:"vehicle_id"`
	Client          ClientInfoBody    `json:"client"`
	SecondDriver    *SecondDriverBody `json:"second_driver,omitempty"`
	Vehicle         VehicleResponse   `json:"vehicle"`
	Partner         domain.Partner    `json:"partner"`
	Rental          RentalBody        `json:"rental"`
	Status          string            `json:"status,omitempty"`
	EffectiveStatus string            `json:"effective_status"`
	CreatedBy       string            `json:"created_by,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// StatusRequest is the body of PATCH /contracts/{id}/status.
type StatusRequest struct {
	Status string `json:"status"`
}

// QuoteRequest is the body of POST /contracts/quote.
type QuoteRequest struct {
	VehicleID   *uuid.UUID       `json:"vehicle_id"`
	StartAt     time.Time        `json:"start_at"`
	EndAt       time.Time        `json:"end_at"`
	PricePerDay *decimal.Decimal `json:"price_per_day"`
}

// QuoteResponse is the price of a draft.
type QuoteResponse struct {
	PricePerDay decimal.Decimal `json:"price_per_day"`
	RentalDays  int             `json:"rental_days"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// CreateContract handles POST /contracts.
func (s *Server) CreateContract(w http.ResponseWriter, r *http.Request) {
	p, ok := partnerOf(w, r)
	if !ok {
		return
	}
	var body ContractRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	created, err := s.svc.Contracts.Create(r.Context(), p.PartnerID, p.Subject, requestToContractInput(body))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.contractToResponse(created))
}

// ListContracts handles GET /contracts.
// Supports ?page=, ?limit=, ?status= (matched against the effective status),
// and ?vehicle_id=.
func (s *Server) ListContracts(w http.ResponseWriter, r *http.Request) {
	p, ok := partnerOf(w, r)
	if !ok {
		return
	}
	params, ok := pagination(w, r)
	if !ok {
		return
	}
	var (
		status    string
		vehicleID *uuid.UUID
	)
	if !queryString(w, r, "status", &status) || !queryParam(w, r, "vehicle_id", &vehicleID) {
		return
	}
	f := repo.ContractFilter{Status: domain.ContractStatus(status)}
	if vehicleID != nil {
		f.VehicleID = *vehicleID
	}

	contracts, total, err := s.svc.Contracts.ListPaged(r.Context(), p.PartnerID, f, params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pageOf(mapSlice(contracts, s.contractToResponse), params, total))
}

// GetContract handles GET /contracts/{id}.
func (s *Server) GetContract(w http.ResponseWriter, r *http.Request) {
	p, ok := partnerOf(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	c, err := s.svc.Contracts.GetByID(r.Context(), p.PartnerID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.contractToResponse(c))
}

// UpdateContract handles PUT /contracts/{id}. The contract is re-priced and
// its copies refreshed; its status is left alone.
func (s *Server) UpdateContract(w http.ResponseWriter, r *http.Request) {
	p, ok := partnerOf(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body ContractRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	updated, err := s.svc.Contracts.Update(r.Context(), p.PartnerID, id, requestToContractInput(body))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.contractToResponse(updated))
}

// UpdateContractStatus handles PATCH /contracts/{id}/status.
func (s *Server) UpdateContractStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := partnerOf(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body StatusRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	updated, err := s.svc.Contracts.UpdateStatus(r.Context(), p.PartnerID, id, domain.ContractStatus(body.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.contractToResponse(updated))
}

// DeleteContract handles DELETE /contracts/{id}.
func (s *Server) DeleteContract(w http.ResponseWriter, r *http.Request) {
	p, ok := partnerOf(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.svc.Contracts.Delete(r.Context(), p.PartnerID, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// QuoteContract handles POST /contracts/quote. Nothing is written.
func (s *Server) QuoteContract(w http.ResponseWriter, r *http.Request) {
	p, ok := partnerOf(w, r)
	if !ok {
		return
	}
	var body QuoteRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	in := service.QuoteInput{StartAt: body.StartAt, EndAt: body.EndAt, PriceOverride: body.PricePerDay}
	if body.VehicleID != nil {
		in.VehicleID = *body.VehicleID
	}
	q, err := s.svc.Contracts.Quote(r.Context(), p.PartnerID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, QuoteResponse{PricePerDay: q.PricePerDay, RentalDays: q.RentalDays, TotalPrice: q.TotalPrice})
}

// --- mapping helpers --------------------------------------------------------

func requestToContractInput(b ContractRequest) service.ContractInput {
	in := service.ContractInput{
		VehicleID: b.VehicleID,
		Client: domain.ClientInfo{
			LastName:         b.Client.LastName,
			FirstName:        b.Client.FirstName,
			Phone:            b.Client.Phone,
			Address:          b.Client.Address,
			CIN:              b.Client.CIN,
			Passport:         b.Client.Passport,
			LicenseNumber:    b.Client.LicenseNumber,
			LicenseIssueDate: fromDate(b.Client.LicenseIssueDate),
		},
		StartAt:        b.StartAt,
		EndAt:          b.EndAt,
		PickupLocation: b.PickupLocation,
		ReturnLocation: b.ReturnLocation,
		PriceOverride:  b.PricePerDay,
	}
	if b.Client.BirthDate != nil {
		in.Client.BirthDate = b.Client.BirthDate.Time
	}
	if d := b.SecondDriver; d != nil {
		in.SecondDriver = &domain.SecondDriverInfo{
			LastName:         d.LastName,
			FirstName:        d.FirstName,
			LicenseNumber:    d.LicenseNumber,
			LicenseIssueDate: fromDate(d.LicenseIssueDate),
		}
	}
	return in
}

func (s *Server) contractToResponse(c domain.Contract) ContractResponse {
	resp := ContractResponse{
		ID:        c.ID,
		VehicleID: c.VehicleID,
		Client: ClientInfoBody{
			LastName:         c.Client.LastName,
			FirstName:        c.Client.FirstName,
			BirthDate:        toDate(&c.Client.BirthDate),
			Phone:            c.Client.Phone,
			Address:          c.Client.Address,
			CIN:              c.Client.CIN,
			Passport:         c.Client.Passport,
			LicenseNumber:    c.Client.LicenseNumber,
			LicenseIssueDate: toDate(c.Client.LicenseIssueDate),
		},
		Vehicle: vehicleToResponse(c.Vehicle),
		Partner: c.Partner,
		Rental: RentalBody{
			StartAt:        c.Rental.StartAt,
			EndAt:          c.Rental.EndAt,
			PickupLocation: c.Rental.PickupLocation,
			ReturnLocation: c.Rental.ReturnLocation,
			PricePerDay:    c.Rental.PricePerDay,
			RentalDays:     c.Rental.RentalDays,
			TotalPrice:     c.Rental.TotalPrice,
		},
		Status:          string(c.Status),
		EffectiveStatus: string(c.EffectiveStatus(s.now())),
		CreatedBy:       c.CreatedBy,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
	if d := c.SecondDriver; d != nil {
		resp.SecondDriver = &SecondDriverBody{
			LastName:         d.LastName,
			FirstName:        d.FirstName,
			LicenseNumber:    d.LicenseNumber,
			LicenseIssueDate: toDate(d.LicenseIssueDate),
		}
	}
	return resp
}
