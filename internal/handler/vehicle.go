package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"

	"github.com/locapro/partner-api/internal/domain"
)

// VehicleRequest is the body of POST and PUT /vehicles.
// Available defaults to true when omitted.
type VehicleRequest struct {
	Name              string              `json:"name"`
	Category          string              `json:"category"`
	Transmission      string              `json:"transmission"`
	FuelType          string              `json:"fuel_type"`
	Description       string              `json:"description"`
	ImageURL          string              `json:"image_url"`
	PricePerDay       decimal.Decimal     `json:"price_per_day"`
	FuelLevel         string              `json:"fuel_level"`
	Equipment         domain.Equipment    `json:"equipment"`
	KeyCount          int                 `json:"key_count"`
	OdometerStart     int                 `json:"odometer_start"`
	OdometerReturn    int                 `json:"odometer_return"`
	TaxYearsPaid      []int               `json:"tax_years_paid"`
	InsuranceStart    *openapi_types.Date `json:"insurance_start"`
	InsuranceEnd      *openapi_types.Date `json:"insurance_end"`
	OilChangeInterval int                 `json:"oil_change_interval_km"`
	Remarks           string              `json:"remarks"`
	Damages           []string            `json:"damages"`
	Available         *bool               `json:"available"`
}

// VehicleResponse is the JSON shape of a vehicle, live or frozen in a contract.
type VehicleResponse struct {
	ID                uuid.UUID           `json:"id"`
	Name              string              `json:"name"`
	Category          string              `json:"category"`
	Transmission      string              `json:"transmission"`
	FuelType          string              `json:"fuel_type"`
	Description       string              `json:"description,omitempty"`
	ImageURL          string              `json:"image_url,omitempty"`
	PricePerDay       decimal.Decimal     `json:"price_per_day"`
	FuelLevel         string              `json:"fuel_level,omitempty"`
	Equipment         domain.Equipment    `json:"equipment"`
	KeyCount          int                 `json:"key_count"`
	OdometerStart     int                 `json:"odometer_start"`
	OdometerReturn    int                 `json:"odometer_return"`
	TaxYearsPaid      []int               `json:"tax_years_paid"`
	InsuranceStart    *openapi_types.Date `json:"insurance_start,omitempty"`
	InsuranceEnd      *openapi_types.Date `json:"insurance_end,omitempty"`
	OilChangeInterval int                 `json:"oil_change_interval_km"`
	Remarks           string              `json:"remarks,omitempty"`
	Damages           []string            `json:"damages"`
	Available         bool                `json:"available"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// AvailabilityRequest is the body of PATCH /vehicles/{id}/availability.
type AvailabilityRequest struct {
	Available *bool `json:"available"`
}

// CreateVehicle handles POST /vehicles.
func (s *Server) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	p, ok := partnerOf(w, r)
	if !ok {
		return
	}
	var body VehicleRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	created, err := s.svc.Vehicles.Create(r.Context(), p.PartnerID, requestToVehicle(uuid.Nil, body))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, vehicleToResponse(created))
}

// ListVehicles handles GET /vehicles.
// Supports ?page=, ?limit=, and ?available=true.
func (s *Server) ListVehicles(w http.ResponseWriter, r *http.Request) {
	p, ok := partnerOf(w, r)
	if !ok {
		return
	}
	params, ok := pagination(w, r)
	if !ok {
		return
	}
	var available *bool
	if !queryParam(w, r, "available", &available) {
		return
	}

	vehicles, total, err := s.svc.Vehicles.ListPaged(r.Context(), p.PartnerID, available != nil && *available, params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pageOf(mapSlice(vehicles, vehicleToResponse), params, total))
}

// GetVehicle handles GET /vehicles/{id}.
func (s *Server) GetVehicle(w http.ResponseWriter, r *http.Request) {
	p, ok := partnerOf(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	v, err := s.svc.Vehicles.GetByID(r.Context(), p.PartnerID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicleToResponse(v))
}

// UpdateVehicle handles PUT /vehicles/{id}.
func (s *Server) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	p, ok := partnerOf(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body VehicleRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	updated, err := s.svc.Vehicles.Update(r.Context(), p.PartnerID, requestToVehicle(id, body))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicleToResponse(updated))
}

// SetVehicleAvailability handles PATCH /vehicles/{id}/availability.
func (s *Server) SetVehicleAvailability(w http.ResponseWriter, r *http.Request) {
	p, ok := partnerOf(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body AvailabilityRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Available == nil {
		requestError(w, "available is required")
		return
	}

	v, err := s.svc.Vehicles.SetAvailability(r.Context(), p.PartnerID, id, *body.Available)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicleToResponse(v))
}

// DeleteVehicle handles DELETE /vehicles/{id}.
func (s *Server) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	p, ok := partnerOf(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.svc.Vehicles.Delete(r.Context(), p.PartnerID, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

func requestToVehicle(id uuid.UUID, b VehicleRequest) domain.Vehicle {
	v := domain.Vehicle{
		ID:                id,
		Name:              b.Name,
		Category:          b.Category,
		Transmission:      b.Transmission,
		FuelType:          b.FuelType,
		Description:       b.Description,
		ImageURL:          b.ImageURL,
		PricePerDay:       b.PricePerDay,
		FuelLevel:         b.FuelLevel,
		Equipment:         b.Equipment,
		KeyCount:          b.KeyCount,
		OdometerStart:     b.OdometerStart,
		OdometerReturn:    b.OdometerReturn,
		TaxYearsPaid:      b.TaxYearsPaid,
		InsuranceStart:    fromDate(b.InsuranceStart),
		InsuranceEnd:      fromDate(b.InsuranceEnd),
		OilChangeInterval: b.OilChangeInterval,
		Remarks:           b.Remarks,
		Damages:           b.Damages,
		Available:         true,
	}
	if b.Available != nil {
		v.Available = *b.Available
	}
	return v
}

func vehicleToResponse(v domain.Vehicle) VehicleResponse {
	resp := VehicleResponse{
		ID:                v.ID,
		Name:              v.Name,
		Category:          v.Category,
		Transmission:      v.Transmission,
		FuelType:          v.FuelType,
		Description:       v.Description,
		ImageURL:          v.ImageURL,
		PricePerDay:       v.PricePerDay,
		FuelLevel:         v.FuelLevel,
		Equipment:         v.Equipment,
		KeyCount:          v.KeyCount,
		OdometerStart:     v.OdometerStart,
		OdometerReturn:    v.OdometerReturn,
		TaxYearsPaid:      v.TaxYearsPaid,
		InsuranceStart:    toDate(v.InsuranceStart),
		InsuranceEnd:      toDate(v.InsuranceEnd),
		OilChangeInterval: v.OilChangeInterval,
		Remarks:           v.Remarks,
		Damages:           v.Damages,
		Available:         v.Available,
		CreatedAt:         v.CreatedAt,
		UpdatedAt:         v.UpdatedAt,
	}
	if resp.TaxYearsPaid == nil {
		resp.TaxYearsPaid = []int{}
	}
	if resp.Damages == nil {
		resp.Damages = []string{}
	}
	return resp
}

func fromDate(d *openapi_types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

func toDate(t *time.Time) *openapi_types.Date {
	if t == nil {
		return nil
	}
	return &openapi_types.Date{Time: *t}
}
