package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locapro/partner-api/internal/domain"
	"github.com/locapro/partner-api/internal/handler"
	"github.com/locapro/partner-api/internal/repo"
	"github.com/locapro/partner-api/internal/service"
)

func contractHandler(m *mockContractServicer) http.Handler {
	return newHTTPHandler(handler.Services{Contracts: m})
}

func contractFixture() domain.Contract {
	start := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	v := vehicleFixture()
	return domain.Contract{
		ID:        uuid.New(),
		PartnerID: callerPartner,
		VehicleID: v.ID,
		Client: domain.ClientInfo{
			LastName:      "Alaoui",
			FirstName:     "Samir",
			BirthDate:     time.Date(1990, 3, 14, 0, 0, 0, 0, time.UTC),
			Phone:         "+212600000000",
			Address:       "12 rue Atlas",
			CIN:           "AB123456",
			LicenseNumber: "L-998",
		},
		Vehicle: v,
		Partner: domain.Partner{ID: callerPartner, CompanyName: "Atlas Cars"},
		Rental: domain.RentalInfo{
			StartAt:        start,
			EndAt:          start.Add(48 * time.Hour),
			PickupLocation: "Rabat",
			ReturnLocation: "Rabat",
			PricePerDay:    decimal.NewFromInt(300),
			TotalPrice:     decimal.NewFromInt(600),
			RentalDays:     2,
		},
		Status:    domain.ContractPending,
		CreatedBy: callerSubject,
		CreatedAt: fixedNow,
		UpdatedAt: fixedNow,
	}
}

func contractBody(vehicleID uuid.UUID) map[string]any {
	return map[string]any{
		"vehicle_id": vehicleID,
		"client": map[string]any{
			"last_name": "Alaoui", "first_name": "Samir", "birth_date": "1990-03-14",
			"phone": "+212600000000", "address": "12 rue Atlas", "cin": "AB123456",
			"license_number": "L-998", "license_issue_date": "2010-06-01",
		},
		"second_driver":   map[string]any{"last_name": "Alaoui", "first_name": "Nadia", "license_number": "L-999"},
		"start_at":        "2026-05-01T10:00:00Z",
		"end_at":          "2026-05-03T10:00:00Z",
		"pickup_location": "Rabat",
		"return_location": "Casablanca",
		"price_per_day":   "500",
	}
}

func TestCreateContract_mapsDraftAndReturns201(t *testing.T) {
	vehicleID := uuid.New()
	var got service.ContractInput
	mock := &mockContractServicer{
		create: func(_ context.Context, partnerID uuid.UUID, createdBy string, in service.ContractInput) (domain.Contract, error) {
			assert.Equal(t, callerPartner, partnerID)
			assert.Equal(t, callerSubject, createdBy)
			got = in
			return contractFixture(), nil
		},
	}

	rec := serve(contractHandler(mock), http.MethodPost, "/api/v1/contracts", jsonBody(t, contractBody(vehicleID)))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, vehicleID, got.VehicleID)
	assert.Equal(t, "AB123456", got.Client.CIN)
	assert.Equal(t, 1990, got.Client.BirthDate.Year())
	require.NotNil(t, got.Client.LicenseIssueDate)
	require.NotNil(t, got.SecondDriver)
	assert.Equal(t, "Nadia", got.SecondDriver.FirstName)
	require.NotNil(t, got.PriceOverride)
	assert.True(t, decimal.NewFromInt(500).Equal(*got.PriceOverride))
	assert.Equal(t, time.Date(2026, 5, 3, 10, 0, 0, 0, time.UTC), got.EndAt.UTC())

	var body handler.ContractResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "pending", body.Status)
	assert.Equal(t, 2, body.Rental.RentalDays)
	assert.True(t, decimal.NewFromInt(600).Equal(body.Rental.TotalPrice))
	assert.Equal(t, "Atlas Cars", body.Partner.CompanyName)
	assert.Equal(t, "Dacia Logan", body.Vehicle.Name)
}

func TestCreateContract_errorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"blacklisted", fmt.Errorf("service.ContractService.Create: %w: matches blacklist entry x", domain.ErrBlacklisted), http.StatusConflict, "blacklisted"},
		{"screening down", fmt.Errorf("service.ContractService.Create: %w: timeout", domain.ErrScreeningUnavailable), http.StatusServiceUnavailable, "screening_unavailable"},
		{"unknown vehicle", fmt.Errorf("service.ContractService.Create: resolve vehicle: %w", domain.ErrNotFound), http.StatusNotFound, "not_found"},
		{"fields", domain.FieldErrors{"client.cin": "x"}, http.StatusUnprocessableEntity, "validation_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := &mockContractServicer{
				create: func(context.Context, uuid.UUID, string, service.ContractInput) (domain.Contract, error) {
					return domain.Contract{}, tc.err
				},
			}

			rec := serve(contractHandler(mock), http.MethodPost, "/api/v1/contracts", jsonBody(t, contractBody(uuid.New())))

			require.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.code, decodeError(t, rec).Code)
		})
	}
}

func TestGetContract_derivesEffectiveStatus(t *testing.T) {
	c := contractFixture()
	c.Status = "" // legacy record: window 2026-05-01..03, clock at 2026-05-02
	mock := &mockContractServicer{
		getByID: func(context.Context, uuid.UUID, uuid.UUID) (domain.Contract, error) { return c, nil },
	}

	rec := serve(contractHandler(mock), http.MethodGet, "/api/v1/contracts/"+c.ID.String(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body handler.ContractResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Empty(t, body.Status)
	assert.Equal(t, "active", body.EffectiveStatus)
	assert.Nil(t, body.SecondDriver)
}

func TestListContracts_passesFilter(t *testing.T) {
	vehicleID := uuid.New()
	mock := &mockContractServicer{
		listPaged: func(_ context.Context, _ uuid.UUID, f repo.ContractFilter, p domain.PaginationParams) ([]domain.Contract, int64, error) {
			assert.Equal(t, repo.ContractFilter{Status: domain.ContractActive, VehicleID: vehicleID}, f)
			assert.Equal(t, 20, p.Limit)
			return []domain.Contract{contractFixture()}, 1, nil
		},
	}

	rec := serve(contractHandler(mock), http.MethodGet, "/api/v1/contracts?status=active&vehicle_id="+vehicleID.String(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body handler.Page[handler.ContractResponse]
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Len(t, body.Data, 1)
	assert.Equal(t, int64(1), body.Pagination.Total)
}

func TestListContracts_badVehicleIDReturns422(t *testing.T) {
	rec := serve(contractHandler(&mockContractServicer{}), http.MethodGet, "/api/v1/contracts?vehicle_id=nope", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestUpdateContract_usesPathID(t *testing.T) {
	id := uuid.New()
	mock := &mockContractServicer{
		update: func(_ context.Context, _, gotID uuid.UUID, in service.ContractInput) (domain.Contract, error) {
			assert.Equal(t, id, gotID)
			assert.Equal(t, "Casablanca", in.ReturnLocation)
			c := contractFixture()
			c.ID = gotID
			return c, nil
		},
	}

	rec := serve(contractHandler(mock), http.MethodPut, "/api/v1/contracts/"+id.String(), jsonBody(t, contractBody(uuid.New())))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateContractStatus(t *testing.T) {
	id := uuid.New()

	t.Run("allowed", func(t *testing.T) {
		mock := &mockContractServicer{
			updateStatus: func(_ context.Context, _, _ uuid.UUID, next domain.ContractStatus) (domain.Contract, error) {
				assert.Equal(t, domain.ContractActive, next)
				c := contractFixture()
				c.Status = next
				return c, nil
			},
		}

		rec := serve(contractHandler(mock), http.MethodPatch, "/api/v1/contracts/"+id.String()+"/status", jsonBody(t, map[string]any{"status": "active"}))

		require.Equal(t, http.StatusOK, rec.Code)
		var body handler.ContractResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "active", body.Status)
	})

	t.Run("backwards move returns 409", func(t *testing.T) {
		mock := &mockContractServicer{
			updateStatus: func(context.Context, uuid.UUID, uuid.UUID, domain.ContractStatus) (domain.Contract, error) {
				return domain.Contract{}, fmt.Errorf("service.ContractService.UpdateStatus: %w: completed to active", domain.ErrInvalidTransition)
			},
		}

		rec := serve(contractHandler(mock), http.MethodPatch, "/api/v1/contracts/"+id.String()+"/status", jsonBody(t, map[string]any{"status": "active"}))

		require.Equal(t, http.StatusConflict, rec.Code)
		e := decodeError(t, rec)
		assert.Equal(t, "invalid_transition", e.Code)
		assert.Equal(t, "invalid status transition: completed to active", e.Message)
	})
}

func TestDeleteContract_returns204(t *testing.T) {
	mock := &mockContractServicer{
		delete: func(context.Context, uuid.UUID, uuid.UUID) error { return nil },
	}
	rec := serve(contractHandler(mock), http.MethodDelete, "/api/v1/contracts/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestQuoteContract(t *testing.T) {
	t.Run("prices the draft", func(t *testing.T) {
		vehicleID := uuid.New()
		mock := &mockContractServicer{
			quote: func(_ context.Context, _ uuid.UUID, in service.QuoteInput) (service.Quote, error) {
				assert.Equal(t, vehicleID, in.VehicleID)
				assert.Nil(t, in.PriceOverride)
				return service.Quote{PricePerDay: decimal.NewFromInt(300), RentalDays: 2, TotalPrice: decimal.NewFromInt(600)}, nil
			},
		}

		rec := serve(contractHandler(mock), http.MethodPost, "/api/v1/contracts/quote", jsonBody(t, map[string]any{
			"vehicle_id": vehicleID, "start_at": "2026-05-01T10:00:00Z", "end_at": "2026-05-03T10:00:00Z",
		}))

		require.Equal(t, http.StatusOK, rec.Code)
		var body handler.QuoteResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, 2, body.RentalDays)
		assert.True(t, decimal.NewFromInt(600).Equal(body.TotalPrice))
	})

	t.Run("missing end date prices as zero days", func(t *testing.T) {
		called := false
		mock := &mockContractServicer{
			quote: func(_ context.Context, _ uuid.UUID, in service.QuoteInput) (service.Quote, error) {
				called = true
				assert.True(t, in.EndAt.IsZero())
				return service.Quote{PricePerDay: decimal.NewFromInt(300), RentalDays: 0, TotalPrice: decimal.Zero}, nil
			},
		}

		rec := serve(contractHandler(mock), http.MethodPost, "/api/v1/contracts/quote", jsonBody(t, map[string]any{
			"vehicle_id": uuid.New(), "start_at": "2026-05-01T10:00:00Z",
		}))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, called)
		var body handler.QuoteResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, 0, body.RentalDays)
		assert.True(t, body.TotalPrice.IsZero())
	})
}
