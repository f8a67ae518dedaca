package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/locapro/partner-api/internal/domain"
	"github.com/locapro/partner-api/internal/repo"
	"github.com/locapro/partner-api/testutil"
)

// repos bundles every repo backed by one transaction, so a test can build a
// partner with its fleet, clients, and contracts and have all of it rolled back.
type repos struct {
	partners  repo.PartnerRepo
	vehicles  repo.VehicleRepo
	clients   repo.ClientRepo
	blacklist repo.BlacklistRepo
	contracts repo.ContractRepo
}

func newTestRepos(t *testing.T) repos {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return repos{
		partners:  repo.NewPartnerRepo(tx),
		vehicles:  repo.NewVehicleRepo(tx),
		clients:   repo.NewClientRepo(tx),
		blacklist: repo.NewBlacklistRepo(tx),
		contracts: repo.NewContractRepo(tx),
	}
}

// mustPartner inserts a partner with a unique email and returns it.
func mustPartner(t *testing.T, r repos) domain.Partner {
	t.Helper()
	p, err := r.partners.Create(context.Background(), domain.Partner{
		CompanyName: "Atlas Cars",
		Email:       uuid.NewString() + "@atlas.test",
		City:        "Casablanca",
		Country:     "MA",
	})
	require.NoError(t, err)
	return p
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func vehicleFixture(partnerID uuid.UUID) domain.Vehicle {
	insStart := date(2026, 1, 1)
	insEnd := date(2026, 12, 31)
	return domain.Vehicle{
		PartnerID:      partnerID,
		Name:           "Dacia Logan",
		Category:       "Economy",
		Transmission:   "manual",
		FuelType:       "diesel",
		PricePerDay:    decimal.RequireFromString("300"),
		Equipment:      domain.Equipment{Radio: true, GPS: true},
		KeyCount:       2,
		OdometerStart:  41200,
		TaxYearsPaid:   []int{2026, 2027},
		InsuranceStart: &insStart,
		InsuranceEnd:   &insEnd,
		Damages:        []string{"front-bumper"},
		Available:      true,
	}
}

func clientFixture(partnerID uuid.UUID) domain.Client {
	issued := date(2015, 3, 10)
	return domain.Client{
		PartnerID:        partnerID,
		LastName:         "Alaoui",
		FirstName:        "Youssef",
		BirthDate:        date(1990, 7, 14),
		Phone:            "+212600000000",
		Address:          "12 Rue Atlas",
		Identity:         domain.Identity{CIN: "AB123456", LicenseNumber: "L-998"},
		LicenseIssueDate: &issued,
	}
}

func contractFixture(p domain.Partner, v domain.Vehicle) domain.Contract {
	start := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	return domain.Contract{
		PartnerID: p.ID,
		VehicleID: v.ID,
		Client: domain.ClientInfo{
			LastName:      "Alaoui",
			FirstName:     "Youssef",
			BirthDate:     date(1990, 7, 14),
			Phone:         "+212600000000",
			Address:       "12 Rue Atlas",
			CIN:           "AB123456",
			LicenseNumber: "L-998",
		},
		Vehicle: v,
		Partner: p,
		Rental: domain.RentalInfo{
			StartAt:        start,
			EndAt:          start.Add(48 * time.Hour),
			PickupLocation: "Casablanca Airport",
			ReturnLocation: "Casablanca Airport",
			PricePerDay:    v.PricePerDay,
			TotalPrice:     v.PricePerDay.Mul(decimal.NewFromInt(2)),
			RentalDays:     2,
		},
		Status:    domain.ContractPending,
		CreatedBy: "agent@atlas.test",
	}
}
