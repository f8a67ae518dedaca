package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locapro/partner-api/internal/domain"
)

func TestContractStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to domain.ContractStatus
		want     bool
	}{
		{domain.ContractPending, domain.ContractActive, true},
		{domain.ContractPending, domain.ContractCancelled, true},
		{domain.ContractPending, domain.ContractCompleted, false},
		{domain.ContractActive, domain.ContractCompleted, true},
		{domain.ContractActive, domain.ContractCancelled, true},
		{domain.ContractActive, domain.ContractPending, false},
		{domain.ContractCompleted, domain.ContractCancelled, false},
		{domain.ContractCompleted, domain.ContractActive, false},
		{domain.ContractCancelled, domain.ContractPending, false},
		{domain.ContractPending, domain.ContractPending, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestContractStatus_Valid(t *testing.T) {
	assert.True(t, domain.ContractCancelled.Valid())
	assert.False(t, domain.ContractStatus("archived").Valid())
	assert.False(t, domain.ContractStatus("").Valid())
}

func TestContractStatus_Terminal(t *testing.T) {
	assert.True(t, domain.ContractCompleted.Terminal())
	assert.True(t, domain.ContractCancelled.Terminal())
	assert.False(t, domain.ContractActive.Terminal())
}

func TestContract_EffectiveStatus(t *testing.T) {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 3, 10, 0, 0, 0, time.UTC)
	c := domain.Contract{Rental: domain.RentalInfo{StartAt: start, EndAt: end}}

	assert.Equal(t, domain.ContractPending, c.EffectiveStatus(start.Add(-time.Hour)))
	assert.Equal(t, domain.ContractActive, c.EffectiveStatus(start))
	assert.Equal(t, domain.ContractActive, c.EffectiveStatus(end))
	assert.Equal(t, domain.ContractCompleted, c.EffectiveStatus(end.Add(time.Minute)))

	// An explicit status always wins over the clock.
	c.Status = domain.ContractCancelled
	assert.Equal(t, domain.ContractCancelled, c.EffectiveStatus(start))
}

func TestSecondDriverInfo_IsZero(t *testing.T) {
	assert.True(t, domain.SecondDriverInfo{FirstName: "  "}.IsZero())
	assert.False(t, domain.SecondDriverInfo{LicenseNumber: "L-1"}.IsZero())
}

func TestFieldErrors_UnwrapsToValidation(t *testing.T) {
	fe := domain.FieldErrors{}
	require.NoError(t, fe.Err())

	fe.Add("vehicle_id", "is required")
	fe.Add("vehicle_id", "is ignored")
	err := fe.Err()

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "validation error: vehicle_id is required", err.Error())

	var got domain.FieldErrors
	require.True(t, errors.As(err, &got))
	assert.Equal(t, "is required", got["vehicle_id"])
}

func TestIdentity_HasAny(t *testing.T) {
	assert.False(t, domain.Identity{CIN: "  "}.HasAny())
	assert.True(t, domain.Identity{LicenseNumber: "B-77"}.HasAny())
}
