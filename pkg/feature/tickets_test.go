package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testTiers = []NoShowTier{
	{MaxCapacity: 10000, Factor: 1.03},
	{MaxCapacity: 20000, Factor: 1.05},
	{MaxCapacity: 30000, Factor: 1.08},
	{MaxCapacity: 40000, Factor: 1.10},
	{MaxCapacity: 0, Factor: 1.13},
}

func TestNoShowFactor_TierBoundaries(t *testing.T) {
	assert.Equal(t, 1.03, NoShowFactor(9999, testTiers))
	assert.Equal(t, 1.05, NoShowFactor(10000, testTiers))
	assert.Equal(t, 1.08, NoShowFactor(25000, testTiers))
	assert.Equal(t, 1.10, NoShowFactor(39999, testTiers))
	assert.Equal(t, 1.13, NoShowFactor(40000, testTiers))
	assert.Equal(t, 1.13, NoShowFactor(70000, testTiers))
}

func TestEstimateTicketAvailability(t *testing.T) {
	// 20000 seats, 10000 average attendance, 1.08 factor:
	// sold = 10800, availability = 1 - 10800/20000 = 0.46.
	got, ok := EstimateTicketAvailability(20000, 10000, testTiers)
	assert.True(t, ok)
	assert.Equal(t, 0.46, got)
}

func TestEstimateTicketAvailability_SoldOutClampsToFloor(t *testing.T) {
	got, ok := EstimateTicketAvailability(15000, 15000, testTiers)
	assert.True(t, ok)
	assert.Equal(t, 0.001, got, "sold tickets cap at capacity, availability floors at 0.001")
}

func TestEstimateTicketAvailability_SkipsOnMissingInput(t *testing.T) {
	_, ok := EstimateTicketAvailability(0, 10000, testTiers)
	assert.False(t, ok)

	_, ok = EstimateTicketAvailability(20000, 0, testTiers)
	assert.False(t, ok)
}
