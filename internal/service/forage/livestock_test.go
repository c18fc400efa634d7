package forage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mawucano-design/diagnostico-forrajero/internal/domain/models"
)

func TestComputeLivestockMetrics(t *testing.T) {
	params := fescueParams()
	biomass := EstimateBiomass(Classify(0.45), params) // 1176 kg DM/ha available

	metrics := ComputeLivestockMetrics(biomass, 10, 450, 100, params, LivestockOptions{})

	// intake 11.25 kg/day, 11760 kg total, units/day 1.04533, / 0.55
	assert.InDelta(t, 11.25, metrics.PerAnimalDailyIntakeKg, 1e-9)
	assert.InDelta(t, 11760, metrics.TotalAvailableBiomassKg, 1e-6)
	assert.InDelta(t, 1.900606, metrics.SupportableAnimalUnits, 1e-4)
	assert.InDelta(t, 0.1900606, metrics.AnimalUnitsPerHectare, 1e-5)
	assert.InDelta(t, 10.45333, metrics.GrazingDurationDays, 1e-4)
	assert.InDelta(t, 0.0956633, metrics.UtilizationRatio, 1e-5)
	assert.Equal(t, models.TierFair, metrics.StatusTier)
}

func TestComputeLivestockMetricsFloors(t *testing.T) {
	params := fescueParams()
	biomass := EstimateBiomass(Classify(0.45), params)

	t.Run("zero area", func(t *testing.T) {
		metrics := ComputeLivestockMetrics(biomass, 0, 450, 10, params, LivestockOptions{})

		assert.Equal(t, 0.01, metrics.SupportableAnimalUnits)
		assert.Equal(t, 0.01, metrics.AnimalUnitsPerHectare)
		assert.Equal(t, 0.1, metrics.GrazingDurationDays)
		assert.Equal(t, 0.0, metrics.TotalAvailableBiomassKg)
	})

	t.Run("zero herd", func(t *testing.T) {
		metrics := ComputeLivestockMetrics(biomass, 10, 450, 0, params, LivestockOptions{})

		assert.Equal(t, 0.1, metrics.GrazingDurationDays)
		assert.Equal(t, 0.0, metrics.UtilizationRatio)
		assert.Greater(t, metrics.SupportableAnimalUnits, 0.01)
	})

	t.Run("zero animal weight", func(t *testing.T) {
		metrics := ComputeLivestockMetrics(biomass, 10, 0, 10, params, LivestockOptions{})

		assert.Equal(t, 0.01, metrics.SupportableAnimalUnits)
		assert.Equal(t, 0.1, metrics.GrazingDurationDays)
	})
}

func TestComputeLivestockMetricsUtilizationClamped(t *testing.T) {
	params := fescueParams()
	biomass := EstimateBiomass(Classify(0.15), params) // 200 total, 90 available

	metrics := ComputeLivestockMetrics(biomass, 1, 450, 5000, params, LivestockOptions{})
	assert.Equal(t, 1.0, metrics.UtilizationRatio)
}

func TestComputeLivestockMetricsDurationCapped(t *testing.T) {
	params := fescueParams()
	biomass := EstimateBiomass(Classify(0.80), params)

	t.Run("default cap", func(t *testing.T) {
		metrics := ComputeLivestockMetrics(biomass, 5000, 450, 1, params, LivestockOptions{})
		assert.Equal(t, 120.0, metrics.GrazingDurationDays)
	})

	t.Run("custom cap", func(t *testing.T) {
		metrics := ComputeLivestockMetrics(biomass, 5000, 450, 1, params, LivestockOptions{MaxGrazingDays: 45})
		assert.Equal(t, 45.0, metrics.GrazingDurationDays)
	})
}

func TestComputeLivestockMetricsGrowthAdjusted(t *testing.T) {
	params := fescueParams()
	params.GrazingEfficiency = 0.7
	biomass := EstimateBiomass(Classify(0.45), params) // regrowth 49 kg/ha/day

	t.Run("regrowth slows depletion", func(t *testing.T) {
		plain := ComputeLivestockMetrics(biomass, 10, 450, 100, params, LivestockOptions{})
		adjusted := ComputeLivestockMetrics(biomass, 10, 450, 100, params, LivestockOptions{GrowthAdjusted: true})

		// consumption 1125/day, regrowth credit 49*10*0.7 = 343/day
		require.Greater(t, adjusted.GrazingDurationDays, plain.GrazingDurationDays)
		assert.InDelta(t, plain.TotalAvailableBiomassKg/(1125-343), adjusted.GrazingDurationDays, 1e-6)
	})

	t.Run("regrowth outpaces herd", func(t *testing.T) {
		metrics := ComputeLivestockMetrics(biomass, 10, 450, 30, params, LivestockOptions{GrowthAdjusted: true})

		// consumption 337.5/day is below the 343/day regrowth credit
		assert.Equal(t, 120.0, metrics.GrazingDurationDays)
	})
}

func TestStatusTierLadder(t *testing.T) {
	tests := []struct {
		available float64
		tier      models.StatusTier
	}{
		{0, models.TierCritical},
		{199.9, models.TierCritical},
		{200, models.TierPoor},
		{599.9, models.TierPoor},
		{600, models.TierFair},
		{1199.9, models.TierFair},
		{1200, models.TierGood},
		{1999.9, models.TierGood},
		{2000, models.TierVeryGood},
		{4500, models.TierVeryGood},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.tier, statusTier(tt.available), "available %g", tt.available)
	}
}
