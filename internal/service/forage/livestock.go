package forage

import "github.com/mawucano-design/diagnostico-forrajero/internal/domain/models"

// Floors keep every downstream ratio finite and orderable. Degenerate inputs
// (zero area, zero herd, zero biomass) are absorbed here, never raised.
const (
	minAnimalUnits        = 0.01
	minUnitsPerHectare    = 0.01
	minGrazingDays        = 0.1
	defaultMaxGrazingDays = 120.0
)

// Status tier thresholds on available biomass (kg DM/ha).
var tierThresholds = []struct {
	minAvailable float64
	tier         models.StatusTier
}{
	{2000, models.TierVeryGood},
	{1200, models.TierGood},
	{600, models.TierFair},
	{200, models.TierPoor},
}

// LivestockOptions tune the carrying-capacity calculation.
type LivestockOptions struct {
	// MaxGrazingDays caps the grazing-duration estimate. Zero selects the
	// conservative default of 120 days.
	MaxGrazingDays float64
	// GrowthAdjusted re-credits daily regrowth against herd consumption when
	// estimating grazing duration.
	GrowthAdjusted bool
}

func (o LivestockOptions) maxDays() float64 {
	if o.MaxGrazingDays <= 0 {
		return defaultMaxGrazingDays
	}
	return o.MaxGrazingDays
}

// ComputeLivestockMetrics derives stocking capacity, density, grazing
// duration, and utilization from available biomass. The step order and floor
// values are load-bearing: reports compare runs across seasons and expect
// identical arithmetic.
func ComputeLivestockMetrics(biomass models.BiomassResult, areaHectares, animalWeightKg float64, herdSize int, params models.ForageParameters, opts LivestockOptions) models.LivestockMetrics {
	perAnimalDailyIntakeKg := animalWeightKg * params.ConsumptionFractionOfBodyWeight
	totalAvailableKg := biomass.AvailableBiomassKgHa * areaHectares * params.HarvestEfficiency

	supportableUnits := minAnimalUnits
	if totalAvailableKg > 0 && perAnimalDailyIntakeKg > 0 {
		unitsPerDay := totalAvailableKg * 0.001 / perAnimalDailyIntakeKg
		supportableUnits = max(minAnimalUnits, unitsPerDay/params.RecommendedUtilizationRate)
	}

	unitsPerHectare := minUnitsPerHectare
	if areaHectares > 0 {
		unitsPerHectare = supportableUnits / areaHectares
	}

	duration := grazingDuration(biomass, totalAvailableKg, areaHectares, perAnimalDailyIntakeKg, herdSize, params, opts)

	utilization := clamp(float64(herdSize)*perAnimalDailyIntakeKg/max(1, totalAvailableKg), 0, 1)

	return models.LivestockMetrics{
		SupportableAnimalUnits:  supportableUnits,
		AnimalUnitsPerHectare:   unitsPerHectare,
		GrazingDurationDays:     duration,
		UtilizationRatio:        utilization,
		StatusTier:              statusTier(biomass.AvailableBiomassKgHa),
		TotalAvailableBiomassKg: totalAvailableKg,
		PerAnimalDailyIntakeKg:  perAnimalDailyIntakeKg,
	}
}

// grazingDuration estimates how many days the herd can stay on the parcel.
// The growth-adjusted variant nets daily regrowth (scaled by grazing
// efficiency) against consumption; when regrowth keeps pace the estimate
// saturates at the cap.
func grazingDuration(biomass models.BiomassResult, totalAvailableKg, areaHectares, perAnimalDailyIntakeKg float64, herdSize int, params models.ForageParameters, opts LivestockOptions) float64 {
	if herdSize <= 0 {
		return minGrazingDays
	}

	totalDailyConsumption := float64(herdSize) * perAnimalDailyIntakeKg
	if totalDailyConsumption <= 0 || totalAvailableKg <= 0 {
		return minGrazingDays
	}

	depletion := totalDailyConsumption
	if opts.GrowthAdjusted {
		depletion -= biomass.DailyGrowthKgHaDay * areaHectares * params.GrazingEfficiency
		if depletion <= 0 {
			return opts.maxDays()
		}
	}

	return clamp(totalAvailableKg/depletion, minGrazingDays, opts.maxDays())
}

func statusTier(availableBiomassKgHa float64) models.StatusTier {
	for _, t := range tierThresholds {
		if availableBiomassKgHa >= t.minAvailable {
			return t.tier
		}
	}
	return models.TierCritical
}
