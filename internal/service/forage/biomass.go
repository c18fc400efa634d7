package forage

import "github.com/mawucano-design/diagnostico-forrajero/internal/domain/models"

// categoryProfile fixes the per-category biomass behavior: a fraction of the
// optimal biomass with an absolute ceiling, a palatability/digestibility
// quality factor, a growth scaling, and the clamp window for available
// biomass. Floors and ceilings are non-decreasing across categories so
// available biomass never decreases when the index moves up a band.
type categoryProfile struct {
	optimalFraction float64
	totalCapKgHa    float64
	qualityFactor   float64
	growthFactor    float64
	availFloorKgHa  float64
	availCeilKgHa   float64
}

var categoryProfiles = map[models.SurfaceCategory]categoryProfile{
	models.SurfaceBareSoil:     {0.01, 20, 0.20, 0, 20, 50},
	models.SurfacePartialSoil:  {0.05, 200, 0.30, 0.20, 50, 200},
	models.SurfaceSparseVeg:    {0.30, 1200, 0.50, 0.40, 50, 4000},
	models.SurfaceModerateVeg:  {0.60, 3000, 0.70, 0.70, 50, 4000},
	models.SurfaceDenseVeg:     {0.90, 6000, 0.85, 0.90, 50, 4000},
	models.SurfaceVeryDenseVeg: {0.95, 6500, 0.90, 0.95, 50, 4500},
}

// bareSoilGrowthKgHaDay is the flat residual growth assigned to bare soil.
const bareSoilGrowthKgHaDay = 1.0

// EstimateBiomass turns a classification into clamped biomass figures. It
// always returns a result; both the multiplicative fraction and the absolute
// cap apply so a misconfigured optimal biomass cannot produce unrealistic
// field values.
func EstimateBiomass(classification models.ClassificationResult, params models.ForageParameters) models.BiomassResult {
	profile, ok := categoryProfiles[classification.SurfaceCategory]
	if !ok {
		profile = categoryProfiles[models.SurfaceSparseVeg]
	}

	total := min(profile.optimalFraction*params.OptimalBiomassKgHa, profile.totalCapKgHa)

	growth := params.DailyGrowthKgHaDay * profile.growthFactor
	if classification.SurfaceCategory == models.SurfaceBareSoil {
		growth = bareSoilGrowthKgHaDay
	}

	available := clamp(total*profile.qualityFactor*classification.CoverFraction,
		profile.availFloorKgHa, profile.availCeilKgHa)

	return models.BiomassResult{
		TotalBiomassKgHa:     total,
		DailyGrowthKgHaDay:   growth,
		QualityFactor:        profile.qualityFactor,
		AvailableBiomassKgHa: available,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
