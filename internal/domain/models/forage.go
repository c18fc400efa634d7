package models

import (
	"errors"
	"fmt"
)

// PastureType identifies an entry in the forage parameter registry.
type PastureType string

const (
	PastureAlfalfa        PastureType = "ALFALFA"
	PastureRaygrass       PastureType = "RAYGRASS"
	PastureFescue         PastureType = "FESTUCA"
	PastureWheatgrass     PastureType = "AGROPIRRO"
	PastureNaturalPasture PastureType = "PASTIZAL_NATURAL"
	PastureCustom         PastureType = "PERSONALIZADO"
)

// SurfaceCategory is the discrete vegetation class derived from the index value.
type SurfaceCategory string

const (
	SurfaceBareSoil     SurfaceCategory = "BARE_SOIL"
	SurfacePartialSoil  SurfaceCategory = "PARTIAL_SOIL"
	SurfaceSparseVeg    SurfaceCategory = "SPARSE_VEG"
	SurfaceModerateVeg  SurfaceCategory = "MODERATE_VEG"
	SurfaceDenseVeg     SurfaceCategory = "DENSE_VEG"
	SurfaceVeryDenseVeg SurfaceCategory = "VERY_DENSE_VEG"
)

// StatusTier grades available biomass on a 0 (critical) to 4 (very good) ladder.
type StatusTier int

const (
	TierCritical StatusTier = iota
	TierPoor
	TierFair
	TierGood
	TierVeryGood
)

// Label returns the human-readable name used in reports.
func (t StatusTier) Label() string {
	switch t {
	case TierCritical:
		return "critical"
	case TierPoor:
		return "poor"
	case TierFair:
		return "fair"
	case TierGood:
		return "good"
	case TierVeryGood:
		return "very good"
	default:
		return "unknown"
	}
}

// ErrInvalidForageParameters indicates a parameter set that fails validation.
var ErrInvalidForageParameters = errors.New("invalid forage parameters")

// ForageParameters holds the agronomic constants for one pasture type.
// All quantities are in kg of dry matter per hectare; fractions are ratios,
// not percentages.
type ForageParameters struct {
	OptimalBiomassKgHa              float64 `bson:"optimal_biomass_kg_ha" json:"optimal_biomass_kg_ha"`
	DailyGrowthKgHaDay              float64 `bson:"daily_growth_kg_ha_day" json:"daily_growth_kg_ha_day"`
	ConsumptionFractionOfBodyWeight float64 `bson:"consumption_fraction" json:"consumption_fraction"`
	RecommendedUtilizationRate      float64 `bson:"utilization_rate" json:"utilization_rate"`
	HarvestEfficiency               float64 `bson:"harvest_efficiency" json:"harvest_efficiency"`
	GrazingEfficiency               float64 `bson:"grazing_efficiency" json:"grazing_efficiency"`
}

// Validate rejects misconfigured parameter sets before any calculation runs.
func (p ForageParameters) Validate() error {
	switch {
	case p.OptimalBiomassKgHa <= 0:
		return fmt.Errorf("%w: optimal biomass must be > 0, got %g", ErrInvalidForageParameters, p.OptimalBiomassKgHa)
	case p.DailyGrowthKgHaDay < 0:
		return fmt.Errorf("%w: daily growth must be >= 0, got %g", ErrInvalidForageParameters, p.DailyGrowthKgHaDay)
	case p.ConsumptionFractionOfBodyWeight <= 0 || p.ConsumptionFractionOfBodyWeight >= 1:
		return fmt.Errorf("%w: consumption fraction must be in (0,1), got %g", ErrInvalidForageParameters, p.ConsumptionFractionOfBodyWeight)
	case p.RecommendedUtilizationRate <= 0 || p.RecommendedUtilizationRate > 1:
		return fmt.Errorf("%w: utilization rate must be in (0,1], got %g", ErrInvalidForageParameters, p.RecommendedUtilizationRate)
	case p.HarvestEfficiency <= 0 || p.HarvestEfficiency > 1:
		return fmt.Errorf("%w: harvest efficiency must be in (0,1], got %g", ErrInvalidForageParameters, p.HarvestEfficiency)
	case p.GrazingEfficiency <= 0 || p.GrazingEfficiency > 1:
		return fmt.Errorf("%w: grazing efficiency must be in (0,1], got %g", ErrInvalidForageParameters, p.GrazingEfficiency)
	}
	return nil
}
