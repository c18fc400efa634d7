package models

import "encoding/json"

// ParcelObservation is one land subdivision as supplied by the ingestion
// collaborator. It is never mutated once the pipeline starts. A zero
// VegetationIndex marks the index as not yet acquired; simulated runs fill it
// in, supplied runs classify it as bare soil.
type ParcelObservation struct {
	ParcelID        string          `bson:"parcel_id" json:"parcel_id" binding:"required"`
	AreaHectares    float64         `bson:"area_ha" json:"area_ha"`
	VegetationIndex float64         `bson:"vegetation_index" json:"vegetation_index"`
	Geometry        json.RawMessage `bson:"geometry,omitempty" json:"geometry,omitempty"`
}

// ClassificationResult is the surface class derived from the vegetation index.
type ClassificationResult struct {
	SurfaceCategory SurfaceCategory `bson:"surface_category" json:"surface_category"`
	CoverFraction   float64         `bson:"cover_fraction" json:"cover_fraction"`
}

// BiomassResult holds the biomass estimates for one parcel, all in kg dry
// matter per hectare and clamped to category-specific ceilings.
type BiomassResult struct {
	TotalBiomassKgHa     float64 `bson:"total_biomass_kg_ha" json:"total_biomass_kg_ha"`
	DailyGrowthKgHaDay   float64 `bson:"daily_growth_kg_ha_day" json:"daily_growth_kg_ha_day"`
	QualityFactor        float64 `bson:"quality_factor" json:"quality_factor"`
	AvailableBiomassKgHa float64 `bson:"available_biomass_kg_ha" json:"available_biomass_kg_ha"`
}

// LivestockMetrics holds the carrying-capacity figures for one parcel.
// All rate values carry explicit floors so downstream ratios stay finite.
type LivestockMetrics struct {
	SupportableAnimalUnits  float64    `bson:"supportable_animal_units" json:"supportable_animal_units"`
	AnimalUnitsPerHectare   float64    `bson:"animal_units_per_ha" json:"animal_units_per_ha"`
	GrazingDurationDays     float64    `bson:"grazing_duration_days" json:"grazing_duration_days"`
	UtilizationRatio        float64    `bson:"utilization_ratio" json:"utilization_ratio"`
	StatusTier              StatusTier `bson:"status_tier" json:"status_tier"`
	TotalAvailableBiomassKg float64    `bson:"total_available_biomass_kg" json:"total_available_biomass_kg"`
	PerAnimalDailyIntakeKg  float64    `bson:"per_animal_daily_intake_kg" json:"per_animal_daily_intake_kg"`
}

// ParcelResult is the flat per-parcel record handed to reporting and export
// collaborators: the observation merged with every pipeline stage output.
type ParcelResult struct {
	ParcelObservation    `bson:",inline" json:",inline"`
	ClassificationResult `bson:",inline" json:",inline"`
	BiomassResult        `bson:",inline" json:",inline"`
	LivestockMetrics     `bson:",inline" json:",inline"`
}

// AnalysisSummary aggregates a full run for the report header.
type AnalysisSummary struct {
	ParcelCount               int     `bson:"parcel_count" json:"parcel_count"`
	TotalAreaHectares         float64 `bson:"total_area_ha" json:"total_area_ha"`
	TotalSupportableUnits     float64 `bson:"total_supportable_units" json:"total_supportable_units"`
	MeanAvailableBiomassKgHa  float64 `bson:"mean_available_biomass_kg_ha" json:"mean_available_biomass_kg_ha"`
	MeanVegetationIndex       float64 `bson:"mean_vegetation_index" json:"mean_vegetation_index"`
	MeanGrazingDurationDays   float64 `bson:"mean_grazing_duration_days" json:"mean_grazing_duration_days"`
	MeanAnimalUnitsPerHectare float64 `bson:"mean_animal_units_per_ha" json:"mean_animal_units_per_ha"`
}
