package models

import "time"

// AnalysisSource records how the vegetation indices of a run were obtained.
type AnalysisSource string

const (
	SourceSupplied  AnalysisSource = "SUPPLIED"
	SourceSatellite AnalysisSource = "SATELLITE"
	SourceSimulated AnalysisSource = "SIMULATED"
)

// AnalysisOptions tune optional pipeline behavior per request.
type AnalysisOptions struct {
	// GrowthAdjusted enables the grazing-duration variant that re-credits a
	// fraction of daily regrowth while the herd is on the parcel.
	GrowthAdjusted bool `bson:"growth_adjusted" json:"growth_adjusted"`
	// Simulate fills in vegetation indices deterministically for parcels that
	// arrive without one. An index of exactly 0 counts as absent; callers with
	// a measured zero should submit it as a supplied run instead.
	Simulate bool `bson:"simulate" json:"simulate"`
	// SimulationSeed makes simulated runs reproducible. Zero means seed 1.
	SimulationSeed int64 `bson:"simulation_seed,omitempty" json:"simulation_seed,omitempty"`
}

// AnalysisRequest is the inbound payload for a forage analysis run.
type AnalysisRequest struct {
	PastureType      PastureType         `json:"pasture_type" binding:"required"`
	CustomParameters *ForageParameters   `json:"custom_parameters,omitempty"`
	AnimalWeightKg   float64             `json:"animal_weight_kg" binding:"required,gt=0"`
	HerdSize         int                 `json:"herd_size" binding:"gte=0"`
	Parcels          []ParcelObservation `json:"parcels"`
	Options          AnalysisOptions     `json:"options"`
}

// AnalysisRecord is the immutable document persisted per run.
type AnalysisRecord struct {
	ID              string           `bson:"_id" json:"id"`
	CreatedAt       time.Time        `bson:"created_at" json:"created_at"`
	PastureType     PastureType      `bson:"pasture_type" json:"pasture_type"`
	Parameters      ForageParameters `bson:"parameters" json:"parameters"`
	AnimalWeightKg  float64          `bson:"animal_weight_kg" json:"animal_weight_kg"`
	HerdSize        int              `bson:"herd_size" json:"herd_size"`
	Source          AnalysisSource   `bson:"source" json:"source"`
	Parcels         []ParcelResult   `bson:"parcels" json:"parcels"`
	Summary         AnalysisSummary  `bson:"summary" json:"summary"`
	Condition       string           `bson:"condition" json:"condition"`
	Recommendations []string         `bson:"recommendations" json:"recommendations"`
}

// Paddock is a registered lot re-analyzed on the monitoring schedule.
type Paddock struct {
	ID             string              `bson:"_id" json:"id"`
	Name           string              `bson:"name" json:"name" binding:"required"`
	PastureType    PastureType         `bson:"pasture_type" json:"pasture_type" binding:"required"`
	AnimalWeightKg float64             `bson:"animal_weight_kg" json:"animal_weight_kg" binding:"required,gt=0"`
	HerdSize       int                 `bson:"herd_size" json:"herd_size" binding:"gte=0"`
	Parcels        []ParcelObservation `bson:"parcels" json:"parcels" binding:"required,min=1"`
	CreatedAt      time.Time           `bson:"created_at" json:"created_at"`
}
