package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mawucano-design/diagnostico-forrajero/internal/domain/models"
)

// feature is a GeoJSON feature with the parcel geometry passed through
// untouched. Geometry handling belongs to the ingestion collaborator; this
// exporter only re-emits what it was given.
type feature struct {
	Type       string          `json:"type"`
	Geometry   json.RawMessage `json:"geometry"`
	Properties map[string]any  `json:"properties"`
}

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

// WriteGeoJSON streams the run as a FeatureCollection. Parcels without a
// supplied geometry get a null geometry so the property record survives.
func WriteGeoJSON(w io.Writer, record models.AnalysisRecord) error {
	fc := featureCollection{Type: "FeatureCollection", Features: make([]feature, 0, len(record.Parcels))}

	for _, p := range record.Parcels {
		geom := p.Geometry
		if len(geom) == 0 {
			geom = json.RawMessage("null")
		}
		fc.Features = append(fc.Features, feature{
			Type:     "Feature",
			Geometry: geom,
			Properties: map[string]any{
				"parcel_id":                p.ParcelID,
				"area_ha":                  p.AreaHectares,
				"vegetation_index":         p.VegetationIndex,
				"surface_category":         p.SurfaceCategory,
				"cover_fraction":           p.CoverFraction,
				"total_biomass_kg_ha":      p.TotalBiomassKgHa,
				"available_biomass_kg_ha":  p.AvailableBiomassKgHa,
				"daily_growth_kg_ha_day":   p.BiomassResult.DailyGrowthKgHaDay,
				"supportable_animal_units": p.SupportableAnimalUnits,
				"animal_units_per_ha":      p.AnimalUnitsPerHectare,
				"grazing_duration_days":    p.GrazingDurationDays,
				"utilization_ratio":        p.UtilizationRatio,
				"status_tier":              int(p.StatusTier),
				"status_label":             p.StatusTier.Label(),
			},
		})
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(fc); err != nil {
		return fmt.Errorf("encode geojson: %w", err)
	}
	return nil
}
