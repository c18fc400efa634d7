package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/mawucano-design/diagnostico-forrajero/internal/domain/models"
)

// csvHeader lists the flat per-parcel columns in report order.
var csvHeader = []string{
	"parcel_id",
	"area_ha",
	"vegetation_index",
	"surface_category",
	"cover_fraction",
	"total_biomass_kg_ha",
	"available_biomass_kg_ha",
	"daily_growth_kg_ha_day",
	"quality_factor",
	"supportable_animal_units",
	"animal_units_per_ha",
	"grazing_duration_days",
	"utilization_ratio",
	"status_tier",
	"status_label",
}

// WriteCSV streams the per-parcel results of a run as CSV.
func WriteCSV(w io.Writer, record models.AnalysisRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, p := range record.Parcels {
		row := []string{
			p.ParcelID,
			fmt.Sprintf("%.4f", p.AreaHectares),
			fmt.Sprintf("%.3f", p.VegetationIndex),
			string(p.SurfaceCategory),
			fmt.Sprintf("%.2f", p.CoverFraction),
			fmt.Sprintf("%.1f", p.TotalBiomassKgHa),
			fmt.Sprintf("%.1f", p.AvailableBiomassKgHa),
			fmt.Sprintf("%.1f", p.BiomassResult.DailyGrowthKgHaDay),
			fmt.Sprintf("%.2f", p.QualityFactor),
			fmt.Sprintf("%.2f", p.SupportableAnimalUnits),
			fmt.Sprintf("%.3f", p.AnimalUnitsPerHectare),
			fmt.Sprintf("%.1f", p.GrazingDurationDays),
			fmt.Sprintf("%.3f", p.UtilizationRatio),
			fmt.Sprintf("%d", p.StatusTier),
			p.StatusTier.Label(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row for parcel %s: %w", p.ParcelID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
