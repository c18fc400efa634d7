package reporting

import (
	"fmt"
	"strings"

	"github.com/mawucano-design/diagnostico-forrajero/internal/domain/models"
)

// Condition thresholds on mean available biomass (kg DM/ha).
const (
	biomassVeryDegraded = 200.0
	biomassLow          = 600.0
	biomassModerate     = 1200.0
	biomassGood         = 2000.0

	recoveryBiomass    = 1000.0
	improvementBiomass = 2000.0

	minRestDays          = 30.0
	highStockingPerHa    = 2.0
	lowProductivityPerHa = 0.8
)

// ConditionLabel grades the overall paddock state from mean available biomass.
func ConditionLabel(meanAvailableBiomassKgHa float64) string {
	switch {
	case meanAvailableBiomassKgHa <= biomassVeryDegraded:
		return "very degraded, almost no biomass"
	case meanAvailableBiomassKgHa < biomassLow:
		return "low biomass"
	case meanAvailableBiomassKgHa < biomassModerate:
		return "moderate biomass"
	case meanAvailableBiomassKgHa < biomassGood:
		return "good biomass"
	default:
		return "high biomass"
	}
}

// Recommendations derives regenerative-grazing guidance from the run summary.
// The rules reproduce the advisory sections of the field reports: a management
// plan tiered on mean biomass plus corrective notes for short rest periods and
// stocking-density extremes.
func Recommendations(summary models.AnalysisSummary) []string {
	if summary.ParcelCount == 0 {
		return []string{"No parcels analyzed; load a paddock subdivision before requesting guidance."}
	}

	var recs []string

	switch {
	case summary.MeanAvailableBiomassKgHa < recoveryBiomass:
		recs = append(recs,
			"Recovery stage: extend rest periods to 60-120 days depending on season.",
			"Temporarily reduce stocking; prioritize supplementation if forage is short.",
			"Defer grazing on critical sectors and protect water corridors.",
			"Avoid heavy traffic on wet soil to prevent compaction.",
		)
	case summary.MeanAvailableBiomassKgHa < improvementBiomass:
		recs = append(recs,
			"Improvement stage: rotate with short high-density grazing periods (1-3 days) and 45-75 day rests.",
			"Monitor regrowth and adjust grazing duration accordingly.",
			"Favor grass-legume mixes to improve quality and nitrogen fixation.",
		)
	default:
		recs = append(recs,
			"Maintenance stage: keep rotations with 35-60 day rests by species and season.",
			"Use short high-density grazing to stimulate regrowth.",
			"Preserve riparian buffers and water habitats.",
		)
	}

	if summary.MeanGrazingDurationDays < minRestDays {
		recs = append(recs, fmt.Sprintf("Mean grazing duration is %.1f days; plan rotations of at least %.0f-45 days per parcel.", summary.MeanGrazingDurationDays, minRestDays))
	}
	if summary.MeanAnimalUnitsPerHectare > highStockingPerHa {
		recs = append(recs, "Stocking density is high; reduce animal units per hectare to avoid overgrazing.")
	}
	if summary.MeanAnimalUnitsPerHectare < lowProductivityPerHa {
		recs = append(recs, "Low productivity; consider sowing legumes or applying organic fertilization.")
	}

	recs = append(recs, "Monitor monthly and keep simple records: estimated biomass, sward height, cover and rest days.")
	return recs
}

// RenderSummaryText formats a stored run as the plain-text block appended to
// spreadsheet reports and returned alongside API responses.
func RenderSummaryText(record models.AnalysisRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Forage availability report - %s (%s)\n", record.PastureType, record.CreatedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "Parcels: %d | Total area: %.2f ha\n", record.Summary.ParcelCount, record.Summary.TotalAreaHectares)
	fmt.Fprintf(&b, "Mean available biomass: %.0f kg DM/ha | Mean index: %.3f\n", record.Summary.MeanAvailableBiomassKgHa, record.Summary.MeanVegetationIndex)
	fmt.Fprintf(&b, "Total stocking capacity: %.2f AU | Mean density: %.2f AU/ha | Mean duration: %.1f days\n", record.Summary.TotalSupportableUnits, record.Summary.MeanAnimalUnitsPerHectare, record.Summary.MeanGrazingDurationDays)
	fmt.Fprintf(&b, "Overall condition: %s\n", record.Condition)

	if len(record.Recommendations) > 0 {
		b.WriteString("Recommendations:\n")
		for _, rec := range record.Recommendations {
			fmt.Fprintf(&b, "  - %s\n", rec)
		}
	}
	return b.String()
}
