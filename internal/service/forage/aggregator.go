package forage

import (
	"context"
	"sync"

	"github.com/mawucano-design/diagnostico-forrajero/internal/domain/models"
)

// parallelThreshold is the parcel count above which the aggregator fans out
// to a worker pool. Each parcel reads only its own observation and the shared
// read-only parameters, so no locking is needed.
const parallelThreshold = 64

// Aggregator runs the classify -> estimate -> compute chain over a parcel
// collection and folds per-parcel results into a run summary.
type Aggregator struct {
	workers int
}

// NewAggregator builds an aggregator with the given worker-pool size.
// Sizes below 1 fall back to 4 workers.
func NewAggregator(workers int) *Aggregator {
	if workers < 1 {
		workers = 4
	}
	return &Aggregator{workers: workers}
}

// AnalyzeParcel runs the full pipeline for a single observation.
func AnalyzeParcel(obs models.ParcelObservation, params models.ForageParameters, animalWeightKg float64, herdSize int, opts LivestockOptions) models.ParcelResult {
	classification := Classify(obs.VegetationIndex)
	biomass := EstimateBiomass(classification, params)
	metrics := ComputeLivestockMetrics(biomass, obs.AreaHectares, animalWeightKg, herdSize, params, opts)

	return models.ParcelResult{
		ParcelObservation:    obs,
		ClassificationResult: classification,
		BiomassResult:        biomass,
		LivestockMetrics:     metrics,
	}
}

// Run processes every parcel and returns per-parcel results in input order
// plus the aggregate summary. An empty collection is valid and yields an
// empty result set with a zero summary.
func (a *Aggregator) Run(ctx context.Context, parcels []models.ParcelObservation, params models.ForageParameters, animalWeightKg float64, herdSize int, opts LivestockOptions) ([]models.ParcelResult, models.AnalysisSummary, error) {
	if err := params.Validate(); err != nil {
		return nil, models.AnalysisSummary{}, err
	}

	if len(parcels) == 0 {
		return []models.ParcelResult{}, models.AnalysisSummary{}, nil
	}

	results := make([]models.ParcelResult, len(parcels))
	if len(parcels) > parallelThreshold {
		a.runParallel(ctx, parcels, params, animalWeightKg, herdSize, opts, results)
	} else {
		for i, obs := range parcels {
			results[i] = AnalyzeParcel(obs, params, animalWeightKg, herdSize, opts)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, models.AnalysisSummary{}, err
	}

	return results, summarize(results), nil
}

func (a *Aggregator) runParallel(ctx context.Context, parcels []models.ParcelObservation, params models.ForageParameters, animalWeightKg float64, herdSize int, opts LivestockOptions, results []models.ParcelResult) {
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < a.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = AnalyzeParcel(parcels[i], params, animalWeightKg, herdSize, opts)
			}
		}()
	}

	for i := range parcels {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
}

func summarize(results []models.ParcelResult) models.AnalysisSummary {
	summary := models.AnalysisSummary{ParcelCount: len(results)}
	if len(results) == 0 {
		return summary
	}

	for _, r := range results {
		summary.TotalAreaHectares += r.AreaHectares
		summary.TotalSupportableUnits += r.SupportableAnimalUnits
		summary.MeanAvailableBiomassKgHa += r.AvailableBiomassKgHa
		summary.MeanVegetationIndex += r.VegetationIndex
		summary.MeanGrazingDurationDays += r.GrazingDurationDays
		summary.MeanAnimalUnitsPerHectare += r.AnimalUnitsPerHectare
	}

	n := float64(len(results))
	summary.MeanAvailableBiomassKgHa /= n
	summary.MeanVegetationIndex /= n
	summary.MeanGrazingDurationDays /= n
	summary.MeanAnimalUnitsPerHectare /= n
	return summary
}
