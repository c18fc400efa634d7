package forage

import "github.com/mawucano-design/diagnostico-forrajero/internal/domain/models"

// Classification thresholds (inclusive lower bounds). Values below ~0.12 read
// as non-photosynthetic surface; the bands are deliberately coarse so the
// downstream report stays interpretable.
const (
	thresholdPartialSoil  = 0.12
	thresholdSparseVeg    = 0.22
	thresholdModerateVeg  = 0.35
	thresholdDenseVeg     = 0.55
	thresholdVeryDenseVeg = 0.70
)

// Classify maps a vegetation index to a surface category and canopy-cover
// fraction. It is total: any real number lands in a bucket, out-of-range
// inputs fall into the nearest one.
func Classify(index float64) models.ClassificationResult {
	switch {
	case index < thresholdPartialSoil:
		return models.ClassificationResult{SurfaceCategory: models.SurfaceBareSoil, CoverFraction: 0.05}
	case index < thresholdSparseVeg:
		return models.ClassificationResult{SurfaceCategory: models.SurfacePartialSoil, CoverFraction: 0.25}
	case index < thresholdModerateVeg:
		return models.ClassificationResult{SurfaceCategory: models.SurfaceSparseVeg, CoverFraction: 0.45}
	case index < thresholdDenseVeg:
		return models.ClassificationResult{SurfaceCategory: models.SurfaceModerateVeg, CoverFraction: 0.70}
	case index < thresholdVeryDenseVeg:
		return models.ClassificationResult{SurfaceCategory: models.SurfaceDenseVeg, CoverFraction: 0.85}
	default:
		return models.ClassificationResult{SurfaceCategory: models.SurfaceVeryDenseVeg, CoverFraction: 0.95}
	}
}
