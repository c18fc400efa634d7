package simulation

import (
	"hash/fnv"
	"math/rand"

	"github.com/mawucano-design/diagnostico-forrajero/internal/domain/models"
)

// Simulator produces mock vegetation indices when no satellite source is
// configured. All randomness of the system lives here: the calculation
// pipeline itself is deterministic, and the simulator is reproducible for a
// given seed and parcel id regardless of parcel order.
type Simulator struct {
	seed int64
}

// New builds a simulator. A zero seed is normalized to 1 so that the zero
// value of a request still yields a reproducible run.
func New(seed int64) *Simulator {
	if seed == 0 {
		seed = 1
	}
	return &Simulator{seed: seed}
}

// Index returns a simulated vegetation index for the parcel: a base level
// cycling with the parcel identity plus Gaussian noise, clamped to the
// physically plausible [0.05, 0.85] window.
func (s *Simulator) Index(parcelID string) float64 {
	bucket := parcelBucket(parcelID)
	base := 0.2 + 0.4*(float64(bucket%6)/6)

	rng := rand.New(rand.NewSource(s.seed ^ int64(bucket)))
	index := base + rng.NormFloat64()*0.05

	if index < 0.05 {
		return 0.05
	}
	if index > 0.85 {
		return 0.85
	}
	return index
}

// Fill returns a copy of the observations with simulated indices substituted
// wherever the supplied index is zero. Observations with a real index pass
// through untouched.
func (s *Simulator) Fill(parcels []models.ParcelObservation) []models.ParcelObservation {
	out := make([]models.ParcelObservation, len(parcels))
	for i, p := range parcels {
		if p.VegetationIndex == 0 {
			p.VegetationIndex = s.Index(p.ParcelID)
		}
		out[i] = p
	}
	return out
}

func parcelBucket(parcelID string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(parcelID))
	return h.Sum64()
}
