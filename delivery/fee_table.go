package delivery

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"delivery-backend/models"
)

// ErrNoRangeConfigured means no delivery range covers the distance.
var ErrNoRangeConfigured = errors.New("no delivery range configured for this distance")

// FeeTable answers fee lookups over one establishment's ranges. Ranges are
// ordered by (min, max) so the first match is deterministic even when ranges
// overlap.
type FeeTable struct {
	ranges []models.DeliveryRange
	// reach[i] is the largest MaxDistance among ranges[:i+1].
	reach []float64
}

func NewFeeTable(ranges []models.DeliveryRange) *FeeTable {
	sorted := make([]models.DeliveryRange, len(ranges))
	copy(sorted, ranges)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].MinDistance != sorted[j].MinDistance {
			return sorted[i].MinDistance < sorted[j].MinDistance
		}
		return sorted[i].MaxDistance < sorted[j].MaxDistance
	})

	reach := make([]float64, len(sorted))
	for i, r := range sorted {
		reach[i] = r.MaxDistance
		if i > 0 && reach[i-1] > reach[i] {
			reach[i] = reach[i-1]
		}
	}
	return &FeeTable{ranges: sorted, reach: reach}
}

// Lookup returns the first range with min <= distanceKm < max.
func (t *FeeTable) Lookup(distanceKm float64) (models.DeliveryRange, error) {
	// ranges[:hi] all start at or before the distance.
	hi := sort.Search(len(t.ranges), func(i int) bool {
		return t.ranges[i].MinDistance > distanceKm
	})
	// First range in the prefix whose end lies past the distance.
	j := sort.Search(hi, func(i int) bool {
		return t.reach[i] > distanceKm
	})
	if j < hi {
		// reach is monotone, so ranges[j] itself ends past the distance.
		return t.ranges[j], nil
	}
	return models.DeliveryRange{}, fmt.Errorf("%w: %.2f km", ErrNoRangeConfigured, distanceKm)
}

// Fee is Lookup narrowed to the price.
func (t *FeeTable) Fee(distanceKm float64) (decimal.Decimal, error) {
	r, err := t.Lookup(distanceKm)
	if err != nil {
		return decimal.Zero, err
	}
	return r.Fee, nil
}
