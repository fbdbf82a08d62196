package pricing

import (
	"sort"
	"time"

	domain "github.com/donaldgifford/pricing-engine/pkg/types"
)

// CompetitorWindow is the trailing lookback for recent competitor quotes.
const CompetitorWindow = 7 * 24 * time.Hour

// CompetitorMedian resolves a representative competitor price for a product
// at the reference date. Quotes inside [ref-window, ref] win; when none are
// recent the median falls back to all quotes for the product; no quotes at
// all yields nil.
func CompetitorMedian(
	quotes []domain.CompetitorQuote,
	productID string,
	ref time.Time,
	window time.Duration,
) *float64 {
	var all, recent []float64
	cutoff := ref.Add(-window)

	for i := range quotes {
		if quotes[i].ProductID != productID {
			continue
		}
		all = append(all, quotes[i].Price)
		if !quotes[i].Date.Before(cutoff) && !quotes[i].Date.After(ref) {
			recent = append(recent, quotes[i].Price)
		}
	}

	if len(all) == 0 {
		return nil
	}

	m := median(all)
	if len(recent) > 0 {
		m = median(recent)
	}
	return &m
}

// median returns the middle value, averaging the two middles for even
// sample counts.
func median(vals []float64) float64 {
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
