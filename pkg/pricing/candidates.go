package pricing

import "math"

// BandSize is the number of candidate prices evaluated per product.
const BandSize = 25

// Candidates builds the bounded candidate price band for a product:
// an ascending sequence of BandSize evenly spaced prices, each rounded
// to cents. Points may repeat after rounding.
//
// The band floor is the larger of a 10% margin over cost and a 30% cut
// from the current price; the ceiling is a 30% raise. A known competitor
// median narrows the band to ±15% around it. A band that collapses is
// forced open by 5% above its floor.
func Candidates(cost, current float64, competitorMedian *float64) []float64 {
	lower := math.Max(cost*1.10, current*0.70)
	upper := current * 1.30

	if competitorMedian != nil {
		lower = math.Max(lower, *competitorMedian*0.85)
		upper = math.Min(upper, *competitorMedian*1.15)
	}

	if upper <= lower {
		upper = lower * 1.05
	}

	out := make([]float64, BandSize)
	step := (upper - lower) / float64(BandSize-1)
	for i := range out {
		out[i] = Round2(lower + float64(i)*step)
	}
	return out
}

// Round2 rounds to two decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
