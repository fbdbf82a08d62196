package pricing

// Profit is the expected profit at a price under a demand estimate.
func Profit(units UnitsFn, price, cost float64) float64 {
	return units(price) * (price - cost)
}

// Optimize evaluates every candidate under the demand estimator and returns
// the profit-maximizing price. Ties keep the first occurrence in ascending
// price order, so results are reproducible run to run.
func Optimize(candidates []float64, cost float64, units UnitsFn) (bestPrice, bestProfit float64) {
	for i, p := range candidates {
		profit := Profit(units, p, cost)
		if i == 0 || profit > bestProfit {
			bestPrice = p
			bestProfit = profit
		}
	}
	return bestPrice, bestProfit
}

// ExpectedDelta is the rounded profit improvement of the best candidate over
// the current price, computed with the same estimator for comparability.
func ExpectedDelta(units UnitsFn, bestProfit, currentPrice, cost float64) float64 {
	return Round2(bestProfit - Profit(units, currentPrice, cost))
}
