// Package pricing implements the core price recommendation math:
// demand estimation, candidate band generation, profit optimization,
// and guardrail adjustments. The package is pure — no I/O, no clocks.
package pricing

import (
	"fmt"
	"math"

	domain "github.com/donaldgifford/pricing-engine/pkg/types"
)

// MinHistoryRows is the minimum number of sales rows required to fit a
// demand model. Products with fewer rows keep their current price.
const MinHistoryRows = 5

// WeekendProb is the expected weekly weekend fraction used to blend
// weekday and weekend demand estimates.
const WeekendProb = 2.0 / 7.0

// UnitsFn maps a candidate price to expected units sold.
type UnitsFn func(price float64) float64

// LinearFallback is the per-run demand model fit by ordinary least squares
// of units_sold on [1, price_at_sale, is_weekend, promo_flag].
type LinearFallback struct {
	Intercept   float64 `json:"intercept"`
	PriceCoef   float64 `json:"price_coef"`
	WeekendCoef float64 `json:"weekend_coef"`
	PromoCoef   float64 `json:"promo_coef"`
}

// FitLinearFallback fits the fallback demand model over a product's sales
// history. It requires at least MinHistoryRows rows.
func FitLinearFallback(sales []domain.SalesRecord) (*LinearFallback, error) {
	if len(sales) < MinHistoryRows {
		return nil, fmt.Errorf("need at least %d sales rows, got %d", MinHistoryRows, len(sales))
	}

	// Normal equations for X = [1, price, weekend, promo].
	var xtx [4][4]float64
	var xty [4]float64

	for i := range sales {
		row := [4]float64{1, sales[i].PriceAtSale, b2f(sales[i].IsWeekend), b2f(sales[i].Promo)}
		y := float64(sales[i].UnitsSold)
		for j := range 4 {
			for k := range 4 {
				xtx[j][k] += row[j] * row[k]
			}
			xty[j] += row[j] * y
		}
	}

	beta := solve4(xtx, xty)

	return &LinearFallback{
		Intercept:   beta[0],
		PriceCoef:   beta[1],
		WeekendCoef: beta[2],
		PromoCoef:   beta[3],
	}, nil
}

// PredictUnits estimates expected units at a price, blending weekday and
// weekend demand by the weekend probability and clamping at zero.
// Promo is assumed off at inference time.
func (m *LinearFallback) PredictUnits(price float64) float64 {
	weekday := m.Intercept + m.PriceCoef*price
	weekend := weekday + m.WeekendCoef
	return blend(weekday, weekend)
}

// UnitsFn returns the model's prediction function.
func (m *LinearFallback) UnitsFn() UnitsFn {
	return m.PredictUnits
}

// ElasticityModel is a trained ridge regressor over [price, is_weekend,
// promo]. Artifacts are created only by the trainer and read back verbatim;
// prediction shares the weekday/weekend blending of the fallback model.
type ElasticityModel struct {
	ProductID   string  `json:"product_id"`
	Intercept   float64 `json:"intercept"`
	PriceCoef   float64 `json:"price_coef"`
	WeekendCoef float64 `json:"weekend_coef"`
	PromoCoef   float64 `json:"promo_coef"`
	Alpha       float64 `json:"alpha"`
	R2          float64 `json:"r2"`
	Samples     int     `json:"samples"`
}

// PredictUnits estimates expected units at a price with promo off,
// blended over the weekend probability and clamped at zero.
func (m *ElasticityModel) PredictUnits(price float64) float64 {
	weekday := m.Intercept + m.PriceCoef*price
	weekend := weekday + m.WeekendCoef
	return blend(weekday, weekend)
}

// UnitsFn returns the model's prediction function.
func (m *ElasticityModel) UnitsFn() UnitsFn {
	return m.PredictUnits
}

func blend(weekday, weekend float64) float64 {
	expected := (1-WeekendProb)*weekday + WeekendProb*weekend
	return math.Max(0, expected)
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// solve4 solves a 4x4 linear system by Gaussian elimination with partial
// pivoting. Near-singular pivots (collinear features, e.g. a history with
// no promo days) zero the corresponding coefficient instead of failing,
// which matches dropping the degenerate column from the fit.
func solve4(a [4][4]float64, b [4]float64) [4]float64 {
	const eps = 1e-10
	n := 4

	for col := 0; col < n; col++ {
		// Pivot selection.
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < eps {
			// Degenerate column: clear it so back-substitution yields 0.
			for r := col; r < n; r++ {
				a[r][col] = 0
			}
			continue
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		for r := col + 1; r < n; r++ {
			f := a[r][col] / a[col][col]
			for c := col; c < n; c++ {
				a[r][c] -= f * a[col][c]
			}
			b[r] -= f * b[col]
		}
	}

	var x [4]float64
	for i := n - 1; i >= 0; i-- {
		if math.Abs(a[i][i]) < eps {
			x[i] = 0
			continue
		}
		sum := b[i]
		for j := i + 1; j < n; j++ {
			sum -= a[i][j] * x[j]
		}
		x[i] = sum / a[i][i]
	}
	return x
}
