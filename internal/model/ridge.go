// Package model implements the offline elasticity trainer and the
// per-product artifact store it writes. Artifacts are read back by the
// recommendation engine; presence of an artifact is what switches a
// product from the fallback estimator to the trained model.
package model

import (
	"fmt"
	"math"

	domain "github.com/donaldgifford/pricing-engine/pkg/types"
	"github.com/donaldgifford/pricing-engine/pkg/pricing"
)

// featureRow is one training observation: [price, is_weekend, promo].
type featureRow [3]float64

// fitRidge fits a ridge regression of units on [price, is_weekend, promo]
// with an unpenalized intercept. Features and target are centered so the
// penalty applies only to the slope coefficients, matching the usual
// formulation.
func fitRidge(rows []featureRow, y []float64, alpha float64) (*pricing.ElasticityModel, error) {
	n := len(rows)
	if n == 0 || n != len(y) {
		return nil, fmt.Errorf("ridge fit: %d rows vs %d targets", n, len(y))
	}

	var xMean featureRow
	var yMean float64
	for i := range rows {
		for j := range 3 {
			xMean[j] += rows[i][j]
		}
		yMean += y[i]
	}
	for j := range 3 {
		xMean[j] /= float64(n)
	}
	yMean /= float64(n)

	// Normal equations on centered data, ridge penalty on the diagonal.
	var a [3][3]float64
	var b [3]float64
	for i := range rows {
		var c featureRow
		for j := range 3 {
			c[j] = rows[i][j] - xMean[j]
		}
		yc := y[i] - yMean
		for j := range 3 {
			for k := range 3 {
				a[j][k] += c[j] * c[k]
			}
			b[j] += c[j] * yc
		}
	}
	for j := range 3 {
		a[j][j] += alpha
	}

	w, err := solve3(a, b)
	if err != nil {
		return nil, err
	}

	intercept := yMean - w[0]*xMean[0] - w[1]*xMean[1] - w[2]*xMean[2]

	return &pricing.ElasticityModel{
		Intercept:   intercept,
		PriceCoef:   w[0],
		WeekendCoef: w[1],
		PromoCoef:   w[2],
		Alpha:       alpha,
	}, nil
}

// rSquared is the coefficient of determination of predictions against
// observed units. A constant target yields 0.
func rSquared(m *pricing.ElasticityModel, rows []featureRow, y []float64) float64 {
	if len(rows) == 0 {
		return 0
	}

	var yMean float64
	for _, v := range y {
		yMean += v
	}
	yMean /= float64(len(y))

	var ssRes, ssTot float64
	for i := range rows {
		pred := m.Intercept + m.PriceCoef*rows[i][0] + m.WeekendCoef*rows[i][1] + m.PromoCoef*rows[i][2]
		ssRes += (y[i] - pred) * (y[i] - pred)
		ssTot += (y[i] - yMean) * (y[i] - yMean)
	}

	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

// solve3 solves a 3x3 symmetric positive system by Gaussian elimination
// with partial pivoting. The ridge diagonal keeps it well conditioned.
func solve3(a [3][3]float64, b [3]float64) ([3]float64, error) {
	const eps = 1e-12
	n := 3

	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < eps {
			return [3]float64{}, fmt.Errorf("ridge fit: singular system at column %d", col)
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

	var x [3]float64
	for i := n - 1; i >= 0; i-- {
		sum := b[i]
		for j := i + 1; j < n; j++ {
			sum -= a[i][j] * x[j]
		}
		x[i] = sum / a[i][i]
	}
	return x, nil
}

func toFeatures(sales []domain.SalesRecord) ([]featureRow, []float64) {
	rows := make([]featureRow, len(sales))
	y := make([]float64, len(sales))
	for i := range sales {
		rows[i] = featureRow{sales[i].PriceAtSale, boolToF(sales[i].IsWeekend), boolToF(sales[i].Promo)}
		y[i] = float64(sales[i].UnitsSold)
	}
	return rows, y
}

func boolToF(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
