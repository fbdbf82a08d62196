// Package domain defines the core business types for the pricing engine.
package domain

import (
	"time"
)

// Product is a priced catalog item.
type Product struct {
	ID           string  `json:"product_id"     db:"product_id"`
	Name         string  `json:"name,omitempty" db:"name"`
	Category     string  `json:"category,omitempty"`
	UnitCost     float64 `json:"unit_cost"      db:"unit_cost"`
	CurrentPrice float64 `json:"current_price"  db:"current_price"`
}

// SalesRecord is one day of observed sales for a product.
// IsWeekend is derived from Date, not read from the input.
type SalesRecord struct {
	Date        time.Time `json:"date"`
	ProductID   string    `json:"product_id"`
	UnitsSold   int       `json:"units_sold"`
	PriceAtSale float64   `json:"price_at_sale"`
	Promo       bool      `json:"promo_flag"`
	IsWeekend   bool      `json:"is_weekend"`
}

// Weekend reports whether t falls on a Saturday or Sunday.
func Weekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// InventoryRecord is the current stock position for a product.
type InventoryRecord struct {
	ProductID    string `json:"product_id"    db:"product_id"`
	OnHand       int    `json:"on_hand"       db:"on_hand"`
	ReorderPoint int    `json:"reorder_point" db:"reorder_point"`
}

// CompetitorQuote is an observed competitor price for a product on a date.
type CompetitorQuote struct {
	Date       time.Time `json:"date"`
	ProductID  string    `json:"product_id"`
	Competitor string    `json:"competitor,omitempty"`
	SKU        string    `json:"sku,omitempty"`
	Price      float64   `json:"competitor_price"`
}

// Dataset bundles the four input tables for one recommendation pass.
// Tables are immutable snapshots; the engine never mutates them.
type Dataset struct {
	Products    []Product
	Sales       []SalesRecord
	Inventory   []InventoryRecord
	Competitors []CompetitorQuote
}

// SalesFor returns the sales rows belonging to one product, in input order.
func (d *Dataset) SalesFor(productID string) []SalesRecord {
	var out []SalesRecord
	for i := range d.Sales {
		if d.Sales[i].ProductID == productID {
			out = append(out, d.Sales[i])
		}
	}
	return out
}

// ReferenceDate returns the maximum sale date across the whole sales table,
// used as "now" for windowed competitor lookups. Zero time when there are
// no sales rows.
func (d *Dataset) ReferenceDate() time.Time {
	var ref time.Time
	for i := range d.Sales {
		if d.Sales[i].Date.After(ref) {
			ref = d.Sales[i].Date
		}
	}
	return ref
}

// Recommendation is one output row of a recommendation pass.
type Recommendation struct {
	ProductID           string   `json:"product_id"                        db:"product_id"`
	Name                string   `json:"name,omitempty"                    db:"name"`
	CurrentPrice        float64  `json:"current_price"                     db:"current_price"`
	RecommendedPrice    float64  `json:"recommended_price"                 db:"recommended_price"`
	UnitCost            float64  `json:"unit_cost"                         db:"unit_cost"`
	CompetitorMedian    *float64 `json:"competitor_median_price,omitempty" db:"competitor_median_price"`
	OnHand              int      `json:"inventory_on_hand"                 db:"inventory_on_hand"`
	ReorderPoint        int      `json:"reorder_point"                     db:"reorder_point"`
	ExpectedProfitDelta float64  `json:"expected_profit_delta"             db:"expected_profit_delta"`
	Notes               string   `json:"notes"                             db:"notes"`
}

// PriceMovePct returns the relative size of the recommended move against the
// current price, guarded against a zero current price.
func (r *Recommendation) PriceMovePct() float64 {
	base := r.CurrentPrice
	if base < 1e-6 {
		base = 1e-6
	}
	move := r.RecommendedPrice - r.CurrentPrice
	if move < 0 {
		move = -move
	}
	return move / base
}

// TrainingScore is the validation result for one trained product model.
type TrainingScore struct {
	ProductID string  `json:"product_id"`
	R2        float64 `json:"r2"`
	Samples   int     `json:"samples"`
}

// RunSummary describes one persisted recommendation run.
type RunSummary struct {
	ID          string    `json:"id"           db:"id"`
	StartedAt   time.Time `json:"started_at"   db:"started_at"`
	FinishedAt  time.Time `json:"finished_at"  db:"finished_at"`
	Products    int       `json:"products"     db:"products"`
	AlertsFired int       `json:"alerts_fired" db:"alerts_fired"`
}

// AlertRecord captures one alert delivery attempt for a recommendation row.
type AlertRecord struct {
	ID        string    `json:"id"         db:"id"`
	RunID     string    `json:"run_id"     db:"run_id"`
	ProductID string    `json:"product_id" db:"product_id"`
	Reason    string    `json:"reason"     db:"reason"`
	Succeeded bool      `json:"succeeded"  db:"succeeded"`
	ErrorText string    `json:"error_text" db:"error_text"`
	SentAt    time.Time `json:"sent_at"    db:"sent_at"`
}
