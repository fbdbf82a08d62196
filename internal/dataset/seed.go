package dataset

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Seeder generates realistic synthetic input CSVs for local development
// and demos: a small catalog, 60 days of price-sensitive sales with
// weekend lift and occasional promos, inventory positions, and competitor
// quotes from two shops.
type Seeder struct {
	rng *rand.Rand
}

// NewSeeder creates a Seeder. The same seed always produces the same files.
func NewSeeder(seed int64) *Seeder {
	return &Seeder{rng: rand.New(rand.NewSource(seed))}
}

const (
	seedProducts  = 20
	seedSalesDays = 60
)

var seedNames = []string{
	"Espresso Shot", "Cappuccino", "Latte", "Mocha", "Cold Brew",
	"Blueberry Muffin", "Chocolate Croissant", "Banana Bread", "Bagel w/ Cream Cheese", "Cheesecake Slice",
	"Protein Bar", "Trail Mix", "Kettle Chips", "Chocolate Bar", "Granola Cup",
	"Spring Water 500ml", "Sparkling Water 330ml", "Orange Juice", "Iced Tea",
	"Reusable Cup",
}

var seedCategories = []string{"Coffee", "Bakery", "Snacks", "Beverages", "Merch"}

// Realistic retail price band per category.
var seedPriceBands = map[string][2]float64{
	"Coffee":    {2.50, 6.00},
	"Bakery":    {2.00, 5.00},
	"Snacks":    {1.00, 3.00},
	"Beverages": {1.00, 4.00},
	"Merch":     {8.00, 20.00},
}

// Baseline daily demand per category.
var seedBaseDemand = map[string]float64{
	"Coffee":    28,
	"Bakery":    20,
	"Snacks":    15,
	"Beverages": 18,
	"Merch":     6,
}

type seedProduct struct {
	id       string
	name     string
	category string
	sku      string
	cost     float64
	price    float64
}

// Generate writes the four input CSVs into dir.
func (s *Seeder) Generate(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	products := s.buildProducts()

	if err := s.writeProducts(dir, products); err != nil {
		return err
	}

	start := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -seedSalesDays)
	dates := make([]time.Time, seedSalesDays)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}

	if err := s.writeSales(dir, products, dates); err != nil {
		return err
	}
	if err := s.writeInventory(dir, products); err != nil {
		return err
	}
	return s.writeCompetitors(dir, products, dates)
}

func (s *Seeder) buildProducts() []seedProduct {
	products := make([]seedProduct, seedProducts)
	for i := range products {
		cat := seedCategories[s.rng.Intn(len(seedCategories))]
		band := seedPriceBands[cat]
		price := round2(band[0] + s.rng.Float64()*(band[1]-band[0]))
		cost := round2(price * (0.35 + s.rng.Float64()*0.30))
		if cost >= price {
			cost = round2(price * 0.6)
		}
		products[i] = seedProduct{
			id:       fmt.Sprintf("P%d", 1000+i),
			name:     seedNames[i%len(seedNames)],
			category: cat,
			sku:      fmt.Sprintf("SKU-%04d", i),
			cost:     cost,
			price:    price,
		}
	}
	return products
}

func (s *Seeder) writeProducts(dir string, products []seedProduct) error {
	rows := [][]string{{"product_id", "name", "category", "unit_cost", "current_price", "sku"}}
	for _, p := range products {
		rows = append(rows, []string{
			p.id, p.name, p.category, ftoa(p.cost), ftoa(p.price), p.sku,
		})
	}
	return writeCSV(filepath.Join(dir, ProductsFile), rows)
}

func (s *Seeder) writeSales(dir string, products []seedProduct, dates []time.Time) error {
	rows := [][]string{{"date", "product_id", "units_sold", "price_at_sale", "promo_flag"}}

	for _, p := range products {
		popularity := 0.7 + s.rng.Float64()*0.6
		elasticity := 0.8 + s.rng.Float64()*0.8

		for _, d := range dates {
			seasonal := 1.0
			if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
				seasonal = 1.25
			}
			seasonal *= 0.9 + s.rng.Float64()*0.2

			promo := s.rng.Float64() < 0.06
			priceToday := p.price
			if promo {
				discounted := p.price * (0.85 + s.rng.Float64()*0.10)
				priceToday = round2(math.Max(p.cost*1.05, discounted))
			}

			marginFactor := clampF(priceToday/math.Max(p.cost, 0.01), 0.5, 2.5)
			demand := seedBaseDemand[p.category] * popularity * seasonal * (elasticity / marginFactor)
			if promo {
				demand *= 1.15
			}

			units := s.poisson(math.Max(0.2, demand))
			rows = append(rows, []string{
				d.Format(dateLayout), p.id, strconv.Itoa(units), ftoa(priceToday), boolFlag(promo),
			})
		}
	}
	return writeCSV(filepath.Join(dir, SalesFile), rows)
}

func (s *Seeder) writeInventory(dir string, products []seedProduct) error {
	rows := [][]string{{"product_id", "on_hand", "reorder_point", "lead_time_days"}}
	for _, p := range products {
		rows = append(rows, []string{
			p.id,
			strconv.Itoa(10 + s.rng.Intn(190)),
			strconv.Itoa(10 + s.rng.Intn(50)),
			strconv.Itoa(2 + s.rng.Intn(8)),
		})
	}
	return writeCSV(filepath.Join(dir, InventoryFile), rows)
}

func (s *Seeder) writeCompetitors(dir string, products []seedProduct, dates []time.Time) error {
	rows := [][]string{{"date", "product_id", "sku", "competitor", "competitor_price"}}
	shops := []string{"ShopAlpha", "ShopBeta"}

	for _, p := range products {
		for i := 0; i < len(dates); i += 3 {
			for _, shop := range shops {
				spread := math.Max(0.05, p.price*0.08)
				cp := round2(math.Max(0.5, p.price+s.rng.NormFloat64()*spread))
				if s.rng.Float64() < 0.1 {
					// Occasional aggressive undercut.
					cp = round2(p.price * (0.80 + s.rng.Float64()*0.12))
				}
				rows = append(rows, []string{
					dates[i].Format(dateLayout), p.id, p.sku, shop, ftoa(cp),
				})
			}
		}
	}
	return writeCSV(filepath.Join(dir, CompetitorsFile), rows)
}

// poisson draws from a Poisson distribution (Knuth's method; fine for the
// small means used here).
func (s *Seeder) poisson(mean float64) int {
	l := math.Exp(-mean)
	k := 0
	p := 1.0
	for {
		p *= s.rng.Float64()
		if p <= l {
			return k
		}
		k++
	}
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path) //nolint:gosec // seed path from trusted config
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func clampF(x, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, x))
}

func ftoa(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
