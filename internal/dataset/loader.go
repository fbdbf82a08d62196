// Package dataset loads the four CSV input tables into typed records,
// validating required columns up front so a malformed table fails the
// whole run before any product is processed.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	domain "github.com/donaldgifford/pricing-engine/pkg/types"
)

// Input file names expected under the data directory.
const (
	ProductsFile    = "products.csv"
	SalesFile       = "sales_history.csv"
	InventoryFile   = "inventory.csv"
	CompetitorsFile = "competitors.csv"
)

const dateLayout = "2006-01-02"

// MissingColumnsError reports required columns absent from an input table.
type MissingColumnsError struct {
	Table   string
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s is missing columns: [%s]", e.Table, strings.Join(e.Columns, ", "))
}

// Load reads all four input tables from dir.
func Load(dir string) (*domain.Dataset, error) {
	products, err := LoadProducts(filepath.Join(dir, ProductsFile))
	if err != nil {
		return nil, err
	}
	sales, err := LoadSales(filepath.Join(dir, SalesFile))
	if err != nil {
		return nil, err
	}
	inventory, err := LoadInventory(filepath.Join(dir, InventoryFile))
	if err != nil {
		return nil, err
	}
	competitors, err := LoadCompetitors(filepath.Join(dir, CompetitorsFile))
	if err != nil {
		return nil, err
	}

	return &domain.Dataset{
		Products:    products,
		Sales:       sales,
		Inventory:   inventory,
		Competitors: competitors,
	}, nil
}

// table is a parsed CSV with header-indexed column access.
type table struct {
	name string
	cols map[string]int
	rows [][]string
}

func readTable(path, name string, required []string) (*table, error) {
	f, err := os.Open(path) //nolint:gosec // data path from trusted config
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, &MissingColumnsError{Table: name, Columns: required}
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s header: %w", name, err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}

	var missing []string
	for _, c := range required {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Table: name, Columns: missing}
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s rows: %w", name, err)
	}

	return &table{name: name, cols: cols, rows: rows}, nil
}

func (t *table) str(row []string, col string) string {
	idx, ok := t.cols[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func (t *table) float(row []string, col string) (float64, error) {
	v, err := strconv.ParseFloat(t.str(row, col), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: bad %s value %q", t.name, col, t.str(row, col))
	}
	return v, nil
}

func (t *table) int(row []string, col string) (int, error) {
	v, err := strconv.Atoi(t.str(row, col))
	if err != nil {
		return 0, fmt.Errorf("%s: bad %s value %q", t.name, col, t.str(row, col))
	}
	return v, nil
}

func (t *table) date(row []string, col string) (time.Time, error) {
	raw := t.str(row, col)
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: bad %s value %q", t.name, col, raw)
	}
	return d, nil
}

// LoadProducts reads the products table. Name is optional.
func LoadProducts(path string) ([]domain.Product, error) {
	t, err := readTable(path, "products", []string{"product_id", "unit_cost", "current_price"})
	if err != nil {
		return nil, err
	}

	out := make([]domain.Product, 0, len(t.rows))
	for _, row := range t.rows {
		cost, err := t.float(row, "unit_cost")
		if err != nil {
			return nil, err
		}
		price, err := t.float(row, "current_price")
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Product{
			ID:           t.str(row, "product_id"),
			Name:         t.str(row, "name"),
			Category:     t.str(row, "category"),
			UnitCost:     cost,
			CurrentPrice: price,
		})
	}
	return out, nil
}

// LoadSales reads the sales history table, deriving is_weekend from the
// sale date.
func LoadSales(path string) ([]domain.SalesRecord, error) {
	t, err := readTable(path, "sales_history", []string{
		"date", "product_id", "units_sold", "price_at_sale", "promo_flag",
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.SalesRecord, 0, len(t.rows))
	for _, row := range t.rows {
		date, err := t.date(row, "date")
		if err != nil {
			return nil, err
		}
		units, err := t.int(row, "units_sold")
		if err != nil {
			return nil, err
		}
		price, err := t.float(row, "price_at_sale")
		if err != nil {
			return nil, err
		}
		promo, err := t.int(row, "promo_flag")
		if err != nil {
			return nil, err
		}
		out = append(out, domain.SalesRecord{
			Date:        date,
			ProductID:   t.str(row, "product_id"),
			UnitsSold:   units,
			PriceAtSale: price,
			Promo:       promo != 0,
			IsWeekend:   domain.Weekend(date),
		})
	}
	return out, nil
}

// LoadInventory reads the inventory table.
func LoadInventory(path string) ([]domain.InventoryRecord, error) {
	t, err := readTable(path, "inventory", []string{"product_id", "on_hand", "reorder_point"})
	if err != nil {
		return nil, err
	}

	out := make([]domain.InventoryRecord, 0, len(t.rows))
	for _, row := range t.rows {
		onHand, err := t.int(row, "on_hand")
		if err != nil {
			return nil, err
		}
		reorder, err := t.int(row, "reorder_point")
		if err != nil {
			return nil, err
		}
		out = append(out, domain.InventoryRecord{
			ProductID:    t.str(row, "product_id"),
			OnHand:       onHand,
			ReorderPoint: reorder,
		})
	}
	return out, nil
}

// LoadCompetitors reads the competitor quotes table. Competitor label and
// sku are optional.
func LoadCompetitors(path string) ([]domain.CompetitorQuote, error) {
	t, err := readTable(path, "competitors", []string{"date", "product_id", "competitor_price"})
	if err != nil {
		return nil, err
	}

	out := make([]domain.CompetitorQuote, 0, len(t.rows))
	for _, row := range t.rows {
		date, err := t.date(row, "date")
		if err != nil {
			return nil, err
		}
		price, err := t.float(row, "competitor_price")
		if err != nil {
			return nil, err
		}
		out = append(out, domain.CompetitorQuote{
			Date:       date,
			ProductID:  t.str(row, "product_id"),
			Competitor: t.str(row, "competitor"),
			SKU:        t.str(row, "sku"),
			Price:      price,
		})
	}
	return out, nil
}

// WriteRecommendationsCSV writes recommendation rows to path in the same
// column layout the original report consumers expect.
func WriteRecommendationsCSV(path string, recs []domain.Recommendation) error {
	f, err := os.Create(path) //nolint:gosec // output path from trusted config
	if err != nil {
		return fmt.Errorf("creating recommendations csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"product_id", "current_price", "recommended_price", "unit_cost",
		"competitor_median_price", "inventory_on_hand", "reorder_point",
		"expected_profit_delta", "notes", "name",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for i := range recs {
		compMedian := ""
		if recs[i].CompetitorMedian != nil {
			compMedian = strconv.FormatFloat(*recs[i].CompetitorMedian, 'f', 2, 64)
		}
		row := []string{
			recs[i].ProductID,
			strconv.FormatFloat(recs[i].CurrentPrice, 'f', 2, 64),
			strconv.FormatFloat(recs[i].RecommendedPrice, 'f', 2, 64),
			strconv.FormatFloat(recs[i].UnitCost, 'f', 2, 64),
			compMedian,
			strconv.Itoa(recs[i].OnHand),
			strconv.Itoa(recs[i].ReorderPoint),
			strconv.FormatFloat(recs[i].ExpectedProfitDelta, 'f', 2, 64),
			recs[i].Notes,
			recs[i].Name,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing recommendations csv: %w", err)
	}
	return nil
}
