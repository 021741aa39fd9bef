// internal/catalog/csv.go
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"mcp-menu-planner/internal/exchange"
	"mcp-menu-planner/internal/models"
)

// Columns is the canonical CSV header. Only name and category are required;
// columns may appear in any order.
var Columns = []string{
	"id", "name", "category", "fat_level", "portion_size", "portion_unit",
	"calories", "protein", "carbs", "fat",
}

//go:embed seed.csv
var seedCSV []byte

// Seed returns the starter food database.
func Seed() ([]models.FoodItem, error) {
	return ParseFoodsCSV(bytes.NewReader(seedCSV))
}

// ParseFoodsFile reads foods from a CSV file.
func ParseFoodsFile(path string) ([]models.FoodItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening foods file: %w", err)
	}
	defer f.Close()
	return ParseFoodsCSV(f)
}

// ParseFoodsCSV reads foods from CSV. Rows without an id get a generated
// one. Empty portion and nutrient cells are filled from the exchange
// standard of the row's category and fat level.
func ParseFoodsCSV(r io.Reader) ([]models.FoodItem, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		col[h] = i
	}
	for _, required := range []string{"name", "category"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("invalid header: missing %q column, got %v", required, header)
		}
	}

	var foods []models.FoodItem
	for row := 2; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading record: %w", err)
		}

		f, err := parseFood(record, col)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		foods = append(foods, f)
	}
	return foods, nil
}

func parseFood(record []string, col map[string]int) (models.FoodItem, error) {
	cell := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	name := cell("name")
	if name == "" {
		return models.FoodItem{}, fmt.Errorf("name is required")
	}
	category := exchange.Category(strings.ToLower(cell("category")))
	if !category.Valid() {
		return models.FoodItem{}, fmt.Errorf("invalid category %q", cell("category"))
	}
	level := exchange.FatLevel(strings.ToLower(cell("fat_level")))
	if level != "" && !level.ValidFor(category) {
		return models.FoodItem{}, fmt.Errorf("fat level %q is not valid for %s", level, category)
	}

	id := cell("id")
	if id == "" {
		id = uuid.NewString()
	}
	f := models.NewFoodFromStandard(id, name, category, level)

	if unit := cell("portion_unit"); unit != "" {
		f.PortionUnit = unit
	}
	numbers := []struct {
		column string
		dst    *float64
	}{
		{"portion_size", &f.PortionSize},
		{"calories", &f.CaloriesPerPortion},
		{"protein", &f.ProteinPerPortion},
		{"carbs", &f.CarbsPerPortion},
		{"fat", &f.FatPerPortion},
	}
	for _, n := range numbers {
		raw := cell(n.column)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return models.FoodItem{}, fmt.Errorf("parsing %s %q: %w", n.column, raw, err)
		}
		if v < 0 {
			return models.FoodItem{}, fmt.Errorf("%s must not be negative, got %g", n.column, v)
		}
		*n.dst = v
	}
	return f, nil
}

// WriteFoodsCSV writes foods with the canonical header.
func WriteFoodsCSV(w io.Writer, foods []models.FoodItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	num := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	for _, f := range foods {
		record := []string{
			f.ID, f.Name, string(f.Category), string(f.FatLevel),
			num(f.PortionSize), f.PortionUnit,
			num(f.CaloriesPerPortion), num(f.ProteinPerPortion), num(f.CarbsPerPortion), num(f.FatPerPortion),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing food %s: %w", f.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
