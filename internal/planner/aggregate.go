// internal/planner/aggregate.go
package planner

import (
	"mcp-menu-planner/internal/exchange"
	"mcp-menu-planner/internal/models"
)

// FoodLookup resolves catalog foods by ID.
type FoodLookup interface {
	Food(id string) (models.FoodItem, bool)
}

// LookupFunc adapts a function to FoodLookup.
type LookupFunc func(id string) (models.FoodItem, bool)

func (f LookupFunc) Food(id string) (models.FoodItem, bool) { return f(id) }

// Stats is the aggregate of a set of entries.
type Stats struct {
	Totals   models.NutritionTotals  `json:"totals"`
	Portions models.Portions         `json:"portions"`
	Detailed models.DetailedPortions `json:"detailed_portions"`
}

// NewStats returns the zero aggregate with every category present.
func NewStats() Stats {
	return Stats{Portions: models.NewPortions()}
}

// Add sums two aggregates component-wise.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Totals:   s.Totals.Add(o.Totals),
		Portions: s.Portions.Add(o.Portions),
		Detailed: s.Detailed.Add(o.Detailed),
	}
}

// Aggregate folds entries into nutrition totals and portion counts.
//
// Custom entries contribute their inline nutrition times amount and count
// toward the other category. Catalog entries whose food cannot be resolved
// contribute nothing. Cooking modifiers change only calories and fat.
func Aggregate(entries []models.MenuEntry, lookup FoodLookup) Stats {
	s := NewStats()
	for _, e := range entries {
		if e.IsCustom() {
			n := e.Custom
			s.Totals = s.Totals.Add(models.NutritionTotals{
				Calories: n.Calories * e.Amount,
				Protein:  n.Protein * e.Amount,
				Carbs:    n.Carbs * e.Amount,
				Fat:      n.Fat * e.Amount,
			})
			s.Portions[exchange.Other] += e.PortionQuantity()
			continue
		}

		if lookup == nil {
			continue
		}
		food, ok := lookup.Food(e.FoodID)
		if !ok {
			continue
		}

		mod := exchange.ModifierFor(e.CookingMethod)
		s.Totals = s.Totals.Add(models.NutritionTotals{
			Calories: (food.CaloriesPerPortion + mod.Calories) * e.Amount,
			Protein:  food.ProteinPerPortion * e.Amount,
			Carbs:    food.CarbsPerPortion * e.Amount,
			Fat:      (food.FatPerPortion + mod.Fat) * e.Amount,
		})

		category := food.Category
		if !category.Valid() {
			category = exchange.Other
		}
		qty := e.PortionQuantity()
		s.Portions[category] += qty
		if bucket := s.Detailed.Bucket(category, food.FatLevel); bucket != nil {
			*bucket += qty
		}
	}
	return s
}
