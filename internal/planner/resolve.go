// internal/planner/resolve.go
package planner

import "mcp-menu-planner/internal/models"

// ResolveMealEntries returns the entries that count toward a meal's totals.
// A choice meal resolves to the active option, falling back to the first
// option when activeOptionID matches none. A choice meal without options
// resolves to nothing.
func ResolveMealEntries(meal models.Meal, activeOptionID string) []models.MenuEntry {
	switch m := meal.(type) {
	case *models.SingleMeal:
		if m == nil {
			return nil
		}
		return m.Entries
	case *models.ChoiceMeal:
		if m == nil || len(m.Options) == 0 {
			return nil
		}
		if activeOptionID != "" {
			if opt, ok := m.Option(activeOptionID); ok {
				return opt.Entries
			}
		}
		return m.Options[0].Entries
	}
	return nil
}

// OptionStats prices one alternative of a choice meal.
type OptionStats struct {
	OptionID string `json:"option_id"`
	Label    string `json:"label"`
	Stats    Stats  `json:"stats"`
}

// PriceOptions aggregates every alternative of a choice meal independently.
// Single meals have no alternatives and yield nil.
func PriceOptions(meal models.Meal, lookup FoodLookup) []OptionStats {
	choice, ok := meal.(*models.ChoiceMeal)
	if !ok || choice == nil {
		return nil
	}
	out := make([]OptionStats, 0, len(choice.Options))
	for _, opt := range choice.Options {
		out = append(out, OptionStats{
			OptionID: opt.ID,
			Label:    opt.Label,
			Stats:    Aggregate(opt.Entries, lookup),
		})
	}
	return out
}
