// internal/planner/day.go
package planner

import "mcp-menu-planner/internal/models"

// ActiveChoice names the option the planner is currently looking at. It is
// tracked by the caller, never stored on the plan.
type ActiveChoice struct {
	Day      int             `json:"day"`
	Meal     models.MealType `json:"meal"`
	OptionID string          `json:"option_id"`
}

// AggregateDay sums the resolved entries of every meal slot of a day. Only
// Meal and OptionID of active are consulted.
func AggregateDay(day models.DailyItems, lookup FoodLookup, active *ActiveChoice) Stats {
	total := NewStats()
	for _, mt := range models.MealTypes {
		optionID := ""
		if active != nil && active.Meal == mt {
			optionID = active.OptionID
		}
		entries := ResolveMealEntries(day.Meal(mt), optionID)
		total = total.Add(Aggregate(entries, lookup))
	}
	return total
}

// AggregatePlan returns one independent aggregate per day. The active choice
// applies only to the day it names.
func AggregatePlan(plan *models.MenuPlan, lookup FoodLookup, active *ActiveChoice) []Stats {
	if plan == nil {
		return nil
	}
	out := make([]Stats, len(plan.Days))
	for i, day := range plan.Days {
		var dayActive *ActiveChoice
		if active != nil && active.Day == i {
			dayActive = active
		}
		out[i] = AggregateDay(day, lookup, dayActive)
	}
	return out
}
