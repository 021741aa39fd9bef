// internal/planner/validate.go
package planner

import (
	"fmt"
	"math"

	"mcp-menu-planner/internal/exchange"
	"mcp-menu-planner/internal/models"
)

const (
	// CalorieDeviationLimit is the fraction of target calories the portion
	// plan may miss by before it is flagged.
	CalorieDeviationLimit = 0.10
	// MacroDeviationLimit is the gram difference per macro before it is
	// flagged.
	MacroDeviationLimit = 10.0
)

// Report carries non-fatal validation signals for a plan.
type Report struct {
	RatioSum         float64        `json:"ratio_sum"`
	RatioOK          bool           `json:"ratio_ok"`
	Target           Grams          `json:"target"`
	PortionTotals    exchange.Value `json:"portion_totals"`
	CalorieDeviation float64        `json:"calorie_deviation"`
	CaloriesHigh     bool           `json:"calories_flagged"`
	ProteinFlagged   bool           `json:"protein_flagged"`
	CarbsFlagged     bool           `json:"carbs_flagged"`
	FatFlagged       bool           `json:"fat_flagged"`
	Warnings         []string       `json:"warnings,omitempty"`
}

// Valid reports whether no signal was raised.
func (r Report) Valid() bool {
	return len(r.Warnings) == 0
}

// PortionNutrition converts target portions into exchange-standard
// nutrients. Meat and dairy use the fat-level split where given; any part of
// the category total not covered by the split counts at the default level.
func PortionNutrition(t models.TargetPortions) exchange.Value {
	var total exchange.Value
	for c, n := range t.Portions {
		switch c {
		case exchange.Meat, exchange.Dairy:
			continue
		}
		total = total.Add(exchange.Standard(c, "").Scale(n))
	}

	var detail models.DetailedPortions
	if t.Detail != nil {
		detail = *t.Detail
	}

	total = total.
		Add(exchange.Standard(exchange.Meat, exchange.MeatLow).Scale(detail.MeatLow)).
		Add(exchange.Standard(exchange.Meat, exchange.MeatMedium).Scale(detail.MeatMedium)).
		Add(exchange.Standard(exchange.Meat, exchange.MeatHigh).Scale(detail.MeatHigh)).
		Add(exchange.Standard(exchange.Meat, "").Scale(math.Max(0, t.Portions[exchange.Meat]-detail.Meat())))

	total = total.
		Add(exchange.Standard(exchange.Dairy, exchange.DairyFull).Scale(detail.DairyFull)).
		Add(exchange.Standard(exchange.Dairy, exchange.DairyLow).Scale(detail.DairyLow)).
		Add(exchange.Standard(exchange.Dairy, exchange.DairySkim).Scale(detail.DairySkim)).
		Add(exchange.Standard(exchange.Dairy, "").Scale(math.Max(0, t.Portions[exchange.Dairy]-detail.Dairy())))

	return total
}

// Validate checks the plan configuration. It never refuses to compute; every
// problem is returned as a warning for the planner to correct.
func Validate(plan *models.MenuPlan) Report {
	r := Report{
		RatioSum:      plan.MacroRatio.Sum(),
		Target:        TargetGrams(plan.TargetCalories, plan.MacroRatio),
		PortionTotals: PortionNutrition(plan.TargetPortions),
	}

	r.RatioOK = math.Abs(r.RatioSum-100) < 1e-9
	if !r.RatioOK {
		r.Warnings = append(r.Warnings, fmt.Sprintf("macro percentages sum to %g, not 100", r.RatioSum))
	}

	r.CalorieDeviation = r.PortionTotals.Calories - plan.TargetCalories
	if math.Abs(r.CalorieDeviation) > plan.TargetCalories*CalorieDeviationLimit {
		r.CaloriesHigh = true
		r.Warnings = append(r.Warnings, fmt.Sprintf("portion calories %.0f deviate from target %.0f by more than 10%%",
			r.PortionTotals.Calories, plan.TargetCalories))
	}

	if math.Abs(r.PortionTotals.Protein-r.Target.Protein) > MacroDeviationLimit {
		r.ProteinFlagged = true
		r.Warnings = append(r.Warnings, fmt.Sprintf("protein %.0fg vs target %.0fg", r.PortionTotals.Protein, r.Target.Protein))
	}
	if math.Abs(r.PortionTotals.Carbs-r.Target.Carbs) > MacroDeviationLimit {
		r.CarbsFlagged = true
		r.Warnings = append(r.Warnings, fmt.Sprintf("carbs %.0fg vs target %.0fg", r.PortionTotals.Carbs, r.Target.Carbs))
	}
	if math.Abs(r.PortionTotals.Fat-r.Target.Fat) > MacroDeviationLimit {
		r.FatFlagged = true
		r.Warnings = append(r.Warnings, fmt.Sprintf("fat %.0fg vs target %.0fg", r.PortionTotals.Fat, r.Target.Fat))
	}

	return r
}
