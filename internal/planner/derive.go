// internal/planner/derive.go
package planner

import (
	"fmt"
	"math"

	"mcp-menu-planner/internal/exchange"
	"mcp-menu-planner/internal/models"
)

// FixedPortions are the categories the planner sets by hand before the
// dynamic categories are derived.
type FixedPortions struct {
	Vegetable float64 `json:"vegetable"`
	Fruit     float64 `json:"fruit"`
	DairyFull float64 `json:"dairy_full"`
	DairyLow  float64 `json:"dairy_low"`
	DairySkim float64 `json:"dairy_skim"`
}

// Contribution returns the exchange-standard nutrients of the fixed portions.
func (f FixedPortions) Contribution() exchange.Value {
	return exchange.VegetableExchange.Scale(f.Vegetable).
		Add(exchange.FruitExchange.Scale(f.Fruit)).
		Add(exchange.Standard(exchange.Dairy, exchange.DairyFull).Scale(f.DairyFull)).
		Add(exchange.Standard(exchange.Dairy, exchange.DairyLow).Scale(f.DairyLow)).
		Add(exchange.Standard(exchange.Dairy, exchange.DairySkim).Scale(f.DairySkim))
}

// DerivedPortions are the recommended staple, meat and fat portions.
type DerivedPortions struct {
	Staple float64 `json:"staple"`
	Meat   float64 `json:"meat"`
	Fat    float64 `json:"fat"`
}

// Formulas explain each derivation step.
type Formulas struct {
	Staple string `json:"staple"`
	Meat   string `json:"meat"`
	Fat    string `json:"fat"`
}

type Derivation struct {
	DerivedPortions
	Target    Grams          `json:"target"`
	Fixed     exchange.Value `json:"fixed"`
	Remaining Grams          `json:"remaining"`
	Formulas  Formulas       `json:"formulas"`
}

// DeriveDynamicPortions works backward from the calorie and macro target to
// staple, meat and fat portions.
//
// The steps run in order and each consumes the previous step's rounded
// result: staple covers the carbs left after the fixed categories, meat
// (at the medium-fat standard) covers the protein left after staple, fat
// covers the fat left after meat. Every result is clamped at zero and
// rounded to the nearest half portion.
func DeriveDynamicPortions(targetCalories float64, ratio models.MacroRatio, fixed FixedPortions) Derivation {
	target := TargetGrams(targetCalories, ratio)
	contrib := fixed.Contribution()

	remaining := Grams{
		Carbs:   math.Max(0, target.Carbs-contrib.Carbs),
		Protein: math.Max(0, target.Protein-contrib.Protein),
		Fat:     math.Max(0, target.Fat-contrib.Fat),
	}

	staple := exchange.StapleExchange
	meat := exchange.Standard(exchange.Meat, exchange.MeatMedium)
	fat := exchange.FatExchange

	stapleRaw := remaining.Carbs / staple.Carbs
	staplePortions := roundHalf(stapleRaw)

	proteinLeft := math.Max(0, remaining.Protein-staplePortions*staple.Protein)
	meatRaw := proteinLeft / meat.Protein
	meatPortions := roundHalf(meatRaw)

	fatLeft := math.Max(0, remaining.Fat-meatPortions*meat.Fat)
	fatRaw := fatLeft / fat.Fat
	fatPortions := roundHalf(fatRaw)

	return Derivation{
		DerivedPortions: DerivedPortions{
			Staple: staplePortions,
			Meat:   meatPortions,
			Fat:    fatPortions,
		},
		Target:    target,
		Fixed:     contrib,
		Remaining: remaining,
		Formulas: Formulas{
			Staple: fmt.Sprintf("carbs (%.1f - %.1f) / %g = %.2f -> %.1f",
				target.Carbs, contrib.Carbs, staple.Carbs, stapleRaw, staplePortions),
			Meat: fmt.Sprintf("protein (%.1f - %.1f - %.1f x %g) / %g = %.2f -> %.1f",
				target.Protein, contrib.Protein, staplePortions, staple.Protein, meat.Protein, meatRaw, meatPortions),
			Fat: fmt.Sprintf("fat (%.1f - %.1f - %.1f x %g) / %g = %.2f -> %.1f",
				target.Fat, contrib.Fat, meatPortions, meat.Fat, fat.Fat, fatRaw, fatPortions),
		},
	}
}

// roundHalf rounds to the nearest half portion. Inputs are never negative.
func roundHalf(x float64) float64 {
	return math.Round(x*2) / 2
}

// FixedFromTargets reads the fixed categories out of a plan's target
// portions. Without a fat-level split all dairy counts as the default level.
func FixedFromTargets(t models.TargetPortions) FixedPortions {
	fixed := FixedPortions{
		Vegetable: t.Portions[exchange.Vegetable],
		Fruit:     t.Portions[exchange.Fruit],
	}
	if t.Detail != nil && t.Detail.Dairy() > 0 {
		fixed.DairyFull = t.Detail.DairyFull
		fixed.DairyLow = t.Detail.DairyLow
		fixed.DairySkim = t.Detail.DairySkim
		return fixed
	}
	fixed.DairyLow = t.Portions[exchange.Dairy]
	return fixed
}
