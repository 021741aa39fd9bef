// internal/planner/targets.go
package planner

import "mcp-menu-planner/internal/models"

// Atwater factors, kcal per gram.
const (
	KcalPerGramProtein = 4
	KcalPerGramCarbs   = 4
	KcalPerGramFat     = 9
)

// Grams is a macro target in grams.
type Grams struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

// TargetGrams converts target calories and a percentage split into grams.
// Values are not rounded.
func TargetGrams(targetCalories float64, ratio models.MacroRatio) Grams {
	return Grams{
		Protein: targetCalories * ratio.Protein / 100 / KcalPerGramProtein,
		Carbs:   targetCalories * ratio.Carbs / 100 / KcalPerGramCarbs,
		Fat:     targetCalories * ratio.Fat / 100 / KcalPerGramFat,
	}
}
