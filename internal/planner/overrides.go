// internal/planner/overrides.go
package planner

import (
	"errors"
	"fmt"
	"math"

	"mcp-menu-planner/internal/exchange"
	"mcp-menu-planner/internal/models"
)

var ErrNotDerived = errors.New("category is not derived")

// DerivedCategories are the categories computed backward from targets.
var DerivedCategories = []exchange.Category{exchange.Staple, exchange.Meat, exchange.Fat}

func overrideFor(o *models.Overrides, c exchange.Category) (*models.PortionOverride, error) {
	switch c {
	case exchange.Staple:
		return &o.Staple, nil
	case exchange.Meat:
		return &o.Meat, nil
	case exchange.Fat:
		return &o.Fat, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotDerived, c)
}

// ModeOf reports the state of a derived category. The zero state is auto.
func ModeOf(o models.Overrides, c exchange.Category) models.PortionMode {
	po, err := overrideFor(&o, c)
	if err != nil || po.Mode != models.ManualMode {
		return models.AutoMode
	}
	return models.ManualMode
}

// Override freezes a derived category at a manually entered value. Negative
// and non-finite values are stored as zero.
func Override(o *models.Overrides, c exchange.Category, value float64) error {
	po, err := overrideFor(o, c)
	if err != nil {
		return err
	}
	if value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0
	}
	po.Mode = models.ManualMode
	po.Value = value
	return nil
}

// ResetToAuto returns a derived category to automatic derivation.
func ResetToAuto(o *models.Overrides, c exchange.Category) error {
	po, err := overrideFor(o, c)
	if err != nil {
		return err
	}
	*po = models.PortionOverride{Mode: models.AutoMode}
	return nil
}

// ApplyDerivation derives the dynamic portions from the plan's fixed target
// portions and writes them into every category still in auto mode. Manual
// categories keep their value. The derivation itself always assumes the
// derived chain, so a manual meat value does not change the fat formula.
func ApplyDerivation(plan *models.MenuPlan) Derivation {
	if plan.TargetPortions.Portions == nil {
		plan.TargetPortions.Portions = models.NewPortions()
	}
	d := DeriveDynamicPortions(plan.TargetCalories, plan.MacroRatio, FixedFromTargets(plan.TargetPortions))

	derived := map[exchange.Category]float64{
		exchange.Staple: d.Staple,
		exchange.Meat:   d.Meat,
		exchange.Fat:    d.Fat,
	}
	for _, c := range DerivedCategories {
		po, _ := overrideFor(&plan.Overrides, c)
		if po.Mode == models.ManualMode {
			plan.TargetPortions.Portions[c] = po.Value
			continue
		}
		po.Mode = models.AutoMode
		plan.TargetPortions.Portions[c] = derived[c]
	}
	return d
}
