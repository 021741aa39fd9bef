// internal/plan/templates.go
package plan

import (
	"fmt"
	"strings"

	"mcp-menu-planner/internal/exchange"
	"mcp-menu-planner/internal/models"
	"mcp-menu-planner/internal/planner"
)

// ApplyTemplate replaces a day with the template's items, all in single
// mode. Items naming an unknown meal land in breakfast. The template's note
// replaces the day note when set, and its macro split replaces the plan's.
func ApplyTemplate(p *models.MenuPlan, day int, tpl models.MealTemplate) error {
	if _, err := dayAt(p, day); err != nil {
		return err
	}

	fresh := models.NewDay()
	for _, item := range tpl.Items {
		mt := item.Meal
		if !mt.Valid() {
			mt = models.Breakfast
		}
		method := exchange.CookingMethod(item.Method)
		if !method.Valid() {
			method = exchange.Original
		}
		amount := item.Amount
		e := models.MenuEntry{
			ID:                 newID(),
			FoodID:             item.FoodID,
			Amount:             amount,
			CookingMethod:      method,
			CustomName:         item.CustomName,
			PortionDescription: item.PortionDesc,
			PortionValue:       &amount,
		}
		meal := fresh[mt].(*models.SingleMeal)
		meal.Entries = append(meal.Entries, e)
	}
	p.Days[day] = fresh

	normalizeNotes(p)
	if tpl.Note != "" {
		p.Notes[day] = tpl.Note
	}
	if tpl.MacroRatio.Sum() > 0 {
		p.MacroRatio = tpl.MacroRatio
	}
	touch(p)
	return nil
}

// DayAsTemplate captures a day as a reusable template. Choice meals
// contribute their first option. Custom dishes have no catalog food and are
// skipped.
func DayAsTemplate(p *models.MenuPlan, day int, name string) (models.MealTemplate, error) {
	d, err := dayAt(p, day)
	if err != nil {
		return models.MealTemplate{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return models.MealTemplate{}, fmt.Errorf("%w: template needs a name", ErrInvalidValue)
	}

	tpl := models.MealTemplate{
		ID:         newID(),
		Name:       name,
		MacroRatio: p.MacroRatio,
		Items:      []models.MealTemplateItem{},
	}
	if day < len(p.Notes) {
		tpl.Note = p.Notes[day]
	}
	for _, mt := range models.MealTypes {
		for _, e := range planner.ResolveMealEntries(d.Meal(mt), "") {
			if e.IsCustom() {
				continue
			}
			tpl.Items = append(tpl.Items, models.MealTemplateItem{
				Meal:        mt,
				FoodID:      e.FoodID,
				Amount:      e.Amount,
				Method:      string(e.CookingMethod),
				PortionDesc: e.PortionDescription,
				CustomName:  e.CustomName,
			})
		}
	}
	return tpl, nil
}
