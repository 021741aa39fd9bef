// internal/plan/entries.go
package plan

import (
	"fmt"
	"strings"

	"mcp-menu-planner/internal/exchange"
	"mcp-menu-planner/internal/models"
	"mcp-menu-planner/internal/planner"
)

// EntryField names an editable field of a menu entry.
type EntryField string

const (
	FieldPortionDescription EntryField = "portion_description"
	FieldCustomName         EntryField = "custom_name"
	FieldCookingMethod      EntryField = "cooking_method"
	FieldAmount             EntryField = "amount"
)

const portionMarker = "份"

// PortionDescription completes a typed portion text with the category
// label: "1.5" for a staple becomes "1.5 份全穀雜糧". Text that already names a
// portion is kept.
func PortionDescription(desc string, c exchange.Category) string {
	desc = strings.TrimSpace(desc)
	if strings.Contains(desc, portionMarker) {
		return desc
	}
	if desc == "" {
		desc = "1"
	}
	return desc + " " + portionMarker + c.Label()
}

// AddEntry appends a catalog food to a meal. The amount and portion value
// are the leading number of the description, or 1 without one. In choice mode
// the entry goes to the active option when active points at this day and
// meal, otherwise to the first option.
func AddEntry(p *models.MenuPlan, day int, mt models.MealType, food models.FoodItem, method exchange.CookingMethod, portionDesc string, active *planner.ActiveChoice) (models.MenuEntry, error) {
	if method == "" {
		method = exchange.Original
	}
	if !method.Valid() {
		return models.MenuEntry{}, fmt.Errorf("%w: cooking method %q", ErrInvalidValue, method)
	}

	amount := 1.0
	if v, ok := planner.ParseLeadingFloat(portionDesc); ok && v != 0 {
		amount = v
	}
	value := amount

	e := models.MenuEntry{
		ID:                 newID(),
		FoodID:             food.ID,
		Amount:             amount,
		CookingMethod:      method,
		PortionDescription: PortionDescription(portionDesc, food.Category),
		PortionValue:       &value,
	}
	if err := insertEntry(p, day, mt, e, active); err != nil {
		return models.MenuEntry{}, err
	}
	return e, nil
}

// AddCustomEntry appends an ad-hoc dish with inline per-unit nutrition.
func AddCustomEntry(p *models.MenuPlan, day int, mt models.MealType, name string, nutrition models.NutritionTotals, amount float64, active *planner.ActiveChoice) (models.MenuEntry, error) {
	if strings.TrimSpace(name) == "" {
		return models.MenuEntry{}, fmt.Errorf("%w: custom entry needs a name", ErrInvalidValue)
	}
	if amount <= 0 {
		amount = 1
	}
	n := nutrition
	v := amount
	e := models.MenuEntry{
		ID:                 newID(),
		Amount:             amount,
		CookingMethod:      exchange.Original,
		CustomName:         name,
		PortionDescription: fmt.Sprintf("%g %s", amount, portionMarker),
		PortionValue:       &v,
		Custom:             &n,
	}
	if err := insertEntry(p, day, mt, e, active); err != nil {
		return models.MenuEntry{}, err
	}
	return e, nil
}

func insertEntry(p *models.MenuPlan, day int, mt models.MealType, e models.MenuEntry, active *planner.ActiveChoice) error {
	d, m, err := mealAt(p, day, mt)
	if err != nil {
		return err
	}

	switch meal := m.(type) {
	case *models.SingleMeal:
		meal.Entries = append(meal.Entries, e)
	case *models.ChoiceMeal:
		if len(meal.Options) == 0 {
			meal.Options = append(meal.Options, models.MealChoiceOption{ID: newID(), Label: OptionLabel(0)})
		}
		target := &meal.Options[0]
		if active != nil && active.Day == day && active.Meal == mt {
			if opt, ok := meal.Option(active.OptionID); ok {
				target = opt
			}
		}
		target.Entries = append(target.Entries, e)
	}
	d[mt] = m
	touch(p)
	return nil
}

// RemoveEntry deletes an entry from a meal, searching every option in
// choice mode.
func RemoveEntry(p *models.MenuPlan, day int, mt models.MealType, entryID string) error {
	_, m, err := mealAt(p, day, mt)
	if err != nil {
		return err
	}
	removed := false
	forEachEntryList(m, func(entries *[]models.MenuEntry) {
		for i, e := range *entries {
			if e.ID == entryID {
				*entries = append((*entries)[:i], (*entries)[i+1:]...)
				removed = true
				return
			}
		}
	})
	if !removed {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
	}
	touch(p)
	return nil
}

// UpdateEntryField edits one field of an entry. A portion description that
// starts with a number also sets the portion value and amount; otherwise
// the previous numbers stay.
func UpdateEntryField(p *models.MenuPlan, day int, mt models.MealType, entryID string, field EntryField, value string) (models.MenuEntry, error) {
	_, m, err := mealAt(p, day, mt)
	if err != nil {
		return models.MenuEntry{}, err
	}

	var target *models.MenuEntry
	forEachEntryList(m, func(entries *[]models.MenuEntry) {
		for i := range *entries {
			if (*entries)[i].ID == entryID {
				target = &(*entries)[i]
				return
			}
		}
	})
	if target == nil {
		return models.MenuEntry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
	}

	switch field {
	case FieldPortionDescription:
		target.PortionDescription = value
		if v, ok := planner.ParseLeadingFloat(value); ok {
			pv := v
			target.PortionValue = &pv
			target.Amount = v
		}
	case FieldCustomName:
		target.CustomName = value
	case FieldCookingMethod:
		method := exchange.CookingMethod(value)
		if !method.Valid() {
			return models.MenuEntry{}, fmt.Errorf("%w: cooking method %q", ErrInvalidValue, value)
		}
		target.CookingMethod = method
	case FieldAmount:
		v := planner.CommitNumber(value)
		target.Amount = v
		target.PortionValue = &v
	default:
		return models.MenuEntry{}, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	touch(p)
	return *target, nil
}

func forEachEntryList(m models.Meal, fn func(entries *[]models.MenuEntry)) {
	switch meal := m.(type) {
	case *models.SingleMeal:
		fn(&meal.Entries)
	case *models.ChoiceMeal:
		for i := range meal.Options {
			fn(&meal.Options[i].Entries)
		}
	}
}
