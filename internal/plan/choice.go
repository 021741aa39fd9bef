// internal/plan/choice.go
package plan

import (
	"fmt"
	"strconv"
	"strings"

	"mcp-menu-planner/internal/models"
	"mcp-menu-planner/internal/planner"
)

var optionLetters = []string{"A", "B", "C", "D", "E", "F"}

// OptionLabel is the default label of the i-th option: "選項 A" .. "選項 F".
func OptionLabel(i int) string {
	if i >= 0 && i < len(optionLetters) {
		return "選項 " + optionLetters[i]
	}
	return "選項 " + strconv.Itoa(i+1)
}

// ToggleChoiceMode switches a meal between single and choice mode and
// returns the option ID that becomes active, empty when back in single mode.
//
// Entering choice mode moves the existing entries into option A. Leaving it
// keeps only the first option's entries.
func ToggleChoiceMode(p *models.MenuPlan, day int, mt models.MealType) (string, error) {
	d, m, err := mealAt(p, day, mt)
	if err != nil {
		return "", err
	}

	var active string
	switch meal := m.(type) {
	case *models.SingleMeal:
		opt := models.MealChoiceOption{
			ID:      newID(),
			Label:   OptionLabel(0),
			Entries: meal.Entries,
		}
		d[mt] = &models.ChoiceMeal{Options: []models.MealChoiceOption{opt}}
		active = opt.ID
	case *models.ChoiceMeal:
		var entries []models.MenuEntry
		if len(meal.Options) > 0 {
			entries = meal.Options[0].Entries
		}
		d[mt] = &models.SingleMeal{Entries: entries}
	}
	touch(p)
	return active, nil
}

// AddChoiceOption appends an empty option with the next default label.
func AddChoiceOption(p *models.MenuPlan, day int, mt models.MealType) (models.MealChoiceOption, error) {
	choice, err := choiceAt(p, day, mt)
	if err != nil {
		return models.MealChoiceOption{}, err
	}
	if len(choice.Options) >= models.MaxChoiceOptions {
		return models.MealChoiceOption{}, fmt.Errorf("%w: %d", ErrTooManyOptions, models.MaxChoiceOptions)
	}
	opt := models.MealChoiceOption{ID: newID(), Label: OptionLabel(len(choice.Options))}
	choice.Options = append(choice.Options, opt)
	touch(p)
	return opt, nil
}

func RenameChoiceOption(p *models.MenuPlan, day int, mt models.MealType, optionID, label string) error {
	choice, err := choiceAt(p, day, mt)
	if err != nil {
		return err
	}
	opt, ok := choice.Option(optionID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrOptionNotFound, optionID)
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return fmt.Errorf("%w: empty label", ErrInvalidValue)
	}
	opt.Label = label
	touch(p)
	return nil
}

// RemoveChoiceOption deletes an option. It returns the option that should be
// active afterwards: activeOptionID unless that was the removed one, in
// which case the first remaining option, or empty when none remain.
func RemoveChoiceOption(p *models.MenuPlan, day int, mt models.MealType, optionID, activeOptionID string) (string, error) {
	choice, err := choiceAt(p, day, mt)
	if err != nil {
		return "", err
	}
	idx := -1
	for i, o := range choice.Options {
		if o.ID == optionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", fmt.Errorf("%w: %s", ErrOptionNotFound, optionID)
	}
	choice.Options = append(choice.Options[:idx], choice.Options[idx+1:]...)
	touch(p)

	if activeOptionID != optionID {
		return activeOptionID, nil
	}
	if len(choice.Options) == 0 {
		return "", nil
	}
	return choice.Options[0].ID, nil
}

// SelectChoiceOption checks that the option exists and returns it as the
// active choice.
func SelectChoiceOption(p *models.MenuPlan, day int, mt models.MealType, optionID string) (planner.ActiveChoice, error) {
	choice, err := choiceAt(p, day, mt)
	if err != nil {
		return planner.ActiveChoice{}, err
	}
	if _, ok := choice.Option(optionID); !ok {
		return planner.ActiveChoice{}, fmt.Errorf("%w: %s", ErrOptionNotFound, optionID)
	}
	return planner.ActiveChoice{Day: day, Meal: mt, OptionID: optionID}, nil
}
