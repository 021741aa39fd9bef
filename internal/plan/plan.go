// internal/plan/plan.go
package plan

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mcp-menu-planner/internal/exchange"
	"mcp-menu-planner/internal/models"
	"mcp-menu-planner/internal/planner"
)

var (
	ErrDayOutOfRange   = errors.New("day index out of range")
	ErrInvalidDayCount = errors.New("day count must be between 1 and 30")
	ErrUnknownMeal     = errors.New("unknown meal")
	ErrNotChoiceMode   = errors.New("meal is not in choice mode")
	ErrTooManyOptions  = errors.New("meal already has the maximum number of options")
	ErrOptionNotFound  = errors.New("choice option not found")
	ErrEntryNotFound   = errors.New("entry not found")
	ErrUnknownField    = errors.New("unknown entry field")
	ErrInvalidValue    = errors.New("invalid field value")
)

const (
	// MaxDays bounds SetDays.
	MaxDays = 30
	// MaxCopyTarget is the highest zero-based day index CopyDay may write.
	MaxCopyTarget = 30

	DefaultName           = "新計畫菜單"
	DefaultTargetCalories = 1500
)

// DefaultMacroRatio is the split of a new plan.
var DefaultMacroRatio = models.MacroRatio{Protein: 20, Carbs: 50, Fat: 30}

// DefaultTargetPortions returns the per-category goals of a new plan.
func DefaultTargetPortions() models.Portions {
	return models.Portions{
		exchange.Staple:    3,
		exchange.Meat:      5,
		exchange.Vegetable: 3,
		exchange.Fruit:     2,
		exchange.Dairy:     1,
		exchange.Fat:       3,
		exchange.Other:     0,
	}
}

var (
	newID = uuid.NewString
	now   = time.Now
)

// NewPlan returns a one-day single plan with default targets.
func NewPlan(name string) *models.MenuPlan {
	if name == "" {
		name = DefaultName
	}
	ts := now().UTC()
	return &models.MenuPlan{
		ID:             newID(),
		Name:           name,
		Type:           models.SinglePlan,
		CycleDays:      1,
		TargetCalories: DefaultTargetCalories,
		MacroRatio:     DefaultMacroRatio,
		TargetPortions: models.TargetPortions{Portions: DefaultTargetPortions()},
		Overrides: models.Overrides{
			Staple: models.PortionOverride{Mode: models.AutoMode},
			Meat:   models.PortionOverride{Mode: models.AutoMode},
			Fat:    models.PortionOverride{Mode: models.AutoMode},
		},
		Days:      []models.DailyItems{models.NewDay()},
		Notes:     []string{""},
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

// SetTargets replaces the calorie target and macro split. Portions are
// merged into the per-category goals. A staple, meat or fat value that
// differs from the current goal is a direct edit and switches that category
// to manual.
func SetTargets(p *models.MenuPlan, calories float64, ratio models.MacroRatio, portions models.Portions) error {
	if calories < 0 {
		return fmt.Errorf("%w: target calories %g", ErrInvalidValue, calories)
	}
	for c := range portions {
		if !c.Valid() {
			return fmt.Errorf("%w: category %q", ErrInvalidValue, c)
		}
	}

	p.TargetCalories = calories
	p.MacroRatio = ratio
	if p.TargetPortions.Portions == nil {
		p.TargetPortions.Portions = models.NewPortions()
	}
	for c, v := range portions {
		if v < 0 {
			v = 0
		}
		if isDerived(c) && v != p.TargetPortions.Portions[c] {
			if err := planner.Override(&p.Overrides, c, v); err != nil {
				return err
			}
		}
		p.TargetPortions.Portions[c] = v
	}
	touch(p)
	return nil
}

func isDerived(c exchange.Category) bool {
	for _, d := range planner.DerivedCategories {
		if c == d {
			return true
		}
	}
	return false
}

// SetDays resizes the plan to n days, padding with empty days or dropping
// trailing ones.
func SetDays(p *models.MenuPlan, n int) error {
	if n < 1 || n > MaxDays {
		return fmt.Errorf("%w: %d", ErrInvalidDayCount, n)
	}
	normalizeNotes(p)
	for len(p.Days) < n {
		p.Days = append(p.Days, models.NewDay())
		p.Notes = append(p.Notes, "")
	}
	p.Days = p.Days[:n]
	p.Notes = p.Notes[:n]
	p.CycleDays = n
	touch(p)
	return nil
}

// CopyDay clones day from into day to, extending the plan as needed. Every
// copied entry and option gets a fresh ID and the note is copied along. The
// plan becomes a cycle plan.
func CopyDay(p *models.MenuPlan, from, to int) error {
	if from < 0 || from >= len(p.Days) {
		return fmt.Errorf("%w: source day %d", ErrDayOutOfRange, from)
	}
	if to < 0 || to > MaxCopyTarget {
		return fmt.Errorf("%w: target day %d", ErrDayOutOfRange, to)
	}
	normalizeNotes(p)
	for len(p.Days) <= to {
		p.Days = append(p.Days, models.NewDay())
		p.Notes = append(p.Notes, "")
	}
	p.Days[to] = p.Days[from].Clone(newID)
	p.Notes[to] = p.Notes[from]
	p.Type = models.CyclePlan
	p.CycleDays = len(p.Days)
	touch(p)
	return nil
}

// UpdateNote sets the planner's note for a day.
func UpdateNote(p *models.MenuPlan, day int, text string) error {
	if day < 0 || day >= len(p.Days) {
		return fmt.Errorf("%w: %d", ErrDayOutOfRange, day)
	}
	normalizeNotes(p)
	p.Notes[day] = text
	touch(p)
	return nil
}

// normalizeNotes keeps one note per day.
func normalizeNotes(p *models.MenuPlan) {
	for len(p.Notes) < len(p.Days) {
		p.Notes = append(p.Notes, "")
	}
	if len(p.Notes) > len(p.Days) {
		p.Notes = p.Notes[:len(p.Days)]
	}
}

func touch(p *models.MenuPlan) {
	p.UpdatedAt = now().UTC()
}

func dayAt(p *models.MenuPlan, day int) (models.DailyItems, error) {
	if day < 0 || day >= len(p.Days) {
		return nil, fmt.Errorf("%w: %d", ErrDayOutOfRange, day)
	}
	if p.Days[day] == nil {
		p.Days[day] = models.NewDay()
	}
	return p.Days[day], nil
}

func mealAt(p *models.MenuPlan, day int, mt models.MealType) (models.DailyItems, models.Meal, error) {
	d, err := dayAt(p, day)
	if err != nil {
		return nil, nil, err
	}
	if !mt.Valid() {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownMeal, mt)
	}
	m := d.Meal(mt)
	d[mt] = m
	return d, m, nil
}

func choiceAt(p *models.MenuPlan, day int, mt models.MealType) (*models.ChoiceMeal, error) {
	_, m, err := mealAt(p, day, mt)
	if err != nil {
		return nil, err
	}
	choice, ok := m.(*models.ChoiceMeal)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotChoiceMode, mt)
	}
	return choice, nil
}
