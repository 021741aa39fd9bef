// internal/models/meal.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"mcp-menu-planner/internal/exchange"
)

// MenuEntry places a catalog food, or a custom dish with inline nutrition,
// into a meal.
type MenuEntry struct {
	ID                 string                 `json:"id"`
	FoodID             string                 `json:"food_id,omitempty"`
	Amount             float64                `json:"amount"`
	CookingMethod      exchange.CookingMethod `json:"cooking_method"`
	CustomName         string                 `json:"custom_name,omitempty"`
	PortionDescription string                 `json:"portion_description,omitempty"`
	PortionValue       *float64               `json:"portion_value,omitempty"`
	Custom             *NutritionTotals       `json:"custom,omitempty"`
}

// IsCustom reports whether the entry carries its own nutrition instead of
// referencing the catalog.
func (e MenuEntry) IsCustom() bool {
	return e.Custom != nil
}

// PortionQuantity is the count fed into portion buckets: the numeric portion
// value when set, otherwise the amount.
func (e MenuEntry) PortionQuantity() float64 {
	if e.PortionValue != nil && *e.PortionValue != 0 && !math.IsNaN(*e.PortionValue) {
		return *e.PortionValue
	}
	return e.Amount
}

// MealChoiceOption is one labeled alternative of a choice meal.
type MealChoiceOption struct {
	ID      string      `json:"id"`
	Label   string      `json:"label"`
	Entries []MenuEntry `json:"entries"`
}

// MaxChoiceOptions bounds the A-F alternatives of a choice meal.
const MaxChoiceOptions = 6

type MealMode string

const (
	SingleMode MealMode = "single"
	ChoiceMode MealMode = "choice"
)

// Meal is either a *SingleMeal or a *ChoiceMeal.
type Meal interface {
	Mode() MealMode
	Clone(newID func() string) Meal
	isMeal()
}

// SingleMeal is a flat list of entries.
type SingleMeal struct {
	Entries []MenuEntry
}

// ChoiceMeal holds mutually exclusive alternatives; only one is priced into
// day totals at a time.
type ChoiceMeal struct {
	Options []MealChoiceOption
}

func (*SingleMeal) Mode() MealMode { return SingleMode }
func (*ChoiceMeal) Mode() MealMode { return ChoiceMode }
func (*SingleMeal) isMeal()        {}
func (*ChoiceMeal) isMeal()        {}

func (m *SingleMeal) Clone(newID func() string) Meal {
	if m == nil {
		return &SingleMeal{}
	}
	return &SingleMeal{Entries: cloneEntries(m.Entries, newID)}
}

func (m *ChoiceMeal) Clone(newID func() string) Meal {
	if m == nil {
		return &ChoiceMeal{}
	}
	opts := make([]MealChoiceOption, len(m.Options))
	for i, o := range m.Options {
		opts[i] = MealChoiceOption{
			ID:      newID(),
			Label:   o.Label,
			Entries: cloneEntries(o.Entries, newID),
		}
	}
	return &ChoiceMeal{Options: opts}
}

// Option returns the option with the given ID.
func (m *ChoiceMeal) Option(id string) (*MealChoiceOption, bool) {
	for i := range m.Options {
		if m.Options[i].ID == id {
			return &m.Options[i], true
		}
	}
	return nil, false
}

func cloneEntries(entries []MenuEntry, newID func() string) []MenuEntry {
	out := make([]MenuEntry, len(entries))
	for i, e := range entries {
		c := e
		c.ID = newID()
		if e.PortionValue != nil {
			v := *e.PortionValue
			c.PortionValue = &v
		}
		if e.Custom != nil {
			n := *e.Custom
			c.Custom = &n
		}
		out[i] = c
	}
	return out
}

type mealWire struct {
	Mode    MealMode           `json:"mode"`
	Entries []MenuEntry        `json:"entries,omitempty"`
	Options []MealChoiceOption `json:"options,omitempty"`
}

// legacyMealWire is the older {entries, choice:{enabled, options}} shape.
type legacyMealWire struct {
	Entries []MenuEntry `json:"entries"`
	Choice  *struct {
		Enabled bool               `json:"enabled"`
		Options []MealChoiceOption `json:"options"`
	} `json:"choice"`
}

func (m *SingleMeal) MarshalJSON() ([]byte, error) {
	var entries []MenuEntry
	if m != nil {
		entries = m.Entries
	}
	if entries == nil {
		entries = []MenuEntry{}
	}
	return json.Marshal(struct {
		Mode    MealMode    `json:"mode"`
		Entries []MenuEntry `json:"entries"`
	}{SingleMode, entries})
}

func (m *ChoiceMeal) MarshalJSON() ([]byte, error) {
	var opts []MealChoiceOption
	if m != nil {
		opts = m.Options
	}
	if opts == nil {
		opts = []MealChoiceOption{}
	}
	return json.Marshal(struct {
		Mode    MealMode           `json:"mode"`
		Options []MealChoiceOption `json:"options"`
	}{ChoiceMode, opts})
}

// DecodeMeal reads a meal in the current tagged shape or in one of the legacy
// shapes: a bare entry array, or entries plus an optional choice block.
func DecodeMeal(data []byte) (Meal, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return &SingleMeal{}, nil
	}

	if data[0] == '[' {
		var entries []MenuEntry
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("failed to decode legacy entry list: %w", err)
		}
		return &SingleMeal{Entries: entries}, nil
	}

	var wire mealWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("failed to decode meal: %w", err)
	}

	switch wire.Mode {
	case SingleMode:
		return &SingleMeal{Entries: wire.Entries}, nil
	case ChoiceMode:
		return &ChoiceMeal{Options: wire.Options}, nil
	case "":
	default:
		return nil, fmt.Errorf("unknown meal mode %q", wire.Mode)
	}

	var legacy legacyMealWire
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("failed to decode legacy meal: %w", err)
	}
	if legacy.Choice != nil && legacy.Choice.Enabled {
		return &ChoiceMeal{Options: legacy.Choice.Options}, nil
	}
	return &SingleMeal{Entries: legacy.Entries}, nil
}
