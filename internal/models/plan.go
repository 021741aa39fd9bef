// internal/models/plan.go
package models

import (
	"encoding/json"
	"fmt"
	"time"

	"mcp-menu-planner/internal/exchange"
)

type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
	Snack     MealType = "snack"
)

// MealTypes is the fixed slot order of a day.
var MealTypes = []MealType{Breakfast, Lunch, Dinner, Snack}

func (m MealType) Valid() bool {
	switch m {
	case Breakfast, Lunch, Dinner, Snack:
		return true
	}
	return false
}

// DailyItems maps every meal slot of a day to its meal.
type DailyItems map[MealType]Meal

// NewDay returns a day with every slot an empty single meal.
func NewDay() DailyItems {
	d := make(DailyItems, len(MealTypes))
	for _, mt := range MealTypes {
		d[mt] = &SingleMeal{}
	}
	return d
}

// Meal returns the meal of a slot; an absent or nil slot reads as an empty
// single meal.
func (d DailyItems) Meal(mt MealType) Meal {
	switch m := d[mt].(type) {
	case *SingleMeal:
		if m != nil {
			return m
		}
	case *ChoiceMeal:
		if m != nil {
			return m
		}
	}
	return &SingleMeal{}
}

func (d DailyItems) Clone(newID func() string) DailyItems {
	out := make(DailyItems, len(MealTypes))
	for _, mt := range MealTypes {
		out[mt] = d.Meal(mt).Clone(newID)
	}
	return out
}

func (d DailyItems) MarshalJSON() ([]byte, error) {
	wire := make(map[MealType]Meal, len(MealTypes))
	for _, mt := range MealTypes {
		wire[mt] = d.Meal(mt)
	}
	return json.Marshal(wire)
}

func (d *DailyItems) UnmarshalJSON(data []byte) error {
	var raw map[MealType]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode day: %w", err)
	}
	day := NewDay()
	for mt, msg := range raw {
		if !mt.Valid() {
			continue
		}
		meal, err := DecodeMeal(msg)
		if err != nil {
			return fmt.Errorf("meal %s: %w", mt, err)
		}
		day[mt] = meal
	}
	*d = day
	return nil
}

type PlanType string

const (
	SinglePlan PlanType = "single"
	CyclePlan  PlanType = "cycle"
)

// MacroRatio is the percentage split of target calories. The values are not
// forced to sum to 100.
type MacroRatio struct {
	Protein float64 `json:"protein" yaml:"protein"`
	Carbs   float64 `json:"carbs" yaml:"carbs"`
	Fat     float64 `json:"fat" yaml:"fat"`
}

func (r MacroRatio) Sum() float64 {
	return r.Protein + r.Carbs + r.Fat
}

// NutritionTotals sums calories and macro grams.
type NutritionTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

func (n NutritionTotals) Add(o NutritionTotals) NutritionTotals {
	return NutritionTotals{
		Calories: n.Calories + o.Calories,
		Protein:  n.Protein + o.Protein,
		Carbs:    n.Carbs + o.Carbs,
		Fat:      n.Fat + o.Fat,
	}
}

// Portions holds a portion count for every category.
type Portions map[exchange.Category]float64

// NewPortions returns a zeroed count for every category.
func NewPortions() Portions {
	p := make(Portions, len(exchange.Categories))
	for _, c := range exchange.Categories {
		p[c] = 0
	}
	return p
}

func (p Portions) Add(o Portions) Portions {
	out := NewPortions()
	for c, v := range p {
		out[c] += v
	}
	for c, v := range o {
		out[c] += v
	}
	return out
}

// DetailedPortions splits meat and dairy portions by fat level.
type DetailedPortions struct {
	MeatLow    float64 `json:"meat_low"`
	MeatMedium float64 `json:"meat_medium"`
	MeatHigh   float64 `json:"meat_high"`
	DairyFull  float64 `json:"dairy_full"`
	DairyLow   float64 `json:"dairy_low"`
	DairySkim  float64 `json:"dairy_skim"`
}

func (d DetailedPortions) Add(o DetailedPortions) DetailedPortions {
	return DetailedPortions{
		MeatLow:    d.MeatLow + o.MeatLow,
		MeatMedium: d.MeatMedium + o.MeatMedium,
		MeatHigh:   d.MeatHigh + o.MeatHigh,
		DairyFull:  d.DairyFull + o.DairyFull,
		DairyLow:   d.DairyLow + o.DairyLow,
		DairySkim:  d.DairySkim + o.DairySkim,
	}
}

// Bucket returns a pointer to the fat-level bucket of a meat or dairy
// portion, or nil when the pair has no bucket.
func (d *DetailedPortions) Bucket(c exchange.Category, level exchange.FatLevel) *float64 {
	switch c {
	case exchange.Meat:
		switch level {
		case exchange.MeatLow:
			return &d.MeatLow
		case exchange.MeatMedium:
			return &d.MeatMedium
		case exchange.MeatHigh:
			return &d.MeatHigh
		}
	case exchange.Dairy:
		switch level {
		case exchange.DairyFull:
			return &d.DairyFull
		case exchange.DairyLow:
			return &d.DairyLow
		case exchange.DairySkim:
			return &d.DairySkim
		}
	}
	return nil
}

func (d DetailedPortions) Meat() float64  { return d.MeatLow + d.MeatMedium + d.MeatHigh }
func (d DetailedPortions) Dairy() float64 { return d.DairyFull + d.DairyLow + d.DairySkim }

// TargetPortions are the planner's per-category goals. Detail optionally
// splits the meat and dairy goals by fat level.
type TargetPortions struct {
	Portions Portions          `json:"portions"`
	Detail   *DetailedPortions `json:"detail,omitempty"`
}

// PortionMode tracks whether a derived category follows the automatic
// derivation or a manually entered value.
type PortionMode string

const (
	AutoMode   PortionMode = "auto"
	ManualMode PortionMode = "manual"
)

type PortionOverride struct {
	Mode  PortionMode `json:"mode"`
	Value float64     `json:"value,omitempty"`
}

// Overrides holds the state of the three derived categories.
type Overrides struct {
	Staple PortionOverride `json:"staple"`
	Meat   PortionOverride `json:"meat"`
	Fat    PortionOverride `json:"fat"`
}

type MenuPlan struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Type           PlanType       `json:"type"`
	CycleDays      int            `json:"cycle_days"`
	TargetCalories float64        `json:"target_calories"`
	MacroRatio     MacroRatio     `json:"macro_ratio"`
	TargetPortions TargetPortions `json:"target_portions"`
	Overrides      Overrides      `json:"overrides"`
	Days           []DailyItems   `json:"days"`
	Notes          []string       `json:"notes"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
