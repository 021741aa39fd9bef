// internal/estimator/estimator.go
package estimator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"mcp-menu-planner/internal/exchange"
	"mcp-menu-planner/internal/models"
	"mcp-menu-planner/internal/planner"
)

type Confidence string

const (
	HighConfidence   Confidence = "high"
	MediumConfidence Confidence = "medium"
	LowConfidence    Confidence = "low"
)

// FoodEstimate is a model's guess at a food's nutrition per unit.
type FoodEstimate struct {
	Name       string            `json:"name"`
	Calories   float64           `json:"calories"`
	Protein    float64           `json:"protein"`
	Carbs      float64           `json:"carbs"`
	Fat        float64           `json:"fat"`
	Unit       string            `json:"unit"`
	Category   exchange.Category `json:"category"`
	Confidence Confidence        `json:"confidence"`
	Fallback   bool              `json:"fallback,omitempty"`
}

// Substitute is a suggested swap within the same exchange group.
type Substitute struct {
	Name     string  `json:"name"`
	Reason   string  `json:"reason"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Unit     string  `json:"unit"`
}

// Estimator looks up nutrition the catalog does not have yet.
type Estimator interface {
	EstimateNutrition(ctx context.Context, foodName string) (*FoodEstimate, error)
	SuggestSubstitutes(ctx context.Context, foodName string, category exchange.Category) ([]Substitute, error)
}

// FallbackEstimate is returned when no model is configured or its answer
// cannot be read.
func FallbackEstimate(foodName string) *FoodEstimate {
	return &FoodEstimate{
		Name:       foodName,
		Calories:   100,
		Protein:    5,
		Carbs:      15,
		Fat:        3,
		Unit:       "100g",
		Category:   exchange.Other,
		Confidence: LowConfidence,
		Fallback:   true,
	}
}

// ToFood turns an estimate into a catalog food whose portion is the
// estimate's unit: "100g" becomes size 100, unit g.
func (e *FoodEstimate) ToFood(id string) models.FoodItem {
	category := e.Category
	if !category.Valid() {
		category = exchange.Other
	}
	f := models.NewFoodFromStandard(id, e.Name, category, "")
	f.CaloriesPerPortion = e.Calories
	f.ProteinPerPortion = e.Protein
	f.CarbsPerPortion = e.Carbs
	f.FatPerPortion = e.Fat

	unit := strings.TrimSpace(e.Unit)
	if size, ok := planner.ParseLeadingFloat(unit); ok {
		f.PortionSize = size
		f.PortionUnit = strings.TrimSpace(strings.TrimLeft(unit, "0123456789.+-eE "))
		if f.PortionUnit == "" {
			f.PortionUnit = "份"
		}
	} else if unit != "" {
		f.PortionSize = 1
		f.PortionUnit = unit
	}
	return f
}

// ParseEstimate reads the first JSON object in a model answer. Anything
// unreadable falls back to the default estimate.
func ParseEstimate(foodName, text string) *FoodEstimate {
	raw, ok := extractJSON(text, '{', '}')
	if !ok {
		return FallbackEstimate(foodName)
	}
	var est FoodEstimate
	if err := json.Unmarshal([]byte(raw), &est); err != nil {
		return FallbackEstimate(foodName)
	}
	if est.Name == "" {
		est.Name = foodName
	}
	if !est.Category.Valid() {
		est.Category = exchange.Other
	}
	switch est.Confidence {
	case HighConfidence, MediumConfidence, LowConfidence:
	default:
		est.Confidence = MediumConfidence
	}
	if est.Calories < 0 || est.Protein < 0 || est.Carbs < 0 || est.Fat < 0 {
		return FallbackEstimate(foodName)
	}
	return &est
}

// ParseSubstitutes reads the first JSON array in a model answer. Anything
// unreadable yields an empty list.
func ParseSubstitutes(text string) []Substitute {
	raw, ok := extractJSON(text, '[', ']')
	if !ok {
		return []Substitute{}
	}
	var subs []Substitute
	if err := json.Unmarshal([]byte(raw), &subs); err != nil {
		return []Substitute{}
	}
	out := subs[:0]
	for _, s := range subs {
		if strings.TrimSpace(s.Name) != "" {
			out = append(out, s)
		}
	}
	return out
}

func extractJSON(text string, open, close byte) (string, bool) {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	start := strings.IndexByte(text, open)
	if start == -1 {
		return "", false
	}
	end := strings.LastIndexByte(text, close)
	if end == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

const systemPrompt = `You are a registered dietitian working with the Taiwanese food exchange system.
Always answer with valid JSON only, no prose.`

func estimatePrompt(foodName string) string {
	return fmt.Sprintf(`Provide the nutritional information for "%s" per 100g (or 1 standard serving unit if appropriate). Estimate conservative average values.

Respond with JSON in this exact format:
{
  "name": "standardized food name in Traditional Chinese",
  "calories": [number, kcal],
  "protein": [number, g],
  "carbs": [number, g],
  "fat": [number, g],
  "unit": "unit used for measurement, e.g. 100g or 1顆",
  "category": "staple|meat|vegetable|fruit|dairy|fat|other",
  "confidence": "high|medium|low"
}`, foodName)
}

func substitutesPrompt(foodName string, category exchange.Category) string {
	return fmt.Sprintf(`Based on the food "%s" in the category "%s", suggest 3 healthy alternatives within the same nutritional group. For each, provide a brief reason why it's a good swap and its estimated nutrition per 100g.

Respond with a JSON array in this exact format:
[
  {"name": "...", "reason": "...", "calories": [number], "protein": [number], "carbs": [number], "fat": [number], "unit": "100g"}
]`, foodName, category)
}

// Offline answers without a model: the fallback estimate and no
// substitutes.
type Offline struct{}

func (Offline) EstimateNutrition(_ context.Context, foodName string) (*FoodEstimate, error) {
	return FallbackEstimate(foodName), nil
}

func (Offline) SuggestSubstitutes(context.Context, string, exchange.Category) ([]Substitute, error) {
	return []Substitute{}, nil
}
