// internal/models/template.go
package models

// MealTemplate is a reusable day layout with its macro split and note.
type MealTemplate struct {
	ID         string             `json:"id" yaml:"id"`
	Name       string             `json:"name" yaml:"name"`
	Note       string             `json:"note" yaml:"note"`
	MacroRatio MacroRatio         `json:"macro_ratio" yaml:"macro_ratio"`
	Items      []MealTemplateItem `json:"items" yaml:"items"`
}

type MealTemplateItem struct {
	Meal        MealType `json:"meal" yaml:"meal"`
	FoodID      string   `json:"food_id" yaml:"food_id"`
	Amount      float64  `json:"amount" yaml:"amount"`
	Method      string   `json:"method" yaml:"method"`
	PortionDesc string   `json:"portion_desc" yaml:"portion_desc"`
	CustomName  string   `json:"custom_name,omitempty" yaml:"custom_name,omitempty"`
}
