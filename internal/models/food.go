// internal/models/food.go
package models

import (
	"time"

	"mcp-menu-planner/internal/exchange"
)

// FoodItem is a catalog entry. Nutrients are stored per exchange portion.
type FoodItem struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	Category           exchange.Category `json:"category"`
	PortionSize        float64           `json:"portion_size"`
	PortionUnit        string            `json:"portion_unit"`
	CaloriesPerPortion float64           `json:"calories_per_portion"`
	ProteinPerPortion  float64           `json:"protein_per_portion"`
	CarbsPerPortion    float64           `json:"carbs_per_portion"`
	FatPerPortion      float64           `json:"fat_per_portion"`
	FatLevel           exchange.FatLevel `json:"fat_level,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
}

// NewFoodFromStandard builds a food whose portion and nutrients come from the
// exchange table for its category and fat level.
func NewFoodFromStandard(id, name string, c exchange.Category, level exchange.FatLevel) FoodItem {
	if !level.ValidFor(c) {
		level = ""
	}
	std := exchange.Standard(c, level)
	portion := exchange.DefaultPortion(c)
	return FoodItem{
		ID:                 id,
		Name:               name,
		Category:           c,
		PortionSize:        portion.Size,
		PortionUnit:        portion.Unit,
		CaloriesPerPortion: std.Calories,
		ProteinPerPortion:  std.Protein,
		CarbsPerPortion:    std.Carbs,
		FatPerPortion:      std.Fat,
		FatLevel:           level,
	}
}
