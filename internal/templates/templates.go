// internal/templates/templates.go
package templates

import (
	_ "embed"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"mcp-menu-planner/internal/exchange"
	"mcp-menu-planner/internal/models"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type document struct {
	Templates []models.MealTemplate `yaml:"templates"`
}

// Defaults returns the built-in day templates.
func Defaults() ([]models.MealTemplate, error) {
	return Parse(defaultsYAML)
}

// Load reads a template document from r.
func Load(r io.Reader) ([]models.MealTemplate, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read templates: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML document with a top-level templates list and checks
// every template for a name, known meal slots and known cooking methods.
func Parse(data []byte) ([]models.MealTemplate, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	seen := make(map[string]bool, len(doc.Templates))
	for i, tpl := range doc.Templates {
		if tpl.ID == "" || tpl.Name == "" {
			return nil, fmt.Errorf("template %d: id and name are required", i)
		}
		if seen[tpl.ID] {
			return nil, fmt.Errorf("template %s: duplicate id", tpl.ID)
		}
		seen[tpl.ID] = true

		for j, item := range tpl.Items {
			if !item.Meal.Valid() {
				return nil, fmt.Errorf("template %s item %d: unknown meal %q", tpl.ID, j, item.Meal)
			}
			if item.Method != "" && !exchange.CookingMethod(item.Method).Valid() {
				return nil, fmt.Errorf("template %s item %d: unknown cooking method %q", tpl.ID, j, item.Method)
			}
		}
	}
	return doc.Templates, nil
}
