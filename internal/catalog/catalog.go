// internal/catalog/catalog.go
package catalog

import (
	"sort"

	"mcp-menu-planner/internal/exchange"
	"mcp-menu-planner/internal/models"
)

// Catalog is an immutable snapshot of the food database. It is safe for
// concurrent use.
type Catalog struct {
	byID  map[string]models.FoodItem
	order []string
}

// New builds a snapshot. Later foods with a duplicate ID replace earlier ones.
func New(foods []models.FoodItem) *Catalog {
	c := &Catalog{byID: make(map[string]models.FoodItem, len(foods))}
	for _, f := range foods {
		if _, dup := c.byID[f.ID]; !dup {
			c.order = append(c.order, f.ID)
		}
		c.byID[f.ID] = f
	}

	rank := make(map[exchange.Category]int, len(exchange.Categories))
	for i, cat := range exchange.Categories {
		rank[cat] = i
	}
	sort.SliceStable(c.order, func(i, j int) bool {
		a, b := c.byID[c.order[i]], c.byID[c.order[j]]
		ra, okA := rank[a.Category]
		rb, okB := rank[b.Category]
		if !okA {
			ra = len(rank)
		}
		if !okB {
			rb = len(rank)
		}
		if ra != rb {
			return ra < rb
		}
		return a.Name < b.Name
	})
	return c
}

// Food implements planner.FoodLookup.
func (c *Catalog) Food(id string) (models.FoodItem, bool) {
	if c == nil {
		return models.FoodItem{}, false
	}
	f, ok := c.byID[id]
	return f, ok
}

// List returns foods grouped by category in display order, then by name.
// An empty category returns every food.
func (c *Catalog) List(category exchange.Category) []models.FoodItem {
	if c == nil {
		return nil
	}
	out := make([]models.FoodItem, 0, len(c.order))
	for _, id := range c.order {
		f := c.byID[id]
		if category != "" && f.Category != category {
			continue
		}
		out = append(out, f)
	}
	return out
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.byID)
}
