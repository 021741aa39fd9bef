// internal/exchange/cooking.go
package exchange

// CookingMethod adds oil-derived calories and fat on top of a food's base
// values. Protein and carbs are never affected.
type CookingMethod string

const (
	Original  CookingMethod = "original"
	Boiled    CookingMethod = "boiled"
	StirFried CookingMethod = "stir_fried"
	PanFried  CookingMethod = "pan_fried"
	DeepFried CookingMethod = "deep_fried"
)

var CookingMethods = []CookingMethod{Original, Boiled, StirFried, PanFried, DeepFried}

// Modifier is the per-portion delta of a cooking method.
type Modifier struct {
	Name     string  `json:"name"`
	Calories float64 `json:"cal"`
	Fat      float64 `json:"fat"`
}

var modifiers = map[CookingMethod]Modifier{
	Original:  {Name: "原始/生鮮", Calories: 0, Fat: 0},
	Boiled:    {Name: "水煮/清蒸", Calories: 0, Fat: 0},
	StirFried: {Name: "快炒", Calories: 45, Fat: 5},
	PanFried:  {Name: "煎/烤", Calories: 30, Fat: 3},
	DeepFried: {Name: "油炸", Calories: 135, Fat: 15},
}

func (m CookingMethod) Valid() bool {
	_, ok := modifiers[m]
	return ok
}

// ModifierFor returns the delta for a method. Unknown methods behave like
// original.
func ModifierFor(m CookingMethod) Modifier {
	if mod, ok := modifiers[m]; ok {
		return mod
	}
	return modifiers[Original]
}
