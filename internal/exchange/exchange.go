// internal/exchange/exchange.go
package exchange

// Category is a food-exchange group.
type Category string

const (
	Staple    Category = "staple"
	Meat      Category = "meat"
	Vegetable Category = "vegetable"
	Fruit     Category = "fruit"
	Dairy     Category = "dairy"
	Fat       Category = "fat"
	Other     Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{Staple, Meat, Vegetable, Fruit, Dairy, Fat, Other}

func (c Category) Valid() bool {
	switch c {
	case Staple, Meat, Vegetable, Fruit, Dairy, Fat, Other:
		return true
	}
	return false
}

// Label returns the category name used in portion descriptions.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return categoryLabels[Other]
}

var categoryLabels = map[Category]string{
	Staple:    "全穀雜糧",
	Meat:      "豆魚蛋肉",
	Vegetable: "蔬菜",
	Fruit:     "水果",
	Dairy:     "乳品",
	Fat:       "油脂與堅果",
	Other:     "其他",
}

// FatLevel selects the exchange row within meat or dairy.
type FatLevel string

const (
	MeatLow    FatLevel = "low"
	MeatMedium FatLevel = "medium"
	MeatHigh   FatLevel = "high"

	DairyFull FatLevel = "full"
	DairyLow  FatLevel = "low"
	DairySkim FatLevel = "skim"
)

var (
	MeatFatLevels  = []FatLevel{MeatLow, MeatMedium, MeatHigh}
	DairyFatLevels = []FatLevel{DairyFull, DairyLow, DairySkim}
)

// ValidFor reports whether the level applies to the category. Only meat and
// dairy carry fat levels.
func (l FatLevel) ValidFor(c Category) bool {
	switch c {
	case Meat:
		_, ok := meatExchange[l]
		return ok
	case Dairy:
		_, ok := dairyExchange[l]
		return ok
	}
	return false
}

// Value is the nutrient content of one exchange portion.
type Value struct {
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
	Calories float64 `json:"calories"`
}

// Scale multiplies every nutrient by n portions.
func (v Value) Scale(n float64) Value {
	return Value{
		Protein:  v.Protein * n,
		Fat:      v.Fat * n,
		Carbs:    v.Carbs * n,
		Calories: v.Calories * n,
	}
}

func (v Value) Add(o Value) Value {
	return Value{
		Protein:  v.Protein + o.Protein,
		Fat:      v.Fat + o.Fat,
		Carbs:    v.Carbs + o.Carbs,
		Calories: v.Calories + o.Calories,
	}
}

// Exchange standards, Taiwan Health Promotion Administration 2019.5 table.
var (
	// 1 portion = 240 ml milk
	dairyExchange = map[FatLevel]Value{
		DairyFull: {Protein: 8, Fat: 8, Carbs: 12, Calories: 150},
		DairyLow:  {Protein: 8, Fat: 4, Carbs: 12, Calories: 120},
		DairySkim: {Protein: 8, Fat: 0, Carbs: 12, Calories: 80},
	}

	// 1 portion = ~35 g lean meat or one 55 g egg
	meatExchange = map[FatLevel]Value{
		MeatLow:    {Protein: 7, Fat: 3, Carbs: 0, Calories: 55},
		MeatMedium: {Protein: 7, Fat: 5, Carbs: 0, Calories: 75},
		MeatHigh:   {Protein: 7, Fat: 10, Carbs: 0, Calories: 120},
	}

	StapleExchange    = Value{Protein: 2, Fat: 0, Carbs: 15, Calories: 70}
	VegetableExchange = Value{Protein: 1, Fat: 0, Carbs: 5, Calories: 25}
	FruitExchange     = Value{Protein: 0, Fat: 0, Carbs: 15, Calories: 60}
	FatExchange       = Value{Protein: 0, Fat: 5, Carbs: 0, Calories: 45}
)

// DefaultMeatLevel and DefaultDairyLevel are used when a food or target
// carries no fat level.
const (
	DefaultMeatLevel  = MeatMedium
	DefaultDairyLevel = DairyLow
)

// Standard returns the exchange value for a category and optional fat level.
// Missing or unknown levels fall back to medium-fat meat and low-fat dairy;
// the other category yields zero.
func Standard(c Category, level FatLevel) Value {
	switch c {
	case Dairy:
		if v, ok := dairyExchange[level]; ok {
			return v
		}
		return dairyExchange[DefaultDairyLevel]
	case Meat:
		if v, ok := meatExchange[level]; ok {
			return v
		}
		return meatExchange[DefaultMeatLevel]
	case Staple:
		return StapleExchange
	case Vegetable:
		return VegetableExchange
	case Fruit:
		return FruitExchange
	case Fat:
		return FatExchange
	}
	return Value{}
}

// Portion is the reference serving for a category.
type Portion struct {
	Size float64 `json:"size"`
	Unit string  `json:"unit"`
}

var defaultPortions = map[Category]Portion{
	Dairy:     {Size: 240, Unit: "ml"},
	Meat:      {Size: 35, Unit: "g"},
	Staple:    {Size: 40, Unit: "g"},
	Vegetable: {Size: 100, Unit: "g"},
	Fruit:     {Size: 100, Unit: "g"},
	Fat:       {Size: 10, Unit: "g"},
	Other:     {Size: 100, Unit: "g"},
}

// DefaultPortion returns the reference serving used when a catalog food is
// created without explicit portion data.
func DefaultPortion(c Category) Portion {
	if p, ok := defaultPortions[c]; ok {
		return p
	}
	return defaultPortions[Other]
}
