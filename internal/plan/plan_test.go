package plan

import (
	"errors"
	"testing"

	"mcp-menu-planner/internal/exchange"
	"mcp-menu-planner/internal/models"
	"mcp-menu-planner/internal/planner"
)

var (
	rice    = models.NewFoodFromStandard("white-rice", "白飯", exchange.Staple, "")
	chicken = models.NewFoodFromStandard("chicken-breast", "雞胸肉", exchange.Meat, exchange.MeatLow)
	milk    = models.NewFoodFromStandard("low-fat-milk", "低脂鮮乳", exchange.Dairy, exchange.DairyLow)
)

func entriesOf(t *testing.T, p *models.MenuPlan, day int, mt models.MealType) []models.MenuEntry {
	t.Helper()
	single, ok := p.Days[day].Meal(mt).(*models.SingleMeal)
	if !ok {
		t.Fatalf("meal %s of day %d is not single", mt, day)
	}
	return single.Entries
}

func choiceOf(t *testing.T, p *models.MenuPlan, day int, mt models.MealType) *models.ChoiceMeal {
	t.Helper()
	choice, ok := p.Days[day].Meal(mt).(*models.ChoiceMeal)
	if !ok {
		t.Fatalf("meal %s of day %d is not in choice mode", mt, day)
	}
	return choice
}

func TestNewPlan(t *testing.T) {
	p := NewPlan("")

	if p.ID == "" || p.Name != DefaultName {
		t.Errorf("id/name = %q/%q", p.ID, p.Name)
	}
	if p.TargetCalories != 1500 || p.MacroRatio != (models.MacroRatio{Protein: 20, Carbs: 50, Fat: 30}) {
		t.Errorf("targets = %v %+v", p.TargetCalories, p.MacroRatio)
	}
	if len(p.Days) != 1 || len(p.Notes) != 1 || p.CycleDays != 1 || p.Type != models.SinglePlan {
		t.Errorf("days=%d notes=%d cycle=%d type=%s", len(p.Days), len(p.Notes), p.CycleDays, p.Type)
	}
	want := map[exchange.Category]float64{
		exchange.Staple: 3, exchange.Meat: 5, exchange.Vegetable: 3, exchange.Fruit: 2,
		exchange.Dairy: 1, exchange.Fat: 3, exchange.Other: 0,
	}
	for c, v := range want {
		if p.TargetPortions.Portions[c] != v {
			t.Errorf("portion %s = %v, want %v", c, p.TargetPortions.Portions[c], v)
		}
	}
	if NewPlan("a").ID == NewPlan("b").ID {
		t.Error("plan IDs should be unique")
	}
}

func TestAddEntry(t *testing.T) {
	tests := []struct {
		name      string
		food      models.FoodItem
		desc      string
		wantDesc  string
		wantValue float64
	}{
		{"appends label", rice, "1.5", "1.5 份全穀雜糧", 1.5},
		{"keeps existing marker", chicken, "2份", "2份", 2},
		{"non-numeric falls back to amount", milk, "一杯", "一杯 份乳品", 1},
		{"empty description", rice, "", "1 份全穀雜糧", 1},
		{"zero falls back to amount", rice, "0", "0 份全穀雜糧", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlan("test")
			e, err := AddEntry(p, 0, models.Lunch, tt.food, exchange.Boiled, tt.desc, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if e.Amount != tt.wantValue || e.FoodID != tt.food.ID || e.CookingMethod != exchange.Boiled {
				t.Errorf("entry = %+v", e)
			}
			if e.PortionDescription != tt.wantDesc {
				t.Errorf("description = %q, want %q", e.PortionDescription, tt.wantDesc)
			}
			if e.PortionValue == nil || *e.PortionValue != tt.wantValue {
				t.Errorf("portion value = %v, want %v", e.PortionValue, tt.wantValue)
			}
			got := entriesOf(t, p, 0, models.Lunch)
			if len(got) != 1 || got[0].ID != e.ID {
				t.Errorf("lunch entries = %+v", got)
			}
		})
	}
}

func TestAddEntry_Errors(t *testing.T) {
	p := NewPlan("test")

	if _, err := AddEntry(p, 3, models.Lunch, rice, "", "1", nil); !errors.Is(err, ErrDayOutOfRange) {
		t.Errorf("expected ErrDayOutOfRange, got %v", err)
	}
	if _, err := AddEntry(p, 0, "brunch", rice, "", "1", nil); !errors.Is(err, ErrUnknownMeal) {
		t.Errorf("expected ErrUnknownMeal, got %v", err)
	}
	if _, err := AddEntry(p, 0, models.Lunch, rice, "grilled", "1", nil); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
}

func TestAddEntry_ChoiceMode(t *testing.T) {
	p := NewPlan("test")
	first, err := ToggleChoiceMode(p, 0, models.Dinner)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	second, err := AddChoiceOption(p, 0, models.Dinner)
	if err != nil {
		t.Fatalf("add option: %v", err)
	}

	if _, err := AddEntry(p, 0, models.Dinner, rice, "", "1", nil); err != nil {
		t.Fatalf("add without active: %v", err)
	}
	active := &planner.ActiveChoice{Day: 0, Meal: models.Dinner, OptionID: second.ID}
	if _, err := AddEntry(p, 0, models.Dinner, chicken, "", "1", active); err != nil {
		t.Fatalf("add with active: %v", err)
	}
	otherMeal := &planner.ActiveChoice{Day: 0, Meal: models.Lunch, OptionID: second.ID}
	if _, err := AddEntry(p, 0, models.Dinner, milk, "", "1", otherMeal); err != nil {
		t.Fatalf("add with other meal active: %v", err)
	}

	choice := choiceOf(t, p, 0, models.Dinner)
	a, _ := choice.Option(first)
	b, _ := choice.Option(second.ID)
	if len(a.Entries) != 2 || a.Entries[0].FoodID != rice.ID || a.Entries[1].FoodID != milk.ID {
		t.Errorf("option A entries = %+v", a.Entries)
	}
	if len(b.Entries) != 1 || b.Entries[0].FoodID != chicken.ID {
		t.Errorf("option B entries = %+v", b.Entries)
	}
}

func TestAddCustomEntry(t *testing.T) {
	p := NewPlan("test")
	n := models.NutritionTotals{Calories: 300, Protein: 20, Carbs: 10, Fat: 18}

	e, err := AddCustomEntry(p, 0, models.Snack, "宮保雞丁", n, 0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.IsCustom() || e.Amount != 1 || *e.Custom != n {
		t.Errorf("entry = %+v", e)
	}
	if _, err := AddCustomEntry(p, 0, models.Snack, "  ", n, 1, nil); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
}

func TestRemoveEntry(t *testing.T) {
	p := NewPlan("test")
	e1, _ := AddEntry(p, 0, models.Breakfast, rice, "", "1", nil)
	e2, _ := AddEntry(p, 0, models.Breakfast, chicken, "", "1", nil)

	if err := RemoveEntry(p, 0, models.Breakfast, e1.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := entriesOf(t, p, 0, models.Breakfast)
	if len(got) != 1 || got[0].ID != e2.ID {
		t.Errorf("entries = %+v", got)
	}
	if err := RemoveEntry(p, 0, models.Breakfast, e1.ID); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}

	t.Run("choice mode", func(t *testing.T) {
		optA, _ := ToggleChoiceMode(p, 0, models.Breakfast)
		if err := RemoveEntry(p, 0, models.Breakfast, e2.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		opt, _ := choiceOf(t, p, 0, models.Breakfast).Option(optA)
		if len(opt.Entries) != 0 {
			t.Errorf("option entries = %+v", opt.Entries)
		}
	})
}

func TestEntryAmountMatchesPortionValue(t *testing.T) {
	p := NewPlan("test")
	e, err := AddEntry(p, 0, models.Breakfast, chicken, exchange.Original, "2", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Amount != *e.PortionValue {
		t.Errorf("after add: amount %v, portion value %v", e.Amount, *e.PortionValue)
	}
	stats := planner.Aggregate(entriesOf(t, p, 0, models.Breakfast), planner.LookupFunc(func(id string) (models.FoodItem, bool) {
		return chicken, id == chicken.ID
	}))
	if stats.Totals.Calories != 2*chicken.CaloriesPerPortion || stats.Portions[exchange.Meat] != 2 {
		t.Errorf("priced %v kcal for %v meat portions", stats.Totals.Calories, stats.Portions[exchange.Meat])
	}

	e, _ = UpdateEntryField(p, 0, models.Breakfast, e.ID, FieldAmount, "1.5")
	if e.Amount != 1.5 || *e.PortionValue != 1.5 {
		t.Errorf("after amount edit: amount %v, portion value %v", e.Amount, *e.PortionValue)
	}
}

func TestUpdateEntryField(t *testing.T) {
	p := NewPlan("test")
	e, _ := AddEntry(p, 0, models.Lunch, rice, "", "1", nil)

	got, err := UpdateEntryField(p, 0, models.Lunch, e.ID, FieldPortionDescription, "2.5 碗")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.PortionDescription != "2.5 碗" || *got.PortionValue != 2.5 || got.Amount != 2.5 {
		t.Errorf("after numeric description: %+v", got)
	}

	got, _ = UpdateEntryField(p, 0, models.Lunch, e.ID, FieldPortionDescription, "半碗")
	if got.PortionDescription != "半碗" || *got.PortionValue != 2.5 || got.Amount != 2.5 {
		t.Errorf("non-numeric description should keep numbers: %+v", got)
	}

	got, _ = UpdateEntryField(p, 0, models.Lunch, e.ID, FieldCookingMethod, string(exchange.DeepFried))
	if got.CookingMethod != exchange.DeepFried {
		t.Errorf("cooking method = %s", got.CookingMethod)
	}

	got, _ = UpdateEntryField(p, 0, models.Lunch, e.ID, FieldAmount, "3")
	if got.Amount != 3 || got.PortionValue == nil || *got.PortionValue != 3 {
		t.Errorf("amount edit should move the portion value too: %+v", got)
	}

	got, _ = UpdateEntryField(p, 0, models.Lunch, e.ID, FieldAmount, "abc")
	if got.Amount != 0 || *got.PortionValue != 0 {
		t.Errorf("invalid amount should commit as 0, got %+v", got)
	}

	got, _ = UpdateEntryField(p, 0, models.Lunch, e.ID, FieldCustomName, "糙米飯")
	if got.CustomName != "糙米飯" {
		t.Errorf("custom name = %q", got.CustomName)
	}

	stored := entriesOf(t, p, 0, models.Lunch)[0]
	if stored.CustomName != "糙米飯" || stored.CookingMethod != exchange.DeepFried {
		t.Errorf("update not stored in plan: %+v", stored)
	}

	if _, err := UpdateEntryField(p, 0, models.Lunch, e.ID, "food_id", "x"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
	if _, err := UpdateEntryField(p, 0, models.Lunch, e.ID, FieldCookingMethod, "grilled"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
	if _, err := UpdateEntryField(p, 0, models.Lunch, "missing", FieldAmount, "1"); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestToggleChoiceMode(t *testing.T) {
	p := NewPlan("test")
	e, _ := AddEntry(p, 0, models.Lunch, rice, "", "1", nil)

	active, err := ToggleChoiceMode(p, 0, models.Lunch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	choice := choiceOf(t, p, 0, models.Lunch)
	if len(choice.Options) != 1 || choice.Options[0].ID != active || choice.Options[0].Label != "選項 A" {
		t.Fatalf("options = %+v", choice.Options)
	}
	if len(choice.Options[0].Entries) != 1 || choice.Options[0].Entries[0].ID != e.ID {
		t.Errorf("entries not moved into option A: %+v", choice.Options[0].Entries)
	}

	opt, _ := AddChoiceOption(p, 0, models.Lunch)
	AddEntry(p, 0, models.Lunch, chicken, "", "1", &planner.ActiveChoice{Meal: models.Lunch, OptionID: opt.ID})

	active, err = ToggleChoiceMode(p, 0, models.Lunch)
	if err != nil || active != "" {
		t.Fatalf("toggle back = %q, %v", active, err)
	}
	got := entriesOf(t, p, 0, models.Lunch)
	if len(got) != 1 || got[0].ID != e.ID {
		t.Errorf("flattened entries = %+v", got)
	}
}

func TestChoiceOptions(t *testing.T) {
	p := NewPlan("test")

	if _, err := AddChoiceOption(p, 0, models.Lunch); !errors.Is(err, ErrNotChoiceMode) {
		t.Fatalf("expected ErrNotChoiceMode, got %v", err)
	}

	first, _ := ToggleChoiceMode(p, 0, models.Lunch)
	for i := 1; i < models.MaxChoiceOptions; i++ {
		opt, err := AddChoiceOption(p, 0, models.Lunch)
		if err != nil {
			t.Fatalf("option %d: %v", i, err)
		}
		if opt.Label != OptionLabel(i) {
			t.Errorf("label = %q, want %q", opt.Label, OptionLabel(i))
		}
	}
	if _, err := AddChoiceOption(p, 0, models.Lunch); !errors.Is(err, ErrTooManyOptions) {
		t.Errorf("expected ErrTooManyOptions, got %v", err)
	}
	if OptionLabel(5) != "選項 F" {
		t.Errorf("label 5 = %q", OptionLabel(5))
	}

	if err := RenameChoiceOption(p, 0, models.Lunch, first, "想吃麵"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if opt, _ := choiceOf(t, p, 0, models.Lunch).Option(first); opt.Label != "想吃麵" {
		t.Errorf("label = %q", opt.Label)
	}
	if err := RenameChoiceOption(p, 0, models.Lunch, "missing", "x"); !errors.Is(err, ErrOptionNotFound) {
		t.Errorf("expected ErrOptionNotFound, got %v", err)
	}

	second := choiceOf(t, p, 0, models.Lunch).Options[1].ID
	next, err := RemoveChoiceOption(p, 0, models.Lunch, first, first)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if next != second {
		t.Errorf("next active = %q, want %q", next, second)
	}
	third := choiceOf(t, p, 0, models.Lunch).Options[1].ID
	if next, _ := RemoveChoiceOption(p, 0, models.Lunch, third, second); next != second {
		t.Errorf("removing an inactive option changed the active one: %q", next)
	}

	if _, err := SelectChoiceOption(p, 0, models.Lunch, second); err != nil {
		t.Errorf("select: %v", err)
	}
	if _, err := SelectChoiceOption(p, 0, models.Lunch, first); !errors.Is(err, ErrOptionNotFound) {
		t.Errorf("expected ErrOptionNotFound, got %v", err)
	}
}

func TestRemoveLastChoiceOption(t *testing.T) {
	p := NewPlan("test")
	only, _ := ToggleChoiceMode(p, 0, models.Snack)

	next, err := RemoveChoiceOption(p, 0, models.Snack, only, only)
	if err != nil || next != "" {
		t.Errorf("remove last = %q, %v", next, err)
	}
	if _, err := AddEntry(p, 0, models.Snack, rice, "", "1", nil); err != nil {
		t.Fatalf("add to empty choice: %v", err)
	}
	if n := len(choiceOf(t, p, 0, models.Snack).Options); n != 1 {
		t.Errorf("expected option A to be recreated, got %d options", n)
	}
}

func TestSetDays(t *testing.T) {
	p := NewPlan("test")

	if err := SetDays(p, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Days) != 5 || len(p.Notes) != 5 || p.CycleDays != 5 {
		t.Errorf("days=%d notes=%d cycle=%d", len(p.Days), len(p.Notes), p.CycleDays)
	}
	if err := SetDays(p, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Days) != 2 || len(p.Notes) != 2 {
		t.Errorf("days=%d notes=%d", len(p.Days), len(p.Notes))
	}

	for _, n := range []int{0, -1, 31} {
		if err := SetDays(p, n); !errors.Is(err, ErrInvalidDayCount) {
			t.Errorf("SetDays(%d) = %v, want ErrInvalidDayCount", n, err)
		}
	}
}

func TestCopyDay(t *testing.T) {
	p := NewPlan("test")
	e, _ := AddEntry(p, 0, models.Breakfast, chicken, exchange.StirFried, "2", nil)
	ToggleChoiceMode(p, 0, models.Dinner)
	UpdateNote(p, 0, "少油少鹽")

	if err := CopyDay(p, 0, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Days) != 3 || p.CycleDays != 3 || p.Type != models.CyclePlan {
		t.Errorf("days=%d cycle=%d type=%s", len(p.Days), p.CycleDays, p.Type)
	}
	if p.Notes[2] != "少油少鹽" || p.Notes[1] != "" {
		t.Errorf("notes = %q", p.Notes)
	}

	copied := entriesOf(t, p, 2, models.Breakfast)
	if len(copied) != 1 || copied[0].ID == e.ID || copied[0].FoodID != chicken.ID || copied[0].CookingMethod != exchange.StirFried {
		t.Errorf("copied entries = %+v", copied)
	}
	src := choiceOf(t, p, 0, models.Dinner)
	dst := choiceOf(t, p, 2, models.Dinner)
	if dst.Options[0].ID == src.Options[0].ID {
		t.Error("copied option kept its ID")
	}

	*copied[0].PortionValue = 9
	if *entriesOf(t, p, 0, models.Breakfast)[0].PortionValue != 2 {
		t.Error("copy shares portion value with source")
	}

	if err := CopyDay(p, 0, 31); !errors.Is(err, ErrDayOutOfRange) {
		t.Errorf("expected ErrDayOutOfRange, got %v", err)
	}
	if err := CopyDay(p, 7, 1); !errors.Is(err, ErrDayOutOfRange) {
		t.Errorf("expected ErrDayOutOfRange, got %v", err)
	}
}

func TestUpdateNote(t *testing.T) {
	p := NewPlan("test")
	p.Notes = nil

	if err := UpdateNote(p, 0, "多喝水"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Notes) != 1 || p.Notes[0] != "多喝水" {
		t.Errorf("notes = %q", p.Notes)
	}
	if err := UpdateNote(p, 1, "x"); !errors.Is(err, ErrDayOutOfRange) {
		t.Errorf("expected ErrDayOutOfRange, got %v", err)
	}
}

func TestSetTargets(t *testing.T) {
	p := NewPlan("test")
	ratio := models.MacroRatio{Protein: 30, Carbs: 40, Fat: 30}

	if err := SetTargets(p, 1800, ratio, models.Portions{exchange.Vegetable: 4, exchange.Fruit: -1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.TargetCalories != 1800 || p.MacroRatio != ratio {
		t.Errorf("targets = %v %+v", p.TargetCalories, p.MacroRatio)
	}
	if p.TargetPortions.Portions[exchange.Vegetable] != 4 || p.TargetPortions.Portions[exchange.Fruit] != 0 {
		t.Errorf("portions = %+v", p.TargetPortions.Portions)
	}

	if err := SetTargets(p, -1, ratio, nil); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
	if err := SetTargets(p, 1500, ratio, models.Portions{"protein": 1}); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
}

func TestSetTargetsMergesPortions(t *testing.T) {
	p := NewPlan("test")
	ratio := p.MacroRatio

	if err := SetTargets(p, 1500, ratio, models.Portions{exchange.Vegetable: 4}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := p.TargetPortions.Portions
	if got[exchange.Vegetable] != 4 || got[exchange.Fruit] != 2 || got[exchange.Dairy] != 1 {
		t.Errorf("partial update should keep the other goals: %+v", got)
	}
}

func TestSetTargetsDirectEditIsManual(t *testing.T) {
	p := NewPlan("test")
	planner.ApplyDerivation(p)
	meat := p.TargetPortions.Portions[exchange.Meat]

	edit := models.Portions{exchange.Staple: 12, exchange.Meat: meat}
	if err := SetTargets(p, p.TargetCalories, p.MacroRatio, edit); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if planner.ModeOf(p.Overrides, exchange.Staple) != models.ManualMode {
		t.Error("edited staple should be manual")
	}
	if planner.ModeOf(p.Overrides, exchange.Meat) != models.AutoMode {
		t.Error("unchanged meat should stay auto")
	}

	planner.ApplyDerivation(p)
	if got := p.TargetPortions.Portions[exchange.Staple]; got != 12 {
		t.Errorf("staple after derivation = %v, want 12", got)
	}
}

func TestApplyTemplate(t *testing.T) {
	p := NewPlan("test")
	AddEntry(p, 0, models.Snack, milk, "", "1", nil)

	tpl := models.MealTemplate{
		ID:         "tpl",
		Name:       "1500卡 減脂全日餐",
		Note:       "晚餐少澱粉",
		MacroRatio: models.MacroRatio{Protein: 25, Carbs: 45, Fat: 30},
		Items: []models.MealTemplateItem{
			{Meal: models.Breakfast, FoodID: rice.ID, Amount: 1, Method: "original", PortionDesc: "1份"},
			{Meal: models.Lunch, FoodID: chicken.ID, Amount: 2, Method: "stir_fried", PortionDesc: "2份"},
			{Meal: "brunch", FoodID: rice.ID, Amount: 0.5, Method: "grilled", PortionDesc: "半份"},
		},
	}
	if err := ApplyTemplate(p, 0, tpl); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n := len(entriesOf(t, p, 0, models.Snack)); n != 0 {
		t.Errorf("existing snack entries kept: %d", n)
	}
	breakfast := entriesOf(t, p, 0, models.Breakfast)
	if len(breakfast) != 2 || breakfast[1].CookingMethod != exchange.Original {
		t.Errorf("breakfast = %+v", breakfast)
	}
	lunch := entriesOf(t, p, 0, models.Lunch)
	if len(lunch) != 1 || lunch[0].Amount != 2 || *lunch[0].PortionValue != 2 || lunch[0].CookingMethod != exchange.StirFried {
		t.Errorf("lunch = %+v", lunch)
	}
	if p.Notes[0] != tpl.Note || p.MacroRatio != tpl.MacroRatio {
		t.Errorf("note/ratio = %q %+v", p.Notes[0], p.MacroRatio)
	}

	if err := ApplyTemplate(p, 4, tpl); !errors.Is(err, ErrDayOutOfRange) {
		t.Errorf("expected ErrDayOutOfRange, got %v", err)
	}
}

func TestDayAsTemplate(t *testing.T) {
	p := NewPlan("test")
	AddEntry(p, 0, models.Breakfast, rice, exchange.Boiled, "1", nil)
	AddCustomEntry(p, 0, models.Breakfast, "手作蛋餅", models.NutritionTotals{Calories: 250}, 1, nil)
	AddEntry(p, 0, models.Dinner, chicken, "", "2", nil)
	UpdateNote(p, 0, "多蔬菜")

	tpl, err := DayAsTemplate(p, 0, "我的腳本")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tpl.ID == "" || tpl.Name != "我的腳本" || tpl.Note != "多蔬菜" || tpl.MacroRatio != p.MacroRatio {
		t.Errorf("template = %+v", tpl)
	}
	if len(tpl.Items) != 2 {
		t.Fatalf("items = %+v", tpl.Items)
	}
	if tpl.Items[0].Meal != models.Breakfast || tpl.Items[0].Method != "boiled" || tpl.Items[1].Meal != models.Dinner {
		t.Errorf("items = %+v", tpl.Items)
	}

	// applying the captured template onto another day reproduces the catalog entries
	SetDays(p, 2)
	if err := ApplyTemplate(p, 1, tpl); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if n := len(entriesOf(t, p, 1, models.Breakfast)); n != 1 {
		t.Errorf("breakfast entries = %d, want 1", n)
	}

	if _, err := DayAsTemplate(p, 0, " "); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
}
