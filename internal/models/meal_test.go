package models

import (
	"encoding/json"
	"fmt"
	"testing"
)

func floatPtr(v float64) *float64 { return &v }

func TestPortionQuantity(t *testing.T) {
	tests := []struct {
		name  string
		entry MenuEntry
		want  float64
	}{
		{"portion value wins", MenuEntry{Amount: 1, PortionValue: floatPtr(2.5)}, 2.5},
		{"no portion value", MenuEntry{Amount: 3}, 3},
		{"zero portion value falls back", MenuEntry{Amount: 1.5, PortionValue: floatPtr(0)}, 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.PortionQuantity(); got != tt.want {
				t.Errorf("PortionQuantity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeMealShapes(t *testing.T) {
	t.Run("tagged single", func(t *testing.T) {
		m, err := DecodeMeal([]byte(`{"mode":"single","entries":[{"id":"e1","food_id":"f1","amount":2}]}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		single, ok := m.(*SingleMeal)
		if !ok || len(single.Entries) != 1 || single.Entries[0].Amount != 2 {
			t.Fatalf("unexpected meal %#v", m)
		}
	})

	t.Run("tagged choice", func(t *testing.T) {
		m, err := DecodeMeal([]byte(`{"mode":"choice","options":[{"id":"a","label":"A","entries":[]},{"id":"b","label":"B","entries":[]}]}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		choice, ok := m.(*ChoiceMeal)
		if !ok || len(choice.Options) != 2 {
			t.Fatalf("unexpected meal %#v", m)
		}
	})

	t.Run("legacy bare array", func(t *testing.T) {
		m, err := DecodeMeal([]byte(`[{"id":"e1","food_id":"f1","amount":1}]`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m.Mode() != SingleMode || len(m.(*SingleMeal).Entries) != 1 {
			t.Fatalf("unexpected meal %#v", m)
		}
	})

	t.Run("legacy enabled choice ignores entries", func(t *testing.T) {
		m, err := DecodeMeal([]byte(`{"entries":[{"id":"x"}],"choice":{"enabled":true,"options":[{"id":"a","label":"A","entries":[{"id":"y"}]}]}}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		choice, ok := m.(*ChoiceMeal)
		if !ok || len(choice.Options) != 1 || choice.Options[0].Entries[0].ID != "y" {
			t.Fatalf("unexpected meal %#v", m)
		}
	})

	t.Run("legacy disabled choice is single", func(t *testing.T) {
		m, err := DecodeMeal([]byte(`{"entries":[{"id":"x"}],"choice":{"enabled":false,"options":[{"id":"a"}]}}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		single, ok := m.(*SingleMeal)
		if !ok || len(single.Entries) != 1 {
			t.Fatalf("unexpected meal %#v", m)
		}
	})

	t.Run("null", func(t *testing.T) {
		m, err := DecodeMeal([]byte(`null`))
		if err != nil || m.Mode() != SingleMode {
			t.Fatalf("got %v, %v", m, err)
		}
	})

	t.Run("unknown mode", func(t *testing.T) {
		if _, err := DecodeMeal([]byte(`{"mode":"buffet"}`)); err == nil {
			t.Fatal("expected error for unknown mode")
		}
	})
}

func TestDailyItemsRoundTrip(t *testing.T) {
	day := NewDay()
	day[Breakfast] = &SingleMeal{Entries: []MenuEntry{{ID: "e1", FoodID: "rice", Amount: 2, PortionValue: floatPtr(2)}}}
	day[Lunch] = &ChoiceMeal{Options: []MealChoiceOption{
		{ID: "a", Label: "選項 A", Entries: []MenuEntry{{ID: "e2", FoodID: "chicken", Amount: 1}}},
	}}

	data, err := json.Marshal(day)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded DailyItems
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded.Meal(Breakfast).Mode() != SingleMode {
		t.Errorf("breakfast mode = %s", decoded.Meal(Breakfast).Mode())
	}
	lunch, ok := decoded.Meal(Lunch).(*ChoiceMeal)
	if !ok || lunch.Options[0].Entries[0].FoodID != "chicken" {
		t.Errorf("lunch not preserved: %#v", decoded.Meal(Lunch))
	}
	for _, mt := range MealTypes {
		if _, ok := decoded[mt]; !ok {
			t.Errorf("slot %s missing after decode", mt)
		}
	}
}

func TestDailyItemsDecodeFillsMissingSlots(t *testing.T) {
	var day DailyItems
	if err := json.Unmarshal([]byte(`{"breakfast":[]}`), &day); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(day) != len(MealTypes) {
		t.Fatalf("expected %d slots, got %d", len(MealTypes), len(day))
	}
}

func TestCloneAssignsFreshIDs(t *testing.T) {
	n := 0
	newID := func() string { n++; return fmt.Sprintf("id-%d", n) }

	day := NewDay()
	day[Dinner] = &ChoiceMeal{Options: []MealChoiceOption{
		{ID: "a", Label: "A", Entries: []MenuEntry{{ID: "e1", PortionValue: floatPtr(1)}}},
	}}

	clone := day.Clone(newID)
	opt := clone.Meal(Dinner).(*ChoiceMeal).Options[0]
	if opt.ID == "a" || opt.Entries[0].ID == "e1" {
		t.Fatalf("clone kept original IDs: %+v", opt)
	}
	*opt.Entries[0].PortionValue = 9
	if *day.Meal(Dinner).(*ChoiceMeal).Options[0].Entries[0].PortionValue != 1 {
		t.Fatal("clone shares portion value with original")
	}
}

func TestDailyItemsNilMeals(t *testing.T) {
	var single *SingleMeal
	var choice *ChoiceMeal
	day := NewDay()
	day[Breakfast] = single
	day[Lunch] = choice
	day[Snack] = nil

	for _, mt := range []MealType{Breakfast, Lunch, Snack} {
		m, ok := day.Meal(mt).(*SingleMeal)
		if !ok || m == nil || len(m.Entries) != 0 {
			t.Errorf("Meal(%s) = %#v, want empty single meal", mt, day.Meal(mt))
		}
	}

	clone := day.Clone(func() string { return "x" })
	if clone.Meal(Lunch).Mode() != SingleMode {
		t.Errorf("cloned nil slot mode = %s", clone.Meal(Lunch).Mode())
	}
	if _, ok := single.Clone(nil).(*SingleMeal); !ok {
		t.Error("nil single meal should clone to an empty single meal")
	}
	if c, ok := choice.Clone(nil).(*ChoiceMeal); !ok || len(c.Options) != 0 {
		t.Error("nil choice meal should clone to an empty choice meal")
	}

	data, err := json.Marshal(day)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back DailyItems
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal %s: %v", data, err)
	}
	if back.Meal(Breakfast).Mode() != SingleMode {
		t.Errorf("breakfast mode after round trip = %s", back.Meal(Breakfast).Mode())
	}

	mealJSON, err := choice.MarshalJSON()
	if err != nil || string(mealJSON) != `{"mode":"choice","options":[]}` {
		t.Errorf("nil choice meal JSON = %s, %v", mealJSON, err)
	}
}
