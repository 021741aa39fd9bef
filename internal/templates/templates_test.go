package templates

import (
	"strings"
	"testing"

	"mcp-menu-planner/internal/models"
)

func TestDefaults(t *testing.T) {
	tpls, err := Defaults()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tpls) != 3 {
		t.Fatalf("expected 3 templates, got %d", len(tpls))
	}

	want := []struct {
		id    string
		name  string
		ratio models.MacroRatio
		items int
	}{
		{"default_1", "1500卡 減脂全日餐", models.MacroRatio{Protein: 25, Carbs: 45, Fat: 30}, 10},
		{"default_2", "1800卡 增肌全日餐", models.MacroRatio{Protein: 30, Carbs: 40, Fat: 30}, 10},
		{"default_3", "糖尿病 控糖全日餐", models.MacroRatio{Protein: 20, Carbs: 45, Fat: 35}, 9},
	}
	for i, w := range want {
		got := tpls[i]
		if got.ID != w.id || got.Name != w.name || got.MacroRatio != w.ratio || len(got.Items) != w.items {
			t.Errorf("template %d = %s %q %+v (%d items), want %s %q %+v (%d items)",
				i, got.ID, got.Name, got.MacroRatio, len(got.Items), w.id, w.name, w.ratio, w.items)
		}
		if !strings.HasPrefix(got.Note, "【營養師叮嚀】\n1.") {
			t.Errorf("template %s note = %q", got.ID, got.Note)
		}
	}

	first := tpls[0].Items[0]
	if first.Meal != models.Breakfast || first.FoodID != "10" || first.Amount != 1.5 ||
		first.Method != "boiled" || first.PortionDesc != "1.5 份全穀" || first.CustomName != "蒸地瓜" {
		t.Errorf("first item = %+v", first)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"bad yaml", "templates: [", "failed to parse"},
		{"missing name", "templates:\n  - id: a\n", "id and name are required"},
		{"duplicate id", "templates:\n  - {id: a, name: x}\n  - {id: a, name: y}\n", "duplicate id"},
		{"unknown meal", "templates:\n  - id: a\n    name: x\n    items:\n      - {meal: brunch, food_id: \"1\"}\n", "unknown meal"},
		{"unknown method", "templates:\n  - id: a\n    name: x\n    items:\n      - {meal: lunch, food_id: \"1\", method: grilled}\n", "unknown cooking method"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Parse() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	doc := "templates:\n  - id: mine\n    name: 我的腳本\n    items:\n      - {meal: snack, food_id: \"5\", amount: 1}\n"
	tpls, err := Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tpls) != 1 || tpls[0].Items[0].Meal != models.Snack || tpls[0].Items[0].Amount != 1 {
		t.Errorf("templates = %+v", tpls)
	}
}
