package catalog

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"mcp-menu-planner/internal/exchange"
	"mcp-menu-planner/internal/models"
)

func TestCatalog(t *testing.T) {
	c := New([]models.FoodItem{
		{ID: "3", Name: "燙青菜", Category: exchange.Vegetable},
		{ID: "2", Name: "雞胸肉", Category: exchange.Meat},
		{ID: "1", Name: "白飯", Category: exchange.Staple},
		{ID: "11", Name: "糙米飯", Category: exchange.Staple},
		{ID: "2", Name: "雞胸肉 (去皮)", Category: exchange.Meat},
	})

	if c.Len() != 4 {
		t.Fatalf("len = %d, want 4", c.Len())
	}
	if f, ok := c.Food("2"); !ok || f.Name != "雞胸肉 (去皮)" {
		t.Errorf("Food(2) = %+v, %v", f, ok)
	}
	if _, ok := c.Food("missing"); ok {
		t.Error("expected missing food to be absent")
	}

	all := c.List("")
	var ids []string
	for _, f := range all {
		ids = append(ids, f.ID)
	}
	if got := strings.Join(ids, ","); got != "1,11,2,3" {
		t.Errorf("order = %s, want 1,11,2,3", got)
	}
	if staples := c.List(exchange.Staple); len(staples) != 2 {
		t.Errorf("staples = %+v", staples)
	}

	var nilCatalog *Catalog
	if _, ok := nilCatalog.Food("1"); ok || nilCatalog.Len() != 0 {
		t.Error("nil catalog should be empty")
	}
}

func TestParseFoodsCSV(t *testing.T) {
	data := "id,name,category,fat_level,portion_size,portion_unit,calories,protein,carbs,fat\n" +
		"2,雞胸肉,meat,low,30,g,,,,\n" +
		"9,鮭魚,Meat,medium,35,g,80,7,0,6\n" +
		",地瓜,staple,,,,,,,\n"

	foods, err := ParseFoodsCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(foods) != 3 {
		t.Fatalf("expected 3 foods, got %d", len(foods))
	}

	chicken := foods[0]
	if chicken.CaloriesPerPortion != 55 || chicken.ProteinPerPortion != 7 || chicken.FatPerPortion != 3 ||
		chicken.FatLevel != exchange.MeatLow || chicken.PortionSize != 30 {
		t.Errorf("chicken = %+v", chicken)
	}

	salmon := foods[1]
	if salmon.Category != exchange.Meat || salmon.CaloriesPerPortion != 80 || salmon.FatPerPortion != 6 {
		t.Errorf("salmon = %+v", salmon)
	}

	potato := foods[2]
	if potato.ID == "" {
		t.Error("expected generated id")
	}
	if potato.CaloriesPerPortion != 70 || potato.CarbsPerPortion != 15 || potato.PortionSize != 40 || potato.PortionUnit != "g" {
		t.Errorf("sweet potato = %+v", potato)
	}
}

func TestParseFoodsCSV_ColumnOrder(t *testing.T) {
	data := "category,name\nfruit,蘋果\n"
	foods, err := ParseFoodsCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(foods) != 1 || foods[0].Name != "蘋果" || foods[0].CaloriesPerPortion != 60 {
		t.Errorf("foods = %+v", foods)
	}
}

func TestParseFoodsCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"empty input", "", "reading header"},
		{"missing category column", "id,name\n1,白飯\n", `missing "category"`},
		{"invalid category", "name,category\n白飯,staple\n可樂,drink\n", "row 3: invalid category"},
		{"bad fat level", "name,category,fat_level\n雞胸肉,meat,skim\n", "row 2: fat level"},
		{"bad number", "name,category,calories\n白飯,staple,abc\n", "row 2: parsing calories"},
		{"negative number", "name,category,fat\n白飯,staple,-1\n", "row 2: fat must not be negative"},
		{"missing name", "name,category\n,staple\n", "row 2: name is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFoodsCSV(strings.NewReader(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestSeed(t *testing.T) {
	foods, err := Seed()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := New(foods)
	if c.Len() != 21 {
		t.Errorf("seed has %d foods, want 21", c.Len())
	}
	for _, id := range []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "15", "20"} {
		if _, ok := c.Food(id); !ok {
			t.Errorf("seed food %s missing", id)
		}
	}
	if milk, _ := c.Food("7"); milk.FatLevel != exchange.DairyLow || milk.CaloriesPerPortion != 120 {
		t.Errorf("milk = %+v", milk)
	}
}

func TestWriteFoodsCSV_RoundTrip(t *testing.T) {
	foods, err := Seed()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteFoodsCSV(&buf, foods); err != nil {
		t.Fatalf("write: %v", err)
	}
	again, err := ParseFoodsCSV(&buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(again) != len(foods) {
		t.Fatalf("round trip lost foods: %d vs %d", len(again), len(foods))
	}
	for i := range foods {
		if again[i] != foods[i] {
			t.Errorf("food %d: %+v vs %+v", i, again[i], foods[i])
		}
	}
}

type recordingSink struct {
	mu    sync.Mutex
	foods []models.FoodItem
	calls chan struct{}
}

func (s *recordingSink) UpsertFoods(_ context.Context, foods []models.FoodItem) (int, error) {
	s.mu.Lock()
	s.foods = append(s.foods, foods...)
	s.mu.Unlock()
	select {
	case s.calls <- struct{}{}:
	default:
	}
	return len(foods), nil
}

func (s *recordingSink) names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, f := range s.foods {
		out = append(out, f.Name)
	}
	return out
}

func TestWatcher_LoadExisting(t *testing.T) {
	dir := t.TempDir()
	must(t, os.WriteFile(filepath.Join(dir, "foods.csv"), []byte("name,category\n白飯,staple\n"), 0o644))
	must(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	must(t, os.WriteFile(filepath.Join(dir, "broken.csv"), []byte("name,category\n可樂,drink\n"), 0o644))

	sink := &recordingSink{calls: make(chan struct{}, 8)}
	w, err := NewWatcher(dir, sink)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	if err := w.LoadExisting(context.Background()); err != nil {
		t.Fatalf("load existing: %v", err)
	}
	if got := sink.names(); len(got) != 1 || got[0] != "白飯" {
		t.Errorf("imported = %v", got)
	}
}

func TestWatcher_Watch(t *testing.T) {
	dir := t.TempDir()
	sink := &recordingSink{calls: make(chan struct{}, 8)}
	w, err := NewWatcher(dir, sink)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Watch(ctx)
		close(done)
	}()

	must(t, os.WriteFile(filepath.Join(dir, "new.csv"), []byte("name,category\n蘋果,fruit\n"), 0o644))

	select {
	case <-sink.calls:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for import")
	}
	found := false
	for _, n := range sink.names() {
		if n == "蘋果" {
			found = true
		}
	}
	if !found {
		t.Errorf("imported = %v", sink.names())
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}

func TestNewWatcher_MissingDir(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "missing"), &recordingSink{}); err == nil {
		t.Error("expected error for missing directory")
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
