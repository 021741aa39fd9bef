// internal/storage/sqlite.go
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"mcp-menu-planner/internal/exchange"
	"mcp-menu-planner/internal/models"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps :memory: databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	storage := &SQLiteStorage{db: db}
	if err := storage.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS foods (
        id TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        category TEXT NOT NULL,
        fat_level TEXT NOT NULL DEFAULT '',
        portion_size REAL NOT NULL,
        portion_unit TEXT NOT NULL,
        calories REAL NOT NULL,
        protein REAL NOT NULL,
        carbs REAL NOT NULL,
        fat REAL NOT NULL,
        created_at TEXT NOT NULL
    );

    CREATE TABLE IF NOT EXISTS plans (
        id TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        plan_type TEXT NOT NULL,
        cycle_days INTEGER NOT NULL,
        target_calories REAL NOT NULL,
        macro_ratio TEXT NOT NULL,
        target_portions TEXT NOT NULL,
        overrides TEXT NOT NULL,
        days TEXT NOT NULL,
        notes TEXT NOT NULL,
        created_at TEXT NOT NULL,
        updated_at TEXT NOT NULL
    );

    CREATE TABLE IF NOT EXISTS templates (
        id TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        note TEXT NOT NULL,
        macro_ratio TEXT NOT NULL,
        items TEXT NOT NULL,
        created_at TEXT NOT NULL
    );

    CREATE INDEX IF NOT EXISTS idx_foods_category ON foods(category);
    CREATE INDEX IF NOT EXISTS idx_plans_updated_at ON plans(updated_at);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// timeLayout has a fixed-width fraction so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// --------------------------------------------------
// Foods
// --------------------------------------------------

const foodColumns = `id, name, category, fat_level, portion_size, portion_unit, calories, protein, carbs, fat, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanFood(row scanner) (models.FoodItem, error) {
	var f models.FoodItem
	var category, level, createdAt string
	err := row.Scan(&f.ID, &f.Name, &category, &level, &f.PortionSize, &f.PortionUnit,
		&f.CaloriesPerPortion, &f.ProteinPerPortion, &f.CarbsPerPortion, &f.FatPerPortion, &createdAt)
	if err != nil {
		return f, err
	}
	f.Category = exchange.Category(category)
	f.FatLevel = exchange.FatLevel(level)
	if f.CreatedAt, err = parseTime(createdAt); err != nil {
		return f, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return f, nil
}

func foodArgs(f models.FoodItem) []any {
	return []any{f.ID, f.Name, string(f.Category), string(f.FatLevel), f.PortionSize, f.PortionUnit,
		f.CaloriesPerPortion, f.ProteinPerPortion, f.CarbsPerPortion, f.FatPerPortion, formatTime(f.CreatedAt)}
}

// SaveFood inserts a new food. Foods are immutable, so an existing ID is a
// conflict.
func (s *SQLiteStorage) SaveFood(ctx context.Context, f models.FoodItem) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
	query := `INSERT INTO foods (` + foodColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, foodArgs(f)...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("food %s: %w", f.ID, ErrConflict)
		}
		return fmt.Errorf("failed to insert food: %w", err)
	}
	return nil
}

// UpsertFoods inserts or replaces foods in one transaction and returns how
// many were written. It implements catalog.FoodSink.
func (s *SQLiteStorage) UpsertFoods(ctx context.Context, foods []models.FoodItem) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
        INSERT INTO foods (` + foodColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            name = excluded.name,
            category = excluded.category,
            fat_level = excluded.fat_level,
            portion_size = excluded.portion_size,
            portion_unit = excluded.portion_unit,
            calories = excluded.calories,
            protein = excluded.protein,
            carbs = excluded.carbs,
            fat = excluded.fat
    `
	now := time.Now()
	for _, f := range foods {
		if f.CreatedAt.IsZero() {
			f.CreatedAt = now
		}
		if _, err := tx.ExecContext(ctx, query, foodArgs(f)...); err != nil {
			return 0, fmt.Errorf("failed to upsert food %s: %w", f.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit foods: %w", err)
	}
	return len(foods), nil
}

// SeedFoods loads foods only when the table is empty.
func (s *SQLiteStorage) SeedFoods(ctx context.Context, foods []models.FoodItem) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM foods`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count foods: %w", err)
	}
	if n > 0 {
		return 0, nil
	}
	return s.UpsertFoods(ctx, foods)
}

func (s *SQLiteStorage) GetFood(ctx context.Context, id string) (models.FoodItem, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+foodColumns+` FROM foods WHERE id = ?`, id)
	f, err := scanFood(row)
	if errors.Is(err, sql.ErrNoRows) {
		return f, fmt.Errorf("food %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return f, fmt.Errorf("failed to get food: %w", err)
	}
	return f, nil
}

// ListFoods returns foods ordered by name, optionally filtered by category.
func (s *SQLiteStorage) ListFoods(ctx context.Context, category exchange.Category) ([]models.FoodItem, error) {
	query := `SELECT ` + foodColumns + ` FROM foods WHERE 1=1`
	args := []any{}
	if category != "" {
		query += " AND category = ?"
		args = append(args, string(category))
	}
	query += " ORDER BY name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query foods: %w", err)
	}
	defer rows.Close()

	var foods []models.FoodItem
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan food: %w", err)
		}
		foods = append(foods, f)
	}
	return foods, rows.Err()
}

// DeleteFood removes a food. Plan entries that reference it stay and
// contribute nothing.
func (s *SQLiteStorage) DeleteFood(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "foods", id)
}

// --------------------------------------------------
// Plans
// --------------------------------------------------

// PlanSummary is a listing row.
type PlanSummary struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Type           models.PlanType `json:"type"`
	CycleDays      int             `json:"cycle_days"`
	TargetCalories float64         `json:"target_calories"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// SavePlan inserts or replaces a plan.
func (s *SQLiteStorage) SavePlan(ctx context.Context, p *models.MenuPlan) error {
	ratio, err := json.Marshal(p.MacroRatio)
	if err != nil {
		return fmt.Errorf("failed to encode macro ratio: %w", err)
	}
	portions, err := json.Marshal(p.TargetPortions)
	if err != nil {
		return fmt.Errorf("failed to encode target portions: %w", err)
	}
	overrides, err := json.Marshal(p.Overrides)
	if err != nil {
		return fmt.Errorf("failed to encode overrides: %w", err)
	}
	days, err := json.Marshal(p.Days)
	if err != nil {
		return fmt.Errorf("failed to encode days: %w", err)
	}
	notes, err := json.Marshal(p.Notes)
	if err != nil {
		return fmt.Errorf("failed to encode notes: %w", err)
	}

	query := `
        INSERT INTO plans (id, name, plan_type, cycle_days, target_calories, macro_ratio,
            target_portions, overrides, days, notes, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            name = excluded.name,
            plan_type = excluded.plan_type,
            cycle_days = excluded.cycle_days,
            target_calories = excluded.target_calories,
            macro_ratio = excluded.macro_ratio,
            target_portions = excluded.target_portions,
            overrides = excluded.overrides,
            days = excluded.days,
            notes = excluded.notes,
            updated_at = excluded.updated_at
    `
	_, err = s.db.ExecContext(ctx, query,
		p.ID, p.Name, string(p.Type), p.CycleDays, p.TargetCalories, string(ratio),
		string(portions), string(overrides), string(days), string(notes),
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) GetPlan(ctx context.Context, id string) (*models.MenuPlan, error) {
	query := `
        SELECT id, name, plan_type, cycle_days, target_calories, macro_ratio,
            target_portions, overrides, days, notes, created_at, updated_at
        FROM plans WHERE id = ?
    `
	p := &models.MenuPlan{}
	var planType, ratio, portions, overrides, days, notes, createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &planType, &p.CycleDays, &p.TargetCalories, &ratio,
		&portions, &overrides, &days, &notes, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("plan %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	p.Type = models.PlanType(planType)
	for _, field := range []struct {
		name string
		raw  string
		dst  any
	}{
		{"macro_ratio", ratio, &p.MacroRatio},
		{"target_portions", portions, &p.TargetPortions},
		{"overrides", overrides, &p.Overrides},
		{"days", days, &p.Days},
		{"notes", notes, &p.Notes},
	} {
		if err := json.Unmarshal([]byte(field.raw), field.dst); err != nil {
			return nil, fmt.Errorf("failed to decode %s of plan %s: %w", field.name, id, err)
		}
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return p, nil
}

// ListPlans returns plan summaries, most recently updated first.
func (s *SQLiteStorage) ListPlans(ctx context.Context, limit int) ([]PlanSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
        SELECT id, name, plan_type, cycle_days, target_calories, updated_at
        FROM plans
        ORDER BY updated_at DESC LIMIT ?
    `
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	var plans []PlanSummary
	for rows.Next() {
		var ps PlanSummary
		var planType, updatedAt string
		if err := rows.Scan(&ps.ID, &ps.Name, &planType, &ps.CycleDays, &ps.TargetCalories, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		ps.Type = models.PlanType(planType)
		if ps.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, fmt.Errorf("failed to parse updated_at: %w", err)
		}
		plans = append(plans, ps)
	}
	return plans, rows.Err()
}

func (s *SQLiteStorage) DeletePlan(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "plans", id)
}

// --------------------------------------------------
// Templates
// --------------------------------------------------

// SaveTemplate inserts or replaces a template.
func (s *SQLiteStorage) SaveTemplate(ctx context.Context, tpl models.MealTemplate) error {
	return s.saveTemplate(ctx, tpl, false)
}

// SeedTemplates inserts templates whose IDs are not stored yet, leaving
// edited copies alone.
func (s *SQLiteStorage) SeedTemplates(ctx context.Context, tpls []models.MealTemplate) error {
	for _, tpl := range tpls {
		if err := s.saveTemplate(ctx, tpl, true); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStorage) saveTemplate(ctx context.Context, tpl models.MealTemplate, keepExisting bool) error {
	ratio, err := json.Marshal(tpl.MacroRatio)
	if err != nil {
		return fmt.Errorf("failed to encode macro ratio: %w", err)
	}
	items := tpl.Items
	if items == nil {
		items = []models.MealTemplateItem{}
	}
	rawItems, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode template items: %w", err)
	}

	conflict := `ON CONFLICT(id) DO UPDATE SET
            name = excluded.name,
            note = excluded.note,
            macro_ratio = excluded.macro_ratio,
            items = excluded.items`
	if keepExisting {
		conflict = `ON CONFLICT(id) DO NOTHING`
	}
	query := `
        INSERT INTO templates (id, name, note, macro_ratio, items, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
        ` + conflict

	_, err = s.db.ExecContext(ctx, query,
		tpl.ID, tpl.Name, tpl.Note, string(ratio), string(rawItems), formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) GetTemplate(ctx context.Context, id string) (models.MealTemplate, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, note, macro_ratio, items FROM templates WHERE id = ?`, id)
	tpl, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return tpl, fmt.Errorf("template %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return tpl, fmt.Errorf("failed to get template: %w", err)
	}
	return tpl, nil
}

// ListTemplates returns templates in creation order.
func (s *SQLiteStorage) ListTemplates(ctx context.Context) ([]models.MealTemplate, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, note, macro_ratio, items FROM templates ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer rows.Close()

	var tpls []models.MealTemplate
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		tpls = append(tpls, tpl)
	}
	return tpls, rows.Err()
}

func (s *SQLiteStorage) DeleteTemplate(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "templates", id)
}

func scanTemplate(row scanner) (models.MealTemplate, error) {
	var tpl models.MealTemplate
	var ratio, items string
	if err := row.Scan(&tpl.ID, &tpl.Name, &tpl.Note, &ratio, &items); err != nil {
		return tpl, err
	}
	if err := json.Unmarshal([]byte(ratio), &tpl.MacroRatio); err != nil {
		return tpl, fmt.Errorf("failed to decode macro ratio: %w", err)
	}
	if err := json.Unmarshal([]byte(items), &tpl.Items); err != nil {
		return tpl, fmt.Errorf("failed to decode items: %w", err)
	}
	return tpl, nil
}

// --------------------------------------------------
// Helpers
// --------------------------------------------------

func (s *SQLiteStorage) deleteByID(ctx context.Context, table, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", strings.TrimSuffix(table, "s"), id, ErrNotFound)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}
