// internal/server/tools.go
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/google/uuid"

	"mcp-menu-planner/internal/catalog"
	"mcp-menu-planner/internal/estimator"
	"mcp-menu-planner/internal/exchange"
	"mcp-menu-planner/internal/models"
)

type ListFoodsParams struct {
	Category exchange.Category `json:"category,omitempty" description:"Only foods of this exchange group"`
}

type AddFoodParams struct {
	Name        string            `json:"name" description:"Food name"`
	Category    exchange.Category `json:"category" description:"staple, meat, vegetable, fruit, dairy, fat or other"`
	FatLevel    exchange.FatLevel `json:"fat_level,omitempty" description:"low/medium/high for meat, full/low/skim for dairy"`
	PortionSize *float64          `json:"portion_size,omitempty" description:"Size of one exchange portion"`
	PortionUnit string            `json:"portion_unit,omitempty" description:"Unit of the portion size"`
	Calories    *float64          `json:"calories,omitempty" description:"kcal per portion, standard value when omitted"`
	Protein     *float64          `json:"protein,omitempty" description:"Protein grams per portion"`
	Carbs       *float64          `json:"carbs,omitempty" description:"Carb grams per portion"`
	Fat         *float64          `json:"fat,omitempty" description:"Fat grams per portion"`
}

type IDParams struct {
	ID string `json:"id" description:"Record ID"`
}

type ImportFoodsParams struct {
	CSV string `json:"csv" description:"CSV text with a header row"`
}

type EstimateFoodParams struct {
	Name string `json:"name" description:"Food to estimate"`
	Save bool   `json:"save,omitempty" description:"Add the estimate to the catalog"`
}

type SuggestSubstitutesParams struct {
	FoodID   string            `json:"food_id,omitempty" description:"Catalog food to replace"`
	Name     string            `json:"name,omitempty" description:"Food name when not in the catalog"`
	Category exchange.Category `json:"category,omitempty" description:"Exchange group of the named food"`
}

// extractParams safely extracts parameters from the request arguments
func extractParams(req *protocol.CallToolRequest, target interface{}) error {
	jsonBytes, err := json.Marshal(req.Arguments)
	if err != nil {
		return invalidParams("failed to marshal arguments: %v", err)
	}

	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return invalidParams("failed to unmarshal parameters: %v", err)
	}

	return nil
}

func (s *MenuPlannerServer) registerTools() {
	s.tools = map[string]toolHandler{
		"list_foods":          s.handleListFoods,
		"add_food":            s.handleAddFood,
		"delete_food":         s.handleDeleteFood,
		"import_foods_csv":    s.handleImportFoodsCSV,
		"export_foods_csv":    s.handleExportFoodsCSV,
		"estimate_food":       s.handleEstimateFood,
		"suggest_substitutes": s.handleSuggestSubstitutes,

		"create_plan":       s.handleCreatePlan,
		"get_plan":          s.handleGetPlan,
		"list_plans":        s.handleListPlans,
		"delete_plan":       s.handleDeletePlan,
		"set_targets":       s.handleSetTargets,
		"add_entry":         s.handleAddEntry,
		"add_custom_entry":  s.handleAddCustomEntry,
		"remove_entry":      s.handleRemoveEntry,
		"update_entry":      s.handleUpdateEntry,
		"toggle_choice":     s.handleToggleChoice,
		"add_option":        s.handleAddOption,
		"rename_option":     s.handleRenameOption,
		"remove_option":     s.handleRemoveOption,
		"select_option":     s.handleSelectOption,
		"set_days":          s.handleSetDays,
		"copy_day":          s.handleCopyDay,
		"update_note":       s.handleUpdateNote,
		"apply_template":    s.handleApplyTemplate,
		"save_day_template": s.handleSaveDayTemplate,
		"list_templates":    s.handleListTemplates,
		"delete_template":   s.handleDeleteTemplate,

		"plan_stats":       s.handlePlanStats,
		"price_options":    s.handlePriceOptions,
		"target_grams":     s.handleTargetGrams,
		"derive_portions":  s.handleDerivePortions,
		"override_portion": s.handleOverridePortion,
		"reset_portion":    s.handleResetPortion,
		"validate_plan":    s.handleValidatePlan,

		"server_info": s.handleServerInfo,
	}

	names := s.toolNames()
	log.Printf("Registered %d tools: %s", len(names), strings.Join(names, ", "))
}

func (s *MenuPlannerServer) toolNames() []string {
	names := make([]string, 0, len(s.tools))
	for name := range s.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *MenuPlannerServer) handleListFoods(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ListFoodsParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if params.Category != "" && !params.Category.Valid() {
		return nil, invalidParams("unknown category %q", params.Category)
	}

	foods, err := s.storage.ListFoods(ctx, params.Category)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve foods: %w", err)
	}
	return s.createJSONResponse(catalog.New(foods).List(params.Category))
}

func (s *MenuPlannerServer) handleAddFood(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params AddFoodParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	params.Name = strings.TrimSpace(params.Name)
	if params.Name == "" {
		return nil, invalidParams("food name is required")
	}
	if !params.Category.Valid() {
		return nil, invalidParams("unknown category %q", params.Category)
	}
	if params.FatLevel != "" && !params.FatLevel.ValidFor(params.Category) {
		return nil, invalidParams("fat level %q does not apply to %s", params.FatLevel, params.Category)
	}

	food := models.NewFoodFromStandard(uuid.NewString(), params.Name, params.Category, params.FatLevel)
	for _, field := range []struct {
		value *float64
		dst   *float64
		name  string
	}{
		{params.PortionSize, &food.PortionSize, "portion_size"},
		{params.Calories, &food.CaloriesPerPortion, "calories"},
		{params.Protein, &food.ProteinPerPortion, "protein"},
		{params.Carbs, &food.CarbsPerPortion, "carbs"},
		{params.Fat, &food.FatPerPortion, "fat"},
	} {
		if field.value == nil {
			continue
		}
		if *field.value < 0 {
			return nil, invalidParams("%s must not be negative", field.name)
		}
		*field.dst = *field.value
	}
	if params.PortionUnit != "" {
		food.PortionUnit = params.PortionUnit
	}

	if err := s.storage.SaveFood(ctx, food); err != nil {
		return nil, fmt.Errorf("failed to save food: %w", err)
	}
	return s.createJSONResponse(food)
}

func (s *MenuPlannerServer) handleDeleteFood(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params IDParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if params.ID == "" {
		return nil, invalidParams("food id is required")
	}
	if err := s.storage.DeleteFood(ctx, params.ID); err != nil {
		return nil, fmt.Errorf("failed to delete food: %w", err)
	}
	return s.createJSONResponse(map[string]interface{}{"deleted": params.ID})
}

func (s *MenuPlannerServer) handleImportFoodsCSV(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ImportFoodsParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	foods, err := catalog.ParseFoodsCSV(strings.NewReader(params.CSV))
	if err != nil {
		return nil, invalidParams("%v", err)
	}
	n, err := s.storage.UpsertFoods(ctx, foods)
	if err != nil {
		return nil, fmt.Errorf("failed to import foods: %w", err)
	}
	return s.createJSONResponse(map[string]interface{}{"imported": n})
}

func (s *MenuPlannerServer) handleExportFoodsCSV(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ListFoodsParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	foods, err := s.storage.ListFoods(ctx, params.Category)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve foods: %w", err)
	}
	var buf bytes.Buffer
	if err := catalog.WriteFoodsCSV(&buf, catalog.New(foods).List(params.Category)); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}
	return s.createJSONResponse(map[string]interface{}{"csv": buf.String(), "count": len(foods)})
}

func (s *MenuPlannerServer) handleEstimateFood(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params EstimateFoodParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	params.Name = strings.TrimSpace(params.Name)
	if params.Name == "" {
		return nil, invalidParams("food name is required")
	}

	est, err := s.estimator.EstimateNutrition(ctx, params.Name)
	if err != nil {
		log.Printf("Nutrition estimate for %q failed, using fallback: %v", params.Name, err)
		est = estimator.FallbackEstimate(params.Name)
	}

	result := map[string]interface{}{"estimate": est}
	if params.Save {
		food := est.ToFood(uuid.NewString())
		if err := s.storage.SaveFood(ctx, food); err != nil {
			return nil, fmt.Errorf("failed to save food: %w", err)
		}
		result["food"] = food
	}
	return s.createJSONResponse(result)
}

func (s *MenuPlannerServer) handleSuggestSubstitutes(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params SuggestSubstitutesParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if params.FoodID != "" {
		food, err := s.storage.GetFood(ctx, params.FoodID)
		if err != nil {
			return nil, fmt.Errorf("failed to load food: %w", err)
		}
		params.Name, params.Category = food.Name, food.Category
	}
	if strings.TrimSpace(params.Name) == "" {
		return nil, invalidParams("food_id or name is required")
	}
	if params.Category == "" {
		params.Category = exchange.Other
	}

	subs, err := s.estimator.SuggestSubstitutes(ctx, params.Name, params.Category)
	if err != nil {
		log.Printf("Substitute suggestion for %q failed: %v", params.Name, err)
		subs = nil
	}
	if subs == nil {
		subs = []estimator.Substitute{}
	}
	return s.createJSONResponse(map[string]interface{}{"food": params.Name, "substitutes": subs})
}
