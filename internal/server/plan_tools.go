// internal/server/plan_tools.go
package server

import (
	"context"
	"fmt"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"

	"mcp-menu-planner/internal/exchange"
	"mcp-menu-planner/internal/models"
	"mcp-menu-planner/internal/plan"
	"mcp-menu-planner/internal/planner"
)

type CreatePlanParams struct {
	Name string `json:"name,omitempty" description:"Plan name (defaults to 新計畫菜單)"`
}

type PlanIDParams struct {
	PlanID string `json:"plan_id" description:"Plan ID"`
}

type ListPlansParams struct {
	Limit int `json:"limit,omitempty" description:"Maximum number of plans to return"`
}

type SetTargetsParams struct {
	PlanID         string                   `json:"plan_id"`
	TargetCalories float64                  `json:"target_calories" description:"Daily calorie target"`
	MacroRatio     models.MacroRatio        `json:"macro_ratio" description:"Protein/carbs/fat percentages"`
	Portions       models.Portions          `json:"portions,omitempty" description:"Per-category portion goals"`
	Detail         *models.DetailedPortions `json:"detail,omitempty" description:"Meat and dairy goals split by fat level"`
	Derive         bool                     `json:"derive,omitempty" description:"Recompute staple, meat and fat in auto mode"`
}

// MealParams locate a meal slot. ActiveOptionID is the option the caller is
// viewing when the meal is in choice mode.
type MealParams struct {
	PlanID         string          `json:"plan_id"`
	Day            int             `json:"day" description:"Zero-based day index"`
	Meal           models.MealType `json:"meal" description:"breakfast, lunch, dinner or snack"`
	ActiveOptionID string          `json:"active_option_id,omitempty"`
}

func (p MealParams) active() *planner.ActiveChoice {
	if p.ActiveOptionID == "" {
		return nil
	}
	return &planner.ActiveChoice{Day: p.Day, Meal: p.Meal, OptionID: p.ActiveOptionID}
}

type AddEntryParams struct {
	MealParams
	FoodID             string                 `json:"food_id"`
	CookingMethod      exchange.CookingMethod `json:"cooking_method,omitempty" description:"original, boiled, stir_fried, pan_fried or deep_fried"`
	PortionDescription string                 `json:"portion_description,omitempty" description:"Free text such as 1.5 or 半碗"`
}

type AddCustomEntryParams struct {
	MealParams
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Amount   float64 `json:"amount,omitempty"`
}

type EntryParams struct {
	MealParams
	EntryID string `json:"entry_id"`
}

type UpdateEntryParams struct {
	EntryParams
	Field plan.EntryField `json:"field" description:"portion_description, custom_name, cooking_method or amount"`
	Value string          `json:"value"`
}

type OptionParams struct {
	MealParams
	OptionID string `json:"option_id"`
	Label    string `json:"label,omitempty"`
}

type SetDaysParams struct {
	PlanID string `json:"plan_id"`
	Days   int    `json:"days" description:"Number of days, 1 to 30"`
}

type CopyDayParams struct {
	PlanID string `json:"plan_id"`
	From   int    `json:"from"`
	To     int    `json:"to"`
}

type UpdateNoteParams struct {
	PlanID string `json:"plan_id"`
	Day    int    `json:"day"`
	Note   string `json:"note"`
}

type ApplyTemplateParams struct {
	PlanID     string `json:"plan_id"`
	Day        int    `json:"day"`
	TemplateID string `json:"template_id"`
}

type SaveDayTemplateParams struct {
	PlanID string `json:"plan_id"`
	Day    int    `json:"day"`
	Name   string `json:"name"`
}

// editPlan loads a plan, applies edit and saves the result.
func (s *MenuPlannerServer) editPlan(ctx context.Context, id string, edit func(p *models.MenuPlan) error) (*models.MenuPlan, error) {
	if id == "" {
		return nil, invalidParams("plan_id is required")
	}

	s.planMu.Lock()
	defer s.planMu.Unlock()

	p, err := s.storage.GetPlan(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	if err := edit(p); err != nil {
		return nil, err
	}
	if err := s.storage.SavePlan(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save plan: %w", err)
	}
	return p, nil
}

func (s *MenuPlannerServer) loadPlan(ctx context.Context, id string) (*models.MenuPlan, error) {
	if id == "" {
		return nil, invalidParams("plan_id is required")
	}
	p, err := s.storage.GetPlan(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	return p, nil
}

func (s *MenuPlannerServer) handleCreatePlan(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params CreatePlanParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	p := plan.NewPlan(params.Name)
	planner.ApplyDerivation(p)

	s.planMu.Lock()
	defer s.planMu.Unlock()
	if err := s.storage.SavePlan(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save plan: %w", err)
	}
	return s.createJSONResponse(p)
}

func (s *MenuPlannerServer) handleGetPlan(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params PlanIDParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	p, err := s.loadPlan(ctx, params.PlanID)
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(p)
}

func (s *MenuPlannerServer) handleListPlans(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ListPlansParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	plans, err := s.storage.ListPlans(ctx, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve plans: %w", err)
	}
	return s.createJSONResponse(plans)
}

func (s *MenuPlannerServer) handleDeletePlan(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params PlanIDParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if params.PlanID == "" {
		return nil, invalidParams("plan_id is required")
	}

	s.planMu.Lock()
	defer s.planMu.Unlock()
	if err := s.storage.DeletePlan(ctx, params.PlanID); err != nil {
		return nil, fmt.Errorf("failed to delete plan: %w", err)
	}
	return s.createJSONResponse(map[string]interface{}{"deleted": params.PlanID})
}

func (s *MenuPlannerServer) handleSetTargets(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params SetTargetsParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	var derivation *planner.Derivation
	p, err := s.editPlan(ctx, params.PlanID, func(p *models.MenuPlan) error {
		if err := plan.SetTargets(p, params.TargetCalories, params.MacroRatio, params.Portions); err != nil {
			return err
		}
		if params.Detail != nil {
			p.TargetPortions.Detail = params.Detail
		}
		if params.Derive {
			d := planner.ApplyDerivation(p)
			derivation = &d
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(map[string]interface{}{
		"plan":       p,
		"derivation": derivation,
		"validation": planner.Validate(p),
	})
}

func (s *MenuPlannerServer) handleAddEntry(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params AddEntryParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if params.FoodID == "" {
		return nil, invalidParams("food_id is required")
	}
	food, err := s.storage.GetFood(ctx, params.FoodID)
	if err != nil {
		return nil, fmt.Errorf("failed to load food: %w", err)
	}
	method := params.CookingMethod
	if method == "" {
		method = exchange.Original
	}

	var entry models.MenuEntry
	p, err := s.editPlan(ctx, params.PlanID, func(p *models.MenuPlan) error {
		var err error
		entry, err = plan.AddEntry(p, params.Day, params.Meal, food, method, params.PortionDescription, params.active())
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(map[string]interface{}{"entry": entry, "plan": p})
}

func (s *MenuPlannerServer) handleAddCustomEntry(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params AddCustomEntryParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	nutrition := models.NutritionTotals{
		Calories: params.Calories,
		Protein:  params.Protein,
		Carbs:    params.Carbs,
		Fat:      params.Fat,
	}
	if params.Amount == 0 {
		params.Amount = 1
	}

	var entry models.MenuEntry
	p, err := s.editPlan(ctx, params.PlanID, func(p *models.MenuPlan) error {
		var err error
		entry, err = plan.AddCustomEntry(p, params.Day, params.Meal, params.Name, nutrition, params.Amount, params.active())
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(map[string]interface{}{"entry": entry, "plan": p})
}

func (s *MenuPlannerServer) handleRemoveEntry(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params EntryParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	p, err := s.editPlan(ctx, params.PlanID, func(p *models.MenuPlan) error {
		return plan.RemoveEntry(p, params.Day, params.Meal, params.EntryID)
	})
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(p)
}

func (s *MenuPlannerServer) handleUpdateEntry(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params UpdateEntryParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	var entry models.MenuEntry
	_, err := s.editPlan(ctx, params.PlanID, func(p *models.MenuPlan) error {
		var err error
		entry, err = plan.UpdateEntryField(p, params.Day, params.Meal, params.EntryID, params.Field, params.Value)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(entry)
}

func (s *MenuPlannerServer) handleToggleChoice(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params MealParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	var activeID string
	p, err := s.editPlan(ctx, params.PlanID, func(p *models.MenuPlan) error {
		var err error
		activeID, err = plan.ToggleChoiceMode(p, params.Day, params.Meal)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(map[string]interface{}{
		"meal":             p.Days[params.Day].Meal(params.Meal),
		"active_option_id": activeID,
	})
}

func (s *MenuPlannerServer) handleAddOption(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params MealParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	var opt models.MealChoiceOption
	_, err := s.editPlan(ctx, params.PlanID, func(p *models.MenuPlan) error {
		var err error
		opt, err = plan.AddChoiceOption(p, params.Day, params.Meal)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(opt)
}

func (s *MenuPlannerServer) handleRenameOption(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params OptionParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	p, err := s.editPlan(ctx, params.PlanID, func(p *models.MenuPlan) error {
		return plan.RenameChoiceOption(p, params.Day, params.Meal, params.OptionID, params.Label)
	})
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(p.Days[params.Day].Meal(params.Meal))
}

func (s *MenuPlannerServer) handleRemoveOption(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params OptionParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	var next string
	p, err := s.editPlan(ctx, params.PlanID, func(p *models.MenuPlan) error {
		var err error
		next, err = plan.RemoveChoiceOption(p, params.Day, params.Meal, params.OptionID, params.ActiveOptionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(map[string]interface{}{
		"meal":             p.Days[params.Day].Meal(params.Meal),
		"active_option_id": next,
	})
}

// handleSelectOption prices the day as it looks with the chosen option.
func (s *MenuPlannerServer) handleSelectOption(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params OptionParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	p, err := s.loadPlan(ctx, params.PlanID)
	if err != nil {
		return nil, err
	}
	active, err := plan.SelectChoiceOption(p, params.Day, params.Meal, params.OptionID)
	if err != nil {
		return nil, err
	}
	lookup, err := s.lookup(ctx)
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(map[string]interface{}{
		"active":    active,
		"day_stats": planner.AggregateDay(p.Days[params.Day], lookup, &active),
	})
}

func (s *MenuPlannerServer) handleSetDays(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params SetDaysParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	p, err := s.editPlan(ctx, params.PlanID, func(p *models.MenuPlan) error {
		return plan.SetDays(p, params.Days)
	})
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(p)
}

func (s *MenuPlannerServer) handleCopyDay(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params CopyDayParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	p, err := s.editPlan(ctx, params.PlanID, func(p *models.MenuPlan) error {
		return plan.CopyDay(p, params.From, params.To)
	})
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(p)
}

func (s *MenuPlannerServer) handleUpdateNote(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params UpdateNoteParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	p, err := s.editPlan(ctx, params.PlanID, func(p *models.MenuPlan) error {
		return plan.UpdateNote(p, params.Day, params.Note)
	})
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(map[string]interface{}{"day": params.Day, "note": p.Notes[params.Day]})
}

func (s *MenuPlannerServer) handleApplyTemplate(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ApplyTemplateParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if params.TemplateID == "" {
		return nil, invalidParams("template_id is required")
	}
	tpl, err := s.storage.GetTemplate(ctx, params.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	p, err := s.editPlan(ctx, params.PlanID, func(p *models.MenuPlan) error {
		return plan.ApplyTemplate(p, params.Day, tpl)
	})
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(p)
}

func (s *MenuPlannerServer) handleSaveDayTemplate(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params SaveDayTemplateParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	p, err := s.loadPlan(ctx, params.PlanID)
	if err != nil {
		return nil, err
	}
	tpl, err := plan.DayAsTemplate(p, params.Day, params.Name)
	if err != nil {
		return nil, err
	}
	if err := s.storage.SaveTemplate(ctx, tpl); err != nil {
		return nil, fmt.Errorf("failed to save template: %w", err)
	}
	return s.createJSONResponse(tpl)
}

func (s *MenuPlannerServer) handleListTemplates(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	tpls, err := s.storage.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve templates: %w", err)
	}
	return s.createJSONResponse(tpls)
}

func (s *MenuPlannerServer) handleDeleteTemplate(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params IDParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if params.ID == "" {
		return nil, invalidParams("template id is required")
	}
	if err := s.storage.DeleteTemplate(ctx, params.ID); err != nil {
		return nil, fmt.Errorf("failed to delete template: %w", err)
	}
	return s.createJSONResponse(map[string]interface{}{"deleted": params.ID})
}
