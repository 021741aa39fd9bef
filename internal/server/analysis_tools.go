// internal/server/analysis_tools.go
package server

import (
	"context"
	"fmt"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"

	"mcp-menu-planner/internal/exchange"
	"mcp-menu-planner/internal/models"
	"mcp-menu-planner/internal/planner"
)

type PlanStatsParams struct {
	PlanID string `json:"plan_id"`
	// Active optionally names the option being viewed in one choice meal.
	Active *planner.ActiveChoice `json:"active,omitempty"`
}

type PriceOptionsParams struct {
	PlanID string          `json:"plan_id"`
	Day    int             `json:"day"`
	Meal   models.MealType `json:"meal"`
}

type TargetGramsParams struct {
	PlanID         string             `json:"plan_id,omitempty" description:"Use the plan's targets"`
	TargetCalories float64            `json:"target_calories,omitempty"`
	MacroRatio     *models.MacroRatio `json:"macro_ratio,omitempty"`
}

type DerivePortionsParams struct {
	PlanID string `json:"plan_id"`
	// Apply writes the result into auto categories and saves the plan.
	Apply bool `json:"apply,omitempty"`
}

type OverridePortionParams struct {
	PlanID   string            `json:"plan_id"`
	Category exchange.Category `json:"category" description:"staple, meat or fat"`
	Value    float64           `json:"value"`
}

type planStats struct {
	Days     []planner.Stats `json:"days"`
	Target   planner.Grams   `json:"target"`
	Calories float64         `json:"target_calories"`
}

func (s *MenuPlannerServer) handlePlanStats(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params PlanStatsParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	p, err := s.loadPlan(ctx, params.PlanID)
	if err != nil {
		return nil, err
	}
	lookup, err := s.lookup(ctx)
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(planStats{
		Days:     planner.AggregatePlan(p, lookup, params.Active),
		Target:   planner.TargetGrams(p.TargetCalories, p.MacroRatio),
		Calories: p.TargetCalories,
	})
}

func (s *MenuPlannerServer) handlePriceOptions(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params PriceOptionsParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if !params.Meal.Valid() {
		return nil, invalidParams("unknown meal %q", params.Meal)
	}
	p, err := s.loadPlan(ctx, params.PlanID)
	if err != nil {
		return nil, err
	}
	if params.Day < 0 || params.Day >= len(p.Days) {
		return nil, invalidParams("day %d out of range", params.Day)
	}
	lookup, err := s.lookup(ctx)
	if err != nil {
		return nil, err
	}
	options := planner.PriceOptions(p.Days[params.Day].Meal(params.Meal), lookup)
	if options == nil {
		options = []planner.OptionStats{}
	}
	return s.createJSONResponse(options)
}

func (s *MenuPlannerServer) handleTargetGrams(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params TargetGramsParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	calories, ratio := params.TargetCalories, models.MacroRatio{}
	if params.MacroRatio != nil {
		ratio = *params.MacroRatio
	}
	if params.PlanID != "" {
		p, err := s.loadPlan(ctx, params.PlanID)
		if err != nil {
			return nil, err
		}
		calories, ratio = p.TargetCalories, p.MacroRatio
	} else if params.MacroRatio == nil {
		return nil, invalidParams("plan_id or macro_ratio is required")
	}
	return s.createJSONResponse(planner.TargetGrams(calories, ratio))
}

func (s *MenuPlannerServer) handleDerivePortions(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params DerivePortionsParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	if !params.Apply {
		p, err := s.loadPlan(ctx, params.PlanID)
		if err != nil {
			return nil, err
		}
		d := planner.DeriveDynamicPortions(p.TargetCalories, p.MacroRatio, planner.FixedFromTargets(p.TargetPortions))
		return s.createJSONResponse(map[string]interface{}{"derivation": d})
	}

	var d planner.Derivation
	p, err := s.editPlan(ctx, params.PlanID, func(p *models.MenuPlan) error {
		d = planner.ApplyDerivation(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(map[string]interface{}{
		"derivation":      d,
		"target_portions": p.TargetPortions,
		"overrides":       p.Overrides,
	})
}

func (s *MenuPlannerServer) handleOverridePortion(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params OverridePortionParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	p, err := s.editPlan(ctx, params.PlanID, func(p *models.MenuPlan) error {
		if err := planner.Override(&p.Overrides, params.Category, params.Value); err != nil {
			return err
		}
		planner.ApplyDerivation(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(map[string]interface{}{
		"target_portions": p.TargetPortions,
		"overrides":       p.Overrides,
	})
}

func (s *MenuPlannerServer) handleResetPortion(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params OverridePortionParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	p, err := s.editPlan(ctx, params.PlanID, func(p *models.MenuPlan) error {
		if err := planner.ResetToAuto(&p.Overrides, params.Category); err != nil {
			return err
		}
		planner.ApplyDerivation(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(map[string]interface{}{
		"target_portions": p.TargetPortions,
		"overrides":       p.Overrides,
	})
}

func (s *MenuPlannerServer) handleValidatePlan(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params PlanIDParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	p, err := s.loadPlan(ctx, params.PlanID)
	if err != nil {
		return nil, fmt.Errorf("failed to validate plan: %w", err)
	}
	report := planner.Validate(p)
	return s.createJSONResponse(map[string]interface{}{
		"valid":  report.Valid(),
		"report": report,
	})
}
