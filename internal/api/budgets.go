package api

import (
	"context"
	"fmt"
	"net/http"

	"simulador/internal/budget"
	"simulador/pkg/models"
	"simulador/pkg/services"
)

var (
	_ services.ProfitabilityCalculator = (*Client)(nil)
	_ services.BudgetCreator           = (*Client)(nil)
	_ services.Catalog                 = (*Client)(nil)
	_ services.ProductCreator          = (*Client)(nil)
)

type budgetEnvelope struct {
	Success bool           `json:"success"`
	Budget  *models.Budget `json:"budget"`
}

func (c *Client) ListBudgets(ctx context.Context) ([]models.Budget, error) {
	var out struct {
		Success bool            `json:"success"`
		Budgets []models.Budget `json:"budgets"`
	}
	if err := c.do(ctx, call{op: "ListBudgets", method: http.MethodGet, path: "/budget", out: &out}); err != nil {
		return nil, err
	}
	return out.Budgets, nil
}

func (c *Client) GetBudget(ctx context.Context, id string) (*models.Budget, error) {
	var out budgetEnvelope
	if err := c.do(ctx, call{op: "GetBudget", method: http.MethodGet, path: resourcePath("budget", id), out: &out}); err != nil {
		return nil, err
	}
	if out.Budget == nil {
		return nil, fmt.Errorf("GetBudget: %w", ErrUnexpectedResponse)
	}
	return out.Budget, nil
}

func (c *Client) CreateBudget(ctx context.Context, in models.BudgetInput) (*models.Budget, error) {
	return c.saveBudget(ctx, "CreateBudget", http.MethodPost, "/budget", in)
}

func (c *Client) UpdateBudget(ctx context.Context, id string, in models.BudgetInput) (*models.Budget, error) {
	return c.saveBudget(ctx, "UpdateBudget", http.MethodPut, resourcePath("budget", id), in)
}

func (c *Client) saveBudget(ctx context.Context, op, method, path string, in models.BudgetInput) (*models.Budget, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidInput, err)
	}

	var out budgetEnvelope
	if err := c.do(ctx, call{op: op, method: method, path: path, in: in, out: &out}); err != nil {
		return nil, err
	}
	if out.Budget == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnexpectedResponse)
	}

	c.log.Info().
		Str("budget_id", out.Budget.ID).
		Str("op", op).
		Msg("Budget saved")
	return out.Budget, nil
}

func (c *Client) DeleteBudget(ctx context.Context, id string) error {
	return c.do(ctx, call{op: "DeleteBudget", method: http.MethodDelete, path: resourcePath("budget", id)})
}

// CalculateProfitability posts the budget composition and returns the profit
// margin in percent. success=false is reported as budget.ErrProfitabilityUnavailable.
func (c *Client) CalculateProfitability(ctx context.Context, req models.ProfitabilityRequest) (float64, error) {
	const op = "CalculateProfitability"

	var out models.ProfitabilityResponse
	err := c.do(ctx, call{op: op, method: http.MethodPost, path: "/budget/calculate-profitability", in: req, out: &out})
	if err != nil {
		return 0, err
	}
	if !out.Success {
		if out.Message != "" {
			return 0, fmt.Errorf("%s: %s: %w", op, out.Message, budget.ErrProfitabilityUnavailable)
		}
		return 0, fmt.Errorf("%s: %w", op, budget.ErrProfitabilityUnavailable)
	}
	if out.Profitability == nil {
		return 0, fmt.Errorf("%s: missing profitability: %w", op, ErrUnexpectedResponse)
	}
	return *out.Profitability, nil
}
