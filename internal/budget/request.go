package budget

import (
	"simulador/pkg/models"
	"simulador/pkg/money"
)

// NewProfitabilityRequest builds the profitability payload. Lists are never
// nil so they encode as empty JSON arrays.
func NewProfitabilityRequest(items []Item, costs []OtherCost, services []models.Service, totalValue money.Cents) models.ProfitabilityRequest {
	req := models.ProfitabilityRequest{
		Items:      make([]models.ProfitabilityItem, 0, len(items)),
		TotalValue: totalValue,
		OtherCosts: budgetCosts(costs),
		Services:   make([]models.ProfitabilityService, 0, len(services)),
	}

	for _, item := range items {
		req.Items = append(req.Items, models.ProfitabilityItem{
			ProductID:  item.ProductID,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
			TotalPrice: item.TotalPrice(),
			Discount:   item.Discount,
		})
	}

	for _, svc := range services {
		req.Services = append(req.Services, models.ProfitabilityService{
			ID:          svc.ID,
			Name:        svc.Name,
			Description: svc.Description,
			Cost:        svc.Cost,
		})
	}

	return req
}

// budgetItems converts session items to the budget wire format.
func budgetItems(items []Item) []models.BudgetItem {
	out := make([]models.BudgetItem, 0, len(items))
	for _, item := range items {
		out = append(out, models.BudgetItem{
			ProductID:  item.ProductID,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
			TotalPrice: item.TotalPrice(),
			Discount:   item.Discount,
		})
	}
	return out
}

func budgetCosts(costs []OtherCost) []models.ProfitabilityCost {
	out := make([]models.ProfitabilityCost, 0, len(costs))
	for _, cost := range costs {
		out = append(out, models.ProfitabilityCost{
			ID:          cost.ID,
			Description: cost.Description,
			Amount:      cost.Amount.InexactFloat64(),
			CostType:    string(cost.CostType),
		})
	}
	return out
}
