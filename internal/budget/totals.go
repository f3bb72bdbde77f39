package budget

import (
	"github.com/shopspring/decimal"

	"simulador/pkg/models"
	"simulador/pkg/money"
)

// SuggestedMargin is the markup, in percent, applied to the total cost to
// obtain the suggested sale price.
const SuggestedMargin = 20

var suggestedFactor = decimal.NewFromInt(100 + SuggestedMargin).Div(decimal.NewFromInt(100))

// Breakdown is the total cost of a budget split by origin.
type Breakdown struct {
	Items      money.Cents `json:"items"`
	Fixed      money.Cents `json:"fixed_costs"`
	Percentage money.Cents `json:"percentage_costs"`
	Services   money.Cents `json:"services"`
	Total      money.Cents `json:"total"`
}

// Compute totals items, additional costs and services.
// Percentage costs apply to the items subtotal only and are rounded to the
// cent one by one.
func Compute(items []Item, costs []OtherCost, services []models.Service) Breakdown {
	var b Breakdown
	for _, item := range items {
		b.Items += item.TotalPrice()
	}

	for _, cost := range costs {
		switch cost.CostType {
		case CostFixed:
			b.Fixed += money.FromDecimal(cost.Amount)
		case CostPercentage:
			b.Percentage += b.Items.Percent(cost.Amount)
		}
	}

	for _, svc := range services {
		b.Services += svc.Cost
	}

	b.Total = b.Items + b.Fixed + b.Percentage + b.Services
	return b
}

// TotalCost returns the total cost of a budget.
func TotalCost(items []Item, costs []OtherCost, services []models.Service) money.Cents {
	return Compute(items, costs, services).Total
}

// SuggestedPrice returns the total cost marked up by SuggestedMargin.
// It reports false when there is no cost to mark up.
func SuggestedPrice(totalCost money.Cents) (money.Cents, bool) {
	if totalCost <= 0 {
		return 0, false
	}
	return totalCost.MulDecimal(suggestedFactor), true
}
