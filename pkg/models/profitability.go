package models

import "simulador/pkg/money"

// ProfitabilityItem is one line item of a profitability request.
type ProfitabilityItem struct {
	ProductID  string      `json:"product_id"`
	UnitPrice  money.Cents `json:"unit_price"`
	Quantity   int         `json:"quantity"`
	TotalPrice money.Cents `json:"total_price"`
	Discount   money.Cents `json:"discount"`
}

// ProfitabilityCost is an additional cost. Amount is in reais for fixed costs
// and a percentage for percentage costs.
type ProfitabilityCost struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	CostType    string  `json:"cost_type"`
}

type ProfitabilityService struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Cost        money.Cents `json:"cost"`
}

// ProfitabilityRequest is the body of POST /budget/calculate-profitability.
type ProfitabilityRequest struct {
	Items      []ProfitabilityItem    `json:"items"`
	TotalValue money.Cents            `json:"total_value"`
	OtherCosts []ProfitabilityCost    `json:"other_costs"`
	Services   []ProfitabilityService `json:"services"`
}

type ProfitabilityResponse struct {
	Success       bool     `json:"success"`
	Profitability *float64 `json:"profitability"`
	Message       string   `json:"message,omitempty"`
}
