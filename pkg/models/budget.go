package models

import (
	"time"

	"simulador/pkg/money"
)

// BudgetStatus is the lifecycle state of a budget on the server.
type BudgetStatus string

const (
	BudgetStatusDraft    BudgetStatus = "draft"
	BudgetStatusPending  BudgetStatus = "pending"
	BudgetStatusApproved BudgetStatus = "approved"
)

// DateLayout is the wire format of issue and validity dates.
const DateLayout = "2006-01-02"

// Valid reports whether s is one of the statuses accepted by the API.
func (s BudgetStatus) Valid() bool {
	switch s {
	case BudgetStatusDraft, BudgetStatusPending, BudgetStatusApproved:
		return true
	}
	return false
}

type BudgetItem struct {
	ID         string      `json:"id,omitempty"`
	BudgetID   string      `json:"budget_id,omitempty"`
	ProductID  string      `json:"product_id"`
	UnitPrice  money.Cents `json:"unit_price"`
	Quantity   int         `json:"quantity"`
	TotalPrice money.Cents `json:"total_price"`
	Discount   money.Cents `json:"discount"`
}

type Budget struct {
	ID           string       `json:"id"`
	CustomerID   string       `json:"customer_id"`
	Customer     *Customer    `json:"customer,omitempty"`
	UserID       string       `json:"user_id,omitempty"`
	IssueDate    string       `json:"issue_date"`
	ValidityDate string       `json:"validity_date"`
	TotalValue   money.Cents  `json:"total_value"`
	Status       BudgetStatus `json:"status"`
	Items        []BudgetItem `json:"items"`

	// Echoed from the create request when the server stores them.
	TotalCost     money.Cents `json:"total_cost,omitempty"`
	Profitability *float64    `json:"profitability,omitempty"`
	Notes         string      `json:"notes,omitempty"`

	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// BudgetInput is the body of budget create and update requests.
type BudgetInput struct {
	CustomerID    string              `json:"customer_id" validate:"required"`
	IssueDate     string              `json:"issue_date" validate:"required,datetime=2006-01-02"`
	ValidityDate  string              `json:"validity_date" validate:"required,datetime=2006-01-02"`
	TotalValue    money.Cents         `json:"total_value" validate:"gt=0"`
	TotalCost     money.Cents         `json:"total_cost"`
	Status        BudgetStatus        `json:"status" validate:"oneof=draft pending approved"`
	Items         []BudgetItem        `json:"items" validate:"min=1"`
	OtherCosts    []ProfitabilityCost `json:"other_costs"`
	Services      []Service           `json:"services"`
	Profitability float64             `json:"profitability"`
	Notes         string              `json:"notes,omitempty"`
}
