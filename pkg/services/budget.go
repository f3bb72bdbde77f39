package services

import (
	"context"

	"simulador/pkg/models"
)

//go:generate mockgen -source=budget.go -destination=mocks/mock_budget.go -package=mocks

// ProfitabilityCalculator defines the server side profitability computation.
type ProfitabilityCalculator interface {
	// CalculateProfitability returns the profit margin of the request in percent.
	// A response reporting success=false is returned as an error.
	CalculateProfitability(ctx context.Context, req models.ProfitabilityRequest) (float64, error)
}

// BudgetCreator persists a finished budget.
type BudgetCreator interface {
	CreateBudget(ctx context.Context, in models.BudgetInput) (*models.Budget, error)
}

// Catalog resolves products and additional services by ID.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	GetService(ctx context.Context, id string) (*models.Service, error)
}

// ProductCreator adds products to the catalog.
type ProductCreator interface {
	CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error)
}
