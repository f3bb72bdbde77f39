package models

import (
	"time"

	"simulador/pkg/money"
)

type Product struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Description     string      `json:"description"`
	ReferenceCode   string      `json:"reference_code"`
	AcquisitionCost money.Cents `json:"acquisition_cost"` // Used as the unit cost of budget items
	SalePrice       money.Cents `json:"sale_price"`
	UserID          string      `json:"user_id,omitempty"`
}

type ProductInput struct {
	Name            string      `json:"name" validate:"required"`
	Description     string      `json:"description"`
	AcquisitionCost money.Cents `json:"acquisition_cost" validate:"gte=0"`
	SalePrice       money.Cents `json:"sale_price" validate:"gte=0"`
	ReferenceCode   string      `json:"reference_code,omitempty"`
}

type Customer struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Address   string     `json:"address,omitempty"`
	City      string     `json:"city,omitempty"`
	State     string     `json:"state,omitempty"`
	ZipCode   string     `json:"zip_code,omitempty"`
	Country   string     `json:"country,omitempty"`
	UserID    string     `json:"user_id,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type CustomerInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zip_code,omitempty"`
	Country string `json:"country,omitempty"`
}

// Service is an additional service that can be attached to a budget.
type Service struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Cost        money.Cents `json:"cost"`
	UserID      string      `json:"user_id,omitempty"`
}

type ServiceInput struct {
	Name        string      `json:"name" validate:"required"`
	Description string      `json:"description"`
	Cost        money.Cents `json:"cost" validate:"gte=0"`
}
