package budget

import (
	"crypto/rand"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"simulador/pkg/money"
)

// CostType tells how an additional cost amount is applied.
type CostType string

const (
	// CostFixed amounts are in reais.
	CostFixed CostType = "fixed"
	// CostPercentage amounts are a percentage of the items subtotal.
	CostPercentage CostType = "percentage"
)

// Item is a product line of a budget.
type Item struct {
	ID          string      `json:"id"`
	ProductID   string      `json:"product_id" validate:"required"`
	ProductName string      `json:"product_name"`
	UnitPrice   money.Cents `json:"unit_price" validate:"gte=0"`
	Quantity    int         `json:"quantity" validate:"min=1"`
	Discount    money.Cents `json:"discount" validate:"gte=0"`
}

// TotalPrice returns UnitPrice × Quantity − Discount.
func (i Item) TotalPrice() money.Cents {
	return i.UnitPrice*money.Cents(i.Quantity) - i.Discount
}

// OtherCost is an additional cost such as freight or a card fee.
type OtherCost struct {
	ID          string          `json:"id"`
	Description string          `json:"description" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	CostType    CostType        `json:"cost_type" validate:"oneof=fixed percentage"`
}

var validate = validator.New()

// newID returns a timestamp ordered identifier for client side entries.
func newID(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// ValidateItem checks the invariants of an item.
func ValidateItem(item Item) error {
	const op = "ValidateItem"

	if err := validate.Struct(item); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) || len(verrs) == 0 {
			return err
		}
		switch field := verrs[0].Field(); field {
		case "ProductID":
			return NewValidationError(op, "product_id", ErrProductNotSelected)
		case "Quantity":
			return NewValidationError(op, "quantity", ErrInvalidQuantity)
		case "Discount":
			return NewValidationError(op, "discount", ErrInvalidDiscount)
		default:
			return NewValidationError(op, field, err)
		}
	}

	if item.TotalPrice() < 0 {
		return NewValidationError(op, "discount", ErrInvalidDiscount)
	}
	return nil
}

// ValidateCost checks the invariants of an additional cost.
func ValidateCost(cost OtherCost) error {
	const op = "ValidateCost"

	if err := validate.Struct(cost); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) || len(verrs) == 0 {
			return err
		}
		switch field := verrs[0].Field(); field {
		case "Description":
			return NewValidationError(op, "description", ErrIncompleteCost)
		case "CostType":
			return NewValidationError(op, "cost_type", ErrInvalidCostType)
		default:
			return NewValidationError(op, field, err)
		}
	}

	if !cost.Amount.IsPositive() {
		return NewValidationError(op, "amount", ErrIncompleteCost)
	}
	return nil
}
