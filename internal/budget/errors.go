package budget

import (
	"errors"
	"fmt"
)

// Common budget errors
var (
	// ErrProductNotSelected is returned when an item is added without a product.
	ErrProductNotSelected = errors.New("product not selected")

	// ErrIncompleteCost is returned when an additional cost lacks a description or amount.
	ErrIncompleteCost = errors.New("cost description and amount are required")

	// ErrInvalidCostType is returned for cost types other than fixed and percentage.
	ErrInvalidCostType = errors.New("invalid cost type")

	// ErrInvalidQuantity is returned when an item quantity is below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// ErrInvalidDiscount is returned when a discount is negative or exceeds the item gross amount.
	ErrInvalidDiscount = errors.New("discount must be between zero and the item gross amount")

	// ErrNoItems is returned when a budget is submitted without items.
	ErrNoItems = errors.New("budget has no items")

	// ErrInvalidTotalValue is returned when a budget is submitted without a positive sale value.
	ErrInvalidTotalValue = errors.New("budget total value must be positive")

	// ErrCustomerNotSelected is returned when a budget is submitted without a customer.
	ErrCustomerNotSelected = errors.New("customer not selected")

	// ErrInvalidStatus is returned for statuses other than draft, pending and approved.
	ErrInvalidStatus = errors.New("invalid budget status")

	// ErrInvalidDates is returned when the validity date precedes the issue date.
	ErrInvalidDates = errors.New("validity date precedes issue date")

	// ErrProfitabilityUnavailable is returned when the server answers success=false.
	ErrProfitabilityUnavailable = errors.New("profitability could not be calculated")

	// ErrSuperseded is returned by a profitability request whose result was
	// discarded because a newer request was started.
	ErrSuperseded = errors.New("profitability request superseded")
)

// ValidationError is a local input error raised before any network call.
// Title and Description hold the user facing text.
type ValidationError struct {
	Op          string
	Field       string
	Err         error
	Title       string
	Description string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("budget: %s: %s: %v", e.Op, e.Field, e.Err)
	}
	return fmt.Sprintf("budget: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *ValidationError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// Notification returns the blocking error notification for the failure.
func (e *ValidationError) Notification() Notification {
	return Notification{Level: LevelError, Title: e.Title, Description: e.Description}
}

var validationTexts = map[error][2]string{
	ErrProductNotSelected:  {"Produto não selecionado", "Por favor, selecione um produto para adicionar ao orçamento."},
	ErrIncompleteCost:      {"Dados incompletos", "Por favor, preencha o nome e o valor do custo adicional."},
	ErrInvalidCostType:     {"Tipo de custo inválido", "Use um custo fixo ou percentual."},
	ErrInvalidQuantity:     {"Quantidade inválida", "A quantidade deve ser de pelo menos 1."},
	ErrInvalidDiscount:     {"Desconto inválido", "O desconto não pode ser negativo nem maior que o valor do item."},
	ErrNoItems:             {"Nenhum item adicionado", "Por favor, adicione pelo menos um item ao orçamento."},
	ErrInvalidTotalValue:   {"Valor total inválido", "Por favor, defina um valor total para o orçamento."},
	ErrCustomerNotSelected: {"Cliente não selecionado", "Por favor, selecione um cliente para o orçamento."},
	ErrInvalidStatus:       {"Status inválido", "Use rascunho, pendente ou aprovado."},
	ErrInvalidDates:        {"Datas inválidas", "A data de validade deve ser posterior à data de emissão."},
}

// NewValidationError creates a ValidationError with the user facing text for err.
func NewValidationError(op, field string, err error) *ValidationError {
	texts, ok := validationTexts[err]
	if !ok {
		texts = [2]string{"Dados inválidos", err.Error()}
	}
	return &ValidationError{
		Op:          op,
		Field:       field,
		Err:         err,
		Title:       texts[0],
		Description: texts[1],
	}
}
