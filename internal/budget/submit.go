package budget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"simulador/pkg/models"
	"simulador/pkg/money"
	"simulador/pkg/services"
)

// DefaultValidityDays is how long a budget stays valid when no date is given.
const DefaultValidityDays = 30

// SubmitOptions holds the budget header fields collected alongside the session.
type SubmitOptions struct {
	CustomerID   string
	IssueDate    time.Time // zero means today
	ValidityDate time.Time // zero means IssueDate plus the session validity days
	Status       models.BudgetStatus
	Notes        string
}

// BuildInput validates the session for submission and returns the request body.
func (s *Session) BuildInput(opts SubmitOptions) (models.BudgetInput, error) {
	const op = "Submit"

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		return models.BudgetInput{}, NewValidationError(op, "items", ErrNoItems)
	}
	if s.totalValue <= 0 {
		return models.BudgetInput{}, NewValidationError(op, "total_value", ErrInvalidTotalValue)
	}
	if opts.CustomerID == "" {
		return models.BudgetInput{}, NewValidationError(op, "customer_id", ErrCustomerNotSelected)
	}

	status := opts.Status
	if status == "" {
		status = models.BudgetStatusDraft
	}
	if !status.Valid() {
		return models.BudgetInput{}, NewValidationError(op, "status", ErrInvalidStatus)
	}

	issue := opts.IssueDate
	if issue.IsZero() {
		issue = s.now()
	}
	validity := opts.ValidityDate
	if validity.IsZero() {
		validity = issue.AddDate(0, 0, s.validityDays)
	}
	if validity.Before(truncateDay(issue)) {
		return models.BudgetInput{}, NewValidationError(op, "validity_date", ErrInvalidDates)
	}

	var profitability float64
	if s.profitability != nil {
		profitability = *s.profitability
	}

	in := models.BudgetInput{
		CustomerID:    opts.CustomerID,
		IssueDate:     issue.Format(models.DateLayout),
		ValidityDate:  validity.Format(models.DateLayout),
		TotalValue:    s.totalValue,
		TotalCost:     s.breakdown.Total,
		Status:        status,
		Items:         budgetItems(s.items),
		OtherCosts:    budgetCosts(s.costs),
		Services:      append([]models.Service{}, s.services...),
		Profitability: profitability,
		Notes:         opts.Notes,
	}
	if err := validate.Struct(in); err != nil {
		return models.BudgetInput{}, fmt.Errorf("%s: %w", op, err)
	}
	return in, nil
}

// Submit validates the session, creates the budget and clears the session.
// Validation failures are raised as blocking notifications before any request.
// Profitability not yet evaluated for the current inputs, because the debounce
// has not fired or a request is in flight, is calculated first.
func (s *Session) Submit(ctx context.Context, creator services.BudgetCreator, opts SubmitOptions) (*models.Budget, error) {
	if _, err := s.BuildInput(opts); err != nil {
		s.notifyValidation(err)
		return nil, err
	}

	if err := s.settle(ctx); err != nil {
		return nil, err
	}

	in, err := s.BuildInput(opts)
	if err != nil {
		s.notifyValidation(err)
		return nil, err
	}

	s.log.Info().
		Str("customer_id", in.CustomerID).
		Int("items", len(in.Items)).
		Int64("total_value_cents", int64(in.TotalValue)).
		Str("status", string(in.Status)).
		Msg("Submitting budget")

	created, err := creator.CreateBudget(ctx, in)
	if err != nil {
		s.log.Error().Err(err).Msg("Budget creation failed")
		s.notifier.Notify(submitFailure(err))
		return nil, fmt.Errorf("Submit: create budget: %w", err)
	}

	s.notifier.Notify(Notification{
		Level:       LevelSuccess,
		Title:       "Orçamento criado com sucesso",
		Description: "O orçamento foi cadastrado com sucesso!",
	})
	s.Reset()
	return created, nil
}

// settle brings profitability up to date with the current inputs. A failed
// calculation was already notified; the budget is then sent without it.
func (s *Session) settle(ctx context.Context) error {
	s.mu.Lock()
	settled := s.settledLocked()
	s.mu.Unlock()
	if settled {
		return nil
	}

	if s.debounce != nil {
		s.debounce.stop()
	}
	_, err := s.Refresh(ctx)
	switch {
	case err == nil, errors.Is(err, ErrSuperseded):
		return nil
	case ctx.Err() != nil:
		return fmt.Errorf("Submit: %w", ctx.Err())
	default:
		s.log.Warn().Err(err).Msg("Submitting without profitability")
		return nil
	}
}

// Draft is a budget composition read from a file or another client.
type Draft struct {
	Items      []Item           `json:"items"`
	OtherCosts []OtherCost      `json:"other_costs"`
	Services   []models.Service `json:"services"`
	TotalValue money.Cents      `json:"total_value"`
}

// Load replaces the session content with the draft. Entries are validated
// like interactive edits and missing ids are generated.
func (s *Session) Load(d Draft) error {
	const op = "Load"

	items := make([]Item, 0, len(d.Items))
	for i, item := range d.Items {
		if item.Quantity == 0 {
			item.Quantity = 1
		}
		if err := ValidateItem(item); err != nil {
			return fmt.Errorf("%s: item %d: %w", op, i+1, err)
		}
		if item.ID == "" {
			id, err := newID(s.now())
			if err != nil {
				return fmt.Errorf("%s: generate id: %w", op, err)
			}
			item.ID = id
		}
		items = append(items, item)
	}

	costs := make([]OtherCost, 0, len(d.OtherCosts))
	for i, cost := range d.OtherCosts {
		if cost.CostType == "" {
			cost.CostType = CostFixed
		}
		if err := ValidateCost(cost); err != nil {
			return fmt.Errorf("%s: cost %d: %w", op, i+1, err)
		}
		if cost.ID == "" {
			id, err := newID(s.now())
			if err != nil {
				return fmt.Errorf("%s: generate id: %w", op, err)
			}
			cost.ID = id
		}
		costs = append(costs, cost)
	}

	s.Reset()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = items
	s.costs = costs
	s.services = append([]models.Service{}, d.Services...)
	if d.TotalValue > 0 {
		s.totalValue = d.TotalValue
		s.valueSetByUser = true
	}
	s.changedLocked()
	return nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
