package budget

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"simulador/internal/logger"
	"simulador/pkg/models"
	"simulador/pkg/money"
	"simulador/pkg/services"
)

// Options configures a Session.
type Options struct {
	// Debounce is the quiet period after the last edit before profitability
	// is requested. Zero means DefaultDebounce; a negative value disables
	// automatic requests and leaves them to Recalculate.
	Debounce time.Duration

	// Notifier receives user facing messages. Defaults to discarding them.
	Notifier Notifier

	// OnProfitability is called after every settled profitability evaluation,
	// outside the session lock.
	OnProfitability func(Snapshot)

	// Now is the clock used for identifiers and submission dates.
	Now func() time.Time

	// ValidityDays is the default budget validity. Zero means 30 days.
	ValidityDays int
}

// ItemInput describes a product line to add.
type ItemInput struct {
	ProductID   string
	ProductName string
	UnitPrice   money.Cents
	Quantity    int // must be at least 1
	Discount    money.Cents
}

// CostInput describes an additional cost to add.
type CostInput struct {
	Description string
	Amount      decimal.Decimal
	CostType    CostType // empty means CostFixed
}

// Snapshot is a consistent copy of the session state.
type Snapshot struct {
	Items               []Item           `json:"items"`
	OtherCosts          []OtherCost      `json:"other_costs"`
	Services            []models.Service `json:"services"`
	Breakdown           Breakdown        `json:"breakdown"`
	TotalCost           money.Cents      `json:"total_cost"`
	SuggestedPrice      *money.Cents     `json:"suggested_price"`
	TotalValue          money.Cents      `json:"total_value"`
	TotalValueSetByUser bool             `json:"total_value_set_by_user"`
	Profitability       *float64         `json:"profitability"`
	Band                Band             `json:"band"`
	Calculating         bool             `json:"calculating"`
}

type requestKey struct {
	hasItems   bool
	totalCost  money.Cents
	totalValue money.Cents
}

func (k requestKey) ready() bool {
	return k.hasItems && k.totalCost > 0 && k.totalValue > 0
}

// Session is the editable state of a budget being composed. Every edit
// recomputes the total cost and suggested price synchronously and schedules
// a debounced profitability request. It is safe for concurrent use.
type Session struct {
	mu sync.Mutex

	calc            services.ProfitabilityCalculator
	notifier        Notifier
	onProfitability func(Snapshot)
	now             func() time.Time
	validityDays    int
	log             zerolog.Logger

	items    []Item
	costs    []OtherCost
	services []models.Service

	breakdown      Breakdown
	suggested      money.Cents
	hasSuggestion  bool
	totalValue     money.Cents
	valueSetByUser bool
	profitability  *float64
	calculating    bool

	debounce   *debouncer
	generation uint64
	cancel     context.CancelFunc
	lastKey    requestKey
	evaluated  bool

	ctx  context.Context
	stop context.CancelFunc
}

// NewSession creates an empty session backed by calc.
func NewSession(calc services.ProfitabilityCalculator, opts Options) *Session {
	ctx, stop := context.WithCancel(context.Background())

	s := &Session{
		calc:            calc,
		notifier:        opts.Notifier,
		onProfitability: opts.OnProfitability,
		now:             opts.Now,
		validityDays:    opts.ValidityDays,
		log:             logger.WithComponent("budget-session"),
		ctx:             ctx,
		stop:            stop,
	}
	if s.notifier == nil {
		s.notifier = discardNotifier{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.validityDays == 0 {
		s.validityDays = DefaultValidityDays
	}

	delay := opts.Debounce
	if delay == 0 {
		delay = DefaultDebounce
	}
	if delay > 0 {
		s.debounce = newDebouncer(delay, s.fire)
	}

	return s
}

// Close stops pending timers and cancels any in-flight request.
func (s *Session) Close() {
	if s.debounce != nil {
		s.debounce.stop()
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.stop()
}

// AddItem validates and appends a product line.
func (s *Session) AddItem(in ItemInput) (Item, error) {
	const op = "AddItem"

	if in.ProductID == "" {
		err := NewValidationError(op, "product_id", ErrProductNotSelected)
		s.notifier.Notify(err.Notification())
		return Item{}, err
	}
	item := Item{
		ProductID:   in.ProductID,
		ProductName: in.ProductName,
		UnitPrice:   in.UnitPrice,
		Quantity:    in.Quantity,
		Discount:    in.Discount,
	}
	if err := ValidateItem(item); err != nil {
		s.notifyValidation(err)
		return Item{}, err
	}

	id, err := newID(s.now())
	if err != nil {
		return Item{}, fmt.Errorf("%s: generate id: %w", op, err)
	}
	item.ID = id

	s.mu.Lock()
	s.items = append(s.items, item)
	s.changedLocked()
	s.mu.Unlock()

	s.log.Debug().
		Str("item_id", item.ID).
		Str("product_id", item.ProductID).
		Int("quantity", item.Quantity).
		Int64("total_cents", int64(item.TotalPrice())).
		Msg("Item added")

	return item, nil
}

// AddProduct adds a catalog product; its acquisition cost is the unit price.
func (s *Session) AddProduct(p models.Product, quantity int, discount money.Cents) (Item, error) {
	return s.AddItem(ItemInput{
		ProductID:   p.ID,
		ProductName: p.Name,
		UnitPrice:   p.AcquisitionCost,
		Quantity:    quantity,
		Discount:    discount,
	})
}

// AddProductByID resolves productID in the catalog and adds it.
func (s *Session) AddProductByID(ctx context.Context, catalog services.Catalog, productID string, quantity int, discount money.Cents) (Item, error) {
	if productID == "" {
		err := NewValidationError("AddProductByID", "product_id", ErrProductNotSelected)
		s.notifier.Notify(err.Notification())
		return Item{}, err
	}

	p, err := catalog.GetProduct(ctx, productID)
	if err != nil {
		return Item{}, fmt.Errorf("AddProductByID: get product %s: %w", productID, err)
	}
	return s.AddProduct(*p, quantity, discount)
}

// RemoveItem removes the item with the given id. It reports whether an item was removed.
func (s *Session) RemoveItem(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			s.changedLocked()
			return true
		}
	}
	return false
}

// AddCost validates and appends an additional cost.
func (s *Session) AddCost(in CostInput) (OtherCost, error) {
	const op = "AddCost"

	if in.CostType == "" {
		in.CostType = CostFixed
	}
	cost := OtherCost{
		Description: in.Description,
		Amount:      in.Amount,
		CostType:    in.CostType,
	}
	if err := ValidateCost(cost); err != nil {
		s.notifyValidation(err)
		return OtherCost{}, err
	}

	id, err := newID(s.now())
	if err != nil {
		return OtherCost{}, fmt.Errorf("%s: generate id: %w", op, err)
	}
	cost.ID = id

	s.mu.Lock()
	s.costs = append(s.costs, cost)
	s.changedLocked()
	s.mu.Unlock()

	s.log.Debug().
		Str("cost_id", cost.ID).
		Str("cost_type", string(cost.CostType)).
		Str("amount", cost.Amount.String()).
		Msg("Additional cost added")

	return cost, nil
}

// RemoveCost removes the additional cost with the given id.
func (s *Session) RemoveCost(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, cost := range s.costs {
		if cost.ID == id {
			s.costs = append(s.costs[:i:i], s.costs[i+1:]...)
			s.changedLocked()
			return true
		}
	}
	return false
}

// SelectService attaches an additional service. Selecting the same service
// twice is a no-op and reports false.
func (s *Session) SelectService(svc models.Service) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, selected := range s.services {
		if selected.ID == svc.ID {
			return false
		}
	}
	s.services = append(s.services, svc)
	s.changedLocked()
	return true
}

// DeselectService detaches the service with the given id.
func (s *Session) DeselectService(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, svc := range s.services {
		if svc.ID == id {
			s.services = append(s.services[:i:i], s.services[i+1:]...)
			s.changedLocked()
			return true
		}
	}
	return false
}

// SetTotalValue sets the sale value. A positive value stops the suggested
// price from overwriting it; zero clears the value and lets the suggestion
// fill it again.
func (s *Session) SetTotalValue(v money.Cents) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.valueSetByUser = v != 0
	s.totalValue = v
	s.changedLocked()
}

// InputTotalValue applies the currency typing mask to raw keystrokes, sets the
// resulting sale value and returns the masked text.
func (s *Session) InputTotalValue(raw string) string {
	masked := money.Mask(raw)
	s.SetTotalValue(money.Parse(masked))
	return masked
}

// AcceptSuggestion copies the suggested price into the sale value.
// It reports false when there is no suggestion.
func (s *Session) AcceptSuggestion() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasSuggestion {
		return false
	}
	s.totalValue = s.suggested
	s.valueSetByUser = true
	s.changedLocked()
	return true
}

// Reset clears every list and derived value and cancels pending work.
func (s *Session) Reset() {
	if s.debounce != nil {
		s.debounce.stop()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generation++
	s.items = nil
	s.costs = nil
	s.services = nil
	s.breakdown = Breakdown{}
	s.suggested, s.hasSuggestion = 0, false
	s.totalValue, s.valueSetByUser = 0, false
	s.profitability = nil
	s.calculating = false
	s.evaluated = false
	s.lastKey = requestKey{}
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Recalculate evaluates profitability now, bypassing the debounce.
//
// When the session has no items, no cost or no sale value, profitability is
// cleared without a request. When total cost and sale value are unchanged
// since the previous evaluation, the previous result is returned. Starting a
// request cancels the one in flight, and so does an edit that changes total
// cost or sale value. A superseded request returns ErrSuperseded and leaves
// the state untouched.
func (s *Session) Recalculate(ctx context.Context) (*float64, error) {
	s.mu.Lock()

	key := s.keyLocked()
	if s.evaluated && key == s.lastKey {
		p := copyFloat(s.profitability)
		s.mu.Unlock()
		return p, nil
	}
	s.evaluated = true
	s.lastKey = key
	s.generation++
	gen := s.generation

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	if !key.ready() {
		s.profitability = nil
		s.calculating = false
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.emit(snap)
		return nil, nil
	}

	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.cancel = cancel
	s.calculating = true
	req := NewProfitabilityRequest(s.items, s.costs, s.services, s.totalValue)
	s.mu.Unlock()

	s.log.Debug().
		Uint64("generation", gen).
		Int64("total_cost_cents", int64(key.totalCost)).
		Int64("total_value_cents", int64(key.totalValue)).
		Msg("Requesting profitability")

	p, err := s.calc.CalculateProfitability(reqCtx, req)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.log.Debug().
			Uint64("generation", gen).
			Msg("Discarding superseded profitability result")
		return nil, ErrSuperseded
	}
	s.cancel = nil
	s.calculating = false

	if err != nil {
		s.profitability = nil
		snap := s.snapshotLocked()
		s.mu.Unlock()

		s.log.Error().
			Err(err).
			Uint64("generation", gen).
			Msg("Profitability calculation failed")
		if ctx.Err() == nil {
			s.notifier.Notify(profitabilityFailure(err))
		}
		s.emit(snap)
		return nil, err
	}

	s.profitability = &p
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.log.Info().
		Float64("profitability", p).
		Str("band", string(BandFor(&p))).
		Msg("Profitability calculated")
	s.emit(snap)
	return copyFloat(&p), nil
}

// settledLocked reports whether the stored profitability belongs to the
// current inputs.
func (s *Session) settledLocked() bool {
	return s.evaluated && !s.calculating && s.lastKey == s.keyLocked()
}

// Refresh forgets the previous evaluation and recalculates.
func (s *Session) Refresh(ctx context.Context) (*float64, error) {
	s.mu.Lock()
	s.evaluated = false
	s.mu.Unlock()
	return s.Recalculate(ctx)
}

// fire runs a debounced evaluation.
func (s *Session) fire() {
	if s.ctx.Err() != nil {
		return
	}
	if _, err := s.Recalculate(s.ctx); err != nil && !errors.Is(err, ErrSuperseded) {
		s.log.Debug().Err(err).Msg("Debounced profitability evaluation failed")
	}
}

// changedLocked runs the synchronous part of the pipeline after an edit.
// A request in flight for other inputs is canceled and its result discarded.
func (s *Session) changedLocked() {
	s.breakdown = Compute(s.items, s.costs, s.services)
	s.suggested, s.hasSuggestion = SuggestedPrice(s.breakdown.Total)
	if !s.valueSetByUser {
		s.totalValue = s.suggested
	}

	if s.calculating && s.keyLocked() != s.lastKey {
		s.generation++
		if s.cancel != nil {
			s.cancel()
			s.cancel = nil
		}
		s.calculating = false
		s.evaluated = false
	}

	if s.debounce != nil {
		s.debounce.trigger()
	}
}

func (s *Session) keyLocked() requestKey {
	return requestKey{
		hasItems:   len(s.items) > 0,
		totalCost:  s.breakdown.Total,
		totalValue: s.totalValue,
	}
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		Items:               append([]Item{}, s.items...),
		OtherCosts:          append([]OtherCost{}, s.costs...),
		Services:            append([]models.Service{}, s.services...),
		Breakdown:           s.breakdown,
		TotalCost:           s.breakdown.Total,
		TotalValue:          s.totalValue,
		TotalValueSetByUser: s.valueSetByUser,
		Profitability:       copyFloat(s.profitability),
		Band:                BandFor(s.profitability),
		Calculating:         s.calculating,
	}
	if s.hasSuggestion {
		suggested := s.suggested
		snap.SuggestedPrice = &suggested
	}
	return snap
}

func (s *Session) emit(snap Snapshot) {
	if s.onProfitability != nil {
		s.onProfitability(snap)
	}
}

func (s *Session) notifyValidation(err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		s.notifier.Notify(verr.Notification())
	}
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
