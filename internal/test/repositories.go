package test

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/mkulima/shambamart/internal/domain/errors"
	"github.com/mkulima/shambamart/internal/domain/model"
)

// BuyerRepositoryStub stores accounts in-memory for tests.
type BuyerRepositoryStub struct {
	ByEmail map[string]*model.Buyer
	ByID    map[int64]*model.Buyer
	Next    int64
	Err     error
}

// NewBuyerRepositoryStub constructs stub repository with initialized maps.
func NewBuyerRepositoryStub() *BuyerRepositoryStub {
	return &BuyerRepositoryStub{
		ByEmail: make(map[string]*model.Buyer),
		ByID:    make(map[int64]*model.Buyer),
		Next:    1,
	}
}

// Create registers an account unless it already exists or the stub has an explicit error.
func (s *BuyerRepositoryStub) Create(ctx context.Context, name, email, passwordHash string, role model.Role) (*model.Buyer, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if _, exists := s.ByEmail[email]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	buyer := &model.Buyer{ID: s.Next, Name: name, Email: email, PasswordHash: passwordHash, Role: role, Active: true}
	s.Next++
	s.ByEmail[email] = buyer
	s.ByID[buyer.ID] = buyer
	return buyer, nil
}

// GetByEmail fetches an account by email or returns not found.
func (s *BuyerRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.Buyer, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if buyer, ok := s.ByEmail[email]; ok {
		return buyer, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches an account by identifier or returns not found.
func (s *BuyerRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Buyer, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if buyer, ok := s.ByID[id]; ok {
		return buyer, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ItemRepositoryStub keeps items in-memory behind a mutex so reservation
// races can be exercised from concurrent goroutines.
type ItemRepositoryStub struct {
	mu    sync.Mutex
	Items map[int64]*model.Item
	Next  int64

	TryReserveFn func(context.Context, int64) (decimal.Decimal, error)
	ReleaseFn    func(context.Context, int64) error

	Reserved []int64
	Released []int64
}

// NewItemRepositoryStub constructs stub repository with initialized maps.
func NewItemRepositoryStub() *ItemRepositoryStub {
	return &ItemRepositoryStub{Items: make(map[int64]*model.Item), Next: 1}
}

// Seed inserts an available active item and returns its identifier.
func (s *ItemRepositoryStub) Seed(sellerID int64, name string, price decimal.Decimal) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.Next
	s.Next++
	s.Items[id] = &model.Item{ID: id, SellerID: sellerID, Name: name, Species: "goat", Price: price, Available: true, Active: true}
	return id
}

// Create stores a new item.
func (s *ItemRepositoryStub) Create(ctx context.Context, item *model.Item) (*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *item
	stored.ID = s.Next
	stored.Available = true
	stored.Active = true
	s.Next++
	s.Items[stored.ID] = &stored
	result := stored
	return &result, nil
}

// GetByID returns a copy of the stored item.
func (s *ItemRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.Items[id]
	if !ok || !item.Active {
		return nil, domainErrors.ErrNotFound
	}
	result := *item
	return &result, nil
}

// ListAvailable returns items open for purchase.
func (s *ItemRepositoryStub) ListAvailable(ctx context.Context) ([]model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []model.Item
	for _, item := range s.Items {
		if item.Active && item.Available {
			items = append(items, *item)
		}
	}
	return items, nil
}

// ListBySeller returns the seller's items.
func (s *ItemRepositoryStub) ListBySeller(ctx context.Context, sellerID int64) ([]model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []model.Item
	for _, item := range s.Items {
		if item.Active && item.SellerID == sellerID {
			items = append(items, *item)
		}
	}
	return items, nil
}

// Update replaces stored attributes.
func (s *ItemRepositoryStub) Update(ctx context.Context, item *model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.Items[item.ID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	stored.Name = item.Name
	stored.Species = item.Species
	stored.Breed = item.Breed
	stored.AgeMonths = item.AgeMonths
	stored.Price = item.Price
	return nil
}

// Deactivate hides the item from the catalog.
func (s *ItemRepositoryStub) Deactivate(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.Items[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	item.Active = false
	return nil
}

// TryReserve flips availability under the stub mutex so exactly one of
// any set of concurrent callers succeeds.
func (s *ItemRepositoryStub) TryReserve(ctx context.Context, id int64) (decimal.Decimal, error) {
	if s.TryReserveFn != nil {
		return s.TryReserveFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.Items[id]
	if !ok || !item.Active {
		return decimal.Zero, domainErrors.ErrNotFound
	}
	if !item.Available {
		return decimal.Zero, domainErrors.ItemUnavailableError{ItemID: id}
	}
	item.Available = false
	s.Reserved = append(s.Reserved, id)
	return item.Price, nil
}

// Release reverts a reservation and records the call order.
func (s *ItemRepositoryStub) Release(ctx context.Context, id int64) error {
	if s.ReleaseFn != nil {
		return s.ReleaseFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.Items[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	item.Available = true
	s.Released = append(s.Released, id)
	return nil
}

// CartRepositoryStub stores cart lines in-memory for tests.
type CartRepositoryStub struct {
	mu    sync.Mutex
	Lines map[int64]*model.CartLine
	Next  int64

	LinesForFn    func(context.Context, int64) ([]model.CartLine, error)
	DeleteLinesFn func(context.Context, []int64) error

	Deleted [][]int64
}

// NewCartRepositoryStub constructs stub repository with initialized maps.
func NewCartRepositoryStub() *CartRepositoryStub {
	return &CartRepositoryStub{Lines: make(map[int64]*model.CartLine), Next: 1}
}

// SeedLine inserts a cart line and returns its identifier.
func (s *CartRepositoryStub) SeedLine(buyerID, itemID int64, quantity int, price decimal.Decimal) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.Next
	s.Next++
	s.Lines[id] = &model.CartLine{ID: id, BuyerID: buyerID, ItemID: itemID, Quantity: quantity, Price: price}
	return id
}

// LinesFor returns the buyer's lines ordered as stored.
func (s *CartRepositoryStub) LinesFor(ctx context.Context, buyerID int64) ([]model.CartLine, error) {
	if s.LinesForFn != nil {
		return s.LinesForFn(ctx, buyerID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var lines []model.CartLine
	for _, line := range s.Lines {
		if line.BuyerID == buyerID {
			lines = append(lines, *line)
		}
	}
	return lines, nil
}

// Upsert merges quantity for an existing buyer-item pair or inserts a new line.
func (s *CartRepositoryStub) Upsert(ctx context.Context, line *model.CartLine) (*model.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.Lines {
		if existing.BuyerID == line.BuyerID && existing.ItemID == line.ItemID {
			existing.Quantity += line.Quantity
			existing.Price = line.Price
			result := *existing
			return &result, nil
		}
	}
	stored := *line
	stored.ID = s.Next
	s.Next++
	s.Lines[stored.ID] = &stored
	result := stored
	return &result, nil
}

// UpdateQuantity changes quantity of the buyer's line.
func (s *CartRepositoryStub) UpdateQuantity(ctx context.Context, buyerID, lineID int64, quantity int) (*model.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line, ok := s.Lines[lineID]
	if !ok || line.BuyerID != buyerID {
		return nil, domainErrors.ErrNotFound
	}
	line.Quantity = quantity
	result := *line
	return &result, nil
}

// Delete removes the buyer's line.
func (s *CartRepositoryStub) Delete(ctx context.Context, buyerID, lineID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	line, ok := s.Lines[lineID]
	if !ok || line.BuyerID != buyerID {
		return domainErrors.ErrNotFound
	}
	delete(s.Lines, lineID)
	return nil
}

// DeleteLines removes the given lines, skipping already-deleted ones.
func (s *CartRepositoryStub) DeleteLines(ctx context.Context, lineIDs []int64) error {
	if s.DeleteLinesFn != nil {
		return s.DeleteLinesFn(ctx, lineIDs)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range lineIDs {
		delete(s.Lines, id)
	}
	s.Deleted = append(s.Deleted, lineIDs)
	return nil
}

// OrderRepositoryStub stores orders in-memory, enforcing checkout key
// uniqueness and the order state machine like the real storage does.
type OrderRepositoryStub struct {
	mu     sync.Mutex
	Orders map[int64]*model.Order
	ByKey  map[uuid.UUID]int64
	Lns    map[int64][]model.OrderLine
	Next   int64

	CreateFn    func(context.Context, *model.Order, []model.OrderLine) (*model.Order, error)
	SetStatusFn func(context.Context, int64, model.OrderStatus) error

	StatusCalls []model.OrderStatus
}

// NewOrderRepositoryStub constructs stub repository with initialized maps.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{
		Orders: make(map[int64]*model.Order),
		ByKey:  make(map[uuid.UUID]int64),
		Lns:    make(map[int64][]model.OrderLine),
		Next:   1,
	}
}

// Create stores the order with its lines unless the checkout key is taken.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order, lines []model.OrderLine) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order, lines)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.ByKey[order.CheckoutKey]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	stored := *order
	stored.ID = s.Next
	s.Next++
	s.Orders[stored.ID] = &stored
	s.ByKey[stored.CheckoutKey] = stored.ID
	s.Lns[stored.ID] = append([]model.OrderLine(nil), lines...)
	result := stored
	return &result, nil
}

// GetByCheckoutKey returns the order created with the given key.
func (s *OrderRepositoryStub) GetByCheckoutKey(ctx context.Context, key uuid.UUID) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.ByKey[key]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	result := *s.Orders[id]
	return &result, nil
}

// GetForBuyer returns the order only when it belongs to the buyer.
func (s *OrderRepositoryStub) GetForBuyer(ctx context.Context, orderID, buyerID int64) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.Orders[orderID]
	if !ok || order.BuyerID != buyerID {
		return nil, domainErrors.ErrNotFound
	}
	result := *order
	return &result, nil
}

// Lines returns the stored line snapshots.
func (s *OrderRepositoryStub) Lines(ctx context.Context, orderID int64) ([]model.OrderLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.OrderLine(nil), s.Lns[orderID]...), nil
}

// ListByBuyer returns the buyer's orders.
func (s *OrderRepositoryStub) ListByBuyer(ctx context.Context, buyerID int64) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var orders []model.Order
	for _, order := range s.Orders {
		if order.BuyerID == buyerID {
			orders = append(orders, *order)
		}
	}
	return orders, nil
}

// SetStatus applies the transition or rejects it like the real storage.
func (s *OrderRepositoryStub) SetStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	if s.SetStatusFn != nil {
		return s.SetStatusFn(ctx, orderID, status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.Orders[orderID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if !order.Status.CanTransitionTo(status) {
		return domainErrors.ErrInvalidTransition
	}
	order.Status = status
	order.Paid = status == model.OrderStatusPaid
	s.StatusCalls = append(s.StatusCalls, status)
	return nil
}

// PaymentRepositoryStub stores payment attempts in-memory for tests.
type PaymentRepositoryStub struct {
	mu       sync.Mutex
	Payments map[int64]*model.Payment
	Next     int64

	MarkCompletedFn func(context.Context, int64) (*model.Payment, error)
	MarkFailedFn    func(context.Context, int64) (*model.Payment, error)
	BatchFn         func(context.Context, int) ([]model.Payment, error)

	Completed []int64
	Failed    []int64
}

// NewPaymentRepositoryStub constructs stub repository with initialized maps.
func NewPaymentRepositoryStub() *PaymentRepositoryStub {
	return &PaymentRepositoryStub{Payments: make(map[int64]*model.Payment), Next: 1}
}

// Create stores a new payment attempt.
func (s *PaymentRepositoryStub) Create(ctx context.Context, payment *model.Payment) (*model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *payment
	stored.ID = s.Next
	s.Next++
	s.Payments[stored.ID] = &stored
	result := stored
	return &result, nil
}

// GetByID fetches a payment or returns not found.
func (s *PaymentRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payment, ok := s.Payments[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	result := *payment
	return &result, nil
}

// ListByOrder returns the order's attempts.
func (s *PaymentRepositoryStub) ListByOrder(ctx context.Context, orderID int64) ([]model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var payments []model.Payment
	for _, payment := range s.Payments {
		if payment.OrderID == orderID {
			payments = append(payments, *payment)
		}
	}
	return payments, nil
}

// MarkCompleted finalizes a pending payment or rejects a terminal one.
func (s *PaymentRepositoryStub) MarkCompleted(ctx context.Context, paymentID int64) (*model.Payment, error) {
	if s.MarkCompletedFn != nil {
		return s.MarkCompletedFn(ctx, paymentID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	payment, ok := s.Payments[paymentID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if payment.Status.Terminal() {
		return nil, domainErrors.ErrInvalidTransition
	}
	payment.Status = model.PaymentStatusCompleted
	s.Completed = append(s.Completed, paymentID)
	result := *payment
	return &result, nil
}

// MarkFailed marks a pending payment failed or rejects a terminal one.
func (s *PaymentRepositoryStub) MarkFailed(ctx context.Context, paymentID int64) (*model.Payment, error) {
	if s.MarkFailedFn != nil {
		return s.MarkFailedFn(ctx, paymentID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	payment, ok := s.Payments[paymentID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if payment.Status.Terminal() {
		return nil, domainErrors.ErrInvalidTransition
	}
	payment.Status = model.PaymentStatusFailed
	s.Failed = append(s.Failed, paymentID)
	result := *payment
	return &result, nil
}

// SelectBatchForReconciliation returns pending payments with an external reference.
func (s *PaymentRepositoryStub) SelectBatchForReconciliation(ctx context.Context, limit int) ([]model.Payment, error) {
	if s.BatchFn != nil {
		return s.BatchFn(ctx, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var payments []model.Payment
	for _, payment := range s.Payments {
		if payment.Status == model.PaymentStatusPending && payment.ExternalRef != "" {
			payments = append(payments, *payment)
			if len(payments) == limit {
				break
			}
		}
	}
	return payments, nil
}
