package services

import (
	"context"
	"errors"
	"sync"

	"checkout-service/models"
	"checkout-service/notification"
	"checkout-service/repository"

	"github.com/google/uuid"
)

// mockStore is an in-memory Store. InTransaction snapshots the state before
// running fn and restores it when fn fails, mirroring a database rollback.
type mockStore struct {
	mu       sync.Mutex
	carts    map[uuid.UUID]*models.Cart // keyed by user id
	products map[uuid.UUID]*models.Product
	orders   map[uuid.UUID]*models.Order
	payments []models.Payment
}

func newMockStore() *mockStore {
	return &mockStore{
		carts:    make(map[uuid.UUID]*models.Cart),
		products: make(map[uuid.UUID]*models.Product),
		orders:   make(map[uuid.UUID]*models.Order),
	}
}

func (s *mockStore) addProduct(p models.Product) {
	cp := p
	s.products[p.ID] = &cp
}

func (s *mockStore) addCart(userID uuid.UUID, items ...models.CartItem) *models.Cart {
	cart := &models.Cart{ID: uuid.New(), UserID: userID, Items: items}
	for i := range cart.Items {
		cart.Items[i].CartID = cart.ID
	}
	s.carts[userID] = cart
	return cart
}

func (s *mockStore) addOrder(o models.Order) *models.Order {
	cp := cloneOrder(&o)
	s.orders[o.ID] = cp
	return cp
}

func cloneOrder(o *models.Order) *models.Order {
	cp := *o
	cp.Items = append([]models.OrderItem(nil), o.Items...)
	if o.PaymentTransactionID != nil {
		txn := *o.PaymentTransactionID
		cp.PaymentTransactionID = &txn
	}
	return &cp
}

func cloneCart(c *models.Cart) *models.Cart {
	cp := *c
	cp.Items = append([]models.CartItem(nil), c.Items...)
	return &cp
}

type storeSnapshot struct {
	carts    map[uuid.UUID]*models.Cart
	products map[uuid.UUID]*models.Product
	orders   map[uuid.UUID]*models.Order
	payments []models.Payment
}

func (s *mockStore) snapshot() storeSnapshot {
	snap := storeSnapshot{
		carts:    make(map[uuid.UUID]*models.Cart, len(s.carts)),
		products: make(map[uuid.UUID]*models.Product, len(s.products)),
		orders:   make(map[uuid.UUID]*models.Order, len(s.orders)),
		payments: append([]models.Payment(nil), s.payments...),
	}
	for k, v := range s.carts {
		snap.carts[k] = cloneCart(v)
	}
	for k, v := range s.products {
		cp := *v
		snap.products[k] = &cp
	}
	for k, v := range s.orders {
		snap.orders[k] = cloneOrder(v)
	}
	return snap
}

func (s *mockStore) restore(snap storeSnapshot) {
	s.carts = snap.carts
	s.products = snap.products
	s.orders = snap.orders
	s.payments = snap.payments
}

func (s *mockStore) InTransaction(ctx context.Context, fn func(tx repository.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *mockStore) FindOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, bool, error) {
	if cart, ok := s.carts[userID]; ok {
		return cloneCart(cart), false, nil
	}
	cart := &models.Cart{ID: uuid.New(), UserID: userID}
	s.carts[userID] = cart
	return cloneCart(cart), true, nil
}

func (s *mockStore) CartWithItems(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, ok := s.carts[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneCart(cart), nil
}

func (s *mockStore) CartForCheckout(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	return s.CartWithItems(ctx, userID)
}

func (s *mockStore) AddCartItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	return nil, errors.New("not exercised")
}

func (s *mockStore) UpdateCartItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	return errors.New("not exercised")
}

func (s *mockStore) RemoveCartItem(ctx context.Context, userID, itemID uuid.UUID) error {
	return errors.New("not exercised")
}

func (s *mockStore) ClearCart(ctx context.Context, cartID uuid.UUID) error {
	for _, cart := range s.carts {
		if cart.ID == cartID {
			cart.Items = nil
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *mockStore) FindOrCreateWishlist(ctx context.Context, userID uuid.UUID) (*models.Wishlist, bool, error) {
	return nil, false, errors.New("not exercised")
}

func (s *mockStore) AddWishlistItem(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	return false, errors.New("not exercised")
}

func (s *mockStore) CreateOrder(ctx context.Context, order *models.Order) error {
	s.orders[order.ID] = cloneOrder(order)
	return nil
}

func (s *mockStore) OrderByIDAndUser(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	order, ok := s.orders[orderID]
	if !ok || order.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (s *mockStore) OrderForUpdate(ctx context.Context, orderID uuid.UUID, userID *uuid.UUID) (*models.Order, error) {
	order, ok := s.orders[orderID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if userID != nil && order.UserID != *userID {
		return nil, repository.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (s *mockStore) SaveOrder(ctx context.Context, order *models.Order) error {
	if _, ok := s.orders[order.ID]; !ok {
		return repository.ErrNotFound
	}
	s.orders[order.ID] = cloneOrder(order)
	return nil
}

func (s *mockStore) OrdersByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Order, int64, error) {
	var out []models.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, *cloneOrder(o))
		}
	}
	return out, int64(len(out)), nil
}

func (s *mockStore) DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	p, ok := s.products[productID]
	if !ok {
		return repository.ErrNotFound
	}
	if p.StockQuantity < quantity {
		return repository.ErrInsufficientStock
	}
	p.StockQuantity -= quantity
	return nil
}

func (s *mockStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	s.payments = append(s.payments, *payment)
	return nil
}

// mockInvoiceSender records deliveries and can be told to fail.
type mockInvoiceSender struct {
	fail  bool
	calls []notification.InvoiceKind
}

func (m *mockInvoiceSender) DeliverInvoice(ctx context.Context, order *models.Order, kind notification.InvoiceKind) error {
	m.calls = append(m.calls, kind)
	if m.fail {
		return errors.New("smtp unreachable")
	}
	return nil
}

type publishedMessage struct {
	topic string
	key   string
	value []byte
}

type mockProducer struct {
	fail     bool
	messages []publishedMessage
}

func (m *mockProducer) Publish(topic string, key, message []byte) error {
	if m.fail {
		return errors.New("broker down")
	}
	m.messages = append(m.messages, publishedMessage{topic: topic, key: string(key), value: message})
	return nil
}

type mockIdempotencyStore struct {
	values map[string]string
	getErr error
}

func newMockIdempotencyStore() *mockIdempotencyStore {
	return &mockIdempotencyStore{values: make(map[string]string)}
}

func (m *mockIdempotencyStore) Get(ctx context.Context, key string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	return m.values[key], nil
}

func (m *mockIdempotencyStore) Set(ctx context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

type stubTransactionVerifier struct {
	succeeded bool
	err       error
	refs      []string
}

func (v *stubTransactionVerifier) VerifyTransaction(ctx context.Context, ref string) (bool, error) {
	v.refs = append(v.refs, ref)
	return v.succeeded, v.err
}

type stubSignatureVerifier struct {
	valid bool
}

func (v *stubSignatureVerifier) VerifyPaymentSignature(providerOrderID, providerPaymentID, signature string) bool {
	return v.valid
}
