package order

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
)

type stubOrderRepo struct {
	openOrder     *domain.Order
	openErr       error
	ensureCalls   int
	adjustOrderID int64
	adjustProduct int64
	adjustDelta   int
	adjustResult  int
	adjustErr     error
	txOrderID     int64
	txValue       string
	txErr         error
	addr          *domain.ShippingAddress
	addrErr       error
}

func (s *stubOrderRepo) OpenForCustomer(_ context.Context, _ int64) (*domain.Order, error) {
	return s.openOrder, s.openErr
}

func (s *stubOrderRepo) EnsureOpen(_ context.Context, _ int64) (*domain.Order, error) {
	s.ensureCalls++
	return s.openOrder, s.openErr
}

func (s *stubOrderRepo) AdjustItemQuantity(_ context.Context, orderID, productID int64, delta int) (int, error) {
	s.adjustOrderID = orderID
	s.adjustProduct = productID
	s.adjustDelta = delta
	return s.adjustResult, s.adjustErr
}

func (s *stubOrderRepo) SetTransactionID(_ context.Context, orderID int64, transactionID string) error {
	s.txOrderID = orderID
	s.txValue = transactionID
	return s.txErr
}

func (s *stubOrderRepo) CreateShippingAddress(_ context.Context, addr domain.ShippingAddress) (*domain.ShippingAddress, error) {
	s.addr = &addr
	return &addr, s.addrErr
}

type stubProducts struct {
	known map[int64]domain.Product
}

func (s *stubProducts) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := s.known[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func physical(id int64, cents int64) domain.Product {
	return domain.Product{ID: id, Name: "P", PriceCents: cents}
}

func digital(id int64, cents int64) domain.Product {
	return domain.Product{ID: id, Name: "D", PriceCents: cents, Digital: true}
}

func orderWith(items ...domain.OrderItem) *domain.Order {
	return &domain.Order{ID: 42, Items: items}
}

func TestViewAggregatesOpenOrder(t *testing.T) {
	p1 := physical(3, 1000)
	p2 := digital(7, 500)
	repo := &stubOrderRepo{openOrder: orderWith(
		domain.OrderItem{ProductID: 3, Quantity: 2, Product: &p1},
		domain.OrderItem{ProductID: 7, Quantity: 3, Product: &p2},
	)}
	svc := New(repo, &stubProducts{}, "", nil)

	view, err := svc.View(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.ItemCount != 5 || view.TotalCents != 3500 {
		t.Fatalf("expected {5, 3500}, got {%d, %d}", view.ItemCount, view.TotalCents)
	}
	if !view.ShippingRequired {
		t.Fatalf("physical item must set shipping flag")
	}
	if repo.ensureCalls != 1 {
		t.Fatalf("expected one EnsureOpen call, got %d", repo.ensureCalls)
	}
}

func TestViewDigitalOnly(t *testing.T) {
	p := digital(7, 500)
	repo := &stubOrderRepo{openOrder: orderWith(domain.OrderItem{ProductID: 7, Quantity: 1, Product: &p})}
	svc := New(repo, &stubProducts{}, "", nil)

	view, err := svc.View(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.ShippingRequired {
		t.Fatalf("digital-only order must not require shipping")
	}
}

func TestViewRepoError(t *testing.T) {
	repo := &stubOrderRepo{openErr: errors.New("boom")}
	svc := New(repo, &stubProducts{}, "", nil)

	view, err := svc.View(context.Background(), 1)
	if err == nil {
		t.Fatalf("expected error")
	}
	if view.Items == nil || len(view.Items) != 0 {
		t.Fatalf("error path must return the empty aggregate, got %+v", view)
	}
}

func TestUpdateItemAdd(t *testing.T) {
	repo := &stubOrderRepo{openOrder: orderWith(), adjustResult: 1}
	svc := New(repo, &stubProducts{known: map[int64]domain.Product{3: physical(3, 1000)}}, "", nil)

	if err := svc.UpdateItem(context.Background(), 1, 3, ActionAdd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.adjustOrderID != 42 || repo.adjustProduct != 3 || repo.adjustDelta != 1 {
		t.Fatalf("unexpected adjust call: order=%d product=%d delta=%d", repo.adjustOrderID, repo.adjustProduct, repo.adjustDelta)
	}
}

func TestUpdateItemRemove(t *testing.T) {
	repo := &stubOrderRepo{openOrder: orderWith(), adjustResult: 0}
	svc := New(repo, &stubProducts{known: map[int64]domain.Product{3: physical(3, 1000)}}, "", nil)

	if err := svc.UpdateItem(context.Background(), 1, 3, ActionRemove); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.adjustDelta != -1 {
		t.Fatalf("expected delta -1, got %d", repo.adjustDelta)
	}
}

func TestUpdateItemRemoveAbsentItemSucceeds(t *testing.T) {
	// The repo creates the row at zero, applies -1 and deletes it again; the
	// service treats that as a normal remove.
	repo := &stubOrderRepo{openOrder: orderWith(), adjustResult: 0}
	svc := New(repo, &stubProducts{known: map[int64]domain.Product{3: physical(3, 1000)}}, "", nil)

	if err := svc.UpdateItem(context.Background(), 1, 3, ActionRemove); err != nil {
		t.Fatalf("remove on absent item must not fail: %v", err)
	}
}

func TestUpdateItemUnsupportedAction(t *testing.T) {
	repo := &stubOrderRepo{openOrder: orderWith()}
	svc := New(repo, &stubProducts{known: map[int64]domain.Product{3: physical(3, 1000)}}, "", nil)

	err := svc.UpdateItem(context.Background(), 1, 3, "clear")
	if !errors.Is(err, ErrUnsupportedAction) {
		t.Fatalf("expected ErrUnsupportedAction, got %v", err)
	}
	if repo.ensureCalls != 0 {
		t.Fatalf("invalid action must not touch the order")
	}
}

func TestUpdateItemUnknownProduct(t *testing.T) {
	repo := &stubOrderRepo{openOrder: orderWith()}
	svc := New(repo, &stubProducts{}, "", nil)

	err := svc.UpdateItem(context.Background(), 1, 999, ActionAdd)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if repo.ensureCalls != 0 {
		t.Fatalf("unknown product must not create an order")
	}
}

func TestProcessOrderAssignsTransactionID(t *testing.T) {
	p := digital(7, 500)
	repo := &stubOrderRepo{openOrder: orderWith(domain.OrderItem{ProductID: 7, Quantity: 1, Product: &p})}
	svc := New(repo, &stubProducts{}, "", nil)

	txID, err := svc.ProcessOrder(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if txID == "" || repo.txValue != txID || repo.txOrderID != 42 {
		t.Fatalf("transaction id not recorded: %q vs %q", txID, repo.txValue)
	}
}

func TestProcessOrderStoresShippingWhenRequired(t *testing.T) {
	p := physical(3, 1000)
	repo := &stubOrderRepo{openOrder: orderWith(domain.OrderItem{ProductID: 3, Quantity: 1, Product: &p})}
	svc := New(repo, &stubProducts{}, "", nil)

	shipping := &ShippingInput{Address: "1 Main St", City: "Springfield", State: "IL", Zip: "62704"}
	if _, err := svc.ProcessOrder(context.Background(), 9, shipping); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.addr == nil {
		t.Fatalf("expected shipping address to be stored")
	}
	if repo.addr.OrderID != 42 || repo.addr.CustomerID == nil || *repo.addr.CustomerID != 9 {
		t.Fatalf("unexpected address linkage: %+v", repo.addr)
	}
	if repo.addr.Address != "1 Main St" || repo.addr.Zip != "62704" {
		t.Fatalf("unexpected address fields: %+v", repo.addr)
	}
}

func TestProcessOrderSkipsShippingForDigitalOnly(t *testing.T) {
	p := digital(7, 500)
	repo := &stubOrderRepo{openOrder: orderWith(domain.OrderItem{ProductID: 7, Quantity: 1, Product: &p})}
	svc := New(repo, &stubProducts{}, "", nil)

	shipping := &ShippingInput{Address: "1 Main St", City: "Springfield", State: "IL", Zip: "62704"}
	if _, err := svc.ProcessOrder(context.Background(), 1, shipping); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.addr != nil {
		t.Fatalf("digital-only order must not store a shipping address")
	}
}
