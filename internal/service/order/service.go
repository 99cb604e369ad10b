package order

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"storefront/internal/domain"
	"github.com/google/uuid"
)

const (
	ActionAdd    = "add"
	ActionRemove = "remove"
)

// ErrUnsupportedAction is returned for update actions other than add/remove.
var ErrUnsupportedAction = errors.New("unsupported action")

type orderRepo interface {
	OpenForCustomer(ctx context.Context, customerID int64) (*domain.Order, error)
	EnsureOpen(ctx context.Context, customerID int64) (*domain.Order, error)
	AdjustItemQuantity(ctx context.Context, orderID, productID int64, delta int) (int, error)
	SetTransactionID(ctx context.Context, orderID int64, transactionID string) error
	CreateShippingAddress(ctx context.Context, addr domain.ShippingAddress) (*domain.ShippingAddress, error)
}

type productRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

// Service is the authenticated-side cart resolver: it derives the shared
// cart aggregate from the customer's single open order and applies item
// mutations to it.
type Service struct {
	repo      orderRepo
	products  productRepo
	imageHost string
	logger    *log.Logger
}

func New(repo orderRepo, products productRepo, imageHost string, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, products: products, imageHost: imageHost, logger: logger}
}

// View returns the cart aggregate for the customer's open order, creating
// the order when none exists yet.
func (s *Service) View(ctx context.Context, customerID int64) (domain.CartView, error) {
	order, err := s.repo.EnsureOpen(ctx, customerID)
	if err != nil {
		return domain.EmptyCartView(), err
	}
	return order.CartView(s.imageHost), nil
}

// UpdateItem adjusts the quantity of one product in the customer's open
// order by one in either direction. The item row is created on demand, so a
// remove on an absent item creates it at zero, drops it to -1, and deletes
// it again in the same operation.
func (s *Service) UpdateItem(ctx context.Context, customerID, productID int64, action string) error {
	var delta int
	switch strings.TrimSpace(action) {
	case ActionAdd:
		delta = 1
	case ActionRemove:
		delta = -1
	default:
		return ErrUnsupportedAction
	}

	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return err
	}

	order, err := s.repo.EnsureOpen(ctx, customerID)
	if err != nil {
		return err
	}

	quantity, err := s.repo.AdjustItemQuantity(ctx, order.ID, productID, delta)
	if err != nil {
		return err
	}
	s.logger.Printf("order %d: product %d %s -> quantity %d", order.ID, productID, action, quantity)
	return nil
}

// ShippingInput carries the delivery details submitted at checkout.
type ShippingInput struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zipcode"`
}

// ProcessOrder acknowledges checkout for the customer's open order. It
// assigns a transaction id and records the shipping address when the order
// needs physical delivery. Payment and order completion are out of scope;
// the order stays open.
func (s *Service) ProcessOrder(ctx context.Context, customerID int64, shipping *ShippingInput) (string, error) {
	order, err := s.repo.EnsureOpen(ctx, customerID)
	if err != nil {
		return "", err
	}

	transactionID := uuid.NewString()
	if err := s.repo.SetTransactionID(ctx, order.ID, transactionID); err != nil {
		return "", err
	}

	if shipping != nil && order.CartView("").ShippingRequired {
		cust := customerID
		if _, err := s.repo.CreateShippingAddress(ctx, domain.ShippingAddress{
			OrderID:    order.ID,
			CustomerID: &cust,
			Address:    shipping.Address,
			City:       shipping.City,
			State:      shipping.State,
			Zip:        shipping.Zip,
		}); err != nil {
			return "", err
		}
	}

	return transactionID, nil
}
