package guestcart

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"sort"
	"strconv"
	"strings"

	"storefront/internal/domain"
)

type productGetter interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

// Service resolves the client-held guest cart cookie into the shared cart
// aggregate. The cookie is owned by client-side code; the server only reads
// and validates it, never writes it back.
type Service struct {
	products  productGetter
	imageHost string
	logger    *log.Logger
}

func New(products productGetter, imageHost string, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{products: products, imageHost: imageHost, logger: logger}
}

// cookieLine is one entry of the cookie payload, keyed by product id:
// {"3":{"quantity":2}}.
type cookieLine struct {
	Quantity int `json:"quantity"`
}

// Resolve turns the raw "cart" cookie payload into a CartView. The payload
// is untrusted input: malformed JSON yields an empty cart, and any entry
// that fails to resolve (bad key, unknown product, non-positive quantity) is
// skipped without affecting the rest of the cart. Resolve never fails.
func (s *Service) Resolve(ctx context.Context, rawCookie string) domain.CartView {
	view := domain.EmptyCartView()
	if strings.TrimSpace(rawCookie) == "" {
		return view
	}

	var cart map[string]cookieLine
	if err := json.Unmarshal([]byte(rawCookie), &cart); err != nil {
		s.logger.Printf("guest cart: unreadable cookie payload: %v", err)
		return view
	}

	for key, line := range cart {
		if line.Quantity <= 0 {
			continue
		}
		productID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			s.logger.Printf("guest cart: skipping non-numeric product id %q", key)
			continue
		}
		product, err := s.products.GetByID(ctx, productID)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				s.logger.Printf("guest cart: lookup id=%d error=%v", productID, err)
			}
			continue
		}

		lineTotal := product.PriceCents * int64(line.Quantity)
		view.ItemCount += line.Quantity
		view.TotalCents += lineTotal
		if !product.Digital {
			view.ShippingRequired = true
		}
		view.Items = append(view.Items, domain.CartViewItem{
			Product:        domain.ProductViewOf(*product, s.imageHost),
			Quantity:       line.Quantity,
			LineTotalCents: lineTotal,
		})
	}

	// Cookie keys arrive as an unordered mapping; keep output stable.
	sort.Slice(view.Items, func(i, j int) bool {
		return view.Items[i].Product.ID < view.Items[j].Product.ID
	})

	return view
}
