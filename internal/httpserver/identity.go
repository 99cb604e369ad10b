package httpserver

import (
	"context"
	"errors"
	"log"
	"strings"

	"storefront/internal/domain"
	customersvc "storefront/internal/service/customer"

	"github.com/gin-gonic/gin"
)

const identityKey = "storefront.identity"

// identity is the explicit identity-or-none value handlers receive instead
// of ambient request-bound auth state.
type identity struct {
	customer *domain.Customer
}

func (id identity) authenticated() bool {
	return id.customer != nil
}

// identityMiddleware resolves the Authorization bearer token to a customer.
// Requests without a valid token proceed as guests; only the token lookup
// infrastructure failing is logged.
func identityMiddleware(customers CustomerService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := identity{}
		if token := bearerToken(c.GetHeader("Authorization")); token != "" && customers != nil {
			cust, err := customers.LookupByToken(c.Request.Context(), token)
			switch {
			case err == nil:
				id.customer = cust
			case !errors.Is(err, customersvc.ErrInvalidToken):
				logger.Printf("identity: token lookup error=%v", err)
			}
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

func currentIdentity(c *gin.Context) identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(identity); ok {
			return id
		}
	}
	return identity{}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// cartSource produces the cart aggregate for one request, hiding whether it
// comes from the database or the guest cookie.
type cartSource interface {
	cartView(ctx context.Context) (domain.CartView, error)
}

type customerCart struct {
	orders     OrderService
	customerID int64
}

func (s customerCart) cartView(ctx context.Context) (domain.CartView, error) {
	return s.orders.View(ctx, s.customerID)
}

type guestCart struct {
	guests    GuestCartService
	rawCookie string
}

func (s guestCart) cartView(ctx context.Context) (domain.CartView, error) {
	return s.guests.Resolve(ctx, s.rawCookie), nil
}
