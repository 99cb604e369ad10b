package httpserver

import (
	"context"
	"log"

	"storefront/internal/domain"
	customersvc "storefront/internal/service/customer"
	ordersvc "storefront/internal/service/order"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogService lists the product catalog and resolves single products.
type CatalogService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
}

// GuestCartService resolves the guest cookie payload into the cart aggregate.
type GuestCartService interface {
	Resolve(ctx context.Context, rawCookie string) domain.CartView
}

// OrderService is the authenticated-side cart resolver and mutator.
type OrderService interface {
	View(ctx context.Context, customerID int64) (domain.CartView, error)
	UpdateItem(ctx context.Context, customerID, productID int64, action string) error
	ProcessOrder(ctx context.Context, customerID int64, shipping *ordersvc.ShippingInput) (string, error)
}

// CustomerService issues and resolves customer identities.
type CustomerService interface {
	Signup(ctx context.Context, in customersvc.SignupInput) (*domain.Customer, error)
	Login(ctx context.Context, email, password string) (*domain.Customer, string, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.Customer, error)
	AccessTTLSeconds() int
}

// Deps carries the services the router depends on.
type Deps struct {
	CatalogSvc  CatalogService
	GuestSvc    GuestCartService
	OrderSvc    OrderService
	CustomerSvc CustomerService
}

// Options carries presentation-level settings.
type Options struct {
	MediaURLHost string
	CORSOrigins  []string
}

// buildRouter wires routes for the storefront API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, opts Options) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(corsMiddleware(opts.CORSOrigins))
	router.Use(identityMiddleware(deps.CustomerSvc, logger))

	h := &storeHandlers{
		catalog:   deps.CatalogSvc,
		guests:    deps.GuestSvc,
		orders:    deps.OrderSvc,
		imageHost: opts.MediaURLHost,
		logger:    logger,
	}

	router.GET("/", h.store)
	router.GET("/product/:id/", h.productDetail)
	router.GET("/cart/", h.cart)
	router.GET("/checkout/", h.checkout)
	router.POST("/update_item/", h.updateItem)
	router.POST("/process_order/", h.processOrder)

	a := &authHandlers{customers: deps.CustomerSvc, logger: logger}
	router.POST("/signup/", a.signup)
	router.POST("/login/", a.login)

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return cors.Default()
	}
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cors.New(cfg)
}
