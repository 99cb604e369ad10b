package httpserver

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"strconv"

	"storefront/internal/domain"
	ordersvc "storefront/internal/service/order"

	"github.com/gin-gonic/gin"
)

// guestCartCookie is the client-owned cookie holding the guest cart mapping.
// The server only ever reads it.
const guestCartCookie = "cart"

type storeHandlers struct {
	catalog   CatalogService
	guests    GuestCartService
	orders    OrderService
	imageHost string
	logger    *log.Logger
}

// cartSourceFor selects the cart source once per request so the rest of the
// handler never branches on authentication state.
func (h *storeHandlers) cartSourceFor(c *gin.Context) cartSource {
	if id := currentIdentity(c); id.authenticated() {
		return customerCart{orders: h.orders, customerID: id.customer.ID}
	}
	raw, err := c.Cookie(guestCartCookie)
	if err != nil {
		raw = ""
	}
	return guestCart{guests: h.guests, rawCookie: raw}
}

type catalogProduct struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
	Digital    bool   `json:"digital"`
	ImageURL   string `json:"imageURL"`
}

func (h *storeHandlers) toCatalogProduct(p domain.Product) catalogProduct {
	return catalogProduct{
		ID:         p.ID,
		Name:       p.Name,
		PriceCents: p.PriceCents,
		Digital:    p.Digital,
		ImageURL:   p.ImageURL(h.imageHost),
	}
}

// GET /
func (h *storeHandlers) store(c *gin.Context) {
	ctx := c.Request.Context()

	products, err := h.catalog.List(ctx)
	if err != nil {
		h.logger.Printf("store: list products error=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load products"})
		return
	}

	view, err := h.cartSourceFor(c).cartView(ctx)
	if err != nil {
		h.logger.Printf("store: cart view error=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load cart"})
		return
	}

	out := make([]catalogProduct, 0, len(products))
	for _, p := range products {
		out = append(out, h.toCatalogProduct(p))
	}
	c.JSON(http.StatusOK, gin.H{"products": out, "cartItems": view.ItemCount})
}

// GET /product/:id/
func (h *storeHandlers) productDetail(c *gin.Context) {
	ctx := c.Request.Context()

	view, err := h.cartSourceFor(c).cartView(ctx)
	if err != nil {
		h.logger.Printf("product detail: cart view error=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load cart"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found", "cartItems": view.ItemCount})
		return
	}

	product, err := h.catalog.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found", "cartItems": view.ItemCount})
			return
		}
		h.logger.Printf("product detail: get id=%d error=%v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": h.toCatalogProduct(*product), "cartItems": view.ItemCount})
}

// GET /cart/
func (h *storeHandlers) cart(c *gin.Context) {
	h.renderCart(c)
}

// GET /checkout/
func (h *storeHandlers) checkout(c *gin.Context) {
	h.renderCart(c)
}

func (h *storeHandlers) renderCart(c *gin.Context) {
	view, err := h.cartSourceFor(c).cartView(c.Request.Context())
	if err != nil {
		h.logger.Printf("cart: view error=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load cart"})
		return
	}
	c.JSON(http.StatusOK, view)
}

// productID accepts both JSON numbers and the string ids the storefront
// client sends (DOM dataset values are always strings).
type productID int64

func (p *productID) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return err
	}
	*p = productID(v)
	return nil
}

type updateItemRequest struct {
	ProductID productID `json:"productId"`
	Action    string    `json:"action"`
}

// POST /update_item/
//
// Server-side cart mutation needs a durable identity; guests manage their
// cart entirely in the cookie, so unauthenticated calls are rejected before
// touching anything.
func (h *storeHandlers) updateItem(c *gin.Context) {
	id := currentIdentity(c)
	if !id.authenticated() {
		c.JSON(http.StatusForbidden, gin.H{"error": "not logged in, cart is cookie-managed for guests"})
		return
	}

	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	err := h.orders.UpdateItem(c.Request.Context(), id.customer.ID, int64(req.ProductID), req.Action)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, "Item was successfully updated")
	case errors.Is(err, ordersvc.ErrUnsupportedAction):
		c.JSON(http.StatusBadRequest, gin.H{"error": "action must be add or remove"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	default:
		h.logger.Printf("update item: customer=%d product=%d error=%v", id.customer.ID, req.ProductID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update item"})
	}
}

type processOrderRequest struct {
	Shipping *ordersvc.ShippingInput `json:"shipping"`
}

// POST /process_order/
//
// Payment is stubbed: the open order gets a transaction id and, when it
// needs physical delivery, the submitted shipping address. The order is not
// completed.
func (h *storeHandlers) processOrder(c *gin.Context) {
	id := currentIdentity(c)
	if !id.authenticated() {
		// Nothing server-side to finalize for a guest.
		c.JSON(http.StatusOK, gin.H{"status": "payment submitted"})
		return
	}

	var req processOrderRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
	}

	transactionID, err := h.orders.ProcessOrder(c.Request.Context(), id.customer.ID, req.Shipping)
	if err != nil {
		h.logger.Printf("process order: customer=%d error=%v", id.customer.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not process order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "payment submitted", "transactionId": transactionID})
}
