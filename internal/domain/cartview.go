package domain

// CartView is the aggregate both cart sources produce: the persisted order
// of an authenticated customer and the cookie cart of a guest. Handlers and
// response builders only ever see this shape.
type CartView struct {
	ItemCount        int            `json:"cartItemCount"`
	TotalCents       int64          `json:"totalCents"`
	ShippingRequired bool           `json:"shippingRequired"`
	Items            []CartViewItem `json:"items"`
}

type CartViewItem struct {
	Product        ProductView `json:"product"`
	Quantity       int         `json:"quantity"`
	LineTotalCents int64       `json:"lineTotalCents"`
}

// ProductView is the denormalized product snapshot embedded in cart items so
// callers never need a second lookup.
type ProductView struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
	ImageURL   string `json:"imageURL"`
}

func ProductViewOf(p Product, imageHost string) ProductView {
	return ProductView{
		ID:         p.ID,
		Name:       p.Name,
		PriceCents: p.PriceCents,
		ImageURL:   p.ImageURL(imageHost),
	}
}

// EmptyCartView is the zero-valued aggregate with a non-nil item list.
func EmptyCartView() CartView {
	return CartView{Items: []CartViewItem{}}
}
