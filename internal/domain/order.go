package domain

import "time"

// Order is the active cart of a customer while Complete is false. At most
// one incomplete order exists per customer; the schema enforces this with a
// partial unique index.
type Order struct {
	ID            int64       `json:"id"`
	CustomerID    *int64      `json:"customerId,omitempty"`
	Complete      bool        `json:"complete"`
	TransactionID string      `json:"transactionId,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	Items         []OrderItem `json:"items,omitempty"`
}

// OrderItem joins an order to a product with a quantity. Rows never persist
// at quantity <= 0; they are deleted instead.
type OrderItem struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"orderId"`
	ProductID int64     `json:"productId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	Product   *Product  `json:"product,omitempty"`
}

// LineTotalCents is price times quantity for this item.
func (i OrderItem) LineTotalCents() int64 {
	if i.Product == nil {
		return 0
	}
	return i.Product.PriceCents * int64(i.Quantity)
}

// CartView derives the shared cart aggregate from the order's items.
func (o Order) CartView(imageHost string) CartView {
	view := CartView{Items: make([]CartViewItem, 0, len(o.Items))}
	for _, item := range o.Items {
		if item.Product == nil || item.Quantity <= 0 {
			continue
		}
		lineTotal := item.LineTotalCents()
		view.ItemCount += item.Quantity
		view.TotalCents += lineTotal
		if !item.Product.Digital {
			view.ShippingRequired = true
		}
		view.Items = append(view.Items, CartViewItem{
			Product:        ProductViewOf(*item.Product, imageHost),
			Quantity:       item.Quantity,
			LineTotalCents: lineTotal,
		})
	}
	return view
}

type ShippingAddress struct {
	ID         int64     `json:"id"`
	OrderID    int64     `json:"orderId"`
	CustomerID *int64    `json:"customerId,omitempty"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	Zip        string    `json:"zipcode"`
	CreatedAt  time.Time `json:"createdAt"`
}
