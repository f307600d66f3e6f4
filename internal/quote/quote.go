// Package quote holds the draft order state built up during a conversation
// and the resolution of model-proposed item codes against the catalog.
package quote

import "cotizador_backend/internal/catalog/repository"

// Status is the quote lifecycle state.
type Status string

const (
	// StatusDraft is the working state while the conversation iterates.
	StatusDraft Status = "draft"
	// StatusConfirmed means the customer explicitly confirmed the order.
	StatusConfirmed Status = "confirmed"
	// StatusSubmitted means the order backend accepted the order.
	StatusSubmitted Status = "submitted"
)

// CartItem is a catalog product plus the requested quantity.
type CartItem struct {
	repository.Product
	Quantity int `json:"quantity"`
}

// NewCartItem builds a CartItem from a resolved product and quantity.
func NewCartItem(p repository.Product, quantity int) CartItem {
	return CartItem{Product: p, Quantity: quantity}
}

// Quote is the draft order shown to the user. Total is always derived from
// Items; every mutation goes through a method that recomputes it.
type Quote struct {
	Items   []CartItem `json:"items"`
	Total   float64    `json:"total"`
	Status  Status     `json:"status"`
	OrderID string     `json:"orderId,omitempty"`
}

// NewQuote returns an empty draft quote.
func NewQuote() Quote {
	return Quote{Items: []CartItem{}, Status: StatusDraft}
}

// SetItems replaces the item list and recomputes the total. The model always
// sends the complete current list, so replacement is the only write shape.
func (q *Quote) SetItems(items []CartItem) {
	if items == nil {
		items = []CartItem{}
	}
	q.Items = items
	q.recalculate()
}

// RemoveItem drops the item with the given code, if present.
func (q *Quote) RemoveItem(code string) bool {
	for i, item := range q.Items {
		if item.Code == code {
			q.Items = append(q.Items[:i], q.Items[i+1:]...)
			q.recalculate()
			return true
		}
	}
	return false
}

// SetQuantity updates the quantity of the item with the given code.
// Quantities below one are rejected.
func (q *Quote) SetQuantity(code string, quantity int) bool {
	if quantity < 1 {
		return false
	}
	for i := range q.Items {
		if q.Items[i].Code == code {
			q.Items[i].Quantity = quantity
			q.recalculate()
			return true
		}
	}
	return false
}

func (q *Quote) recalculate() {
	total := 0.0
	for _, item := range q.Items {
		total += item.Price * float64(item.Quantity)
	}
	q.Total = total
}
