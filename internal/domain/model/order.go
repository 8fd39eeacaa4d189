package model

import (
	"errors"
	"time"
)

// OrderStatus tracks an order through confirmation.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is a confirmed checkout of one or more vault selections.
type Order struct {
	ID            string      `json:"id"             db:"id"`
	UserID        string      `json:"user_id"        db:"user_id"`
	Status        OrderStatus `json:"status"         db:"status"`
	Total         float64     `json:"total"          db:"total"`
	CertificateID *string     `json:"certificate_id" db:"certificate_id"`
	CreatedAt     time.Time   `json:"created_at"     db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"     db:"updated_at"`
}

// OrderLine is a single product within an order, priced at checkout time.
type OrderLine struct {
	OrderID   string  `json:"order_id"   db:"order_id"`
	ProductID string  `json:"product_id" db:"product_id"`
	Title     string  `json:"title"      db:"title"`
	Price     float64 `json:"price"      db:"price"`
}

// CheckoutRequest carries the client's vault selection into checkout.
// Prices are re-read from the catalog server-side; client prices are ignored.
type CheckoutRequest struct {
	ProductIDs []string `json:"product_ids"`
}

// Validate checks the checkout request shape.
func (r *CheckoutRequest) Validate() error {
	if len(r.ProductIDs) == 0 {
		return errors.New("at least one product is required")
	}
	seen := make(map[string]struct{}, len(r.ProductIDs))
	for _, id := range r.ProductIDs {
		if id == "" {
			return errors.New("product ID must not be empty")
		}
		if _, dup := seen[id]; dup {
			return errors.New("duplicate product in selection")
		}
		seen[id] = struct{}{}
	}
	return nil
}
