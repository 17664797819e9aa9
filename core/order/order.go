// Package order covers orders placed from a cart: the /orders integration
// helper and the sandbox book and handlers behind it.
package order

import (
	"time"

	"github.com/irsalhamdi/playstation-store/core/cart"
	"github.com/irsalhamdi/playstation-store/core/catalog"
	"github.com/shopspring/decimal"
)

type Status string

const (
	Pending Status = "pending"
	Success Status = "success"
	Expired Status = "expired"
)

type Order struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	Items     []Item          `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Status    Status          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Item is an order line priced when the order was placed.
type Item struct {
	ProductID catalog.ID      `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type NewOrder struct {
	Email string    `json:"email" validate:"required,email"`
	Items []NewItem `json:"items" validate:"required,min=1,dive"`
}

type NewItem struct {
	ProductID catalog.ID `json:"product_id" validate:"required"`
	Quantity  int        `json:"quantity" validate:"required,min=1"`
}

type StatusUp struct {
	Status Status `json:"status" validate:"required,oneof=pending success expired"`
}

// FromCart turns the lines of a cart into an order for email.
func FromCart(email string, st cart.State) NewOrder {
	no := NewOrder{Email: email, Items: make([]NewItem, 0, len(st.Items))}
	for _, it := range st.Items {
		no.Items = append(no.Items, NewItem{ProductID: it.ID, Quantity: it.Quantity})
	}
	return no
}
