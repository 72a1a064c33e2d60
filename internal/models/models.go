package models

import (
	"time"
)

// Product is supplied by the static catalog and never mutated here.
type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Stock       uint    `json:"stock"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}

type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// WithoutHash returns a copy safe to hand to callers or to keep in the
// session slot. The stored directory is the only place the hash lives.
func (a Account) WithoutHash() Account {
	a.PasswordHash = ""
	return a
}

// CartItem copies the product fields by value so a later catalog change
// does not rewrite an existing cart.
type CartItem struct {
	Product
	Quantity uint `json:"quantity"`
}

type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}
