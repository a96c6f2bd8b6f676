// Package models defines the core data types for Cereal.
package models

import (
	"time"
)

// Product represents a registered software application that can have
// licenses and downloadable artifacts.
type Product struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	AvailableTiers []string  `json:"availableTiers,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewProduct creates a new Product with the given identity and name.
func NewProduct(id, name string, availableTiers []string) *Product {
	return &Product{
		ID:             id,
		Name:           name,
		AvailableTiers: availableTiers,
		CreatedAt:      time.Now(),
	}
}

// Tiered reports whether the product declares a tier set.
func (p *Product) Tiered() bool {
	return len(p.AvailableTiers) > 0
}
