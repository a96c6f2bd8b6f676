package models

import (
	"time"

	"github.com/google/uuid"
)

// License represents a credential granting usage rights to a Product,
// optionally scoped to a tier and an expiration date.
type License struct {
	Key            string     `json:"key"`
	ProductID      string     `json:"productId"`
	Tier           *string    `json:"tier,omitempty"`
	ExpirationDate *time.Time `json:"expirationDate,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// NewLicense creates a new License with a freshly minted key.
// Keys are generated server-side, never user-supplied.
func NewLicense(productID string, tier *string, expirationDate *time.Time) *License {
	return &License{
		Key:            uuid.New().String(),
		ProductID:      productID,
		Tier:           tier,
		ExpirationDate: expirationDate,
		CreatedAt:      time.Now(),
	}
}

// Expired reports whether the license's expiration date is strictly
// before the given instant. A license expiring exactly at now is still
// valid; a license without an expiration date never expires.
func (l *License) Expired(now time.Time) bool {
	return l.ExpirationDate != nil && l.ExpirationDate.Before(now)
}
