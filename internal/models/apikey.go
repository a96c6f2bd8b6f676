package models

import (
	"time"
)

// APIKey represents an administrative API credential. Only the SHA-256
// hash of the key is stored; the raw key is shown once at creation.
type APIKey struct {
	KeyHash        string     `json:"-"`
	Name           *string    `json:"name,omitempty"`
	ExpirationDate *time.Time `json:"expirationDate,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// Expired reports whether the credential's expiration date is strictly
// before the given instant.
func (k *APIKey) Expired(now time.Time) bool {
	return k.ExpirationDate != nil && k.ExpirationDate.Before(now)
}
