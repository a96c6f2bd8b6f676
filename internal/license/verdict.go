// Package license implements the license validation engine: the read
// path producing verdicts for license keys, and the write path that
// creates and edits licenses under the tier policy.
package license

import (
	"errors"
	"time"
)

// Validation reasons surfaced to callers. These strings are part of the
// API contract; clients branch on them.
const (
	ReasonNotFound = "License key not found"
	ReasonExpired  = "License has expired"
)

// Sentinel errors for the license write path.
var (
	// ErrProductNotFound is returned when a license references a
	// product that does not exist.
	ErrProductNotFound = errors.New("product not found")
	// ErrLicenseNotFound is returned when editing a license whose key
	// does not exist.
	ErrLicenseNotFound = errors.New("license not found")
)

// Verdict is the result of validating a license key. It is a dedicated
// type decoupled from storage rows: either valid with entitlement
// details, or invalid with a machine-distinguishable reason.
type Verdict struct {
	Valid          bool       `json:"valid"`
	Reason         string     `json:"reason,omitempty"`
	ProductID      string     `json:"productId,omitempty"`
	Tier           *string    `json:"tier,omitempty"`
	ExpirationDate *time.Time `json:"expirationDate,omitempty"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
}

// invalidVerdict builds a denial with the given reason.
func invalidVerdict(reason string) Verdict {
	return Verdict{Valid: false, Reason: reason}
}
