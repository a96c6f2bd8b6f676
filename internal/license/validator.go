package license

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cerealdev/cereal/internal/db"
	"github.com/cerealdev/cereal/internal/models"
	"github.com/rs/zerolog"
)

// LicenseStore defines the interface for license lookup operations.
type LicenseStore interface {
	GetLicenseByKey(ctx context.Context, key string) (*models.License, error)
}

// Validator decides whether a license key grants access. Every call
// re-reads current store state; there is no caching, so edits take
// effect on the next request.
type Validator struct {
	store  LicenseStore
	logger zerolog.Logger
}

// NewValidator creates a new license Validator.
func NewValidator(store LicenseStore, logger zerolog.Logger) *Validator {
	return &Validator{
		store:  store,
		logger: logger.With().Str("component", "license_validator").Logger(),
	}
}

// Validate looks up a license key and produces a verdict. An unknown
// key and an expired key are distinct denials, so callers can show
// renewal messaging for the latter. The stored tier is surfaced as-is;
// tier consistency was enforced at write time. A store fault is
// returned as an error, never folded into a verdict.
func (v *Validator) Validate(ctx context.Context, key string) (Verdict, error) {
	lic, err := v.store.GetLicenseByKey(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			v.logger.Debug().Msg("license key not found")
			return invalidVerdict(ReasonNotFound), nil
		}
		return Verdict{}, fmt.Errorf("look up license: %w", err)
	}

	if lic.Expired(time.Now()) {
		v.logger.Debug().
			Str("product_id", lic.ProductID).
			Time("expiration_date", *lic.ExpirationDate).
			Msg("license expired")
		verdict := invalidVerdict(ReasonExpired)
		verdict.ExpirationDate = lic.ExpirationDate
		return verdict, nil
	}

	createdAt := lic.CreatedAt
	return Verdict{
		Valid:          true,
		ProductID:      lic.ProductID,
		Tier:           lic.Tier,
		ExpirationDate: lic.ExpirationDate,
		CreatedAt:      &createdAt,
	}, nil
}
