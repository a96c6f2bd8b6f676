package license

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cerealdev/cereal/internal/db"
	"github.com/cerealdev/cereal/internal/models"
	"github.com/cerealdev/cereal/internal/tier"
	"github.com/rs/zerolog"
)

// Store defines the interface for license write-path persistence.
type Store interface {
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	GetLicenseByKey(ctx context.Context, key string) (*models.License, error)
	CreateLicense(ctx context.Context, lic *models.License) error
	UpdateLicense(ctx context.Context, lic *models.License) error
}

// Patch describes a partial license edit. Only fields explicitly
// supplied are changed; the Clear flags remove optional fields.
type Patch struct {
	ProductID       *string
	Tier            *string
	ClearTier       bool
	ExpirationDate  *time.Time
	ClearExpiration bool
}

// Service implements the license write path: creation mints a fresh
// key, editing applies partial updates. Both run the tier policy
// evaluator against the target product before persisting, so no
// inconsistent row is ever written.
type Service struct {
	store  Store
	logger zerolog.Logger
}

// NewService creates a new license Service.
func NewService(store Store, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.With().Str("component", "license_service").Logger(),
	}
}

// Create issues a new license for a product. The tier must satisfy the
// product's tier policy. Each call mints a new key; creation is not
// idempotent.
func (s *Service) Create(ctx context.Context, productID string, candidate *string, expirationDate *time.Time) (*models.License, error) {
	product, err := s.store.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("resolve product: %w", err)
	}

	if err := tier.Evaluate(product.AvailableTiers, candidate); err != nil {
		return nil, err
	}

	lic := models.NewLicense(product.ID, candidate, expirationDate)
	if err := s.store.CreateLicense(ctx, lic); err != nil {
		return nil, fmt.Errorf("create license: %w", err)
	}

	s.logger.Info().
		Str("product_id", product.ID).
		Msg("license created")
	return lic, nil
}

// Edit applies a partial update to an existing license. The effective
// tier is re-checked against the effective product's tier set, so a
// license can never be edited into an inconsistent state. Re-applying
// the same edit produces the same stored state.
//
// Editing a product's tier set after licenses were issued is NOT
// cascaded here; such licenses keep their stored tier until their next
// edit (accepted drift).
func (s *Service) Edit(ctx context.Context, key string, patch Patch) (*models.License, error) {
	lic, err := s.store.GetLicenseByKey(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrLicenseNotFound
		}
		return nil, fmt.Errorf("look up license: %w", err)
	}

	if patch.ProductID != nil {
		lic.ProductID = *patch.ProductID
	}
	switch {
	case patch.ClearTier:
		lic.Tier = nil
	case patch.Tier != nil:
		lic.Tier = patch.Tier
	}
	switch {
	case patch.ClearExpiration:
		lic.ExpirationDate = nil
	case patch.ExpirationDate != nil:
		lic.ExpirationDate = patch.ExpirationDate
	}

	product, err := s.store.GetProductByID(ctx, lic.ProductID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("resolve product: %w", err)
	}

	if err := tier.Evaluate(product.AvailableTiers, lic.Tier); err != nil {
		return nil, err
	}

	if err := s.store.UpdateLicense(ctx, lic); err != nil {
		return nil, fmt.Errorf("update license: %w", err)
	}

	s.logger.Info().
		Str("product_id", lic.ProductID).
		Msg("license updated")
	return lic, nil
}
