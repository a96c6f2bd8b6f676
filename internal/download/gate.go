// Package download implements the download gate: licensed listing and
// retrieval of versioned artifacts, integrity-hashed uploads, and
// deletion with best-effort blob cleanup.
package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/cerealdev/cereal/internal/db"
	"github.com/cerealdev/cereal/internal/license"
	"github.com/cerealdev/cereal/internal/models"
	"github.com/cerealdev/cereal/internal/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrArtifactNotFound is returned when no artifact matches, including
// when the artifact exists but belongs to a product the license does
// not cover. The two cases are deliberately indistinguishable so
// artifact IDs cannot be enumerated across products.
var ErrArtifactNotFound = errors.New("artifact not found")

// DeniedError is returned when the license verdict denies access. The
// reason is the verdict's reason, surfaced verbatim to the caller.
type DeniedError struct {
	Reason string
}

func (e *DeniedError) Error() string {
	return e.Reason
}

// Store defines the interface for artifact index persistence.
type Store interface {
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	GetArtifactByID(ctx context.Context, id uuid.UUID) (*models.Artifact, error)
	GetArtifactByProductVersion(ctx context.Context, productID, version string) (*models.Artifact, error)
	GetArtifactsByProductID(ctx context.Context, productID string) ([]*models.Artifact, error)
	CreateArtifact(ctx context.Context, a *models.Artifact) error
	ReplaceArtifact(ctx context.Context, a *models.Artifact) error
	DeleteArtifact(ctx context.Context, id uuid.UUID) error
}

// LicenseValidator produces verdicts for license keys.
type LicenseValidator interface {
	Validate(ctx context.Context, key string) (license.Verdict, error)
}

// FileInfo describes an artifact available to a license holder. The
// URL is parameterized with the caller's license key; the storage path
// is never exposed.
type FileInfo struct {
	ID        uuid.UUID `json:"id"`
	Version   string    `json:"version"`
	Filename  string    `json:"filename"`
	URL       string    `json:"url"`
	SHA256    string    `json:"sha256"`
	CreatedAt time.Time `json:"createdAt"`
}

// Gate authorizes artifact access through license verdicts and manages
// artifact content in the blob store.
type Gate struct {
	store     Store
	validator LicenseValidator
	blobs     storage.Backend
	logger    zerolog.Logger
}

// NewGate creates a new download Gate.
func NewGate(store Store, validator LicenseValidator, blobs storage.Backend, logger zerolog.Logger) *Gate {
	return &Gate{
		store:     store,
		validator: validator,
		blobs:     blobs,
		logger:    logger.With().Str("component", "download_gate").Logger(),
	}
}

// List returns all artifacts for the product the license covers. An
// invalid license yields a DeniedError carrying the verdict's reason.
func (g *Gate) List(ctx context.Context, licenseKey, baseURL string) ([]FileInfo, error) {
	verdict, err := g.validator.Validate(ctx, licenseKey)
	if err != nil {
		return nil, err
	}
	if !verdict.Valid {
		return nil, &DeniedError{Reason: verdict.Reason}
	}

	artifacts, err := g.store.GetArtifactsByProductID(ctx, verdict.ProductID)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}

	files := make([]FileInfo, len(artifacts))
	for i, a := range artifacts {
		files[i] = FileInfo{
			ID:        a.ID,
			Version:   a.Version,
			Filename:  a.Filename,
			URL:       fmt.Sprintf("%s/api/v1/downloads/%s?licenseKey=%s", baseURL, a.ID, url.QueryEscape(licenseKey)),
			SHA256:    a.SHA256,
			CreatedAt: a.CreatedAt,
		}
	}
	return files, nil
}

// Fetch validates the license and streams the artifact's content. An
// artifact belonging to a different product than the license covers is
// reported as not found, not denied. Missing backing bytes (store
// drift) are also reported as not found.
func (g *Gate) Fetch(ctx context.Context, licenseKey string, artifactID uuid.UUID) (*models.Artifact, io.ReadCloser, error) {
	verdict, err := g.validator.Validate(ctx, licenseKey)
	if err != nil {
		return nil, nil, err
	}
	if !verdict.Valid {
		return nil, nil, &DeniedError{Reason: verdict.Reason}
	}

	artifact, err := g.store.GetArtifactByID(ctx, artifactID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, nil, ErrArtifactNotFound
		}
		return nil, nil, fmt.Errorf("look up artifact: %w", err)
	}
	if artifact.ProductID != verdict.ProductID {
		return nil, nil, ErrArtifactNotFound
	}

	reader, err := g.blobs.Open(ctx, artifact.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			g.logger.Warn().
				Str("artifact_id", artifact.ID.String()).
				Str("storage_path", artifact.StoragePath).
				Msg("artifact bytes missing from storage")
			return nil, nil, ErrArtifactNotFound
		}
		return nil, nil, fmt.Errorf("open artifact content: %w", err)
	}

	return artifact, reader, nil
}

// Upload stores artifact content and indexes it. The digest is
// computed over the full payload, and the bytes are written to storage
// before the index row is committed, so the index never points at
// absent bytes. Re-uploading a (product, version) pair replaces the
// prior artifact in place, preserving its ID.
func (g *Gate) Upload(ctx context.Context, productID, version, filename string, content []byte) (*models.Artifact, error) {
	product, err := g.store.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, license.ErrProductNotFound
		}
		return nil, fmt.Errorf("resolve product: %w", err)
	}

	digest := sha256.Sum256(content)
	sha := hex.EncodeToString(digest[:])
	storagePath := storage.ArtifactPath(product.ID, version, filename)

	if err := g.blobs.Write(ctx, storagePath, content); err != nil {
		return nil, fmt.Errorf("store artifact content: %w", err)
	}

	existing, err := g.store.GetArtifactByProductVersion(ctx, product.ID, version)
	switch {
	case err == nil:
		existing.Filename = filename
		existing.StoragePath = storagePath
		existing.SHA256 = sha
		if err := g.store.ReplaceArtifact(ctx, existing); err != nil {
			return nil, fmt.Errorf("replace artifact: %w", err)
		}
		g.logger.Info().
			Str("artifact_id", existing.ID.String()).
			Str("product_id", product.ID).
			Str("version", version).
			Msg("artifact replaced")
		return existing, nil
	case errors.Is(err, db.ErrNotFound):
		artifact := models.NewArtifact(product.ID, version, filename, storagePath, sha)
		if err := g.store.CreateArtifact(ctx, artifact); err != nil {
			return nil, fmt.Errorf("index artifact: %w", err)
		}
		g.logger.Info().
			Str("artifact_id", artifact.ID.String()).
			Str("product_id", product.ID).
			Str("version", version).
			Msg("artifact uploaded")
		return artifact, nil
	default:
		return nil, fmt.Errorf("look up existing artifact: %w", err)
	}
}

// Delete removes an artifact's index row and makes a best-effort
// attempt to remove its backing bytes. The index is authoritative:
// a storage-removal failure is logged, never surfaced.
func (g *Gate) Delete(ctx context.Context, artifactID uuid.UUID) error {
	artifact, err := g.store.GetArtifactByID(ctx, artifactID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrArtifactNotFound
		}
		return fmt.Errorf("look up artifact: %w", err)
	}

	if err := g.store.DeleteArtifact(ctx, artifactID); err != nil {
		return fmt.Errorf("delete artifact index: %w", err)
	}

	if err := g.blobs.Remove(ctx, artifact.StoragePath); err != nil {
		g.logger.Warn().Err(err).
			Str("artifact_id", artifactID.String()).
			Str("storage_path", artifact.StoragePath).
			Msg("failed to remove artifact bytes from storage")
	}

	g.logger.Info().Str("artifact_id", artifactID.String()).Msg("artifact deleted")
	return nil
}
