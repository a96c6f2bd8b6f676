package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/cerealdev/cereal/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// GetArtifactByID returns an artifact by its ID.
func (db *DB) GetArtifactByID(ctx context.Context, id uuid.UUID) (*models.Artifact, error) {
	var a models.Artifact
	err := db.Pool.QueryRow(ctx, `
		SELECT id, product_id, version, filename, storage_path, sha256, created_at
		FROM artifacts
		WHERE id = $1
	`, id).Scan(&a.ID, &a.ProductID, &a.Version, &a.Filename, &a.StoragePath, &a.SHA256, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get artifact: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get artifact: %w", err)
	}
	return &a, nil
}

// GetArtifactByProductVersion returns the artifact for a
// (product, version) pair, of which at most one exists.
func (db *DB) GetArtifactByProductVersion(ctx context.Context, productID, version string) (*models.Artifact, error) {
	var a models.Artifact
	err := db.Pool.QueryRow(ctx, `
		SELECT id, product_id, version, filename, storage_path, sha256, created_at
		FROM artifacts
		WHERE product_id = $1 AND version = $2
	`, productID, version).Scan(&a.ID, &a.ProductID, &a.Version, &a.Filename, &a.StoragePath, &a.SHA256, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get artifact for %s/%s: %w", productID, version, ErrNotFound)
		}
		return nil, fmt.Errorf("get artifact: %w", err)
	}
	return &a, nil
}

// GetArtifactsByProductID returns all artifacts for a product.
func (db *DB) GetArtifactsByProductID(ctx context.Context, productID string) ([]*models.Artifact, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, product_id, version, filename, storage_path, sha256, created_at
		FROM artifacts
		WHERE product_id = $1
		ORDER BY created_at, version
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("list artifacts by product: %w", err)
	}
	defer rows.Close()

	return scanArtifacts(rows)
}

// ListArtifacts returns artifacts ordered by creation time, paginated.
func (db *DB) ListArtifacts(ctx context.Context, limit, offset int) ([]*models.Artifact, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, product_id, version, filename, storage_path, sha256, created_at
		FROM artifacts
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	defer rows.Close()

	return scanArtifacts(rows)
}

func scanArtifacts(rows pgx.Rows) ([]*models.Artifact, error) {
	var artifacts []*models.Artifact
	for rows.Next() {
		var a models.Artifact
		if err := rows.Scan(&a.ID, &a.ProductID, &a.Version, &a.Filename, &a.StoragePath, &a.SHA256, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		artifacts = append(artifacts, &a)
	}
	return artifacts, rows.Err()
}

// CreateArtifact inserts a new artifact row.
func (db *DB) CreateArtifact(ctx context.Context, a *models.Artifact) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO artifacts (id, product_id, version, filename, storage_path, sha256, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, a.ID, a.ProductID, a.Version, a.Filename, a.StoragePath, a.SHA256, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("create artifact: %w", err)
	}
	return nil
}

// ReplaceArtifact overwrites an existing artifact row's filename,
// storage path, and digest, preserving its identity. Used when the same
// (product, version) pair is uploaded again.
func (db *DB) ReplaceArtifact(ctx context.Context, a *models.Artifact) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE artifacts
		SET filename = $2, storage_path = $3, sha256 = $4
		WHERE id = $1
	`, a.ID, a.Filename, a.StoragePath, a.SHA256)
	if err != nil {
		return fmt.Errorf("replace artifact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("replace artifact: %w", ErrNotFound)
	}
	return nil
}

// DeleteArtifact removes an artifact row by ID.
func (db *DB) DeleteArtifact(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM artifacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete artifact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete artifact: %w", ErrNotFound)
	}
	return nil
}
