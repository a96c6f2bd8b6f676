package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/cerealdev/cereal/internal/models"
	"github.com/jackc/pgx/v5"
)

// GetLicenseByKey returns a license by its key.
func (db *DB) GetLicenseByKey(ctx context.Context, key string) (*models.License, error) {
	var l models.License
	err := db.Pool.QueryRow(ctx, `
		SELECT key, product_id, tier, expiration_date, created_at
		FROM licenses
		WHERE key = $1
	`, key).Scan(&l.Key, &l.ProductID, &l.Tier, &l.ExpirationDate, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get license: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get license: %w", err)
	}
	return &l, nil
}

// ListLicenses returns licenses ordered by creation time, paginated.
func (db *DB) ListLicenses(ctx context.Context, limit, offset int) ([]*models.License, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT key, product_id, tier, expiration_date, created_at
		FROM licenses
		ORDER BY created_at, key
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list licenses: %w", err)
	}
	defer rows.Close()

	var licenses []*models.License
	for rows.Next() {
		var l models.License
		if err := rows.Scan(&l.Key, &l.ProductID, &l.Tier, &l.ExpirationDate, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan license: %w", err)
		}
		licenses = append(licenses, &l)
	}
	return licenses, rows.Err()
}

// CreateLicense inserts a new license.
func (db *DB) CreateLicense(ctx context.Context, l *models.License) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO licenses (key, product_id, tier, expiration_date, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, l.Key, l.ProductID, l.Tier, l.ExpirationDate, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("create license: %w", err)
	}
	return nil
}

// UpdateLicense updates a license's product, tier, and expiration.
func (db *DB) UpdateLicense(ctx context.Context, l *models.License) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE licenses
		SET product_id = $2, tier = $3, expiration_date = $4
		WHERE key = $1
	`, l.Key, l.ProductID, l.Tier, l.ExpirationDate)
	if err != nil {
		return fmt.Errorf("update license: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update license: %w", ErrNotFound)
	}
	return nil
}

// DeleteLicense removes a license by key.
func (db *DB) DeleteLicense(ctx context.Context, key string) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM licenses WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete license: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete license: %w", ErrNotFound)
	}
	return nil
}
