package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/cerealdev/cereal/internal/models"
	"github.com/jackc/pgx/v5"
)

// GetAPIKeyByHash returns an API credential by its key hash.
func (db *DB) GetAPIKeyByHash(ctx context.Context, keyHash string) (*models.APIKey, error) {
	var k models.APIKey
	err := db.Pool.QueryRow(ctx, `
		SELECT key_hash, name, expiration_date, created_at
		FROM api_keys
		WHERE key_hash = $1
	`, keyHash).Scan(&k.KeyHash, &k.Name, &k.ExpirationDate, &k.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get api key: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get api key: %w", err)
	}
	return &k, nil
}

// ListAPIKeys returns all API credentials ordered by creation time.
func (db *DB) ListAPIKeys(ctx context.Context) ([]*models.APIKey, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT key_hash, name, expiration_date, created_at
		FROM api_keys
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	defer rows.Close()

	var keys []*models.APIKey
	for rows.Next() {
		var k models.APIKey
		if err := rows.Scan(&k.KeyHash, &k.Name, &k.ExpirationDate, &k.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

// CreateAPIKey inserts a new API credential.
func (db *DB) CreateAPIKey(ctx context.Context, k *models.APIKey) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO api_keys (key_hash, name, expiration_date, created_at)
		VALUES ($1, $2, $3, $4)
	`, k.KeyHash, k.Name, k.ExpirationDate, k.CreatedAt)
	if err != nil {
		return fmt.Errorf("create api key: %w", err)
	}
	return nil
}

// DeleteAPIKeyByHash removes an API credential by its key hash.
func (db *DB) DeleteAPIKeyByHash(ctx context.Context, keyHash string) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM api_keys WHERE key_hash = $1`, keyHash)
	if err != nil {
		return fmt.Errorf("delete api key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete api key: %w", ErrNotFound)
	}
	return nil
}
