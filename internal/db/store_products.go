package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/cerealdev/cereal/internal/models"
	"github.com/jackc/pgx/v5"
)

// GetProductByID returns a product by its ID.
func (db *DB) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	err := db.Pool.QueryRow(ctx, `
		SELECT id, name, available_tiers, created_at
		FROM products
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.AvailableTiers, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get product %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// ListProducts returns products ordered by creation time, paginated.
func (db *DB) ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, available_tiers, created_at
		FROM products
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.AvailableTiers, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}

// CreateProduct inserts a new product.
func (db *DB) CreateProduct(ctx context.Context, p *models.Product) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO products (id, name, available_tiers, created_at)
		VALUES ($1, $2, $3, $4)
	`, p.ID, p.Name, p.AvailableTiers, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// UpdateProduct updates a product's name and tier set.
func (db *DB) UpdateProduct(ctx context.Context, p *models.Product) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE products
		SET name = $2, available_tiers = $3
		WHERE id = $1
	`, p.ID, p.Name, p.AvailableTiers)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update product %s: %w", p.ID, ErrNotFound)
	}
	return nil
}

// DeleteProduct removes a product. Licenses and artifacts referencing
// it are removed by the cascade.
func (db *DB) DeleteProduct(ctx context.Context, id string) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete product %s: %w", id, ErrNotFound)
	}
	return nil
}
