//go:build integration

package db

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/cerealdev/cereal/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var testDB *DB

func TestMain(m *testing.M) {
	if !dockerAvailable() {
		fmt.Println("Docker is not available, skipping integration tests")
		os.Exit(0)
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("cereal_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		log.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		pgContainer.Terminate(ctx)
		log.Fatalf("failed to get connection string: %v", err)
	}

	logger := zerolog.New(zerolog.NewConsoleWriter())
	cfg := DefaultConfig(connStr)
	cfg.MaxConns = 5
	cfg.MinConns = 1

	testDB, err = New(ctx, cfg, logger)
	if err != nil {
		pgContainer.Terminate(ctx)
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := testDB.Migrate(ctx); err != nil {
		testDB.Close()
		pgContainer.Terminate(ctx)
		log.Fatalf("failed to run migrations: %v", err)
	}

	code := m.Run()

	testDB.Close()
	pgContainer.Terminate(ctx)

	os.Exit(code)
}

// dockerAvailable returns true if a Docker daemon is reachable.
func dockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	return cmd.Run() == nil
}

// setupTestDB returns the shared test database after cleaning all tables.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	cleanTables(t, testDB)
	return testDB
}

// cleanTables truncates all user tables between tests for isolation.
func cleanTables(t *testing.T, db *DB) {
	t.Helper()
	ctx := context.Background()
	_, err := db.Pool.Exec(ctx, `
		DO $$ DECLARE r RECORD;
		BEGIN
			FOR r IN (SELECT tablename FROM pg_tables WHERE schemaname = 'public' AND tablename != 'schema_migrations') LOOP
				EXECUTE 'TRUNCATE TABLE ' || quote_ident(r.tablename) || ' CASCADE';
			END LOOP;
		END $$;
	`)
	require.NoError(t, err)
}

// createTestProduct creates and persists a test product.
func createTestProduct(t *testing.T, db *DB, id string, tiers []string) *models.Product {
	t.Helper()
	product := models.NewProduct(id, "Test "+id, tiers)
	require.NoError(t, db.CreateProduct(context.Background(), product))
	return product
}

func TestProductCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	product := createTestProduct(t, db, "cereal-pro", []string{"basic", "max"})

	got, err := db.GetProductByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, got.ID)
	assert.Equal(t, []string{"basic", "max"}, got.AvailableTiers)

	got.Name = "Renamed"
	got.AvailableTiers = []string{"basic"}
	require.NoError(t, db.UpdateProduct(ctx, got))

	updated, err := db.GetProductByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, []string{"basic"}, updated.AvailableTiers)

	products, err := db.ListProducts(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, products, 1)

	require.NoError(t, db.DeleteProduct(ctx, product.ID))
	_, err = db.GetProductByID(ctx, product.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductUntieredRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	product := createTestProduct(t, db, "cereal-free", nil)

	got, err := db.GetProductByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Empty(t, got.AvailableTiers)
}

func TestLicenseCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	product := createTestProduct(t, db, "cereal-pro", []string{"basic", "max"})

	tier := "max"
	exp := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Microsecond)
	lic := models.NewLicense(product.ID, &tier, &exp)
	require.NoError(t, db.CreateLicense(ctx, lic))

	got, err := db.GetLicenseByKey(ctx, lic.Key)
	require.NoError(t, err)
	assert.Equal(t, product.ID, got.ProductID)
	require.NotNil(t, got.Tier)
	assert.Equal(t, "max", *got.Tier)
	require.NotNil(t, got.ExpirationDate)
	assert.True(t, got.ExpirationDate.Equal(exp))

	got.Tier = nil
	got.ExpirationDate = nil
	require.NoError(t, db.UpdateLicense(ctx, got))

	updated, err := db.GetLicenseByKey(ctx, lic.Key)
	require.NoError(t, err)
	assert.Nil(t, updated.Tier)
	assert.Nil(t, updated.ExpirationDate)

	require.NoError(t, db.DeleteLicense(ctx, lic.Key))
	_, err = db.GetLicenseByKey(ctx, lic.Key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLicenseCascadeOnProductDelete(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	product := createTestProduct(t, db, "cereal-pro", nil)
	lic := models.NewLicense(product.ID, nil, nil)
	require.NoError(t, db.CreateLicense(ctx, lic))

	require.NoError(t, db.DeleteProduct(ctx, product.ID))

	_, err := db.GetLicenseByKey(ctx, lic.Key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestArtifactCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	product := createTestProduct(t, db, "cereal-pro", nil)

	artifact := models.NewArtifact(product.ID, "1.0.0", "cereal.tar.gz",
		"cereal-pro/1.0.0/cereal.tar.gz",
		"0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef")
	require.NoError(t, db.CreateArtifact(ctx, artifact))

	got, err := db.GetArtifactByID(ctx, artifact.ID)
	require.NoError(t, err)
	assert.Equal(t, artifact.SHA256, got.SHA256)
	assert.Equal(t, artifact.StoragePath, got.StoragePath)

	byVersion, err := db.GetArtifactByProductVersion(ctx, product.ID, "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, artifact.ID, byVersion.ID)

	byProduct, err := db.GetArtifactsByProductID(ctx, product.ID)
	require.NoError(t, err)
	assert.Len(t, byProduct, 1)

	require.NoError(t, db.DeleteArtifact(ctx, artifact.ID))
	_, err = db.GetArtifactByID(ctx, artifact.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestArtifactReplacePreservesID(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	product := createTestProduct(t, db, "cereal-pro", nil)

	artifact := models.NewArtifact(product.ID, "1.0.0", "cereal.tar.gz",
		"cereal-pro/1.0.0/cereal.tar.gz",
		"0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef")
	require.NoError(t, db.CreateArtifact(ctx, artifact))

	artifact.Filename = "cereal-fixed.tar.gz"
	artifact.StoragePath = "cereal-pro/1.0.0/cereal-fixed.tar.gz"
	artifact.SHA256 = "fedcba9876543210fedcba9876543210fedcba9876543210fedcba9876543210"
	require.NoError(t, db.ReplaceArtifact(ctx, artifact))

	got, err := db.GetArtifactByProductVersion(ctx, product.ID, "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, artifact.ID, got.ID)
	assert.Equal(t, "cereal-fixed.tar.gz", got.Filename)

	all, err := db.GetArtifactsByProductID(ctx, product.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAPIKeyCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	name := "ci deploy"
	exp := time.Now().Add(720 * time.Hour).UTC().Truncate(time.Microsecond)
	key := &models.APIKey{
		KeyHash:        "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
		Name:           &name,
		ExpirationDate: &exp,
		CreatedAt:      time.Now(),
	}
	require.NoError(t, db.CreateAPIKey(ctx, key))

	got, err := db.GetAPIKeyByHash(ctx, key.KeyHash)
	require.NoError(t, err)
	require.NotNil(t, got.Name)
	assert.Equal(t, "ci deploy", *got.Name)

	keys, err := db.ListAPIKeys(ctx)
	require.NoError(t, err)
	assert.Len(t, keys, 1)

	require.NoError(t, db.DeleteAPIKeyByHash(ctx, key.KeyHash))
	_, err = db.GetAPIKeyByHash(ctx, key.KeyHash)
	assert.ErrorIs(t, err, ErrNotFound)
}
