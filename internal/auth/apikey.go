// Package auth provides API key authentication for administrative
// endpoints.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cerealdev/cereal/internal/db"
	"github.com/cerealdev/cereal/internal/models"
	"github.com/rs/zerolog"
)

const (
	// APIKeyPrefix is the prefix for all Cereal API keys.
	APIKeyPrefix = "crl_"
	// APIKeyLength is the expected length of the hex portion of the API key.
	APIKeyLength = 64 // 32 bytes = 64 hex chars
)

// APIKeyStore defines the interface for API credential lookup.
type APIKeyStore interface {
	GetAPIKeyByHash(ctx context.Context, keyHash string) (*models.APIKey, error)
}

// APIKeyValidator validates administrative API keys.
type APIKeyValidator struct {
	store  APIKeyStore
	logger zerolog.Logger
}

// NewAPIKeyValidator creates a new API key validator.
func NewAPIKeyValidator(store APIKeyStore, logger zerolog.Logger) *APIKeyValidator {
	return &APIKeyValidator{
		store:  store,
		logger: logger.With().Str("component", "apikey_validator").Logger(),
	}
}

// ValidateAPIKey validates an API key and returns the associated
// credential. Returns nil, nil if the key is malformed, unknown, or
// expired, and a non-nil error only for store faults. Expiration is
// evaluated lazily here; no background sweep exists.
func (v *APIKeyValidator) ValidateAPIKey(ctx context.Context, apiKey string) (*models.APIKey, error) {
	if !IsValidAPIKeyFormat(apiKey) {
		v.logger.Debug().Msg("invalid API key format")
		return nil, nil
	}

	keyHash := HashAPIKey(apiKey)

	key, err := v.store.GetAPIKeyByHash(ctx, keyHash)
	if errors.Is(err, db.ErrNotFound) {
		v.logger.Debug().Msg("API key not found")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("look up API key: %w", err)
	}

	if key.Expired(time.Now()) {
		v.logger.Debug().Time("expiration_date", *key.ExpirationDate).Msg("API key expired")
		return nil, nil
	}

	return key, nil
}

// GenerateAPIKey mints a new API key. The raw key is returned once for
// display; only its hash is persisted.
func GenerateAPIKey() (raw string, hash string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	raw = APIKeyPrefix + hex.EncodeToString(buf)
	return raw, HashAPIKey(raw), nil
}

// IsValidAPIKeyFormat checks if the API key has the correct format.
func IsValidAPIKeyFormat(apiKey string) bool {
	if !strings.HasPrefix(apiKey, APIKeyPrefix) {
		return false
	}
	hexPart := strings.TrimPrefix(apiKey, APIKeyPrefix)
	if len(hexPart) != APIKeyLength {
		return false
	}
	_, err := hex.DecodeString(hexPart)
	return err == nil
}

// HashAPIKey creates a SHA-256 hash of an API key for storage/comparison.
func HashAPIKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:])
}

// ExtractBearerToken extracts the token from an Authorization header value.
// Returns empty string if the header is not a valid Bearer token.
func ExtractBearerToken(authHeader string) string {
	const prefix = "Bearer "
	if len(authHeader) < len(prefix) {
		return ""
	}
	if !strings.EqualFold(authHeader[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(authHeader[len(prefix):])
}
