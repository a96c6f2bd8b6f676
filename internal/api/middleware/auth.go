// Package middleware provides HTTP middleware for the Cereal API.
package middleware

import (
	"net/http"

	"github.com/cerealdev/cereal/internal/auth"
	"github.com/cerealdev/cereal/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ContextKey is the type for context keys used by this package.
type ContextKey string

// APIKeyContextKey is the context key for the authenticated API key.
const APIKeyContextKey ContextKey = "api_key"

// APIKeyMiddleware returns a Gin middleware that requires a valid admin
// API key presented as a bearer token. Malformed, unknown, and expired
// keys all produce the same 401 response.
func APIKeyMiddleware(validator *auth.APIKeyValidator, logger zerolog.Logger) gin.HandlerFunc {
	log := logger.With().Str("component", "apikey_middleware").Logger()

	return func(c *gin.Context) {
		token := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if token == "" {
			log.Debug().Str("path", c.Request.URL.Path).Msg("missing bearer token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		key, err := validator.ValidateAPIKey(c.Request.Context(), token)
		if err != nil {
			log.Error().Err(err).Msg("api key validation failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		if key == nil {
			log.Debug().Str("path", c.Request.URL.Path).Msg("invalid api key")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired API key"})
			return
		}

		c.Set(string(APIKeyContextKey), key)

		log.Debug().
			Str("path", c.Request.URL.Path).
			Msg("authenticated admin request")

		c.Next()
	}
}

// GetAPIKey retrieves the authenticated API key from the Gin context.
// Returns nil if the request was not authenticated.
func GetAPIKey(c *gin.Context) *models.APIKey {
	val, exists := c.Get(string(APIKeyContextKey))
	if !exists {
		return nil
	}
	key, ok := val.(*models.APIKey)
	if !ok {
		return nil
	}
	return key
}
