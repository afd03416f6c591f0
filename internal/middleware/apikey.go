package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/models"
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub017/pkg/errors"
	"github.com/michaelkatsweb/Heronix-Application-sub017/pkg/response"
)

const (
	// APIKeyHeader carries integration credentials.
	APIKeyHeader = "X-API-Key"
	// ContextAPIKey is the gin context key storing the verified key.
	ContextAPIKey = "apiKey"
)

// KeyVerifier resolves a raw integration key.
type KeyVerifier interface {
	Verify(ctx context.Context, raw string) (*models.APIKey, error)
}

// APIKey authenticates integrations and requires scope on the key.
func APIKey(keys KeyVerifier, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(APIKeyHeader)
		if raw == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing "+APIKeyHeader+" header"))
			c.Abort()
			return
		}
		key, err := keys.Verify(c.Request.Context(), raw)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if scope != "" && !key.HasScope(scope) {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "api key lacks scope "+scope))
			c.Abort()
			return
		}
		c.Set(ContextAPIKey, key)
		c.Next()
	}
}

// VerifiedKey returns the integration key attached by APIKey, or nil.
func VerifiedKey(c *gin.Context) *models.APIKey {
	value, exists := c.Get(ContextAPIKey)
	if !exists {
		return nil
	}
	key, _ := value.(*models.APIKey)
	return key
}
