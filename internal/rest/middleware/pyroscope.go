package middleware

import (
	"context"

	"github.com/flexprice/ordertax/internal/config"
	"github.com/flexprice/ordertax/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/grafana/pyroscope-go"
)

// PyroscopeMiddleware labels the profiles of a request with its route and organization
func PyroscopeMiddleware(cfg *config.Configuration) gin.HandlerFunc {
	if !cfg.Pyroscope.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		labels := []string{
			"method", c.Request.Method,
			"endpoint", c.FullPath(),
		}
		if organizationID := types.GetOrganizationID(c.Request.Context()); organizationID != "" {
			labels = append(labels, "organization_id", organizationID)
		}

		pyroscope.TagWrapper(c.Request.Context(), pyroscope.Labels(labels...), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}
