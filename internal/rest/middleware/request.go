package middleware

import (
	"github.com/flexprice/ordertax/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func RequestIDMiddleware(c *gin.Context) {
	requestID := c.GetHeader(types.HeaderRequestID)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	ctx := types.SetRequestID(c.Request.Context(), requestID)
	if userID := c.GetHeader(types.HeaderUserID); userID != "" {
		ctx = types.SetUserID(ctx, userID)
	}
	c.Request = c.Request.WithContext(ctx)

	c.Header(types.HeaderRequestID, requestID)

	c.Next()
}

// OrganizationMiddleware scopes the request context to the organization in the path
func OrganizationMiddleware(c *gin.Context) {
	if organizationID := c.Param("organization_id"); organizationID != "" {
		c.Request = c.Request.WithContext(types.SetOrganizationID(c.Request.Context(), organizationID))
	}
	c.Next()
}
