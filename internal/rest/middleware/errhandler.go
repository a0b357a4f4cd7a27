package middleware

import (
	ierr "github.com/flexprice/ordertax/internal/errors"
	"github.com/flexprice/ordertax/internal/logger"
	"github.com/flexprice/ordertax/internal/types"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error a handler attached to the context.
// The message comes from the error hints and the details from its reportable
// details, so internal causes never reach the client.
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := ierr.HTTPStatusFromErr(err)
		requestID := types.GetRequestID(c.Request.Context())

		if status >= 500 {
			log.Errorw("request failed",
				"method", c.Request.Method,
				"path", c.FullPath(),
				"status", status,
				"request_id", requestID,
				"error", err,
			)
			if hub := sentrygin.GetHubFromContext(c); hub != nil {
				hub.CaptureException(err)
			}
		} else {
			log.Debugw("request rejected",
				"method", c.Request.Method,
				"path", c.FullPath(),
				"status", status,
				"request_id", requestID,
				"error", err,
			)
		}

		c.JSON(status, ierr.NewErrorResponse(err, requestID))
	}
}
