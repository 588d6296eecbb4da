package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"appointment-tool/pkg/models"
)

// Recovery turns a panic into the same JSON shape /invoke uses, so the
// calling agent always receives an output string.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("Unhandled panic",
					zap.Any("error", err),
					zap.String("request_id", GetRequestID(c)),
					zap.String("path", c.Request.URL.Path))

				c.AbortWithStatusJSON(http.StatusInternalServerError, models.InvokeResponse{
					Output: "Sorry, something went wrong. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}
