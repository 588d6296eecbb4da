package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"appointment-tool/pkg/middleware"
	"appointment-tool/pkg/models"
	"appointment-tool/pkg/services"
)

// maxBodyBytes bounds /invoke bodies; tool inputs are a handful of fields.
const maxBodyBytes = 64 << 10

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	availabilityService services.AvailabilityService
	logger              *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(availabilityService services.AvailabilityService, logger *zap.Logger) *Handlers {
	return &Handlers{
		availabilityService: availabilityService,
		logger:              logger,
	}
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Invoke answers a tool call from the agent with a proposed booking time.
// Every outcome, including failures, is a JSON body with a single output string.
func (h *Handlers) Invoke(c *gin.Context) {
	log := h.logger.With(zap.String("request_id", middleware.GetRequestID(c)))

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		log.Warn("Error reading request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, models.InvokeResponse{Output: services.ValidationMessage(models.DefaultName)})
		return
	}

	req, err := models.ParseInvokeRequest(body)
	if err != nil {
		log.Warn("Error parsing JSON", zap.Error(err))
		c.JSON(http.StatusBadRequest, models.InvokeResponse{Output: services.ValidationMessage(models.DefaultName)})
		return
	}

	log.Debug("Received /invoke request", zap.String("preferred_date", req.PreferredDate), zap.String("preferred_time", req.PreferredTime))

	result, err := h.availabilityService.CheckAvailability(c.Request.Context(), req)
	switch {
	case errors.Is(err, services.ErrValidation):
		log.Info("Rejected booking request", zap.Error(err))
		c.JSON(http.StatusBadRequest, models.InvokeResponse{Output: services.ValidationMessage(req.DisplayName())})
	case err != nil:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.InvokeResponse{Output: services.FailureMessage(req.DisplayName())})
	default:
		c.JSON(http.StatusOK, models.InvokeResponse{Output: result.Message})
	}
}
