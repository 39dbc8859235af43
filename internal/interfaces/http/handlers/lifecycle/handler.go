// Package lifecycle serves the operational read API of the subscription
// lifecycle engine.
package lifecycle

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/leadhub/leadhub/internal/application/subscription/dto"
	"github.com/leadhub/leadhub/internal/shared/errors"
	"github.com/leadhub/leadhub/internal/shared/logger"
	"github.com/leadhub/leadhub/internal/shared/utils"
)

// LifecycleReader is implemented by the lifecycle service.
type LifecycleReader interface {
	GetExpirationSummary(ctx context.Context) *dto.ExpirationSummaryDTO
	ListDeliveries(ctx context.Context, subscriptionID uint) ([]*dto.DeliveryRecordDTO, error)
}

type Handler struct {
	reader LifecycleReader
	logger logger.Interface
}

func NewHandler(reader LifecycleReader, logger logger.Interface) *Handler {
	return &Handler{reader: reader, logger: logger}
}

// GetExpirationSummary handles GET /api/admin/subscriptions/expiration-summary.
// The counts are zero when the datastore is unavailable.
func (h *Handler) GetExpirationSummary(c *gin.Context) {
	summary := h.reader.GetExpirationSummary(c.Request.Context())
	utils.SuccessResponse(c, http.StatusOK, "", summary)
}

// ListDeliveries handles GET /api/admin/subscriptions/:id/deliveries.
func (h *Handler) ListDeliveries(c *gin.Context) {
	subscriptionID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || subscriptionID == 0 {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid subscription ID", c.Param("id")))
		return
	}

	records, err := h.reader.ListDeliveries(c.Request.Context(), uint(subscriptionID))
	if err != nil {
		h.logger.Errorw("failed to list notification deliveries", "subscription_id", subscriptionID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", records)
}
