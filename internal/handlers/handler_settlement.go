package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/WayfareLabs/trip_split_app/internal/apperrors"
	portssvc "github.com/WayfareLabs/trip_split_app/internal/core/ports/services"
	"github.com/WayfareLabs/trip_split_app/internal/dto"
	"github.com/WayfareLabs/trip_split_app/internal/middleware"
)

// settlementHandler handles balance and settlement plan requests for a trip.
type settlementHandler struct {
	settlementService portssvc.SettlementSvcFacade
}

func newSettlementHandler(ss portssvc.SettlementSvcFacade) *settlementHandler {
	return &settlementHandler{settlementService: ss}
}

// registerSettlementRoutes registers settlement routes nested under a specific trip.
func registerSettlementRoutes(tripGroup *gin.RouterGroup, settlementService portssvc.SettlementSvcFacade) {
	h := newSettlementHandler(settlementService)

	tripGroup.GET("/balances", h.getBalances)
	tripGroup.GET("/settlement", h.getSettlementPlan)
}

// getBalances godoc
// @Summary Get participant balances
// @Description Computes each active participant's net balance from the trip's expense ledger. Positive means the group owes them. Participants only.
// @Tags settlements
// @Produce json
// @Param trip_id path string true "Trip ID"
// @Success 200 {array} dto.ParticipantBalanceResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /trips/{trip_id}/balances [get]
func (h *settlementHandler) getBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	tripID := c.Param("trip_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	balances, err := h.settlementService.ComputeBalances(c.Request.Context(), tripID, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Trip not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "You do not have permission to view this trip"})
		default:
			logger.Error("Failed to compute balances in service", slog.String("error", err.Error()), slog.String("trip_id", tripID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to compute balances"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToParticipantBalancesResponse(balances))
}

// getSettlementPlan godoc
// @Summary Get settlement plan
// @Description Computes a small set of transfers that settles the trip's outstanding balances, plus any residual credit that has no debtor to draw from. Participants only.
// @Tags settlements
// @Produce json
// @Param trip_id path string true "Trip ID"
// @Success 200 {object} dto.SettlementPlanResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /trips/{trip_id}/settlement [get]
func (h *settlementHandler) getSettlementPlan(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	tripID := c.Param("trip_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	plan, err := h.settlementService.ComputeSettlementPlan(c.Request.Context(), tripID, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Trip not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "You do not have permission to view this trip"})
		default:
			logger.Error("Failed to compute settlement plan in service", slog.String("error", err.Error()), slog.String("trip_id", tripID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to compute settlement plan"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToSettlementPlanResponse(plan))
}
