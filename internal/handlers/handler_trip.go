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

// tripHandler handles HTTP requests related to trips and their memberships.
type tripHandler struct {
	tripService portssvc.TripSvcFacade
}

func newTripHandler(ts portssvc.TripSvcFacade) *tripHandler {
	return &tripHandler{tripService: ts}
}

// registerTripRoutes registers routes related to trips and their members.
// EXPENSE and SETTLEMENT routes are nested under a specific trip.
func registerTripRoutes(rg *gin.RouterGroup, tripService portssvc.TripSvcFacade, expenseService portssvc.ExpenseSvcFacade, settlementService portssvc.SettlementSvcFacade, userService portssvc.UserSvcFacade) {
	h := newTripHandler(tripService)

	trips := rg.Group("/trips")
	{
		trips.POST("", h.createTrip)
		trips.GET("", h.listUserTrips)
	}

	tripSpecific := rg.Group("/trips/:trip_id")
	{
		tripSpecific.GET("", h.getTrip)
		tripSpecific.PUT("", h.updateTrip)
		tripSpecific.POST("/deactivate", h.deactivateTrip)
		tripSpecific.POST("/activate", h.activateTrip)

		participants := tripSpecific.Group("/participants")
		{
			participants.POST("", h.addParticipant)
			participants.GET("", h.listParticipants)
			participants.POST("/respond", h.respondToInvite)
			participants.PUT("/:user_id/role", h.updateParticipantRole)
			participants.DELETE("/:user_id", h.removeParticipant)
		}

		registerExpenseRoutes(tripSpecific, expenseService, userService)
		registerSettlementRoutes(tripSpecific, settlementService)
	}
}

// mapTripError writes the HTTP response for common trip service errors and
// reports whether the error was handled.
func mapTripError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Trip not found"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "You do not have permission to perform this action"})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		return false
	}
	return true
}

// createTrip godoc
// @Summary Create a new trip
// @Description Creates a trip and enrolls the creator as its active owner.
// @Tags trips
// @Accept json
// @Produce json
// @Param trip body dto.CreateTripRequest true "Trip details"
// @Success 201 {object} dto.TripResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /trips [post]
func (h *tripHandler) createTrip(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var req dto.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	trip, err := h.tripService.CreateTrip(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if mapTripError(c, err) {
			return
		}
		logger.Error("Failed to create trip in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create trip"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToTripResponse(trip))
}

// listUserTrips godoc
// @Summary List trips for current user
// @Description Retrieves the trips the authenticated user participates in.
// @Tags trips
// @Produce json
// @Success 200 {object} dto.ListTripsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /trips [get]
func (h *tripHandler) listUserTrips(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	trips, err := h.tripService.ListUserTrips(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list trips from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list trips"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListTripsResponse(trips))
}

// getTrip godoc
// @Summary Get a trip
// @Description Retrieves a trip's details. The caller must be a participant.
// @Tags trips
// @Produce json
// @Param trip_id path string true "Trip ID"
// @Success 200 {object} dto.TripResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /trips/{trip_id} [get]
func (h *tripHandler) getTrip(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	tripID := c.Param("trip_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	trip, err := h.tripService.GetTripByID(c.Request.Context(), tripID, userID)
	if err != nil {
		if mapTripError(c, err) {
			return
		}
		logger.Error("Failed to get trip from service", slog.String("error", err.Error()), slog.String("trip_id", tripID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get trip"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTripResponse(trip))
}

// updateTrip godoc
// @Summary Update a trip
// @Description Updates trip details. Owner only. The trip currency is immutable.
// @Tags trips
// @Accept json
// @Produce json
// @Param trip_id path string true "Trip ID"
// @Param trip body dto.UpdateTripRequest true "Fields to update"
// @Success 200 {object} dto.TripResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /trips/{trip_id} [put]
func (h *tripHandler) updateTrip(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	tripID := c.Param("trip_id")

	var req dto.UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	trip, err := h.tripService.UpdateTrip(c.Request.Context(), tripID, req, userID)
	if err != nil {
		if mapTripError(c, err) {
			return
		}
		logger.Error("Failed to update trip in service", slog.String("error", err.Error()), slog.String("trip_id", tripID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update trip"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTripResponse(trip))
}

// deactivateTrip godoc
// @Summary Deactivate a trip
// @Description Marks a trip inactive. Inactive trips reject new expenses. Owner only.
// @Tags trips
// @Param trip_id path string true "Trip ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /trips/{trip_id}/deactivate [post]
func (h *tripHandler) deactivateTrip(c *gin.Context) {
	h.setTripActive(c, false)
}

// activateTrip godoc
// @Summary Reactivate a trip
// @Description Marks a trip active again. Owner only.
// @Tags trips
// @Param trip_id path string true "Trip ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /trips/{trip_id}/activate [post]
func (h *tripHandler) activateTrip(c *gin.Context) {
	h.setTripActive(c, true)
}

func (h *tripHandler) setTripActive(c *gin.Context, active bool) {
	logger := middleware.GetLoggerFromContext(c)
	tripID := c.Param("trip_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var err error
	if active {
		err = h.tripService.ActivateTrip(c.Request.Context(), tripID, userID)
	} else {
		err = h.tripService.DeactivateTrip(c.Request.Context(), tripID, userID)
	}
	if err != nil {
		if mapTripError(c, err) {
			return
		}
		logger.Error("Failed to change trip active flag", slog.String("error", err.Error()), slog.String("trip_id", tripID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update trip"})
		return
	}

	c.Status(http.StatusNoContent)
}

// addParticipant godoc
// @Summary Invite a user to a trip
// @Description Adds a user as a PENDING participant. Owner only.
// @Tags participants
// @Accept json
// @Param trip_id path string true "Trip ID"
// @Param participant body dto.AddParticipantRequest true "User and role"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "User already on trip"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /trips/{trip_id}/participants [post]
func (h *tripHandler) addParticipant(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	tripID := c.Param("trip_id")

	var req dto.AddParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	addingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	err := h.tripService.AddParticipant(c.Request.Context(), addingUserID, req.UserID, tripID, req.Role)
	if err != nil {
		if mapTripError(c, err) {
			return
		}
		logger.Error("Failed to add participant in service", slog.String("error", err.Error()), slog.String("trip_id", tripID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to add participant"})
		return
	}

	c.Status(http.StatusNoContent)
}

// listParticipants godoc
// @Summary List trip participants
// @Description Retrieves all memberships of a trip. Participants only.
// @Tags participants
// @Produce json
// @Param trip_id path string true "Trip ID"
// @Success 200 {array} dto.TripParticipantResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /trips/{trip_id}/participants [get]
func (h *tripHandler) listParticipants(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	tripID := c.Param("trip_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	participants, err := h.tripService.ListTripParticipants(c.Request.Context(), tripID, userID)
	if err != nil {
		if mapTripError(c, err) {
			return
		}
		logger.Error("Failed to list participants from service", slog.String("error", err.Error()), slog.String("trip_id", tripID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list participants"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListTripParticipantsResponse(participants))
}

// respondToInvite godoc
// @Summary Respond to a trip invite
// @Description Accepts or declines the caller's pending invite.
// @Tags participants
// @Accept json
// @Param trip_id path string true "Trip ID"
// @Param response body dto.RespondToInviteRequest true "Accept or decline"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "No pending invite"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /trips/{trip_id}/participants/respond [post]
func (h *tripHandler) respondToInvite(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	tripID := c.Param("trip_id")

	var req dto.RespondToInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.tripService.RespondToInvite(c.Request.Context(), userID, tripID, *req.Accept); err != nil {
		if mapTripError(c, err) {
			return
		}
		logger.Error("Failed to respond to invite in service", slog.String("error", err.Error()), slog.String("trip_id", tripID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to respond to invite"})
		return
	}

	c.Status(http.StatusNoContent)
}

// updateParticipantRole godoc
// @Summary Change a participant's role
// @Description Updates a participant's role on the trip. Owner only.
// @Tags participants
// @Accept json
// @Param trip_id path string true "Trip ID"
// @Param user_id path string true "Target user ID"
// @Param role body dto.UpdateParticipantRoleRequest true "New role"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Cannot demote the last owner"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /trips/{trip_id}/participants/{user_id}/role [put]
func (h *tripHandler) updateParticipantRole(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	tripID := c.Param("trip_id")
	targetUserID := c.Param("user_id")

	var req dto.UpdateParticipantRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	err := h.tripService.UpdateParticipantRole(c.Request.Context(), requestingUserID, targetUserID, tripID, req.Role)
	if err != nil {
		if mapTripError(c, err) {
			return
		}
		logger.Error("Failed to update participant role in service", slog.String("error", err.Error()), slog.String("trip_id", tripID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update participant role"})
		return
	}

	c.Status(http.StatusNoContent)
}

// removeParticipant godoc
// @Summary Remove a participant
// @Description Marks a participant as REMOVED. Their expense history stays in the ledger. Owner only.
// @Tags participants
// @Param trip_id path string true "Trip ID"
// @Param user_id path string true "Target user ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Cannot remove the last owner"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /trips/{trip_id}/participants/{user_id} [delete]
func (h *tripHandler) removeParticipant(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	tripID := c.Param("trip_id")
	targetUserID := c.Param("user_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.tripService.RemoveParticipant(c.Request.Context(), requestingUserID, targetUserID, tripID); err != nil {
		if mapTripError(c, err) {
			return
		}
		logger.Error("Failed to remove participant in service", slog.String("error", err.Error()), slog.String("trip_id", tripID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to remove participant"})
		return
	}

	c.Status(http.StatusNoContent)
}
