package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/WayfareLabs/trip_split_app/internal/apperrors"
	portssvc "github.com/WayfareLabs/trip_split_app/internal/core/ports/services"
	"github.com/WayfareLabs/trip_split_app/internal/core/services"
	"github.com/WayfareLabs/trip_split_app/internal/dto"
	"github.com/WayfareLabs/trip_split_app/internal/middleware"
)

// expenseHandler handles HTTP requests related to expenses within a trip.
type expenseHandler struct {
	expenseService portssvc.ExpenseSvcFacade
	userService    portssvc.UserSvcFacade
}

func newExpenseHandler(es portssvc.ExpenseSvcFacade, us portssvc.UserSvcFacade) *expenseHandler {
	return &expenseHandler{expenseService: es, userService: us}
}

// registerExpenseRoutes registers expense routes nested under a specific trip.
func registerExpenseRoutes(tripGroup *gin.RouterGroup, expenseService portssvc.ExpenseSvcFacade, userService portssvc.UserSvcFacade) {
	h := newExpenseHandler(expenseService, userService)

	expenses := tripGroup.Group("/expenses")
	{
		expenses.POST("", h.recordExpense)
		expenses.GET("", h.listExpenses)
		expenses.GET("/:expense_id", h.getExpense)
		expenses.PUT("/:expense_id", h.updateExpense)
		expenses.DELETE("/:expense_id", h.deleteExpense)
	}
}

// mapExpenseError writes the HTTP response for expense service errors and
// reports whether the error was handled. Domain validation sentinels all map
// to 400.
func mapExpenseError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, services.ErrAmountNotPositive),
		errors.Is(err, services.ErrAmountPrecision),
		errors.Is(err, services.ErrSplitsUnbalanced),
		errors.Is(err, services.ErrSplitNotParticipant),
		errors.Is(err, services.ErrPayerNotParticipant),
		errors.Is(err, services.ErrDuplicateSplitUser),
		errors.Is(err, services.ErrNoParticipants),
		errors.Is(err, services.ErrAmountTooSmall),
		errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrTripInactive):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Trip is inactive and does not accept expense changes"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "You do not have permission to perform this action"})
	default:
		return false
	}
	return true
}

// recordExpense godoc
// @Summary Record an expense
// @Description Records an expense with its splits atomically. Empty splits mean an equal split across the active roster. Editor or owner only.
// @Tags expenses
// @Accept json
// @Produce json
// @Param trip_id path string true "Trip ID"
// @Param expense body dto.CreateExpenseRequest true "Expense details"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 400 {object} ErrorResponse "Validation failure (unbalanced splits, bad amount, non-participant)"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Trip is inactive"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /trips/{trip_id}/expenses [post]
func (h *expenseHandler) recordExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	tripID := c.Param("trip_id")

	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	expense, err := h.expenseService.RecordExpense(c.Request.Context(), tripID, req, creatorUserID)
	if err != nil {
		if mapExpenseError(c, err) {
			return
		}
		logger.Error("Failed to record expense in service", slog.String("error", err.Error()), slog.String("trip_id", tripID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to record expense"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToExpenseResponse(expense))
}

// listExpenses godoc
// @Summary List expenses
// @Description Retrieves a page of the trip's expenses, newest first, without splits. Participants only.
// @Tags expenses
// @Produce json
// @Param trip_id path string true "Trip ID"
// @Param limit query int false "Max expenses to return (default 20, max 100)"
// @Param nextToken query string false "Pagination token from a previous response"
// @Success 200 {object} dto.ListExpensesResponse
// @Failure 400 {object} ErrorResponse "Invalid pagination token"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /trips/{trip_id}/expenses [get]
func (h *expenseHandler) listExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	tripID := c.Param("trip_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	params := dto.ListExpensesParams{}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, convErr := strconv.Atoi(limitStr)
		if convErr != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid limit parameter"})
			return
		}
		params.Limit = limit
	}
	if token := c.Query("nextToken"); token != "" {
		params.NextToken = &token
	}

	resp, err := h.expenseService.ListExpenses(c.Request.Context(), tripID, userID, params)
	if err != nil {
		if mapExpenseError(c, err) {
			return
		}
		logger.Error("Failed to list expenses from service", slog.String("error", err.Error()), slog.String("trip_id", tripID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list expenses"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getExpense godoc
// @Summary Get an expense
// @Description Retrieves a single expense with its splits. Participants only.
// @Tags expenses
// @Produce json
// @Param trip_id path string true "Trip ID"
// @Param expense_id path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /trips/{trip_id}/expenses/{expense_id} [get]
func (h *expenseHandler) getExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	tripID := c.Param("trip_id")
	expenseID := c.Param("expense_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	expense, err := h.expenseService.GetExpenseByID(c.Request.Context(), tripID, expenseID, userID)
	if err != nil {
		if mapExpenseError(c, err) {
			return
		}
		logger.Error("Failed to get expense from service", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get expense"})
		return
	}

	resp := dto.ToExpenseResponse(expense)
	resp.PayerName = h.userService.ResolveDisplayName(c.Request.Context(), expense.PayerID)

	c.JSON(http.StatusOK, resp)
}

// updateExpense godoc
// @Summary Update an expense
// @Description Updates an expense's description, category, or date. Amount, payer, and splits are immutable. Payer or trip owner only.
// @Tags expenses
// @Accept json
// @Produce json
// @Param trip_id path string true "Trip ID"
// @Param expense_id path string true "Expense ID"
// @Param expense body dto.UpdateExpenseRequest true "Fields to update"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /trips/{trip_id}/expenses/{expense_id} [put]
func (h *expenseHandler) updateExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	tripID := c.Param("trip_id")
	expenseID := c.Param("expense_id")

	var req dto.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	expense, err := h.expenseService.UpdateExpense(c.Request.Context(), tripID, expenseID, req, userID)
	if err != nil {
		if mapExpenseError(c, err) {
			return
		}
		logger.Error("Failed to update expense in service", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update expense"})
		return
	}

	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// deleteExpense godoc
// @Summary Delete an expense
// @Description Removes an expense and its splits atomically. Payer or trip owner only.
// @Tags expenses
// @Param trip_id path string true "Trip ID"
// @Param expense_id path string true "Expense ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /trips/{trip_id}/expenses/{expense_id} [delete]
func (h *expenseHandler) deleteExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	tripID := c.Param("trip_id")
	expenseID := c.Param("expense_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.expenseService.DeleteExpense(c.Request.Context(), tripID, expenseID, userID); err != nil {
		if mapExpenseError(c, err) {
			return
		}
		logger.Error("Failed to delete expense in service", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete expense"})
		return
	}

	c.Status(http.StatusNoContent)
}
