package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/WayfareLabs/trip_split_app/internal/apperrors"
	"github.com/WayfareLabs/trip_split_app/internal/core/domain"
	portsrepo "github.com/WayfareLabs/trip_split_app/internal/core/ports/repositories"
	portssvc "github.com/WayfareLabs/trip_split_app/internal/core/ports/services"
	"github.com/WayfareLabs/trip_split_app/internal/dto"
	"github.com/WayfareLabs/trip_split_app/internal/utils/settling"
)

var (
	ErrAmountNotPositive   = errors.New("expense amount must be positive")
	ErrAmountPrecision     = errors.New("expense amount must not exceed cent precision")
	ErrSplitsUnbalanced    = errors.New("expense splits do not sum to the expense amount")
	ErrSplitNotParticipant = errors.New("split references a user who is not an active trip participant")
	ErrPayerNotParticipant = errors.New("payer is not an active trip participant")
	ErrDuplicateSplitUser  = errors.New("a participant appears in more than one split")
	ErrTripInactive        = errors.New("trip is inactive and rejects new expenses")
	ErrNoParticipants      = errors.New("trip has no active participants to split across")
	ErrAmountTooSmall      = errors.New("expense amount is too small to give every participant a positive share")
)

// expenseService handles recording, reading, and removing expenses with
// their splits.
type expenseService struct {
	BaseService
	expenseRepo portsrepo.ExpenseRepositoryWithTx
	tripSvc     portssvc.TripSvcFacade
}

// NewExpenseService creates a new expense service.
func NewExpenseService(expenseRepo portsrepo.ExpenseRepositoryWithTx, tripSvc portssvc.TripSvcFacade) portssvc.ExpenseSvcFacade {
	return &expenseService{
		BaseService: BaseService{TripAuthorizer: tripSvc},
		expenseRepo: expenseRepo,
		tripSvc:     tripSvc,
	}
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

// activeRoster returns the trip's active participants keyed by user ID.
func (s *expenseService) activeRoster(ctx context.Context, tripID string) (map[string]domain.TripParticipant, []domain.TripParticipant, error) {
	participants, err := s.tripSvc.ListActiveParticipants(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[string]domain.TripParticipant, len(participants))
	for _, p := range participants {
		byID[p.UserID] = p
	}
	return byID, participants, nil
}

// buildSplits validates explicit splits or synthesizes equal shares, and
// flags the payer's own split as settled at creation.
func (s *expenseService) buildSplits(req dto.CreateExpenseRequest, roster map[string]domain.TripParticipant, participants []domain.TripParticipant) ([]domain.ExpenseSplit, error) {
	if len(req.Splits) == 0 {
		if len(participants) == 0 {
			return nil, fmt.Errorf("%w", ErrNoParticipants)
		}
		// Equal split across the roster in user ID order, so the cent
		// remainder always lands on the same participants.
		userIDs := make([]string, 0, len(participants))
		for _, p := range participants {
			userIDs = append(userIDs, p.UserID)
		}
		sort.Strings(userIDs)

		// Below one cent per head the synthesis would emit zero-amount
		// shares, which the store rejects.
		minAmount := decimal.New(1, -2).Mul(decimal.NewFromInt(int64(len(userIDs))))
		if req.Amount.LessThan(minAmount) {
			return nil, fmt.Errorf("%w: %s across %d participants", ErrAmountTooSmall, req.Amount.String(), len(userIDs))
		}

		shares := settling.EqualShares(req.Amount, len(userIDs))
		splits := make([]domain.ExpenseSplit, len(userIDs))
		for i, userID := range userIDs {
			splits[i] = domain.ExpenseSplit{
				UserID:            userID,
				Amount:            shares[i],
				SettledAtCreation: userID == req.PayerID,
			}
		}
		return splits, nil
	}

	seen := make(map[string]bool, len(req.Splits))
	splits := make([]domain.ExpenseSplit, len(req.Splits))
	sum := decimal.Zero
	for i, sp := range req.Splits {
		if _, ok := roster[sp.UserID]; !ok {
			return nil, fmt.Errorf("%w: user %s", ErrSplitNotParticipant, sp.UserID)
		}
		if seen[sp.UserID] {
			return nil, fmt.Errorf("%w: user %s", ErrDuplicateSplitUser, sp.UserID)
		}
		seen[sp.UserID] = true
		if !sp.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: split amount for user %s must be positive", apperrors.ErrValidation, sp.UserID)
		}
		if !sp.Amount.Round(2).Equal(sp.Amount) {
			return nil, fmt.Errorf("%w: split for user %s", ErrAmountPrecision, sp.UserID)
		}
		sum = sum.Add(sp.Amount)
		splits[i] = domain.ExpenseSplit{
			UserID:            sp.UserID,
			Amount:            sp.Amount,
			SettledAtCreation: sp.UserID == req.PayerID,
		}
	}

	// Exact equality, not within epsilon: the store never holds an expense
	// whose splits disagree with its amount.
	if !sum.Equal(req.Amount) {
		return nil, fmt.Errorf("%w: splits sum to %s, expense amount is %s", ErrSplitsUnbalanced, sum.String(), req.Amount.String())
	}
	return splits, nil
}

// RecordExpense validates and persists a new expense with its splits in one
// atomic write.
func (s *expenseService) RecordExpense(ctx context.Context, tripID string, req dto.CreateExpenseRequest, creatorUserID string) (*domain.Expense, error) {
	logger := s.GetLogger(ctx)

	if err := s.AuthorizeUser(ctx, creatorUserID, tripID, domain.RoleEditor); err != nil {
		return nil, err
	}

	trip, err := s.tripSvc.GetTripByID(ctx, tripID, creatorUserID)
	if err != nil {
		return nil, err
	}
	if !trip.IsActive {
		return nil, fmt.Errorf("%w: trip %s", ErrTripInactive, tripID)
	}

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", ErrAmountNotPositive, req.Amount.String())
	}
	if !req.Amount.Round(2).Equal(req.Amount) {
		return nil, fmt.Errorf("%w: got %s", ErrAmountPrecision, req.Amount.String())
	}

	roster, participants, err := s.activeRoster(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if _, ok := roster[req.PayerID]; !ok {
		return nil, fmt.Errorf("%w: user %s", ErrPayerNotParticipant, req.PayerID)
	}

	splits, err := s.buildSplits(req, roster, participants)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	newExpenseID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorUserID,
	}

	expense := domain.Expense{
		ExpenseID:    newExpenseID,
		TripID:       tripID,
		Description:  req.Description,
		Amount:       req.Amount,
		CurrencyCode: trip.CurrencyCode,
		Category:     req.Category,
		ExpenseDate:  req.ExpenseDate,
		PayerID:      req.PayerID,
		RecordedBy:   creatorUserID,
		AuditFields:  audit,
	}
	for i := range splits {
		splits[i].SplitID = uuid.NewString()
		splits[i].ExpenseID = newExpenseID
		splits[i].AuditFields = audit
	}

	if err := s.expenseRepo.SaveExpenseWithSplits(ctx, expense, splits); err != nil {
		logger.Error("Failed to save expense with splits", slog.String("error", err.Error()), slog.String("trip_id", tripID), slog.String("expense_id", newExpenseID))
		return nil, fmt.Errorf("failed to record expense: %w", err)
	}

	expense.Splits = splits
	logger.Info("Expense recorded", slog.String("expense_id", newExpenseID), slog.String("trip_id", tripID), slog.String("amount", expense.Amount.StringFixed(2)), slog.Int("splits", len(splits)))
	return &expense, nil
}

// GetExpenseByID retrieves an expense with its splits.
func (s *expenseService) GetExpenseByID(ctx context.Context, tripID string, expenseID string, requestingUserID string) (*domain.Expense, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, tripID, domain.RoleViewer); err != nil {
		return nil, err
	}

	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	// Do not leak expenses across trips through a mismatched URL.
	if expense.TripID != tripID {
		return nil, apperrors.ErrNotFound
	}

	splits, err := s.expenseRepo.FindSplitsByExpenseID(ctx, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load splits for expense %s: %w", expenseID, err)
	}
	expense.Splits = splits
	return expense, nil
}

// ListExpenses retrieves a paginated list of a trip's expenses, newest first.
func (s *expenseService) ListExpenses(ctx context.Context, tripID string, requestingUserID string, params dto.ListExpensesParams) (*dto.ListExpensesResponse, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, tripID, domain.RoleViewer); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	expenses, nextToken, err := s.expenseRepo.ListExpensesByTrip(ctx, tripID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses for trip %s: %w", tripID, err)
	}

	resp := dto.ToListExpensesResponse(expenses, nextToken)
	return &resp, nil
}

// canMutateExpense enforces the expense mutation rule: the payer may change
// or remove their own expense regardless of role; anyone else needs OWNER.
func (s *expenseService) canMutateExpense(ctx context.Context, requestingUserID string, expense *domain.Expense) error {
	if requestingUserID == expense.PayerID {
		return nil
	}
	return s.AuthorizeUser(ctx, requestingUserID, expense.TripID, domain.RoleOwner)
}

// UpdateExpense updates an expense's mutable fields. Amount, payer, and
// splits never change after creation; correcting those means deleting and
// re-recording.
func (s *expenseService) UpdateExpense(ctx context.Context, tripID string, expenseID string, req dto.UpdateExpenseRequest, requestingUserID string) (*domain.Expense, error) {
	logger := s.GetLogger(ctx)

	if err := s.AuthorizeUser(ctx, requestingUserID, tripID, domain.RoleViewer); err != nil {
		return nil, err
	}

	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.TripID != tripID {
		return nil, apperrors.ErrNotFound
	}
	if err := s.canMutateExpense(ctx, requestingUserID, expense); err != nil {
		return nil, err
	}

	if req.Description != nil {
		expense.Description = *req.Description
	}
	if req.Category != nil {
		expense.Category = *req.Category
	}
	if req.ExpenseDate != nil {
		expense.ExpenseDate = *req.ExpenseDate
	}
	expense.LastUpdatedAt = time.Now()
	expense.LastUpdatedBy = requestingUserID

	if err := s.expenseRepo.UpdateExpense(ctx, *expense); err != nil {
		logger.Error("Failed to update expense", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
		return nil, fmt.Errorf("failed to update expense %s: %w", expenseID, err)
	}

	return expense, nil
}

// DeleteExpense removes an expense and its splits in one atomic write.
func (s *expenseService) DeleteExpense(ctx context.Context, tripID string, expenseID string, requestingUserID string) error {
	logger := s.GetLogger(ctx)

	if err := s.AuthorizeUser(ctx, requestingUserID, tripID, domain.RoleViewer); err != nil {
		return err
	}

	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return err
	}
	if expense.TripID != tripID {
		return apperrors.ErrNotFound
	}
	if err := s.canMutateExpense(ctx, requestingUserID, expense); err != nil {
		return err
	}

	if err := s.expenseRepo.DeleteExpenseWithSplits(ctx, expenseID); err != nil {
		logger.Error("Failed to delete expense with splits", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
		return fmt.Errorf("failed to delete expense %s: %w", expenseID, err)
	}

	logger.Info("Expense deleted", slog.String("expense_id", expenseID), slog.String("trip_id", tripID), slog.String("deleted_by_user_id", requestingUserID))
	return nil
}
