package services

import (
	"context"

	"github.com/WayfareLabs/trip_split_app/internal/core/domain"
	"github.com/WayfareLabs/trip_split_app/internal/dto"
)

// ExpenseReaderSvc defines read operations for expense data.
type ExpenseReaderSvc interface {
	// GetExpenseByID retrieves a specific expense with its splits.
	GetExpenseByID(ctx context.Context, tripID string, expenseID string, requestingUserID string) (*domain.Expense, error)

	// ListExpenses retrieves a paginated list of a trip's expenses.
	ListExpenses(ctx context.Context, tripID string, requestingUserID string, params dto.ListExpensesParams) (*dto.ListExpensesResponse, error)
}

// ExpenseWriterSvc defines write operations for expense data.
type ExpenseWriterSvc interface {
	// RecordExpense validates and persists a new expense with its splits in
	// one atomic write. Empty splits in the request mean an equal split
	// across the trip's active participants.
	RecordExpense(ctx context.Context, tripID string, req dto.CreateExpenseRequest, creatorUserID string) (*domain.Expense, error)

	// UpdateExpense updates an expense's mutable fields (description,
	// category, date). Amount, payer, and splits never change after creation.
	UpdateExpense(ctx context.Context, tripID string, expenseID string, req dto.UpdateExpenseRequest, requestingUserID string) (*domain.Expense, error)

	// DeleteExpense removes an expense and its splits.
	DeleteExpense(ctx context.Context, tripID string, expenseID string, requestingUserID string) error
}

// ExpenseSvcFacade combines all expense-related service interfaces.
type ExpenseSvcFacade interface {
	ExpenseReaderSvc
	ExpenseWriterSvc
}
