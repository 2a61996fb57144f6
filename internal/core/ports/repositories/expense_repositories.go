package repositories

import (
	"context"

	"github.com/WayfareLabs/trip_split_app/internal/core/domain"
)

// ExpenseReader defines read operations for expense data.
type ExpenseReader interface {
	// FindExpenseByID retrieves a specific expense without its splits.
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// FindSplitsByExpenseID retrieves all splits of a single expense.
	FindSplitsByExpenseID(ctx context.Context, expenseID string) ([]domain.ExpenseSplit, error)

	// ListExpensesByTrip retrieves a page of a trip's expenses ordered by
	// expense date then creation time, using token-based pagination. It
	// returns the expenses, a token for the next page, and an error.
	ListExpensesByTrip(ctx context.Context, tripID string, limit int, nextToken *string) ([]domain.Expense, *string, error)

	// FindExpensesWithSplitsByTrip retrieves the trip's complete expense
	// ledger with all splits in one consistent snapshot, for balance
	// computation.
	FindExpensesWithSplitsByTrip(ctx context.Context, tripID string) ([]domain.ExpenseWithSplits, error)
}

// ExpenseWriter defines write operations for expense data. An expense and
// its splits form one atomic unit; splits are never written independently.
type ExpenseWriter interface {
	// SaveExpenseWithSplits persists an expense and all of its splits in a
	// single database transaction.
	SaveExpenseWithSplits(ctx context.Context, expense domain.Expense, splits []domain.ExpenseSplit) error

	// UpdateExpense updates the mutable fields of an expense (description,
	// category, date). Amount, payer, and splits are immutable.
	UpdateExpense(ctx context.Context, expense domain.Expense) error

	// DeleteExpenseWithSplits removes an expense and its splits in a single
	// database transaction.
	DeleteExpenseWithSplits(ctx context.Context, expenseID string) error
}

// ExpenseRepositoryFacade combines all expense-related repository interfaces.
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
}

// ExpenseRepositoryWithTx extends ExpenseRepositoryFacade with transaction capabilities.
type ExpenseRepositoryWithTx interface {
	ExpenseRepositoryFacade
	TransactionManager
}
