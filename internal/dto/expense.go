package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/WayfareLabs/trip_split_app/internal/core/domain"
)

// CreateExpenseSplitRequest defines one explicit share of a new expense.
type CreateExpenseSplitRequest struct {
	UserID string          `json:"userID" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// CreateExpenseRequest defines data for recording a new expense.
// When Splits is empty the amount is divided equally across the trip's
// active participants; explicit splits must sum exactly to Amount.
type CreateExpenseRequest struct {
	Description string                      `json:"description" binding:"required"`
	Amount      decimal.Decimal             `json:"amount" binding:"required"`
	Category    string                      `json:"category"`
	ExpenseDate time.Time                   `json:"expenseDate" binding:"required"`
	PayerID     string                      `json:"payerID" binding:"required"`
	Splits      []CreateExpenseSplitRequest `json:"splits"`
}

// UpdateExpenseRequest defines the expense fields that may change after
// creation. Amount, payer, and splits are immutable; correcting those means
// deleting and re-recording the expense.
type UpdateExpenseRequest struct {
	Description *string    `json:"description"`
	Category    *string    `json:"category"`
	ExpenseDate *time.Time `json:"expenseDate"`
}

// ExpenseSplitResponse defines data returned for one share of an expense.
type ExpenseSplitResponse struct {
	SplitID           string          `json:"splitID"`
	UserID            string          `json:"userID"`
	Amount            decimal.Decimal `json:"amount"`
	SettledAtCreation bool            `json:"settledAtCreation"`
}

// ExpenseResponse defines data returned for an expense. Splits is populated
// on detail reads and omitted from list responses.
type ExpenseResponse struct {
	ExpenseID     string                 `json:"expenseID"`
	TripID        string                 `json:"tripID"`
	Description   string                 `json:"description"`
	Amount        decimal.Decimal        `json:"amount"`
	CurrencyCode  string                 `json:"currencyCode"`
	Category      string                 `json:"category,omitempty"`
	ExpenseDate   time.Time              `json:"expenseDate"`
	PayerID       string                 `json:"payerID"`
	PayerName     string                 `json:"payerName,omitempty"` // Resolved for detail reads only

	RecordedBy    string                 `json:"recordedBy"`
	CreatedAt     time.Time              `json:"createdAt"`
	LastUpdatedAt time.Time              `json:"lastUpdatedAt"`
	Splits        []ExpenseSplitResponse `json:"splits,omitempty"`
}

// ListExpensesParams defines query parameters for listing trip expenses.
type ListExpensesParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListExpensesResponse wraps a page of expenses plus the token for the next page.
type ListExpensesResponse struct {
	Expenses  []ExpenseResponse `json:"expenses"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToExpenseSplitResponse converts a domain.ExpenseSplit to DTO.
func ToExpenseSplitResponse(s *domain.ExpenseSplit) ExpenseSplitResponse {
	return ExpenseSplitResponse{
		SplitID:           s.SplitID,
		UserID:            s.UserID,
		Amount:            s.Amount,
		SettledAtCreation: s.SettledAtCreation,
	}
}

// ToExpenseResponse converts a domain.Expense (with any loaded splits) to DTO.
func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	resp := ExpenseResponse{
		ExpenseID:     e.ExpenseID,
		TripID:        e.TripID,
		Description:   e.Description,
		Amount:        e.Amount,
		CurrencyCode:  e.CurrencyCode,
		Category:      e.Category,
		ExpenseDate:   e.ExpenseDate,
		PayerID:       e.PayerID,
		RecordedBy:    e.RecordedBy,
		CreatedAt:     e.CreatedAt,
		LastUpdatedAt: e.LastUpdatedAt,
	}
	if len(e.Splits) > 0 {
		resp.Splits = make([]ExpenseSplitResponse, len(e.Splits))
		for i, s := range e.Splits {
			resp.Splits[i] = ToExpenseSplitResponse(&s)
		}
	}
	return resp
}

// ToListExpensesResponse converts a page of domain expenses to DTO.
func ToListExpensesResponse(es []domain.Expense, nextToken *string) ListExpensesResponse {
	list := make([]ExpenseResponse, len(es))
	for i, e := range es {
		list[i] = ToExpenseResponse(&e)
	}
	return ListExpensesResponse{Expenses: list, NextToken: nextToken}
}
