package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense represents a single outlay paid by one participant on behalf of the group.
type Expense struct {
	ExpenseID    string          `json:"expenseID"` // Primary Key (UUID)
	TripID       string          `json:"tripID"`    // FK -> Trip.TripID (Not Null)
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`       // Positive value; precise decimal type
	CurrencyCode string          `json:"currencyCode"` // Must match the trip currency (Not Null)
	Category     string          `json:"category"`     // Presentation only, never part of the math
	ExpenseDate  time.Time       `json:"expenseDate"`
	PayerID      string          `json:"payerID"`    // Participant who fronted the money
	RecordedBy   string          `json:"recordedBy"` // Participant who entered the expense
	AuditFields

	// Splits is populated on detail reads; list endpoints leave it nil.
	Splits []ExpenseSplit `json:"splits,omitempty"`
}

// ExpenseSplit represents one participant's share of one expense.
// Splits are created atomically with their parent expense and are not
// independently mutable.
type ExpenseSplit struct {
	SplitID   string          `json:"splitID"`   // Primary Key (UUID)
	ExpenseID string          `json:"expenseID"` // FK -> Expense.ExpenseID (Not Null)
	UserID    string          `json:"userID"`    // Participant who owes this share
	Amount    decimal.Decimal `json:"amount"`    // Positive value

	// SettledAtCreation is true only for the payer's own split. The balance
	// aggregator skips settled splits so the payer is never debited for their
	// own consumption. It is not a "debt repaid" marker.
	SettledAtCreation bool `json:"settledAtCreation"`
	AuditFields
}

// ExpenseWithSplits pairs an expense with its full split set, as read from the
// store in one consistent snapshot.
type ExpenseWithSplits struct {
	Expense Expense
	Splits  []ExpenseSplit
}
