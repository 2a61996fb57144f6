package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense represents a single group outlay row.
type Expense struct {
	ExpenseID    string          `json:"expenseID"`
	TripID       string          `json:"tripID" db:"trip_id"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode" db:"currency_code"`
	Category     string          `json:"category"`
	ExpenseDate  time.Time       `json:"expenseDate" db:"expense_date"`
	PayerID      string          `json:"payerID" db:"payer_id"`
	RecordedBy   string          `json:"recordedBy" db:"recorded_by"`
	AuditFields
}

// ExpenseSplit is one participant's share row, written in the same
// transaction as its parent expense.
type ExpenseSplit struct {
	SplitID           string          `json:"splitID"`
	ExpenseID         string          `json:"expenseID" db:"expense_id"`
	UserID            string          `json:"userID" db:"user_id"`
	Amount            decimal.Decimal `json:"amount"`
	SettledAtCreation bool            `json:"settledAtCreation" db:"settled_at_creation"`
	AuditFields
}
