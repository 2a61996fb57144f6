package domain

import "github.com/shopspring/decimal"

// ParticipantBalance is a derived, non-persisted value: one signed amount per
// active participant for a trip. Positive means the group owes the
// participant money; negative means the participant owes the group.
type ParticipantBalance struct {
	UserID      string          `json:"userID"`
	DisplayName string          `json:"displayName"`
	Balance     decimal.Decimal `json:"balance"`
}

// SettlementInstruction is one suggested payment from a debtor to a creditor.
// Applying every instruction of a plan drives the balances it was derived
// from toward zero.
type SettlementInstruction struct {
	FromUserID string          `json:"fromUserID"` // Debtor
	ToUserID   string          `json:"toUserID"`   // Creditor
	Amount     decimal.Decimal `json:"amount"`     // Always > 0, rounded to cents
}

// SettlementPlan is the full output of a balance computation: the balance per
// participant, the suggested transfers, and any residual amount the planner
// could not cancel because opposing totals did not match.
//
// Residual is signed: positive means credit was left unpaid after all debtors
// were exhausted, negative means debt was left uncollected. A zero residual
// means the plan settles the trip completely (within the cent tolerance).
type SettlementPlan struct {
	CurrencyCode string                  `json:"currencyCode"` // Trip currency; every amount in the plan is in it
	Balances     []ParticipantBalance    `json:"balances"`
	Settlements  []SettlementInstruction `json:"settlements"`
	Residual     decimal.Decimal         `json:"residual"`
}
