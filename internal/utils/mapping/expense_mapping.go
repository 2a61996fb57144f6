package mapping

import (
	"github.com/WayfareLabs/trip_split_app/internal/core/domain"
	"github.com/WayfareLabs/trip_split_app/internal/models"
)

// ToModelExpense converts a domain Expense to a model Expense. Splits are
// persisted separately and are not part of the expense row.
func ToModelExpense(d domain.Expense) models.Expense {
	return models.Expense{
		ExpenseID:    d.ExpenseID,
		TripID:       d.TripID,
		Description:  d.Description,
		Amount:       d.Amount,
		CurrencyCode: d.CurrencyCode,
		Category:     d.Category,
		ExpenseDate:  d.ExpenseDate,
		PayerID:      d.PayerID,
		RecordedBy:   d.RecordedBy,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExpense converts a model Expense to a domain Expense.
func ToDomainExpense(m models.Expense) domain.Expense {
	return domain.Expense{
		ExpenseID:    m.ExpenseID,
		TripID:       m.TripID,
		Description:  m.Description,
		Amount:       m.Amount,
		CurrencyCode: m.CurrencyCode,
		Category:     m.Category,
		ExpenseDate:  m.ExpenseDate,
		PayerID:      m.PayerID,
		RecordedBy:   m.RecordedBy,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainExpenseSlice converts a slice of model Expenses to domain Expenses.
func ToDomainExpenseSlice(ms []models.Expense) []domain.Expense {
	ds := make([]domain.Expense, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainExpense(m)
	}
	return ds
}

// ToModelExpenseSplit converts a domain ExpenseSplit to its model form.
func ToModelExpenseSplit(d domain.ExpenseSplit) models.ExpenseSplit {
	return models.ExpenseSplit{
		SplitID:           d.SplitID,
		ExpenseID:         d.ExpenseID,
		UserID:            d.UserID,
		Amount:            d.Amount,
		SettledAtCreation: d.SettledAtCreation,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExpenseSplit converts a model ExpenseSplit to its domain form.
func ToDomainExpenseSplit(m models.ExpenseSplit) domain.ExpenseSplit {
	return domain.ExpenseSplit{
		SplitID:           m.SplitID,
		ExpenseID:         m.ExpenseID,
		UserID:            m.UserID,
		Amount:            m.Amount,
		SettledAtCreation: m.SettledAtCreation,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainExpenseSplitSlice converts model splits to domain splits.
func ToDomainExpenseSplitSlice(ms []models.ExpenseSplit) []domain.ExpenseSplit {
	ds := make([]domain.ExpenseSplit, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainExpenseSplit(m)
	}
	return ds
}
