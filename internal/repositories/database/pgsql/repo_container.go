package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/WayfareLabs/trip_split_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	userRepo := newPgxUserRepository(dbPool)
	tripRepo := newPgxTripRepository(dbPool)
	expenseRepo := newPgxExpenseRepository(dbPool)
	currencyRepo := newPgxCurrencyRepository(dbPool)

	return portsrepo.RepositoryProvider{
		UserRepo:     userRepo,
		TripRepo:     tripRepo,
		ExpenseRepo:  expenseRepo,
		CurrencyRepo: currencyRepo,
	}
}
