package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// Passing this to the service container constructor keeps wiring in one place.
type RepositoryProvider struct {
	UserRepo     UserRepositoryFacade
	TripRepo     TripRepositoryWithTx
	ExpenseRepo  ExpenseRepositoryWithTx
	CurrencyRepo CurrencyRepositoryFacade
}
