package services

import (
	portsrepo "github.com/WayfareLabs/trip_split_app/internal/core/ports/repositories"
	portssvc "github.com/WayfareLabs/trip_split_app/internal/core/ports/services"
	"github.com/WayfareLabs/trip_split_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Trip service first; it is the authorizer every other service leans on.
	container.Trip = NewTripService(
		repos.TripRepo,
		repos.CurrencyRepo,
		repos.UserRepo,
	)

	container.Currency = NewCurrencyService(repos.CurrencyRepo)
	container.User = NewUserService(repos.UserRepo)
	container.Expense = NewExpenseService(repos.ExpenseRepo, container.Trip)
	container.Settlement = NewSettlementService(repos.ExpenseRepo, container.Trip)

	container.TokenService = NewTokenService(cfg, container.User)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}

// Compile-time interface checks for the service implementations.
var (
	_ portssvc.TripSvcFacade       = (*tripService)(nil)
	_ portssvc.ExpenseSvcFacade    = (*expenseService)(nil)
	_ portssvc.SettlementSvcFacade = (*settlementService)(nil)
	_ portssvc.UserSvcFacade       = (*userService)(nil)
	_ portssvc.CurrencySvcFacade   = (*currencyService)(nil)
)
