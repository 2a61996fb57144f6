package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and is
// what the handlers are built against.
type ServiceContainer struct {
	User       UserSvcFacade
	Trip       TripSvcFacade
	Expense    ExpenseSvcFacade
	Settlement SettlementSvcFacade
	Currency   CurrencySvcFacade

	TokenService       TokenSvcFacade
	GoogleOAuthHandler GoogleOAuthHandlerSvcFacade
}
