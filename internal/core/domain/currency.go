package domain

// Currency represents a reference currency supported by the application.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // ISO 4217 code, e.g. "EUR"
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Precision    int    `json:"precision"` // Number of decimal places, e.g. 2 for EUR
	AuditFields
}
