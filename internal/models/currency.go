package models

// Currency represents a supported currency row.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // Primary key, ISO 4217
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Precision    int    `json:"precision"`
	AuditFields
}
