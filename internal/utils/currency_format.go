package utils

import (
	"github.com/shopspring/decimal"

	"github.com/WayfareLabs/trip_split_app/internal/core/domain"
)

// FormatWithCurrencyPrecision renders an amount at the currency's precision.
// 12.3456 with EUR (precision 2) returns "12.35"; with JPY (precision 0), "12".
func FormatWithCurrencyPrecision(amount decimal.Decimal, currency domain.Currency) string {
	return amount.Round(int32(currency.Precision)).String()
}

// FormatWithPrecision renders an amount at an explicit precision, for callers
// that only carry the precision value.
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.Round(int32(precision)).String()
}
