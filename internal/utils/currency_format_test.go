package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/WayfareLabs/trip_split_app/internal/core/domain"
)

func TestFormatWithCurrencyPrecision(t *testing.T) {
	eur := domain.Currency{CurrencyCode: "EUR", Symbol: "€", Name: "Euro", Precision: 2}
	jpy := domain.Currency{CurrencyCode: "JPY", Symbol: "¥", Name: "Japanese Yen", Precision: 0}

	assert.Equal(t, "12.35", FormatWithCurrencyPrecision(decimal.RequireFromString("12.3456"), eur))
	assert.Equal(t, "12", FormatWithCurrencyPrecision(decimal.RequireFromString("12.3456"), jpy))
	assert.Equal(t, "0", FormatWithCurrencyPrecision(decimal.Zero, jpy))
}

func TestFormatWithPrecision(t *testing.T) {
	assert.Equal(t, "10.01", FormatWithPrecision(decimal.RequireFromString("10.005"), 2))
	assert.Equal(t, "-3.33", FormatWithPrecision(decimal.RequireFromString("-3.333"), 2))
}
