package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Quote assets accepted for USDT-M futures symbols.
var quoteAssets = []string{"USDT", "USDC"}

// ValidateSymbol normalizes and checks a trading symbol.
// Input is upper-cased and trimmed; the result must be non-empty, uppercase
// alphanumeric, and end in a recognized quote asset.
func ValidateSymbol(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return "", NewValidationError("symbol", "must not be empty")
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "", NewValidationError("symbol", "must be uppercase alphanumeric")
		}
	}
	for _, quote := range quoteAssets {
		if strings.HasSuffix(s, quote) && len(s) > len(quote) {
			return s, nil
		}
	}
	return "", NewValidationError("symbol", "must end with a quote asset (USDT or USDC)")
}

// ValidateSide normalizes and checks an order side. Only BUY and SELL exist.
func ValidateSide(side string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(side))
	if s != SideBuy && s != SideSell {
		return "", NewValidationError("side", "must be BUY or SELL")
	}
	return s, nil
}

// ValidatePositive checks that value is strictly greater than zero.
// field names the offending input in the resulting error.
func ValidatePositive(value decimal.Decimal, field string) error {
	if !value.IsPositive() {
		return NewValidationError(field, "must be greater than 0")
	}
	return nil
}

// ValidateOCOPrices checks the leg price ordering for an OCO pair.
//
// SELL closes a long: the take-profit limit sits above the stop trigger, and
// the stop fill price must not sit above the trigger. BUY mirrors both rules.
func ValidateOCOPrices(side string, limitPrice, stopPrice, stopLimitPrice decimal.Decimal) error {
	switch side {
	case SideSell:
		if limitPrice.Cmp(stopPrice) <= 0 {
			return NewValidationError("limit_price", "must be above stop_price for SELL")
		}
		if stopLimitPrice.Cmp(stopPrice) > 0 {
			return NewValidationError("stop_limit_price", "must not be above stop_price for SELL")
		}
	case SideBuy:
		if limitPrice.Cmp(stopPrice) >= 0 {
			return NewValidationError("limit_price", "must be below stop_price for BUY")
		}
		if stopLimitPrice.Cmp(stopPrice) < 0 {
			return NewValidationError("stop_limit_price", "must not be below stop_price for BUY")
		}
	default:
		return NewValidationError("side", "must be BUY or SELL")
	}
	return nil
}

// ValidateOrderID checks that an exchange order id is a positive integer.
func ValidateOrderID(orderID int64) error {
	if orderID <= 0 {
		return NewValidationError("order_id", "must be a positive integer")
	}
	return nil
}
