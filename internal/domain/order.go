package domain

import (
	"github.com/shopspring/decimal"
)

// Order side and type enumerations. Values match the exchange wire format,
// so they are sent as-is in request parameters.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"

	OrderTypeMarket     = "MARKET"
	OrderTypeLimit      = "LIMIT"
	OrderTypeStopMarket = "STOP_MARKET"
	// OrderTypeStopLimit is the exchange type for a stop order with a limit
	// fill price. Used internally for the stop-loss leg of an OCO pair.
	OrderTypeStopLimit = "STOP"
	OrderTypeOCO       = "OCO"

	TimeInForceGTC = "GTC"
)

// OrderRequest captures a single order placement request after validation.
// It lives for one call: built, dispatched, discarded.
type OrderRequest struct {
	Symbol    string
	Side      string
	OrderType string
	Quantity  decimal.Decimal

	// Price fields are set depending on OrderType. Zero means absent.
	Price          decimal.Decimal // LIMIT
	StopPrice      decimal.Decimal // STOP_MARKET, OCO stop leg trigger
	LimitPrice     decimal.Decimal // OCO take-profit leg
	StopLimitPrice decimal.Decimal // OCO stop leg fill price
}

// OrderParams is the flat parameter set sent to the exchange.
// Keys and values follow the exchange's REST conventions.
type OrderParams map[string]string
