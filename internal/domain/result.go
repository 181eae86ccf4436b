package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Result statuses.
const (
	StatusSuccess = "SUCCESS"
	StatusError   = "ERROR"
)

// OrderResult is the uniform envelope returned by every service operation.
// Exactly one of {OrderID+ClientOrderID, ErrorMessage} is populated, keyed
// by Status. The caller owns the result; the service keeps no reference.
type OrderResult struct {
	Status        string          `json:"status"`
	OrderType     string          `json:"order_type,omitempty"`
	Symbol        string          `json:"symbol,omitempty"`
	Side          string          `json:"side,omitempty"`
	Quantity      decimal.Decimal `json:"quantity,omitempty"`
	OrderID       int64           `json:"order_id,omitempty"`
	ClientOrderID string          `json:"client_order_id,omitempty"`
	Price         string          `json:"price,omitempty"`
	StopPrice     string          `json:"stop_price,omitempty"`
	Timestamp     string          `json:"timestamp"`
	RawResponse   json.RawMessage `json:"raw_response,omitempty"`
	ErrorMessage  string          `json:"error_message,omitempty"`
}

// IsSuccess reports whether the operation succeeded.
func (r *OrderResult) IsSuccess() bool {
	return r.Status == StatusSuccess
}

// Now returns the result timestamp format used across all operations.
func Now() string {
	return time.Now().Format(time.RFC3339)
}

// OrderAck is the exchange's acknowledgement of a single placed order
// (/fapi/v1/order response). Numeric prices arrive as strings and stay
// strings until a caller needs arithmetic.
type OrderAck struct {
	OrderID       int64  `json:"orderId"`
	ClientOrderID string `json:"clientOrderId"`
	Symbol        string `json:"symbol"`
	Status        string `json:"status"`
	Price         string `json:"price"`
	AvgPrice      string `json:"avgPrice"`
	OrigQty       string `json:"origQty"`
	StopPrice     string `json:"stopPrice"`
	Side          string `json:"side"`
	Type          string `json:"type"`
	TimeInForce   string `json:"timeInForce"`
	UpdateTime    int64  `json:"updateTime"`
}

// OrderStatusInfo is the exchange's order lookup response, a superset of
// OrderAck with fill progress.
type OrderStatusInfo struct {
	OrderAck
	ExecutedQty string `json:"executedQty"`
	CumQuote    string `json:"cumQuote"`
	Time        int64  `json:"time"`
}

// AccountAsset is one asset entry in an account snapshot.
type AccountAsset struct {
	Asset            string `json:"asset"`
	WalletBalance    string `json:"walletBalance"`
	UnrealizedProfit string `json:"unrealizedProfit"`
	AvailableBalance string `json:"availableBalance"`
}

// AccountPosition is one open position entry in an account snapshot.
type AccountPosition struct {
	Symbol           string `json:"symbol"`
	PositionAmt      string `json:"positionAmt"`
	EntryPrice       string `json:"entryPrice"`
	UnrealizedProfit string `json:"unrealizedProfit"`
	Leverage         string `json:"leverage"`
}

// AccountSnapshot is the exchange's account query response
// (/fapi/v2/account), trimmed to the fields the front ends display.
type AccountSnapshot struct {
	TotalWalletBalance    string            `json:"totalWalletBalance"`
	TotalUnrealizedProfit string            `json:"totalUnrealizedProfit"`
	AvailableBalance      string            `json:"availableBalance"`
	Assets                []AccountAsset    `json:"assets"`
	Positions             []AccountPosition `json:"positions"`
}

// OCOLegOutcome records what happened to one leg of an OCO pair.
// Response is the raw exchange payload when the leg was dispatched.
type OCOLegOutcome struct {
	Accepted bool            `json:"accepted"`
	OrderID  int64           `json:"order_id,omitempty"`
	Response json.RawMessage `json:"response,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// OCOOutcome is the combined outcome of both OCO legs. It is embedded in the
// result's RawResponse for success and partial failure alike, so a caller
// can always see both legs and reconcile manually.
type OCOOutcome struct {
	LinkID     string        `json:"link_id"`
	TakeProfit OCOLegOutcome `json:"take_profit"`
	StopLoss   OCOLegOutcome `json:"stop_loss"`
}
