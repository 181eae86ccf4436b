// Package paper provides a demo transport that accepts every request without
// touching the network. It lets both front ends run without API keys.
package paper

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"

	"futures_go/internal/domain"
)

// Transport simulates the exchange in memory. Submitted orders are kept so
// status lookups behave like the real thing, including the not-found
// rejection for unknown ids.
type Transport struct {
	mu     sync.Mutex
	nextID int64
	orders map[int64]domain.OrderAck
	logger *slog.Logger
}

// NewTransport creates a demo transport with a fixed starting order id.
func NewTransport() *Transport {
	return &Transport{
		nextID: 100000,
		orders: make(map[int64]domain.OrderAck),
		logger: slog.Default().With("module", "paper_transport"),
	}
}

// SubmitOrder accepts any order and fabricates an acknowledgement. Market
// orders fill immediately at a fixed demo price; everything else rests NEW.
func (t *Transport) SubmitOrder(ctx context.Context, params domain.OrderParams) (json.RawMessage, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	ack := domain.OrderAck{
		OrderID:       t.nextID,
		ClientOrderID: params["newClientOrderId"],
		Symbol:        params["symbol"],
		Side:          params["side"],
		Type:          params["type"],
		Status:        "NEW",
		Price:         params["price"],
		OrigQty:       params["quantity"],
		StopPrice:     params["stopPrice"],
		TimeInForce:   params["timeInForce"],
	}
	if ack.ClientOrderID == "" {
		ack.ClientOrderID = "demo" + strconv.FormatInt(t.nextID, 10)
	}
	if ack.Type == domain.OrderTypeMarket {
		ack.Status = "FILLED"
		ack.AvgPrice = "50000.00"
	}
	t.orders[ack.OrderID] = ack

	t.logger.Info("DEMO: order accepted",
		slog.Int64("order_id", ack.OrderID),
		slog.String("symbol", ack.Symbol),
		slog.String("type", ack.Type),
	)

	return json.Marshal(ack)
}

// QueryAccount returns a fixed demo balance sheet.
func (t *Transport) QueryAccount(ctx context.Context) (json.RawMessage, error) {
	snapshot := domain.AccountSnapshot{
		TotalWalletBalance:    "10000.00",
		TotalUnrealizedProfit: "0.00",
		AvailableBalance:      "10000.00",
		Assets: []domain.AccountAsset{
			{Asset: "USDT", WalletBalance: "10000.00", UnrealizedProfit: "0.00", AvailableBalance: "10000.00"},
		},
	}
	return json.Marshal(snapshot)
}

// QueryOrder returns the remembered order or the exchange's own
// unknown-order rejection.
func (t *Transport) QueryOrder(ctx context.Context, symbol string, orderID int64) (json.RawMessage, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ack, ok := t.orders[orderID]
	if !ok || ack.Symbol != symbol {
		raw := json.RawMessage(`{"code":-2013,"msg":"Order does not exist."}`)
		return nil, &domain.ExchangeRejection{Code: -2013, Msg: "Order does not exist.", Raw: raw}
	}

	status := domain.OrderStatusInfo{OrderAck: ack, ExecutedQty: "0"}
	if ack.Status == "FILLED" {
		status.ExecutedQty = ack.OrigQty
	}
	return json.Marshal(status)
}

// CancelOrder cancels a remembered order, or rejects unknown ids.
func (t *Transport) CancelOrder(ctx context.Context, symbol string, orderID int64) (json.RawMessage, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ack, ok := t.orders[orderID]
	if !ok || ack.Symbol != symbol {
		raw := json.RawMessage(`{"code":-2013,"msg":"Order does not exist."}`)
		return nil, &domain.ExchangeRejection{Code: -2013, Msg: "Order does not exist.", Raw: raw}
	}

	ack.Status = "CANCELED"
	t.orders[orderID] = ack
	return json.Marshal(ack)
}
