package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"futures_go/internal/domain"
	"futures_go/internal/infra"
)

// Transport is the exchange collaborator. The real implementation lives in
// infra/binance; tests and demo mode substitute their own.
type Transport interface {
	SubmitOrder(ctx context.Context, params domain.OrderParams) (json.RawMessage, error)
	QueryAccount(ctx context.Context) (json.RawMessage, error)
	QueryOrder(ctx context.Context, symbol string, orderID int64) (json.RawMessage, error)
	CancelOrder(ctx context.Context, symbol string, orderID int64) (json.RawMessage, error)
}

// Sink receives every normalized result for durable recording.
type Sink interface {
	Record(operation string, result *domain.OrderResult) error
}

// OrderService is the single authenticated gateway to the exchange.
// Each method is one-shot: validate, dispatch, normalize. No retries, no
// state kept between calls; safe for concurrent use.
type OrderService struct {
	transport Transport
	journal   Sink // optional
	metrics   *infra.Metrics
	logger    *slog.Logger
}

// NewOrderService creates an order service over the given transport.
// journal may be nil to skip durable recording.
func NewOrderService(transport Transport, journal Sink, metrics *infra.Metrics) *OrderService {
	if metrics == nil {
		metrics = &infra.Metrics{}
	}
	return &OrderService{
		transport: transport,
		journal:   journal,
		metrics:   metrics,
		logger:    slog.Default().With("module", "order_service"),
	}
}

// Metrics exposes the service counters for the front ends.
func (s *OrderService) Metrics() *infra.Metrics {
	return s.metrics
}

// PlaceMarketOrder submits a MARKET order.
func (s *OrderService) PlaceMarketOrder(ctx context.Context, symbol, side string, quantity decimal.Decimal) *domain.OrderResult {
	const op = "place_market_order"

	req := &domain.OrderRequest{OrderType: domain.OrderTypeMarket, Symbol: symbol, Side: side, Quantity: quantity}
	if err := s.validateCommon(req); err != nil {
		return s.reject(op, req, err)
	}

	params := domain.OrderParams{
		"symbol":           req.Symbol,
		"side":             req.Side,
		"type":             domain.OrderTypeMarket,
		"quantity":         req.Quantity.String(),
		"newClientOrderId": newClientOrderID(),
	}
	return s.dispatch(ctx, op, req, params)
}

// PlaceLimitOrder submits a LIMIT order, good till canceled.
func (s *OrderService) PlaceLimitOrder(ctx context.Context, symbol, side string, quantity, price decimal.Decimal) *domain.OrderResult {
	const op = "place_limit_order"

	req := &domain.OrderRequest{OrderType: domain.OrderTypeLimit, Symbol: symbol, Side: side, Quantity: quantity, Price: price}
	if err := s.validateCommon(req); err != nil {
		return s.reject(op, req, err)
	}
	if err := domain.ValidatePositive(price, "price"); err != nil {
		return s.reject(op, req, err)
	}

	params := domain.OrderParams{
		"symbol":           req.Symbol,
		"side":             req.Side,
		"type":             domain.OrderTypeLimit,
		"timeInForce":      domain.TimeInForceGTC,
		"quantity":         req.Quantity.String(),
		"price":            price.String(),
		"newClientOrderId": newClientOrderID(),
	}
	return s.dispatch(ctx, op, req, params)
}

// PlaceStopMarketOrder submits a STOP_MARKET order triggered at stopPrice.
func (s *OrderService) PlaceStopMarketOrder(ctx context.Context, symbol, side string, quantity, stopPrice decimal.Decimal) *domain.OrderResult {
	const op = "place_stop_market_order"

	req := &domain.OrderRequest{OrderType: domain.OrderTypeStopMarket, Symbol: symbol, Side: side, Quantity: quantity, StopPrice: stopPrice}
	if err := s.validateCommon(req); err != nil {
		return s.reject(op, req, err)
	}
	if err := domain.ValidatePositive(stopPrice, "stop_price"); err != nil {
		return s.reject(op, req, err)
	}

	params := domain.OrderParams{
		"symbol":           req.Symbol,
		"side":             req.Side,
		"type":             domain.OrderTypeStopMarket,
		"quantity":         req.Quantity.String(),
		"stopPrice":        stopPrice.String(),
		"newClientOrderId": newClientOrderID(),
	}
	return s.dispatch(ctx, op, req, params)
}

// PlaceOCOOrder submits a linked take-profit/stop-loss pair. The exchange
// has no native OCO on USDT-M futures, so the two legs are dispatched as
// separate orders sharing a linkage id embedded in both client order ids.
//
// On partial failure the accepted leg is NOT cancelled automatically: a
// second mutating call could itself fail and compound the inconsistency.
// The result carries both leg outcomes so the caller can reconcile.
func (s *OrderService) PlaceOCOOrder(ctx context.Context, symbol, side string, quantity, limitPrice, stopPrice, stopLimitPrice decimal.Decimal) *domain.OrderResult {
	const op = "place_oco_order"

	req := &domain.OrderRequest{
		OrderType:      domain.OrderTypeOCO,
		Symbol:         symbol,
		Side:           side,
		Quantity:       quantity,
		LimitPrice:     limitPrice,
		StopPrice:      stopPrice,
		StopLimitPrice: stopLimitPrice,
	}
	if err := s.validateCommon(req); err != nil {
		return s.reject(op, req, err)
	}
	for _, check := range []struct {
		value decimal.Decimal
		field string
	}{
		{limitPrice, "limit_price"},
		{stopPrice, "stop_price"},
		{stopLimitPrice, "stop_limit_price"},
	} {
		if err := domain.ValidatePositive(check.value, check.field); err != nil {
			return s.reject(op, req, err)
		}
	}
	if err := domain.ValidateOCOPrices(req.Side, limitPrice, stopPrice, stopLimitPrice); err != nil {
		return s.reject(op, req, err)
	}

	linkID := uuid.NewString()
	outcome := &domain.OCOOutcome{LinkID: linkID}

	// Leg 1: take-profit limit.
	tpParams := domain.OrderParams{
		"symbol":           req.Symbol,
		"side":             req.Side,
		"type":             domain.OrderTypeLimit,
		"timeInForce":      domain.TimeInForceGTC,
		"quantity":         req.Quantity.String(),
		"price":            limitPrice.String(),
		"newClientOrderId": "oco-" + linkID + "-tp",
	}
	s.logRequest(op, tpParams)

	tpRaw, err := s.transport.SubmitOrder(ctx, tpParams)
	if err != nil {
		outcome.TakeProfit = legFailure(err)
		return s.failure(op, req, fmt.Errorf("take-profit leg rejected: %w", err), mustMarshal(outcome))
	}
	tpAck, err := decodeAck(tpRaw)
	if err != nil {
		outcome.TakeProfit = legFailure(err)
		return s.failure(op, req, err, mustMarshal(outcome))
	}
	outcome.TakeProfit = domain.OCOLegOutcome{Accepted: true, OrderID: tpAck.OrderID, Response: tpRaw}

	// Leg 2: stop-loss stop-limit.
	slParams := domain.OrderParams{
		"symbol":           req.Symbol,
		"side":             req.Side,
		"type":             domain.OrderTypeStopLimit,
		"timeInForce":      domain.TimeInForceGTC,
		"quantity":         req.Quantity.String(),
		"price":            stopLimitPrice.String(),
		"stopPrice":        stopPrice.String(),
		"newClientOrderId": "oco-" + linkID + "-sl",
	}
	s.logRequest(op, slParams)

	slRaw, err := s.transport.SubmitOrder(ctx, slParams)
	if err != nil {
		outcome.StopLoss = legFailure(err)
		partial := fmt.Errorf("stop-loss leg rejected, take-profit leg %d remains open: %w", tpAck.OrderID, err)
		return s.failure(op, req, partial, mustMarshal(outcome))
	}
	slAck, err := decodeAck(slRaw)
	if err != nil {
		outcome.StopLoss = legFailure(err)
		partial := fmt.Errorf("stop-loss leg unreadable, take-profit leg %d remains open: %w", tpAck.OrderID, err)
		return s.failure(op, req, partial, mustMarshal(outcome))
	}
	outcome.StopLoss = domain.OCOLegOutcome{Accepted: true, OrderID: slAck.OrderID, Response: slRaw}

	result := baseResult(req)
	result.Status = domain.StatusSuccess
	result.OrderID = tpAck.OrderID
	result.ClientOrderID = linkID
	result.Price = limitPrice.String()
	result.StopPrice = stopPrice.String()
	result.RawResponse = mustMarshal(outcome)

	s.recordSuccess(op, result)
	return result
}

// GetAccountInfo fetches balances and positions.
func (s *OrderService) GetAccountInfo(ctx context.Context) *domain.OrderResult {
	const op = "get_account_info"

	s.logger.Info("fetching account information")
	s.metrics.RecordQuery()

	raw, err := s.transport.QueryAccount(ctx)
	if err != nil {
		return s.failure(op, nil, err, rawFromError(err))
	}

	var snapshot domain.AccountSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return s.failure(op, nil, domain.NewTransportError(op, fmt.Errorf("malformed account payload: %w", err)), nil)
	}

	result := &domain.OrderResult{
		Status:      domain.StatusSuccess,
		Timestamp:   domain.Now(),
		RawResponse: raw,
	}
	s.record(op, result)
	s.logger.Info("account information fetched",
		slog.String("wallet_balance", snapshot.TotalWalletBalance))
	return result
}

// GetOrderStatus looks up a single order. An unknown order id surfaces as a
// distinguished not-found error message.
func (s *OrderService) GetOrderStatus(ctx context.Context, symbol string, orderID int64) *domain.OrderResult {
	const op = "get_order_status"

	req := &domain.OrderRequest{Symbol: symbol}
	normalized, err := domain.ValidateSymbol(symbol)
	if err != nil {
		return s.reject(op, req, err)
	}
	req.Symbol = normalized
	if err := domain.ValidateOrderID(orderID); err != nil {
		return s.reject(op, req, err)
	}

	s.logger.Info("fetching order status",
		slog.String("symbol", req.Symbol), slog.Int64("order_id", orderID))
	s.metrics.RecordQuery()

	raw, err := s.transport.QueryOrder(ctx, req.Symbol, orderID)
	if err != nil {
		if domain.IsOrderNotFound(err) {
			err = fmt.Errorf("order %d not found on %s: %w", orderID, req.Symbol, err)
		}
		return s.failure(op, req, err, rawFromError(err))
	}

	var info domain.OrderStatusInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return s.failure(op, req, domain.NewTransportError(op, fmt.Errorf("malformed order payload: %w", err)), nil)
	}

	result := baseResult(req)
	result.Status = domain.StatusSuccess
	result.OrderType = info.Type
	result.Side = info.Side
	result.OrderID = info.OrderID
	result.ClientOrderID = info.ClientOrderID
	result.Price = extractPrice(info.Type, &info.OrderAck)
	result.RawResponse = raw
	if qty, qerr := decimal.NewFromString(info.OrigQty); qerr == nil {
		result.Quantity = qty
	}

	s.record(op, result)
	return result
}

// CancelOrder cancels an open order. Thin passthrough so a caller can
// reconcile an accepted OCO leg after a partial failure.
func (s *OrderService) CancelOrder(ctx context.Context, symbol string, orderID int64) *domain.OrderResult {
	const op = "cancel_order"

	req := &domain.OrderRequest{Symbol: symbol}
	normalized, err := domain.ValidateSymbol(symbol)
	if err != nil {
		return s.reject(op, req, err)
	}
	req.Symbol = normalized
	if err := domain.ValidateOrderID(orderID); err != nil {
		return s.reject(op, req, err)
	}

	s.logger.Info("cancelling order",
		slog.String("symbol", req.Symbol), slog.Int64("order_id", orderID))

	raw, err := s.transport.CancelOrder(ctx, req.Symbol, orderID)
	if err != nil {
		return s.failure(op, req, err, rawFromError(err))
	}

	ack, err := decodeAck(raw)
	if err != nil {
		return s.failure(op, req, err, nil)
	}

	result := baseResult(req)
	result.Status = domain.StatusSuccess
	result.OrderType = ack.Type
	result.Side = ack.Side
	result.OrderID = ack.OrderID
	result.ClientOrderID = ack.ClientOrderID
	result.RawResponse = raw

	s.record(op, result)
	return result
}

// validateCommon runs the checks shared by every placement method and
// normalizes symbol and side in place.
func (s *OrderService) validateCommon(req *domain.OrderRequest) error {
	symbol, err := domain.ValidateSymbol(req.Symbol)
	if err != nil {
		return err
	}
	req.Symbol = symbol

	side, err := domain.ValidateSide(req.Side)
	if err != nil {
		return err
	}
	req.Side = side

	return domain.ValidatePositive(req.Quantity, "quantity")
}

// dispatch sends one placement request and normalizes the outcome. All four
// single-order placement methods funnel through here.
func (s *OrderService) dispatch(ctx context.Context, op string, req *domain.OrderRequest, params domain.OrderParams) *domain.OrderResult {
	s.logRequest(op, params)

	raw, err := s.transport.SubmitOrder(ctx, params)
	if err != nil {
		return s.failure(op, req, err, rawFromError(err))
	}

	ack, err := decodeAck(raw)
	if err != nil {
		return s.failure(op, req, err, nil)
	}

	result := baseResult(req)
	result.Status = domain.StatusSuccess
	result.OrderID = ack.OrderID
	result.ClientOrderID = ack.ClientOrderID
	result.Price = extractPrice(req.OrderType, ack)
	result.RawResponse = raw
	if !req.StopPrice.IsZero() {
		result.StopPrice = req.StopPrice.String()
	}

	s.recordSuccess(op, result)
	return result
}

// reject normalizes a validation failure. Nothing was sent to the network.
func (s *OrderService) reject(op string, req *domain.OrderRequest, err error) *domain.OrderResult {
	s.metrics.RecordOrderRejected()
	s.logger.Warn("validation failed",
		slog.String("op", op), slog.String("error", err.Error()))

	result := baseResult(req)
	result.Status = domain.StatusError
	result.ErrorMessage = err.Error()
	s.record(op, result)
	return result
}

// failure normalizes a dispatch failure into the uniform error envelope.
// raw, when present, carries the exchange's response verbatim.
func (s *OrderService) failure(op string, req *domain.OrderRequest, err error, raw json.RawMessage) *domain.OrderResult {
	var rej *domain.ExchangeRejection
	switch {
	case errors.As(err, &rej):
		s.metrics.RecordExchangeRejection()
	default:
		s.metrics.RecordTransportError()
	}

	s.logger.Error("operation failed",
		slog.String("op", op), slog.String("error", err.Error()))

	result := baseResult(req)
	result.Status = domain.StatusError
	result.ErrorMessage = err.Error()
	result.RawResponse = raw
	s.record(op, result)
	return result
}

func (s *OrderService) recordSuccess(op string, result *domain.OrderResult) {
	s.metrics.RecordOrderPlaced()
	s.logger.Info("order placed",
		slog.String("op", op),
		slog.String("symbol", result.Symbol),
		slog.Int64("order_id", result.OrderID),
		slog.String("client_order_id", result.ClientOrderID),
	)
	s.record(op, result)
}

// record appends the result to the journal. Journal failures are logged,
// never propagated: the caller already has a well-formed result.
func (s *OrderService) record(op string, result *domain.OrderResult) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Record(op, result); err != nil {
		s.logger.Warn("journal write failed",
			slog.String("op", op), slog.String("error", err.Error()))
	}
}

func (s *OrderService) logRequest(op string, params domain.OrderParams) {
	attrs := []any{slog.String("op", op)}
	for k, v := range params {
		attrs = append(attrs, slog.String(k, v))
	}
	s.logger.Info("placing order", attrs...)
}

func baseResult(req *domain.OrderRequest) *domain.OrderResult {
	result := &domain.OrderResult{Timestamp: domain.Now()}
	if req != nil {
		result.OrderType = req.OrderType
		result.Symbol = req.Symbol
		result.Side = req.Side
		result.Quantity = req.Quantity
	}
	return result
}

func decodeAck(raw json.RawMessage) (*domain.OrderAck, error) {
	var ack domain.OrderAck
	if err := json.Unmarshal(raw, &ack); err != nil {
		return nil, domain.NewTransportError("decode_ack", fmt.Errorf("malformed order ack: %w", err))
	}
	return &ack, nil
}

// extractPrice picks the exchange-canonical price string from an ack.
// Market orders fill at average price; resting orders echo their own price.
// Zero or empty fields are skipped so a stop ack falls back to its trigger.
func extractPrice(orderType string, ack *domain.OrderAck) string {
	candidates := []string{ack.Price, ack.AvgPrice, ack.StopPrice}
	if orderType == domain.OrderTypeMarket {
		candidates = []string{ack.AvgPrice, ack.Price}
	}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if d, err := decimal.NewFromString(c); err == nil && !d.IsZero() {
			return c
		}
	}
	return ""
}

func rawFromError(err error) json.RawMessage {
	var rej *domain.ExchangeRejection
	if errors.As(err, &rej) {
		return rej.Raw
	}
	return nil
}

func legFailure(err error) domain.OCOLegOutcome {
	return domain.OCOLegOutcome{
		Accepted: false,
		Error:    err.Error(),
		Response: rawFromError(err),
	}
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage(strconv.Quote(fmt.Sprintf("marshal failed: %v", err)))
	}
	return data
}

func newClientOrderID() string {
	return "bot-" + uuid.NewString()
}
