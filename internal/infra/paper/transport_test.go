package paper

import (
	"context"
	"encoding/json"
	"testing"

	"futures_go/internal/domain"
)

func TestSubmitAndQueryRoundTrip(t *testing.T) {
	tr := NewTransport()
	ctx := context.Background()

	raw, err := tr.SubmitOrder(ctx, domain.OrderParams{
		"symbol":   "BTCUSDT",
		"side":     "BUY",
		"type":     "LIMIT",
		"quantity": "0.001",
		"price":    "50000",
	})
	if err != nil {
		t.Fatalf("SubmitOrder failed: %v", err)
	}

	var ack domain.OrderAck
	if err := json.Unmarshal(raw, &ack); err != nil {
		t.Fatalf("ack not decodable: %v", err)
	}
	if ack.OrderID == 0 || ack.Status != "NEW" {
		t.Errorf("unexpected ack: %+v", ack)
	}

	statusRaw, err := tr.QueryOrder(ctx, "BTCUSDT", ack.OrderID)
	if err != nil {
		t.Fatalf("QueryOrder failed: %v", err)
	}
	var info domain.OrderStatusInfo
	if err := json.Unmarshal(statusRaw, &info); err != nil {
		t.Fatalf("status not decodable: %v", err)
	}
	if info.OrderID != ack.OrderID {
		t.Errorf("expected order %d, got %d", ack.OrderID, info.OrderID)
	}
}

func TestMarketOrdersFillImmediately(t *testing.T) {
	tr := NewTransport()

	raw, err := tr.SubmitOrder(context.Background(), domain.OrderParams{
		"symbol": "BTCUSDT", "side": "BUY", "type": "MARKET", "quantity": "0.001",
	})
	if err != nil {
		t.Fatalf("SubmitOrder failed: %v", err)
	}

	var ack domain.OrderAck
	json.Unmarshal(raw, &ack)
	if ack.Status != "FILLED" || ack.AvgPrice == "" {
		t.Errorf("market orders should fill in demo mode: %+v", ack)
	}
}

func TestQueryUnknownOrder(t *testing.T) {
	tr := NewTransport()

	_, err := tr.QueryOrder(context.Background(), "BTCUSDT", 42)
	if !domain.IsOrderNotFound(err) {
		t.Fatalf("expected not-found rejection, got %v", err)
	}
}

func TestCancelOrder(t *testing.T) {
	tr := NewTransport()
	ctx := context.Background()

	raw, _ := tr.SubmitOrder(ctx, domain.OrderParams{
		"symbol": "BTCUSDT", "side": "SELL", "type": "LIMIT", "quantity": "0.001", "price": "50000",
	})
	var ack domain.OrderAck
	json.Unmarshal(raw, &ack)

	cancelRaw, err := tr.CancelOrder(ctx, "BTCUSDT", ack.OrderID)
	if err != nil {
		t.Fatalf("CancelOrder failed: %v", err)
	}
	var canceled domain.OrderAck
	json.Unmarshal(cancelRaw, &canceled)
	if canceled.Status != "CANCELED" {
		t.Errorf("expected CANCELED, got %s", canceled.Status)
	}
}
