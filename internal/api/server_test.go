package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"futures_go/internal/domain"
	"futures_go/internal/infra"
	"futures_go/internal/infra/paper"
	"futures_go/internal/service"
)

func testServer() *Server {
	metrics := &infra.Metrics{}
	svc := service.NewOrderService(paper.NewTransport(), nil, metrics)
	return NewServer(svc, metrics)
}

func doJSON(t *testing.T, srv *Server, method, path, body string) (*httptest.ResponseRecorder, *domain.OrderResult) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	var result domain.OrderResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("response is not a result envelope: %v\n%s", err, rec.Body.String())
	}
	return rec, &result
}

func TestPlaceOrder_Market(t *testing.T) {
	srv := testServer()

	rec, result := doJSON(t, srv, http.MethodPost, "/api/v1/orders",
		`{"symbol":"BTCUSDT","side":"BUY","type":"MARKET","quantity":"0.001"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if result.Status != domain.StatusSuccess {
		t.Fatalf("expected SUCCESS, got %s (%s)", result.Status, result.ErrorMessage)
	}
	if result.OrderID == 0 || result.OrderType != "MARKET" {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestPlaceOrder_ValidationError(t *testing.T) {
	srv := testServer()

	rec, result := doJSON(t, srv, http.MethodPost, "/api/v1/orders",
		`{"symbol":"BTCUSDT","side":"BUY","type":"MARKET","quantity":"-1"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if result.Status != domain.StatusError || result.ErrorMessage == "" {
		t.Errorf("expected error envelope, got %+v", result)
	}
}

func TestPlaceOrder_MissingRequiredField(t *testing.T) {
	srv := testServer()

	rec, result := doJSON(t, srv, http.MethodPost, "/api/v1/orders",
		`{"symbol":"BTCUSDT","side":"SELL","type":"LIMIT","quantity":"0.001"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(result.ErrorMessage, "price") {
		t.Errorf("error should name the missing field: %s", result.ErrorMessage)
	}
}

func TestPlaceOrder_OCO(t *testing.T) {
	srv := testServer()

	rec, result := doJSON(t, srv, http.MethodPost, "/api/v1/orders",
		`{"symbol":"BTCUSDT","side":"SELL","type":"OCO","quantity":"0.001","limit_price":"50000","stop_price":"45000","stop_limit_price":"44900"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var outcome domain.OCOOutcome
	if err := json.Unmarshal(result.RawResponse, &outcome); err != nil {
		t.Fatalf("raw response is not an OCO outcome: %v", err)
	}
	if !outcome.TakeProfit.Accepted || !outcome.StopLoss.Accepted {
		t.Errorf("both legs should be accepted: %+v", outcome)
	}
}

func TestPlaceOrder_UnsupportedType(t *testing.T) {
	srv := testServer()

	rec, _ := doJSON(t, srv, http.MethodPost, "/api/v1/orders",
		`{"symbol":"BTCUSDT","side":"BUY","type":"ICEBERG","quantity":"1"}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestOrderStatusRoundTrip(t *testing.T) {
	srv := testServer()

	_, placed := doJSON(t, srv, http.MethodPost, "/api/v1/orders",
		`{"symbol":"BTCUSDT","side":"SELL","type":"LIMIT","quantity":"0.001","price":"50000"}`)
	if placed.Status != domain.StatusSuccess {
		t.Fatalf("setup order failed: %s", placed.ErrorMessage)
	}

	rec, result := doJSON(t, srv, http.MethodGet,
		"/api/v1/orders/BTCUSDT/"+jsonInt(placed.OrderID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if result.OrderID != placed.OrderID {
		t.Errorf("expected order %d, got %d", placed.OrderID, result.OrderID)
	}

	// Unknown id is a 400 with the not-found message.
	rec, result = doJSON(t, srv, http.MethodGet, "/api/v1/orders/BTCUSDT/999999999", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(result.ErrorMessage, "not found") {
		t.Errorf("expected not-found message, got %s", result.ErrorMessage)
	}
}

func TestAccountEndpoint(t *testing.T) {
	srv := testServer()

	rec, result := doJSON(t, srv, http.MethodGet, "/api/v1/account", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if result.Status != domain.StatusSuccess || len(result.RawResponse) == 0 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := testServer()

	doJSON(t, srv, http.MethodPost, "/api/v1/orders",
		`{"symbol":"BTCUSDT","side":"BUY","type":"MARKET","quantity":"0.001"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/metrics", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	var snap infra.MetricsSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("metrics not decodable: %v", err)
	}
	if snap.OrdersPlaced != 1 {
		t.Errorf("expected 1 placed, got %d", snap.OrdersPlaced)
	}
}

func jsonInt(v int64) string {
	data, _ := json.Marshal(v)
	return string(data)
}
