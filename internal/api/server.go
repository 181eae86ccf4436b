// Package api exposes the order service over HTTP for the graphical front
// end. Every response body is the same uniform result envelope the CLI
// prints, so both front ends consume one contract.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/shopspring/decimal"

	"futures_go/internal/domain"
	"futures_go/internal/infra"
	"futures_go/internal/service"
)

// Server handles REST requests for the order gateway.
type Server struct {
	svc     *service.OrderService
	metrics *infra.Metrics
	router  *mux.Router
	logger  *slog.Logger
}

// NewServer creates a new API server over the given order service.
func NewServer(svc *service.OrderService, metrics *infra.Metrics) *Server {
	s := &Server{
		svc:     svc,
		metrics: metrics,
		router:  mux.NewRouter(),
		logger:  slog.Default().With("module", "api"),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/orders", s.handlePlaceOrder).Methods("POST")
	api.HandleFunc("/orders/{symbol}/{orderId}", s.handleOrderStatus).Methods("GET")
	api.HandleFunc("/orders/{symbol}/{orderId}", s.handleCancelOrder).Methods("DELETE")
	api.HandleFunc("/account", s.handleAccount).Methods("GET")
	api.HandleFunc("/metrics", s.handleMetrics).Methods("GET")

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Handler returns the router wrapped with CORS for the GUI origin.
func (s *Server) Handler(allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(s.router)
}

// Start runs the HTTP server until it fails.
func (s *Server) Start(addr string, allowedOrigins []string) error {
	s.logger.Info("API server starting", slog.String("addr", addr))
	return http.ListenAndServe(addr, s.Handler(allowedOrigins))
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeResult(w, errorResult("invalid request body: "+err.Error()))
		return
	}

	ctx := r.Context()
	var result *domain.OrderResult

	switch req.Type {
	case domain.OrderTypeMarket:
		qty, res := parseDecimal(req.Quantity, "quantity")
		if res != nil {
			s.writeResult(w, res)
			return
		}
		result = s.svc.PlaceMarketOrder(ctx, req.Symbol, req.Side, qty)

	case domain.OrderTypeLimit:
		qty, res := parseDecimal(req.Quantity, "quantity")
		if res == nil {
			var price decimal.Decimal
			price, res = parseDecimal(req.Price, "price")
			if res == nil {
				result = s.svc.PlaceLimitOrder(ctx, req.Symbol, req.Side, qty, price)
			}
		}
		if res != nil {
			s.writeResult(w, res)
			return
		}

	case domain.OrderTypeStopMarket:
		qty, res := parseDecimal(req.Quantity, "quantity")
		if res == nil {
			var stop decimal.Decimal
			stop, res = parseDecimal(req.StopPrice, "stop_price")
			if res == nil {
				result = s.svc.PlaceStopMarketOrder(ctx, req.Symbol, req.Side, qty, stop)
			}
		}
		if res != nil {
			s.writeResult(w, res)
			return
		}

	case domain.OrderTypeOCO:
		values := make([]decimal.Decimal, 4)
		fields := []struct {
			raw  string
			name string
		}{
			{req.Quantity, "quantity"},
			{req.LimitPrice, "limit_price"},
			{req.StopPrice, "stop_price"},
			{req.StopLimitPrice, "stop_limit_price"},
		}
		for i, f := range fields {
			v, res := parseDecimal(f.raw, f.name)
			if res != nil {
				s.writeResult(w, res)
				return
			}
			values[i] = v
		}
		result = s.svc.PlaceOCOOrder(ctx, req.Symbol, req.Side, values[0], values[1], values[2], values[3])

	default:
		s.writeResult(w, errorResult("unsupported order type: "+req.Type))
		return
	}

	s.writeResult(w, result)
}

func (s *Server) handleOrderStatus(w http.ResponseWriter, r *http.Request) {
	symbol, orderID, res := pathOrder(r)
	if res != nil {
		s.writeResult(w, res)
		return
	}
	s.writeResult(w, s.svc.GetOrderStatus(r.Context(), symbol, orderID))
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	symbol, orderID, res := pathOrder(r)
	if res != nil {
		s.writeResult(w, res)
		return
	}
	s.writeResult(w, s.svc.CancelOrder(r.Context(), symbol, orderID))
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	s.writeResult(w, s.svc.GetAccountInfo(r.Context()))
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.metrics.Snapshot())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeResult maps the uniform envelope onto HTTP: success is 200, any
// error is 400. Callers always get a well-formed result body.
func (s *Server) writeResult(w http.ResponseWriter, result *domain.OrderResult) {
	status := http.StatusOK
	if !result.IsSuccess() {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func pathOrder(r *http.Request) (string, int64, *domain.OrderResult) {
	vars := mux.Vars(r)
	orderID, err := strconv.ParseInt(vars["orderId"], 10, 64)
	if err != nil {
		return "", 0, errorResult("invalid order_id: must be an integer")
	}
	return vars["symbol"], orderID, nil
}

func parseDecimal(raw, field string) (decimal.Decimal, *domain.OrderResult) {
	if raw == "" {
		return decimal.Zero, errorResult("invalid " + field + ": required")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errorResult("invalid " + field + ": not a number")
	}
	return d, nil
}

func errorResult(msg string) *domain.OrderResult {
	return &domain.OrderResult{
		Status:       domain.StatusError,
		ErrorMessage: msg,
		Timestamp:    domain.Now(),
	}
}
