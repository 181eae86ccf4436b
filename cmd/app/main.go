package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"futures_go/internal/app"
	"futures_go/internal/domain"
)

func main() {
	var (
		configPath = flag.String("config", "configs/config.yaml", "path to the config file")
		demo       = flag.Bool("demo", false, "demo mode: no API keys, no real requests")

		symbol    = flag.String("symbol", "", "trading symbol (e.g. BTCUSDT)")
		side      = flag.String("side", "", "order side: BUY or SELL")
		orderType = flag.String("order-type", "", "order type: MARKET, LIMIT, STOP_MARKET or OCO")
		quantity  = flag.String("quantity", "", "order quantity")

		price          = flag.String("price", "", "price (LIMIT orders)")
		stopPrice      = flag.String("stop-price", "", "stop price (STOP_MARKET and OCO orders)")
		limitPrice     = flag.String("limit-price", "", "limit price (OCO orders)")
		stopLimitPrice = flag.String("stop-limit-price", "", "stop limit price (OCO orders)")

		accountInfo = flag.Bool("account-info", false, "fetch account information")
		orderStatus = flag.Int64("order-status", 0, "fetch status of the given order id (requires -symbol)")
		cancelOrder = flag.Int64("cancel-order", 0, "cancel the given order id (requires -symbol)")
	)
	flag.Parse()

	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(*configPath, *demo); err != nil {
		slog.Error("bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	svc := bootstrap.Service

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch {
	case *accountInfo:
		printResult(svc.GetAccountInfo(ctx))
		return
	case *orderStatus > 0:
		printResult(svc.GetOrderStatus(ctx, *symbol, *orderStatus))
		return
	case *cancelOrder > 0:
		printResult(svc.CancelOrder(ctx, *symbol, *cancelOrder))
		return
	}

	if *symbol == "" || *side == "" || *orderType == "" || *quantity == "" {
		fmt.Fprintln(os.Stderr, "error: symbol, side, order-type, and quantity are required for order placement")
		flag.Usage()
		os.Exit(2)
	}

	qty, err := decimal.NewFromString(*quantity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid quantity %q\n", *quantity)
		os.Exit(2)
	}

	var result *domain.OrderResult
	switch *orderType {
	case domain.OrderTypeMarket:
		result = svc.PlaceMarketOrder(ctx, *symbol, *side, qty)
	case domain.OrderTypeLimit:
		result = svc.PlaceLimitOrder(ctx, *symbol, *side, qty, mustDecimal(*price, "price"))
	case domain.OrderTypeStopMarket:
		result = svc.PlaceStopMarketOrder(ctx, *symbol, *side, qty, mustDecimal(*stopPrice, "stop-price"))
	case domain.OrderTypeOCO:
		result = svc.PlaceOCOOrder(ctx, *symbol, *side, qty,
			mustDecimal(*limitPrice, "limit-price"),
			mustDecimal(*stopPrice, "stop-price"),
			mustDecimal(*stopLimitPrice, "stop-limit-price"))
	default:
		fmt.Fprintf(os.Stderr, "error: unsupported order type: %s\n", *orderType)
		os.Exit(2)
	}

	printResult(result)
}

// mustDecimal parses a required numeric flag or exits with usage.
func mustDecimal(raw, name string) decimal.Decimal {
	if raw == "" {
		fmt.Fprintf(os.Stderr, "error: %s is required for this order type\n", name)
		os.Exit(2)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid %s %q\n", name, raw)
		os.Exit(2)
	}
	return d
}

func printResult(result *domain.OrderResult) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))

	if !result.IsSuccess() {
		os.Exit(1)
	}
}
