package app

import (
	"log/slog"

	"futures_go/internal/infra"
	"futures_go/internal/infra/binance"
	"futures_go/internal/infra/journal"
	"futures_go/internal/infra/paper"
	"futures_go/internal/service"
)

// Bootstrap orchestrates the application startup sequence shared by the CLI
// and the HTTP server.
type Bootstrap struct {
	Config  *infra.Config
	Journal *journal.Journal
	Metrics *infra.Metrics
	Service *service.OrderService
}

// NewBootstrap creates a new Bootstrap instance.
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize wires config, logging, journal, transport, and the order
// service. With demo set, the paper transport is used and no credentials
// are required.
func (b *Bootstrap) Initialize(configPath string, demo bool) error {
	// 1. Load Config
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	// 3. Journal (optional durable log sink)
	var sink service.Sink
	if cfg.Journal.Enabled {
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			return err
		}
		b.Journal = j
		sink = j
		slog.Info("journal opened", slog.String("path", cfg.Journal.Path))
	}

	// 4. Transport: real testnet client or in-memory demo
	var transport service.Transport
	if demo {
		transport = paper.NewTransport()
		slog.Info("running in demo mode, no API calls will be made")
	} else {
		client, err := binance.NewClient(cfg)
		if err != nil {
			return err // CredentialError is fatal at startup
		}
		transport = client
		slog.Info("testnet session initialized",
			slog.String("rest_url", cfg.API.Binance.RestURL),
			slog.String("api_key", infra.RedactKey(cfg.API.Binance.APIKey)),
		)
	}

	// 5. Order Service
	b.Metrics = &infra.Metrics{}
	b.Service = service.NewOrderService(transport, sink, b.Metrics)

	return nil
}
