package main

import (
	"flag"
	"log/slog"
	"os"

	"futures_go/internal/api"
	"futures_go/internal/app"
)

func main() {
	var (
		configPath = flag.String("config", "configs/config.yaml", "path to the config file")
		demo       = flag.Bool("demo", false, "demo mode: no API keys, no real requests")
	)
	flag.Parse()

	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(*configPath, *demo); err != nil {
		slog.Error("bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}

	cfg := bootstrap.Config
	server := api.NewServer(bootstrap.Service, bootstrap.Metrics)

	if err := server.Start(cfg.Server.Addr, cfg.Server.AllowedOrigins); err != nil {
		slog.Error("API server failed", slog.Any("error", err))
		os.Exit(1)
	}
}
