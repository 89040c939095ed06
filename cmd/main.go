package main

import (
	"github.com/labstack/echo/v4"
	"github.com/yakoovad/football-roster/internal/api"
	"github.com/yakoovad/football-roster/internal/backend"
	"github.com/yakoovad/football-roster/internal/config"
	"github.com/yakoovad/football-roster/internal/service"
	"github.com/yakoovad/football-roster/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logger.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("starting application", zap.String("backend", cfg.Backend))

	opener, err := backend.NewOpener(cfg, logger)
	if err != nil {
		logger.Fatal("failed to select store backend", zap.Error(err))
	}

	conn := backend.NewConnector(opener)
	defer conn.Close()

	roster := service.NewRosterService(conn)

	e := echo.New()

	handler := api.NewHandler(logger).
		WithRosterService(roster).
		WithHealthChecker(api.MustNewHealthChecker("v0.1.0", api.StoreCheck(conn.Teams)))

	handler.RegisterRoutes(e)

	logger.Info("server starting", zap.String("addr", cfg.HTTPAddr))
	if err = e.Start(cfg.HTTPAddr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
