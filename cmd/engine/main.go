package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	app "github.com/gide100/matching-engine/internal/app/engine"
	"github.com/gide100/matching-engine/internal/usecase/courier"
	matching "github.com/gide100/matching-engine/internal/usecase/engine"
	"github.com/gide100/matching-engine/internal/usecase/marketdata"
	orderreader "github.com/gide100/matching-engine/internal/usecase/order-reader"
	"github.com/gide100/matching-engine/internal/usecase/securities"
	"github.com/gide100/matching-engine/pkg/config"
	"github.com/gide100/matching-engine/pkg/logger"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	var err error
	cfg = &config.Config{}
	err = config.Load(cfg)
	if err != nil {
		panic(err)
	}

	logger, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}

	log = logger
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	db, err := securities.LoadDatabase(cfg.SecurityFile, cfg.TickLadderFile)
	if err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "load_reference_data",
		})
		return
	}

	store := marketdata.NewStore(cfg.RedisConfig, log)
	if err := store.Ping(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "connect_redis",
		})
		return
	}

	// Initialize components
	msgCourier := courier.NewKafka(cfg.CourierConfig, log)
	oReader := orderreader.NewReader(cfg.OrderReaderConfig, log)
	matcher := matching.NewMatchingEngine(cfg.ExchangeID, db, msgCourier, log)
	msgCourier.Attach(matcher)

	options := app.DefaultOptions()
	options.MarketDataInterval = time.Duration(cfg.MarketDataIntervalMs) * time.Millisecond
	engine := app.NewAppWithOptions(matcher, oReader, msgCourier, store, log, options)

	// Start the engine
	if err := engine.Start(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "start_engine",
		})
		return
	}

	log.Info("matching engine started successfully",
		logger.Field{Key: "exchangeID", Value: cfg.ExchangeID},
		logger.Field{Key: "symbols", Value: db.Len()},
	)

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info("received shutdown signal", logger.Field{
		Key:   "signal",
		Value: sig.String(),
	})

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := engine.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "stop_engine",
		})
	}

	if err := msgCourier.Close(); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "close_courier",
		})
	}
	if err := store.Close(); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "close_store",
		})
	}

	log.Info("matching engine shutdown complete")
	log.Sync()
}
