package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	courierv1 "github.com/gide100/matching-engine/internal/domain/courier/v1"
	orderreaderv1 "github.com/gide100/matching-engine/internal/domain/order-reader/v1"
	orderv1 "github.com/gide100/matching-engine/internal/domain/order/v1"
	matching "github.com/gide100/matching-engine/internal/usecase/engine"
	"github.com/gide100/matching-engine/internal/usecase/marketdata"
	"github.com/gide100/matching-engine/pkg/logger"
)

// App wires the matching engine to its transports: it pumps instructions from
// the order reader into the courier and publishes market data on a timer.
type App struct {
	matcher     *matching.MatchingEngine
	orderReader orderreaderv1.OrderReader
	courier     courierv1.Courier
	store       *marketdata.Store
	logger      *logger.Logger

	// Shutdown coordination
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	marketDataInterval time.Duration
	readBackoff        time.Duration
}

// NewApp creates a new instance of App with the provided dependencies.
func NewApp(
	matcher *matching.MatchingEngine,
	orderReader orderreaderv1.OrderReader,
	courier courierv1.Courier,
	store *marketdata.Store,
	log *logger.Logger,
) *App {
	return NewAppWithOptions(matcher, orderReader, courier, store, log, DefaultOptions())
}

// NewAppWithOptions creates a new app with custom options.
func NewAppWithOptions(
	matcher *matching.MatchingEngine,
	orderReader orderreaderv1.OrderReader,
	courier courierv1.Courier,
	store *marketdata.Store,
	log *logger.Logger,
	options *Options,
) *App {
	return &App{
		matcher:     matcher,
		orderReader: orderReader,
		courier:     courier,
		store:       store,
		logger:      log,

		marketDataInterval: options.MarketDataInterval,
		readBackoff:        options.ReadBackoff,
	}
}

// Start launches the processing routines.
func (a *App) Start(ctx context.Context) error {
	a.ctx, a.cancel = context.WithCancel(ctx)

	a.wg.Add(2)
	go a.runOrderProcessor()
	go a.runMarketDataPublisher()

	a.logger.Info("engine started")
	return nil
}

// Stop gracefully shuts down the app. It cancels the processing routines,
// waits for them to drain, then closes every book.
func (a *App) Stop(ctx context.Context) error {
	if a.cancel != nil {
		a.cancel()
	}

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		a.matcher.Close()
		a.logger.Info("engine stopped gracefully")
		return nil
	case <-ctx.Done():
		a.logger.Warn("engine stop timeout exceeded")
		return ctx.Err()
	}
}

// runOrderProcessor reads instructions and feeds them through the courier.
func (a *App) runOrderProcessor() {
	defer a.wg.Done()

	a.logger.Info("starting order processor")

	for {
		select {
		case <-a.ctx.Done():
			a.logger.Info("order processor shutting down")
			a.orderReader.Close()
			return
		default:
			order, err := a.orderReader.ReadOrder(a.ctx)
			if err != nil {
				if errors.Is(err, orderv1.ErrParse) {
					// Malformed frames are skipped, not retried.
					continue
				}
				if a.ctx.Err() != nil {
					continue
				}
				a.logger.Error(err, logger.Field{Key: "action", Value: "read_order"})
				time.Sleep(a.readBackoff)
				continue
			}

			a.courier.Receive(order)
		}
	}
}

// runMarketDataPublisher publishes a top-of-book summary for every symbol on
// each tick, both to the courier and to the latest-value store.
func (a *App) runMarketDataPublisher() {
	defer a.wg.Done()

	ticker := time.NewTicker(a.marketDataInterval)
	defer ticker.Stop()

	a.logger.Info("starting market data publisher")

	for {
		select {
		case <-a.ctx.Done():
			a.logger.Info("market data publisher shutting down")
			return
		case <-ticker.C:
			a.publishMarketData()
		}
	}
}

func (a *App) publishMarketData() {
	for _, md := range a.matcher.MarketData(time.Now()) {
		a.courier.SendMarketData(md)
		if err := a.store.Publish(a.ctx, md); err != nil {
			a.logger.Error(err, logger.Field{Key: "symbol", Value: md.Symbol})
		}
	}
}

// Stats exposes the matcher's aggregated statistics.
func (a *App) Stats() matching.EngineStats {
	return a.matcher.Stats()
}
