package courier

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/segmentio/kafka-go"

	courierv1 "github.com/gide100/matching-engine/internal/domain/courier/v1"
	orderv1 "github.com/gide100/matching-engine/internal/domain/order/v1"
	"github.com/gide100/matching-engine/pkg/config"
	errs "github.com/gide100/matching-engine/pkg/errors"
	"github.com/gide100/matching-engine/pkg/logger"
)

// Kafka is the courier between the matching core and the outside world:
// responses, trade reports and market data go out on their own topics, and
// inbound orders are forwarded to the attached handler. Writers run async so
// sends never block the matching loop.
type Kafka struct {
	responses  *kafka.Writer
	trades     *kafka.Writer
	marketData *kafka.Writer
	logger     *logger.Logger

	mu      sync.RWMutex
	handler courierv1.OrderHandler
	dropped atomic.Int64
}

// NewKafka creates the courier with one async writer per outbound topic.
func NewKafka(cfg config.CourierConfig, log *logger.Logger) *Kafka {
	return &Kafka{
		responses:  newWriter(cfg.Brokers, cfg.ResponseTopic),
		trades:     newWriter(cfg.Brokers, cfg.TradeTopic),
		marketData: newWriter(cfg.Brokers, cfg.MarketDataTopic),
		logger:     log,
	}
}

func newWriter(brokers []string, topic string) *kafka.Writer {
	return kafka.NewWriter(kafka.WriterConfig{
		Brokers: brokers,
		Topic:   topic,
		Async:   true,
	})
}

// Attach connects the engine that will consume received orders.
func (k *Kafka) Attach(handler courierv1.OrderHandler) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.handler = handler
}

// Receive forwards an inbound order to the attached handler. Orders arriving
// with no handler attached are dropped and counted.
func (k *Kafka) Receive(order *orderv1.Order) {
	k.mu.RLock()
	handler := k.handler
	k.mu.RUnlock()

	if handler == nil {
		k.dropped.Add(1)
		k.logger.Warn("order dropped, no engine attached",
			logger.Field{Key: "orderID", Value: order.ID},
		)
		return
	}
	handler.Apply(order)
}

// Dropped returns the number of orders received with no engine attached.
func (k *Kafka) Dropped() int64 {
	return k.dropped.Load()
}

// SendResponse emits the engine's reply to an instruction.
func (k *Kafka) SendResponse(response *courierv1.Response) {
	k.send(k.responses, response, "response")
}

// SendTrade emits one leg of a matched trade.
func (k *Kafka) SendTrade(trade *courierv1.TradeReport) {
	k.send(k.trades, trade, "trade")
}

// SendMarketData emits a top-of-book summary.
func (k *Kafka) SendMarketData(md *courierv1.MarketData) {
	k.send(k.marketData, md, "marketData")
}

// send is fire-and-forget: failures are logged, never surfaced to the core.
func (k *Kafka) send(writer *kafka.Writer, message any, kind string) {
	buf, err := json.Marshal(message)
	if err != nil {
		k.logger.Error(errs.NewTracer(errs.MarshalError).Wrap(err), logger.Field{Key: "kind", Value: kind})
		return
	}
	if err := writer.WriteMessages(context.Background(), kafka.Message{Value: buf}); err != nil {
		k.logger.Error(errs.NewTracer(errs.KafkaWriteError).Wrap(err), logger.Field{Key: "kind", Value: kind})
	}
}

// Close closes all outbound writers.
func (k *Kafka) Close() error {
	var firstErr error
	for _, writer := range []*kafka.Writer{k.responses, k.trades, k.marketData} {
		if err := writer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
