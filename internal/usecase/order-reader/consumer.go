package orderreader

import (
	"context"

	"github.com/segmentio/kafka-go"

	orderv1 "github.com/gide100/matching-engine/internal/domain/order/v1"
	"github.com/gide100/matching-engine/pkg/config"
	errs "github.com/gide100/matching-engine/pkg/errors"
	"github.com/gide100/matching-engine/pkg/logger"
)

// Reader consumes wire-format order instructions from the order topic.
type Reader struct {
	kafkaReader *kafka.Reader
	logger      *logger.Logger
}

// NewReader creates a new Kafka reader for the order topic. It returns an
// implementation of the OrderReader interface.
func NewReader(cfg config.OrderReaderConfig, log *logger.Logger) *Reader {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})

	return &Reader{
		kafkaReader: kafkaReader,
		logger:      log,
	}
}

// ReadOrder reads one message and decodes it as a wire-format instruction.
func (r *Reader) ReadOrder(ctx context.Context) (*orderv1.Order, error) {
	msg, err := r.kafkaReader.ReadMessage(ctx)
	if err != nil {
		r.logger.Error(err, logger.Field{Key: "operation", Value: "ReadMessage"})
		return nil, errs.NewTracer(errs.KafkaReadError).Wrap(err)
	}

	order, err := orderv1.Decode(string(msg.Value))
	if err != nil {
		r.logger.Error(err,
			logger.Field{Key: "operation", Value: "DecodeOrder"},
			logger.Field{Key: "offset", Value: msg.Offset},
		)
		return nil, err
	}

	r.logger.Debug("order received",
		logger.Field{Key: "orderID", Value: order.ID},
		logger.Field{Key: "type", Value: order.Type},
		logger.Field{Key: "symbol", Value: order.Symbol},
		logger.Field{Key: "offset", Value: msg.Offset},
	)

	return order, nil
}

// Close properly closes the Kafka reader.
func (r *Reader) Close() error {
	if err := r.kafkaReader.Close(); err != nil {
		r.logger.Error(err, logger.Field{Key: "operation", Value: "Close"})
		return err
	}
	return nil
}
