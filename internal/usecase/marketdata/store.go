package marketdata

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	courierv1 "github.com/gide100/matching-engine/internal/domain/courier/v1"
	"github.com/gide100/matching-engine/pkg/config"
	errs "github.com/gide100/matching-engine/pkg/errors"
	"github.com/gide100/matching-engine/pkg/logger"
)

const keyPrefix = "marketdata:"

// Store keeps the latest per-symbol market data in Redis for query-side
// consumers. Book state itself is never persisted here.
type Store struct {
	client *redis.Client
	logger *logger.Logger
}

// NewStore creates a Store backed by the configured Redis instance.
func NewStore(cfg config.RedisConfig, log *logger.Logger) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &Store{
		client: client,
		logger: log,
	}
}

// Ping verifies the Redis connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Publish overwrites the stored market data for the symbol.
func (s *Store) Publish(ctx context.Context, md *courierv1.MarketData) error {
	buf, err := json.Marshal(md)
	if err != nil {
		s.logger.Error(err, logger.Field{Key: "symbol", Value: md.Symbol})
		return errs.NewTracer(errs.MarshalError).Wrap(err)
	}

	if err := s.client.Set(ctx, keyPrefix+md.Symbol, buf, 0).Err(); err != nil {
		s.logger.Error(err, logger.Field{Key: "symbol", Value: md.Symbol})
		return errs.NewTracer(errs.RedisSetError).Wrap(err)
	}
	return nil
}

// Latest returns the stored market data for the symbol, nil when absent.
func (s *Store) Latest(ctx context.Context, symbol string) (*courierv1.MarketData, error) {
	data, err := s.client.Get(ctx, keyPrefix+symbol).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		s.logger.Error(err, logger.Field{Key: "symbol", Value: symbol})
		return nil, errs.NewTracer(errs.RedisGetError).Wrap(err)
	}

	var md courierv1.MarketData
	if err := json.Unmarshal([]byte(data), &md); err != nil {
		return nil, errs.NewTracer(errs.UnmarshalError).Wrap(err)
	}
	return &md, nil
}

// Close releases the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}
