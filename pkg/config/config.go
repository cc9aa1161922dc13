package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MustLoad loads the configuration from environment variables and .env file.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load() // Load environment variables from .env file

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from environment variables and .env file.
func Load[T any](cfg T) error {
	_ = godotenv.Load() // .env file is optional

	if err := env.Parse(cfg); err != nil {
		return err
	}

	return nil
}

// Config holds the configuration for the matching engine process.
type Config struct {
	ExchangeID string `env:"EXCHANGE_ID" envDefault:"ME"`

	// Reference data files loaded at startup.
	SecurityFile   string `env:"SECURITY_FILE,required"`
	TickLadderFile string `env:"TICK_LADDER_FILE,required"`

	OrderReaderConfig    `envPrefix:"ORDER_"`
	CourierConfig        `envPrefix:"COURIER_"`
	RedisConfig          `envPrefix:"REDIS_"`
	MarketDataIntervalMs int `env:"MARKET_DATA_INTERVAL_MS" envDefault:"2000"`
}

// OrderReaderConfig holds the configuration for the inbound order stream.
type OrderReaderConfig struct {
	Topic   string   `env:"TOPIC,required"`
	GroupID string   `env:"GROUP_ID" envDefault:"matching_engine"`
	Brokers []string `env:"BROKER,required"`
}

// CourierConfig holds the configuration for the outbound message topics.
type CourierConfig struct {
	Brokers         []string `env:"BROKER,required"`
	ResponseTopic   string   `env:"RESPONSE_TOPIC" envDefault:"responses"`
	TradeTopic      string   `env:"TRADE_TOPIC" envDefault:"trades"`
	MarketDataTopic string   `env:"MARKET_DATA_TOPIC" envDefault:"marketdata"`
}

// RedisConfig holds the configuration for the market data cache.
type RedisConfig struct {
	Address  string `env:"ADDRESS,required"`
	Password string `env:"PASSWORD" envDefault:""`
	Username string `env:"USERNAME" envDefault:""`
	DB       int    `env:"DB" envDefault:"0"`
}
