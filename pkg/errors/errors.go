package errors

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"

	// ErrBookClosed represents an instruction against a book that is not open.
	ErrBookClosed ErrorCode = "book_closed"
	// ErrUnknownOrder represents a cancel or amend for an order id that is not resting.
	ErrUnknownOrder ErrorCode = "unknown_order"
	// ErrUnauthorized represents a cancel or amend from a party that does not own the order.
	ErrUnauthorized ErrorCode = "unauthorized"
	// ErrInvalidPrice represents a limit price that is off the symbol's tick grid.
	ErrInvalidPrice ErrorCode = "invalid_price"
	// ErrInsufficientAskVolume represents an error when there is not enough ask volume to fill a market order.
	ErrInsufficientAskVolume ErrorCode = "insufficient_ask_volume"
	// ErrInsufficientBidVolume represents an error when there is not enough bid volume to fill a market order.
	ErrInsufficientBidVolume ErrorCode = "insufficient_bid_volume"

	// MarshalError represents a failure encoding a message for transport or storage.
	MarshalError ErrorCode = "marshal_error"
	// UnmarshalError represents a failure decoding a stored or received message.
	UnmarshalError ErrorCode = "unmarshal_error"
	// KafkaReadError represents an error when reading from Kafka.
	KafkaReadError ErrorCode = "kafka_read_error"
	// KafkaWriteError represents an error when writing to Kafka.
	KafkaWriteError ErrorCode = "kafka_write_error"
	// RedisSetError represents an error when setting a value in Redis.
	RedisSetError ErrorCode = "redis_set_error"
	// RedisGetError represents an error when getting a value from Redis.
	RedisGetError ErrorCode = "redis_get_error"
)
