package orderreaderv1

import (
	"context"

	orderv1 "github.com/gide100/matching-engine/internal/domain/order/v1"
)

// OrderReader defines the interface for reading order instructions from a source.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=orderreaderv1_mock
type OrderReader interface {
	// ReadOrder reads the next instruction, blocking until one arrives or
	// the context is cancelled. A malformed frame fails with a wrapped
	// orderv1.ErrParse and is never forwarded to the engine.
	ReadOrder(ctx context.Context) (*orderv1.Order, error)
	// Close closes the reader
	Close() error
}
