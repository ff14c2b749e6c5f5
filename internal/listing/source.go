package listing

import (
	"context"
	"errors"
)

// ErrSourceFailed is returned by a Source that reached its backend but got
// a negative answer (as opposed to a transport fault). The controller treats
// both the same way.
var ErrSourceFailed = errors.New("source reported failure")

// PageRequest describes one page to fetch. Page is 1-based.
type PageRequest struct {
	Page     int
	PageSize int
}

// Batch is one page of items as returned by a Source.
type Batch[T any] struct {
	Items []T
	// TotalPage is the page count reported by the source; 0 when unknown.
	TotalPage int
}

// Source fetches a single page of items. Fetch is called off the
// controller's loop and must honour ctx cancellation.
type Source[T any] interface {
	Fetch(ctx context.Context, req PageRequest) (Batch[T], error)
}

// SourceFunc adapts a plain function to Source.
type SourceFunc[T any] func(ctx context.Context, req PageRequest) (Batch[T], error)

// Fetch implements Source.
func (f SourceFunc[T]) Fetch(ctx context.Context, req PageRequest) (Batch[T], error) {
	return f(ctx, req)
}
