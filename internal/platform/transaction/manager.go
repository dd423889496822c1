// Package transaction declares the unit-of-work boundary services use
// without knowing which store sits behind it.
package transaction

import "context"

// Manager runs fn so that every repository call made with the context it
// receives joins one transaction. A nil error commits; anything else rolls
// back. Nested calls join the outer transaction.
type Manager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Immediate runs fn directly. It backs stores that have no transactions.
type Immediate struct{}

func (Immediate) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var _ Manager = Immediate{}
