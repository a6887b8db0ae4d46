package contracts

import "context"

// TransactionManager runs fn inside one atomic storage unit. Every write a
// repository performs with the callback's context joins the same transaction;
// an error from fn aborts the whole unit.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
