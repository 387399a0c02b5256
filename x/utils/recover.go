package utils

import (
	"github.com/iov-one/vestd"
	"github.com/iov-one/vestd/errors"
)

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors
type Recovery struct{}

var _ vestd.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (r Recovery) Check(ctx vestd.Context, store vestd.KVStore, tx vestd.Tx, next vestd.Checker) (_ *vestd.CheckResult, err error) {
	defer logPanic(ctx, &err)
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx vestd.Context, store vestd.KVStore, tx vestd.Tx, next vestd.Deliverer) (_ *vestd.DeliverResult, err error) {
	defer logPanic(ctx, &err)
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}

func logPanic(ctx vestd.Context, err *error) {
	if *err != nil && errors.ErrPanic.Is(*err) {
		vestd.GetLogger(ctx).Error("recovered from panic", "err", *err)
	}
}
