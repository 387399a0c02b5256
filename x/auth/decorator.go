/*
Package auth binds the signer declared by a transaction envelope to the
request context.

Signature verification happens before a transaction reaches this
application; the decorator only trusts and exposes the already verified
signer condition.
*/
package auth

import (
	"github.com/iov-one/vestd"
	"github.com/iov-one/vestd/errors"
)

// SignedTx is implemented by transactions that declare their signer.
type SignedTx interface {
	vestd.Tx
	// GetSigner returns the condition of the verified signer.
	GetSigner() vestd.Condition
}

//----------------- Decorator ----------------
//
// This is just a binding from the functionality into the
// Application stack, not much business logic here.

// Decorator puts the transaction signer in the context.
type Decorator struct{}

var _ vestd.Decorator = Decorator{}

// NewDecorator returns a signer binding decorator.
func NewDecorator() Decorator {
	return Decorator{}
}

// Check binds the signer before calling down the stack
func (d Decorator) Check(ctx vestd.Context, store vestd.KVStore, tx vestd.Tx, next vestd.Checker) (*vestd.CheckResult, error) {
	ctx, err := bindSigner(ctx, tx)
	if err != nil {
		return nil, err
	}
	return next.Check(ctx, store, tx)
}

// Deliver binds the signer before calling down the stack
func (d Decorator) Deliver(ctx vestd.Context, store vestd.KVStore, tx vestd.Tx, next vestd.Deliverer) (*vestd.DeliverResult, error) {
	ctx, err := bindSigner(ctx, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, store, tx)
}

func bindSigner(ctx vestd.Context, tx vestd.Tx) (vestd.Context, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return ctx, nil
	}
	signer := stx.GetSigner()
	if signer == nil {
		return ctx, nil
	}
	if err := signer.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "malformed signer")
	}
	return withSigners(ctx, []vestd.Condition{signer}), nil
}
