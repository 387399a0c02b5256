package auth

import (
	"context"

	"github.com/iov-one/vestd"
	"github.com/iov-one/vestd/x"
)

//------------------- Context --------
// Add context information specific to this package

type contextKey int // local to the auth module

const (
	contextKeySigners contextKey = iota
)

// withSigners is a private method, as only this module
// can add a signer
func withSigners(ctx vestd.Context, signers []vestd.Condition) vestd.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// GetSigners returns who signed the current Context
// may be empty
func GetSigners(ctx vestd.Context) []vestd.Condition {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeySigners).([]vestd.Condition)
	return val
}

// Authenticate implements x.Authenticator and provides
// authentication based on the signers set by the Decorator.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns the signers of the transaction.
func (Authenticate) GetConditions(ctx vestd.Context) []vestd.Condition {
	return GetSigners(ctx)
}

// HasAddress returns true iff this address is in GetConditions.
func (a Authenticate) HasAddress(ctx vestd.Context, addr vestd.Address) bool {
	for _, s := range GetSigners(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
