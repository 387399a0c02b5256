package utils

import (
	"github.com/iov-one/vestd"
	"github.com/iov-one/vestd/errors"
)

// Savepoint will isolate all data inside of the call,
// and commit/rollback to savepoint based on if error
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ vestd.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator,
// but you must call OnCheck/OnDeliver so it will be triggered
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a savepoint that will trigger on CheckTx
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver returns a savepoint that will trigger on DeliverTx
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

// Check will optionally set a checkpoint
func (s Savepoint) Check(ctx vestd.Context, store vestd.KVStore, tx vestd.Tx, next vestd.Checker) (*vestd.CheckResult, error) {
	if !s.onCheck {
		return next.Check(ctx, store, tx)
	}
	var res *vestd.CheckResult
	err := atomically(store, func(db vestd.KVStore) (err error) {
		res, err = next.Check(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Deliver will optionally set a checkpoint. A vesting claim updates the
// pool ledger and both wallets, all of them are written or none.
func (s Savepoint) Deliver(ctx vestd.Context, store vestd.KVStore, tx vestd.Tx, next vestd.Deliverer) (*vestd.DeliverResult, error) {
	if !s.onDeliver {
		return next.Deliver(ctx, store, tx)
	}
	var res *vestd.DeliverResult
	err := atomically(store, func(db vestd.KVStore) (err error) {
		res, err = next.Deliver(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// atomically runs fn on a cache of the store, and writes the cache back only
// if fn succeeds. Stores that cannot be cached are used directly.
func atomically(store vestd.KVStore, fn func(vestd.KVStore) error) error {
	cstore, ok := store.(vestd.CacheableKVStore)
	if !ok {
		return fn(store)
	}
	cache := cstore.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "writing savepoint")
	}
	return nil
}
