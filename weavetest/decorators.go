package weavetest

import "github.com/iov-one/vestd"

// Decorator is a mock implementation of the vestd.Decorator interface. It
// records the path of every transaction passing through and returns Err,
// when set, instead of calling the next handler.
type Decorator struct {
	checkCall   int
	deliverCall int

	// Err if set is returned by both methods before calling the wrapped
	// handler.
	Err error
	// Paths holds the message path of each processed transaction.
	Paths []string
}

var _ vestd.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx vestd.Context, db vestd.KVStore, tx vestd.Tx, next vestd.Checker) (*vestd.CheckResult, error) {
	d.checkCall++
	d.Paths = append(d.Paths, vestd.GetPath(tx))
	if d.Err != nil {
		return nil, d.Err
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx vestd.Context, db vestd.KVStore, tx vestd.Tx, next vestd.Deliverer) (*vestd.DeliverResult, error) {
	d.deliverCall++
	d.Paths = append(d.Paths, vestd.GetPath(tx))
	if d.Err != nil {
		return nil, d.Err
	}
	return next.Deliver(ctx, db, tx)
}

// CallCount returns the number of Check and Deliver calls.
func (d *Decorator) CallCount() int {
	return d.checkCall + d.deliverCall
}
