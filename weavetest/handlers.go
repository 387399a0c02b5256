package weavetest

import "github.com/iov-one/vestd"

// Handler is a mock implementation of the vestd.Handler interface. It
// counts calls and returns the configured results.
type Handler struct {
	checkCall   int
	CheckResult vestd.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult vestd.DeliverResult
	DeliverErr    error

	// Write if set is stored on every call, before the error is returned.
	Write *vestd.Model
}

var _ vestd.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx vestd.Context, db vestd.KVStore, tx vestd.Tx) (*vestd.CheckResult, error) {
	h.checkCall++
	if err := h.write(db); err != nil {
		return nil, err
	}
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx vestd.Context, db vestd.KVStore, tx vestd.Tx) (*vestd.DeliverResult, error) {
	h.deliverCall++
	if err := h.write(db); err != nil {
		return nil, err
	}
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) write(db vestd.KVStore) error {
	if h.Write == nil {
		return nil
	}
	return db.Set(h.Write.Key, h.Write.Value)
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
