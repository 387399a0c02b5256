package utils

import (
	"context"
	"testing"

	"github.com/iov-one/vestd"
	"github.com/iov-one/vestd/errors"
	"github.com/iov-one/vestd/store"
	"github.com/iov-one/vestd/weavetest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	ctx := context.Background()
	db := store.MemStore()
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "vesting/claim"}}
	ok := &weavetest.Handler{}
	failing := &weavetest.Handler{DeliverErr: errors.ErrInsufficientAmount}

	for i := 0; i < 3; i++ {
		_, err := m.Deliver(ctx, db, tx, ok)
		assert.NoError(t, err)
	}
	_, err := m.Deliver(ctx, db, tx, failing)
	assert.Error(t, err)
	_, err = m.Check(ctx, db, tx, ok)
	assert.NoError(t, err)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.requests.WithLabelValues("deliver", "vesting/claim", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("deliver", "vesting/claim", "InsufficientFunds")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("check", "vesting/claim", "success")))

	// A missing message is reported under a dedicated path.
	_, _ = m.Deliver(ctx, db, &weavetest.Tx{Err: errors.ErrInvalidMsg}, ok)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("deliver", vestd.GetPath(&weavetest.Tx{}), "success")))
}

func TestMetricsRegisterTwicePanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)
	assert.Panics(t, func() { NewMetrics(reg) })
}
