package app

import (
	"context"
	"testing"

	"github.com/iov-one/vestd/errors"
	"github.com/iov-one/vestd/store"
	"github.com/iov-one/vestd/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter(t *testing.T) {
	r := NewRouter()
	good := &weavetest.Handler{}
	bad := &weavetest.Handler{DeliverErr: errors.ErrInvalidState}

	r.Handle("vesting/claim", good)
	r.Handle("vesting/release", bad)

	// make sure invalid registrations panic
	assert.Panics(t, func() { r.Handle("vesting/claim", good) })
	assert.Panics(t, func() { r.Handle("l:7", good) })

	ctx := context.Background()
	db := store.MemStore()
	tx := func(path string) *weavetest.Tx {
		return &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: path}}
	}

	_, err := r.Check(ctx, db, tx("vesting/claim"))
	require.NoError(t, err)
	_, err = r.Deliver(ctx, db, tx("vesting/claim"))
	require.NoError(t, err)
	assert.Equal(t, 2, good.CallCount())

	_, err = r.Deliver(ctx, db, tx("vesting/release"))
	assert.True(t, errors.ErrInvalidState.Is(err))
	assert.Equal(t, 1, bad.DeliverCallCount())

	_, err = r.Deliver(ctx, db, tx("vesting/missing"))
	assert.True(t, errors.ErrNotFound.Is(err))
	_, err = r.Check(ctx, db, tx("vesting/missing"))
	assert.True(t, errors.ErrNotFound.Is(err))

	_, err = r.Check(ctx, db, &weavetest.Tx{})
	assert.True(t, errors.ErrInvalidMsg.Is(err))
	_, err = r.Deliver(ctx, db, &weavetest.Tx{Err: errors.ErrInvalidType})
	assert.True(t, errors.ErrInvalidType.Is(err))
	assert.Equal(t, 2, good.CallCount())
}
