package app

import (
	"context"
	"testing"

	"github.com/iov-one/vestd"
	"github.com/iov-one/vestd/errors"
	"github.com/iov-one/vestd/store"
	"github.com/iov-one/vestd/weavetest"
	"github.com/iov-one/vestd/x/utils"
	"github.com/stretchr/testify/assert"
)

func TestChain(t *testing.T) {
	c1 := &weavetest.Decorator{}
	c2 := &weavetest.Decorator{}
	var nilDecorator *weavetest.Decorator
	h := &weavetest.Handler{}

	stack := ChainDecorators(
		c1,
		utils.NewLogging(),
		nil,
		utils.NewRecovery(),
		nilDecorator,
	).Chain(c2).WithHandler(h)

	ctx := context.Background()
	db := store.MemStore()
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "vesting/claim"}}

	_, err := stack.Check(ctx, db, tx)
	assert.NoError(t, err)
	_, err = stack.Deliver(ctx, db, tx)
	assert.NoError(t, err)

	assert.Equal(t, 2, c1.CallCount())
	assert.Equal(t, 2, c2.CallCount())
	assert.Equal(t, 2, h.CallCount())
	assert.Equal(t, []string{"vesting/claim", "vesting/claim"}, c2.Paths)
}

func TestChainStopsOnDecoratorError(t *testing.T) {
	d := &weavetest.Decorator{Err: errors.ErrUnauthorized}
	h := &weavetest.Handler{}
	stack := ChainDecorators(d).WithHandler(h)

	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "vesting/release"}}
	_, err := stack.Deliver(context.Background(), store.MemStore(), tx)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	assert.Equal(t, 1, d.CallCount())
	assert.Equal(t, 0, h.CallCount())
}

func TestChainRecoversFromPanic(t *testing.T) {
	h := &weavetest.Handler{}
	stack := ChainDecorators(
		utils.NewRecovery(),
		panicDecorator{},
	).WithHandler(h)

	_, err := stack.Deliver(context.Background(), store.MemStore(), nil)
	assert.True(t, errors.ErrPanic.Is(err))
	assert.Equal(t, 0, h.CallCount())
}

type panicDecorator struct{}

func (panicDecorator) Check(vestd.Context, vestd.KVStore, vestd.Tx, vestd.Checker) (*vestd.CheckResult, error) {
	panic("check")
}

func (panicDecorator) Deliver(vestd.Context, vestd.KVStore, vestd.Tx, vestd.Deliverer) (*vestd.DeliverResult, error) {
	panic("deliver")
}
