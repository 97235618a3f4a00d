package app

import (
	"context"
	"testing"

	"github.com/iov-one/weave-ballot/errors"
	"github.com/iov-one/weave-ballot/weavetest"
	"github.com/iov-one/weave-ballot/weavetest/assert"
)

func TestChain(t *testing.T) {
	var (
		d1, d2 weavetest.Decorator
		nilDec *weavetest.Decorator
		h      weavetest.Handler
	)
	stack := ChainDecorators(&d1, nilDec).Chain(nil, &d2).WithHandler(&h)

	ctx := context.Background()
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/chain"}}

	_, err := stack.Check(ctx, nil, tx)
	assert.Nil(t, err)
	_, err = stack.Deliver(ctx, nil, tx)
	assert.Nil(t, err)
	assert.Equal(t, 2, d1.CallCount())
	assert.Equal(t, 2, d2.CallCount())
	assert.Equal(t, 2, h.CallCount())

	// an error in the chain stops the execution
	d1.DeliverErr = errors.ErrUnauthorized.New("stop")
	_, err = stack.Deliver(ctx, nil, tx)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	assert.Equal(t, 3, d1.CallCount())
	assert.Equal(t, 2, d2.CallCount())
	assert.Equal(t, 1, h.DeliverCallCount())
}
