package utils

import (
	"context"
	"testing"

	"github.com/iov-one/vestd"
	"github.com/iov-one/vestd/errors"
	"github.com/iov-one/vestd/store"
	"github.com/iov-one/vestd/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavepoint(t *testing.T) {
	// always written before calling the decorator
	ok, ov := []byte("demo"), []byte("data")
	// written by the handler
	nk, nv := []byte{1, 2, 3}, []byte{4, 5, 6}

	cases := map[string]struct {
		save    vestd.Decorator
		err     error
		check   bool
		written [][]byte
		missing [][]byte
	}{
		"savepoint disabled, check error keeps writes": {
			save:    NewSavepoint(),
			err:     errors.ErrInsufficientAmount,
			check:   true,
			written: [][]byte{ok, nk},
		},
		"check savepoint drops writes on error": {
			save:    NewSavepoint().OnCheck(),
			err:     errors.ErrInsufficientAmount,
			check:   true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"deliver savepoint drops writes on error": {
			save:    NewSavepoint().OnDeliver(),
			err:     errors.ErrInsufficientAmount,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"both savepoints": {
			save:    NewSavepoint().OnDeliver().OnCheck(),
			err:     errors.ErrInsufficientAmount,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"check savepoint does not affect deliver": {
			save:    NewSavepoint().OnCheck(),
			err:     errors.ErrInsufficientAmount,
			written: [][]byte{ok, nk},
		},
		"success is written": {
			save:    NewSavepoint().OnCheck().OnDeliver(),
			written: [][]byte{ok, nk},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ctx := context.Background()
			kv := store.MemStore()
			require.NoError(t, kv.Set(ok, ov))

			h := &weavetest.Handler{
				CheckErr:   tc.err,
				DeliverErr: tc.err,
				Write:      &vestd.Model{Key: nk, Value: nv},
			}
			var err error
			if tc.check {
				_, err = tc.save.Check(ctx, kv, nil, h)
			} else {
				_, err = tc.save.Deliver(ctx, kv, nil, h)
			}
			if tc.err != nil {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			for _, k := range tc.written {
				has, err := kv.Has(k)
				require.NoError(t, err)
				assert.True(t, has, "%x", k)
			}
			for _, k := range tc.missing {
				has, err := kv.Has(k)
				require.NoError(t, err)
				assert.False(t, has, "%x", k)
			}
		})
	}
}

// TestSavepointWithoutCache ensures that a store that cannot be cached is
// used directly.
func TestSavepointWithoutCache(t *testing.T) {
	kv := store.EmptyKVStore{}
	h := &weavetest.Handler{DeliverErr: errors.ErrInvalidState}
	_, err := NewSavepoint().OnDeliver().Deliver(context.Background(), kv, nil, h)
	assert.True(t, errors.ErrInvalidState.Is(err))
	assert.Equal(t, 1, h.DeliverCallCount())
}
