package orm

import (
	"testing"

	"github.com/iov-one/vestd"
	"github.com/iov-one/vestd/errors"
	"github.com/iov-one/vestd/store"
	"github.com/iov-one/vestd/weavetest/assert"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

type counter struct {
	Name  string
	Count uint64
}

func (c *counter) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(c)
}

func (c *counter) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, c)
}

func (c *counter) Validate() error {
	if c.Name == "" {
		return errors.Wrap(errors.ErrEmpty, "name")
	}
	return nil
}

func TestModelBucketLifecycle(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("counters")

	err := b.One(db, []byte("a"), &counter{})
	assert.IsErr(t, errors.ErrNotFound, err)
	assert.IsErr(t, errors.ErrNotFound, b.Has(db, []byte("a")))

	assert.Nil(t, b.Put(db, []byte("a"), &counter{Name: "first", Count: 7}))
	assert.Nil(t, b.Has(db, []byte("a")))

	var got counter
	assert.Nil(t, b.One(db, []byte("a"), &got))
	assert.Equal(t, counter{Name: "first", Count: 7}, got)

	// Raw key is prefixed with the bucket name.
	raw, err := db.Get([]byte("counters:a"))
	assert.Nil(t, err)
	if raw == nil {
		t.Fatal("model not stored under the prefixed key")
	}

	assert.Nil(t, b.Delete(db, []byte("a")))
	assert.IsErr(t, errors.ErrNotFound, b.Delete(db, []byte("a")))
}

func TestModelBucketValidates(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("counters")

	err := b.Put(db, []byte("a"), &counter{})
	assert.IsErr(t, errors.ErrEmpty, err)

	err = b.Put(db, nil, &counter{Name: "x"})
	assert.IsErr(t, errors.ErrEmpty, err)
}

func TestModelBucketQuery(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("counters")
	assert.Nil(t, b.Put(db, []byte("a"), &counter{Name: "first", Count: 1}))

	qr := vestd.NewQueryRouter()
	b.Register("counters", qr)

	h := qr.Handler("/counters")
	res, err := h.Query(db, vestd.KeyQueryMod, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, []byte("a"), res[0].Key)

	var got counter
	assert.Nil(t, got.Unmarshal(res[0].Value))
	assert.Equal(t, uint64(1), got.Count)

	res, err = h.Query(db, vestd.KeyQueryMod, []byte("missing"))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(res))

	_, err = qr.Handler("/unknown").Query(db, vestd.KeyQueryMod, nil)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestInvalidBucketName(t *testing.T) {
	assert.Panics(t, func() { NewModelBucket("Pools") })
	assert.Panics(t, func() { NewModelBucket("x") })
}
