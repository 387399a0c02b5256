/*
Package orm provides an easy to use db wrapper.

A ModelBucket stores models of a single type under a name prefix, directly
on top of the KVStore. Every model is validated before it is persisted.
*/
package orm

import (
	"github.com/iov-one/vestd"
	"github.com/iov-one/vestd/errors"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	vestd.Persistent
	Validate() error
}

// ModelBucket is implemented by buckets that operates on Models.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary key. Result is loaded into given destination model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	One(db vestd.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given primary key exists, and
	// ErrNotFound otherwise.
	Has(db vestd.ReadOnlyKVStore, key []byte) error

	// Put saves given model in the database.
	Put(db vestd.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db vestd.KVStore, key []byte) error

	// Register registers this bucket data for queries under /<name>.
	Register(name string, r vestd.QueryRouter)
}

// NewModelBucket returns a ModelBucket storing all entities under the given
// name prefix. The name must be unique within the application.
func NewModelBucket(name string) ModelBucket {
	if !isBucketName(name) {
		panic("invalid bucket name: " + name)
	}
	return &modelBucket{
		prefix: []byte(name + ":"),
	}
}

type modelBucket struct {
	prefix []byte
}

func (mb *modelBucket) dbKey(key []byte) []byte {
	return append(append([]byte{}, mb.prefix...), key...)
}

func (mb *modelBucket) One(db vestd.ReadOnlyKVStore, key []byte, dest Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot get from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "cannot unmarshal into %T", dest)
	}
	return nil
}

func (mb *modelBucket) Has(db vestd.ReadOnlyKVStore, key []byte) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	ok, err := db.Has(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot query the database")
	}
	if !ok {
		return errors.ErrNotFound
	}
	return nil
}

func (mb *modelBucket) Put(db vestd.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrapf(err, "cannot marshal %T", m)
	}
	if err := db.Set(mb.dbKey(key), raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

func (mb *modelBucket) Delete(db vestd.KVStore, key []byte) error {
	if err := mb.Has(db, key); err != nil {
		return err
	}
	return db.Delete(mb.dbKey(key))
}

func (mb *modelBucket) Register(name string, r vestd.QueryRouter) {
	r.Register("/"+name, mb)
}

// Query returns the raw entity stored under the key passed as query data.
// An empty result set is returned for a missing key.
func (mb *modelBucket) Query(db vestd.ReadOnlyKVStore, mod string, data []byte) ([]vestd.Model, error) {
	if mod != vestd.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unsupported query mode %q", mod)
	}
	raw, err := db.Get(mb.dbKey(data))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	return []vestd.Model{vestd.Pair(data, raw)}, nil
}

func isBucketName(name string) bool {
	if len(name) < 3 || len(name) > 20 {
		return false
	}
	for _, c := range name {
		if (c < 'a' || c > 'z') && c != '_' {
			return false
		}
	}
	return true
}
