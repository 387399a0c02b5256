package iavl

import (
	"github.com/iov-one/vestd/errors"
	"github.com/iov-one/vestd/store"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"
)

// cacheSize is the number of tree nodes kept in memory.
const cacheSize = 10000

// CommitStore manages a iavl committed state. Reads always reflect the last
// committed version, all changes go through a cache wrap and become visible
// after Commit.
type CommitStore struct {
	tree   *iavl.MutableTree
	db     dbm.DB
	latest store.CommitID
}

var _ store.CommitKVStore = (*CommitStore)(nil)

// NewCommitStore creates a new store with disk backing in the given
// directory. An empty directory creates an in-memory store, useful for tests.
func NewCommitStore(dir, name string) *CommitStore {
	var db dbm.DB
	if dir == "" {
		db = dbm.NewMemDB()
	} else {
		db = dbm.NewDB(name, dbm.GoLevelDBBackend, dir)
	}
	return &CommitStore{
		tree: iavl.NewMutableTree(db, cacheSize),
		db:   db,
	}
}

// Get returns the value at last committed state
// returns nil iff key doesn't exist. Panics on nil key.
func (s *CommitStore) Get(key []byte) ([]byte, error) {
	if s.latest.Version == 0 {
		return nil, nil
	}
	_, val := s.tree.GetVersioned(key, s.latest.Version)
	return val, nil
}

// Has checks if the key exists in the last committed state.
func (s *CommitStore) Has(key []byte) (bool, error) {
	val, err := s.Get(key)
	return val != nil, err
}

// Commit the next version to disk, and returns info
func (s *CommitStore) Commit() (store.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return store.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	s.latest = store.CommitID{
		Version: version,
		Hash:    hash,
	}
	return s.latest, nil
}

// LoadLatestVersion loads the latest persisted version.
// If there was a crash during the last commit, it is guaranteed
// to return a stable state, even if older.
func (s *CommitStore) LoadLatestVersion() error {
	version, err := s.tree.Load()
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	s.latest = store.CommitID{
		Version: version,
		Hash:    s.tree.Hash(),
	}
	return nil
}

// LatestVersion returns info on the latest version saved to disk
func (s *CommitStore) LatestVersion() (store.CommitID, error) {
	return s.latest, nil
}

// Close releases the underlying database.
func (s *CommitStore) Close() {
	s.db.Close()
}

// NewBatch returns a batch writing into the working tree. Batch content
// becomes readable after the next Commit.
func (s *CommitStore) NewBatch() store.Batch {
	return store.NewNonAtomicBatch(treeWriter{s.tree})
}

// CacheWrap gives us a savepoint to perform actions
func (s *CommitStore) CacheWrap() store.KVCacheWrap {
	return store.NewBTreeCacheWrap(s, s.NewBatch(), nil)
}

// treeWriter applies batch operations to the working tree.
type treeWriter struct {
	tree *iavl.MutableTree
}

func (w treeWriter) Set(key, value []byte) error {
	w.tree.Set(key, value)
	return nil
}

func (w treeWriter) Delete(key []byte) error {
	w.tree.Remove(key)
	return nil
}
