package store

import "github.com/iov-one/vestd"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = vestd.ReadOnlyKVStore
type SetDeleter = vestd.SetDeleter
type KVStore = vestd.KVStore
type Batch = vestd.Batch
type CacheableKVStore = vestd.CacheableKVStore
type KVCacheWrap = vestd.KVCacheWrap
type CommitKVStore = vestd.CommitKVStore
type CommitID = vestd.CommitID
