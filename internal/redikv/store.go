package redikv

import (
	"sync"
	"time"

	"redikv/internal/redikv/types"

	"github.com/samber/lo"
)

// KeyValueStore is the contract the command executor depends on.
// Implementations must be safe for concurrent use; locking stays inside them.
type KeyValueStore interface {
	Get(key string) (string, bool)
	Set(key string, value string, ttlMillis *uint64)
}

// ExpiringStore is a KeyValueStore that can also be swept actively.
type ExpiringStore interface {
	KeyValueStore
	RemoveExpired() int
	Len() int
}

type Clock func() time.Time

type StoreOption func(*storeOptions)

type storeOptions struct {
	clock Clock
}

// Replaces time.Now, used by tests to drive expiration
func WithClock(clock Clock) StoreOption {
	return func(options *storeOptions) {
		options.clock = clock
	}
}

func buildStoreOptions(options []StoreOption) storeOptions {
	built := storeOptions{clock: time.Now}
	for _, option := range options {
		option(&built)
	}
	return built
}

// RedikvDB is a map guarded by a single reader/writer lock.
// Expiration is lazy: reads ignore stale entries without removing them.
type RedikvDB struct {
	store      map[string]types.Entry // Key to value and optional expiry
	storeMutex sync.RWMutex           // Many readers or one writer
	now        Clock
}

func NewRedikvDB(options ...StoreOption) *RedikvDB {
	built := buildStoreOptions(options)

	return &RedikvDB{
		store: make(map[string]types.Entry),
		now:   built.clock,
	}
}

// Returns the value unless the key is missing or expired
// An expired entry is left in place for the sweeper or the next SET
func (database *RedikvDB) Get(key string) (string, bool) {
	database.storeMutex.RLock()
	defer database.storeMutex.RUnlock()

	entry, exists := database.store[key]
	if !exists || entry.IsExpired(database.now()) {
		return "", false
	}
	return entry.Value, true
}

// Inserts or fully overwrites the entry, expiry included
func (database *RedikvDB) Set(key string, value string, ttlMillis *uint64) {
	database.storeMutex.Lock()
	defer database.storeMutex.Unlock()

	database.store[key] = types.NewEntry(value, ttlMillis, database.now())
}

// Deletes every expired entry under the write lock
// Returns the number of removed keys
func (database *RedikvDB) RemoveExpired() int {
	database.storeMutex.Lock()
	defer database.storeMutex.Unlock()

	now := database.now()
	expiredKeys := lo.Keys(lo.PickBy(database.store, func(_ string, entry types.Entry) bool {
		return entry.IsExpired(now)
	}))

	for _, key := range expiredKeys {
		delete(database.store, key)
	}
	return len(expiredKeys)
}

// Number of physically stored entries, expired ones included
func (database *RedikvDB) Len() int {
	database.storeMutex.RLock()
	defer database.storeMutex.RUnlock()

	return len(database.store)
}
