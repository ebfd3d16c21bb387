package redikv

import (
	"github.com/samber/lo"
	"github.com/twmb/murmur3"
)

// DefaultShardCount is used when the requested count is not a power of 2.
const DefaultShardCount = 16

// ShardedDB spreads keys over independent RedikvDB shards picked by
// MurmurHash3, so writers on different shards never contend.
// Observable semantics are the same as a single RedikvDB.
type ShardedDB struct {
	shards    []*RedikvDB
	shardMask uint32
}

// shardCount must be a power of 2, otherwise DefaultShardCount is used
func NewShardedDB(shardCount int, options ...StoreOption) *ShardedDB {
	if shardCount <= 0 || shardCount&(shardCount-1) != 0 {
		shardCount = DefaultShardCount
	}

	database := &ShardedDB{
		shards:    make([]*RedikvDB, shardCount),
		shardMask: uint32(shardCount - 1),
	}
	for i := range database.shards {
		database.shards[i] = NewRedikvDB(options...)
	}
	return database
}

func (database *ShardedDB) shardFor(key string) *RedikvDB {
	return database.shards[murmur3.Sum32([]byte(key))&database.shardMask]
}

func (database *ShardedDB) Get(key string) (string, bool) {
	return database.shardFor(key).Get(key)
}

func (database *ShardedDB) Set(key string, value string, ttlMillis *uint64) {
	database.shardFor(key).Set(key, value, ttlMillis)
}

// Sweeps shard by shard, holding one write lock at a time
func (database *ShardedDB) RemoveExpired() int {
	return lo.SumBy(database.shards, func(shard *RedikvDB) int {
		return shard.RemoveExpired()
	})
}

func (database *ShardedDB) Len() int {
	return lo.SumBy(database.shards, func(shard *RedikvDB) int {
		return shard.Len()
	})
}

func (database *ShardedDB) ShardCount() int {
	return len(database.shards)
}

// Picks the backend for the configured shard count
// One shard (or less) means the single-lock RedikvDB
func NewStore(shardCount int, options ...StoreOption) ExpiringStore {
	if shardCount <= 1 {
		return NewRedikvDB(options...)
	}
	return NewShardedDB(shardCount, options...)
}
