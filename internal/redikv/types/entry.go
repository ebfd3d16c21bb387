package types

import (
	"math"
	"time"
)

// maxTtlMillis is the largest TTL representable as a time.Duration
const maxTtlMillis = uint64(math.MaxInt64 / int64(time.Millisecond))

// Entry is a stored value with its absolute expiration.
// A zero ExpiresAt means the key never expires.
type Entry struct {
	Value     string
	ExpiresAt time.Time
}

// Builds the entry written by SET at instant now
// TTLs beyond the representable range are clamped to the maximum duration
func NewEntry(value string, ttlMillis *uint64, now time.Time) Entry {
	entry := Entry{Value: value}
	if ttlMillis != nil {
		entry.ExpiresAt = now.Add(MillisToDuration(*ttlMillis))
	}
	return entry
}

// IsExpired reports whether the expiry is set and strictly before now.
func (e Entry) IsExpired(now time.Time) bool {
	if e.ExpiresAt.IsZero() {
		return false
	}
	return e.ExpiresAt.Before(now)
}

func MillisToDuration(millis uint64) time.Duration {
	if millis > maxTtlMillis {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(millis) * time.Millisecond
}
