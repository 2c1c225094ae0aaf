package featuregate

import (
	"context"
	"fmt"
	"time"

	"github.com/serendibtrip/serendibtrip-api/types"
)

// KeyPrefix namespaces every usage counter.
const KeyPrefix = "serendibtrip"

// dailyGrace is how long a daily key outlives the UTC midnight it resets at.
const dailyGrace = 5 * time.Minute

// Clock supplies the current time. Counters reset against its UTC date.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns the wall clock in UTC.
func SystemClock() Clock { return systemClock{} }

// CounterKey identifies one usage counter.
type CounterKey struct {
	Actor   types.Actor
	Feature types.FeatureName
	Scope   types.QuotaScope
}

// String renders the storage key for the counter at the given instant.
// Daily keys carry the UTC date so a new day starts a new counter.
func (k CounterKey) String(now time.Time) string {
	if k.Scope == types.QuotaScopeDaily {
		return k.base() + ":" + today(now)
	}
	return k.base()
}

func (k CounterKey) base() string {
	owner := k.Actor.UserID
	if k.Actor.IsGuest() {
		owner = "session:" + k.Actor.SessionID
	}
	return fmt.Sprintf("%s:%s:%s", KeyPrefix, owner, k.Feature)
}

// CounterStore persists usage counters. Implementations must make Acquire
// atomic: concurrent callers never push the count past the limit.
type CounterStore interface {
	// Get returns the current count, zero when absent or reset.
	Get(ctx context.Context, key CounterKey, now time.Time) (int, error)
	// Increment records one use unconditionally and returns the new count.
	Increment(ctx context.Context, key CounterKey, now time.Time) (int, error)
	// Acquire records one use only if the count stays within limit.
	Acquire(ctx context.Context, key CounterKey, limit int, now time.Time) (int, bool, error)
	// Decrement refunds one use. The count never drops below zero.
	Decrement(ctx context.Context, key CounterKey, now time.Time) error
}

func today(now time.Time) string {
	return now.UTC().Format(types.DateLayout)
}

// NextReset is the next UTC midnight after now.
func NextReset(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, time.UTC)
}
