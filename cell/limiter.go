package cell

import (
	"context"
	"time"

	"github.com/ajiwo/throttle/store"
)

// MaxCASAttempts bounds the evaluator's retry loop against contention on
// the backing store. Against a single-threaded host this loop executes
// exactly once; it only does real work against a store with true
// concurrent writers.
const MaxCASAttempts = 5

// notApplicable is the sentinel used internally for a retry_after that
// does not apply (the call was allowed, or is structurally impossible to
// ever satisfy). It is converted to the wire value -1 by callers.
const notApplicable = time.Duration(-1)

// RateLimitResult carries the outcome of one evaluation.
type RateLimitResult struct {
	// Limit is max_burst+1, the effective bucket size.
	Limit int64
	// Remaining is the number of further units the bucket could currently
	// accept, between 0 and Limit as long as the stored TAT is not behind
	// the store's clock.
	Remaining int64
	// ResetAfter is how long until the bucket is completely empty again
	// (idle); >= 0 under the same condition. A store that does not enforce
	// TTLs (store.MemoryStore) can return a stale TAT from the past, and a
	// denied call against it reports a negative ResetAfter and a Remaining
	// above Limit.
	ResetAfter time.Duration
	// RetryAfter is how long the caller must wait before an identical
	// call could succeed, or notApplicable if the call was allowed, or if
	// it could never succeed regardless of wait.
	RetryAfter time.Duration
}

// Limiter evaluates the GCRA decision for one RateQuota against a backing
// Store.
type Limiter struct {
	quota               RateQuota
	emissionInterval     time.Duration
	delayVariationTolerance time.Duration
	limit                int64
	store                store.Store
}

// NewLimiter derives the evaluator's fixed parameters from quota and binds
// it to s. It returns ErrInvalidRate immediately if quota's rate has a
// zero emission interval, since no later call could ever succeed.
func NewLimiter(quota RateQuota, s store.Store) (*Limiter, error) {
	interval := quota.MaxRate.Period()
	if interval <= 0 {
		return nil, ErrInvalidRate
	}
	limit := quota.Limit()
	return &Limiter{
		quota:                   quota,
		emissionInterval:        interval,
		delayVariationTolerance: interval * time.Duration(limit),
		limit:                   limit,
		store:                   s,
	}, nil
}

// RateLimit evaluates whether quantity units may be admitted under key,
// atomically updating the stored theoretical arrival time when they are.
// quantity == 0 is a peek: it never denies and never less-than-trivially
// mutates state (it may still rewrite the same TAT back, harmlessly).
func (l *Limiter) RateLimit(ctx context.Context, key string, quantity int64) (limited bool, result RateLimitResult, err error) {
	result = RateLimitResult{Limit: l.limit, RetryAfter: notApplicable}
	increment := l.emissionInterval * time.Duration(quantity)

	var ttl time.Duration
	limited = true

	for attempt := 0; attempt < MaxCASAttempts; attempt++ {
		value, present, now, err := l.store.GetWithTime(ctx, key)
		if err != nil {
			return false, RateLimitResult{}, err
		}

		var tat time.Time
		if present {
			tat, err = decodeTAT(value)
			if err != nil {
				return false, RateLimitResult{}, err
			}
		} else {
			tat = now
		}

		newTAT := tat
		if now.After(tat) {
			newTAT = now
		}
		newTAT = newTAT.Add(increment)

		allowAt := newTAT.Add(-l.delayVariationTolerance)
		diff := now.Sub(allowAt)

		if diff < 0 {
			if increment <= l.delayVariationTolerance {
				result.RetryAfter = -diff
			}
			ttl = tat.Sub(now)
			limited = true
			break
		}

		ttl = newTAT.Sub(now)
		encoded := encodeTAT(newTAT)

		var updated bool
		if present {
			updated, err = l.store.CompareAndSwapWithTTL(ctx, key, value, encoded, ttl)
		} else {
			updated, err = l.store.SetIfNotExistsWithTTL(ctx, key, encoded, ttl)
		}
		if err != nil {
			return false, RateLimitResult{}, err
		}
		if updated {
			limited = false
			break
		}
		if attempt == MaxCASAttempts-1 {
			return false, RateLimitResult{}, ErrContentionExceeded
		}
	}

	next := l.delayVariationTolerance - ttl
	if next > -l.emissionInterval {
		result.Remaining = next.Microseconds() / l.emissionInterval.Microseconds()
	}
	result.ResetAfter = ttl

	return limited, result, nil
}
