// Package cell implements the Generic Cell Rate Algorithm (GCRA) used to
// decide whether a named action should be throttled.
package cell

import "time"

// Rate is the nominal spacing between single-unit arrivals at exactly the
// configured rate, expressed as a period.
type Rate struct {
	period time.Duration
}

// PerPeriod builds a Rate from "n occurrences per window". The resulting
// period is window/n with integer (floor) division; n <= 0 or window <= 0
// yields the zero rate, which the evaluator rejects with ErrInvalidRate.
func PerPeriod(n int64, window time.Duration) Rate {
	if n <= 0 || window <= 0 {
		return Rate{}
	}
	return Rate{period: window / time.Duration(n)}
}

// PerSecond is PerPeriod(n, time.Second).
func PerSecond(n int64) Rate { return PerPeriod(n, time.Second) }

// PerMinute is PerPeriod(n, time.Minute).
func PerMinute(n int64) Rate { return PerPeriod(n, time.Minute) }

// PerHour is PerPeriod(n, time.Hour).
func PerHour(n int64) Rate { return PerPeriod(n, time.Hour) }

// PerDay is PerPeriod(n, 24*time.Hour).
func PerDay(n int64) Rate { return PerPeriod(n, 24*time.Hour) }

// Period returns the emission interval represented by r.
func (r Rate) Period() time.Duration { return r.period }

// Zero reports whether r carries no usable period.
func (r Rate) Zero() bool { return r.period <= 0 }

// RateQuota is the pair of burst allowance and steady-state rate that
// parameterises a GCRA evaluation.
type RateQuota struct {
	MaxBurst int64
	MaxRate  Rate
}

// Limit is the effective bucket size: one more than the configured burst,
// since a quota of zero burst still allows one unit per emission interval.
func (q RateQuota) Limit() int64 { return q.MaxBurst + 1 }
