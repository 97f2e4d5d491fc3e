package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnhealthy is a sentinel signalling that a Store backend is
// unreachable or otherwise unavailable, as opposed to a normal operational
// failure (e.g. a CAS that simply lost the race).
var ErrUnhealthy = errors.New("store: backend unhealthy")

// HealthError wraps an underlying cause with the operation that surfaced
// it, for backends (Redis, Postgres) that distinguish connectivity
// failures from ordinary errors so a failover layer can react to the
// former only.
type HealthError struct {
	Op    string
	Cause error
}

func (e *HealthError) Error() string {
	if e == nil {
		return ErrUnhealthy.Error()
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %v", ErrUnhealthy, e.Op, e.Cause)
	}
	return fmt.Sprintf("%s: %v", ErrUnhealthy, e.Cause)
}

func (e *HealthError) Unwrap() error { return e.Cause }

func (e *HealthError) Is(target error) bool { return target == ErrUnhealthy }

// NewHealthError wraps cause as a HealthError carrying op as context. A nil
// cause yields the bare ErrUnhealthy sentinel.
func NewHealthError(op string, cause error) error {
	if cause == nil {
		return ErrUnhealthy
	}
	return &HealthError{Op: op, Cause: cause}
}

// IsHealthError reports whether err is, or wraps, a HealthError.
func IsHealthError(err error) bool {
	if errors.Is(err, ErrUnhealthy) {
		return true
	}
	var he *HealthError
	return errors.As(err, &he)
}

// MaybeConnError reclassifies err as a HealthError when its text matches
// one of patterns (expected lowercase) or it is a context
// deadline/cancellation error; otherwise it returns err unchanged.
func MaybeConnError(op string, err error, patterns []string) error {
	if err == nil {
		return nil
	}
	if patterns != nil {
		errStr := strings.ToLower(err.Error())
		for _, pattern := range patterns {
			if strings.Contains(errStr, pattern) {
				return NewHealthError(op, err)
			}
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewHealthError(op, err)
	}
	return err
}
