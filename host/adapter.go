package host

import (
	"context"
	"time"
)

// Adapter implements store.Store on top of a Keyspace, the in-host
// storage adapter described by the specification: atomicity comes from
// the fact that the host serialises command dispatch (see Server), not
// from any locking in this type.
type Adapter struct {
	ks *Keyspace
}

// NewAdapter binds an Adapter to ks.
func NewAdapter(ks *Keyspace) *Adapter { return &Adapter{ks: ks} }

// GetWithTime opens key for reading, reports its value and presence, and
// returns the host's current clock reading. The handle is released on
// every exit path.
func (a *Adapter) GetWithTime(_ context.Context, key string) (string, bool, time.Time, error) {
	h := a.ks.OpenKeyForReading(key)
	defer h.Close()

	now := a.ks.Now()
	value, present := h.Read()
	return value, present, now, nil
}

// SetIfNotExistsWithTTL opens key for writing, and writes value only if
// the key is currently empty — the key may have expired between a
// caller's prior read and this call, which is exactly the race this
// primitive exists to resolve. The expiry is set unconditionally,
// matching the storage contract.
func (a *Adapter) SetIfNotExistsWithTTL(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	h := a.ks.OpenKeyForWriting(key)
	defer h.Close()

	created := h.IsEmpty()
	if created {
		h.Write(value)
	}
	h.SetExpire(ttl)
	return created, nil
}

// CompareAndSwapWithTTL opens key for writing, and swaps its value iff it
// currently equals oldValue. A key that is empty (never set, or expired
// since the caller last read it) never matches and the swap fails without
// writing.
func (a *Adapter) CompareAndSwapWithTTL(_ context.Context, key, oldValue, newValue string, ttl time.Duration) (bool, error) {
	h := a.ks.OpenKeyForWriting(key)
	defer h.Close()

	if h.IsEmpty() {
		return false, nil
	}
	current, _ := h.Read()
	if current != oldValue {
		return false, nil
	}
	h.Write(newValue)
	h.SetExpire(ttl)
	return true, nil
}
