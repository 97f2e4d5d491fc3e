// Package host models the in-process keyspace of a single-threaded
// key-value server, and an adapter that maps the storage contract the
// GCRA evaluator depends on (package store) onto that keyspace's key-open,
// read, write, and expire primitives.
//
// This is a simulation of the real host boundary — the command-dispatch
// handshake, wire protocol, and module-loading sequence a real KV server
// exposes — scoped down to exactly the primitives the adapter in this
// package needs. It exists so the limiter can run embedded in a Go process
// without any external store, the same way the reference implementation
// runs embedded in its host.
package host

import "time"

type record struct {
	value     string
	hasExpiry bool
	expiresAt time.Time
}

// Keyspace is the host's key storage. It is not safe for concurrent use on
// its own — callers serialise access the same way a real single-threaded
// command dispatcher does (see Server).
type Keyspace struct {
	data  map[string]record
	clock func() time.Time
}

// NewKeyspace returns an empty Keyspace using the real wall clock.
func NewKeyspace() *Keyspace {
	return &Keyspace{
		data:  make(map[string]record),
		clock: time.Now,
	}
}

// SetClockForTest overrides the keyspace's clock source. Production code
// never calls this; it exists so tests can control expiry deterministically.
func (k *Keyspace) SetClockForTest(clock func() time.Time) { k.clock = clock }

// Now returns the host's current time. The storage adapter reads the
// clock through here, never through a package-level time.Now call, so
// that tests can substitute a deterministic clock.
func (k *Keyspace) Now() time.Time { return k.clock() }

// KeyHandle is a scoped reference to one key, modeled after a real KV
// host's open-key / close-key handle discipline: callers must Close every
// handle they open, on every exit path, including error returns.
type KeyHandle struct {
	ks  *Keyspace
	key string
}

// OpenKeyForReading returns a handle good for Read and IsEmpty only.
func (k *Keyspace) OpenKeyForReading(key string) *KeyHandle {
	return &KeyHandle{ks: k, key: key}
}

// OpenKeyForWriting returns a handle good for Read, Write, SetExpire, and
// IsEmpty.
func (k *Keyspace) OpenKeyForWriting(key string) *KeyHandle {
	return &KeyHandle{ks: k, key: key}
}

// Close releases the handle. The in-process keyspace holds no real
// resource per handle, but every caller closes it regardless, so that the
// discipline matches a host where OpenKey acquires something that must be
// released.
func (h *KeyHandle) Close() {}

// IsEmpty reports whether the key currently has no value. A key can
// transition from present to empty between a read and a later write on
// the same handle if its expiry elapsed in between — callers that care
// must re-check.
func (h *KeyHandle) IsEmpty() bool {
	r, ok := h.ks.expireIfDue(h.key)
	return !ok || r.value == ""
}

// Read returns the key's current value and whether it is present.
func (h *KeyHandle) Read() (string, bool) {
	r, ok := h.ks.expireIfDue(h.key)
	if !ok {
		return "", false
	}
	return r.value, true
}

// Write stores value under the handle's key, without touching any
// existing expiry.
func (h *KeyHandle) Write(value string) {
	r := h.ks.data[h.key]
	r.value = value
	h.ks.data[h.key] = r
}

// SetExpire sets the key's expiry to ttl from now, rounded toward zero to
// whole milliseconds — the granularity a real host's expire primitive
// offers.
func (h *KeyHandle) SetExpire(ttl time.Duration) {
	ms := ttl.Milliseconds()
	r := h.ks.data[h.key]
	r.hasExpiry = true
	r.expiresAt = h.ks.Now().Add(time.Duration(ms) * time.Millisecond)
	h.ks.data[h.key] = r
}

// expireIfDue returns the key's record, evicting it first if its expiry
// has elapsed. The bool result is false iff the key is absent (either it
// was never set, or it just expired).
func (k *Keyspace) expireIfDue(key string) (record, bool) {
	r, ok := k.data[key]
	if !ok {
		return record{}, false
	}
	if r.hasExpiry && !k.Now().Before(r.expiresAt) {
		delete(k.data, key)
		return record{}, false
	}
	return r, true
}
