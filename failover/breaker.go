package failover

import (
	"sync/atomic"
	"time"
)

type breakerState int32

const (
	stateClosed breakerState = iota
	stateHalfOpen
	stateOpen
)

// BreakerConfig tunes when a circuitBreaker trips to the secondary store and
// when it next lets the primary prove itself again.
type BreakerConfig struct {
	FailureThreshold int32         // consecutive failures before tripping open
	RecoveryTimeout  time.Duration // time open before allowing a half-open probe
}

// circuitBreaker tracks primary-store health with atomics so Store.dispatch
// never needs to take a lock just to decide where to route.
type circuitBreaker struct {
	config       BreakerConfig
	state        int32 // atomic breakerState
	failureCount int32 // atomic
	openedAt     int64 // atomic, UnixNano
}

func newCircuitBreaker(config BreakerConfig) *circuitBreaker {
	return &circuitBreaker{config: config, state: int32(stateClosed)}
}

// shouldTrip records err and reports whether it just tripped the circuit
// open. A nil err resets the failure count.
func (cb *circuitBreaker) shouldTrip(err error) bool {
	if err == nil {
		atomic.StoreInt32(&cb.failureCount, 0)
		return false
	}
	count := atomic.AddInt32(&cb.failureCount, 1)
	if count >= cb.config.FailureThreshold {
		cb.open()
		return true
	}
	return false
}

func (cb *circuitBreaker) isOpen() bool {
	switch breakerState(atomic.LoadInt32(&cb.state)) {
	case stateOpen:
		openedAt := atomic.LoadInt64(&cb.openedAt)
		if time.Since(time.Unix(0, openedAt)) >= cb.config.RecoveryTimeout {
			if atomic.CompareAndSwapInt32(&cb.state, int32(stateOpen), int32(stateHalfOpen)) {
				return false
			}
		}
		return true
	case stateHalfOpen:
		return false
	default:
		return false
	}
}

func (cb *circuitBreaker) open() {
	atomic.StoreInt32(&cb.state, int32(stateOpen))
	atomic.StoreInt64(&cb.openedAt, time.Now().UnixNano())
}

func (cb *circuitBreaker) close() {
	atomic.StoreInt32(&cb.state, int32(stateClosed))
	atomic.StoreInt32(&cb.failureCount, 0)
}

func (cb *circuitBreaker) getState() breakerState {
	return breakerState(atomic.LoadInt32(&cb.state))
}
