package healthcheck

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeStore is a minimal store.Store that can simulate failures on demand.
type fakeStore struct {
	mu         sync.Mutex
	shouldFail bool
	getCalls   int32
}

func (f *fakeStore) GetWithTime(ctx context.Context, key string) (string, bool, time.Time, error) {
	atomic.AddInt32(&f.getCalls, 1)
	f.mu.Lock()
	fail := f.shouldFail
	f.mu.Unlock()
	if fail {
		return "", false, time.Time{}, errors.New("simulated backend failure")
	}
	return "", false, time.Now(), nil
}

func (f *fakeStore) SetIfNotExistsWithTTL(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return true, nil
}

func (f *fakeStore) CompareAndSwapWithTTL(ctx context.Context, key, oldValue, newValue string, ttl time.Duration) (bool, error) {
	return true, nil
}

func (f *fakeStore) setFail(v bool) {
	f.mu.Lock()
	f.shouldFail = v
	f.mu.Unlock()
}

func (f *fakeStore) calls() int32 {
	return atomic.LoadInt32(&f.getCalls)
}

func TestChecker_ZeroIntervalDisabled(t *testing.T) {
	backend := &fakeStore{}
	checker := NewChecker(backend, nil, WithInterval(0))
	checker.Start()
	time.Sleep(50 * time.Millisecond)
	checker.Stop()

	require.Equal(t, int32(0), backend.calls())
}

func TestChecker_PollsAndReportsHealthy(t *testing.T) {
	backend := &fakeStore{}
	healthy := make(chan struct{}, 8)
	checker := NewChecker(backend, func() {
		select {
		case healthy <- struct{}{}:
		default:
		}
	}, WithInterval(10*time.Millisecond), WithTimeout(5*time.Millisecond))

	checker.Start()
	defer checker.Stop()

	select {
	case <-healthy:
	case <-time.After(time.Second):
		t.Fatal("expected onHealthy to fire")
	}
	require.Greater(t, backend.calls(), int32(0))
}

func TestChecker_NoCallbackWhenFailing(t *testing.T) {
	backend := &fakeStore{shouldFail: true}
	var healthyCount int32
	checker := NewChecker(backend, func() {
		atomic.AddInt32(&healthyCount, 1)
	}, WithInterval(10*time.Millisecond), WithTimeout(5*time.Millisecond))

	checker.Start()
	time.Sleep(80 * time.Millisecond)
	checker.Stop()

	require.Equal(t, int32(0), atomic.LoadInt32(&healthyCount))
	require.Greater(t, backend.calls(), int32(0))
}

func TestChecker_RecoversAfterFailure(t *testing.T) {
	backend := &fakeStore{shouldFail: true}
	var healthyCount int32
	checker := NewChecker(backend, func() {
		atomic.AddInt32(&healthyCount, 1)
	}, WithInterval(10*time.Millisecond), WithTimeout(5*time.Millisecond))

	checker.Start()
	defer checker.Stop()

	time.Sleep(50 * time.Millisecond)
	require.Equal(t, int32(0), atomic.LoadInt32(&healthyCount))

	backend.setFail(false)
	time.Sleep(100 * time.Millisecond)
	require.Greater(t, atomic.LoadInt32(&healthyCount), int32(0))
}

func TestChecker_StopIsIdempotent(t *testing.T) {
	backend := &fakeStore{}
	checker := NewChecker(backend, nil, WithInterval(10*time.Millisecond))
	checker.Start()
	checker.Stop()
	checker.Stop()
}
