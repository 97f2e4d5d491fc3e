package failover

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ajiwo/throttle/healthcheck"
	"github.com/ajiwo/throttle/store"
)

var errAlwaysFails = errors.New("failover: simulated store failure")

func newTestStore(t *testing.T, primary, secondary store.Store, threshold int32) *Store {
	t.Helper()
	s, err := New(Config{
		Primary:   primary,
		Secondary: secondary,
		CircuitBreaker: BreakerConfig{
			FailureThreshold: threshold,
			RecoveryTimeout:  50 * time.Millisecond,
		},
		HealthCheck: healthcheck.Config{
			Interval: 0,
			Timeout:  10 * time.Millisecond,
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNew_RequiresBothStores(t *testing.T) {
	mem := store.NewMemoryStore()

	_, err := New(Config{Primary: nil, Secondary: mem})
	require.ErrorIs(t, err, ErrNoPrimary)

	_, err = New(Config{Primary: mem, Secondary: nil})
	require.ErrorIs(t, err, ErrNoSecondary)
}

func TestStore_RoutesToPrimaryWhenHealthy(t *testing.T) {
	primary := store.NewMemoryStore()
	secondary := store.NewMemoryStore()
	s := newTestStore(t, primary, secondary, 3)

	ctx := context.Background()
	created, err := s.SetIfNotExistsWithTTL(ctx, "k", "v", time.Minute)
	require.NoError(t, err)
	require.True(t, created)

	_, present, _, err := primary.GetWithTime(ctx, "k")
	require.NoError(t, err)
	require.True(t, present)

	_, present, _, err = secondary.GetWithTime(ctx, "k")
	require.NoError(t, err)
	require.False(t, present)
}

func TestStore_TripsToSecondaryAfterFailures(t *testing.T) {
	primary := &failingStore{}
	secondary := store.NewMemoryStore()
	s := newTestStore(t, primary, secondary, 2)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, _ = s.SetIfNotExistsWithTTL(ctx, "k", "v", time.Minute)
	}
	require.Equal(t, "open", s.State())

	created, err := s.SetIfNotExistsWithTTL(ctx, "k2", "v2", time.Minute)
	require.NoError(t, err)
	require.True(t, created)

	_, present, _, err := secondary.GetWithTime(ctx, "k2")
	require.NoError(t, err)
	require.True(t, present)
}

// failingStore implements store.Store and always errors, to exercise
// breaker tripping deterministically.
type failingStore struct{}

func (f *failingStore) GetWithTime(ctx context.Context, key string) (string, bool, time.Time, error) {
	return "", false, time.Time{}, errAlwaysFails
}

func (f *failingStore) SetIfNotExistsWithTTL(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return false, errAlwaysFails
}

func (f *failingStore) CompareAndSwapWithTTL(ctx context.Context, key, oldValue, newValue string, ttl time.Duration) (bool, error) {
	return false, errAlwaysFails
}
