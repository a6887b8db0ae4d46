package locker

import (
	"context"
	"medibook-service/internal/pkg/exceptions"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryRedis mimics the redis repository closely enough for lock semantics:
// values are stored JSON-encoded, SetNX only succeeds on absent keys.
type memoryRedis struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryRedis() *memoryRedis {
	return &memoryRedis{data: make(map[string]string)}
}

func (r *memoryRedis) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	r.data[key] = string(encoded)
	return nil
}

func (r *memoryRedis) Get(_ context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data[key], nil
}

func (r *memoryRedis) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, key)
	return nil
}

func (r *memoryRedis) TrySetNX(_ context.Context, key string, value interface{}, _ time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.data[key]; exists {
		return false, nil
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	r.data[key] = string(encoded)
	return true, nil
}

func (r *memoryRedis) Expire(_ context.Context, _ string, _ time.Duration) error { return nil }

func newTestLockService(repo *memoryRedis) *lockService {
	return &lockService{redisRepo: repo, Log: zap.NewNop()}
}

func TestTryLock(t *testing.T) {
	t.Run("first caller acquires, second does not", func(t *testing.T) {
		svc := newTestLockService(newMemoryRedis())

		acquired, value, err := svc.TryLock(context.Background(), "slot:42:lock", time.Minute)
		require.NoError(t, err)
		assert.True(t, acquired)
		assert.NotEmpty(t, value)

		acquired, _, err = svc.TryLock(context.Background(), "slot:42:lock", time.Minute)
		require.NoError(t, err)
		assert.False(t, acquired)
	})

	t.Run("different keys do not contend", func(t *testing.T) {
		svc := newTestLockService(newMemoryRedis())

		acquired, _, err := svc.TryLock(context.Background(), "slot:1:lock", time.Minute)
		require.NoError(t, err)
		assert.True(t, acquired)

		acquired, _, err = svc.TryLock(context.Background(), "slot:2:lock", time.Minute)
		require.NoError(t, err)
		assert.True(t, acquired)
	})
}

func TestLock(t *testing.T) {
	t.Run("waits for the holder to release", func(t *testing.T) {
		svc := newTestLockService(newMemoryRedis())

		value, err := svc.Lock(context.Background(), "slot:42:lock", time.Minute, 500*time.Millisecond)
		require.NoError(t, err)

		released := make(chan struct{})
		go func() {
			time.Sleep(100 * time.Millisecond)
			require.NoError(t, svc.Unlock(context.Background(), "slot:42:lock", value))
			close(released)
		}()

		_, err = svc.Lock(context.Background(), "slot:42:lock", time.Minute, time.Second)
		require.NoError(t, err)
		<-released
	})

	t.Run("times out as a conflict when the holder never releases", func(t *testing.T) {
		svc := newTestLockService(newMemoryRedis())

		_, err := svc.Lock(context.Background(), "slot:42:lock", time.Minute, 100*time.Millisecond)
		require.NoError(t, err)

		_, err = svc.Lock(context.Background(), "slot:42:lock", time.Minute, 150*time.Millisecond)
		require.Error(t, err)

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, 409, customErr.StatusCode)
	})
}

func TestUnlock(t *testing.T) {
	t.Run("only the owner can release", func(t *testing.T) {
		repo := newMemoryRedis()
		svc := newTestLockService(repo)

		_, value, err := svc.TryLock(context.Background(), "slot:42:lock", time.Minute)
		require.NoError(t, err)

		err = svc.Unlock(context.Background(), "slot:42:lock", "someone-else")
		require.Error(t, err)

		require.NoError(t, svc.Unlock(context.Background(), "slot:42:lock", value))

		acquired, _, err := svc.TryLock(context.Background(), "slot:42:lock", time.Minute)
		require.NoError(t, err)
		assert.True(t, acquired)
	})

	t.Run("releasing an expired lock is a no-op", func(t *testing.T) {
		svc := newTestLockService(newMemoryRedis())
		assert.NoError(t, svc.Unlock(context.Background(), "slot:42:lock", "whatever"))
	})
}
