//go:build integration

package ratelimit

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var redisAddr string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		panic(err)
	}
	redisAddr = fmt.Sprintf("%s:%s", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func newRedisLimiter(t *testing.T) *Redis {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: redisAddr})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client, fmt.Sprintf("test:%s:", t.Name()))
}

func TestRedis_AllowsUpToMax(t *testing.T) {
	ctx := context.Background()
	r := newRedisLimiter(t)
	policy := Policy{Namespace: "login", Max: 5, Window: 15 * time.Minute}

	for i := 0; i < 5; i++ {
		d, err := r.Allow(ctx, policy, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	}

	d, err := r.Allow(ctx, policy, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Greater(t, d.RetryAfterSeconds(), 0)
}

func TestRedis_WindowExpires(t *testing.T) {
	ctx := context.Background()
	r := newRedisLimiter(t)
	base := time.Now()
	r.now = func() time.Time { return base }
	policy := Policy{Namespace: "login", Max: 1, Window: time.Minute}

	d, err := r.Allow(ctx, policy, "k")
	require.NoError(t, err)
	require.True(t, d.Allowed)

	d, err = r.Allow(ctx, policy, "k")
	require.NoError(t, err)
	require.False(t, d.Allowed)

	r.now = func() time.Time { return base.Add(61 * time.Second) }
	d, err = r.Allow(ctx, policy, "k")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestRedis_ConcurrentAdmitsExactlyMax(t *testing.T) {
	ctx := context.Background()
	r := newRedisLimiter(t)
	policy := Policy{Namespace: "register", Max: 5, Window: time.Hour}

	var admitted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := r.Allow(ctx, policy, "same-client")
			if err == nil && d.Allowed {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(5), admitted.Load())
}
