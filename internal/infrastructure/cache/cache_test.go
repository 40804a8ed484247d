package cache

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"skill-bridge/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type store interface {
	GetMany(ctx context.Context, namespace string, keys []string) (map[string]string, error)
	SetMany(ctx context.Context, namespace string, values map[string]string, del []string, ttl time.Duration) error
	DeleteMany(ctx context.Context, namespace string, keys []string) error
}

func exerciseStore(t *testing.T, s store, ns string) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, s.SetMany(ctx, ns, map[string]string{"a": "1", "b": "2", "c": "3"}, nil, time.Minute))

	got, err := s.GetMany(ctx, ns, []string{"a", "b", "c", "missing"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "2", "c": "3"}, got)

	require.NoError(t, s.SetMany(ctx, ns, map[string]string{"a": "10"}, []string{"c"}, time.Minute))
	got, err = s.GetMany(ctx, ns, []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "10", "b": "2"}, got)

	other, err := s.GetMany(ctx, ns+"-other", []string{"a"})
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, s.DeleteMany(ctx, ns, []string{"a", "b", "c"}))
	got, err = s.GetMany(ctx, ns, []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemory(t *testing.T) {
	exerciseStore(t, NewMemory(), "s1")
}

func TestMemory_Expiry(t *testing.T) {
	m := NewMemory()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, m.SetMany(ctx, "s", map[string]string{"k": "v"}, nil, time.Minute))
	now = now.Add(30 * time.Second)
	got, _ := m.GetMany(ctx, "s", []string{"k"})
	assert.Equal(t, "v", got["k"])

	now = now.Add(time.Minute)
	got, _ = m.GetMany(ctx, "s", []string{"k"})
	assert.Empty(t, got)
	assert.Equal(t, 0, m.Len())
}

func TestMemory_WritesSweepAbandonedSessions(t *testing.T) {
	m := NewMemory()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		ns := "session:" + strconv.Itoa(i)
		require.NoError(t, m.SetMany(ctx, ns, map[string]string{"skillbridge_user": "{}"}, nil, time.Minute))
	}
	require.Equal(t, 1000, m.Len())

	now = now.Add(time.Hour)
	require.NoError(t, m.SetMany(ctx, "session:fresh", map[string]string{"skillbridge_user": "{}"}, nil, time.Minute))
	assert.Equal(t, 1, m.Len())

	got, err := m.GetMany(ctx, "session:fresh", []string{"skillbridge_user"})
	require.NoError(t, err)
	assert.Equal(t, "{}", got["skillbridge_user"])
}

func TestMemory_KeepsEntriesWithoutTTL(t *testing.T) {
	m := NewMemory()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, m.SetMany(ctx, "a", map[string]string{"k": "v"}, nil, 0))
	now = now.Add(24 * time.Hour)
	require.NoError(t, m.SetMany(ctx, "b", map[string]string{"k": "v"}, nil, time.Minute))
	assert.Equal(t, 2, m.Len())
}

func TestRedis(t *testing.T) {
	host := os.Getenv("SKILLBRIDGE_TEST_REDIS_HOST")
	if host == "" {
		t.Skip("missing SKILLBRIDGE_TEST_REDIS_HOST")
	}
	port := os.Getenv("SKILLBRIDGE_TEST_REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	r, err := NewRedis(context.Background(), config.RedisConfig{Host: host, Port: port}, nil)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	exerciseStore(t, r, "test-"+time.Now().Format("150405.000000000"))
}

func TestNewRedis_Unavailable(t *testing.T) {
	_, err := NewRedis(context.Background(), config.RedisConfig{Host: "127.0.0.1", Port: "1"}, nil)
	assert.ErrorIs(t, err, ErrUnavailable)
}
