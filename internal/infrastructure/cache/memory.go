package cache

import (
	"context"
	"sync"
	"time"
)

// sweepInterval bounds how often a write scans the whole map for expired
// entries.
const sweepInterval = time.Minute

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// Memory is an in-process store with the same semantics as Redis. Every
// operation holds the lock for its whole duration, so multi-key writes and
// deletes are never observed half-applied.
type Memory struct {
	mu        sync.Mutex
	entries   map[string]memoryEntry
	now       func() time.Time
	nextSweep time.Time
}

func NewMemory() *Memory {
	return &Memory{entries: map[string]memoryEntry{}, now: time.Now}
}

func (m *Memory) GetMany(_ context.Context, namespace string, keys []string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		full := namespacedKey(namespace, k)
		e, ok := m.entries[full]
		if !ok {
			continue
		}
		if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
			delete(m.entries, full)
			continue
		}
		out[k] = e.value
	}
	return out, nil
}

func (m *Memory) SetMany(_ context.Context, namespace string, values map[string]string, del []string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweepLocked(now)

	var exp time.Time
	if ttl > 0 {
		exp = now.Add(ttl)
	}
	for k, v := range values {
		m.entries[namespacedKey(namespace, k)] = memoryEntry{value: v, expiresAt: exp}
	}
	for _, k := range del {
		delete(m.entries, namespacedKey(namespace, k))
	}
	return nil
}

// sweepLocked drops expired entries so abandoned sessions do not pile up.
// It runs at most once per sweepInterval.
func (m *Memory) sweepLocked(now time.Time) {
	if now.Before(m.nextSweep) {
		return
	}
	m.nextSweep = now.Add(sweepInterval)
	for k, e := range m.entries {
		if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
			delete(m.entries, k)
		}
	}
}

func (m *Memory) DeleteMany(_ context.Context, namespace string, keys []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, k := range keys {
		delete(m.entries, namespacedKey(namespace, k))
	}
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }

// Len reports the number of stored entries, including expired ones not yet
// swept.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
