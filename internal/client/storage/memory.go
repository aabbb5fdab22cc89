package storage

import (
	"context"
	"maps"
	"sync"

	"github.com/dmitrijs2005/tabclient/internal/common"
)

// Memory is a process-local Store.
type Memory struct {
	mu     sync.RWMutex
	data   map[string]string
	closed bool
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", false, common.ErrClosed
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return common.ErrClosed
	}
	m.data[key] = value
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return common.ErrClosed
	}
	delete(m.data, key)
	return nil
}

// Update applies fn to a copy and swaps it in only when fn succeeds.
func (m *Memory) Update(ctx context.Context, fn func(ctx context.Context, kv KV) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return common.ErrClosed
	}

	draft := memoryTx(maps.Clone(m.data))
	if err := fn(ctx, draft); err != nil {
		return err
	}
	m.data = draft
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// memoryTx is the unlocked view handed to Update callbacks.
type memoryTx map[string]string

func (t memoryTx) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := t[key]
	return v, ok, nil
}

func (t memoryTx) Set(_ context.Context, key, value string) error {
	t[key] = value
	return nil
}

func (t memoryTx) Remove(_ context.Context, key string) error {
	delete(t, key)
	return nil
}
