package storage

import (
	"context"
	"sync"
)

var _ Backend = (*MemoryBackend)(nil)

type MemoryBackend struct {
	values map[string][]byte
	mutex  sync.RWMutex
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		values: make(map[string][]byte),
	}
}

func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	m.mutex.RLock()
	defer m.mutex.RUnlock()

	val, ok := m.values[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), val...), nil
}

func (m *MemoryBackend) Set(_ context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryBackend) Remove(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	delete(m.values, key)
	return nil
}

func (m *MemoryBackend) Driver() Driver {
	return DriverMemory
}

func (m *MemoryBackend) Close() error {
	return nil
}
