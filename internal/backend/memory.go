package backend

import (
	"context"
	"fmt"
	"sync"
)

// Memory is a Resource held in process memory. It is used by tests and by
// the memory driver for throwaway runs. Failures can be injected with
// FailLoad and FailStore.
type Memory struct {
	mu       sync.RWMutex
	data     []byte
	exists   bool
	loadErr  error
	storeErr error
	stores   int
}

// NewMemory returns a memory resource holding a copy of data. A nil data
// slice means the resource does not exist yet.
func NewMemory(data []byte) *Memory {
	m := &Memory{}
	if data != nil {
		m.data = append([]byte(nil), data...)
		m.exists = true
	}
	return m
}

func (m *Memory) Driver() Driver { return DriverMemory }

func (m *Memory) Describe() string { return "memory" }

func (m *Memory) Load(_ context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if !m.exists {
		return nil, fmt.Errorf("memory: %w", ErrNotFound)
	}
	return append([]byte(nil), m.data...), nil
}

func (m *Memory) Store(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.storeErr != nil {
		return m.storeErr
	}
	m.data = append([]byte(nil), data...)
	m.exists = true
	m.stores++
	return nil
}

// Set replaces the content as if another process had rewritten it.
func (m *Memory) Set(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	m.exists = true
}

// Bytes returns a copy of the current content.
func (m *Memory) Bytes() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]byte(nil), m.data...)
}

// Stores returns how many times Store succeeded.
func (m *Memory) Stores() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stores
}

// FailLoad makes every subsequent Load return err. A nil err clears it.
func (m *Memory) FailLoad(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

// FailStore makes every subsequent Store return err. A nil err clears it.
func (m *Memory) FailStore(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storeErr = err
}
