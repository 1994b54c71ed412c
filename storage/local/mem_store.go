package local

import "sync"

// MemStore is an in-memory Store that never writes to disk.
type MemStore struct {
	mu     sync.RWMutex
	values map[string]string
	failOn map[string]error
}

func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string]string), failOn: make(map[string]error)}
}

func (m *MemStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failOn[key]; err != nil {
		return err
	}
	m.values[key] = value
	return nil
}

func (m *MemStore) Remove(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

// FailWrites makes every later Set of key return err (nil restores normal writes).
func (m *MemStore) FailWrites(key string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failOn, key)
		return
	}
	m.failOn[key] = err
}

// Snapshot returns a copy of every stored value.
func (m *MemStore) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cp := make(map[string]string, len(m.values))
	for k, v := range m.values {
		cp[k] = v
	}
	return cp
}

var _ Store = (*MemStore)(nil)
