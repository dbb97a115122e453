package store

import (
	"sync"

	"github.com/always-cache/cache-directive/rules"
)

type memEntry struct {
	id   int64
	rule []byte
}

// MemStore keeps rules in memory. The zero value is ready to use.
type MemStore struct {
	mu      sync.RWMutex
	entries []memEntry
	lastId  int64
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (m *MemStore) All() (rules.Rules, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := make(rules.Rules, 0, len(m.entries))
	for _, e := range m.entries {
		rule, err := decodeRule(e.rule)
		if err != nil {
			return nil, err
		}
		all = append(all, rule)
	}
	return all, nil
}

func (m *MemStore) Add(rule rules.Rule) (int64, error) {
	b, err := encodeRule(rule)
	if err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastId++
	m.entries = append(m.entries, memEntry{id: m.lastId, rule: b})
	return m.lastId, nil
}

func (m *MemStore) Remove(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.entries {
		if e.id == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemStore) Replace(all rules.Rules) error {
	encoded := make([][]byte, 0, len(all))
	for _, rule := range all {
		b, err := encodeRule(rule)
		if err != nil {
			return err
		}
		encoded = append(encoded, b)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := make([]memEntry, 0, len(encoded))
	for _, b := range encoded {
		m.lastId++
		entries = append(entries, memEntry{id: m.lastId, rule: b})
	}
	m.entries = entries
	return nil
}
