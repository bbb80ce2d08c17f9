package store

import (
	"context"
	"sync"
)

// MemoryStore 以 map 實作的 Store，供測試與單機部署使用。
// Update 先把寫入暫存在 overlay，fn 成功才合併回主 map。
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) View(ctx context.Context, fn func(tx Txn) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&memoryTxn{data: s.data, readOnly: true})
}

func (s *MemoryStore) Update(ctx context.Context, fn func(tx Txn) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTxn{
		data:    s.data,
		writes:  make(map[string][]byte),
		deletes: make(map[string]bool),
	}
	if err := fn(tx); err != nil {
		return err
	}

	// 提交暫存的寫入
	for key, value := range tx.writes {
		s.data[key] = value
	}
	for key := range tx.deletes {
		delete(s.data, key)
	}
	return nil
}

type memoryTxn struct {
	data     map[string][]byte
	writes   map[string][]byte
	deletes  map[string]bool
	readOnly bool
}

func (t *memoryTxn) Get(ctx context.Context, key string) ([]byte, error) {
	if !t.readOnly {
		if t.deletes[key] {
			return nil, ErrKeyNotFound
		}
		if value, ok := t.writes[key]; ok {
			return cloneBytes(value), nil
		}
	}
	value, ok := t.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return cloneBytes(value), nil
}

func (t *memoryTxn) Put(ctx context.Context, key string, value []byte) error {
	if t.readOnly {
		return ErrReadOnlyTxn
	}
	delete(t.deletes, key)
	t.writes[key] = cloneBytes(value)
	return nil
}

func (t *memoryTxn) Delete(ctx context.Context, key string) error {
	if t.readOnly {
		return ErrReadOnlyTxn
	}
	delete(t.writes, key)
	t.deletes[key] = true
	return nil
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
