package blobstore

import (
	"context"
	"sync"
)

// MemoryStore — blob-хранилище в памяти. Безопасно для
// конкурентного использования.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryStore создаёт пустое хранилище в памяти.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string][]byte),
	}
}

// Store сохраняет содержимое под ключом. Повторная запись по тому же
// ключу перезаписывает объект.
func (m *MemoryStore) Store(_ context.Context, key string, content []byte) (string, error) {
	data := make([]byte, len(content))
	copy(data, content)

	m.mu.Lock()
	m.objects[key] = data
	m.mu.Unlock()

	return "memory://" + key, nil
}

// Get возвращает содержимое по ключу.
func (m *MemoryStore) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.objects[key]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true
}

// Len возвращает количество сохранённых объектов.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

// Ping всегда успешен для хранилища в памяти.
func (m *MemoryStore) Ping(_ context.Context) error {
	return nil
}

var _ BlobStore = (*MemoryStore)(nil)
