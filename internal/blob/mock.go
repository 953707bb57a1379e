package blob

import (
	"context"
	"fmt"
	"sync"
)

// MockStore provides an in-memory implementation for testing when no
// bucket is available. Individual calls can be forced to fail.
type MockStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	seq     int

	FailStore  bool
	FailDelete bool
	MaxSize    int64

	StoreCalls  int
	DeleteCalls []string
}

func NewMockStore() *MockStore {
	return &MockStore{
		objects: make(map[string][]byte),
		MaxSize: 10 << 20,
	}
}

func (m *MockStore) Store(ctx context.Context, data []byte, mimeType, folder string) (Stored, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StoreCalls++
	if m.FailStore {
		return Stored{}, ErrStorageUnavailable
	}
	if int64(len(data)) > m.MaxSize {
		return Stored{}, ErrPayloadTooLarge
	}

	m.seq++
	handle := fmt.Sprintf("%s/mock-%d", folder, m.seq)
	m.objects[handle] = data
	return Stored{
		URL:    "https://blobs.test/" + handle,
		Handle: handle,
	}, nil
}

func (m *MockStore) Delete(ctx context.Context, handle string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls = append(m.DeleteCalls, handle)
	if m.FailDelete {
		return ErrStorageUnavailable
	}
	if _, ok := m.objects[handle]; !ok {
		return ErrNotFound
	}
	delete(m.objects, handle)
	return nil
}

// Len returns the number of stored objects.
func (m *MockStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
