package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is an in-process ObjectStore for tests and local development.
type MemoryStore struct {
	mu      sync.RWMutex
	bucket  string
	objects map[string][]byte
}

func NewMemoryStore(bucket string) *MemoryStore {
	return &MemoryStore{
		bucket:  bucket,
		objects: make(map[string][]byte),
	}
}

func (s *MemoryStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	s.mu.Lock()
	s.objects[key] = buf
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	data, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}

func (s *MemoryStore) List(ctx context.Context, visit func(ObjectInfo) error) error {
	s.mu.RLock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	s.mu.RUnlock()

	sort.Strings(keys)

	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.mu.RLock()
		size := int64(len(s.objects[k]))
		s.mu.RUnlock()

		if err := visit(ObjectInfo{Key: k, Size: size}); err != nil {
			return err
		}
	}
	return nil
}

func (s *MemoryStore) URI(key string) string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, key)
}

// Len reports the number of stored objects; test helper.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
