package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

type memoryObject struct {
	data         []byte
	contentType  string
	lastModified time.Time
}

// MemoryStorage keeps blobs in process memory. Development and tests only.
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	now     func() time.Time
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		objects: make(map[string]memoryObject),
		now:     time.Now,
	}
}

// WithClock overrides the clock used for LastModified.
func (s *MemoryStorage) WithClock(now func() time.Time) *MemoryStorage {
	s.now = now
	return s
}

func (s *MemoryStorage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read object body: %w", err)
	}
	if size >= 0 && int64(len(data)) != size {
		return fmt.Errorf("object %q: read %d bytes, expected %d", key, len(data), size)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = memoryObject{
		data:         data,
		contentType:  contentType,
		lastModified: s.now(),
	}
	return nil
}

func (s *MemoryStorage) Get(ctx context.Context, key string) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrObjectNotFound
	}

	return &Object{
		Body:        io.NopCloser(bytes.NewReader(obj.data)),
		ContentType: obj.contentType,
		Size:        int64(len(obj.data)),
	}, nil
}

func (s *MemoryStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *MemoryStorage) List(ctx context.Context) ([]ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	objects := make([]ObjectInfo, 0, len(s.objects))
	for key, obj := range s.objects {
		objects = append(objects, ObjectInfo{
			Key:          key,
			Size:         int64(len(obj.data)),
			LastModified: obj.lastModified,
		})
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}

// Len reports how many blobs are stored.
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
