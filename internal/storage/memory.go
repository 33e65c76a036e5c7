package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrObjectNotFound is returned for a key the archive does not hold.
var ErrObjectNotFound = errors.New("object not found in archive")

// memoryArchive implements PlanArchive in memory. Used in tests and when no
// object storage is configured.
type memoryArchive struct {
	mu      sync.Mutex
	objects map[string][]byte
}

// NewMemoryArchive creates an in-memory plan archive.
func NewMemoryArchive() PlanArchive {
	return &memoryArchive{objects: make(map[string][]byte)}
}

func (a *memoryArchive) SaveDocument(ctx context.Context, objectKey string, body []byte, contentType string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.objects[objectKey] = append([]byte(nil), body...)
	return nil
}

func (a *memoryArchive) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.objects[objectKey]; !ok {
		return "", ErrObjectNotFound
	}
	return fmt.Sprintf("memory://%s", objectKey), nil
}

func (a *memoryArchive) DeleteObject(ctx context.Context, objectKey string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.objects, objectKey)
	return nil
}
