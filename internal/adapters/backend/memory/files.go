package memory

import (
	"context"
	"io"
	"net/http"
	"sync"

	"pet-services-marketplace/internal/ports/backend"
)

// FileStore en memoria: guarda los bytes por bucket/path y devuelve URLs
// sintéticas. Suficiente para que los flujos de avatar/documentos corran en demo.
type FileStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewFileStore() *FileStore {
	return &FileStore{objects: make(map[string][]byte)}
}

func (s *FileStore) Upload(ctx context.Context, bucket, path string, r io.Reader, contentType string) (string, error) {
	if bucket == "" || path == "" {
		return "", backend.Errf(backend.KindUpstream, http.StatusBadRequest, "mocked DB: bucket and path are required")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", backend.Errf(backend.KindUpstream, 0, "mocked DB: read upload: %v", err)
	}

	key := bucket + "/" + path
	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()

	return s.PublicURL(bucket, path), nil
}

func (s *FileStore) PublicURL(bucket, path string) string {
	return "memory://" + bucket + "/" + path
}

// Object devuelve los bytes subidos; lo usan los tests.
func (s *FileStore) Object(bucket, path string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[bucket+"/"+path]
	return data, ok
}
