// Package cloudinary implementa backend.FileStore sobre Cloudinary, para
// deployments que prefieren un CDN de imágenes en vez del storage del backend.
package cloudinary

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type FileStore struct {
	cld *cloudinary.Cloudinary

	mu      sync.RWMutex
	byRef   map[string]string // bucket/path -> secure URL resuelta al subir
}

func New(cloudName, apiKey, apiSecret string) (*FileStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &FileStore{
		cld:   cld,
		byRef: make(map[string]string),
	}, nil
}

func (s *FileStore) Upload(ctx context.Context, bucket, path string, r io.Reader, contentType string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("cloudinary read upload: %w", err)
	}

	res, err := s.cld.Upload.Upload(ctx, data, uploader.UploadParams{
		Folder:       bucket,
		PublicID:     publicID(path),
		ResourceType: "auto",
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}

	s.mu.Lock()
	s.byRef[bucket+"/"+path] = res.SecureURL
	s.mu.Unlock()

	return res.SecureURL, nil
}

func (s *FileStore) PublicURL(bucket, path string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byRef[bucket+"/"+path]
}

// publicID quita la extensión: Cloudinary la agrega según el formato real.
func publicID(path string) string {
	if i := strings.LastIndex(path, "."); i > 0 {
		return path[:i]
	}
	return path
}
