package s3mock

import (
	"context"
	"strings"
	"sync"

	infra_s3 "github.com/humanbelnik/kinoreview/internal/infra/s3"
	"github.com/humanbelnik/kinoreview/internal/model"
)

// S3Storage keeps posters in memory. It backs poster uploads when no object
// storage is configured.
type S3Storage struct {
	mu        sync.RWMutex
	objects   map[string][]byte
	prefix    string
	publicURL string
}

func New(prefix, publicURL string) *S3Storage {
	return &S3Storage{
		objects:   make(map[string][]byte),
		prefix:    prefix,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (s *S3Storage) Save(ctx context.Context, obj *model.Poster, readyKey *string) (string, error) {
	key := infra_s3.BuildKey(s.prefix, obj.GetParent(), obj.GetFilename())
	if readyKey != nil {
		key = *readyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), obj.GetContent()...)
	return key, nil
}

func (s *S3Storage) Load(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	return data, ok
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *S3Storage) URL(key string) string {
	if s.publicURL != "" {
		return s.publicURL + "/" + key
	}
	return "/" + key
}
