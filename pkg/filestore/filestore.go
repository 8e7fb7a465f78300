// Package filestore stores uploaded attachments. The disk
// implementation is the default; the interface keeps handlers
// independent of the backing store.
package filestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/atelier-hq/workplane/pkg/config"
	"github.com/atelier-hq/workplane/pkg/logutils"
)

// Object describes a stored file.
type Object struct {
	Key         string
	URL         string
	ContentType string
	Size        int64
}

type Service interface {
	Save(ctx context.Context, fileName string, r io.Reader) (*Object, error)
	Remove(ctx context.Context, key string) error
}

type diskStore struct {
	root    string
	baseURL string
}

func NewDiskStore() Service {
	c := config.GetConfig()
	root := c.Storage.UploadDir
	if root == "" {
		root = "./uploads"
	}
	return &diskStore{root: root, baseURL: c.Storage.BaseURL}
}

func (s *diskStore) Save(_ context.Context, fileName string, r io.Reader) (*Object, error) {
	// A random key keeps uploads with colliding names apart and avoids
	// trusting the client-supplied path.
	key := uuid.NewString() + filepath.Ext(fileName)
	if err := os.MkdirAll(s.root, 0o750); err != nil {
		return nil, err
	}

	f, err := os.Create(filepath.Join(s.root, key))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		return nil, err
	}

	logutils.Log.WithFields(logutils.Fields{"key": key, "size": size}).Debug("stored file")
	return &Object{
		Key:         key,
		URL:         fmt.Sprintf("%s/%s", s.baseURL, key),
		ContentType: ContentTypeOf(fileName),
		Size:        size,
	}, nil
}

func (s *diskStore) Remove(_ context.Context, key string) error {
	return os.Remove(filepath.Join(s.root, filepath.Base(key)))
}
