package testhelpers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/pageza/recipebook/backend/internal/service"
)

// MemoryMediaStore keeps uploads in a map.
type MemoryMediaStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Deleted []string
	FailPut bool
}

func NewMemoryMediaStore() *MemoryMediaStore {
	return &MemoryMediaStore{Objects: map[string][]byte{}}
}

func (m *MemoryMediaStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailPut {
		return "", errors.New("storage unavailable")
	}
	url := "https://media.test/" + key
	m.Objects[url] = append([]byte(nil), data...)
	return url, nil
}

func (m *MemoryMediaStore) Delete(ctx context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, url)
	m.Deleted = append(m.Deleted, url)
	return nil
}

// Len returns the number of stored objects.
func (m *MemoryMediaStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Objects)
}

// PNGBytes is a minimal payload recognised as image/png.
var PNGBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR"), make([]byte, 32)...)

// ImageUpload returns an in-memory PNG upload.
func ImageUpload(name string) *service.Upload {
	return upload(name, PNGBytes)
}

// TextUpload returns an upload whose content is plain text.
func TextUpload(name string) *service.Upload {
	return upload(name, []byte("definitely not an image"))
}

func upload(name string, data []byte) *service.Upload {
	return &service.Upload{
		Filename: name,
		Size:     int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}
