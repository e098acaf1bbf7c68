package adapters

import (
	"narration-video-pipeline/application/ports/outbound"
	"sync"

	"github.com/google/uuid"
)

const blobURLPrefix = "/blobs/"

// memoryBlobStore keeps session binary data in process memory behind opaque
// handles, the stand-in for browser object URLs. Revoke frees the bytes.
type memoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string]outbound.Blob
}

func NewMemoryBlobStore() outbound.BlobStorePort {
	return &memoryBlobStore{
		blobs: make(map[string]outbound.Blob),
	}
}

func (m *memoryBlobStore) Put(data []byte, mimeType string) string {
	url := blobURLPrefix + uuid.NewString()
	m.mu.Lock()
	m.blobs[url] = outbound.Blob{Data: data, MimeType: mimeType}
	m.mu.Unlock()
	return url
}

func (m *memoryBlobStore) Get(url string) (outbound.Blob, bool) {
	m.mu.RLock()
	blob, ok := m.blobs[url]
	m.mu.RUnlock()
	return blob, ok
}

func (m *memoryBlobStore) Revoke(url string) {
	m.mu.Lock()
	delete(m.blobs, url)
	m.mu.Unlock()
}
