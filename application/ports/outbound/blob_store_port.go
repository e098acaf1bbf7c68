package outbound

// Blob is binary data held in memory for the session.
type Blob struct {
	Data     []byte
	MimeType string
}

// BlobStorePort hands out opaque, locally resolvable handles to session
// binary data. Handles must be revoked when superseded or the data leaks
// for the process lifetime.
type BlobStorePort interface {
	Put(data []byte, mimeType string) string
	Get(url string) (Blob, bool)
	Revoke(url string)
}
