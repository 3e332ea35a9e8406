package storage

import (
	"context"
	"fmt"
	"io"
	"time"
)

// BlobStore keeps uploaded bank documents. Keys are slash separated.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader) (string, error) // returns canonical key
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// BankUploadKey names the archive object for a bank upload received at t.
// ext is the file extension without the dot ("json", "xml").
func BankUploadKey(courseID, ext string, t time.Time) string {
	return fmt.Sprintf("banks/%s/%s.%s", courseID, t.UTC().Format("20060102T150405.000000000Z"), ext)
}
