package storage

import (
	"context"
	"io"
)

// ProofStorage keeps the transfer receipts residents attach to payments.
// Keys are opaque to callers and end up in payments.proof_ref.
type ProofStorage interface {
	// Save stores the receipt and returns its key
	// contentType: MIME type (e.g., "image/jpeg")
	Save(ctx context.Context, residentID int32, contentType string, r io.Reader) (string, error)

	// Open returns the stored receipt and its content type
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)

	// Exists checks if a receipt exists and returns its size
	Exists(ctx context.Context, key string) (exists bool, size int64, err error)

	// Delete removes a receipt
	Delete(ctx context.Context, key string) error
}
