// Package storage brokers indirect access to an S3-compatible object store.
// File bytes never pass through this service: clients upload and download
// directly against presigned URLs, and the only mutating call issued from
// here is object deletion.
package storage

import (
	"context"
)

// Storage is the external object-store client contract.
// All calls are bounded by the configured timeout; implementations translate
// backend failures into plain errors for the service layer to classify.
type Storage interface {
	// PresignPut returns a time-limited URL allowing a client to upload the
	// object under key without credentials.
	PresignPut(ctx context.Context, key string) (string, error)
	// PresignGet returns a time-limited download URL for the object under
	// key. fileName, when non-empty, is served back as the attachment name.
	PresignGet(ctx context.Context, key string, fileName string) (string, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
}
