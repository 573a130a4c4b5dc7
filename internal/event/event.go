// Package event carries the asynchronous flows around the document
// lifecycle: storage-completion notifications flowing in, and deletion
// events flowing out to the best-effort purge worker.
package event

import (
	"context"
	"strings"
	"time"
)

// objectCreatedPrefix matches every S3 object-created variant
// (Put, Post, Copy, CompleteMultipartUpload).
const objectCreatedPrefix = "s3:ObjectCreated:"

// StorageEvent is a single storage notification record in the shape the
// object store emits: the event kind plus the authoritative object metadata.
type StorageEvent struct {
	Kind        string `json:"kind"`
	ObjectKey   string `json:"object_key"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	Digest      string `json:"digest"`
}

// IsObjectCreated reports whether the event confirms an object landed in
// storage. Every other kind is ignored by the reconciliation path.
func (e StorageEvent) IsObjectCreated() bool {
	return strings.HasPrefix(e.Kind, objectCreatedPrefix)
}

// DocumentDeletedEvent is published after a document's metadata has been
// removed so the object bytes can be purged asynchronously.
type DocumentDeletedEvent struct {
	EventID    string    `json:"event_id"`
	Timestamp  time.Time `json:"timestamp"`
	DocumentID string    `json:"document_id"`
	ObjectKey  string    `json:"object_key"`
}

// Publisher emits deletion events to a downstream consumer. A publish
// failure must never fail the caller's deletion request; callers log and
// move on.
type Publisher interface {
	PublishDeleted(ctx context.Context, ev DocumentDeletedEvent) error
}
