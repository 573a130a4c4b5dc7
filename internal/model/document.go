package model

import (
	"path"
	"strings"
	"time"
)

// Status is the lifecycle state of a document.
type Status string

const (
	// StatusPendingUpload is the initial state: metadata exists, bytes may not.
	StatusPendingUpload Status = "PENDING_UPLOAD"
	// StatusUploaded means storage confirmed the object is present.
	StatusUploaded Status = "UPLOADED"
	// StatusProcessing means the object is present but not yet usable.
	StatusProcessing Status = "PROCESSING"
	// StatusCompleted means the document is ready for download.
	StatusCompleted Status = "COMPLETED"
	// StatusFailed means processing ended with an error.
	StatusFailed Status = "FAILED"
	// StatusDeleted is terminal; the record is physically removed afterwards.
	StatusDeleted Status = "DELETED"
)

// statusRank orders the lifecycle. Transitions may only move to a strictly
// higher rank; equal rank with equal status is a no-op.
var statusRank = map[Status]int{
	StatusPendingUpload: 0,
	StatusUploaded:      1,
	StatusProcessing:    2,
	StatusCompleted:     3,
	StatusFailed:        3,
	StatusDeleted:       4,
}

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next is allowed.
// Re-asserting the current status is allowed (idempotent event redelivery);
// moving backward is not.
func (s Status) CanTransitionTo(next Status) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	if s == StatusDeleted {
		return false
	}
	return statusRank[next] > statusRank[s]
}

// Document represents a stored file in the system.
// This is a pure domain model with no database-specific dependencies or tags;
// backend packages map it to their own representations.
type Document struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeInBytes int64     `json:"size_in_bytes"`
	FilePath    string    `json:"file_path"`
	FileHash    string    `json:"file_hash,omitempty"`
	Status      Status    `json:"status"`
	UploadDate  time.Time `json:"upload_date"`
}

// Merge copies the set (non-zero) fields of partial onto d and returns the
// result as a new record. Absent fields in partial never clobber existing
// values, and Status only moves forward through the lifecycle.
func (d Document) Merge(partial Document) Document {
	out := d
	if partial.FileName != "" {
		out.FileName = partial.FileName
	}
	if partial.ContentType != "" {
		out.ContentType = partial.ContentType
	}
	if partial.SizeInBytes > 0 {
		out.SizeInBytes = partial.SizeInBytes
	}
	if partial.FilePath != "" {
		out.FilePath = partial.FilePath
	}
	if partial.FileHash != "" {
		out.FileHash = partial.FileHash
	}
	if partial.Status != "" && d.Status.CanTransitionTo(partial.Status) {
		out.Status = partial.Status
	}
	return out
}

// ObjectKey builds the canonical storage key for a document:
// ownerID/documentID[.ext]. ext must include its leading dot or be empty.
// DocumentIDFromKey is the inverse; the two must stay in sync.
func ObjectKey(ownerID, documentID, ext string) string {
	return ownerID + "/" + documentID + ext
}

// DocumentIDFromKey extracts the document id embedded in an object key:
// the path segment after the last '/', stripped of its extension.
func DocumentIDFromKey(key string) string {
	name := key
	if i := strings.LastIndexByte(key, '/'); i >= 0 {
		name = key[i+1:]
	}
	return strings.TrimSuffix(name, path.Ext(name))
}
