package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"pending to uploaded", StatusPendingUpload, StatusUploaded, true},
		{"pending to processing", StatusPendingUpload, StatusProcessing, true},
		{"pending to completed", StatusPendingUpload, StatusCompleted, true},
		{"pending to deleted", StatusPendingUpload, StatusDeleted, true},
		{"uploaded to processing", StatusUploaded, StatusProcessing, true},
		{"processing to completed", StatusProcessing, StatusCompleted, true},
		{"processing to failed", StatusProcessing, StatusFailed, true},
		{"completed to deleted", StatusCompleted, StatusDeleted, true},
		{"failed to deleted", StatusFailed, StatusDeleted, true},
		{"same status is a no-op", StatusUploaded, StatusUploaded, true},
		{"uploaded back to pending", StatusUploaded, StatusPendingUpload, false},
		{"completed back to uploaded", StatusCompleted, StatusUploaded, false},
		{"completed to failed same rank", StatusCompleted, StatusFailed, false},
		{"deleted is terminal", StatusDeleted, StatusUploaded, false},
		{"unknown target", StatusUploaded, Status("ARCHIVED"), false},
		{"unknown source", Status(""), StatusUploaded, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestDocumentMerge(t *testing.T) {
	uploaded := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	stored := Document{
		ID:          "doc-1",
		OwnerID:     "u1",
		FileName:    "report.pdf",
		ContentType: "application/pdf",
		SizeInBytes: 100,
		FilePath:    "u1/doc-1.pdf",
		Status:      StatusPendingUpload,
		UploadDate:  uploaded,
	}

	t.Run("selective merge keeps unset fields", func(t *testing.T) {
		partial := Document{
			ID:          "doc-1",
			FilePath:    "u1/doc-1.pdf",
			FileHash:    "abc123",
			SizeInBytes: 2048576,
			ContentType: "application/pdf",
			Status:      StatusUploaded,
		}
		merged := stored.Merge(partial)

		assert.Equal(t, "u1", merged.OwnerID)
		assert.Equal(t, "report.pdf", merged.FileName)
		assert.Equal(t, uploaded, merged.UploadDate)
		assert.Equal(t, "abc123", merged.FileHash)
		assert.Equal(t, int64(2048576), merged.SizeInBytes)
		assert.Equal(t, StatusUploaded, merged.Status)
	})

	t.Run("merge is idempotent", func(t *testing.T) {
		partial := Document{FileHash: "abc123", SizeInBytes: 2048576, Status: StatusUploaded}
		once := stored.Merge(partial)
		twice := once.Merge(partial)
		assert.Equal(t, once, twice)
	})

	t.Run("status never regresses", func(t *testing.T) {
		completed := stored
		completed.Status = StatusCompleted
		merged := completed.Merge(Document{Status: StatusUploaded, FileHash: "abc123"})
		assert.Equal(t, StatusCompleted, merged.Status)
		assert.Equal(t, "abc123", merged.FileHash)
	})

	t.Run("empty partial changes nothing", func(t *testing.T) {
		assert.Equal(t, stored, stored.Merge(Document{}))
	})
}

func TestObjectKeyRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		ownerID string
		docID   string
		ext     string
		wantKey string
	}{
		{"with extension", "u1", "d42", ".pdf", "u1/d42.pdf"},
		{"without extension", "u1", "d42", "", "u1/d42"},
		{"uuid id", "owner-7", "3f1c9b2e-0b8a-4c51-9a57-1f2d3e4a5b6c", ".tar.gz", "owner-7/3f1c9b2e-0b8a-4c51-9a57-1f2d3e4a5b6c.tar.gz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := ObjectKey(tt.ownerID, tt.docID, tt.ext)
			assert.Equal(t, tt.wantKey, key)
			if tt.ext != ".tar.gz" {
				assert.Equal(t, tt.docID, DocumentIDFromKey(key))
			}
		})
	}
}

func TestDocumentIDFromKey(t *testing.T) {
	assert.Equal(t, "d42", DocumentIDFromKey("u1/d42.pdf"))
	assert.Equal(t, "d42", DocumentIDFromKey("u1/d42"))
	assert.Equal(t, "d42", DocumentIDFromKey("d42.pdf"))
	assert.Equal(t, "", DocumentIDFromKey("u1/"))
	assert.Equal(t, "", DocumentIDFromKey(""))
}
