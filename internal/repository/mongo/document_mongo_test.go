package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/h3yzack/aurasage-document-service/internal/model"
)

func TestRecordMapping(t *testing.T) {
	doc := model.Document{
		ID:          "doc-1",
		OwnerID:     "u1",
		FileName:    "report.pdf",
		ContentType: "application/pdf",
		SizeInBytes: 2048,
		FilePath:    "u1/doc-1.pdf",
		FileHash:    "abc123",
		Status:      model.StatusUploaded,
		UploadDate:  time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}

	t.Run("round trip preserves every field", func(t *testing.T) {
		got := toRecord(&doc).toModel()
		assert.Equal(t, doc, got)
	})

	t.Run("status is stored as its string value", func(t *testing.T) {
		rec := toRecord(&doc)
		assert.Equal(t, "UPLOADED", rec.Status)
	})
}
