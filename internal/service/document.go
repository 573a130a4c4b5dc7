package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/h3yzack/aurasage-document-service/internal/event"
	"github.com/h3yzack/aurasage-document-service/internal/model"
	"github.com/h3yzack/aurasage-document-service/internal/repository"
	"github.com/h3yzack/aurasage-document-service/internal/storage"
)

var (
	ErrOwnerRequired    = errors.New("owner id is required")
	ErrIDRequired       = errors.New("id is required")
	ErrFileNameRequired = errors.New("file name is required")
	ErrNotFound         = errors.New("document not found")
	// ErrNotReady rejects downloads of documents whose upload has not been
	// confirmed by storage yet.
	ErrNotReady = errors.New("document is not available for download")
	// ErrStorageUnavailable wraps failures and timeouts of the external
	// storage client. Callers may retry.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrPersistenceUnavailable wraps failures of the metadata backing
	// store. Callers may retry.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
)

// UploadRequest is what a client submits to initiate an upload.
type UploadRequest struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	SizeInBytes int64  `json:"size_in_bytes"`
}

// UploadResult carries the created document id and the presigned upload URL.
// The raw object key is never returned to the caller.
type UploadResult struct {
	ID                 string `json:"id"`
	PresignedUploadURL string `json:"presigned_upload_url"`
}

// DownloadResult carries the presigned download URL for a confirmed document.
type DownloadResult struct {
	ID                   string `json:"id"`
	PresignedDownloadURL string `json:"presigned_download_url"`
}

// DocumentService defines the document lifecycle use cases.
type DocumentService interface {
	// InitiateUpload persists a PENDING_UPLOAD document for ownerID and
	// returns a presigned upload URL for its object key.
	InitiateUpload(ctx context.Context, req UploadRequest, ownerID string) (*UploadResult, error)

	// List returns every document owned by ownerID.
	List(ctx context.Context, ownerID string) ([]model.Document, error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, id string) (*model.Document, error)

	// RequestDownload returns a presigned download URL for a document whose
	// upload has been confirmed.
	RequestDownload(ctx context.Context, id string) (*DownloadResult, error)

	// Delete removes the metadata record and, when purge is set, hands the
	// object off for best-effort storage cleanup.
	Delete(ctx context.Context, id string, purge bool) error

	// ApplyStorageEvent folds a storage-completion notification into the
	// referenced document. Idempotent; safe under at-least-once delivery.
	ApplyStorageEvent(ctx context.Context, ev event.StorageEvent) error
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	repo      repository.DocumentRepository
	store     storage.Storage
	publisher event.Publisher
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(repo repository.DocumentRepository, store storage.Storage, publisher event.Publisher) DocumentService {
	if publisher == nil {
		publisher = event.NopPublisher{}
	}
	return &documentService{repo: repo, store: store, publisher: publisher}
}

func (s *documentService) InitiateUpload(ctx context.Context, req UploadRequest, ownerID string) (*UploadResult, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}
	if req.FileName == "" {
		return nil, ErrFileNameRequired
	}

	// The id is generated up front: the object key embeds it, and the key
	// must be stored before the external call.
	id := uuid.NewString()
	ext := filepath.Ext(req.FileName)

	doc := &model.Document{
		ID:          id,
		OwnerID:     ownerID,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		SizeInBytes: req.SizeInBytes,
		FilePath:    model.ObjectKey(ownerID, id, ext),
		Status:      model.StatusPendingUpload,
		UploadDate:  time.Now().UTC(),
	}

	saved, err := s.repo.Save(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%w: save document: %v", ErrPersistenceUnavailable, err)
	}

	// The record intentionally stays in PENDING_UPLOAD on presign failure:
	// a later event or client retry can still complete it.
	uploadURL, err := s.store.PresignPut(ctx, saved.FilePath)
	if err != nil {
		return nil, fmt.Errorf("%w: presign upload for %s: %v", ErrStorageUnavailable, saved.ID, err)
	}

	return &UploadResult{ID: saved.ID, PresignedUploadURL: uploadURL}, nil
}

// List returns documents owned by ownerID.
func (s *documentService) List(ctx context.Context, ownerID string) ([]model.Document, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}
	docs, err := s.repo.FindAllByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: list documents: %v", ErrPersistenceUnavailable, err)
	}
	return docs, nil
}

// Get returns a document by ID.
func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: find document: %v", ErrPersistenceUnavailable, err)
	}
	return doc, nil
}

func (s *documentService) RequestDownload(ctx context.Context, id string) (*DownloadResult, error) {
	if id == "" {
		return nil, ErrIDRequired
	}

	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: find document: %v", ErrPersistenceUnavailable, err)
	}

	if doc.Status == model.StatusPendingUpload || doc.FilePath == "" {
		return nil, fmt.Errorf("%w: upload not confirmed for %s", ErrNotReady, doc.ID)
	}

	// No lock is held here; the presign call may block on I/O.
	downloadURL, err := s.store.PresignGet(ctx, doc.FilePath, doc.FileName)
	if err != nil {
		return nil, fmt.Errorf("%w: presign download for %s: %v", ErrStorageUnavailable, doc.ID, err)
	}

	return &DownloadResult{ID: doc.ID, PresignedDownloadURL: downloadURL}, nil
}

// Delete verifies the document exists, erases the metadata record, then
// publishes a deletion event for asynchronous storage cleanup. The metadata
// deletion is never rolled back: an orphaned object is preferable to a
// dangling reference.
func (s *documentService) Delete(ctx context.Context, id string, purge bool) error {
	if id == "" {
		return ErrIDRequired
	}

	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: find document: %v", ErrPersistenceUnavailable, err)
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Lost the race with a concurrent delete; the outcome stands.
			return ErrNotFound
		}
		return fmt.Errorf("%w: delete document: %v", ErrPersistenceUnavailable, err)
	}

	if !purge || doc.FilePath == "" {
		return nil
	}

	ev := event.DocumentDeletedEvent{
		EventID:    uuid.NewString(),
		Timestamp:  time.Now().UTC(),
		DocumentID: doc.ID,
		ObjectKey:  doc.FilePath,
	}
	if err := s.publisher.PublishDeleted(ctx, ev); err != nil {
		// Best-effort cleanup: the caller's deletion already succeeded.
		logJSON(map[string]any{
			"component":     "document_service",
			"event":         "deletion_publish_failed",
			"level":         "error",
			"document_id":   doc.ID,
			"object_key":    doc.FilePath,
			"error_message": err.Error(),
		})
	}
	return nil
}

func (s *documentService) ApplyStorageEvent(ctx context.Context, ev event.StorageEvent) error {
	if !ev.IsObjectCreated() {
		return nil
	}

	id := model.DocumentIDFromKey(ev.ObjectKey)
	if id == "" {
		logJSON(map[string]any{
			"component":  "document_service",
			"event":      "event_anomaly",
			"object_key": ev.ObjectKey,
			"msg":        "no document id in object key",
		})
		return nil
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Unknown or already-deleted document. Completing without error
			// keeps the transport from redelivering a poison message; the
			// anomaly is recorded for operational visibility.
			logJSON(map[string]any{
				"component":   "document_service",
				"event":       "event_anomaly",
				"document_id": id,
				"object_key":  ev.ObjectKey,
				"msg":         "completion event for missing document",
			})
			return nil
		}
		// Persistence failures propagate so the transport redelivers.
		return fmt.Errorf("%w: find document %s: %v", ErrPersistenceUnavailable, id, err)
	}

	merged := existing.Merge(model.Document{
		ID:          id,
		FilePath:    ev.ObjectKey,
		FileHash:    ev.Digest,
		SizeInBytes: ev.Size,
		ContentType: ev.ContentType,
		Status:      model.StatusUploaded,
	})

	if merged == *existing {
		// Redelivered event with nothing new to apply.
		return nil
	}

	if _, err := s.repo.Save(ctx, &merged); err != nil {
		return fmt.Errorf("%w: save document %s: %v", ErrPersistenceUnavailable, id, err)
	}

	logJSON(map[string]any{
		"component":   "document_service",
		"event":       "upload_confirmed",
		"document_id": id,
		"status":      string(merged.Status),
	})
	return nil
}
