// Package repository contains the persistence contract for documents.
// Implementations live in subpackages (postgres, mongo, redis) and must be
// interchangeable: the service layer never branches on backend identity.
package repository

import (
	"context"
	"errors"

	"github.com/h3yzack/aurasage-document-service/internal/model"
)

// ErrNotFound is returned by every backend when the requested document id
// does not exist. Backends translate their native not-found signal
// (sql.ErrNoRows, mongo.ErrNoDocuments, redis.Nil) to this sentinel.
var ErrNotFound = errors.New("document not found")

// DocumentRepository defines data access for documents.
// No business logic here — strictly persistence operations.
type DocumentRepository interface {
	// Save upserts a document by ID. If the ID is unset, the backend assigns
	// one. The upsert must be atomic per id: concurrent saves on the same id
	// may race but must never produce duplicate records.
	// Returns the persisted representation.
	Save(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// FindAllByOwner returns every document owned by ownerID. Order is not
	// specified; an empty slice means the owner has no documents.
	FindAllByOwner(ctx context.Context, ownerID string) ([]model.Document, error)

	// DeleteByID removes a document by ID. Returns ErrNotFound if no record
	// with that id exists.
	DeleteByID(ctx context.Context, id string) error
}
