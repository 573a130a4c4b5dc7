package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/h3yzack/aurasage-document-service/internal/model"
	"github.com/h3yzack/aurasage-document-service/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, owner_id, file_name, content_type, size_in_bytes, file_path, file_hash, doc_status, upload_date`

// Save upserts a document row. ON CONFLICT gives the per-id atomicity the
// service relies on for concurrent writers; identity fields (owner_id,
// file_name, upload_date) are never touched on update.
func (r *DocumentPostgres) Save(ctx context.Context, doc *model.Document) (*model.Document, error) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	const q = `
		INSERT INTO documents (id, owner_id, file_name, content_type, size_in_bytes, file_path, file_hash, doc_status, upload_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			content_type  = EXCLUDED.content_type,
			size_in_bytes = EXCLUDED.size_in_bytes,
			file_path     = EXCLUDED.file_path,
			file_hash     = EXCLUDED.file_hash,
			doc_status    = EXCLUDED.doc_status
		RETURNING ` + documentColumns

	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.OwnerID,
		doc.FileName,
		doc.ContentType,
		doc.SizeInBytes,
		doc.FilePath,
		doc.FileHash,
		string(doc.Status),
		doc.UploadDate,
	)
	return scanDocument(row)
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`

	doc, err := scanDocument(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// FindAllByOwner returns every document owned by ownerID.
func (r *DocumentPostgres) FindAllByOwner(ctx context.Context, ownerID string) ([]model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE owner_id = $1`

	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]model.Document, 0)
	for rows.Next() {
		var d model.Document
		var status string
		if err := rows.Scan(
			&d.ID,
			&d.OwnerID,
			&d.FileName,
			&d.ContentType,
			&d.SizeInBytes,
			&d.FilePath,
			&d.FileHash,
			&status,
			&d.UploadDate,
		); err != nil {
			return nil, err
		}
		d.Status = model.Status(status)
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// DeleteByID removes a document by ID, reporting ErrNotFound for unknown ids.
func (r *DocumentPostgres) DeleteByID(ctx context.Context, id string) error {
	const q = `DELETE FROM documents WHERE id = $1`

	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*model.Document, error) {
	var d model.Document
	var status string
	if err := row.Scan(
		&d.ID,
		&d.OwnerID,
		&d.FileName,
		&d.ContentType,
		&d.SizeInBytes,
		&d.FilePath,
		&d.FileHash,
		&status,
		&d.UploadDate,
	); err != nil {
		return nil, err
	}
	d.Status = model.Status(status)
	return &d, nil
}
