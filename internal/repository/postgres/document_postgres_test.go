package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/h3yzack/aurasage-document-service/internal/model"
	"github.com/h3yzack/aurasage-document-service/internal/repository"
)

var documentTestColumns = []string{"id", "owner_id", "file_name", "content_type", "size_in_bytes", "file_path", "file_hash", "doc_status", "upload_date"}

func TestDocumentPostgres_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	doc := &model.Document{
		ID:          "test-uuid",
		OwnerID:     "u1",
		FileName:    "report.pdf",
		ContentType: "application/pdf",
		SizeInBytes: 2048576,
		FilePath:    "u1/test-uuid.pdf",
		Status:      model.StatusPendingUpload,
		UploadDate:  now,
	}

	t.Run("insert returns stored row", func(t *testing.T) {
		rows := sqlmock.NewRows(documentTestColumns).
			AddRow(doc.ID, doc.OwnerID, doc.FileName, doc.ContentType, doc.SizeInBytes, doc.FilePath, doc.FileHash, string(doc.Status), doc.UploadDate)

		mock.ExpectQuery("INSERT INTO documents").
			WithArgs(doc.ID, doc.OwnerID, doc.FileName, doc.ContentType, doc.SizeInBytes, doc.FilePath, doc.FileHash, string(doc.Status), doc.UploadDate).
			WillReturnRows(rows)

		result, err := repo.Save(ctx, doc)

		assert.NoError(t, err)
		assert.NotNil(t, result)
		assert.Equal(t, doc.ID, result.ID)
		assert.Equal(t, model.StatusPendingUpload, result.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unset id gets generated before insert", func(t *testing.T) {
		noID := &model.Document{OwnerID: "u1", FileName: "a.txt", Status: model.StatusPendingUpload, UploadDate: now}

		rows := sqlmock.NewRows(documentTestColumns).
			AddRow("generated", "u1", "a.txt", "", 0, "", "", string(model.StatusPendingUpload), now)

		mock.ExpectQuery("INSERT INTO documents").
			WillReturnRows(rows)

		result, err := repo.Save(ctx, noID)

		assert.NoError(t, err)
		assert.NotEmpty(t, noID.ID)
		assert.Equal(t, "generated", result.ID)
	})
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(documentTestColumns).
			AddRow("test-id", "u1", "file.txt", "text/plain", 100, "u1/test-id.txt", "h1", string(model.StatusUploaded), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = ?").
			WithArgs("test-id").
			WillReturnRows(rows)

		doc, err := repo.FindByID(ctx, "test-id")

		assert.NoError(t, err)
		assert.NotNil(t, doc)
		assert.Equal(t, "test-id", doc.ID)
		assert.Equal(t, model.StatusUploaded, doc.Status)
	})

	t.Run("not found maps to repository sentinel", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindByID(ctx, "missing")

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, doc)
	})
}

func TestDocumentPostgres_FindAllByOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("returns owner documents", func(t *testing.T) {
		rows := sqlmock.NewRows(documentTestColumns).
			AddRow("d1", "u1", "a.txt", "text/plain", 10, "u1/d1.txt", "", string(model.StatusUploaded), time.Now()).
			AddRow("d2", "u1", "b.txt", "text/plain", 20, "u1/d2.txt", "", string(model.StatusPendingUpload), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM documents WHERE owner_id = ?").
			WithArgs("u1").
			WillReturnRows(rows)

		docs, err := repo.FindAllByOwner(ctx, "u1")

		assert.NoError(t, err)
		assert.Len(t, docs, 2)
	})

	t.Run("empty result is an empty slice", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE owner_id = ?").
			WithArgs("nobody").
			WillReturnRows(sqlmock.NewRows(documentTestColumns))

		docs, err := repo.FindAllByOwner(ctx, "nobody")

		assert.NoError(t, err)
		assert.NotNil(t, docs)
		assert.Empty(t, docs)
	})
}

func TestDocumentPostgres_DeleteByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM documents WHERE id = ?").
			WithArgs("test-id").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.DeleteByID(ctx, "test-id"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row reports not found", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM documents WHERE id = ?").
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.DeleteByID(ctx, "missing"), repository.ErrNotFound)
	})
}
