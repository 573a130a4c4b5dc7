package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/h3yzack/aurasage-document-service/internal/model"
	"github.com/h3yzack/aurasage-document-service/internal/repository"
)

const collectionName = "as_document"

// documentRecord is the MongoDB representation of a document. The domain
// model stays free of bson tags; mapping happens here.
type documentRecord struct {
	ID          string    `bson:"_id"`
	OwnerID     string    `bson:"owner_id"`
	FileName    string    `bson:"file_name"`
	ContentType string    `bson:"content_type"`
	SizeInBytes int64     `bson:"size_in_bytes"`
	FilePath    string    `bson:"file_path"`
	FileHash    string    `bson:"file_hash,omitempty"`
	Status      string    `bson:"doc_status"`
	UploadDate  time.Time `bson:"upload_date"`
}

func toRecord(doc *model.Document) documentRecord {
	return documentRecord{
		ID:          doc.ID,
		OwnerID:     doc.OwnerID,
		FileName:    doc.FileName,
		ContentType: doc.ContentType,
		SizeInBytes: doc.SizeInBytes,
		FilePath:    doc.FilePath,
		FileHash:    doc.FileHash,
		Status:      string(doc.Status),
		UploadDate:  doc.UploadDate,
	}
}

func (r documentRecord) toModel() model.Document {
	return model.Document{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		FileName:    r.FileName,
		ContentType: r.ContentType,
		SizeInBytes: r.SizeInBytes,
		FilePath:    r.FilePath,
		FileHash:    r.FileHash,
		Status:      model.Status(r.Status),
		UploadDate:  r.UploadDate,
	}
}

// DocumentMongo is a MongoDB implementation of repository.DocumentRepository.
type DocumentMongo struct {
	coll *mongo.Collection
}

// NewDocumentMongo creates the repository and ensures the owner index exists.
func NewDocumentMongo(ctx context.Context, db *mongo.Database) (*DocumentMongo, error) {
	coll := db.Collection(collectionName)

	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}},
	})
	if err != nil {
		return nil, err
	}
	return &DocumentMongo{coll: coll}, nil
}

var _ repository.DocumentRepository = (*DocumentMongo)(nil)

// Save upserts by _id. ReplaceOne with upsert is atomic per id on the server,
// so concurrent saves cannot create duplicate records.
func (r *DocumentMongo) Save(ctx context.Context, doc *model.Document) (*model.Document, error) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	rec := toRecord(doc)
	_, err := r.coll.ReplaceOne(ctx,
		bson.M{"_id": rec.ID},
		rec,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return nil, err
	}

	out := rec.toModel()
	return &out, nil
}

// FindByID returns a document by its ID.
func (r *DocumentMongo) FindByID(ctx context.Context, id string) (*model.Document, error) {
	var rec documentRecord
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	out := rec.toModel()
	return &out, nil
}

// FindAllByOwner returns every document owned by ownerID.
func (r *DocumentMongo) FindAllByOwner(ctx context.Context, ownerID string) ([]model.Document, error) {
	cur, err := r.coll.Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	docs := make([]model.Document, 0)
	for cur.Next(ctx) {
		var rec documentRecord
		if err := cur.Decode(&rec); err != nil {
			return nil, err
		}
		docs = append(docs, rec.toModel())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// DeleteByID removes a document by ID, reporting ErrNotFound for unknown ids.
func (r *DocumentMongo) DeleteByID(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
