package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/h3yzack/aurasage-document-service/internal/model"
	"github.com/h3yzack/aurasage-document-service/internal/repository"
)

// Key layout:
//   doc:<id>        JSON-encoded document
//   owner:<ownerId> set of document ids (listing index)
const (
	docKeyPrefix   = "doc:"
	ownerKeyPrefix = "owner:"
)

func docKey(id string) string      { return docKeyPrefix + id }
func ownerKey(owner string) string { return ownerKeyPrefix + owner }

// DocumentRedis is a Redis key-value implementation of
// repository.DocumentRepository. Documents are stored as JSON blobs with a
// per-owner set as the listing index.
type DocumentRedis struct {
	client *redis.Client
}

// NewDocumentRedis creates a new DocumentRedis repository.
func NewDocumentRedis(client *redis.Client) *DocumentRedis {
	return &DocumentRedis{client: client}
}

var _ repository.DocumentRepository = (*DocumentRedis)(nil)

// Save upserts a document. SET is atomic per key, so the last concurrent
// writer wins without ever producing duplicate records; the owner index is
// maintained in the same pipeline.
func (r *DocumentRedis) Save(ctx context.Context, doc *model.Document) (*model.Document, error) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, docKey(doc.ID), payload, 0)
	if doc.OwnerID != "" {
		pipe.SAdd(ctx, ownerKey(doc.OwnerID), doc.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	out := *doc
	return &out, nil
}

// FindByID returns a document by its ID.
func (r *DocumentRedis) FindByID(ctx context.Context, id string) (*model.Document, error) {
	raw, err := r.client.Get(ctx, docKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	var doc model.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", id, err)
	}
	return &doc, nil
}

// FindAllByOwner returns every document owned by ownerID. Ids present in the
// owner index whose record has since disappeared are skipped.
func (r *DocumentRedis) FindAllByOwner(ctx context.Context, ownerID string) ([]model.Document, error) {
	ids, err := r.client.SMembers(ctx, ownerKey(ownerID)).Result()
	if err != nil {
		return nil, err
	}

	docs := make([]model.Document, 0, len(ids))
	if len(ids) == 0 {
		return docs, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = docKey(id)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var doc model.Document
		if err := json.Unmarshal([]byte(s), &doc); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// DeleteByID removes a document and its owner-index entry.
func (r *DocumentRedis) DeleteByID(ctx context.Context, id string) error {
	// The record is read first to learn the owner for index cleanup.
	doc, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, docKey(id))
	if doc.OwnerID != "" {
		pipe.SRem(ctx, ownerKey(doc.OwnerID), id)
	}
	_, err = pipe.Exec(ctx)
	return err
}
