package event

import (
	"context"
	"fmt"
	"net/url"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/notification"

	"github.com/h3yzack/aurasage-document-service/internal/config"
)

// Handler is the reconciliation entry point fed by the consumer. It must be
// idempotent: the notification stream is at-least-once with no ordering
// guarantee.
type Handler interface {
	ApplyStorageEvent(ctx context.Context, ev StorageEvent) error
}

// StorageListener subscribes to bucket notifications on the object store and
// forwards object-created records to the reconciliation handler.
type StorageListener struct {
	client  *minio.Client
	bucket  string
	handler Handler
}

// NewStorageListener builds a listener with its own client; notification
// streams are long-lived and kept separate from the presigning client.
func NewStorageListener(cfg config.MinIOConfig, handler Handler) (*StorageListener, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("minio endpoint and bucket are required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &StorageListener{client: cli, bucket: cfg.Bucket, handler: handler}, nil
}

// Run consumes bucket notifications until ctx is cancelled. Handler errors
// are logged, never propagated: a failed record is redelivered by the
// notification stream, and a poison record must not stall consumption.
func (l *StorageListener) Run(ctx context.Context) {
	logJSON(map[string]any{
		"component": "event_consumer",
		"event":     "listener_started",
		"bucket":    l.bucket,
	})

	ch := l.client.ListenBucketNotification(ctx, l.bucket, "", "", []string{
		"s3:ObjectCreated:*",
	})

	for {
		select {
		case <-ctx.Done():
			l.logStopped()
			return
		case info, ok := <-ch:
			if !ok {
				l.logStopped()
				return
			}
			if info.Err != nil {
				logJSON(map[string]any{
					"component":     "event_consumer",
					"event":         "notification_error",
					"level":         "error",
					"error_message": info.Err.Error(),
				})
				continue
			}

			for _, ev := range toStorageEvents(info) {
				if err := l.handler.ApplyStorageEvent(ctx, ev); err != nil {
					logJSON(map[string]any{
						"component":     "event_consumer",
						"event":         "apply_failed",
						"level":         "error",
						"object_key":    ev.ObjectKey,
						"error_message": err.Error(),
					})
				}
			}
		}
	}
}

func (l *StorageListener) logStopped() {
	logJSON(map[string]any{
		"component": "event_consumer",
		"event":     "listener_stopped",
		"bucket":    l.bucket,
	})
}

// toStorageEvents flattens a notification into StorageEvent records.
// Object keys arrive URL-encoded in S3 notifications and are decoded here.
func toStorageEvents(info notification.Info) []StorageEvent {
	events := make([]StorageEvent, 0, len(info.Records))
	for _, rec := range info.Records {
		key := rec.S3.Object.Key
		if decoded, err := url.QueryUnescape(key); err == nil {
			key = decoded
		}
		events = append(events, StorageEvent{
			Kind:        rec.EventName,
			ObjectKey:   key,
			Size:        rec.S3.Object.Size,
			ContentType: rec.S3.Object.ContentType,
			Digest:      rec.S3.Object.ETag,
		})
	}
	return events
}
