package event

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/h3yzack/aurasage-document-service/internal/storage"
)

// PurgeWorker subscribes to deletion events and removes the corresponding
// objects from storage. The purge is best-effort: a failure is logged and
// the event is dropped, since the metadata record is the authoritative
// lifecycle record and an orphaned object is preferable to a dangling
// reference.
type PurgeWorker struct {
	client  *redis.Client
	channel string
	store   storage.Storage
}

// NewPurgeWorker creates a worker listening on the given channel.
func NewPurgeWorker(client *redis.Client, channel string, store storage.Storage) *PurgeWorker {
	return &PurgeWorker{client: client, channel: channel, store: store}
}

// Run consumes deletion events until ctx is cancelled.
func (w *PurgeWorker) Run(ctx context.Context) {
	pubsub := w.client.Subscribe(ctx, w.channel)
	defer pubsub.Close()

	logJSON(map[string]any{
		"component": "purge_worker",
		"event":     "worker_started",
		"channel":   w.channel,
	})

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			w.logStopped()
			return
		case msg, ok := <-ch:
			if !ok {
				w.logStopped()
				return
			}
			var ev DocumentDeletedEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				logJSON(map[string]any{
					"component":     "purge_worker",
					"event":         "decode_failed",
					"level":         "error",
					"error_message": err.Error(),
				})
				continue
			}
			w.handleDeleted(ctx, ev)
		}
	}
}

func (w *PurgeWorker) logStopped() {
	logJSON(map[string]any{
		"component": "purge_worker",
		"event":     "worker_stopped",
		"channel":   w.channel,
	})
}

func (w *PurgeWorker) handleDeleted(ctx context.Context, ev DocumentDeletedEvent) {
	if ev.ObjectKey == "" {
		logJSON(map[string]any{
			"component":   "purge_worker",
			"event":       "purge_skipped",
			"document_id": ev.DocumentID,
			"msg":         "deletion event carries no object key",
		})
		return
	}

	if err := w.store.Delete(ctx, ev.ObjectKey); err != nil {
		logJSON(map[string]any{
			"component":     "purge_worker",
			"event":         "purge_failed",
			"level":         "error",
			"document_id":   ev.DocumentID,
			"object_key":    ev.ObjectKey,
			"error_message": err.Error(),
		})
		return
	}

	logJSON(map[string]any{
		"component":   "purge_worker",
		"event":       "purge_success",
		"document_id": ev.DocumentID,
		"object_key":  ev.ObjectKey,
	})
}

func logJSON(data map[string]any) {
	data["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		data["level"] = "info"
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal event log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
