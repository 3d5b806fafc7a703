package worker

import (
	"context"
	"fmt"

	"billed/internal/amqp"
	"billed/internal/core"
	"billed/internal/log"
	"billed/internal/store"
	"billed/internal/store/sqlite"
)

// LocalStore is the slice of the sqlite repository the worker needs.
type LocalStore interface {
	GetBill(ctx context.Context, key string) (core.Bill, error)
	PendingSync(ctx context.Context, limit int) ([]sqlite.PendingBill, error)
	MarkSynced(ctx context.Context, key string) error
	MarkSyncError(ctx context.Context, key string) error
}

// SyncWorker pushes locally persisted bills to the remote bills API.
type SyncWorker struct {
	local     LocalStore
	remote    store.BillUpdater
	batchSize int
	logger    *log.Logger
}

func NewSyncWorker(local LocalStore, remote store.BillUpdater, batchSize int, logger *log.Logger) *SyncWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &SyncWorker{
		local:     local,
		remote:    remote,
		batchSize: batchSize,
		logger:    logger.WithComponent(log.ComponentWorker),
	}
}

// HandleSyncMessage processes one bill sync message.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.BillSyncMessage) error {
	return w.syncBill(ctx, msg.Key)
}

// StartupSyncCheck replays bills whose sync message was lost while the
// worker was down.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	w.logger.InfoContext(ctx, "Performing startup sync check",
		log.FieldOperation, log.OpStartup)
	return w.ProcessPending(ctx)
}

// ProcessPending pushes every bill still waiting for sync, up to the
// batch size. Individual failures are logged and the bill stays
// pending for the next pass.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.local.PendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("load pending bills: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	w.logger.InfoContext(ctx, "Replaying pending bills", "count", len(pending))

	for _, p := range pending {
		if err := w.syncBill(ctx, p.Key); err != nil {
			w.logger.ErrorContext(ctx, "Sync failed for bill",
				log.FieldBillKey, p.Key,
				log.FieldError, err)
			// Keep going; the bill stays pending.
		}
	}
	return nil
}

func (w *SyncWorker) syncBill(ctx context.Context, key string) error {
	bill, err := w.local.GetBill(ctx, key)
	if err != nil {
		return fmt.Errorf("get bill from local store: %w", err)
	}

	if _, err := w.remote.Update(ctx, key, bill); err != nil {
		if markErr := w.local.MarkSyncError(ctx, key); markErr != nil {
			w.logger.ErrorContext(ctx, "Failed to mark sync error",
				log.FieldBillKey, key,
				log.FieldError, markErr)
		}
		return fmt.Errorf("push bill to remote store: %w", err)
	}

	if err := w.local.MarkSynced(ctx, key); err != nil {
		return fmt.Errorf("mark bill synced: %w", err)
	}

	w.logger.InfoContext(ctx, "Bill synced to remote store",
		log.FieldBillKey, key,
		log.FieldOperation, log.OpSync)
	return nil
}
