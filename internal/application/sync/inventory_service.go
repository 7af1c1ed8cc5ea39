package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/channelbridge/backend/internal/domain/channel"
	"github.com/channelbridge/backend/internal/domain/mirror"
	"go.uber.org/zap"
)

// ErrMirrorStale marks a quantity update that the platform accepted but the
// local mirror failed to record. The platform is the source of truth at that
// point; the mirror catches up on the next catalog sync.
var ErrMirrorStale = errors.New("sync: platform updated but local mirror write failed")

// InventoryService pushes quantity changes to a channel and keeps the local
// mirror aligned. The platform write always happens first; the mirror is only
// touched after the platform accepted the same value, so the mirror can lag
// but never lead.
type InventoryService struct {
	registry *channel.Registry
	store    mirror.Store
	logs     mirror.SyncLogStore
	logger   *zap.Logger
}

// NewInventoryService creates an InventoryService.
func NewInventoryService(registry *channel.Registry, store mirror.Store, logs mirror.SyncLogStore, logger *zap.Logger) *InventoryService {
	return &InventoryService{registry: registry, store: store, logs: logs, logger: logger}
}

// UpdateQuantity sets one variant's stock on the channel, then mirrors the
// accepted value locally. A platform rejection is returned verbatim and the
// mirror is left untouched. A mirror write failure after a successful
// platform write returns ErrMirrorStale.
func (s *InventoryService) UpdateQuantity(ctx context.Context, code channel.Code, key channel.VariantKey, quantity int) (*InventoryUpdateResult, error) {
	adapter, err := s.registry.Get(code)
	if err != nil {
		return nil, err
	}
	change := channel.InventoryChange{Key: key, Quantity: quantity}
	if err := change.Validate(); err != nil {
		return nil, err
	}

	if err := adapter.SetInventory(ctx, key, quantity); err != nil {
		return nil, fmt.Errorf("sync: set inventory on %s: %w", code, err)
	}

	now := time.Now()
	if err := s.store.UpdateQuantity(ctx, code, key, quantity, now); err != nil {
		s.logger.Error("mirror quantity write failed after platform accepted",
			zap.String("channel", code.String()),
			zap.String("product_id", key.ProductID),
			zap.String("variant_id", key.VariantID),
			zap.Int("quantity", quantity),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %s", ErrMirrorStale, err.Error())
	}

	return &InventoryUpdateResult{Channel: code, Key: key, Quantity: quantity, SyncedAt: now}, nil
}

// BulkUpdate applies a batch of quantity changes one by one, remote first for
// each, collecting per-item failures instead of aborting. The batch outcome
// is recorded as an inventory sync run.
func (s *InventoryService) BulkUpdate(ctx context.Context, code channel.Code, changes []channel.InventoryChange) (*mirror.BatchResult, error) {
	adapter, err := s.registry.Get(code)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	var batch mirror.BatchResult
	for _, change := range changes {
		if err := s.applyOne(ctx, code, adapter, change); err != nil {
			batch.AddFailure(change.Key.String(), err)
			continue
		}
		batch.AddSuccess(change.Key.String())
	}

	s.writeLog(ctx, code, &batch, time.Since(started).Milliseconds())
	return &batch, nil
}

func (s *InventoryService) applyOne(ctx context.Context, code channel.Code, adapter channel.Adapter, change channel.InventoryChange) error {
	if err := change.Validate(); err != nil {
		return err
	}
	if err := adapter.SetInventory(ctx, change.Key, change.Quantity); err != nil {
		return err
	}
	if err := s.store.UpdateQuantity(ctx, code, change.Key, change.Quantity, time.Now()); err != nil {
		return fmt.Errorf("%w: %s", ErrMirrorStale, err.Error())
	}
	return nil
}

func (s *InventoryService) writeLog(ctx context.Context, code channel.Code, batch *mirror.BatchResult, durationMS int64) {
	if s.logs == nil {
		return
	}
	log := mirror.NewSyncLog(code, mirror.SyncTypeInventory, runStatus(batch))
	log.ItemsSynced = batch.SuccessCount()
	log.ItemsFailed = batch.FailureCount()
	log.ErrorMessage = firstError(batch)
	log.DurationMS = durationMS
	if err := s.logs.Create(ctx, log); err != nil {
		s.logger.Error("failed to persist sync log",
			zap.String("channel", code.String()), zap.Error(err))
	}
}
