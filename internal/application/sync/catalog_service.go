package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/channelbridge/backend/internal/domain/channel"
	"github.com/channelbridge/backend/internal/domain/mirror"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultMaxCatalogItems caps how many items a single catalog sync run
	// may pull. Marketplace list endpoints page forever on some accounts, so
	// a runaway loop is stopped here and reported instead of retried.
	DefaultMaxCatalogItems = 1000
)

// CatalogService pulls a channel's full product catalog and mirrors it into
// local storage. Runs are idempotent: every write is an upsert keyed by the
// channel's external identifiers, so re-running a sync converges on the same
// rows instead of duplicating them.
type CatalogService struct {
	registry *channel.Registry
	store    mirror.Store
	logs     mirror.SyncLogStore
	resolver mirror.SKUResolver
	maxItems int
	logger   *zap.Logger
}

// NewCatalogService creates a CatalogService. maxItems <= 0 falls back to
// DefaultMaxCatalogItems. resolver may be nil, in which case variants are
// mirrored without an internal product cross-reference.
func NewCatalogService(
	registry *channel.Registry,
	store mirror.Store,
	logs mirror.SyncLogStore,
	resolver mirror.SKUResolver,
	maxItems int,
	logger *zap.Logger,
) *CatalogService {
	if maxItems <= 0 {
		maxItems = DefaultMaxCatalogItems
	}
	return &CatalogService{
		registry: registry,
		store:    store,
		logs:     logs,
		resolver: resolver,
		maxItems: maxItems,
		logger:   logger,
	}
}

// SyncCatalog pulls every catalog page from the channel and upserts each item
// and its variants into the mirror. A failed item is recorded and skipped;
// the run keeps going. A failed page fetch aborts the run.
func (s *CatalogService) SyncCatalog(ctx context.Context, code channel.Code) (*CatalogSyncResult, error) {
	adapter, err := s.registry.Get(code)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	result := &CatalogSyncResult{Channel: code}
	var batch mirror.BatchResult

	pageToken := ""
	for {
		page, err := adapter.ListCatalogPage(ctx, pageToken)
		if err != nil {
			result.ItemsSynced = batch.SuccessCount()
			result.ItemsFailed = batch.FailureCount()
			result.Errors = batch.Failed
			result.DurationMS = time.Since(started).Milliseconds()
			result.Status = mirror.SyncStatusError
			s.writeLog(ctx, code, result, err.Error())
			return result, fmt.Errorf("sync: list catalog page for %s: %w", code, err)
		}

		for i := range page.Items {
			item := page.Items[i]
			variants, err := s.mirrorItem(ctx, code, item, started)
			if err != nil {
				batch.AddFailure(item.ExternalID, err)
				s.logger.Warn("catalog item sync failed",
					zap.String("channel", code.String()),
					zap.String("external_id", item.ExternalID),
					zap.Error(err))
			} else {
				batch.AddSuccess(item.ExternalID)
				result.VariantsSynced += variants
			}

			if batch.SuccessCount()+batch.FailureCount() >= s.maxItems {
				result.CapReached = true
				break
			}
		}

		if result.CapReached || page.Done || len(page.Items) < adapter.PageSize() {
			break
		}
		pageToken = page.NextPageToken
	}

	result.ItemsSynced = batch.SuccessCount()
	result.ItemsFailed = batch.FailureCount()
	result.Errors = batch.Failed
	result.DurationMS = time.Since(started).Milliseconds()
	result.Status = runStatus(&batch)

	s.writeLog(ctx, code, result, firstError(&batch))
	s.logger.Info("catalog sync finished",
		zap.String("channel", code.String()),
		zap.String("status", string(result.Status)),
		zap.Int("items_synced", result.ItemsSynced),
		zap.Int("items_failed", result.ItemsFailed),
		zap.Bool("cap_reached", result.CapReached),
		zap.Int64("duration_ms", result.DurationMS))
	return result, nil
}

// mirrorItem upserts one catalog item and its variants, returning how many
// variants were written.
func (s *CatalogService) mirrorItem(ctx context.Context, code channel.Code, item channel.CatalogItem, syncedAt time.Time) (int, error) {
	if item.ExternalID == "" {
		return 0, fmt.Errorf("sync: catalog item without external id")
	}

	imageURLs := "[]"
	if len(item.ImageURLs) > 0 {
		raw, err := json.Marshal(item.ImageURLs)
		if err != nil {
			return 0, fmt.Errorf("sync: encode image urls: %w", err)
		}
		imageURLs = string(raw)
	}

	product := mirror.NewChannelProduct(code, item, imageURLs, syncedAt)
	if err := s.store.UpsertProduct(ctx, product); err != nil {
		return 0, fmt.Errorf("sync: upsert product %s: %w", item.ExternalID, err)
	}

	written := 0
	for i := range item.Variants {
		v := item.Variants[i]
		internalID := s.resolveInternalProduct(ctx, v.ExternalSKU)
		row := mirror.NewChannelVariant(code, item.ExternalID, v, internalID, syncedAt)
		if err := s.store.UpsertVariant(ctx, row); err != nil {
			return written, fmt.Errorf("sync: upsert variant %s/%s: %w", item.ExternalID, v.CombinationID, err)
		}
		written++
	}
	return written, nil
}

// resolveInternalProduct maps a seller-managed SKU to the internal catalog.
// Resolution is best effort; a miss or a lookup error mirrors the variant
// without a cross-reference.
func (s *CatalogService) resolveInternalProduct(ctx context.Context, externalSKU string) *uuid.UUID {
	if s.resolver == nil || externalSKU == "" {
		return nil
	}
	id, err := s.resolver.ResolveSKU(ctx, externalSKU)
	if err != nil {
		s.logger.Debug("sku resolution failed", zap.String("sku", externalSKU), zap.Error(err))
		return nil
	}
	return id
}

func (s *CatalogService) writeLog(ctx context.Context, code channel.Code, result *CatalogSyncResult, errorMessage string) {
	if s.logs == nil {
		return
	}
	log := mirror.NewSyncLog(code, mirror.SyncTypeCatalog, result.Status)
	log.ItemsSynced = result.ItemsSynced
	log.VariantsSynced = result.VariantsSynced
	log.ItemsFailed = result.ItemsFailed
	log.ErrorMessage = errorMessage
	log.DurationMS = result.DurationMS
	if err := s.logs.Create(ctx, log); err != nil {
		s.logger.Error("failed to persist sync log",
			zap.String("channel", code.String()), zap.Error(err))
	}
}

func runStatus(batch *mirror.BatchResult) mirror.SyncStatus {
	switch {
	case batch.FailureCount() == 0:
		return mirror.SyncStatusSuccess
	case batch.SuccessCount() == 0:
		return mirror.SyncStatusError
	default:
		return mirror.SyncStatusPartial
	}
}

func firstError(batch *mirror.BatchResult) string {
	if len(batch.Failed) == 0 {
		return ""
	}
	return batch.Failed[0].Message
}
