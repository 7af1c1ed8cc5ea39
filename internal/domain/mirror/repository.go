package mirror

import (
	"context"
	"time"

	"github.com/channelbridge/backend/internal/domain/channel"
	"github.com/google/uuid"
)

// Store is the local mirror persistence port. Writes are single-row upserts
// keyed by the channel's external identifiers; there is no multi-row
// transaction spanning a product and its variants. A crash mid-run is healed
// by the next idempotent sync, not by rollback.
type Store interface {
	// UpsertProduct inserts or updates a product snapshot by
	// (channel, external id). Never duplicate-inserts.
	UpsertProduct(ctx context.Context, p *ChannelProduct) error

	// UpsertVariant inserts or updates a variant snapshot by
	// (channel, product external id, combination id).
	UpsertVariant(ctx context.Context, v *ChannelVariant) error

	// UpdateQuantity overwrites only the stock quantity and sync timestamp of
	// the row addressed by key. Used by the inventory reconciler after the
	// remote platform accepted the same value.
	UpdateQuantity(ctx context.Context, code channel.Code, key channel.VariantKey, quantity int, syncedAt time.Time) error

	// FindProduct returns the mirrored product or shared.ErrNotFound.
	FindProduct(ctx context.Context, code channel.Code, externalID string) (*ChannelProduct, error)

	// FindVariants returns all mirrored variants of a product.
	FindVariants(ctx context.Context, code channel.Code, productExternalID string) ([]ChannelVariant, error)

	// CountProducts returns the number of mirrored products for a channel.
	CountProducts(ctx context.Context, code channel.Code) (int64, error)
}

// SKUResolver cross-references a seller-managed SKU code against the internal
// product catalog. A miss is not an error; resolution is best effort.
type SKUResolver interface {
	ResolveSKU(ctx context.Context, externalSKU string) (*uuid.UUID, error)
}

// SyncLogStore persists sync run records.
type SyncLogStore interface {
	Create(ctx context.Context, log *SyncLog) error
	LastForChannel(ctx context.Context, code channel.Code, syncType SyncType) (*SyncLog, error)
}
