package sync

import (
	"time"

	"github.com/channelbridge/backend/internal/domain/channel"
	"github.com/channelbridge/backend/internal/domain/mirror"
)

// CatalogSyncResult summarizes one catalog sync run.
type CatalogSyncResult struct {
	Channel        channel.Code      `json:"channel"`
	Status         mirror.SyncStatus `json:"status"`
	ItemsSynced    int               `json:"items_synced"`
	VariantsSynced int               `json:"variants_synced"`
	ItemsFailed    int               `json:"items_failed"`
	// CapReached is set when the run stopped at the item safety cap rather
	// than at the end of the remote catalog.
	CapReached bool               `json:"cap_reached"`
	DurationMS int64              `json:"duration_ms"`
	Errors     []mirror.ItemError `json:"errors,omitempty"`
}

// InventoryUpdateResult reports one reconciled quantity.
type InventoryUpdateResult struct {
	Channel  channel.Code       `json:"channel"`
	Key      channel.VariantKey `json:"key"`
	Quantity int                `json:"quantity"`
	SyncedAt time.Time          `json:"synced_at"`
}

// ClaimActionResult reports one executed claim action.
type ClaimActionResult struct {
	Channel        channel.Code        `json:"channel"`
	ProductOrderID string              `json:"product_order_id"`
	Kind           channel.ClaimKind   `json:"kind"`
	Action         channel.ClaimAction `json:"action"`
}

// OrderChangesResult wraps a changed-order poll.
type OrderChangesResult struct {
	Channel channel.Code           `json:"channel"`
	From    time.Time              `json:"from"`
	To      time.Time              `json:"to"`
	Orders  []channel.ChangedOrder `json:"orders"`
}
