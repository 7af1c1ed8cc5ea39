package mirror

import (
	"time"

	"github.com/channelbridge/backend/internal/domain/channel"
	"github.com/google/uuid"
)

// SyncType identifies what a sync run touched.
type SyncType string

const (
	SyncTypeCatalog   SyncType = "catalog"
	SyncTypeInventory SyncType = "inventory"
)

// SyncStatus is the overall outcome of a sync run.
type SyncStatus string

const (
	SyncStatusSuccess SyncStatus = "success"
	// SyncStatusPartial means the run completed but some items failed and
	// were skipped; the failures are itemized in the run summary.
	SyncStatusPartial SyncStatus = "partial"
	SyncStatusError   SyncStatus = "error"
)

// SyncLog records one sync run for audit and "last synced" bookkeeping.
type SyncLog struct {
	ID             uuid.UUID    `gorm:"type:uuid;primaryKey"`
	Channel        channel.Code `gorm:"type:varchar(20);not null;index"`
	SyncType       SyncType     `gorm:"type:varchar(20);not null"`
	Status         SyncStatus   `gorm:"type:varchar(20);not null"`
	ItemsSynced    int          `gorm:"not null;default:0"`
	VariantsSynced int          `gorm:"not null;default:0"`
	ItemsFailed    int          `gorm:"not null;default:0"`
	ErrorMessage   string       `gorm:"type:text"`
	DurationMS     int64        `gorm:"not null;default:0"`
	CreatedAt      time.Time
}

// TableName returns the table name for GORM.
func (SyncLog) TableName() string {
	return "channel_sync_logs"
}

// NewSyncLog creates a log row for a completed run.
func NewSyncLog(code channel.Code, syncType SyncType, status SyncStatus) *SyncLog {
	return &SyncLog{
		ID:       uuid.New(),
		Channel:  code,
		SyncType: syncType,
		Status:   status,
	}
}
