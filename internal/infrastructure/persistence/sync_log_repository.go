package persistence

import (
	"context"
	"errors"

	"github.com/channelbridge/backend/internal/domain/channel"
	"github.com/channelbridge/backend/internal/domain/mirror"
	"github.com/channelbridge/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSyncLogRepository implements mirror.SyncLogStore using GORM
type GormSyncLogRepository struct {
	db *gorm.DB
}

// NewGormSyncLogRepository creates a new GormSyncLogRepository
func NewGormSyncLogRepository(db *gorm.DB) *GormSyncLogRepository {
	return &GormSyncLogRepository{db: db}
}

// Create persists one sync run record
func (r *GormSyncLogRepository) Create(ctx context.Context, log *mirror.SyncLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// LastForChannel returns the most recent sync run of the given type
func (r *GormSyncLogRepository) LastForChannel(ctx context.Context, code channel.Code, syncType mirror.SyncType) (*mirror.SyncLog, error) {
	var log mirror.SyncLog
	if err := r.db.WithContext(ctx).
		Where("channel = ? AND sync_type = ?", code, syncType).
		Order("created_at DESC").
		First(&log).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}
