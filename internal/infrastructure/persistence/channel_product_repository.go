package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/channelbridge/backend/internal/domain/channel"
	"github.com/channelbridge/backend/internal/domain/mirror"
	"github.com/channelbridge/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormChannelProductRepository implements mirror.Store using GORM
type GormChannelProductRepository struct {
	db *gorm.DB
}

// NewGormChannelProductRepository creates a new GormChannelProductRepository
func NewGormChannelProductRepository(db *gorm.DB) *GormChannelProductRepository {
	return &GormChannelProductRepository{db: db}
}

// WithTx returns a new repository instance with the given transaction
func (r *GormChannelProductRepository) WithTx(tx *gorm.DB) *GormChannelProductRepository {
	return &GormChannelProductRepository{db: tx}
}

// UpsertProduct inserts or updates a product snapshot keyed by
// (channel, external_id). Identity columns are never touched on conflict.
func (r *GormChannelProductRepository) UpsertProduct(ctx context.Context, p *mirror.ChannelProduct) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "channel"}, {Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "price", "on_sale", "category_id", "image_urls", "synced_at", "updated_at",
			}),
		}).
		Create(p).Error
}

// UpsertVariant inserts or updates a variant snapshot keyed by
// (channel, product_external_id, combination_id).
func (r *GormChannelProductRepository) UpsertVariant(ctx context.Context, v *mirror.ChannelVariant) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "channel"}, {Name: "product_external_id"}, {Name: "combination_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"option_name", "stock_quantity", "price_delta", "external_sku",
				"internal_product_id", "synced_at", "updated_at",
			}),
		}).
		Create(v).Error
}

// UpdateQuantity overwrites the stock quantity of the addressed rows. A
// product-level key updates every variant of the product. Zero affected rows
// is not an error: the mirror may simply not hold the row yet, and the next
// catalog sync will bring it in.
func (r *GormChannelProductRepository) UpdateQuantity(ctx context.Context, code channel.Code, key channel.VariantKey, quantity int, syncedAt time.Time) error {
	q := r.db.WithContext(ctx).
		Model(&mirror.ChannelVariant{}).
		Where("channel = ? AND product_external_id = ?", code, key.ProductID)
	if key.IsVariantLevel() {
		q = q.Where("combination_id = ?", key.VariantID)
	}
	return q.Updates(map[string]interface{}{
		"stock_quantity": quantity,
		"synced_at":      syncedAt,
	}).Error
}

// FindProduct returns the mirrored product or shared.ErrNotFound
func (r *GormChannelProductRepository) FindProduct(ctx context.Context, code channel.Code, externalID string) (*mirror.ChannelProduct, error) {
	var p mirror.ChannelProduct
	if err := r.db.WithContext(ctx).
		Where("channel = ? AND external_id = ?", code, externalID).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindVariants returns all mirrored variants of a product
func (r *GormChannelProductRepository) FindVariants(ctx context.Context, code channel.Code, productExternalID string) ([]mirror.ChannelVariant, error) {
	var variants []mirror.ChannelVariant
	if err := r.db.WithContext(ctx).
		Where("channel = ? AND product_external_id = ?", code, productExternalID).
		Order("combination_id ASC").
		Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// CountProducts returns the number of mirrored products for a channel
func (r *GormChannelProductRepository) CountProducts(ctx context.Context, code channel.Code) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&mirror.ChannelProduct{}).
		Where("channel = ?", code).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
