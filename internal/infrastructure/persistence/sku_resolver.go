package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSKUResolver implements mirror.SKUResolver against the internal product
// catalog. Only the id and sku columns are touched; the catalog itself is
// owned by another system.
type GormSKUResolver struct {
	db *gorm.DB
}

// NewGormSKUResolver creates a new GormSKUResolver
func NewGormSKUResolver(db *gorm.DB) *GormSKUResolver {
	return &GormSKUResolver{db: db}
}

// ResolveSKU returns the internal product id for a seller-managed SKU code.
// A miss returns (nil, nil); resolution is best effort by contract.
func (r *GormSKUResolver) ResolveSKU(ctx context.Context, externalSKU string) (*uuid.UUID, error) {
	var row struct {
		ID uuid.UUID
	}
	err := r.db.WithContext(ctx).
		Table("products").
		Select("id").
		Where("sku = ?", externalSKU).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row.ID, nil
}
