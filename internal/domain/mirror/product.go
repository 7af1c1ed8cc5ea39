package mirror

import (
	"time"

	"github.com/channelbridge/backend/internal/domain/channel"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ChannelProduct is the locally mirrored snapshot of one catalog item on one
// channel. The (channel, external id) pair is the natural key; re-sync
// overwrites every non-identity field in place.
type ChannelProduct struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Channel    channel.Code    `gorm:"type:varchar(20);not null;uniqueIndex:idx_channel_product_external,priority:1"`
	ExternalID string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_channel_product_external,priority:2"`
	Name       string          `gorm:"type:varchar(300);not null"`
	Price      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OnSale     bool            `gorm:"not null;default:true"`
	CategoryID string          `gorm:"type:varchar(100)"`
	ImageURLs  string          `gorm:"type:jsonb"` // JSON array of image URLs
	SyncedAt   time.Time       `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName returns the table name for GORM.
func (ChannelProduct) TableName() string {
	return "channel_products"
}

// ChannelVariant is the mirrored snapshot of one option combination. It is
// keyed by (channel, product external id, combination id) and belongs to
// exactly one ChannelProduct.
type ChannelVariant struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Channel           channel.Code    `gorm:"type:varchar(20);not null;uniqueIndex:idx_channel_variant_key,priority:1"`
	ProductExternalID string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_channel_variant_key,priority:2"`
	CombinationID     string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_channel_variant_key,priority:3"`
	OptionName        string          `gorm:"type:varchar(300)"`
	StockQuantity     int             `gorm:"not null;default:0"`
	PriceDelta        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	// ExternalSKU is the seller-managed SKU code reported by the channel.
	ExternalSKU string `gorm:"type:varchar(100);index"`
	// InternalProductID cross-references the internal catalog when the
	// ExternalSKU resolved to a known product.
	InternalProductID *uuid.UUID `gorm:"type:uuid;index"`
	SyncedAt          time.Time  `gorm:"not null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName returns the table name for GORM.
func (ChannelVariant) TableName() string {
	return "channel_product_variants"
}

// NewChannelProduct builds a mirror row from a catalog item as reported by
// the channel.
func NewChannelProduct(code channel.Code, item channel.CatalogItem, imageURLs string, syncedAt time.Time) *ChannelProduct {
	return &ChannelProduct{
		ID:         uuid.New(),
		Channel:    code,
		ExternalID: item.ExternalID,
		Name:       item.Name,
		Price:      item.Price,
		OnSale:     item.OnSale,
		CategoryID: item.CategoryID,
		ImageURLs:  imageURLs,
		SyncedAt:   syncedAt,
	}
}

// NewChannelVariant builds a mirror row for one option combination.
func NewChannelVariant(code channel.Code, productExternalID string, v channel.Variant, internalProductID *uuid.UUID, syncedAt time.Time) *ChannelVariant {
	return &ChannelVariant{
		ID:                uuid.New(),
		Channel:           code,
		ProductExternalID: productExternalID,
		CombinationID:     v.CombinationID,
		OptionName:        v.OptionName,
		StockQuantity:     v.StockQuantity,
		PriceDelta:        v.PriceDelta,
		ExternalSKU:       v.ExternalSKU,
		InternalProductID: internalProductID,
		SyncedAt:          syncedAt,
	}
}
