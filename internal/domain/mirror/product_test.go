package mirror

import (
	"testing"
	"time"

	"github.com/channelbridge/backend/internal/domain/channel"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChannelProduct(t *testing.T) {
	now := time.Now()
	item := channel.CatalogItem{
		ExternalID: "8912345",
		Name:       "Ceramic Mug 350ml",
		Price:      decimal.NewFromInt(12900),
		OnSale:     true,
		CategoryID: "50000123",
	}

	p := NewChannelProduct(channel.CodeNaver, item, `["https://img.example.com/a.jpg"]`, now)

	require.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, channel.CodeNaver, p.Channel)
	assert.Equal(t, "8912345", p.ExternalID)
	assert.Equal(t, "Ceramic Mug 350ml", p.Name)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(12900)))
	assert.True(t, p.OnSale)
	assert.Equal(t, now, p.SyncedAt)
}

func TestNewChannelVariant(t *testing.T) {
	now := time.Now()
	internalID := uuid.New()
	v := channel.Variant{
		CombinationID: "opt-77",
		OptionName:    "Blue / Large",
		StockQuantity: 42,
		PriceDelta:    decimal.NewFromInt(1000),
		ExternalSKU:   "MUG-BL-L",
	}

	row := NewChannelVariant(channel.CodeCoupang, "8912345", v, &internalID, now)

	require.NotEqual(t, uuid.Nil, row.ID)
	assert.Equal(t, channel.CodeCoupang, row.Channel)
	assert.Equal(t, "8912345", row.ProductExternalID)
	assert.Equal(t, "opt-77", row.CombinationID)
	assert.Equal(t, 42, row.StockQuantity)
	assert.Equal(t, "MUG-BL-L", row.ExternalSKU)
	require.NotNil(t, row.InternalProductID)
	assert.Equal(t, internalID, *row.InternalProductID)
}

func TestNewChannelVariantWithoutInternalMatch(t *testing.T) {
	row := NewChannelVariant(channel.CodeCafe24, "p-1", channel.Variant{CombinationID: "c-1"}, nil, time.Now())
	assert.Nil(t, row.InternalProductID)
}

func TestNewSyncLog(t *testing.T) {
	log := NewSyncLog(channel.CodeNaver, SyncTypeCatalog, SyncStatusPartial)
	require.NotEqual(t, uuid.Nil, log.ID)
	assert.Equal(t, channel.CodeNaver, log.Channel)
	assert.Equal(t, SyncTypeCatalog, log.SyncType)
	assert.Equal(t, SyncStatusPartial, log.Status)
}
