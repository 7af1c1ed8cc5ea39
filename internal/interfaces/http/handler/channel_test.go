package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appsync "github.com/channelbridge/backend/internal/application/sync"
	"github.com/channelbridge/backend/internal/domain/channel"
	"github.com/channelbridge/backend/internal/domain/mirror"
	"github.com/channelbridge/backend/internal/domain/shared"
)

// stubAdapter serves a fixed catalog page and records mutating calls.
type stubAdapter struct {
	code channel.Code

	page    *channel.CatalogPage
	pageErr error

	inventoryCalls []channel.InventoryChange
	inventoryErr   error

	orders []channel.ChangedOrder

	claimKinds []channel.ClaimKind
	claimErr   error
}

func (s *stubAdapter) Channel() channel.Code { return s.code }
func (s *stubAdapter) PageSize() int         { return 100 }

func (s *stubAdapter) ListCatalogPage(context.Context, string) (*channel.CatalogPage, error) {
	if s.pageErr != nil {
		return nil, s.pageErr
	}
	return s.page, nil
}

func (s *stubAdapter) SetInventory(_ context.Context, key channel.VariantKey, quantity int) error {
	if s.inventoryErr != nil {
		return s.inventoryErr
	}
	s.inventoryCalls = append(s.inventoryCalls, channel.InventoryChange{Key: key, Quantity: quantity})
	return nil
}

func (s *stubAdapter) ListChangedOrders(context.Context, time.Time, time.Time, *channel.ChangeType) ([]channel.ChangedOrder, error) {
	return s.orders, nil
}

func (s *stubAdapter) PerformClaimAction(_ context.Context, kind channel.ClaimKind, _ channel.ClaimAction, _ string, _ channel.ActionParams) error {
	if s.claimErr != nil {
		return s.claimErr
	}
	s.claimKinds = append(s.claimKinds, kind)
	return nil
}

// nopStore accepts every mirror write.
type nopStore struct{}

func (nopStore) UpsertProduct(context.Context, *mirror.ChannelProduct) error { return nil }
func (nopStore) UpsertVariant(context.Context, *mirror.ChannelVariant) error { return nil }
func (nopStore) UpdateQuantity(context.Context, channel.Code, channel.VariantKey, int, time.Time) error {
	return nil
}
func (nopStore) FindProduct(context.Context, channel.Code, string) (*mirror.ChannelProduct, error) {
	return nil, shared.ErrNotFound
}
func (nopStore) FindVariants(context.Context, channel.Code, string) ([]mirror.ChannelVariant, error) {
	return nil, nil
}
func (nopStore) CountProducts(context.Context, channel.Code) (int64, error) { return 0, nil }

type nopSyncLogStore struct{}

func (nopSyncLogStore) Create(context.Context, *mirror.SyncLog) error { return nil }
func (nopSyncLogStore) LastForChannel(context.Context, channel.Code, mirror.SyncType) (*mirror.SyncLog, error) {
	return nil, shared.ErrNotFound
}

func newTestEngine(t *testing.T, adapters ...channel.Adapter) *gin.Engine {
	t.Helper()
	logger := zap.NewNop()
	registry := channel.NewRegistry(adapters...)

	catalog := appsync.NewCatalogService(registry, nopStore{}, nopSyncLogStore{}, nil, 0, logger)
	inventory := appsync.NewInventoryService(registry, nopStore{}, nopSyncLogStore{}, logger)
	orders := appsync.NewOrderService(registry, 0, logger)
	claims := appsync.NewClaimService(registry, logger)

	engine := gin.New()
	api := engine.Group("/api/v1")
	NewChannelHandler(catalog, inventory, orders, claims).RegisterRoutes(api)
	return engine
}

func doJSON(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestChannelHandler_SyncCatalog(t *testing.T) {
	adapter := &stubAdapter{
		code: channel.CodeNaver,
		page: &channel.CatalogPage{
			Items: []channel.CatalogItem{
				{
					ExternalID: "p-1",
					Name:       "Mug",
					Price:      decimal.NewFromInt(12000),
					OnSale:     true,
					Variants: []channel.Variant{
						{CombinationID: "c-1", StockQuantity: 5},
					},
				},
			},
			Done: true,
		},
	}
	engine := newTestEngine(t, adapter)

	w := doJSON(engine, http.MethodPost, "/api/v1/channels/naver/catalog/sync", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "NAVER", data["channel"])
	assert.Equal(t, "success", data["status"])
	assert.EqualValues(t, 1, data["items_synced"])
	assert.EqualValues(t, 1, data["variants_synced"])
}

func TestChannelHandler_SyncCatalogUnknownChannel(t *testing.T) {
	engine := newTestEngine(t, &stubAdapter{code: channel.CodeNaver, page: &channel.CatalogPage{Done: true}})

	w := doJSON(engine, http.MethodPost, "/api/v1/channels/shopify/catalog/sync", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ERR_UNKNOWN_CHANNEL", resp.Error.Code)
}

func TestChannelHandler_SyncCatalogNotConfigured(t *testing.T) {
	engine := newTestEngine(t, &stubAdapter{code: channel.CodeNaver, page: &channel.CatalogPage{Done: true}})

	w := doJSON(engine, http.MethodPost, "/api/v1/channels/cafe24/catalog/sync", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ERR_CHANNEL_NOT_CONFIGURED", resp.Error.Code)
}

func TestChannelHandler_SyncInventoryAction(t *testing.T) {
	adapter := &stubAdapter{code: channel.CodeNaver, page: &channel.CatalogPage{Done: true}}
	engine := newTestEngine(t, adapter)

	body := `{"action":"update_inventory","productKey":"p-1","variantKey":"c-1","quantity":7}`
	w := doJSON(engine, http.MethodPost, "/api/v1/channels/naver/catalog/sync", body)
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, adapter.inventoryCalls, 1)
	assert.Equal(t, "p-1/c-1", adapter.inventoryCalls[0].Key.String())
	assert.Equal(t, 7, adapter.inventoryCalls[0].Quantity)
}

func TestChannelHandler_SyncInventoryActionRequiresQuantity(t *testing.T) {
	adapter := &stubAdapter{code: channel.CodeNaver, page: &channel.CatalogPage{Done: true}}
	engine := newTestEngine(t, adapter)

	body := `{"action":"update_inventory","productKey":"p-1"}`
	w := doJSON(engine, http.MethodPost, "/api/v1/channels/naver/catalog/sync", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, adapter.inventoryCalls)
}

func TestChannelHandler_BulkUpdateInventory(t *testing.T) {
	adapter := &stubAdapter{code: channel.CodeCoupang, page: &channel.CatalogPage{Done: true}}
	engine := newTestEngine(t, adapter)

	body := `{"changes":[
		{"productKey":"777","variantKey":"9001","quantity":3},
		{"productKey":"777","variantKey":"9002","quantity":0}
	]}`
	w := doJSON(engine, http.MethodPost, "/api/v1/channels/coupang/inventory/bulk", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, adapter.inventoryCalls, 2)
}

func TestChannelHandler_ListOrderChanges(t *testing.T) {
	adapter := &stubAdapter{
		code: channel.CodeNaver,
		page: &channel.CatalogPage{Done: true},
		orders: []channel.ChangedOrder{
			{OrderID: "o-1", ProductOrderID: "po-1", LastChangedType: channel.ChangeCanceled},
		},
	}
	engine := newTestEngine(t, adapter)

	w := doJSON(engine, http.MethodGet,
		"/api/v1/channels/naver/orders/changes?lastChangedFrom=2026-08-01T00:00:00Z&lastChangedTo=2026-08-02T00:00:00Z&lastChangedType=CANCELED", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	orders := data["orders"].([]interface{})
	require.Len(t, orders, 1)
}

func TestChannelHandler_ListOrderChangesBadWindow(t *testing.T) {
	adapter := &stubAdapter{code: channel.CodeNaver, page: &channel.CatalogPage{Done: true}}
	engine := newTestEngine(t, adapter)

	w := doJSON(engine, http.MethodGet,
		"/api/v1/channels/naver/orders/changes?lastChangedFrom=2026-08-02T00:00:00Z&lastChangedTo=2026-08-01T00:00:00Z", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChannelHandler_PerformClaimAction(t *testing.T) {
	adapter := &stubAdapter{code: channel.CodeNaver, page: &channel.CatalogPage{Done: true}}
	engine := newTestEngine(t, adapter)

	body := `{"claimKind":"return","action":"reject","productOrderId":"po-9","reason":"damaged"}`
	w := doJSON(engine, http.MethodPost, "/api/v1/channels/naver/claims/action", body)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, adapter.claimKinds, 1)
	assert.Equal(t, channel.ClaimReturn, adapter.claimKinds[0])
}

func TestChannelHandler_PerformClaimActionIllegal(t *testing.T) {
	adapter := &stubAdapter{code: channel.CodeNaver, page: &channel.CatalogPage{Done: true}}
	engine := newTestEngine(t, adapter)

	body := `{"claimKind":"cancel","action":"collect","productOrderId":"po-9"}`
	w := doJSON(engine, http.MethodPost, "/api/v1/channels/naver/claims/action", body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, adapter.claimKinds)
}
