package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/channelbridge/backend/internal/domain/channel"
	"github.com/channelbridge/backend/internal/domain/mirror"
	"github.com/channelbridge/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// fakeAdapter is a scriptable channel adapter. Calls are appended to the
// shared event log so tests can assert cross-component ordering.
type fakeAdapter struct {
	code     channel.Code
	pageSize int

	// pages served by ListCatalogPage in order. When exhausted the last page
	// is served again (used by the safety-cap tests).
	pages []*channel.CatalogPage
	// pageErr fails ListCatalogPage; pageErrAt delays it until the given
	// call number (1-based), zero fails every call.
	pageErr   error
	pageErrAt int
	pageCalls int

	setInventoryErr   error
	setInventoryCalls []channel.InventoryChange

	changedOrders  []channel.ChangedOrder
	listOrdersErr  error
	listOrderCalls int
	lastFrom       time.Time
	lastTo         time.Time
	lastChangeType *channel.ChangeType

	claimErr   error
	claimCalls []claimCall

	events *[]string
}

type claimCall struct {
	kind           channel.ClaimKind
	action         channel.ClaimAction
	productOrderID string
	params         channel.ActionParams
}

func (f *fakeAdapter) Channel() channel.Code { return f.code }

func (f *fakeAdapter) PageSize() int {
	if f.pageSize == 0 {
		return 100
	}
	return f.pageSize
}

func (f *fakeAdapter) ListCatalogPage(_ context.Context, _ string) (*channel.CatalogPage, error) {
	f.pageCalls++
	if f.pageErr != nil && f.pageCalls >= f.pageErrAt {
		return nil, f.pageErr
	}
	idx := f.pageCalls - 1
	if idx >= len(f.pages) {
		idx = len(f.pages) - 1
	}
	return f.pages[idx], nil
}

func (f *fakeAdapter) SetInventory(_ context.Context, key channel.VariantKey, quantity int) error {
	if f.setInventoryErr != nil {
		return f.setInventoryErr
	}
	f.setInventoryCalls = append(f.setInventoryCalls, channel.InventoryChange{Key: key, Quantity: quantity})
	if f.events != nil {
		*f.events = append(*f.events, "remote:"+key.String())
	}
	return nil
}

func (f *fakeAdapter) ListChangedOrders(_ context.Context, from, to time.Time, changeType *channel.ChangeType) ([]channel.ChangedOrder, error) {
	f.listOrderCalls++
	f.lastFrom, f.lastTo, f.lastChangeType = from, to, changeType
	if f.listOrdersErr != nil {
		return nil, f.listOrdersErr
	}
	return f.changedOrders, nil
}

func (f *fakeAdapter) PerformClaimAction(_ context.Context, kind channel.ClaimKind, action channel.ClaimAction, productOrderID string, params channel.ActionParams) error {
	f.claimCalls = append(f.claimCalls, claimCall{kind, action, productOrderID, params})
	return f.claimErr
}

// memStore is an in-memory mirror store keyed the same way the SQL store is.
type memStore struct {
	products map[string]*mirror.ChannelProduct
	variants map[string]*mirror.ChannelVariant

	// failProductIDs makes UpsertProduct fail for the listed external ids.
	failProductIDs map[string]bool
	updateQtyErr   error

	events *[]string
}

func newMemStore() *memStore {
	return &memStore{
		products:       map[string]*mirror.ChannelProduct{},
		variants:       map[string]*mirror.ChannelVariant{},
		failProductIDs: map[string]bool{},
	}
}

func productKey(code channel.Code, externalID string) string {
	return string(code) + "|" + externalID
}

func variantKey(code channel.Code, productExternalID, combinationID string) string {
	return string(code) + "|" + productExternalID + "|" + combinationID
}

func (m *memStore) UpsertProduct(_ context.Context, p *mirror.ChannelProduct) error {
	if m.failProductIDs[p.ExternalID] {
		return fmt.Errorf("storage rejected row")
	}
	m.products[productKey(p.Channel, p.ExternalID)] = p
	return nil
}

func (m *memStore) UpsertVariant(_ context.Context, v *mirror.ChannelVariant) error {
	m.variants[variantKey(v.Channel, v.ProductExternalID, v.CombinationID)] = v
	return nil
}

func (m *memStore) UpdateQuantity(_ context.Context, code channel.Code, key channel.VariantKey, quantity int, syncedAt time.Time) error {
	if m.updateQtyErr != nil {
		return m.updateQtyErr
	}
	if m.events != nil {
		*m.events = append(*m.events, "local:"+key.String())
	}
	if v, ok := m.variants[variantKey(code, key.ProductID, key.VariantID)]; ok {
		v.StockQuantity = quantity
		v.SyncedAt = syncedAt
	}
	return nil
}

func (m *memStore) FindProduct(_ context.Context, code channel.Code, externalID string) (*mirror.ChannelProduct, error) {
	p, ok := m.products[productKey(code, externalID)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (m *memStore) FindVariants(_ context.Context, code channel.Code, productExternalID string) ([]mirror.ChannelVariant, error) {
	var out []mirror.ChannelVariant
	for _, v := range m.variants {
		if v.Channel == code && v.ProductExternalID == productExternalID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (m *memStore) CountProducts(_ context.Context, code channel.Code) (int64, error) {
	var n int64
	for _, p := range m.products {
		if p.Channel == code {
			n++
		}
	}
	return n, nil
}

// memSyncLogStore collects sync log rows.
type memSyncLogStore struct {
	logs []*mirror.SyncLog
}

func (m *memSyncLogStore) Create(_ context.Context, log *mirror.SyncLog) error {
	m.logs = append(m.logs, log)
	return nil
}

func (m *memSyncLogStore) LastForChannel(_ context.Context, code channel.Code, syncType mirror.SyncType) (*mirror.SyncLog, error) {
	for i := len(m.logs) - 1; i >= 0; i-- {
		if m.logs[i].Channel == code && m.logs[i].SyncType == syncType {
			return m.logs[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

// mapResolver resolves SKUs from a fixed map.
type mapResolver struct {
	bySKU map[string]uuid.UUID
}

func (r *mapResolver) ResolveSKU(_ context.Context, externalSKU string) (*uuid.UUID, error) {
	if id, ok := r.bySKU[externalSKU]; ok {
		return &id, nil
	}
	return nil, nil
}
