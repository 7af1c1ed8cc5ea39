package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	appsync "github.com/channelbridge/backend/internal/application/sync"
	"github.com/channelbridge/backend/internal/domain/channel"
	"github.com/channelbridge/backend/internal/interfaces/http/dto"
)

// ChannelHandler exposes catalog sync, inventory reconciliation, order change
// polling and claim actions for one marketplace channel.
type ChannelHandler struct {
	BaseHandler
	catalog   *appsync.CatalogService
	inventory *appsync.InventoryService
	orders    *appsync.OrderService
	claims    *appsync.ClaimService
}

// NewChannelHandler creates a new channel handler
func NewChannelHandler(
	catalog *appsync.CatalogService,
	inventory *appsync.InventoryService,
	orders *appsync.OrderService,
	claims *appsync.ClaimService,
) *ChannelHandler {
	return &ChannelHandler{
		catalog:   catalog,
		inventory: inventory,
		orders:    orders,
		claims:    claims,
	}
}

// RegisterRoutes registers channel routes
func (h *ChannelHandler) RegisterRoutes(rg *gin.RouterGroup) {
	channels := rg.Group("/channels/:channel")
	{
		channels.POST("/catalog/sync", h.SyncCatalog)
		channels.POST("/inventory/bulk", h.BulkUpdateInventory)
		channels.GET("/orders/changes", h.ListOrderChanges)
		channels.POST("/claims/action", h.PerformClaimAction)
	}
}

// syncRequest is the optional body of POST /channels/:channel/catalog/sync.
// An empty body runs a full catalog sync; action "update_inventory" reconciles
// a single quantity instead.
type syncRequest struct {
	Action     string `json:"action" binding:"omitempty,oneof=update_inventory"`
	ProductKey string `json:"productKey"`
	VariantKey string `json:"variantKey"`
	Quantity   *int   `json:"quantity"`
}

// SyncCatalog handles POST /channels/:channel/catalog/sync
func (h *ChannelHandler) SyncCatalog(c *gin.Context) {
	code, ok := h.parseChannel(c)
	if !ok {
		return
	}

	var req syncRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.Error(c, 400, dto.ErrCodeInvalidJSON, err.Error())
			return
		}
	}

	if req.Action == "update_inventory" {
		if req.Quantity == nil {
			h.ErrorWithCode(c, dto.ErrCodeValidation, "quantity is required for update_inventory")
			return
		}
		key := channel.VariantKey{ProductID: req.ProductKey, VariantID: req.VariantKey}
		result, err := h.inventory.UpdateQuantity(c.Request.Context(), code, key, *req.Quantity)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, result)
		return
	}

	result, err := h.catalog.SyncCatalog(c.Request.Context(), code)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// bulkInventoryRequest is the body of POST /channels/:channel/inventory/bulk
type bulkInventoryRequest struct {
	Changes []inventoryChangeRequest `json:"changes" binding:"required,min=1,dive"`
}

type inventoryChangeRequest struct {
	ProductKey string `json:"productKey" binding:"required"`
	VariantKey string `json:"variantKey"`
	Quantity   int    `json:"quantity" binding:"min=0"`
}

// BulkUpdateInventory handles POST /channels/:channel/inventory/bulk
func (h *ChannelHandler) BulkUpdateInventory(c *gin.Context) {
	code, ok := h.parseChannel(c)
	if !ok {
		return
	}

	var req bulkInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	changes := make([]channel.InventoryChange, 0, len(req.Changes))
	for _, ch := range req.Changes {
		changes = append(changes, channel.InventoryChange{
			Key:      channel.VariantKey{ProductID: ch.ProductKey, VariantID: ch.VariantKey},
			Quantity: ch.Quantity,
		})
	}

	batch, err := h.inventory.BulkUpdate(c.Request.Context(), code, changes)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batch)
}

// ListOrderChanges handles GET /channels/:channel/orders/changes
func (h *ChannelHandler) ListOrderChanges(c *gin.Context) {
	code, ok := h.parseChannel(c)
	if !ok {
		return
	}

	var from, to *time.Time
	if s := c.Query("lastChangedFrom"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			h.ErrorWithCode(c, dto.ErrCodeValidation, "lastChangedFrom must be RFC3339")
			return
		}
		from = &t
	}
	if s := c.Query("lastChangedTo"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			h.ErrorWithCode(c, dto.ErrCodeValidation, "lastChangedTo must be RFC3339")
			return
		}
		to = &t
	}

	var changeType *channel.ChangeType
	if s := c.Query("lastChangedType"); s != "" {
		ct := channel.ChangeType(normalizeEnum(s))
		changeType = &ct
	}

	result, err := h.orders.ListChanges(c.Request.Context(), code, from, to, changeType)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// claimActionRequest is the body of POST /channels/:channel/claims/action
type claimActionRequest struct {
	Kind           string `json:"claimKind" binding:"required"`
	Action         string `json:"action" binding:"required"`
	ProductOrderID string `json:"productOrderId" binding:"required"`
	Reason         string `json:"reason"`
	DetailedReason string `json:"detailedReason"`
	CarrierCode    string `json:"carrierCode"`
	TrackingNumber string `json:"trackingNumber"`
	Memo           string `json:"memo"`
}

// normalizeEnum lifts a wire enum value ("release-hold") into the canonical
// form ("RELEASE_HOLD").
func normalizeEnum(s string) string {
	return strings.ToUpper(strings.ReplaceAll(s, "-", "_"))
}

// PerformClaimAction handles POST /channels/:channel/claims/action
func (h *ChannelHandler) PerformClaimAction(c *gin.Context) {
	code, ok := h.parseChannel(c)
	if !ok {
		return
	}

	var req claimActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	kind := channel.ClaimKind(normalizeEnum(req.Kind))
	action := channel.ClaimAction(normalizeEnum(req.Action))

	result, err := h.claims.PerformAction(c.Request.Context(), code,
		kind, action, req.ProductOrderID,
		channel.ActionParams{
			Reason:         req.Reason,
			DetailedReason: req.DetailedReason,
			CarrierCode:    req.CarrierCode,
			TrackingNumber: req.TrackingNumber,
			Memo:           req.Memo,
		})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
