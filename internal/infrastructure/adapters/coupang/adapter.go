package coupang

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/channelbridge/backend/internal/domain/channel"
)

// maxResponseSize is the maximum allowed response size from the Coupang API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// orderedAtLayout is the datetime format in ordersheet responses
const orderedAtLayout = "2006-01-02T15:04:05"

// Adapter implements channel.Adapter for the Coupang WING open-market platform
type Adapter struct {
	config     *Config
	httpClient *http.Client

	// now is swapped in tests to pin the signature datetime
	now func() time.Time
}

// NewAdapter creates a new Coupang adapter with the given configuration
func NewAdapter(config *Config) (*Adapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Adapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		now: time.Now,
	}, nil
}

// Channel returns the channel code this adapter handles
func (a *Adapter) Channel() channel.Code {
	return channel.CodeCoupang
}

// PageSize returns the catalog page size this adapter requests
func (a *Adapter) PageSize() int {
	return a.config.PageSize
}

// ListCatalogPage fetches one page of the seller product list. The page token
// is Coupang's opaque nextToken; an empty token means the first page.
func (a *Adapter) ListCatalogPage(ctx context.Context, pageToken string) (*channel.CatalogPage, error) {
	query := url.Values{}
	query.Set("vendorId", a.config.VendorID)
	query.Set("maxPerPage", strconv.Itoa(a.config.PageSize))
	if pageToken != "" {
		query.Set("nextToken", pageToken)
	}

	respBody, err := a.doRequest(ctx, http.MethodGet,
		"/v2/providers/seller_api/apis/api/v1/marketplace/seller-products", query, nil)
	if err != nil {
		return nil, err
	}

	var resp sellerProductListResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", channel.ErrInvalidResponse, err)
	}

	result := &channel.CatalogPage{
		Items:         make([]channel.CatalogItem, 0, len(resp.Data)),
		NextPageToken: resp.NextToken,
		Done:          resp.NextToken == "",
	}
	for _, product := range resp.Data {
		result.Items = append(result.Items, convertSellerProduct(product))
	}
	return result, nil
}

// SetInventory sets the stock quantity of one vendor item. Coupang tracks
// stock per vendor item only, so the key must be variant level.
func (a *Adapter) SetInventory(ctx context.Context, key channel.VariantKey, quantity int) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if !key.IsVariantLevel() {
		return fmt.Errorf("%w: coupang requires a vendor item id", channel.ErrInvalidVariantKey)
	}

	path := fmt.Sprintf(
		"/v2/providers/seller_api/apis/api/v1/marketplace/vendor-items/%s/quantities/%d",
		url.PathEscape(key.VariantID), quantity)
	_, err := a.doRequest(ctx, http.MethodPut, path, nil, nil)
	return err
}

// ListChangedOrders polls ordersheets whose status changed inside the window.
func (a *Adapter) ListChangedOrders(ctx context.Context, from, to time.Time, changeType *channel.ChangeType) ([]channel.ChangedOrder, error) {
	query := url.Values{}
	query.Set("createdAtFrom", from.Format("2006-01-02"))
	query.Set("createdAtTo", to.Format("2006-01-02"))
	if changeType != nil {
		status, ok := changeTypeToStatus[*changeType]
		if !ok {
			return nil, fmt.Errorf("%w: %s has no coupang equivalent", channel.ErrInvalidChangeType, changeType)
		}
		query.Set("status", status)
	}

	path := fmt.Sprintf("/v2/providers/openapi/apis/api/v4/vendors/%s/ordersheets", a.config.VendorID)
	respBody, err := a.doRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}

	var resp ordersheetListResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", channel.ErrInvalidResponse, err)
	}

	orders := make([]channel.ChangedOrder, 0, len(resp.Data))
	for _, sheet := range resp.Data {
		orders = append(orders, convertOrdersheet(sheet))
	}
	return orders, nil
}

// PerformClaimAction executes one claim action on an order.
func (a *Adapter) PerformClaimAction(ctx context.Context, kind channel.ClaimKind, action channel.ClaimAction, productOrderID string, params channel.ActionParams) error {
	if err := channel.ValidateClaimAction(kind, action, params); err != nil {
		return err
	}

	path := fmt.Sprintf("/v2/providers/openapi/apis/api/v4/vendors/%s/%s/%s/%s",
		a.config.VendorID, claimKindSegment(kind),
		url.PathEscape(productOrderID), claimActionSegment(action))

	body := claimActionRequest{
		VendorID:            a.config.VendorID,
		Reason:              params.Reason,
		DeliveryCompanyCode: params.CarrierCode,
		InvoiceNumber:       params.TrackingNumber,
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("coupang: encode claim request: %w", err)
	}

	_, err = a.doRequest(ctx, http.MethodPut, path, nil, raw)
	return err
}

// changeTypeToStatus maps portable change types to Coupang order statuses
var changeTypeToStatus = map[channel.ChangeType]string{
	channel.ChangePayed:           "ACCEPT",
	channel.ChangeDispatched:      "DEPARTURE",
	channel.ChangeDelivered:       "FINAL_DELIVERY",
	channel.ChangePurchaseDecided: "PURCHASE_DECIDED",
	channel.ChangeCanceled:        "CANCEL",
	channel.ChangeReturned:        "RETURN",
	channel.ChangeExchanged:       "EXCHANGE",
}

// statusToChangeType is the reverse mapping for responses
var statusToChangeType = map[string]channel.ChangeType{
	"ACCEPT":           channel.ChangePayed,
	"INSTRUCT":         channel.ChangePayed,
	"DEPARTURE":        channel.ChangeDispatched,
	"DELIVERING":       channel.ChangeDispatched,
	"FINAL_DELIVERY":   channel.ChangeDelivered,
	"PURCHASE_DECIDED": channel.ChangePurchaseDecided,
	"CANCEL":           channel.ChangeCanceled,
	"RETURN":           channel.ChangeReturned,
	"EXCHANGE":         channel.ChangeExchanged,
}

// claimKindSegment maps a claim kind to its URL segment
func claimKindSegment(kind channel.ClaimKind) string {
	switch kind {
	case channel.ClaimCancel:
		return "cancelRequests"
	case channel.ClaimReturn:
		return "returnRequests"
	case channel.ClaimExchange:
		return "exchangeRequests"
	}
	return strings.ToLower(kind.String())
}

// claimActionSegment maps a claim action to its URL segment
func claimActionSegment(action channel.ClaimAction) string {
	switch action {
	case channel.ActionApprove:
		return "approval"
	case channel.ActionReject:
		return "rejection"
	case channel.ActionHold:
		return "hold"
	case channel.ActionReleaseHold:
		return "release-hold"
	case channel.ActionWithdraw:
		return "withdrawal"
	case channel.ActionCollect:
		return "collection"
	case channel.ActionDispatch:
		return "invoices"
	}
	return strings.ToLower(action.String())
}

// convertSellerProduct maps one seller product to the channel catalog model
func convertSellerProduct(product sellerProduct) channel.CatalogItem {
	item := channel.CatalogItem{
		ExternalID: strconv.FormatInt(product.SellerProductID, 10),
		Name:       product.SellerProductName,
		Price:      decimal.NewFromFloat(product.SalePrice),
		OnSale:     product.StatusName == "APPROVED" || product.StatusName == "SALE",
	}
	if product.DisplayCategoryCode != 0 {
		item.CategoryID = strconv.FormatInt(product.DisplayCategoryCode, 10)
	}
	for _, vi := range product.Items {
		variant := channel.Variant{
			CombinationID: strconv.FormatInt(vi.VendorItemID, 10),
			OptionName:    vi.ItemName,
			StockQuantity: vi.StockQuantity,
			ExternalSKU:   vi.ExternalVendorSku,
		}
		if vi.SalePrice != 0 && vi.SalePrice != product.SalePrice {
			variant.PriceDelta = decimal.NewFromFloat(vi.SalePrice - product.SalePrice)
		}
		item.Variants = append(item.Variants, variant)
	}
	return item
}

// convertOrdersheet maps one ordersheet to the portable changed-order model
func convertOrdersheet(sheet ordersheet) channel.ChangedOrder {
	order := channel.ChangedOrder{
		OrderID:         strconv.FormatInt(sheet.OrderID, 10),
		ProductOrderID:  strconv.FormatInt(sheet.OrderID, 10),
		LastChangedType: statusToChangeType[sheet.Status],
	}
	if t, err := time.Parse(orderedAtLayout, sheet.OrderedAt); err == nil {
		order.LastChangedAt = t
	}
	for _, oi := range sheet.OrderItems {
		order.Lines = append(order.Lines, channel.OrderLine{
			ProductID:   strconv.FormatInt(oi.SellerProductID, 10),
			ProductName: oi.VendorItemName,
			Quantity:    oi.ShippingCount,
			UnitPrice:   decimal.NewFromFloat(oi.SalesPrice),
		})
	}
	return order
}

// doRequest performs a signed HTTP request against the WING open API
func (a *Adapter) doRequest(ctx context.Context, method, path string, query url.Values, body []byte) ([]byte, error) {
	endpoint := a.config.BaseURL + path
	rawQuery := ""
	if len(query) > 0 {
		rawQuery = query.Encode()
		endpoint += "?" + rawQuery
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("coupang: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", a.config.AuthorizationHeader(method, path, rawQuery, a.now()))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, &channel.PlatformError{Channel: channel.CodeCoupang, Message: "platform unreachable", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("coupang: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var er apiResponse
		if err := json.Unmarshal(respBody, &er); err == nil && er.Message != "" {
			return nil, channel.NewPlatformError(channel.CodeCoupang, resp.StatusCode, er.Code, er.Message)
		}
		return nil, channel.NewPlatformError(channel.CodeCoupang, resp.StatusCode, "", strings.TrimSpace(string(respBody)))
	}
	return respBody, nil
}
