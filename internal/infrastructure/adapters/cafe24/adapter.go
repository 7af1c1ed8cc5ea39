package cafe24

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
	"github.com/channelbridge/backend/internal/infrastructure/cache"
)

// maxResponseSize is the maximum allowed response size from the Cafe24 API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// tokenCacheKey is the token cache key for this channel
const tokenCacheKey = "cafe24"

// accessTokenTTL is the cache lifetime for a minted access token. Cafe24
// access tokens live two hours; a margin keeps us off the expiry edge.
const accessTokenTTL = 110 * time.Minute

// orderDateLayout is the datetime format in order responses
const orderDateLayout = "2006-01-02T15:04:05-07:00"

// Adapter implements channel.Adapter for the Cafe24 hosted-shop platform
type Adapter struct {
	config     *Config
	httpClient *http.Client
	tokens     cache.TokenCache
}

// NewAdapter creates a new Cafe24 adapter with the given configuration
func NewAdapter(config *Config, tokens cache.TokenCache) (*Adapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if tokens == nil {
		tokens = cache.NewInMemoryTokenCache()
	}

	return &Adapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		tokens: tokens,
	}, nil
}

// Channel returns the channel code this adapter handles
func (a *Adapter) Channel() channel.Code {
	return channel.CodeCafe24
}

// PageSize returns the catalog page size this adapter requests
func (a *Adapter) PageSize() int {
	return a.config.PageSize
}

// ListCatalogPage fetches one page of the shop's product list. The page token
// is the offset as a decimal string; an empty token means offset 0.
func (a *Adapter) ListCatalogPage(ctx context.Context, pageToken string) (*channel.CatalogPage, error) {
	offset := 0
	if pageToken != "" {
		n, err := strconv.Atoi(pageToken)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: bad page token %q", channel.ErrInvalidResponse, pageToken)
		}
		offset = n
	}

	query := url.Values{}
	query.Set("offset", strconv.Itoa(offset))
	query.Set("limit", strconv.Itoa(a.config.PageSize))
	query.Set("embed", "variants")

	respBody, err := a.doRequest(ctx, http.MethodGet, "/api/v2/admin/products", query, nil)
	if err != nil {
		return nil, err
	}

	var resp productListResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", channel.ErrInvalidResponse, err)
	}

	result := &channel.CatalogPage{
		Items: make([]channel.CatalogItem, 0, len(resp.Products)),
	}
	// The product list carries no total; the short-page heuristic decides
	// when to stop, so the next token is always advertised.
	result.NextPageToken = strconv.Itoa(offset + len(resp.Products))
	for _, p := range resp.Products {
		result.Items = append(result.Items, convertProduct(p))
	}
	return result, nil
}

// SetInventory sets the quantity of one variant. Cafe24 tracks stock per
// variant code, so the key must be variant level.
func (a *Adapter) SetInventory(ctx context.Context, key channel.VariantKey, quantity int) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if !key.IsVariantLevel() {
		return fmt.Errorf("%w: cafe24 requires a variant code", channel.ErrInvalidVariantKey)
	}

	var req variantUpdateRequest
	req.Request.Quantity = quantity
	raw, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("cafe24: encode variant request: %w", err)
	}

	path := fmt.Sprintf("/api/v2/admin/products/%s/variants/%s/inventories",
		url.PathEscape(key.ProductID), url.PathEscape(key.VariantID))
	_, err = a.doRequest(ctx, http.MethodPut, path, nil, raw)
	return err
}

// ListChangedOrders polls orders updated inside the window.
func (a *Adapter) ListChangedOrders(ctx context.Context, from, to time.Time, changeType *channel.ChangeType) ([]channel.ChangedOrder, error) {
	query := url.Values{}
	query.Set("date_type", "update_date")
	query.Set("start_date", from.Format("2006-01-02"))
	query.Set("end_date", to.Format("2006-01-02"))
	query.Set("embed", "items")
	if changeType != nil {
		status, ok := changeTypeToStatus[*changeType]
		if !ok {
			return nil, fmt.Errorf("%w: %s has no cafe24 equivalent", channel.ErrInvalidChangeType, changeType)
		}
		query.Set("order_status", status)
	}

	respBody, err := a.doRequest(ctx, http.MethodGet, "/api/v2/admin/orders", query, nil)
	if err != nil {
		return nil, err
	}

	var resp orderListResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", channel.ErrInvalidResponse, err)
	}

	orders := make([]channel.ChangedOrder, 0, len(resp.Orders))
	for _, o := range resp.Orders {
		orders = append(orders, convertOrder(o))
	}
	return orders, nil
}

// PerformClaimAction executes one claim action. Cafe24 models claim actions
// as status transitions on order items.
func (a *Adapter) PerformClaimAction(ctx context.Context, kind channel.ClaimKind, action channel.ClaimAction, productOrderID string, params channel.ActionParams) error {
	if err := channel.ValidateClaimAction(kind, action, params); err != nil {
		return err
	}

	status, ok := claimStatus[kind][action]
	if !ok {
		return fmt.Errorf("%w: %s %s has no cafe24 status", channel.ErrUnsupportedAction, action, kind)
	}

	body := claimUpdateRequest{
		Requests: []claimUpdate{{
			OrderItemCode:       productOrderID,
			Status:              status,
			Reason:              params.Reason,
			ShippingCompanyCode: params.CarrierCode,
			TrackingNo:          params.TrackingNumber,
		}},
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("cafe24: encode claim request: %w", err)
	}

	path := fmt.Sprintf("/api/v2/admin/%s", claimKindResource(kind))
	_, err = a.doRequest(ctx, http.MethodPut, path, nil, raw)
	return err
}

// changeTypeToStatus maps portable change types to Cafe24 order statuses
var changeTypeToStatus = map[channel.ChangeType]string{
	channel.ChangePayed:           "N10",
	channel.ChangeDispatched:      "N21",
	channel.ChangeDelivered:       "N40",
	channel.ChangePurchaseDecided: "N50",
	channel.ChangeCanceled:        "C40",
	channel.ChangeReturned:        "R40",
	channel.ChangeExchanged:       "E40",
}

// statusToChangeType is the reverse mapping for responses
var statusToChangeType = map[string]channel.ChangeType{
	"N10": channel.ChangePayed,
	"N21": channel.ChangeDispatched,
	"N30": channel.ChangeDispatched,
	"N40": channel.ChangeDelivered,
	"N50": channel.ChangePurchaseDecided,
	"C40": channel.ChangeCanceled,
	"R40": channel.ChangeReturned,
	"E40": channel.ChangeExchanged,
}

// claimStatus maps kind/action pairs to Cafe24 claim status codes
var claimStatus = map[channel.ClaimKind]map[channel.ClaimAction]string{
	channel.ClaimCancel: {
		channel.ActionApprove:  "C40",
		channel.ActionReject:   "C90",
		channel.ActionWithdraw: "C00",
	},
	channel.ClaimReturn: {
		channel.ActionApprove:     "R40",
		channel.ActionReject:      "R90",
		channel.ActionHold:        "R30",
		channel.ActionReleaseHold: "R20",
		channel.ActionWithdraw:    "R00",
	},
	channel.ClaimExchange: {
		channel.ActionCollect:     "E20",
		channel.ActionDispatch:    "E30",
		channel.ActionHold:        "E35",
		channel.ActionReleaseHold: "E25",
		channel.ActionReject:      "E90",
		channel.ActionWithdraw:    "E00",
	},
}

// claimKindResource maps a claim kind to its admin API resource
func claimKindResource(kind channel.ClaimKind) string {
	switch kind {
	case channel.ClaimCancel:
		return "cancellation"
	case channel.ClaimReturn:
		return "return"
	case channel.ClaimExchange:
		return "exchange"
	}
	return strings.ToLower(kind.String())
}

// convertProduct maps one product to the channel catalog model
func convertProduct(p product) channel.CatalogItem {
	item := channel.CatalogItem{
		ExternalID: strconv.FormatInt(p.ProductNo, 10),
		Name:       p.ProductName,
		Price:      parseDecimal(p.Price),
		OnSale:     p.Selling == "T",
	}
	if p.CategoryNo != 0 {
		item.CategoryID = strconv.FormatInt(p.CategoryNo, 10)
	}
	if p.DetailImage != "" {
		item.ImageURLs = []string{p.DetailImage}
	}
	for _, v := range p.Variants {
		names := make([]string, 0, len(v.Options))
		for _, opt := range v.Options {
			names = append(names, opt.Name+": "+opt.Value)
		}
		item.Variants = append(item.Variants, channel.Variant{
			CombinationID: v.VariantCode,
			OptionName:    strings.Join(names, " / "),
			StockQuantity: v.Quantity,
			PriceDelta:    parseDecimal(v.AdditionalPrice),
			ExternalSKU:   v.CustomVariantCode,
		})
	}
	return item
}

// convertOrder maps one order to the portable changed-order model
func convertOrder(o order) channel.ChangedOrder {
	out := channel.ChangedOrder{
		OrderID:         o.OrderID,
		ProductOrderID:  o.OrderID,
		LastChangedType: statusToChangeType[o.OrderStatus],
	}
	if t, err := time.Parse(orderDateLayout, o.OrderDate); err == nil {
		out.LastChangedAt = t
	}
	for _, it := range o.Items {
		if out.ProductOrderID == o.OrderID && it.OrderItemCode != "" {
			out.ProductOrderID = it.OrderItemCode
		}
		out.Lines = append(out.Lines, channel.OrderLine{
			ProductID:   strconv.FormatInt(it.ProductNo, 10),
			ProductName: it.ProductName,
			Option:      it.OptionValue,
			Quantity:    it.Quantity,
			UnitPrice:   parseDecimal(it.ProductPrice),
		})
	}
	return out
}

// parseDecimal parses the string-encoded amounts the admin API uses
func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ---------------------------------------------------------------------------
// Internal Helpers
// ---------------------------------------------------------------------------

// getToken returns a valid access token, minting one from the refresh token
// on cache miss.
func (a *Adapter) getToken(ctx context.Context) (string, error) {
	token, ok, err := a.tokens.Get(ctx, tokenCacheKey)
	if err == nil && ok {
		return token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", a.config.RefreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.config.BaseURL+"/api/v2/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("cafe24: failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", a.config.BasicAuth())

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", &channel.PlatformError{Channel: channel.CodeCafe24, Message: "token endpoint unreachable", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("cafe24: failed to read token response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", newPlatformError(resp.StatusCode, body)
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", fmt.Errorf("%w: %v", channel.ErrInvalidResponse, err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", channel.ErrAuthFailed)
	}

	// A cache write failure only costs an extra token request later.
	_ = a.tokens.Set(ctx, tokenCacheKey, tok.AccessToken, accessTokenTTL)
	return tok.AccessToken, nil
}

// doRequest performs an authenticated HTTP request against the admin API
func (a *Adapter) doRequest(ctx context.Context, method, path string, query url.Values, body []byte) ([]byte, error) {
	token, err := a.getToken(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := a.config.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("cafe24: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Cafe24-Api-Version", a.config.APIVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, &channel.PlatformError{Channel: channel.CodeCafe24, Message: "platform unreachable", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("cafe24: failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		_ = a.tokens.Delete(ctx, tokenCacheKey)
	}
	if resp.StatusCode >= 400 {
		return nil, newPlatformError(resp.StatusCode, respBody)
	}
	return respBody, nil
}

// newPlatformError converts a non-2xx response into a PlatformError keeping
// the platform's own code and message verbatim.
func newPlatformError(status int, body []byte) error {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error.Message != "" {
		return channel.NewPlatformError(channel.CodeCafe24, status, er.Error.Code, er.Error.Message)
	}
	return channel.NewPlatformError(channel.CodeCafe24, status, "", strings.TrimSpace(string(body)))
}
