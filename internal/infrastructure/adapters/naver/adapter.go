package naver

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

// maxResponseSize is the maximum allowed response size from the Naver API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// tokenCacheKey is the token cache key for this channel
const tokenCacheKey = "naver"

// tokenExpiryMargin is subtracted from the platform-reported token lifetime
// so a token is never used right at its expiry edge.
const tokenExpiryMargin = 60 * time.Second

// Adapter implements channel.Adapter for the Naver Smart Store platform
type Adapter struct {
	config     *Config
	httpClient *http.Client
	tokens     cache.TokenCache
}

// NewAdapter creates a new Naver adapter with the given configuration
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
	return channel.CodeNaver
}

// PageSize returns the catalog page size this adapter requests
func (a *Adapter) PageSize() int {
	return a.config.PageSize
}

// ListCatalogPage fetches one page of the seller's product list. The page
// token is the 1-based page number; an empty token means the first page.
func (a *Adapter) ListCatalogPage(ctx context.Context, pageToken string) (*channel.CatalogPage, error) {
	page := 1
	if pageToken != "" {
		n, err := strconv.Atoi(pageToken)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: bad page token %q", channel.ErrInvalidResponse, pageToken)
		}
		page = n
	}

	body, err := json.Marshal(productSearchRequest{Page: page, Size: a.config.PageSize})
	if err != nil {
		return nil, fmt.Errorf("naver: encode search request: %w", err)
	}

	respBody, err := a.doRequest(ctx, http.MethodPost, "/external/v1/products/search", nil, body)
	if err != nil {
		return nil, err
	}

	var resp productSearchResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", channel.ErrInvalidResponse, err)
	}

	result := &channel.CatalogPage{
		Items: make([]channel.CatalogItem, 0, len(resp.Contents)),
		Done:  resp.TotalPages > 0 && page >= resp.TotalPages,
	}
	if !result.Done {
		result.NextPageToken = strconv.Itoa(page + 1)
	}

	for _, content := range resp.Contents {
		result.Items = append(result.Items, convertContent(content))
	}
	return result, nil
}

// SetInventory sets the stock quantity for a product or one of its option
// combinations.
func (a *Adapter) SetInventory(ctx context.Context, key channel.VariantKey, quantity int) error {
	if err := key.Validate(); err != nil {
		return err
	}

	var path string
	var body interface{}
	if key.IsVariantLevel() {
		optionID, err := strconv.ParseInt(key.VariantID, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: option id %q is not numeric", channel.ErrInvalidVariantKey, key.VariantID)
		}
		path = fmt.Sprintf("/external/v1/products/origin-products/%s/option-stock", url.PathEscape(key.ProductID))
		body = optionStockUpdateRequest{
			OptionInfo: []optionStockInfo{{ID: optionID, StockQuantity: quantity}},
		}
	} else {
		path = fmt.Sprintf("/external/v1/products/origin-products/%s/stock", url.PathEscape(key.ProductID))
		body = productStockUpdateRequest{StockQuantity: quantity}
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("naver: encode stock request: %w", err)
	}
	_, err = a.doRequest(ctx, http.MethodPut, path, nil, raw)
	return err
}

// ListChangedOrders polls the last-changed-statuses feed for the window.
func (a *Adapter) ListChangedOrders(ctx context.Context, from, to time.Time, changeType *channel.ChangeType) ([]channel.ChangedOrder, error) {
	query := url.Values{}
	query.Set("lastChangedFrom", from.Format(time.RFC3339))
	query.Set("lastChangedTo", to.Format(time.RFC3339))
	if changeType != nil {
		query.Set("lastChangedType", changeType.String())
	}

	respBody, err := a.doRequest(ctx, http.MethodGet, "/external/v1/pay-order/seller/product-orders/last-changed-statuses", query, nil)
	if err != nil {
		return nil, err
	}

	var resp lastChangedStatusesResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", channel.ErrInvalidResponse, err)
	}

	orders := make([]channel.ChangedOrder, 0, len(resp.Data.LastChangeStatuses))
	for _, status := range resp.Data.LastChangeStatuses {
		order := channel.ChangedOrder{
			OrderID:         status.OrderID,
			ProductOrderID:  status.ProductOrderID,
			LastChangedType: channel.ChangeType(status.LastChangedType),
		}
		if t, err := time.Parse(time.RFC3339, status.LastChangedDate); err == nil {
			order.LastChangedAt = t
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// PerformClaimAction executes one claim action on a product order.
func (a *Adapter) PerformClaimAction(ctx context.Context, kind channel.ClaimKind, action channel.ClaimAction, productOrderID string, params channel.ActionParams) error {
	if err := channel.ValidateClaimAction(kind, action, params); err != nil {
		return err
	}

	path := fmt.Sprintf("/external/v1/pay-order/seller/product-orders/%s/claim/%s/%s",
		url.PathEscape(productOrderID), claimKindPath(kind), claimActionPath(action))

	body := claimRequest{
		DeliveryCompanyCode: params.CarrierCode,
		TrackingNumber:      params.TrackingNumber,
	}
	switch action {
	case channel.ActionReject:
		body.RejectReason = params.Reason
	case channel.ActionHold:
		body.HoldReason = params.Reason
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("naver: encode claim request: %w", err)
	}
	_, err = a.doRequest(ctx, http.MethodPost, path, nil, raw)
	return err
}

// claimKindPath maps a claim kind to its URL segment
func claimKindPath(kind channel.ClaimKind) string {
	return strings.ToLower(kind.String())
}

// claimActionPath maps a claim action to its URL segment
func claimActionPath(action channel.ClaimAction) string {
	return strings.ToLower(strings.ReplaceAll(action.String(), "_", "-"))
}

// convertContent maps one product list entry to the channel catalog model
func convertContent(content productContent) channel.CatalogItem {
	item := channel.CatalogItem{
		ExternalID: strconv.FormatInt(content.OriginProductNo, 10),
		Name:       content.Name,
		Price:      decimal.NewFromFloat(content.SalePrice),
		OnSale:     content.StatusType == "SALE",
		CategoryID: content.CategoryID,
	}
	for _, img := range content.Images {
		item.ImageURLs = append(item.ImageURLs, img.URL)
	}
	for _, combo := range content.OptionCombos {
		optionName := combo.OptionName1
		if combo.OptionName2 != "" {
			optionName += " / " + combo.OptionName2
		}
		variant := channel.Variant{
			CombinationID: strconv.FormatInt(combo.ID, 10),
			OptionName:    optionName,
			StockQuantity: combo.StockQuantity,
			ExternalSKU:   combo.SellerManagerCode,
		}
		if combo.Price != 0 {
			variant.PriceDelta = decimal.NewFromFloat(combo.Price)
		}
		item.Variants = append(item.Variants, variant)
	}
	return item
}

// ---------------------------------------------------------------------------
// Internal Helpers
// ---------------------------------------------------------------------------

// getToken returns a valid access token, fetching a fresh one on cache miss.
func (a *Adapter) getToken(ctx context.Context) (string, error) {
	token, ok, err := a.tokens.Get(ctx, tokenCacheKey)
	if err == nil && ok {
		return token, nil
	}

	timestamp := time.Now().UnixMilli()
	sign, err := a.config.Sign(timestamp)
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("client_id", a.config.ClientID)
	form.Set("timestamp", strconv.FormatInt(timestamp, 10))
	form.Set("grant_type", "client_credentials")
	form.Set("client_secret_sign", sign)
	form.Set("type", "SELF")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.config.BaseURL+"/external/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("naver: failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", &channel.PlatformError{Channel: channel.CodeNaver, Message: "token endpoint unreachable", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("naver: failed to read token response: %w", err)
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

	ttl := time.Duration(tok.ExpiresIn)*time.Second - tokenExpiryMargin
	if ttl > 0 {
		// A cache write failure only costs an extra token request later.
		_ = a.tokens.Set(ctx, tokenCacheKey, tok.AccessToken, ttl)
	}
	return tok.AccessToken, nil
}

// doRequest performs an authenticated HTTP request against the commerce API
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
		return nil, fmt.Errorf("naver: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, &channel.PlatformError{Channel: channel.CodeNaver, Message: "platform unreachable", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("naver: failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// Token may have been revoked server side; drop it so the next call
		// fetches a fresh one.
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
	if err := json.Unmarshal(body, &er); err == nil && er.Message != "" {
		return channel.NewPlatformError(channel.CodeNaver, status, er.Code, er.Message)
	}
	return channel.NewPlatformError(channel.CodeNaver, status, "", strings.TrimSpace(string(body)))
}
