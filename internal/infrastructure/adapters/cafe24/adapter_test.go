package cafe24

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/channelbridge/backend/internal/domain/channel"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr error
	}{
		{
			name:    "valid config",
			config:  &Config{MallID: "myshop", ClientID: "cid", ClientSecret: "secret", RefreshToken: "rt"},
			wantErr: nil,
		},
		{
			name:    "missing mall id",
			config:  &Config{ClientID: "cid", ClientSecret: "secret", RefreshToken: "rt"},
			wantErr: ErrConfigMissingMallID,
		},
		{
			name:    "missing client id",
			config:  &Config{MallID: "myshop", ClientSecret: "secret", RefreshToken: "rt"},
			wantErr: ErrConfigMissingClientID,
		},
		{
			name:    "missing refresh token",
			config:  &Config{MallID: "myshop", ClientID: "cid", ClientSecret: "secret"},
			wantErr: ErrConfigMissingRefreshToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "https://myshop.cafe24api.com", tt.config.BaseURL)
				assert.Equal(t, DefaultAPIVersion, tt.config.APIVersion)
			}
		})
	}
}

// testServer wires an httptest server that serves the OAuth token endpoint
// plus a caller-provided handler for everything else. It returns the adapter
// and a counter of token requests.
func testServer(t *testing.T, handler http.HandlerFunc) (*Adapter, *int) {
	t.Helper()
	tokenCalls := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v2/oauth/token" {
			tokenCalls++
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "refresh_token", r.FormValue("grant_type"))
			assert.Equal(t, "rt-1", r.FormValue("refresh_token"))
			assert.Contains(t, r.Header.Get("Authorization"), "Basic ")
			json.NewEncoder(w).Encode(tokenResponse{AccessToken: "tok-xyz"})
			return
		}
		assert.Equal(t, "Bearer tok-xyz", r.Header.Get("Authorization"))
		assert.Equal(t, DefaultAPIVersion, r.Header.Get("X-Cafe24-Api-Version"))
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	config := NewConfig("myshop", "cid", "secret", "rt-1")
	config.BaseURL = server.URL
	config.PageSize = 2
	adapter, err := NewAdapter(config, nil)
	require.NoError(t, err)
	return adapter, &tokenCalls
}

func TestAdapter_ListCatalogPage(t *testing.T) {
	adapter, tokenCalls := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/admin/products", r.URL.Path)
		assert.Equal(t, "0", r.URL.Query().Get("offset"))
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		assert.Equal(t, "variants", r.URL.Query().Get("embed"))

		json.NewEncoder(w).Encode(productListResponse{
			Products: []product{
				{
					ProductNo:   4021,
					ProductName: "Linen Shirt",
					Price:       "39000.00",
					Display:     "T",
					Selling:     "T",
					CategoryNo:  25,
					DetailImage: "https://img.example.com/shirt.jpg",
					Variants: []variant{
						{
							VariantCode:       "P000000R000A",
							Options:           []option{{Name: "Color", Value: "White"}, {Name: "Size", Value: "M"}},
							Quantity:          14,
							AdditionalPrice:   "0.00",
							CustomVariantCode: "SHIRT-WH-M",
						},
						{
							VariantCode:     "P000000R000B",
							Options:         []option{{Name: "Color", Value: "White"}, {Name: "Size", Value: "L"}},
							Quantity:        6,
							AdditionalPrice: "2000.00",
						},
					},
				},
				{ProductNo: 4022, ProductName: "Wool Scarf", Price: "18000.00", Selling: "F"},
			},
		})
	})

	page, err := adapter.ListCatalogPage(context.Background(), "")
	require.NoError(t, err)

	assert.False(t, page.Done)
	assert.Equal(t, "2", page.NextPageToken)
	require.Len(t, page.Items, 2)

	item := page.Items[0]
	assert.Equal(t, "4021", item.ExternalID)
	assert.Equal(t, "Linen Shirt", item.Name)
	assert.True(t, item.Price.Equal(decimal.NewFromInt(39000)))
	assert.True(t, item.OnSale)
	assert.Equal(t, "25", item.CategoryID)
	assert.Equal(t, []string{"https://img.example.com/shirt.jpg"}, item.ImageURLs)
	require.Len(t, item.Variants, 2)
	assert.Equal(t, "P000000R000A", item.Variants[0].CombinationID)
	assert.Equal(t, "Color: White / Size: M", item.Variants[0].OptionName)
	assert.Equal(t, 14, item.Variants[0].StockQuantity)
	assert.Equal(t, "SHIRT-WH-M", item.Variants[0].ExternalSKU)
	assert.True(t, item.Variants[1].PriceDelta.Equal(decimal.NewFromInt(2000)))
	assert.False(t, page.Items[1].OnSale)

	// Token is fetched once and cached.
	_, err = adapter.ListCatalogPage(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, 1, *tokenCalls)
}

func TestAdapter_ListCatalogPageOffsetToken(t *testing.T) {
	adapter, _ := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "4", r.URL.Query().Get("offset"))
		json.NewEncoder(w).Encode(productListResponse{
			Products: []product{{ProductNo: 4023, ProductName: "Belt", Price: "9000.00", Selling: "T"}},
		})
	})

	page, err := adapter.ListCatalogPage(context.Background(), "4")
	require.NoError(t, err)
	assert.Equal(t, "5", page.NextPageToken)
	require.Len(t, page.Items, 1)
}

func TestAdapter_ListCatalogPageBadToken(t *testing.T) {
	adapter, _ := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := adapter.ListCatalogPage(context.Background(), "not-a-number")
	assert.ErrorIs(t, err, channel.ErrInvalidResponse)
}

func TestAdapter_SetInventory(t *testing.T) {
	t.Run("variant inventory endpoint", func(t *testing.T) {
		adapter, _ := testServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/api/v2/admin/products/4021/variants/P000000R000A/inventories", r.URL.Path)

			var req variantUpdateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, 9, req.Request.Quantity)
			w.WriteHeader(http.StatusOK)
		})

		err := adapter.SetInventory(context.Background(),
			channel.VariantKey{ProductID: "4021", VariantID: "P000000R000A"}, 9)
		assert.NoError(t, err)
	})

	t.Run("product level key is rejected locally", func(t *testing.T) {
		adapter, _ := testServer(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("no request expected")
		})

		err := adapter.SetInventory(context.Background(),
			channel.VariantKey{ProductID: "4021"}, 9)
		assert.ErrorIs(t, err, channel.ErrInvalidVariantKey)
	})

	t.Run("platform rejection keeps code and message", func(t *testing.T) {
		adapter, _ := testServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			var er errorResponse
			er.Error.Code = "422"
			er.Error.Message = "quantity out of range"
			json.NewEncoder(w).Encode(er)
		})

		err := adapter.SetInventory(context.Background(),
			channel.VariantKey{ProductID: "4021", VariantID: "P000000R000A"}, -1)
		require.Error(t, err)

		var pe *channel.PlatformError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, 422, pe.HTTPStatus)
		assert.Equal(t, "quantity out of range", pe.Message)
	})
}

func TestAdapter_ListChangedOrders(t *testing.T) {
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)

	adapter, _ := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/admin/orders", r.URL.Path)
		assert.Equal(t, "update_date", r.URL.Query().Get("date_type"))
		assert.Equal(t, "2026-08-01", r.URL.Query().Get("start_date"))
		assert.Equal(t, "2026-08-02", r.URL.Query().Get("end_date"))
		assert.Equal(t, "C40", r.URL.Query().Get("order_status"))

		json.NewEncoder(w).Encode(orderListResponse{
			Orders: []order{
				{
					OrderID:     "20260801-0000123",
					OrderDate:   "2026-08-01T10:30:00+09:00",
					OrderStatus: "C40",
					Items: []orderItem{
						{
							OrderItemCode: "20260801-0000123-01",
							ProductNo:     4021,
							ProductName:   "Linen Shirt",
							OptionValue:   "White / M",
							Quantity:      1,
							ProductPrice:  "39000.00",
						},
					},
				},
			},
		})
	})

	ct := channel.ChangeCanceled
	orders, err := adapter.ListChangedOrders(context.Background(), from, to, &ct)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "20260801-0000123", orders[0].OrderID)
	assert.Equal(t, "20260801-0000123-01", orders[0].ProductOrderID)
	assert.Equal(t, channel.ChangeCanceled, orders[0].LastChangedType)
	assert.Equal(t, 2026, orders[0].LastChangedAt.Year())
	require.Len(t, orders[0].Lines, 1)
	assert.Equal(t, "4021", orders[0].Lines[0].ProductID)
	assert.True(t, orders[0].Lines[0].UnitPrice.Equal(decimal.NewFromInt(39000)))
}

func TestAdapter_ListChangedOrdersUnmappableType(t *testing.T) {
	adapter, _ := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	ct := channel.ChangeClaimRejected
	_, err := adapter.ListChangedOrders(context.Background(), time.Now().Add(-time.Hour), time.Now(), &ct)
	assert.ErrorIs(t, err, channel.ErrInvalidChangeType)
}

func TestAdapter_PerformClaimAction(t *testing.T) {
	t.Run("return reject carries reason", func(t *testing.T) {
		adapter, _ := testServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/api/v2/admin/return", r.URL.Path)

			var req claimUpdateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Len(t, req.Requests, 1)
			assert.Equal(t, "20260801-0000123-01", req.Requests[0].OrderItemCode)
			assert.Equal(t, "R90", req.Requests[0].Status)
			assert.Equal(t, "item was worn", req.Requests[0].Reason)
			w.WriteHeader(http.StatusOK)
		})

		err := adapter.PerformClaimAction(context.Background(),
			channel.ClaimReturn, channel.ActionReject, "20260801-0000123-01",
			channel.ActionParams{Reason: "item was worn"})
		assert.NoError(t, err)
	})

	t.Run("exchange dispatch carries tracking", func(t *testing.T) {
		adapter, _ := testServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v2/admin/exchange", r.URL.Path)

			var req claimUpdateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Len(t, req.Requests, 1)
			assert.Equal(t, "E30", req.Requests[0].Status)
			assert.Equal(t, "cj", req.Requests[0].ShippingCompanyCode)
			assert.Equal(t, "inv-100", req.Requests[0].TrackingNo)
			w.WriteHeader(http.StatusOK)
		})

		err := adapter.PerformClaimAction(context.Background(),
			channel.ClaimExchange, channel.ActionDispatch, "20260801-0000123-01",
			channel.ActionParams{CarrierCode: "cj", TrackingNumber: "inv-100"})
		assert.NoError(t, err)
	})

	t.Run("illegal action is rejected before any request", func(t *testing.T) {
		adapter, _ := testServer(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("no request expected")
		})

		err := adapter.PerformClaimAction(context.Background(),
			channel.ClaimCancel, channel.ActionHold, "20260801-0000123-01", channel.ActionParams{})
		assert.ErrorIs(t, err, channel.ErrUnsupportedAction)
	})
}

func TestAdapter_ExpiredTokenIsDropped(t *testing.T) {
	returned401 := false
	adapter, tokenCalls := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !returned401 {
			returned401 = true
			w.WriteHeader(http.StatusUnauthorized)
			var er errorResponse
			er.Error.Message = "access token expired"
			json.NewEncoder(w).Encode(er)
			return
		}
		json.NewEncoder(w).Encode(productListResponse{})
	})

	_, err := adapter.ListCatalogPage(context.Background(), "")
	require.Error(t, err)

	// The 401 evicted the cached token, so the retry mints a fresh one.
	_, err = adapter.ListCatalogPage(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 2, *tokenCalls)
}
