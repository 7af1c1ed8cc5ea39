package naver

// tokenResponse is the OAuth2 token endpoint response
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// errorResponse is the common error envelope returned by the commerce API
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// productSearchRequest is the body for the product search endpoint
type productSearchRequest struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

// productSearchResponse is one page of the seller's product list
type productSearchResponse struct {
	Contents   []productContent `json:"contents"`
	Page       int              `json:"page"`
	Size       int              `json:"size"`
	TotalPages int              `json:"totalPages"`
}

type productContent struct {
	OriginProductNo int64         `json:"originProductNo"`
	Name            string        `json:"name"`
	SalePrice       float64       `json:"salePrice"`
	StatusType      string        `json:"statusType"`
	CategoryID      string        `json:"categoryId"`
	Images          []imageInfo   `json:"images"`
	OptionCombos    []optionCombo `json:"optionCombinations"`
}

type imageInfo struct {
	URL string `json:"url"`
}

type optionCombo struct {
	ID                int64   `json:"id"`
	OptionName1       string  `json:"optionName1"`
	OptionName2       string  `json:"optionName2"`
	StockQuantity     int     `json:"stockQuantity"`
	Price             float64 `json:"price"`
	SellerManagerCode string  `json:"sellerManagerCode"`
}

// optionStockUpdateRequest updates option-level stock
type optionStockUpdateRequest struct {
	OptionInfo []optionStockInfo `json:"optionInfo"`
}

type optionStockInfo struct {
	ID            int64 `json:"id"`
	StockQuantity int   `json:"stockQuantity"`
}

// productStockUpdateRequest updates product-level stock
type productStockUpdateRequest struct {
	StockQuantity int `json:"stockQuantity"`
}

// lastChangedStatusesResponse is the changed-orders feed response
type lastChangedStatusesResponse struct {
	Data struct {
		LastChangeStatuses []lastChangeStatus `json:"lastChangeStatuses"`
	} `json:"data"`
}

type lastChangeStatus struct {
	OrderID            string `json:"orderId"`
	ProductOrderID     string `json:"productOrderId"`
	LastChangedType    string `json:"lastChangedType"`
	LastChangedDate    string `json:"lastChangedDate"`
	ProductOrderStatus string `json:"productOrderStatus"`
}

// claimRequest carries the optional parameters of a claim action
type claimRequest struct {
	RejectReason        string `json:"rejectReason,omitempty"`
	HoldReason          string `json:"holdbackReason,omitempty"`
	DeliveryCompanyCode string `json:"deliveryCompanyCode,omitempty"`
	TrackingNumber      string `json:"trackingNumber,omitempty"`
}
