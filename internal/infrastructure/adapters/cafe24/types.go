package cafe24

// tokenResponse is the OAuth2 token endpoint response
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	ExpiresAt    string `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
}

// errorResponse is the admin API error envelope
type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// productListResponse is one page of the product list
type productListResponse struct {
	Products []product `json:"products"`
}

type product struct {
	ProductNo   int64     `json:"product_no"`
	ProductName string    `json:"product_name"`
	Price       string    `json:"price"`
	Display     string    `json:"display"` // T or F
	Selling     string    `json:"selling"` // T or F
	CategoryNo  int64     `json:"category_no"`
	DetailImage string    `json:"detail_image"`
	Variants    []variant `json:"variants"`
}

type variant struct {
	VariantCode       string   `json:"variant_code"`
	Options           []option `json:"options"`
	Quantity          int      `json:"quantity"`
	AdditionalPrice   string   `json:"additional_amount"`
	CustomVariantCode string   `json:"custom_variant_code"`
}

type option struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// variantUpdateRequest updates one variant's quantity
type variantUpdateRequest struct {
	Request struct {
		Quantity int `json:"quantity"`
	} `json:"request"`
}

// orderListResponse is the order list response
type orderListResponse struct {
	Orders []order `json:"orders"`
}

type order struct {
	OrderID     string      `json:"order_id"`
	OrderDate   string      `json:"order_date"`
	OrderStatus string      `json:"order_status"`
	Items       []orderItem `json:"items"`
}

type orderItem struct {
	OrderItemCode string `json:"order_item_code"`
	ProductNo     int64  `json:"product_no"`
	ProductName   string `json:"product_name"`
	OptionValue   string `json:"option_value"`
	Quantity      int    `json:"quantity"`
	ProductPrice  string `json:"product_price"`
	StatusCode    string `json:"order_status"`
}

// claimUpdateRequest carries a claim status transition
type claimUpdateRequest struct {
	Requests []claimUpdate `json:"requests"`
}

type claimUpdate struct {
	OrderItemCode       string `json:"order_item_code"`
	Status              string `json:"status"`
	Reason              string `json:"reason,omitempty"`
	ShippingCompanyCode string `json:"shipping_company_code,omitempty"`
	TrackingNo          string `json:"tracking_no,omitempty"`
}
