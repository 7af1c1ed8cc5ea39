package coupang

// apiResponse is the common envelope returned by the WING open API
type apiResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// sellerProductListResponse is one page of the seller product list
type sellerProductListResponse struct {
	apiResponse
	NextToken string          `json:"nextToken"`
	Data      []sellerProduct `json:"data"`
}

type sellerProduct struct {
	SellerProductID     int64        `json:"sellerProductId"`
	SellerProductName   string       `json:"sellerProductName"`
	StatusName          string       `json:"statusName"`
	DisplayCategoryCode int64        `json:"displayCategoryCode"`
	SalePrice           float64      `json:"salePrice"`
	Items               []vendorItem `json:"items"`
}

type vendorItem struct {
	VendorItemID      int64   `json:"vendorItemId"`
	ItemName          string  `json:"itemName"`
	SalePrice         float64 `json:"salePrice"`
	StockQuantity     int     `json:"stockQuantity"`
	ExternalVendorSku string  `json:"externalVendorSku"`
}

// ordersheetListResponse is the order list response
type ordersheetListResponse struct {
	apiResponse
	Data []ordersheet `json:"data"`
}

type ordersheet struct {
	OrderID    int64            `json:"orderId"`
	Status     string           `json:"status"`
	OrderedAt  string           `json:"orderedAt"`
	OrderItems []ordersheetItem `json:"orderItems"`
}

type ordersheetItem struct {
	VendorItemID    int64   `json:"vendorItemId"`
	VendorItemName  string  `json:"vendorItemName"`
	ShippingCount   int     `json:"shippingCount"`
	SalesPrice      float64 `json:"salesPrice"`
	SellerProductID int64   `json:"sellerProductId"`
}

// claimActionRequest carries the optional parameters of a claim action
type claimActionRequest struct {
	VendorID            string `json:"vendorId"`
	Reason              string `json:"reason,omitempty"`
	DeliveryCompanyCode string `json:"deliveryCompanyCode,omitempty"`
	InvoiceNumber       string `json:"invoiceNumber,omitempty"`
}
