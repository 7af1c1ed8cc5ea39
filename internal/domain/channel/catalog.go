package channel

import (
	"time"

	"github.com/shopspring/decimal"
)

// Code identifies one external marketplace platform.
type Code string

const (
	// CodeNaver is the Naver Smart Store commerce platform.
	CodeNaver Code = "NAVER"
	// CodeCoupang is the Coupang WING open-market platform.
	CodeCoupang Code = "COUPANG"
	// CodeCafe24 is the Cafe24 hosted-shop platform.
	CodeCafe24 Code = "CAFE24"
)

// IsValid returns true if the channel code is one of the supported platforms.
func (c Code) IsValid() bool {
	switch c {
	case CodeNaver, CodeCoupang, CodeCafe24:
		return true
	default:
		return false
	}
}

// String returns the string representation of the channel code.
func (c Code) String() string {
	return string(c)
}

// ParseCode normalizes a caller-supplied channel name. The empty Code is
// returned when the name does not match a supported platform.
func ParseCode(s string) Code {
	switch Code(s) {
	case CodeNaver, CodeCoupang, CodeCafe24:
		return Code(s)
	}
	// Route parameters arrive lowercased.
	switch s {
	case "naver":
		return CodeNaver
	case "coupang":
		return CodeCoupang
	case "cafe24":
		return CodeCafe24
	}
	return ""
}

// CatalogItem is one sellable product as reported by a channel's catalog API.
// ExternalID is the platform-assigned immutable identifier and the only field
// callers may treat as a key; everything else is overwritten on re-sync.
type CatalogItem struct {
	ExternalID string
	Name       string
	Price      decimal.Decimal
	OnSale     bool
	CategoryID string
	ImageURLs  []string
	Variants   []Variant
}

// Variant is one option combination of a CatalogItem.
type Variant struct {
	// CombinationID is the platform's identifier for this option combination,
	// unique within the parent item.
	CombinationID string
	// OptionName is the human-readable option descriptor ("Color: Black / L").
	OptionName    string
	StockQuantity int
	// PriceDelta is the surcharge relative to the item's base price.
	PriceDelta decimal.Decimal
	// ExternalSKU is the seller-managed SKU code, used to cross-reference the
	// internal product catalog. Empty when the seller never assigned one.
	ExternalSKU string
}

// CatalogPage is one page of a channel's catalog listing. Ordering within a
// page is not guaranteed to be stable between runs; consumers must upsert by
// key rather than position.
type CatalogPage struct {
	Items []CatalogItem
	// NextPageToken is the adapter-specific cursor for the following page.
	// Meaningless when Done is true.
	NextPageToken string
	// Done is set when the platform signalled that no further pages exist.
	// Adapters that cannot detect the last page leave it false and rely on
	// the caller's short-page heuristic.
	Done bool
}

// VariantKey addresses an inventory-bearing row on a channel: either a whole
// product (VariantID empty) or a single option combination.
type VariantKey struct {
	ProductID string
	VariantID string
}

// Validate checks that the key addresses something.
func (k VariantKey) Validate() error {
	if k.ProductID == "" {
		return ErrInvalidVariantKey
	}
	return nil
}

// IsVariantLevel reports whether the key addresses one option combination
// rather than the whole product.
func (k VariantKey) IsVariantLevel() bool {
	return k.VariantID != ""
}

// String renders the key as "productID" or "productID/variantID".
func (k VariantKey) String() string {
	if k.VariantID == "" {
		return k.ProductID
	}
	return k.ProductID + "/" + k.VariantID
}

// InventoryChange is a single target-quantity request against a VariantKey.
type InventoryChange struct {
	Key      VariantKey
	Quantity int
}

// Validate checks the change request before it is sent anywhere.
func (c InventoryChange) Validate() error {
	if err := c.Key.Validate(); err != nil {
		return err
	}
	if c.Quantity < 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// ChangeType enumerates the order-status transitions a channel reports through
// its changed-orders feed.
type ChangeType string

const (
	ChangePayed           ChangeType = "PAYED"
	ChangeDispatched      ChangeType = "DISPATCHED"
	ChangeDelivered       ChangeType = "DELIVERED"
	ChangePurchaseDecided ChangeType = "PURCHASE_DECIDED"
	ChangeExchanged       ChangeType = "EXCHANGED"
	ChangeCanceled        ChangeType = "CANCELED"
	ChangeReturned        ChangeType = "RETURNED"
	ChangeClaimRejected   ChangeType = "CLAIM_REJECTED"
)

// IsValid returns true for a known change type.
func (t ChangeType) IsValid() bool {
	switch t {
	case ChangePayed, ChangeDispatched, ChangeDelivered, ChangePurchaseDecided,
		ChangeExchanged, ChangeCanceled, ChangeReturned, ChangeClaimRejected:
		return true
	default:
		return false
	}
}

// String returns the string representation of the change type.
func (t ChangeType) String() string {
	return string(t)
}

// OrderLine is one line item inside a changed order.
type OrderLine struct {
	ProductID   string
	ProductName string
	Option      string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// ChangedOrder is a read-only projection of an order whose status changed on
// the platform. It is consumed and discarded by callers, never mirrored.
type ChangedOrder struct {
	OrderID         string
	ProductOrderID  string
	Lines           []OrderLine
	LastChangedType ChangeType
	LastChangedAt   time.Time
}
