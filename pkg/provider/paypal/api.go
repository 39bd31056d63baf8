package paypal

import (
	"github.com/shopspring/decimal"
	"github.com/tournevent/shipcallback/pkg/provider"
)

// ============================================================================
// Wire types (PayPal Orders shipping callback, snake_case)
// ============================================================================

// ShippingAddress is the buyer address sent with a callback.
type ShippingAddress struct {
	AdminArea2  string `json:"admin_area_2,omitempty"`
	AdminArea1  string `json:"admin_area_1,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
	CountryCode string `json:"country_code" validate:"required"`
}

// ShippingOption is a tier as PayPal names it.
type ShippingOption struct {
	ID       string           `json:"id" validate:"required"`
	Amount   *provider.Amount `json:"amount" validate:"required"`
	Type     string           `json:"type,omitempty"`
	Label    string           `json:"label,omitempty"`
	Selected *bool            `json:"selected,omitempty"`
}

// Breakdown itemises a purchase unit amount.
type Breakdown struct {
	ItemTotal *provider.Amount `json:"item_total,omitempty"`
	TaxTotal  *provider.Amount `json:"tax_total,omitempty"`
	Shipping  *provider.Amount `json:"shipping,omitempty"`
}

// UnitAmount is a purchase unit amount with its optional breakdown.
type UnitAmount struct {
	Value        *decimal.Decimal `json:"value" validate:"required"`
	CurrencyCode string           `json:"currency_code" validate:"required"`
	Breakdown    *Breakdown       `json:"breakdown,omitempty"`
}

// PurchaseUnit is one unit of a PayPal order.
type PurchaseUnit struct {
	ReferenceID string      `json:"reference_id" validate:"required"`
	Amount      *UnitAmount `json:"amount" validate:"required"`
}

// CallbackRequest is the body PayPal posts to the shipping callback.
type CallbackRequest struct {
	ID              string           `json:"id" validate:"required"`
	ShippingAddress *ShippingAddress `json:"shipping_address,omitempty"`
	ShippingOption  *ShippingOption  `json:"shipping_option,omitempty"`
	PurchaseUnits   []PurchaseUnit   `json:"purchase_units" validate:"required,min=1,dive"`
}

// CallbackResponse is the body returned to PayPal with refreshed tiers.
type CallbackResponse struct {
	ID              string           `json:"id" validate:"required"`
	PurchaseUnits   []PurchaseUnit   `json:"purchase_units" validate:"required,min=1,dive"`
	ShippingOptions []ShippingOption `json:"shipping_options" validate:"required,dive"`
}
