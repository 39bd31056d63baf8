package braintree

import (
	"github.com/shopspring/decimal"
	"github.com/tournevent/shipcallback/pkg/provider"
)

// ============================================================================
// Wire types (Braintree shipping callback, snake_case)
// ============================================================================

// ShippingAddress is the buyer address sent with a callback.
type ShippingAddress struct {
	AdminArea2  string `json:"admin_area_2,omitempty"`
	AdminArea1  string `json:"admin_area_1,omitempty"`
	PostalCode  string `json:"postal_code" validate:"required"`
	CountryCode string `json:"country_code" validate:"required"`
}

// ShippingOption is a tier as Braintree names it.
type ShippingOption struct {
	ID          string           `json:"id" validate:"required"`
	Amount      *provider.Amount `json:"amount" validate:"required"`
	Type        string           `json:"type,omitempty"`
	Description string           `json:"description,omitempty"`
	Selected    *bool            `json:"selected,omitempty"`
}

// LineItem is an order line; it is echoed back untouched.
type LineItem struct {
	Name          string            `json:"name" validate:"required"`
	Quantity      provider.Quantity `json:"quantity" validate:"min=1"`
	UnitAmount    *provider.Amount  `json:"unit_amount" validate:"required"`
	Type          string            `json:"type,omitempty"`
	Description   string            `json:"description,omitempty"`
	ProductCode   string            `json:"product_code,omitempty"`
	UnitTaxAmount *provider.Amount  `json:"unit_tax_amount,omitempty"`
	URL           string            `json:"url,omitempty"`
	ImageURL      string            `json:"image_url,omitempty"`
}

// CallbackRequest is the body Braintree posts to the shipping callback.
type CallbackRequest struct {
	ID              string           `json:"id" validate:"required"`
	Amount          *provider.Amount `json:"amount" validate:"required"`
	ItemTotal       decimal.Decimal  `json:"item_total"`
	ShippingAddress *ShippingAddress `json:"shipping_address" validate:"required"`
	ShippingOption  *ShippingOption  `json:"shipping_option,omitempty"`
	LineItems       []LineItem       `json:"line_items,omitempty" validate:"omitempty,dive"`
}

// CallbackResponse is the body returned to Braintree with refreshed tiers.
type CallbackResponse struct {
	ID               string           `json:"id" validate:"required"`
	Amount           *provider.Amount `json:"amount" validate:"required"`
	ItemTotal        decimal.Decimal  `json:"item_total"`
	Shipping         decimal.Decimal  `json:"shipping"`
	Handling         decimal.Decimal  `json:"handling"`
	TaxTotal         decimal.Decimal  `json:"tax_total"`
	Insurance        decimal.Decimal  `json:"insurance"`
	ShippingDiscount decimal.Decimal  `json:"shipping_discount"`
	Discount         decimal.Decimal  `json:"discount"`
	ShippingOptions  []ShippingOption `json:"shipping_options" validate:"required,dive"`
	LineItems        []LineItem       `json:"line_items,omitempty" validate:"omitempty,dive"`
}
