// Package quote implements the provider-agnostic shipping quote negotiation
// used to answer mid-checkout shipping callbacks.
package quote

import (
	"github.com/shopspring/decimal"
)

// Phase identifies which step of the callback protocol a snapshot belongs to.
type Phase string

const (
	// PhaseInitial is a callback where the buyer has not picked a tier yet.
	PhaseInitial Phase = "initial"
	// PhaseConfirm is a callback carrying the buyer's chosen tier.
	PhaseConfirm Phase = "confirm"
)

// IssueCode is a machine-readable reason an address was rejected.
type IssueCode string

const (
	IssueAddress           IssueCode = "ADDRESS_ERROR"
	IssueCountry           IssueCode = "COUNTRY_ERROR"
	IssueState             IssueCode = "STATE_ERROR"
	IssueZip               IssueCode = "ZIP_ERROR"
	IssueMethodUnavailable IssueCode = "METHOD_UNAVAILABLE"
	IssueStoreUnavailable  IssueCode = "STORE_UNAVAILABLE"
)

// Valid reports whether c is one of the known issue codes.
func (c IssueCode) Valid() bool {
	switch c {
	case IssueAddress, IssueCountry, IssueState, IssueZip, IssueMethodUnavailable, IssueStoreUnavailable:
		return true
	}
	return false
}

// Address is the buyer's shipping address.
// Only PostalCode takes part in validation.
type Address struct {
	AdminArea2  string // city or town
	AdminArea1  string // state or province
	PostalCode  string
	CountryCode string // ISO 3166-1 alpha-2
}

// ChosenTier is the tier the buyer selected on a previous callback.
type ChosenTier struct {
	ID    string
	Price decimal.Decimal
}

// LineItem is an order line carried through unchanged by dialects that echo it.
type LineItem struct {
	Name          string
	Quantity      int
	UnitAmount    Money
	Type          string
	Description   string
	ProductCode   string
	UnitTaxAmount *Money
	URL           string
	ImageURL      string
}

// Snapshot is the neutral view of an inbound callback.
type Snapshot struct {
	ID              string
	Reference       string // provider purchase-unit reference, if any
	Total           Money
	ItemTotal       decimal.Decimal
	ShippingAddress *Address
	ChosenTier      *ChosenTier
	LineItems       []LineItem

	// Passthrough is dialect data the calculator copies to the result untouched.
	Passthrough any
}

// Phase returns the protocol phase implied by the presence of a chosen tier.
func (s *Snapshot) Phase() Phase {
	if s.ChosenTier == nil {
		return PhaseInitial
	}
	return PhaseConfirm
}

// Result is the neutral view of a successful quote.
// Handling, Tax, Insurance, ShippingDiscount and Discount are always zero.
type Result struct {
	ID               string
	Reference        string
	Total            Money
	ItemTotal        decimal.Decimal
	ShippingCost     decimal.Decimal
	Handling         decimal.Decimal
	Tax              decimal.Decimal
	Insurance        decimal.Decimal
	ShippingDiscount decimal.Decimal
	Discount         decimal.Decimal
	Tiers            []Tier
	LineItems        []LineItem
	Passthrough      any
}

// SelectedTier returns the selected tier and true, or false if none is selected.
func (r *Result) SelectedTier() (Tier, bool) {
	for _, t := range r.Tiers {
		if t.IsSelected() {
			return t, true
		}
	}
	return Tier{}, false
}
