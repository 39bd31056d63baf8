// Package paypal adapts PayPal Orders shipping callbacks to the quote model.
//
// PayPal callbacks are not address-validated: the initial phase always
// answers with the default tiers and a totals breakdown.
package paypal

import (
	"github.com/tournevent/shipcallback/pkg/provider"
	"github.com/tournevent/shipcallback/pkg/quote"
)

const providerName = "paypal"

// Config holds PayPal adapter configuration.
type Config struct {
	RejectionStatus int
}

// Adapter implements provider.Adapter for PayPal.
type Adapter struct {
	config Config
}

// New creates a new PayPal adapter.
func New(cfg Config) *Adapter {
	return &Adapter{config: cfg}
}

// Name returns the provider name.
func (a *Adapter) Name() string {
	return providerName
}

// Profile returns the PayPal behaviour: addresses are not validated.
func (a *Adapter) Profile() provider.Profile {
	return provider.Profile{
		ValidateAddress: false,
		RejectionStatus: a.config.RejectionStatus,
	}
}

// Decode parses a PayPal callback body. The first purchase unit is quoted;
// any further units are carried through to the response unchanged.
func (a *Adapter) Decode(body []byte) (*quote.Snapshot, error) {
	var req CallbackRequest
	if err := provider.DecodeJSON("paypal.decode", body, &req); err != nil {
		return nil, err
	}
	return requestToSnapshot(&req), nil
}

// Encode renders a quote as a PayPal callback response.
func (a *Adapter) Encode(res *quote.Result) ([]byte, error) {
	return provider.EncodeJSON("paypal.encode", resultToResponse(res))
}

// EncodeRejection renders an address rejection.
func (a *Adapter) EncodeRejection(rej *quote.Rejection) ([]byte, error) {
	return provider.EncodeRejection("paypal.encode", rej)
}

// DecodeQuote parses a PayPal callback response.
func (a *Adapter) DecodeQuote(body []byte) (*quote.Result, error) {
	var resp CallbackResponse
	if err := provider.DecodeJSON("paypal.decode_quote", body, &resp); err != nil {
		return nil, err
	}
	return responseToResult(&resp), nil
}

// extraUnits holds purchase units after the first.
type extraUnits []PurchaseUnit

// ============================================================================
// Conversion helpers: API models -> quote models
// ============================================================================

func requestToSnapshot(req *CallbackRequest) *quote.Snapshot {
	unit := req.PurchaseUnits[0]
	snap := &quote.Snapshot{
		ID:        req.ID,
		Reference: unit.ReferenceID,
		Total:     unitMoney(unit.Amount),
	}
	// The incoming breakdown only matters once a tier is chosen; the first
	// callback quotes against the order total.
	if bd := unit.Amount.Breakdown; bd != nil && req.ShippingOption != nil {
		snap.ItemTotal = bd.ItemTotal.Decimal()
	}
	if len(req.PurchaseUnits) > 1 {
		snap.Passthrough = extraUnits(req.PurchaseUnits[1:])
	}
	if addr := req.ShippingAddress; addr != nil {
		snap.ShippingAddress = &quote.Address{
			AdminArea2:  addr.AdminArea2,
			AdminArea1:  addr.AdminArea1,
			PostalCode:  addr.PostalCode,
			CountryCode: addr.CountryCode,
		}
	}
	if opt := req.ShippingOption; opt != nil {
		snap.ChosenTier = &quote.ChosenTier{
			ID:    opt.ID,
			Price: opt.Amount.Decimal(),
		}
	}
	return snap
}

func responseToResult(resp *CallbackResponse) *quote.Result {
	unit := resp.PurchaseUnits[0]
	res := &quote.Result{
		ID:        resp.ID,
		Reference: unit.ReferenceID,
		Total:     unitMoney(unit.Amount),
		Tiers:     make([]quote.Tier, len(resp.ShippingOptions)),
	}
	if bd := unit.Amount.Breakdown; bd != nil {
		res.ItemTotal = bd.ItemTotal.Decimal()
		res.Tax = bd.TaxTotal.Decimal()
		res.ShippingCost = bd.Shipping.Decimal()
	}
	if len(resp.PurchaseUnits) > 1 {
		res.Passthrough = extraUnits(resp.PurchaseUnits[1:])
	}
	for i, opt := range resp.ShippingOptions {
		res.Tiers[i] = quote.Tier{
			ID:          opt.ID,
			Price:       opt.Amount.Money(),
			Kind:        opt.Type,
			Description: opt.Label,
			Selected:    opt.Selected,
		}
	}
	return res
}

func unitMoney(a *UnitAmount) quote.Money {
	return quote.NewMoney(*a.Value, a.CurrencyCode)
}

// ============================================================================
// Conversion helpers: quote models -> API models
// ============================================================================

func resultToResponse(res *quote.Result) *CallbackResponse {
	currency := res.Total.Currency
	total := res.Total.Amount
	first := PurchaseUnit{
		ReferenceID: res.Reference,
		Amount: &UnitAmount{
			Value:        &total,
			CurrencyCode: currency,
			Breakdown: &Breakdown{
				ItemTotal: provider.AmountOf(quote.NewMoney(res.ItemTotal, currency)),
				TaxTotal:  provider.AmountOf(quote.NewMoney(res.Tax, currency)),
				Shipping:  provider.AmountOf(quote.NewMoney(res.ShippingCost, currency)),
			},
		},
	}

	units := []PurchaseUnit{first}
	if extra, ok := res.Passthrough.(extraUnits); ok {
		units = append(units, extra...)
	}

	options := make([]ShippingOption, len(res.Tiers))
	for i, t := range res.Tiers {
		options[i] = ShippingOption{
			ID:       t.ID,
			Amount:   provider.AmountOf(t.Price),
			Type:     t.Kind,
			Label:    t.Description,
			Selected: t.Selected,
		}
	}

	return &CallbackResponse{
		ID:              res.ID,
		PurchaseUnits:   units,
		ShippingOptions: options,
	}
}
